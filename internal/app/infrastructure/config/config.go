package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"twitchvoice/pkg/logger"
)

// TokenEnv overrides the token from the file without persisting it.
const TokenEnv = "TWITCH_OAUTH_TOKEN"

type Source int

const (
	FromFile Source = iota
	// DefaultsWritten means the file was missing and the defaults were saved in its place.
	DefaultsWritten
	// DefaultsInMemory means the file could not be used and was left untouched.
	DefaultsInMemory
)

func (s Source) String() string {
	switch s {
	case FromFile:
		return "file"
	case DefaultsWritten:
		return "defaults_written"
	case DefaultsInMemory:
		return "defaults_in_memory"
	}
	return "unknown"
}

type Manager struct {
	log logger.Logger

	mu     sync.RWMutex
	cfg    *Config
	path   string
	source Source
}

// New loads path. Configuration problems never fail startup: a missing file is replaced
// with the defaults, an unreadable or invalid one is kept as is while the defaults are
// used in memory so the operator can fix it.
func New(log logger.Logger, path string) *Manager {
	if path == "" {
		path = DefaultPath
	}
	m := &Manager{log: log, path: path}

	cfg, err := m.readParseValidate(path)
	switch {
	case err == nil:
		m.cfg, m.source = cfg, FromFile
		log.Info("Config loaded", slog.String("path", path))
	case errors.Is(err, os.ErrNotExist):
		m.cfg, m.source = Default(), DefaultsWritten
		log.Warn("Config file not found, saving defaults", slog.String("path", path))
		if err := m.saveLocked(); err != nil {
			log.Error("Failed to save default config", err, slog.String("path", path))
		}
	default:
		m.cfg, m.source = Default(), DefaultsInMemory
		log.Error("Failed to load config, using defaults; fix or delete the file and restart", err, slog.String("path", path))
	}

	return m
}

// Get returns a copy of the current config with environment overrides applied.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := *m.cfg
	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Token = token
	}
	return &cfg
}

func (m *Manager) Source() Source {
	return m.source
}

func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) readParseValidate(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open/read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	normalize(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return cfg, nil
}

func (m *Manager) saveLocked() error {
	data, err := toml.Marshal(m.cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return m.writeAtomic(m.path, data, 0600)
}

func (m *Manager) writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", base, time.Now().UnixNano()))

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
