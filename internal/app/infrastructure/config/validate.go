package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var validLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true}

var validPolicies = map[string]bool{"block": true, "drop_oldest": true, "reject": true}

// normalize fills zero values from defaults so that a partial file still yields a usable config.
func normalize(cfg *Config) {
	def := Default()

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = def.ServerAddress
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.AntiIdle <= 0 {
		cfg.AntiIdle = def.AntiIdle
	}
	if cfg.PingHost == "" {
		cfg.PingHost = def.PingHost
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.HandshakeTimeout < 0 {
		cfg.HandshakeTimeout = 0
	}
	if cfg.QueueCapacity < 0 {
		cfg.QueueCapacity = 0
	}
	if cfg.QueuePolicy == "" {
		cfg.QueuePolicy = def.QueuePolicy
	}

	r := &cfg.Responder
	if r.MaxReplyChars <= 0 {
		r.MaxReplyChars = def.Responder.MaxReplyChars
	}
	if r.HistoryTurns < 0 {
		r.HistoryTurns = 0
	}
	if r.HistoryTTL <= 0 {
		r.HistoryTTL = def.Responder.HistoryTTL
	}
	if r.RequestTimeout <= 0 {
		r.RequestTimeout = def.Responder.RequestTimeout
	}
	if r.SystemPrompt == "" {
		r.SystemPrompt = def.Responder.SystemPrompt
	}
}

func validate(cfg *Config) error {
	if !validLevels[cfg.LogLevel] {
		return fmt.Errorf("log_level must be one of trace, debug, info, warn, error, fatal; got %s", cfg.LogLevel)
	}

	u, err := url.Parse(cfg.ServerAddress)
	if err != nil {
		return fmt.Errorf("server_address: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server_address must be a ws:// or wss:// url; got %s", cfg.ServerAddress)
	}

	if cfg.Nick == "" {
		return errors.New("nick is required")
	}
	if cfg.ChannelName() == "" {
		return errors.New("channel is required")
	}
	if !validPolicies[cfg.QueuePolicy] {
		return fmt.Errorf("queue_policy must be one of block, drop_oldest, reject; got %s", cfg.QueuePolicy)
	}
	return nil
}
