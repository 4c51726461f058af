package config

import (
	"strings"
	"time"
)

type Config struct {
	ServerAddress    string `toml:"server_address"`
	Nick             string `toml:"nick"`
	Token            string `toml:"token"`
	Channel          string `toml:"channel"`
	LogLevel         string `toml:"log_level"`
	AntiIdle         int    `toml:"anti_idle"` // keepalive period, seconds
	PingHost         string `toml:"ping_host"`
	ConnectTimeout   int    `toml:"connect_timeout"`
	HandshakeTimeout int    `toml:"handshake_timeout"` // 0 disables
	ProxyAddress     string `toml:"proxy_address"`     // SOCKS5 host:port
	QueueCapacity    int    `toml:"queue_capacity"`    // 0 = unbounded
	QueuePolicy      string `toml:"queue_policy"`

	HTTP      HTTP      `toml:"http"`
	Responder Responder `toml:"responder"`
	Speech    Speech    `toml:"speech"`
}

type HTTP struct {
	Address   string `toml:"address"`
	AuthToken string `toml:"auth_token"`
}

type Responder struct {
	Enabled           bool   `toml:"enabled"`
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	Model             string `toml:"model"`
	SystemPrompt      string `toml:"system_prompt"`
	MaxReplyChars     int    `toml:"max_reply_chars"`
	HistoryTurns      int    `toml:"history_turns"`
	HistoryTTL        int    `toml:"history_ttl"`
	UserRatePerMinute int    `toml:"user_rate_per_minute"`
	RequestTimeout    int    `toml:"request_timeout"`
}

type Speech struct {
	Enabled bool   `toml:"enabled"`
	Voice   string `toml:"voice"`
}

func (c *Config) AntiIdleInterval() time.Duration {
	return time.Duration(c.AntiIdle) * time.Second
}

func (c *Config) ConnectTimeoutDuration() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

func (c *Config) HandshakeTimeoutDuration() time.Duration {
	return time.Duration(c.HandshakeTimeout) * time.Second
}

// OAuthToken returns the token without the "oauth:" scheme the PASS line adds itself.
func (c *Config) OAuthToken() string {
	return strings.TrimPrefix(c.Token, "oauth:")
}

// ChannelName returns the channel without a leading '#'.
func (c *Config) ChannelName() string {
	return strings.TrimPrefix(c.Channel, "#")
}
