// Package config defines the tasknest configuration schema.
//
// Keys use camelCase in both the JSON and YAML forms of the config file.
package config

import (
	"os"
	"path/filepath"
)

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// AuthConfig configures JWT issuance for the gateway.
type AuthConfig struct {
	Secret       string `json:"secret" yaml:"secret"`
	TokenTTLDays int    `json:"tokenTtlDays" yaml:"tokenTtlDays"`
}

// ProviderConfig holds credentials and defaults for the model backend.
// Leaving APIKey empty, or setting Disabled, selects the fallback parser.
type ProviderConfig struct {
	APIKey      string  `json:"apiKey" yaml:"apiKey"`
	APIBase     string  `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	MaxTokens   int     `json:"maxTokens" yaml:"maxTokens"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxToolIter int     `json:"maxToolIterations" yaml:"maxToolIterations"`
	Disabled    bool    `json:"disabled" yaml:"disabled"`
}

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Token     string   `json:"token" yaml:"token"`
	AllowFrom []string `json:"allowFrom" yaml:"allowFrom"`
}

// SlackConfig configures the Slack channel (Socket Mode).
type SlackConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	BotToken  string   `json:"botToken" yaml:"botToken"`
	AppToken  string   `json:"appToken" yaml:"appToken"`
	AllowFrom []string `json:"allowFrom" yaml:"allowFrom"`
}

// ChannelsConfig groups the chat-platform channels.
type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
	Slack    SlackConfig    `json:"slack" yaml:"slack"`
}

// DigestConfig configures the scheduled pending-task digest.
type DigestConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Schedule string `json:"schedule" yaml:"schedule"` // cron expression
}

// Config is the root configuration object, constructed once at process start
// and passed by reference; there is no module-level config state.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Auth     AuthConfig     `json:"auth" yaml:"auth"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Channels ChannelsConfig `json:"channels" yaml:"channels"`
	Digest   DigestConfig   `json:"digest" yaml:"digest"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8780},
		Database: DatabaseConfig{Path: filepath.Join(DataDir(), "tasknest.db")},
		Auth:     AuthConfig{TokenTTLDays: 7},
		Provider: ProviderConfig{
			Model:       "gpt-4o-mini",
			MaxTokens:   4096,
			Temperature: 0.7,
			MaxToolIter: 5,
		},
		Channels: ChannelsConfig{
			Telegram: TelegramConfig{AllowFrom: []string{}},
			Slack:    SlackConfig{AllowFrom: []string{}},
		},
		Digest: DigestConfig{Schedule: "0 9 * * *"},
	}
}

// ModelEnabled reports whether a model backend should be used at all.
func (c *Config) ModelEnabled() bool {
	return !c.Provider.Disabled && c.Provider.APIKey != ""
}

// ConfigPath returns the default configuration file path: ~/.tasknest/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the tasknest data directory: ~/.tasknest.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasknest"
	}
	return filepath.Join(home, ".tasknest")
}
