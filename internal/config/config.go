package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// ErrNotFound indicates the config file does not exist. There is no safe
// default for transport credentials, so callers treat this as fatal.
var ErrNotFound = errors.New("config not found")

// Config root configuration
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram" json:"telegram"`
	Bridge    BridgeConfig    `mapstructure:"bridge" json:"bridge"`
	Approvals ApprovalsConfig `mapstructure:"approvals" json:"approvals"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
}

// TelegramConfig telegram bot settings
type TelegramConfig struct {
	Token  string `mapstructure:"token" json:"token"`
	ChatID int64  `mapstructure:"chat_id" json:"chat_id"`
}

// BridgeConfig shared bridge state settings
type BridgeConfig struct {
	DataDir string `mapstructure:"data_dir" json:"data_dir"`
}

// ApprovalsConfig permission hook settings
type ApprovalsConfig struct {
	AutoApprove    []string `mapstructure:"auto_approve" json:"auto_approve"`
	AutoDeny       []string `mapstructure:"auto_deny" json:"auto_deny"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

// LogConfig application logging settings
type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	File  string `mapstructure:"file" json:"file"`
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{},
		Bridge: BridgeConfig{
			DataDir: filepath.Join(os.TempDir(), "ccbridge"),
		},
		Approvals: ApprovalsConfig{
			AutoApprove:    []string{"Read", "Glob", "Grep"},
			AutoDeny:       []string{},
			TimeoutSeconds: 60,
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// ConfigDir returns the ccbridge config directory
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".ccbridge")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load loads config from file. A missing file is an error: the bridge
// cannot operate without transport credentials.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, fmt.Errorf("%w: %s (run 'ccbridge init')", ErrNotFound, configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix("CCBRIDGE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.MatchName = func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		}
	}); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func normalizeKey(input string) string {
	input = strings.ReplaceAll(input, "_", "")
	input = strings.ReplaceAll(input, "-", "")
	return strings.ToLower(input)
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Validate checks that the configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Approvals.TimeoutSeconds < 0 {
		return fmt.Errorf("approvals.timeout_seconds must not be negative, got %d", c.Approvals.TimeoutSeconds)
	}
	if c.Approvals.TimeoutSeconds == 0 {
		c.Approvals.TimeoutSeconds = 60
	}

	if c.Telegram.ChatID < 0 {
		return fmt.Errorf("telegram.chat_id must not be negative, got %d", c.Telegram.ChatID)
	}

	if strings.TrimSpace(c.Bridge.DataDir) == "" {
		c.Bridge.DataDir = filepath.Join(os.TempDir(), "ccbridge")
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if level == "" {
		c.Log.Level = "info"
	} else {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[level] {
			return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
		}
		c.Log.Level = level
	}

	return nil
}
