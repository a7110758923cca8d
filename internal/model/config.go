package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Collaborator provider identifiers for AIConfig.Provider.
const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
)

// AIConfig holds settings for the optional language-model collaborator.
type AIConfig struct {
	// Provider selects the collaborator backend: "anthropic", "groq",
	// or "none" for template-only responses.
	Provider string `mapstructure:"provider" yaml:"provider"`

	Model      string `mapstructure:"model" yaml:"model"`
	MaxTokens  int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// MailboxConfig holds settings for the mock mailbox store.
type MailboxConfig struct {
	// SeedDir optionally points at a directory of .eml files used to
	// seed the mailbox in addition to the built-in sample records.
	SeedDir string `mapstructure:"seed_dir" yaml:"seed_dir"`

	// ListLimit is the default number of records returned by listing
	// and search operations.
	ListLimit int `mapstructure:"list_limit" yaml:"list_limit"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	AI      AIConfig      `mapstructure:"ai" yaml:"ai"`
	Mailbox MailboxConfig `mapstructure:"mailbox" yaml:"mailbox"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/inboxassistant/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "inboxassistant", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		AI: AIConfig{
			Provider:   ProviderNone,
			Model:      "",
			MaxTokens:  1024,
			TimeoutSec: 30,
		},
		Mailbox: MailboxConfig{
			ListLimit: 10,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("ai.provider", ProviderNone)
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("ai.timeout_sec", 30)
	v.SetDefault("mailbox.list_limit", 10)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("ai", cfg.AI)
	v.Set("mailbox", cfg.Mailbox)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
