package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds media server configuration
type ServerConfig struct {
	URL          string `mapstructure:"url"`           // Server URL
	Token        string `mapstructure:"token"`         // X-Plex-Token
	TranscodeURL string `mapstructure:"transcode_url"` // Optional dedicated transcoder
}

// ClientConfig identifies this client to the server
type ClientConfig struct {
	Identifier string `mapstructure:"identifier"` // X-Plex-Client-Identifier, generated on first run
	Product    string `mapstructure:"product"`
	Platform   string `mapstructure:"platform"` // also the X-Plex-Platform of stream URLs
}

// PlayerConfig selects the external player used by the play command
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // Player command, empty to auto-detect
	Args    []string `mapstructure:"args"`    // Extra arguments placed before the URL
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// envKeyReplacer maps nested keys like server.url to PLEXVIDEO_SERVER_URL
var envKeyReplacer = strings.NewReplacer(".", "_")

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Product:  "PlexVideo",
			Platform: "Chrome",
		},
		Logging: LoggingConfig{
			File:       defaultLogPath(),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "plexvideo", "plexvideo.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "plexvideo", "plexvideo.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "plexvideo")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "plexvideo")
	}
}

// NewViper returns a viper instance reading config.yaml from dirs (the
// default config directory and "." when none are given) with PLEXVIDEO_*
// environment overrides.
func NewViper(dirs ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{defaultConfigPath(), "."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("PLEXVIDEO")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Defaults must be registered for AutomaticEnv to see nested keys
	def := DefaultConfig()
	v.SetDefault("server.url", def.Server.URL)
	v.SetDefault("server.token", def.Server.Token)
	v.SetDefault("server.transcode_url", def.Server.TranscodeURL)
	v.SetDefault("client.identifier", def.Client.Identifier)
	v.SetDefault("client.product", def.Client.Product)
	v.SetDefault("client.platform", def.Client.Platform)
	v.SetDefault("player.command", def.Player.Command)
	v.SetDefault("player.args", def.Player.Args)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.max_size_mb", def.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", def.Logging.MaxBackups)
	return v
}

// LoadConfig loads configuration from file and environment
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// EnsureIdentifier generates a client identifier when none is configured.
// It reports whether the config changed and should be saved.
func (c *Config) EnsureIdentifier() bool {
	if c.Client.Identifier != "" {
		return false
	}
	c.Client.Identifier = uuid.NewString()
	return true
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// SaveConfig writes cfg to config.yaml in dir, or in the default config
// directory when dir is empty
func SaveConfig(v *viper.Viper, cfg *Config, dir string) error {
	if dir == "" {
		dir = defaultConfigPath()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.token", cfg.Server.Token)
	v.Set("server.transcode_url", cfg.Server.TranscodeURL)

	v.Set("client.identifier", cfg.Client.Identifier)
	v.Set("client.product", cfg.Client.Product)
	v.Set("client.platform", cfg.Client.Platform)

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.Set("logging.max_backups", cfg.Logging.MaxBackups)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveToken updates just the token and writes the configuration
func SaveToken(v *viper.Viper, cfg *Config, token, dir string) error {
	cfg.Server.Token = token
	return SaveConfig(v, cfg, dir)
}
