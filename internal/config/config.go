package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultUndoGracePeriod = 5 * time.Second

type ServerConfig struct {
	URL      string `yaml:"url"`
	Enabled  bool   `yaml:"enabled"`
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	UserID   string `yaml:"user_id"`
}

// SignedIn reports whether a saved session should be used on startup.
func (s ServerConfig) SignedIn() bool {
	return s.Enabled && s.URL != "" && s.Token != "" && s.UserID != ""
}

// ClearSession forgets the saved identity but keeps the server URL.
func (s *ServerConfig) ClearSession() {
	s.Enabled = false
	s.Token = ""
	s.Username = ""
	s.UserID = ""
}

type Config struct {
	DBPath          string        `yaml:"db_path"`
	Language        string        `yaml:"language"`
	LogLevel        string        `yaml:"log_level"`
	UndoGracePeriod time.Duration `yaml:"undo_grace_period"`
	Server          ServerConfig  `yaml:"server"`
}

func DefaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yml")
}

func DefaultDBPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "volon.db"
	}
	return filepath.Join(filepath.Dir(exe), "volon.db")
}

func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func Default() *Config {
	return &Config{
		DBPath:          DefaultDBPath(),
		Language:        "en",
		LogLevel:        "info",
		UndoGracePeriod: DefaultUndoGracePeriod,
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if strings.HasPrefix(cfg.DBPath, "~") {
		home, _ := os.UserHomeDir()
		cfg.DBPath = filepath.Join(home, cfg.DBPath[1:])
	}
	if cfg.UndoGracePeriod <= 0 {
		cfg.UndoGracePeriod = DefaultUndoGracePeriod
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// LogPath is the client log file, kept next to the database.
func (c *Config) LogPath() string {
	return filepath.Join(filepath.Dir(c.DBPath), "volon.log")
}
