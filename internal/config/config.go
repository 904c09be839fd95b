package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	FrontendTUI     = "tui"
	FrontendConsole = "console"
)

type Config struct {
	DataPath       string `json:"data_path"`
	Backend        string `json:"backend"`
	DBPath         string `json:"db_path"`
	Frontend       string `json:"frontend"`
	WebEnabled     bool   `json:"web_enabled"`
	WebPort        int    `json:"web_port"`
	LogPath        string `json:"log_path"`
	LogDevelopment bool   `json:"log_development"`
}

func Default() Config {
	return Config{
		Backend:  BackendFile,
		Frontend: FrontendTUI,
		WebPort:  8080,
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gideon", "config.json"), nil
}

// ApplyDefaults fills empty paths relative to the directory holding the
// config file.
func (c *Config) ApplyDefaults(configPath string) {
	dir := filepath.Dir(configPath)
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Frontend == "" {
		c.Frontend = FrontendTUI
	}
	if c.DataPath == "" {
		c.DataPath = filepath.Join(dir, "data", "gideon.txt")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "gideon.db")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(dir, "gideon.log")
	}
	if c.WebPort == 0 {
		c.WebPort = 8080
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendFile, BackendSQLite)
	}
	switch c.Frontend {
	case FrontendTUI, FrontendConsole:
	default:
		return fmt.Errorf("unknown frontend %q (want %q or %q)", c.Frontend, FrontendTUI, FrontendConsole)
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web port %d", c.WebPort)
	}
	return nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
