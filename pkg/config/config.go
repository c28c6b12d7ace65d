package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "spacepod"
	configFile = "config.yaml"
	envPrefix  = "SPACEPOD"
)

type Config struct {
	Storage   Storage   `mapstructure:"storage" yaml:"storage"`
	Reminders Reminders `mapstructure:"reminders" yaml:"reminders"`
	Catalog   Catalog   `mapstructure:"catalog" yaml:"catalog"`
	Logging   Logging   `mapstructure:"logging" yaml:"logging"`
}

type Storage struct {
	// Backend is file, nutsdb or memory.
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path defaults to a location under the config directory.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

type Reminders struct {
	// Backend is log, google or none.
	Backend  string `mapstructure:"backend" yaml:"backend"`
	Calendar string `mapstructure:"calendar" yaml:"calendar"`
	Hour     int    `mapstructure:"hour" yaml:"hour"`
	Minute   int    `mapstructure:"minute" yaml:"minute"`
}

type Catalog struct {
	// Path to a YAML subject catalog; empty uses the built-in one.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

type Logging struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Dir returns ~/.config/spacepod.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "")
	v.SetDefault("reminders.backend", "log")
	v.SetDefault("reminders.calendar", "Tasks")
	v.SetDefault("reminders.hour", 15)
	v.SetDefault("reminders.minute", 30)
	v.SetDefault("catalog.path", "")
	v.SetDefault("logging.level", "info")
}

// Load reads path (or the default location when empty). A missing file is
// not an error. SPACEPOD_* environment variables override file values, e.g.
// SPACEPOD_STORAGE_BACKEND.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile is Load without environment overrides. Use it when the result is
// going to be written back.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, env bool) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v)
	if env {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Update applies fn to the file contents at path and saves the result.
// Environment overrides are neither applied nor persisted.
func Update(path string, fn func(*Config)) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	fn(cfg)
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path (or the default location when empty).
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
