package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	xdgAppName = "taskweb"
	configFile = "config.toml"
	envPrefix  = "TASKWEB"

	DefaultCalendar = "Tasks"
)

type Config struct {
	Listen   string         `mapstructure:"listen"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

type TaskConfig struct {
	Binary        string        `mapstructure:"binary"`
	RC            string        `mapstructure:"rc"`
	Data          string        `mapstructure:"data"`
	ListTimeout   time.Duration `mapstructure:"list_timeout"`
	MutateTimeout time.Duration `mapstructure:"mutate_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CalendarConfig struct {
	Name string `mapstructure:"name"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Listen: ":8080",
		Task: TaskConfig{
			Binary:        "task",
			ListTimeout:   30 * time.Second,
			MutateTimeout: 10 * time.Second,
		},
		Log:      LogConfig{Level: "info"},
		Calendar: CalendarConfig{Name: DefaultCalendar},
	}
}

// Dir is the directory holding config.toml and the calendar credentials.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// GetConfigPath returns the default config file location.
func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// New returns a viper instance with defaults, environment binding and the
// config file at path (or the default location when path is empty).
func New(path string) (*viper.Viper, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("listen", d.Listen)
	v.SetDefault("task.binary", d.Task.Binary)
	v.SetDefault("task.rc", d.Task.RC)
	v.SetDefault("task.data", d.Task.Data)
	v.SetDefault("task.list_timeout", d.Task.ListTimeout)
	v.SetDefault("task.mutate_timeout", d.Task.MutateTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("calendar.name", d.Calendar.Name)
}

// Load reads the config file if present and decodes the merged settings.
// A missing file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Calendar.Name == "" {
		cfg.Calendar.Name = DefaultCalendar
	}
	if cfg.Task.RC == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Task.RC = filepath.Join(home, ".taskrc")
		}
	}
	return &cfg, nil
}

// Save writes the settings held by v to its config file.
func Save(v *viper.Viper) error {
	path := v.ConfigFileUsed()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(path, 0600)
}

// SetCalendar stores the default calendar name in the config file at path
// (or the default location when path is empty). Only the keys already in
// the file and calendar.name are written; defaults and TASKWEB_*
// overrides stay out of it.
func SetCalendar(path, name string) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	v.Set("calendar.name", name)
	return Save(v)
}
