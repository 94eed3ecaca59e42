package internal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type RaptorConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Root            string `mapstructure:"root"`
		DefaultDatabase string `mapstructure:"default_database"`
		Degree          int    `mapstructure:"degree"`
	} `mapstructure:"storage"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// LoadConfig reads the YAML file at path (skipped when path is empty),
// applies defaults and then RAPTOR_* environment overrides.
// RAPTOR_DB_PATH sets storage.root.
func LoadConfig(path string) (*RaptorConfig, error) {
	v := viper.New()
	v.SetDefault("app_name", "raptordb")
	v.SetDefault("storage.root", "./Databases")
	v.SetDefault("storage.default_database", "default_db")
	v.SetDefault("storage.degree", 3)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("RAPTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("storage.root", "RAPTOR_DB_PATH", "RAPTOR_STORAGE_ROOT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg RaptorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Storage.Degree < 2 {
		return nil, fmt.Errorf("storage.degree must be at least 2, got %d", cfg.Storage.Degree)
	}
	if strings.TrimSpace(cfg.Storage.Root) == "" {
		return nil, fmt.Errorf("storage.root must not be empty")
	}
	return &cfg, nil
}

// SlogLevel maps log.level to a slog level; unknown names mean info.
func (c *RaptorConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
