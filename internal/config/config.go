// Package config loads the watcher configuration from a TOML file and
// TWWATCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/loykin/twwatch/internal/env"
	"github.com/loykin/twwatch/internal/logger"
	"github.com/loykin/twwatch/internal/target"
)

// EnvPrefix prefixes environment variables that override file settings,
// e.g. TWWATCH_AUTO_DETECT or TWWATCH_LOG_LEVEL.
const EnvPrefix = "TWWATCH"

// FileConfig represents the top-level TOML structure.
type FileConfig struct {
	AutoDetect    bool                 `toml:"auto_detect" mapstructure:"auto_detect"`
	RootDirectory string               `toml:"root_directory" mapstructure:"root_directory"`
	Inputs        []target.WatchTarget `toml:"inputs" mapstructure:"inputs"`
	Env           []string             `toml:"env" mapstructure:"env"`
	EnvFiles      []string             `toml:"env_files" mapstructure:"env_files"`
	UseOSEnv      bool                 `toml:"use_os_env" mapstructure:"use_os_env"`
	Log           LogConfig            `toml:"log" mapstructure:"log"`
	Server        ServerConfig         `toml:"server" mapstructure:"server"`
	History       HistoryConfig        `toml:"history" mapstructure:"history"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	Format     string `toml:"format" mapstructure:"format"`
	Color      bool   `toml:"color" mapstructure:"color"`
	TimeStamps bool   `toml:"timestamps" mapstructure:"timestamps"`
	Dir        string `toml:"dir" mapstructure:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

// ServerConfig enables the status API when Listen is set.
type ServerConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
}

// HistoryConfig enables launch history when DSN is set.
type HistoryConfig struct {
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults also make the keys visible to AutomaticEnv during Unmarshal
	v.SetDefault("auto_detect", false)
	v.SetDefault("root_directory", "")
	v.SetDefault("use_os_env", true)
	v.SetDefault("log.level", string(logger.LevelInfo))
	v.SetDefault("log.format", string(logger.FormatText))
	v.SetDefault("log.color", false)
	v.SetDefault("log.timestamps", true)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.max_size_mb", logger.DefaultMaxSizeMB)
	v.SetDefault("log.max_backups", logger.DefaultMaxBackups)
	v.SetDefault("log.max_age_days", logger.DefaultMaxAgeDays)
	v.SetDefault("log.compress", false)
	v.SetDefault("server.listen", "")
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("history.dsn", "")
	return v
}

// Load reads path (when non-empty) and applies environment overrides.
// Relative root_directory, env_files and log.dir entries are resolved against
// the directory of the config file.
func Load(path string) (*FileConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if path != "" {
		fc.resolvePaths(filepath.Dir(path))
	}
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (fc *FileConfig) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	fc.RootDirectory = abs(fc.RootDirectory)
	fc.Log.Dir = abs(fc.Log.Dir)
	for i, p := range fc.EnvFiles {
		fc.EnvFiles[i] = abs(p)
	}
}

// Validate checks the decoded configuration.
func (fc *FileConfig) Validate() error {
	var errs []error
	for i, in := range fc.Inputs {
		if strings.TrimSpace(in.Input) == "" {
			errs = append(errs, fmt.Errorf("inputs[%d]: input is required", i))
		}
	}
	switch logger.Level(strings.ToLower(fc.Log.Level)) {
	case logger.LevelDebug, logger.LevelInfo, logger.LevelWarn, logger.LevelError, "":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", fc.Log.Level))
	}
	switch logger.Format(strings.ToLower(fc.Log.Format)) {
	case logger.FormatText, logger.FormatJSON, "":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", fc.Log.Format))
	}
	return errors.Join(errs...)
}

// Options returns the watcher options described by the config.
func (fc *FileConfig) Options() target.Options {
	return target.Options{
		AutoDetect:    fc.AutoDetect,
		RootDirectory: fc.RootDirectory,
		Inputs:        append([]target.WatchTarget(nil), fc.Inputs...),
	}
}

// LoggerConfig maps the [log] table onto the logger configuration.
func (fc *FileConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Slog: logger.SlogConfig{
			Level:      logger.Level(strings.ToLower(fc.Log.Level)),
			Format:     logger.Format(strings.ToLower(fc.Log.Format)),
			Color:      fc.Log.Color,
			TimeStamps: fc.Log.TimeStamps,
		},
		File: logger.FileConfig{
			Dir:        fc.Log.Dir,
			MaxSizeMB:  fc.Log.MaxSizeMB,
			MaxBackups: fc.Log.MaxBackups,
			MaxAgeDays: fc.Log.MaxAgeDays,
			Compress:   fc.Log.Compress,
		},
	}
}

// BuildEnv composes the watch process environment.
// Precedence: OS env (when enabled) provides base; then env_files in order;
// then the top-level env list overrides last.
func (fc *FileConfig) BuildEnv() (*env.Env, error) {
	e := env.New()
	if fc.UseOSEnv {
		e.FromOS()
	} else {
		e.Isolate()
	}
	if err := e.LoadFiles(fc.EnvFiles...); err != nil {
		return nil, err
	}
	e.SetPairs(fc.Env)
	return e, nil
}
