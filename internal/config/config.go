// Package config loads the optional graphfile CLI configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/graphfile/config.toml
// (or ~/.config/graphfile/config.toml) unless a path is given explicitly:
//
//	[log]
//	level = "debug"
//
//	[render]
//	detailed = true
//	format = "svg"
//
//	[migrate]
//	backup = true
//
// Every key is optional. Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
)

// AppName names the configuration directory.
const AppName = "graphfile"

// Render formats accepted in [render] format.
var Formats = []string{"dot", "svg", "pdf", "png"}

// ErrConfigNotFound is returned by [Load] when an explicitly requested
// configuration file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Config is the decoded configuration file.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Render  RenderConfig  `toml:"render"`
	Migrate MigrateConfig `toml:"migrate"`

	// Path is the file the configuration was read from, or "" when
	// defaults are in use.
	Path string `toml:"-"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	Detailed bool   `toml:"detailed"`
	Format   string `toml:"format"`
}

// MigrateConfig holds defaults for the migrate command.
type MigrateConfig struct {
	Backup bool `toml:"backup"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Render: RenderConfig{Format: "svg"},
	}
}

// DefaultPath returns the XDG location of the configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the configuration file at path, or at [DefaultPath] when path
// is empty. A missing default file yields [Default]; a missing explicit file
// yields an error matching [ErrConfigNotFound]. Unknown keys and invalid
// values fail with code INVALID_CONFIG.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return Default(), nil
		}
		return Config{}, gferrors.Wrap(gferrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, gferrors.New(gferrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, gferrors.Wrap(gferrors.ErrCodeInvalidConfig, err, "%s", path)
	}

	cfg.Path = path
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if !slices.Contains(Formats, c.Render.Format) {
		return fmt.Errorf("render.format: %q is not one of %s", c.Render.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// LogLevel parses Log.Level. An empty level means info.
func (c Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
