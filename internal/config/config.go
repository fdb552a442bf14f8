// Package config loads the gmux configuration from
// ~/.config/gmux/config.toml.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the gmux configuration.
type Config struct {
	// DefaultSession is used before any `gmux session use`.
	DefaultSession string `toml:"default_session" json:"default_session"`
	// Parallel bounds concurrent per-repo workers; 0 means the built-in
	// default.
	Parallel int `toml:"parallel" json:"parallel"`
	// StashPrefix overrides the marker identifying gmux-created stashes.
	// Change it only if another tool collides with the default.
	StashPrefix string `toml:"stash_prefix" json:"stash_prefix"`
	// Color is "auto", "always", or "never".
	Color string `toml:"color" json:"color"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DefaultSession: "default",
		Parallel:       8,
		StashPrefix:    "gmux",
		Color:          "auto",
	}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gmux", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gmux", "config.toml"), nil
}

// Load reads the config file, falling back to defaults when it is missing.
// Unset fields keep their default values.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q: must be auto, always, or never", c.Color)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel must be >= 0, got %d", c.Parallel)
	}
	return nil
}

// WriteDefault creates the default config file, refusing to overwrite
// unless force is set. Returns the written path.
func WriteDefault(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists: %s (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(Default()); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

type ctxKey struct{}

type workDirKey struct{}

// WithConfig attaches the config to the context.
func WithConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the config from context, or the defaults.
func FromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(ctxKey{}).(Config); ok {
		return cfg
	}
	return Default()
}

// WithWorkDir attaches the invocation working directory to the context.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext retrieves the invocation working directory.
func WorkDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok {
		return dir
	}
	return ""
}
