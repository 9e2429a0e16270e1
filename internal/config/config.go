// Package config loads rbdoc settings from defaults, an optional TOML file
// and RBDOC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/phobologic/rbdoc/internal/build"
	"github.com/phobologic/rbdoc/internal/ri"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. RBDOC_LOG_LEVEL.
	EnvPrefix = "RBDOC"
	// ConfigFileName is the config file name inside the home directory.
	ConfigFileName = "config.toml"
	// MemoFileName is the lookup memo inside the home directory.
	MemoFileName = "ri_cache"
	// SearchPathsFileName lists extra cache files inside the home directory.
	SearchPathsFileName = "ri_search_paths"
)

// Config holds the resolved settings.
type Config struct {
	Home        string   `mapstructure:"home"`
	CacheFile   string   `mapstructure:"cache_file"`
	Strict      bool     `mapstructure:"strict"`
	LogLevel    string   `mapstructure:"log_level"`
	MaxFileSize int64    `mapstructure:"max_file_size"`
	SearchPaths []string `mapstructure:"search_paths"`
}

// LoadOptions selects where configuration comes from.
type LoadOptions struct {
	// Home overrides the home directory. It also decides where the default
	// config file is looked for.
	Home string
	// ConfigFile is used instead of <home>/config.toml and must exist.
	ConfigFile string
}

// DefaultHome returns ~/.rbdoc.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rbdoc"), nil
}

// DefaultConfig returns the built-in settings for home.
func DefaultConfig(home string) Config {
	return Config{
		Home:        home,
		CacheFile:   ri.DefaultCacheFile,
		LogLevel:    "warn",
		MaxFileSize: build.DefaultMaxFileSize,
	}
}

// Load resolves the configuration. Precedence, lowest first: defaults, the
// config file, RBDOC_* environment variables, opts.Home.
func Load(opts LoadOptions) (*Config, error) {
	home := opts.Home
	if home == "" {
		home = os.Getenv(EnvPrefix + "_HOME")
	}
	if home == "" {
		var err error
		if home, err = DefaultHome(); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	defaults := DefaultConfig(home)
	v.SetDefault("home", defaults.Home)
	v.SetDefault("cache_file", defaults.CacheFile)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("max_file_size", defaults.MaxFileSize)
	v.SetDefault("search_paths", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.ConfigFile, err)
		}
	} else {
		path := filepath.Join(home, ConfigFileName)
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isMissing(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if opts.Home != "" {
		cfg.Home = opts.Home
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = build.DefaultMaxFileSize
	}
	if cfg.CacheFile == "" {
		cfg.CacheFile = ri.DefaultCacheFile
	}
	return &cfg, nil
}

// MemoFile returns the lookup memo path.
func (c *Config) MemoFile() string {
	return filepath.Join(c.Home, MemoFileName)
}

// SearchPathsFile returns the search path list path.
func (c *Config) SearchPathsFile() string {
	return filepath.Join(c.Home, SearchPathsFileName)
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
