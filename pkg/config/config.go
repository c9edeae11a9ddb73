// Package config loads loggraph settings from a YAML file in the repository
// and from LOGGRAPH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/loggraph/pkg/collapse"
	"github.com/utkarsh5026/loggraph/pkg/common/logger"
)

// FileName is the config file looked up at the repository root.
const FileName = ".loggraph.yaml"

// DefaultLimit is how many commits are loaded into the view when nothing else
// is set.
const DefaultLimit = 1000

// Config holds loggraph settings.
type Config struct {
	// Branches are the heads whose history is shown. Empty means all commits.
	Branches []string `yaml:"branches"`
	// Limit caps the number of commits loaded into the view. The whole log is
	// still read and ordered, so the loaded commits form a topological prefix
	// and the rest stay pending for --more. Zero loads everything.
	Limit int `yaml:"limit"`
	// CollapseAll folds every linear run when the view opens.
	CollapseAll bool `yaml:"collapse_all"`
	// CacheSize is the number of rows whose edges a view keeps computed.
	CacheSize int `yaml:"cache_size"`
	// LogLevel is one of debug, info, warn and error.
	LogLevel string `yaml:"log_level"`
	// NewNodesVisible shows commits that appear after a reload.
	NewNodesVisible bool `yaml:"new_nodes_visible"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Limit:           DefaultLimit,
		CacheSize:       collapse.DefaultCacheSize,
		LogLevel:        "warn",
		NewNodesVisible: true,
	}
}

// Load reads FileName from dir over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LOGGRAPH_* variables
func (c *Config) applyEnv() {
	if branches := getEnv("LOGGRAPH_BRANCHES", ""); branches != "" {
		c.Branches = splitList(branches)
	}
	c.Limit = getEnvInt("LOGGRAPH_LIMIT", c.Limit)
	c.CollapseAll = getEnvBool("LOGGRAPH_COLLAPSE_ALL", c.CollapseAll)
	c.CacheSize = getEnvInt("LOGGRAPH_CACHE_SIZE", c.CacheSize)
	c.LogLevel = getEnv("LOGGRAPH_LOG_LEVEL", c.LogLevel)
	c.NewNodesVisible = getEnvBool("LOGGRAPH_NEW_NODES_VISIBLE", c.NewNodesVisible)
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	if c.Limit < 0 {
		return NewErrInvalidConfig("limit", "must not be negative")
	}
	if c.CacheSize <= 0 {
		return NewErrInvalidConfig("cache_size", "must be positive")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return NewErrInvalidConfig("log_level", err.Error())
	}
	for _, b := range c.Branches {
		if strings.TrimSpace(b) == "" {
			return NewErrInvalidConfig("branches", "empty branch name")
		}
	}
	return nil
}

// CollapseOptions returns the controller options these settings imply.
func (c *Config) CollapseOptions() []collapse.Option {
	return []collapse.Option{
		collapse.WithCacheSize(c.CacheSize),
		collapse.WithNewNodesVisible(c.NewNodesVisible),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
