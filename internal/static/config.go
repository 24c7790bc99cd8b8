package static

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
)

// Env maps environment variable names for static file configuration.
type Env struct {
	BasePath    string
	Index       string
	MaxFileSize string
}

// Config contains static file serving configuration.
type Config struct {
	// BasePath is the directory files are served from.
	// Default: "public"
	BasePath string `toml:"base_path"`

	// Index is served for "/" and for directory paths.
	// Default: "index.html"
	Index string `toml:"index"`

	// MaxFileSize bounds the size of a file read into a response, in
	// human-readable form ("10MB").
	MaxFileSize    string `toml:"max_file_size"`
	maxFileSizeVal int64
}

// MaxFileSizeBytes returns the parsed MaxFileSize. Valid after Finalize.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.maxFileSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Index != "" {
		c.Index = overlay.Index
	}
	if size, err := units.FromHumanSize(overlay.MaxFileSize); err == nil {
		c.MaxFileSize = overlay.MaxFileSize
		c.maxFileSizeVal = size
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "public"
	}
	if c.Index == "" {
		c.Index = "index.html"
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "10MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.BasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(env.Index); v != "" {
		c.Index = v
	}
	if v := os.Getenv(env.MaxFileSize); v != "" {
		c.MaxFileSize = v
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}
	if c.Index == "" || strings.HasPrefix(c.Index, ".") || strings.ContainsAny(c.Index, `/\`) || c.Index != filepath.Base(c.Index) {
		return fmt.Errorf("invalid index %q: must be a plain file name", c.Index)
	}

	size, err := units.FromHumanSize(c.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	c.maxFileSizeVal = size

	return nil
}
