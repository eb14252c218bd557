// Package config holds the server settings, read from an optional YAML file
// on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// ListenAddr is the address the HTTP server binds, e.g. ":3000".
	ListenAddr string `yaml:"listen_addr"`

	// AllowOrigins is the comma-separated CORS origin list of the presentation
	// client. Credentials are allowed, so "*" is rejected.
	AllowOrigins string `yaml:"allow_origins"`

	// IdleTimeout removes games nobody has touched for this long.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// JanitorInterval is how often idle games are looked for. Zero disables
	// the janitor.
	JanitorInterval time.Duration `yaml:"janitor_interval"`

	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

func Default() Config {
	return Config{
		ListenAddr:      ":3000",
		AllowOrigins:    "http://localhost:5173",
		IdleTimeout:     2 * time.Hour,
		JanitorInterval: time.Minute,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("config: listen_addr is required")
	}
	origins := c.Origins()
	if len(origins) == 0 {
		return errors.New("config: allow_origins is required")
	}
	for _, o := range origins {
		if o == "*" {
			return errors.New("config: allow_origins must list origins, not \"*\"")
		}
	}
	if c.IdleTimeout < 0 || c.JanitorInterval < 0 {
		return errors.New("config: durations must not be negative")
	}
	if c.ReadBufferSize <= 0 || c.WriteBufferSize <= 0 {
		return errors.New("config: buffer sizes must be positive")
	}
	return nil
}

// Origins splits AllowOrigins into its entries.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
