package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/hdeq"
)

// Config holds the daemon settings. Values come from an optional YAML file
// named by HDEQ_CONFIG and are then overridden by environment variables.
type Config struct {
	Listen          string        `yaml:"listen"`
	Buckets         int           `yaml:"buckets"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func defaultConfig() Config {
	return Config{
		Listen:          ":8090",
		Buckets:         hdeq.DefaultBuckets,
		ShutdownTimeout: 5 * time.Second,
	}
}

// loadConfig builds the configuration from defaults, the YAML file named
// by HDEQ_CONFIG (if set) and the HDEQ_LISTEN / HDEQ_BUCKETS overrides.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("HDEQ_CONFIG"); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Listen = getenv("HDEQ_LISTEN", cfg.Listen)
	if v := os.Getenv("HDEQ_BUCKETS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("HDEQ_BUCKETS: %w", err)
		}
		cfg.Buckets = n
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadConfigFile decodes the YAML file at path over cfg. Keys missing from
// the file keep their current values; an empty file changes nothing.
func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is empty")
	}
	if !hdeq.IsPowerOfTwo(c.Buckets) {
		return fmt.Errorf("config: buckets=%d: %w", c.Buckets, hdeq.ErrBucketCount)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// getenv returns the environment variable k, or def if it is unset or empty.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
