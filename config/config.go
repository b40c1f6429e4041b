package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// Config holds runtime configuration for the dispatcher, search engine and
// CLI. Fields may be loaded from a JSON file and overridden by command-line
// flags.
type Config struct {
	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`

	// Dispatcher
	Workers int `json:"workers"`

	// Search parameters
	SearchWorkers   int   `json:"search_workers"`
	MinParallelWork int64 `json:"min_parallel_work"`
	DefaultVariant  int32 `json:"default_variant"`

	// Capture polling used by wait
	PollIntervalMS int `json:"poll_interval_ms"`

	// Encoding
	JPEGQuality int `json:"jpeg_quality"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	procs := runtime.GOMAXPROCS(0)
	return &Config{
		Debug:           false,
		LogLevel:        "info",
		Workers:         procs,
		SearchWorkers:   1,
		MinParallelWork: 1 << 18,
		DefaultVariant:  0,
		PollIntervalMS:  100,
		JPEGQuality:     95,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.SearchWorkers <= 0 {
		c.SearchWorkers = 1
	}
	if c.MinParallelWork < 0 {
		c.MinParallelWork = 0
	}
	if c.PollIntervalMS <= 0 {
		c.PollIntervalMS = 100
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = 95
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = "info"
	}
	return nil
}

// PollInterval returns PollIntervalMS as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Level maps LogLevel onto slog; Debug forces debug output.
func (c *Config) Level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
