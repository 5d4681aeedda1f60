package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tickfetch/internal/scheduler"
)

const (
	DefaultPath      = "config.json"
	DefaultOutputDir = "./jsons"
	DefaultTimeout   = 30 * time.Second
)

var ErrNotFound = errors.New("config file not found")

// Config mirrors the on-disk document.
type Config struct {
	API       string     `json:"api" yaml:"api"`
	OnTime    bool       `json:"on_time" yaml:"on_time"`
	Time      TimeConfig `json:"time" yaml:"time"`
	Timezone  string     `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	OutputDir string     `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Timeout   string     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type TimeConfig struct {
	H int `json:"h" yaml:"h"`
	M int `json:"m" yaml:"m"`
	S int `json:"s" yaml:"s"`
}

// Load reads path as JSON, or YAML for .yaml/.yml files, and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Parse(data []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg, nil
}

// Validate applies the time-field limits. On-time targets must be a real
// wall-clock time; an interval may spell out a single large unit such as
// 90 seconds when the other two fields are zero.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API) == "" {
		return errors.New("config error: 'api' is required")
	}
	t := c.Time
	if t.H < 0 || t.M < 0 || t.S < 0 {
		return errors.New("config error: 'time' fields must not be negative")
	}

	if c.OnTime {
		if t.H >= 24 {
			return fmt.Errorf("config error: on-time mode requires 'time.h' < 24 (got %d)", t.H)
		}
		if t.M >= 60 {
			return fmt.Errorf("config error: on-time mode requires 'time.m' < 60 (got %d)", t.M)
		}
		if t.S >= 60 {
			return fmt.Errorf("config error: on-time mode requires 'time.s' < 60 (got %d)", t.S)
		}
	} else {
		if !(t.H == 0 && t.M == 0) && t.S >= 60 {
			return fmt.Errorf("config error: interval mode requires 'time.s' < 60 unless h and m are 0 (got %d)", t.S)
		}
		if !(t.H == 0 && t.S == 0) && t.M >= 60 {
			return fmt.Errorf("config error: interval mode requires 'time.m' < 60 unless h and s are 0 (got %d)", t.M)
		}
		if c.Period() <= 0 {
			return errors.New("config error: interval mode requires a period greater than zero")
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

func (c Config) Period() time.Duration {
	return time.Duration(c.Time.H)*time.Hour +
		time.Duration(c.Time.M)*time.Minute +
		time.Duration(c.Time.S)*time.Second
}

func (c Config) Mode() scheduler.Mode {
	if c.OnTime {
		return scheduler.OnTime{Hour: c.Time.H, Minute: c.Time.M, Second: c.Time.S}
	}
	return scheduler.NewInterval(c.Period())
}

// Location returns the configured zone, or time.Local when unset.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config error: unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RequestTimeout parses the HTTP timeout, defaulting to DefaultTimeout. Zero
// disables the timeout.
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: timeout must not be negative (got %s)", d)
	}
	return d, nil
}

func (c Config) Output() string {
	if strings.TrimSpace(c.OutputDir) == "" {
		return DefaultOutputDir
	}
	return c.OutputDir
}
