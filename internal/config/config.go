package config

import (
	"fmt"
	"io"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config holds all configuration for the network monitor.
type Config struct {
	Target        string
	Interval      time.Duration
	Timeout       time.Duration
	HistorySize   int
	DatabasePath  string
	Retention     time.Duration
	ListenAddress string
	LogLevel      string

	// ConfigFile is the path the config was loaded from, empty when the
	// configuration came from flags alone.
	ConfigFile string
}

// fileConfig mirrors the YAML document. Durations are parsed through the
// duration wrapper since yaml.v2 has no native time.Duration support.
type fileConfig struct {
	Target string `yaml:"target"`

	Ping struct {
		Interval duration `yaml:"interval"`
		Timeout  duration `yaml:"timeout"`
		History  int      `yaml:"history-size"`
	} `yaml:"ping"`

	Database struct {
		Path      string   `yaml:"path"`
		Retention duration `yaml:"retention"`
	} `yaml:"database"`

	Web struct {
		ListenAddress string `yaml:"listen-address"`
	} `yaml:"web"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

type duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (d *duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(dur)
	return nil
}

// Duration is a convenience getter.
func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

// FromYAML reads YAML from reader and unmarshals it to a Config.
func FromYAML(r io.Reader) (*Config, error) {
	fc := &fileConfig{}
	if err := yaml.NewDecoder(r).Decode(fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &Config{
		Target:        fc.Target,
		Interval:      fc.Ping.Interval.Duration(),
		Timeout:       fc.Ping.Timeout.Duration(),
		HistorySize:   fc.Ping.History,
		DatabasePath:  fc.Database.Path,
		Retention:     fc.Database.Retention.Duration(),
		ListenAddress: fc.Web.ListenAddress,
		LogLevel:      fc.Log.Level,
	}, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("a target must be specified")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history-size must be positive")
	}
	return nil
}
