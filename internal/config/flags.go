package config

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
)

// Load parses command-line flags, reads the optional config file and
// merges the two. Flag values fill in anything the file leaves unset.
func Load(args []string) (*Config, error) {
	app := kingpin.New("netmonitor", "Continuous network latency monitor")

	var (
		configFile    = app.Flag("config.path", "Path to YAML config file").String()
		target        = app.Flag("target", "Host or URL to probe").Default("1.1.1.1").String()
		interval      = app.Flag("ping.interval", "Interval between probes").Default("1s").Duration()
		timeout       = app.Flag("ping.timeout", "Timeout per probe").Default("5s").Duration()
		historySize   = app.Flag("ping.history-size", "Number of measurements kept in memory").Default("50").Int()
		dbPath        = app.Flag("db.path", "Database path").Default("netmonitor.db").String()
		retention     = app.Flag("db.retention", "How long to keep persisted measurements (0 keeps everything)").Default("720h").Duration()
		listenAddress = app.Flag("web.listen-address", "Address on which to expose metrics").Default(":9427").String()
		logLevel      = app.Flag("log.level", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error, fatal]").Default("info").String()
	)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			return nil, fmt.Errorf("cannot load config file: %w", err)
		}
		parsed, err := FromYAML(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		cfg = parsed
		cfg.ConfigFile = *configFile
	}

	addFlagsToConfig(cfg, flagValues{
		target:        *target,
		interval:      *interval,
		timeout:       *timeout,
		historySize:   *historySize,
		dbPath:        *dbPath,
		retention:     *retention,
		listenAddress: *listenAddress,
		logLevel:      *logLevel,
	})

	return cfg, nil
}

type flagValues struct {
	target        string
	interval      time.Duration
	timeout       time.Duration
	historySize   int
	dbPath        string
	retention     time.Duration
	listenAddress string
	logLevel      string
}

// addFlagsToConfig updates cfg with flag values, unless the config
// already has non-zero values.
func addFlagsToConfig(cfg *Config, f flagValues) {
	if cfg.Target == "" {
		cfg.Target = f.target
	}
	if cfg.Interval == 0 {
		cfg.Interval = f.interval
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = f.timeout
	}
	if cfg.HistorySize == 0 {
		cfg.HistorySize = f.historySize
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = f.dbPath
	}
	if cfg.Retention == 0 {
		cfg.Retention = f.retention
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = f.listenAddress
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = f.logLevel
	}
}
