package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"netmonitor/internal/config"
	"netmonitor/internal/database"
	"netmonitor/internal/history"
	"netmonitor/internal/metrics"
	"netmonitor/internal/models"
	"netmonitor/internal/monitor"
	"netmonitor/internal/probe"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid invocation: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	setLogLevel(cfg.LogLevel)

	store, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("failed to initialize database schema: %v", err)
	}
	if pruned, err := store.Prune(cfg.Retention); err != nil {
		log.WithError(err).Warn("failed to prune old measurements")
	} else if pruned > 0 {
		log.WithField("rows", pruned).Info("pruned old measurements")
	}

	repo := database.NewRepository(store)
	provider := config.NewStore(*cfg)
	mon := monitor.New(provider, probe.New(), repo, history.New(cfg.HistorySize))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ConfigFile != "" {
		go func() {
			if err := provider.Watch(ctx, cfg.ConfigFile); err != nil && ctx.Err() == nil {
				log.WithError(err).Warn("config watch stopped")
			}
		}()
	}

	collector := metrics.NewCollector()
	metricsSub := mon.Subscribe()
	go collector.Consume(ctx, metricsSub.C)

	logSub := mon.Subscribe()
	go logUpdates(ctx, logSub.C)

	mon.Start()
	go startServer(cfg.ListenAddress, collector)

	log.WithFields(log.Fields{
		"target":   cfg.Target,
		"interval": cfg.Interval,
		"version":  version,
	}).Info("netmonitor started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	mon.Stop()
	cancel()
	metricsSub.Cancel()
	logSub.Cancel()

	if !repo.Flush(5 * time.Second) {
		log.Warn("timed out waiting for pending database writes")
	}
	logRunSummary(store, cfg.Target)
}

// logUpdates is a minimal subscriber reporting every tick.
func logUpdates(ctx context.Context, updates <-chan models.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			entry := log.WithFields(log.Fields{
				"target":  u.Target,
				"ok":      u.Measurement.OK,
				"rtt":     u.Measurement.RTT,
				"average": u.Stats.Average,
				"jitter":  u.Stats.Jitter,
			})
			if u.Measurement.OK {
				entry.Debug("probe completed")
			} else {
				entry.Warn("probe failed")
			}
		}
	}
}

func logRunSummary(store *database.Store, target string) {
	stats, err := store.Stats(target)
	if err != nil {
		log.WithError(err).Warn("failed to read run summary")
		return
	}
	log.WithFields(log.Fields{
		"target":     stats.Target,
		"total":      stats.Total,
		"successful": stats.Successful,
		"avg_ms":     stats.AvgLatencyMS,
	}).Info("run summary")
}

func startServer(listenAddress string, collector prometheus.Collector) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collector)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexHTML)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))

	log.WithField("address", listenAddress).Info("listening for /metrics")
	log.Fatal(http.ListenAndServe(listenAddress, nil))
}

const indexHTML = `<!doctype html>
<html>
<head>
	<meta charset="UTF-8">
	<title>netmonitor (Version ` + version + `)</title>
</head>
<body>
	<h1>netmonitor</h1>
	<p><a href="/metrics">Metrics</a></p>
</body>
</html>
`
