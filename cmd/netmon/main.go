package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/irctrakz/netmon/pkg/addrs"
	"github.com/irctrakz/netmon/pkg/config"
	"github.com/irctrakz/netmon/pkg/iftable"
	"github.com/irctrakz/netmon/pkg/logging"
	"github.com/irctrakz/netmon/pkg/netstat"
)

func main() {
	configPath := flag.String("config", "", "path to config file (json or yaml)")
	flag.Parse()

	cfg := config.DefaultConfig()
	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := config.LoadFromFile(path, cfg); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	config.LoadFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	if cfg.Monitor.Debug {
		level = logging.DebugLevel
	}
	logging.SetLevel(level)
	if cfg.Logging.File != "" {
		dir, file := filepath.Split(cfg.Logging.File)
		if dir == "" {
			dir = "."
		}
		err := logging.EnableFileLogging(dir, file, cfg.Logging.MaxSize, cfg.Logging.MaxBackups, cfg.Logging.MaxAge)
		if err != nil {
			log.Fatalf("logging: %v", err)
		}
	}

	registry := netstat.NewRegistry(iftable.NewSystemProvider(), addrs.NewSystemResolver())

	logging.Infof("netmon starting: interval=%s removeStale=%v format=%s",
		cfg.Interval(), cfg.Monitor.RemoveStale, cfg.Monitor.ReportFormat)

	stopCh := make(chan struct{})
	go runRefreshLoop(registry, cfg, stopCh)

	// Health check endpoint
	if addr := strings.TrimSpace(os.Getenv("HEALTH_ADDR")); addr != "" {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			if err := http.ListenAndServe(addr, nil); err != nil {
				logging.Warnf("health endpoint: %v", err)
			}
		}()
	}

	// Wait for termination
	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	close(stopCh)
	logging.Infof("netmon stopped")
}

// runRefreshLoop refreshes the registry on the configured interval and
// reports the resulting counters. The loop is the registry's only user,
// which keeps Refresh and the report reads serialized.
func runRefreshLoop(registry *netstat.Registry, cfg *config.Config, stopCh chan struct{}) {
	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	for {
		if registry.Refresh(cfg.Monitor.RemoveStale) {
			reportInterfaces(registry, cfg.Monitor.ReportFormat)
		} else {
			logging.Warnf("refresh skipped: interface table unavailable")
		}

		select {
		case <-ticker.C:
		case <-stopCh:
			return
		}
	}
}
