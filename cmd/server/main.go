package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hwaller/rosterdesk/pkg/logging"
	"github.com/hwaller/rosterdesk/pkg/server"
	"github.com/hwaller/rosterdesk/pkg/store"
)

func main() {
	cfg := server.DefaultConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP bind address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file path (empty for in-memory)")
	flag.StringVar(&cfg.TeachersFile, "teachers-file", "", "YAML file with teacher credentials")
	flag.StringVar(&cfg.ActivitiesFile, "activities-file", "", "YAML file defining activities to create on startup")
	flag.BoolVar(&cfg.ExportActivities, "export-activities", false, "Export all activities as YAML and exit")

	logLevel := flag.String("log-level", "info", "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	// Configure structured logging
	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: *logFormat,
		Output: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	var st store.Store
	if cfg.DBPath == "" {
		st = store.NewMemory()
	} else {
		var err error
		st, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("open database", "err", err)
			os.Exit(1)
		}
	}

	srv := server.New(cfg, server.Dependencies{Store: st})
	if err := srv.Run(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
