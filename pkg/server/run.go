package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Run starts the server and blocks until shutdown signal.
func (s *Server) Run() error {
	if s.store == nil {
		return fmt.Errorf("server: missing store dependency")
	}
	defer func() { _ = s.store.Close() }()

	// Register teacher accounts from YAML config if provided
	if s.cfg.TeachersFile != "" {
		if err := LoadTeachersFromYAML(s.cfg.TeachersFile, s.auth); err != nil {
			slog.Error("failed to load teachers config", "err", err)
		}
	}
	if !s.auth.HasTeachers() {
		slog.Warn("no teacher accounts configured, signups will be rejected")
	}

	// Seed activities from YAML config, or fall back to the stock roster
	if s.cfg.ActivitiesFile != "" {
		if err := LoadActivitiesFromYAML(s.cfg.ActivitiesFile, s.store); err != nil {
			slog.Error("failed to load activities config", "err", err)
		}
	} else if err := SeedDefaultActivities(s.store); err != nil {
		return fmt.Errorf("server: seed activities: %w", err)
	}

	if s.cfg.ExportActivities {
		data, err := ExportActivitiesYAML(s.store)
		if err != nil {
			return fmt.Errorf("server: export activities: %w", err)
		}
		_, _ = os.Stdout.Write(data)
		return nil
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("RosterDesk server running", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or listener failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-sigCh:
	}

	slog.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		_ = srv.Close()
	}
	return nil
}
