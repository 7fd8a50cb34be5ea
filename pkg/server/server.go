// Package server implements the RosterDesk activity roster API server.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hwaller/rosterdesk/pkg/store"
)

// Config holds server configuration.
type Config struct {
	Addr           string // HTTP bind address (e.g. ":8100")
	DBPath         string // SQLite database path; empty means in-memory only
	TeachersFile   string // YAML file with teacher credentials
	ActivitiesFile string // YAML file defining activities to create on startup

	// CLI-only actions (run and exit)
	ExportActivities bool // export all activities as YAML and exit
}

// Dependencies holds external dependencies for the server. The server
// assumes ownership of Store and closes it on shutdown.
type Dependencies struct {
	Store store.Store
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:   ":8100",
		DBPath: "roster.db",
	}
}

// Server serves the roster API consumed by the RosterDesk client.
type Server struct {
	cfg     Config
	store   store.Store
	auth    *Authenticator
	metrics *Metrics
}

// New creates a server from config and dependencies.
func New(cfg Config, deps Dependencies) *Server {
	return &Server{
		cfg:     cfg,
		store:   deps.Store,
		auth:    NewAuthenticator(),
		metrics: NewMetrics(),
	}
}

// Auth exposes the authenticator, mainly so mains and tests can register
// teacher credentials.
func (s *Server) Auth() *Authenticator {
	return s.auth
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Get("/activities", s.handleActivities)
	r.Post("/activities/{name}/signup", s.handleSignup)
	r.Delete("/activities/{name}/unregister", s.handleUnregister)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/auth/me", s.handleMe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/metrics", s.handleMetrics)

	return r
}
