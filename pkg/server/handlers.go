package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/hwaller/rosterdesk/pkg/model"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type meResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func writeDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, detailResponse{Detail: detail})
}

// requireTeacher validates the Authorization header and returns the teacher
// username, or writes a 401 and returns false.
func (s *Server) requireTeacher(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		writeDetail(w, r, http.StatusUnauthorized, "Teacher authentication required")
		return "", false
	}
	token := bearerToken(header)
	if token == "" {
		writeDetail(w, r, http.StatusUnauthorized, "Invalid authorization format")
		return "", false
	}
	username, ok := s.auth.Identify(token)
	if !ok {
		writeDetail(w, r, http.StatusUnauthorized, "Invalid or expired token")
		return "", false
	}
	return username, true
}

// bearerToken extracts the token from a "Bearer <token>" header value.
// The scheme match is case-insensitive. Returns "" on malformed input.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return token
}

// activityName extracts the activity name from the URL, decoding any
// percent-escapes chi left in place.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	roster, err := s.store.ListActivities()
	if err != nil {
		slog.Error("list activities failed", "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to load activities")
		return
	}
	render.JSON(w, r, roster)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireTeacher(w, r); !ok {
		return
	}
	name := activityName(r)
	email := r.URL.Query().Get("email")
	if err := s.store.AddParticipant(name, email); err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	s.metrics.Signups.Add(1)
	render.JSON(w, r, messageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, name)})
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireTeacher(w, r); !ok {
		return
	}
	name := activityName(r)
	email := r.URL.Query().Get("email")
	if err := s.store.RemoveParticipant(name, email); err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	s.metrics.Unregisters.Add(1)
	render.JSON(w, r, messageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, name)})
}

func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrActivityNotFound):
		writeDetail(w, r, http.StatusNotFound, "Activity not found")
	case errors.Is(err, model.ErrAlreadySignedUp):
		writeDetail(w, r, http.StatusBadRequest, "Student is already signed up")
	case errors.Is(err, model.ErrNotSignedUp):
		writeDetail(w, r, http.StatusBadRequest, "Student is not signed up for this activity")
	default:
		slog.Error("roster mutation failed", "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Failed to update activity")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	username := q.Get("username")
	password := q.Get("password")
	token, err := s.auth.Login(username, password)
	switch {
	case errors.Is(err, ErrNoTeachers):
		writeDetail(w, r, http.StatusInternalServerError, "No teacher credentials configured")
		return
	case errors.Is(err, ErrInvalidCredentials):
		writeDetail(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	case err != nil:
		slog.Error("login failed", "error", err)
		writeDetail(w, r, http.StatusInternalServerError, "Login failed")
		return
	}
	s.metrics.Logins.Add(1)
	render.JSON(w, r, loginResponse{Token: token, Username: username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	username, ok := s.requireTeacher(w, r)
	if !ok {
		return
	}
	s.auth.Revoke(bearerToken(r.Header.Get("Authorization")))
	render.JSON(w, r, messageResponse{Message: fmt.Sprintf("Logged out %s", username)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := s.requireTeacher(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, meResponse{Username: username, Role: "teacher"})
}
