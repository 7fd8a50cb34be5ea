package server

import (
	"errors"
	"sync"

	"github.com/hwaller/rosterdesk/pkg/crypto"
)

var (
	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNoTeachers is returned when no teacher accounts are configured.
	ErrNoTeachers = errors.New("no teacher credentials configured")
)

type teacherAccount struct {
	salt []byte
	hash []byte
}

// Authenticator holds teacher accounts and issued bearer tokens.
// Tokens live for the lifetime of the process.
type Authenticator struct {
	mu       sync.RWMutex
	teachers map[string]teacherAccount
	tokens   map[string]string // token -> username
}

func NewAuthenticator() *Authenticator {
	return &Authenticator{
		teachers: make(map[string]teacherAccount),
		tokens:   make(map[string]string),
	}
}

// AddTeacher registers a teacher account with the given password.
func (a *Authenticator) AddTeacher(username, password string) error {
	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}
	hash := crypto.HashPassword(password, salt)
	a.mu.Lock()
	a.teachers[username] = teacherAccount{salt: salt, hash: hash}
	a.mu.Unlock()
	return nil
}

// HasTeachers reports whether any teacher accounts are configured.
func (a *Authenticator) HasTeachers() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.teachers) > 0
}

// Login verifies credentials and issues a bearer token.
func (a *Authenticator) Login(username, password string) (string, error) {
	a.mu.RLock()
	acct, ok := a.teachers[username]
	empty := len(a.teachers) == 0
	a.mu.RUnlock()
	if empty {
		return "", ErrNoTeachers
	}
	if !ok || !crypto.VerifyPassword(password, acct.salt, acct.hash) {
		return "", ErrInvalidCredentials
	}
	token, err := crypto.NewToken()
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	a.tokens[token] = username
	a.mu.Unlock()
	return token, nil
}

// Identify resolves a token to the teacher username that owns it.
func (a *Authenticator) Identify(token string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	username, ok := a.tokens[token]
	return username, ok
}

// Revoke invalidates a token. Revoking an unknown token is a no-op.
func (a *Authenticator) Revoke(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}
