package client

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hwaller/rosterdesk/pkg/model"
)

// SessionStore persists the operator credential across restarts as a YAML
// file next to the binary. It holds no validation logic: it hands back
// whatever was stored and leaves deciding whether it is still good to the
// engine.
//
// Storage failures are deliberately soft. A missing or unreadable file
// reads as "no credential"; a failed write means the session simply won't
// survive a restart.
type SessionStore struct {
	path string
}

// NewSessionStore creates a session store using a file next to the
// executable.
func NewSessionStore() *SessionStore {
	exe, err := os.Executable()
	if err != nil {
		return &SessionStore{path: "session.yaml"}
	}
	return &SessionStore{path: filepath.Join(filepath.Dir(exe), "session.yaml")}
}

// NewSessionStoreAt creates a session store backed by an explicit file path.
func NewSessionStoreAt(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load returns the stored credential, or nil when none is stored. A partial
// credential (token without identity or vice versa) reads as absent: both
// halves are written together and only count together.
func (s *SessionStore) Load() *model.Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var cred model.Credential
	if err := yaml.Unmarshal(data, &cred); err != nil {
		return nil
	}
	if !cred.Valid() {
		return nil
	}
	return &cred
}

// Save persists the credential. Both fields land in a single file write, so
// a reader never observes one without the other.
func (s *SessionStore) Save(cred model.Credential) error {
	data, err := yaml.Marshal(cred)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the stored credential. Idempotent.
func (s *SessionStore) Clear() {
	_ = os.Remove(s.path)
}
