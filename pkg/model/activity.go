// Package model defines the activity roster data model shared by the
// RosterDesk client and server.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrActivityNotFound = errors.New("activity not found")
var ErrActivityExists = errors.New("activity already exists")
var ErrAlreadySignedUp = errors.New("student is already signed up")
var ErrNotSignedUp = errors.New("student is not signed up for this activity")

// Activity is one scheduled extracurricular activity. Participants are kept
// in enrollment order.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns the remaining capacity. It can go negative when the
// server reports more participants than the maximum; the client displays
// whatever the server says and never enforces capacity itself.
func (a *Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// HasParticipant reports whether email is enrolled.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so stored activities never alias a snapshot.
func (a *Activity) Clone() Activity {
	c := *a
	c.Participants = append([]string(nil), a.Participants...)
	return c
}

// Roster is an immutable-by-convention snapshot of the full activity mapping.
// Unlike a plain map it remembers the order activities arrived in: the wire
// format is a JSON object and the server's key order is part of the contract,
// so both encoding and decoding preserve it.
type Roster struct {
	names      []string
	activities map[string]Activity
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{activities: make(map[string]Activity)}
}

// Len returns the number of activities.
func (r *Roster) Len() int {
	return len(r.names)
}

// Names returns the activity names in insertion order.
func (r *Roster) Names() []string {
	return append([]string(nil), r.names...)
}

// Get returns the activity with the given name.
func (r *Roster) Get(name string) (Activity, bool) {
	a, ok := r.activities[name]
	return a, ok
}

// Set adds or replaces an activity. A replaced activity keeps its position.
func (r *Roster) Set(name string, a Activity) {
	if _, ok := r.activities[name]; !ok {
		r.names = append(r.names, name)
	}
	r.activities[name] = a.Clone()
}

// Each calls fn for every activity in insertion order.
func (r *Roster) Each(fn func(name string, a Activity)) {
	for _, name := range r.names {
		fn(name, r.activities[name])
	}
}

// MarshalJSON encodes the roster as a JSON object in insertion order.
func (r *Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.activities[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the roster, preserving the key
// order the server emitted. encoding/json maps would lose it, so the object
// is walked token by token.
func (r *Roster) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("model: decode roster: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("model: decode roster: expected object, got %v", tok)
	}

	r.names = nil
	r.activities = make(map[string]Activity)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("model: decode roster: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("model: decode roster: expected key, got %v", tok)
		}
		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("model: decode roster: activity %q: %w", name, err)
		}
		if _, dup := r.activities[name]; !dup {
			r.names = append(r.names, name)
		}
		r.activities[name] = a
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("model: decode roster: %w", err)
	}
	return nil
}
