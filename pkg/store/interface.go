// Package store provides persistence for the activity roster. The default
// backend is SQLite; an in-memory implementation exists for tests and for
// running the server without a database file.
package store

import (
	"github.com/hwaller/rosterdesk/pkg/model"
)

// Store defines the persistence interface for the activity roster.
//
// Listing order is part of the contract: activities come back in creation
// order and participants in enrollment order, because the client renders
// exactly what the server iterates.
type Store interface {
	// Close closes the underlying storage.
	Close() error

	// ListActivities returns a snapshot of all activities in creation order.
	ListActivities() (*model.Roster, error)

	// GetActivity retrieves one activity. Returns (nil, nil) if not found.
	GetActivity(name string) (*model.Activity, error)

	// CreateActivity adds a new activity at the end of the listing order.
	// Returns model.ErrActivityExists when the name is taken.
	CreateActivity(name string, a model.Activity) error

	// AddParticipant enrolls email in the named activity. Returns
	// model.ErrActivityNotFound or model.ErrAlreadySignedUp.
	AddParticipant(activity, email string) error

	// RemoveParticipant removes email from the named activity. Returns
	// model.ErrActivityNotFound or model.ErrNotSignedUp.
	RemoveParticipant(activity, email string) error
}
