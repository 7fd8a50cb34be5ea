package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/hwaller/rosterdesk/pkg/model"
	"github.com/hwaller/rosterdesk/pkg/store"
)

// withStores runs the given test against every Store implementation.
func withStores(t *testing.T, fn func(t *testing.T, st store.Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		st := store.NewMemory()
		defer func() { _ = st.Close() }()
		fn(t, st)
	})

	t.Run("sqlite", func(t *testing.T) {
		st, err := store.NewSQLite(filepath.Join(t.TempDir(), "roster.db"))
		if err != nil {
			t.Fatalf("NewSQLite: %v", err)
		}
		defer func() { _ = st.Close() }()
		fn(t, st)
	})
}

func mustCreate(t *testing.T, st store.Store, name string, a model.Activity) {
	t.Helper()
	if err := st.CreateActivity(name, a); err != nil {
		t.Fatalf("CreateActivity(%q): %v", name, err)
	}
}

func TestStoreBasicFlow(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		mustCreate(t, st, "Chess Club", model.Activity{
			Description:     "Chess",
			Schedule:        "Fridays",
			MaxParticipants: 12,
			Participants:    []string{"michael@x.com"},
		})

		a, err := st.GetActivity("Chess Club")
		if err != nil {
			t.Fatalf("GetActivity: %v", err)
		}
		if a == nil || a.Description != "Chess" || len(a.Participants) != 1 {
			t.Fatalf("GetActivity = %+v", a)
		}

		if err := st.AddParticipant("Chess Club", "daniel@x.com"); err != nil {
			t.Fatalf("AddParticipant: %v", err)
		}
		a, err = st.GetActivity("Chess Club")
		if err != nil {
			t.Fatalf("GetActivity: %v", err)
		}
		if len(a.Participants) != 2 || a.Participants[1] != "daniel@x.com" {
			t.Fatalf("participants = %v, want appended in enrollment order", a.Participants)
		}

		if err := st.RemoveParticipant("Chess Club", "michael@x.com"); err != nil {
			t.Fatalf("RemoveParticipant: %v", err)
		}
		a, _ = st.GetActivity("Chess Club")
		if len(a.Participants) != 1 || a.Participants[0] != "daniel@x.com" {
			t.Fatalf("participants after removal = %v", a.Participants)
		}
	})
}

func TestStoreListOrder(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		names := []string{"Soccer Team", "Art Club", "Chess Club", "Basketball Team"}
		for _, n := range names {
			mustCreate(t, st, n, model.Activity{MaxParticipants: 10})
		}

		roster, err := st.ListActivities()
		if err != nil {
			t.Fatalf("ListActivities: %v", err)
		}
		got := roster.Names()
		if len(got) != len(names) {
			t.Fatalf("ListActivities returned %d names, want %d", len(got), len(names))
		}
		for i := range names {
			if got[i] != names[i] {
				t.Fatalf("order[%d] = %q, want %q (creation order must be preserved)", i, got[i], names[i])
			}
		}
	})
}

func TestStoreCreateDuplicate(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		mustCreate(t, st, "Chess Club", model.Activity{})
		err := st.CreateActivity("Chess Club", model.Activity{})
		if !errors.Is(err, model.ErrActivityExists) {
			t.Fatalf("duplicate CreateActivity = %v, want ErrActivityExists", err)
		}
	})
}

func TestStoreErrors(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		mustCreate(t, st, "Chess Club", model.Activity{Participants: []string{"a@x.com"}})

		if err := st.AddParticipant("Unknown", "a@x.com"); !errors.Is(err, model.ErrActivityNotFound) {
			t.Errorf("AddParticipant unknown activity = %v, want ErrActivityNotFound", err)
		}
		if err := st.AddParticipant("Chess Club", "a@x.com"); !errors.Is(err, model.ErrAlreadySignedUp) {
			t.Errorf("duplicate AddParticipant = %v, want ErrAlreadySignedUp", err)
		}
		if err := st.RemoveParticipant("Unknown", "a@x.com"); !errors.Is(err, model.ErrActivityNotFound) {
			t.Errorf("RemoveParticipant unknown activity = %v, want ErrActivityNotFound", err)
		}
		if err := st.RemoveParticipant("Chess Club", "b@x.com"); !errors.Is(err, model.ErrNotSignedUp) {
			t.Errorf("RemoveParticipant absent student = %v, want ErrNotSignedUp", err)
		}

		a, err := st.GetActivity("Unknown")
		if err != nil || a != nil {
			t.Errorf("GetActivity unknown = (%v, %v), want (nil, nil)", a, err)
		}
	})
}

func TestStoreSnapshotsDoNotAlias(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		mustCreate(t, st, "Chess Club", model.Activity{MaxParticipants: 2, Participants: []string{"a@x.com"}})

		before, err := st.ListActivities()
		if err != nil {
			t.Fatalf("ListActivities: %v", err)
		}
		if err := st.AddParticipant("Chess Club", "b@x.com"); err != nil {
			t.Fatalf("AddParticipant: %v", err)
		}

		a, _ := before.Get("Chess Club")
		if len(a.Participants) != 1 {
			t.Fatalf("earlier snapshot mutated: %v", a.Participants)
		}

		after, err := st.ListActivities()
		if err != nil {
			t.Fatalf("ListActivities: %v", err)
		}
		b, _ := after.Get("Chess Club")
		if len(b.Participants) != 2 || b.SpotsLeft() != 0 {
			t.Fatalf("fresh snapshot = %v spots=%d", b.Participants, b.SpotsLeft())
		}
	})
}
