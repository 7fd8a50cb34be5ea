package model

import (
	"encoding/json"
	"testing"
)

func TestSpotsLeft(t *testing.T) {
	tests := []struct {
		name string
		max  int
		n    int
		want int
	}{
		{"empty", 12, 0, 12},
		{"partial", 12, 2, 10},
		{"full", 2, 2, 0},
		{"over capacity", 2, 3, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Activity{MaxParticipants: tt.max, Participants: make([]string, tt.n)}
			if got := a.SpotsLeft(); got != tt.want {
				t.Errorf("SpotsLeft() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasParticipant(t *testing.T) {
	a := Activity{Participants: []string{"a@x.com", "b@x.com"}}
	if !a.HasParticipant("a@x.com") {
		t.Errorf("HasParticipant(a@x.com) = false, want true")
	}
	if a.HasParticipant("c@x.com") {
		t.Errorf("HasParticipant(c@x.com) = true, want false")
	}
}

func TestRosterDecodePreservesOrder(t *testing.T) {
	// Key order deliberately not alphabetical.
	data := []byte(`{
		"Soccer Team": {"description":"d1","schedule":"s1","max_participants":22,"participants":["liam@x.com"]},
		"Art Club":    {"description":"d2","schedule":"s2","max_participants":15,"participants":[]},
		"Chess Club":  {"description":"d3","schedule":"s3","max_participants":12,"participants":["a@x.com","b@x.com"]}
	}`)

	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := []string{"Soccer Team", "Art Club", "Chess Club"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	chess, ok := r.Get("Chess Club")
	if !ok {
		t.Fatalf("Get(Chess Club): missing")
	}
	if chess.SpotsLeft() != 10 {
		t.Errorf("SpotsLeft() = %d, want 10", chess.SpotsLeft())
	}
}

func TestRosterEncodeRoundTrip(t *testing.T) {
	r := NewRoster()
	r.Set("Zeta", Activity{Description: "z", MaxParticipants: 5})
	r.Set("Alpha", Activity{Description: "a", MaxParticipants: 3, Participants: []string{"p@x.com"}})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Roster
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	names := back.Names()
	if len(names) != 2 || names[0] != "Zeta" || names[1] != "Alpha" {
		t.Fatalf("round-trip order = %v, want [Zeta Alpha]", names)
	}
	alpha, _ := back.Get("Alpha")
	if len(alpha.Participants) != 1 || alpha.Participants[0] != "p@x.com" {
		t.Fatalf("round-trip participants = %v", alpha.Participants)
	}
}

func TestRosterDecodeRejectsNonObject(t *testing.T) {
	var r Roster
	if err := json.Unmarshal([]byte(`[1,2,3]`), &r); err == nil {
		t.Fatalf("expected error decoding array into roster")
	}
}

func TestRosterSetReplacesInPlace(t *testing.T) {
	r := NewRoster()
	r.Set("A", Activity{Description: "one"})
	r.Set("B", Activity{Description: "two"})
	r.Set("A", Activity{Description: "updated"})

	names := r.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("Names() = %v, want [A B]", names)
	}
	a, _ := r.Get("A")
	if a.Description != "updated" {
		t.Errorf("Get(A).Description = %q, want %q", a.Description, "updated")
	}
}

func TestCredentialValid(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{"both present", Credential{Token: "t", Identity: "teacher1"}, true},
		{"missing token", Credential{Identity: "teacher1"}, false},
		{"missing identity", Credential{Token: "t"}, false},
		{"empty", Credential{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cred.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
