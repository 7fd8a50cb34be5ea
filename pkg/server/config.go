package server

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hwaller/rosterdesk/pkg/model"
	"github.com/hwaller/rosterdesk/pkg/store"
)

// ActivityYAML represents an activity in YAML config.
type ActivityYAML struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description,omitempty"`
	Schedule        string   `yaml:"schedule,omitempty"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants,omitempty"`
}

// ActivitiesConfig is the top-level YAML config for activities.
type ActivitiesConfig struct {
	Activities []ActivityYAML `yaml:"activities"`
}

// TeacherYAML represents a teacher account in YAML config.
type TeacherYAML struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TeachersConfig is the top-level YAML config for teacher accounts.
type TeachersConfig struct {
	Teachers []TeacherYAML `yaml:"teachers"`
}

// LoadTeachersFromYAML reads a teachers YAML file and registers the accounts.
func LoadTeachersFromYAML(path string, auth *Authenticator) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI config
	if err != nil {
		return fmt.Errorf("read teachers config: %w", err)
	}
	return ImportTeachersFromYAML(data, auth)
}

// ImportTeachersFromYAML parses YAML data and registers teacher accounts.
// Entries missing a username or password are skipped.
func ImportTeachersFromYAML(data []byte, auth *Authenticator) error {
	var cfg TeachersConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse teachers config: %w", err)
	}

	count := 0
	for _, t := range cfg.Teachers {
		if t.Username == "" || t.Password == "" {
			continue
		}
		if err := auth.AddTeacher(t.Username, t.Password); err != nil {
			slog.Error("failed to register teacher from config", "username", t.Username, "err", err)
			continue
		}
		count++
	}

	slog.Info("imported teachers from YAML", "count", count)
	return nil
}

// LoadActivitiesFromYAML reads an activities YAML file and creates any
// activities not yet in the store.
func LoadActivitiesFromYAML(path string, st store.Store) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI config
	if err != nil {
		return fmt.Errorf("read activities config: %w", err)
	}
	return ImportActivitiesFromYAML(data, st)
}

// ImportActivitiesFromYAML parses YAML data and creates/seeds activities in
// the store. Existing activities are left untouched.
func ImportActivitiesFromYAML(data []byte, st store.Store) error {
	var cfg ActivitiesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse activities config: %w", err)
	}

	for _, a := range cfg.Activities {
		if err := ensureActivity(st, a); err != nil {
			slog.Error("failed to create activity from config", "name", a.Name, "err", err)
		}
	}

	slog.Info("imported activities from YAML", "count", len(cfg.Activities))
	return nil
}

func ensureActivity(st store.Store, a ActivityYAML) error {
	existing, err := st.GetActivity(a.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	act := model.Activity{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
	}
	if err := st.CreateActivity(a.Name, act); err != nil {
		return err
	}
	for _, email := range a.Participants {
		if err := st.AddParticipant(a.Name, email); err != nil {
			return err
		}
	}
	slog.Debug("created activity from config", "name", a.Name)
	return nil
}

// ExportActivitiesYAML exports all activities as YAML, in roster order.
func ExportActivitiesYAML(st store.Store) ([]byte, error) {
	roster, err := st.ListActivities()
	if err != nil {
		return nil, err
	}

	cfg := ActivitiesConfig{}
	roster.Each(func(name string, act model.Activity) {
		cfg.Activities = append(cfg.Activities, ActivityYAML{
			Name:            name,
			Description:     act.Description,
			Schedule:        act.Schedule,
			MaxParticipants: act.MaxParticipants,
			Participants:    act.Participants,
		})
	})
	return yaml.Marshal(&cfg)
}

// DefaultActivities returns the stock extracurricular roster, used to seed
// an empty store when no activities file is given.
func DefaultActivities() []ActivityYAML {
	return []ActivityYAML{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Soccer Team",
			Description:     "Join the school soccer team and compete in matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 22,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		},
		{
			Name:            "Basketball Team",
			Description:     "Practice and play basketball with the school team",
			Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		},
		{
			Name:            "Art Club",
			Description:     "Explore your creativity through painting and drawing",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Act, direct, and produce plays and performances",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
		},
		{
			Name:            "Math Club",
			Description:     "Solve challenging problems and participate in math competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
		},
		{
			Name:            "Debate Team",
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
		},
	}
}

// SeedDefaultActivities creates the stock activities in an empty store.
func SeedDefaultActivities(st store.Store) error {
	roster, err := st.ListActivities()
	if err != nil {
		return err
	}
	if roster.Len() > 0 {
		return nil
	}
	for _, a := range DefaultActivities() {
		if err := ensureActivity(st, a); err != nil {
			return err
		}
	}
	slog.Info("seeded default activities", "count", len(DefaultActivities()))
	return nil
}
