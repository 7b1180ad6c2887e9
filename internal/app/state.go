package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/corey/logmap/internal/adapters/bboltstore"
	"github.com/corey/logmap/internal/adapters/textstore"
	"github.com/corey/logmap/internal/domain/filter"
)

// StateConfig selects where filter state comes from and goes to. The text
// backend uses separate load and save paths; the bbolt backend addresses
// state by profile name inside one database file. The two backends are
// mutually exclusive.
type StateConfig struct {
	LoadPath string // text state to load, "" for none
	SavePath string // text state to save, "" for none
	DBPath   string // bbolt database, "" for none
	Profile  string // profile within the database, required with DBPath
}

// State is an open handle on the configured persistence backend.
type State struct {
	loadPath string
	savePath string
	db       *bboltstore.Store
	profile  string
}

// OpenState validates the configuration and opens the bbolt database when one
// is configured. Close must be called on the returned State.
func OpenState(cfg StateConfig) (*State, error) {
	if cfg.DBPath != "" {
		if cfg.LoadPath != "" || cfg.SavePath != "" {
			return nil, fmt.Errorf("state: --db cannot be combined with text state files")
		}
		if cfg.Profile == "" {
			return nil, fmt.Errorf("state: --db requires --profile")
		}
		db, err := bboltstore.NewStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &State{db: db, profile: cfg.Profile}, nil
	}
	return &State{loadPath: cfg.LoadPath, savePath: cfg.SavePath}, nil
}

// Load returns a Set restored from the backend, or a fresh one built from
// opts when no prior state exists. The bool reports whether state was found.
// A configured text load path that cannot be read is an error; a missing
// bbolt profile is a fresh start.
func (s *State) Load(opts filter.Options, log logrus.FieldLogger) (*filter.Set, bool, error) {
	if s.db != nil {
		snap, err := s.db.LoadSnapshot(s.profile)
		if err != nil {
			return nil, false, err
		}
		if snap == nil {
			return filter.New(opts, log), false, nil
		}
		return filter.FromSnapshot(snap, log), true, nil
	}
	if s.loadPath != "" {
		snap, err := textstore.New(s.loadPath).Load()
		if err != nil {
			return nil, false, err
		}
		return filter.FromSnapshot(snap, log), true, nil
	}
	return filter.New(opts, log), false, nil
}

// Save persists the set's current state. A no-op when neither a save path
// nor a database is configured.
func (s *State) Save(set *filter.Set) error {
	if s.db != nil {
		return s.db.SaveSnapshot(s.profile, set.Snapshot())
	}
	if s.savePath != "" {
		return textstore.New(s.savePath).Save(set.Snapshot())
	}
	return nil
}

// Persistent reports whether Save writes anywhere.
func (s *State) Persistent() bool {
	return s.db != nil || s.savePath != ""
}

// Close releases the database handle, if any.
func (s *State) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
