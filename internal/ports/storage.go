// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Storage persists filter state to durable storage. Each profile gets its own
// namespace. Writes must be transactional: a crash mid-write must not corrupt
// previously committed data.
type Storage interface {
	// SaveSnapshot persists the full filter state for a profile.
	// Overwrites any prior state for this profile.
	SaveSnapshot(profile string, snap *Snapshot) error

	// LoadSnapshot retrieves the filter state for a profile.
	// Returns nil, nil if no state exists (fresh profile).
	LoadSnapshot(profile string) (*Snapshot, error)

	// DeleteProfile removes all state for a profile.
	// Idempotent: deleting a nonexistent profile is not an error.
	DeleteProfile(profile string) error
}

// Snapshot is the serializable form of the complete filter state: the
// tunables plus every learned template. The in-memory reverse index is not
// part of the snapshot; loaders re-derive it from the templates.
type Snapshot struct {
	MaxNewAlternatives int        `json:"max_new_alternatives"`
	OptionalMarker     string     `json:"optional_marker"`
	IgnoreNumeric      bool       `json:"ignore_numeric"`
	IgnoreFirstColumns int        `json:"ignore_first_columns"`
	Templates          []Template `json:"templates"`
}

// Template is one generalized line shape: an ordered sequence of columns.
type Template struct {
	Columns []Column `json:"columns"`
}

// Column is one position of a template. Alternatives holds the concrete words
// accepted at this position; Optional marks a position that may be skipped
// entirely when matching. The persisted optional-marker string never appears
// inside Alternatives.
type Column struct {
	Alternatives []string `json:"alternatives"`
	Optional     bool     `json:"optional,omitempty"`
}
