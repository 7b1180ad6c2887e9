// Package textstore persists filter snapshots in the plain-text layout: four
// header lines carrying the tunables, then one rendered template per line
// with bracketed alternative groups. The layout is line oriented so saved
// state stays diffable and hand-editable.
package textstore

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/corey/logmap/internal/ports"
)

// Store reads and writes snapshots at a fixed file path.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the snapshot, replacing any previous state at the path.
func (s *Store) Save(snap *ports.Snapshot) error {
	if err := os.WriteFile(s.path, Encode(snap), 0o644); err != nil {
		return fmt.Errorf("write filter state: %w", err)
	}
	return nil
}

// Load reads and parses the snapshot. A missing or malformed file fails the
// whole load; no partial state is returned.
func (s *Store) Load() (*ports.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read filter state: %w", err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return snap, nil
}

// Encode renders a snapshot into the persisted layout. Optional columns carry
// the marker as a trailing pseudo-alternative.
func Encode(snap *ports.Snapshot) []byte {
	var b strings.Builder
	b.WriteString(strconv.Itoa(snap.MaxNewAlternatives))
	b.WriteByte('\n')
	b.WriteString(snap.OptionalMarker)
	b.WriteByte('\n')
	b.WriteString(strconv.FormatBool(snap.IgnoreNumeric))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(snap.IgnoreFirstColumns))
	b.WriteByte('\n')
	for i, t := range snap.Templates {
		if i > 0 {
			b.WriteString(",\n")
		}
		groups := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			alts := c.Alternatives
			if c.Optional {
				alts = append(append([]string(nil), alts...), snap.OptionalMarker)
			}
			groups[j] = "[" + strings.Join(alts, ",") + "]"
		}
		b.WriteString(strings.Join(groups, ","))
	}
	return []byte(b.String())
}

// Decode parses the persisted layout back into a snapshot. The four header
// lines are positional; every following line containing a bracketed group is
// a template, anything else is ignored. Marker pseudo-alternatives are folded
// into the Optional flag and never surface as words.
func Decode(data []byte) (*ports.Snapshot, error) {
	lines := strings.Split(string(data), "\n")
	if len(lines) < 5 {
		return nil, fmt.Errorf("corrupted state: at least 5 lines expected, found %d", len(lines))
	}

	maxNew, err := strconv.Atoi(lines[0])
	if err != nil || maxNew < 0 {
		return nil, fmt.Errorf("line 1: invalid max new alternatives %q", lines[0])
	}
	marker := lines[1]
	if marker == "" {
		return nil, fmt.Errorf("line 2: optional marker cannot be empty")
	}
	ignoreNumeric, err := strconv.ParseBool(lines[2])
	if err != nil {
		return nil, fmt.Errorf("line 3: invalid ignore-numeric flag %q", lines[2])
	}
	ignoreFirst, err := strconv.Atoi(lines[3])
	if err != nil || ignoreFirst < 0 {
		return nil, fmt.Errorf("line 4: invalid ignore-first-columns %q", lines[3])
	}

	snap := &ports.Snapshot{
		MaxNewAlternatives: maxNew,
		OptionalMarker:     marker,
		IgnoreNumeric:      ignoreNumeric,
		IgnoreFirstColumns: ignoreFirst,
	}
	for _, line := range lines[4:] {
		if !strings.Contains(line, "[") || !strings.Contains(line, "]") {
			continue
		}
		t := ports.Template{}
		for _, group := range strings.FieldsFunc(line, func(r rune) bool {
			return r == '[' || r == ']'
		}) {
			if group == "," {
				continue
			}
			col := ports.Column{}
			for _, w := range strings.Split(group, ",") {
				if w == "" {
					continue
				}
				if w == marker {
					col.Optional = true
					continue
				}
				col.Alternatives = append(col.Alternatives, w)
			}
			t.Columns = append(t.Columns, col)
		}
		snap.Templates = append(snap.Templates, t)
	}
	return snap, nil
}
