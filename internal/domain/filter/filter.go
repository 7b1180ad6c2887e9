// Package filter implements the online template-mining engine: an append-only
// store of line templates, a reverse word index for cheap candidate pruning,
// a bounded ordered-match scorer, and an in-place aligner that merges each
// matched line into its template's column structure.
//
// A Set is NOT safe for concurrent use. The caller owns serialization.
package filter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/corey/logmap/internal/domain/tokenize"
	"github.com/corey/logmap/internal/ports"
)

// DefaultOptionalMarker is the persisted stand-in for an optional column.
// It can never collide with a real word: '.' is a tokenizer delimiter.
const DefaultOptionalMarker = "."

// Options holds the engine tunables. The zero value is not usable directly;
// pass it through New, which fills defaults.
type Options struct {
	// MaxNewAlternatives is how many of a line's words may fail to
	// correspond to anything already in a template before the template is
	// rejected as a match.
	MaxNewAlternatives int

	// OptionalMarker is the string rendered for optional columns by the
	// persistence codecs. Defaults to DefaultOptionalMarker.
	OptionalMarker string

	// IgnoreNumeric drops numeric-only tokens during tokenization.
	IgnoreNumeric bool

	// IgnoreFirstColumns drops the first N tokens of every line (timestamp
	// columns, typically).
	IgnoreFirstColumns int
}

// DefaultOptions returns the stock tunables: zero tolerance for new
// alternatives, numeric words dropped, first two columns ignored.
func DefaultOptions() Options {
	return Options{
		MaxNewAlternatives: 0,
		OptionalMarker:     DefaultOptionalMarker,
		IgnoreNumeric:      true,
		IgnoreFirstColumns: 2,
	}
}

// Column is one position of a template: the set of words accepted there,
// plus an optional flag meaning the position may be skipped when matching.
type Column struct {
	Alternatives []string
	Optional     bool
}

// Has reports whether word is a concrete alternative of this column.
// Optionality never satisfies containment.
func (c *Column) Has(word string) bool {
	for _, alt := range c.Alternatives {
		if alt == word {
			return true
		}
	}
	return false
}

// Template is an ordered sequence of columns describing one generalized
// line shape.
type Template struct {
	Columns []Column
}

// Set owns the template store and the reverse index, and carries the
// tunables. Template ids are creation-order indexes into the store and are
// never invalidated: templates are only ever appended and mutated, never
// removed or reordered.
type Set struct {
	opts      Options
	templates []*Template

	// index maps each concrete word to the sorted, deduplicated ids of the
	// templates currently containing it as an alternative. Entries are added
	// eagerly whenever a word lands in a column and are never pruned;
	// alternatives are never removed, so the index cannot go stale.
	index map[string][]int

	log logrus.FieldLogger
}

// New creates an empty Set. A nil logger falls back to the logrus standard
// logger.
func New(opts Options, log logrus.FieldLogger) *Set {
	if opts.OptionalMarker == "" {
		opts.OptionalMarker = DefaultOptionalMarker
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Set{
		opts:  opts,
		index: make(map[string][]int),
		log:   log,
	}
}

// Options returns the Set's tunables.
func (s *Set) Options() Options { return s.opts }

// TemplateCount returns the number of learned templates.
func (s *Set) TemplateCount() int { return len(s.templates) }

// Template returns a deep copy of the template with the given id, or nil if
// the id is out of range. Internal columns are never handed out by reference.
func (s *Set) Template(id int) *Template {
	if id < 0 || id >= len(s.templates) {
		return nil
	}
	t := s.templates[id]
	out := &Template{Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		out.Columns[i] = Column{
			Alternatives: append([]string(nil), c.Alternatives...),
			Optional:     c.Optional,
		}
	}
	return out
}

// LearnLine tokenizes a line and either merges it into the best-matching
// template or creates a new one. Always succeeds.
func (s *Set) LearnLine(line string) {
	words := tokenize.Words(line, s.opts.IgnoreFirstColumns, s.opts.IgnoreNumeric)
	s.Learn(words)
}

// Learn is LearnLine for a pre-tokenized word sequence.
func (s *Set) Learn(words []string) {
	if id := s.bestMatch(words); id >= 0 {
		s.mergeWords(words, id)
	} else {
		s.appendTemplate(words)
	}
}

// IsLineKnown reports whether a line matches any learned template.
// Pure query; the Set is not mutated.
func (s *Set) IsLineKnown(line string) bool {
	words := tokenize.Words(line, s.opts.IgnoreFirstColumns, s.opts.IgnoreNumeric)
	return s.Known(words)
}

// Known is IsLineKnown for a pre-tokenized word sequence.
func (s *Set) Known(words []string) bool {
	return s.bestMatch(words) >= 0
}

// appendTemplate creates a new single-alternative template from words and
// registers every word in the reverse index. Empty words are skipped; an
// entirely empty sequence creates nothing.
func (s *Set) appendTemplate(words []string) {
	t := &Template{}
	for _, w := range words {
		if w == "" {
			continue
		}
		t.Columns = append(t.Columns, Column{Alternatives: []string{w}})
	}
	if len(t.Columns) == 0 {
		return
	}
	id := len(s.templates)
	s.templates = append(s.templates, t)
	for _, c := range t.Columns {
		s.registerWord(c.Alternatives[0], id)
	}
}

// registerWord records (word, id) in the reverse index, keeping each bucket
// sorted and deduplicated. The word must currently be an alternative of the
// template; stale registrations are refused so the containment invariant
// holds in both directions.
func (s *Set) registerWord(word string, id int) {
	if !s.wordInTemplate(word, id) {
		return
	}
	bucket := s.index[word]
	for _, existing := range bucket {
		if existing == id {
			return
		}
	}
	bucket = append(bucket, id)
	sort.Ints(bucket)
	s.index[word] = bucket
}

// wordInTemplate reports whether word is a concrete alternative anywhere in
// the template with the given id.
func (s *Set) wordInTemplate(word string, id int) bool {
	if id < 0 || id >= len(s.templates) {
		return false
	}
	for i := range s.templates[id].Columns {
		if s.templates[id].Columns[i].Has(word) {
			return true
		}
	}
	return false
}

// Render produces the persisted template body: one line per template, each
// column as a bracketed comma-joined alternative group, optional columns
// carrying the marker as a trailing pseudo-alternative. Templates are
// separated by ",\n". Empty Set renders as "".
func (s *Set) Render() string {
	var b strings.Builder
	for i, t := range s.templates {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(renderTemplate(t, s.opts.OptionalMarker))
	}
	return b.String()
}

func renderTemplate(t *Template, marker string) string {
	groups := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		alts := c.Alternatives
		if c.Optional {
			alts = append(append([]string(nil), alts...), marker)
		}
		groups[i] = "[" + strings.Join(alts, ",") + "]"
	}
	return strings.Join(groups, ",")
}

// Dump writes the internal state (templates, then the reverse index in key
// order) in a human-readable form.
func (s *Set) Dump(w io.Writer) {
	if len(s.templates) == 0 {
		fmt.Fprintln(w, "no templates learned yet")
	} else {
		for id, t := range s.templates {
			fmt.Fprintf(w, "%4d: %s\n", id, renderTemplate(t, s.opts.OptionalMarker))
		}
	}
	fmt.Fprintln(w)
	if len(s.index) == 0 {
		fmt.Fprintln(w, "no words indexed yet")
		return
	}
	keys := make([]string, 0, len(s.index))
	for k := range s.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s : %v\n", k, s.index[k])
	}
}

// Snapshot converts the Set to its serializable form.
func (s *Set) Snapshot() *ports.Snapshot {
	snap := &ports.Snapshot{
		MaxNewAlternatives: s.opts.MaxNewAlternatives,
		OptionalMarker:     s.opts.OptionalMarker,
		IgnoreNumeric:      s.opts.IgnoreNumeric,
		IgnoreFirstColumns: s.opts.IgnoreFirstColumns,
	}
	for _, t := range s.templates {
		pt := ports.Template{Columns: make([]ports.Column, len(t.Columns))}
		for i, c := range t.Columns {
			pt.Columns[i] = ports.Column{
				Alternatives: append([]string(nil), c.Alternatives...),
				Optional:     c.Optional,
			}
		}
		snap.Templates = append(snap.Templates, pt)
	}
	return snap
}

// FromSnapshot rebuilds a Set from its serializable form, re-deriving the
// reverse index from the templates. Columns with no concrete alternatives
// are preserved as-is; marker strings must already have been stripped by the
// codec that produced the snapshot.
func FromSnapshot(snap *ports.Snapshot, log logrus.FieldLogger) *Set {
	s := New(Options{
		MaxNewAlternatives: snap.MaxNewAlternatives,
		OptionalMarker:     snap.OptionalMarker,
		IgnoreNumeric:      snap.IgnoreNumeric,
		IgnoreFirstColumns: snap.IgnoreFirstColumns,
	}, log)
	for _, pt := range snap.Templates {
		t := &Template{Columns: make([]Column, len(pt.Columns))}
		for i, pc := range pt.Columns {
			t.Columns[i] = Column{
				Alternatives: append([]string(nil), pc.Alternatives...),
				Optional:     pc.Optional,
			}
		}
		id := len(s.templates)
		s.templates = append(s.templates, t)
		for _, c := range t.Columns {
			for _, w := range c.Alternatives {
				if w != "" && w != s.opts.OptionalMarker {
					s.registerWord(w, id)
				}
			}
		}
	}
	return s
}
