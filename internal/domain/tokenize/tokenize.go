// Package tokenize turns raw log lines into ordered word tokens.
// Splitting is a fixed delimiter set, not a grammar: log payloads are too
// irregular for anything smarter to pay off, and the filter engine only needs
// stable word boundaries.
package tokenize

import "strings"

// delimiters is the fixed split set. Note '.' and ':' are delimiters, so
// timestamps and version numbers fall apart into short numeric tokens that
// the numeric filter can drop.
const delimiters = " /,.:\"'(){}[]"

// Split breaks a line on the fixed delimiter set and drops empty tokens.
func Split(line string) []string {
	var words []string
	for _, w := range strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	}) {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Words tokenizes a line for the filter engine: split, drop the first
// ignoreFirst tokens (timestamp columns), then drop numeric-only tokens if
// ignoreNumeric is set.
func Words(line string, ignoreFirst int, ignoreNumeric bool) []string {
	raw := Split(line)
	if ignoreFirst >= len(raw) {
		return nil
	}
	var words []string
	for _, w := range raw[ignoreFirst:] {
		if ignoreNumeric && IsNumeric(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}

// IsNumeric reports whether a word consists entirely of digits, '*' or '#'.
// The wildcard characters show up in masked identifiers (phone numbers,
// partially redacted ids) and are treated as numeric noise.
// The empty string counts as numeric.
func IsNumeric(word string) bool {
	for _, r := range word {
		if r != '*' && r != '#' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
