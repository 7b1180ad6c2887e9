package filter

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// bestMatch returns the id of the best-matching template for words, or -1
// when no template clears the acceptance threshold. Ties on the score keep
// the first-found candidate (lowest id, since candidates come out sorted);
// a tie is still reported as a warning because it usually means two templates
// have drifted into covering the same line shape.
func (s *Set) bestMatch(words []string) int {
	if len(s.templates) == 0 || len(words) == 0 {
		return -1
	}
	best := -1
	max := 0
	var ties []int
	for _, id := range s.candidates(words) {
		score := s.countOrderedMatches(words, id)
		if score > max {
			max = score
			best = id
			ties = ties[:0]
		} else if score == max {
			ties = append(ties, id)
		}
	}
	if max >= len(words)-s.opts.MaxNewAlternatives {
		if best >= 0 && len(ties) > 0 {
			s.log.WithFields(logrus.Fields{
				"words":    words,
				"template": best,
				"also":     ties,
				"score":    max,
			}).Warn("more than one template matches the line equally well")
		}
		return best
	}
	return -1
}

// candidates returns the sorted ids of templates sharing enough words with
// the line to possibly match. It walks the concatenated, sorted reverse-index
// buckets of all words; runs of equal ids count shared words. A template
// qualifies once its run length reaches both thresholds: long enough relative
// to the line, and long enough relative to the template's own non-optional
// column count.
func (s *Set) candidates(words []string) []int {
	var out []int
	matches := 0
	optionals := 0
	prev := -1
	lastInserted := -1
	for _, id := range s.sortedIDsContainingWords(words) {
		if id == lastInserted {
			continue
		}
		if id != prev {
			matches = 1
			prev = id
			optionals = 0
			for i := range s.templates[id].Columns {
				if s.templates[id].Columns[i].Optional {
					optionals++
				}
			}
		} else {
			matches++
		}
		if matches >= len(words)-s.opts.MaxNewAlternatives &&
			matches >= len(s.templates[id].Columns)-s.opts.MaxNewAlternatives-optionals {
			matches = 0
			out = append(out, id)
			lastInserted = id
		}
	}
	return out
}

// sortedIDsContainingWords concatenates the reverse-index buckets of every
// word and sorts the result. Duplicates are kept on purpose: the multiplicity
// of an id is how many of the line's words that template contains.
func (s *Set) sortedIDsContainingWords(words []string) []int {
	var ids []int
	for _, w := range words {
		ids = append(ids, s.index[w]...)
	}
	sort.Ints(ids)
	return ids
}

// countOrderedMatches scores how many of the line's words appear in the
// template in compatible left-to-right order. The cursor only moves forward:
// a word matching behind the cursor counts as a miss. Misses draw from a
// budget of MaxNewAlternatives, extended by the line's surplus length over
// the template; exhausting the budget zeroes the score outright.
func (s *Set) countOrderedMatches(words []string, id int) int {
	if id < 0 || id >= len(s.templates) || len(words) == 0 {
		return 0
	}
	extra := 0
	if n := len(s.templates[id].Columns); n < len(words) {
		extra = len(words) - n
	}
	matched := 0
	misses := 0
	last := -1
	for _, w := range words {
		at := s.wordIndexInTemplate(w, id, last+1)
		if at >= 0 && at > last {
			last = at
			matched++
		} else {
			misses++
			if misses > s.opts.MaxNewAlternatives+extra {
				return 0
			}
		}
	}
	return matched
}

// wordIndexInTemplate returns the index of the first column at or after
// `from` containing word, or -1. The reverse index is consulted first as a
// cheap gate: a word not indexed for this template cannot be in any column.
func (s *Set) wordIndexInTemplate(word string, id, from int) int {
	if word == "" {
		return -1
	}
	bucket, ok := s.index[word]
	if !ok {
		return -1
	}
	indexed := false
	for _, b := range bucket {
		if b == id {
			indexed = true
			break
		}
	}
	if !indexed {
		return -1
	}
	if id < 0 || id >= len(s.templates) {
		return -1
	}
	cols := s.templates[id].Columns
	if len(cols) == 0 || from > len(cols)-1 {
		return -1
	}
	for i := from; i < len(cols); i++ {
		if cols[i].Has(word) {
			return i
		}
	}
	return -1
}
