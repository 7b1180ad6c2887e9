package filter

import "github.com/sirupsen/logrus"

// mergeWords folds a matched line into the template with the given id,
// mutating it in place. Out-of-range ids and empty lines are no-ops.
//
// The merge walks the line and the template left to right, repeatedly
// aligning the region before the next shared word (alignFrom). When an
// alignment pass makes no progress the cursors are nudged one step forward
// each, otherwise alternation loops could stall on repeated words. Leftovers
// after the walk are handled by one of two tail rules: if the line simply
// outran the template, the surplus words become trailing optional columns;
// otherwise both sides are reversed and one more alignment pass repairs the
// suffix from the right, which reuses the prefix logic unchanged.
func (s *Set) mergeWords(words []string, id int) {
	if id < 0 || id >= len(s.templates) || len(words) == 0 {
		return
	}
	wi, ci := s.alignFrom(words, id, 0, 0)
	if wi < 0 || ci < 0 {
		// The matcher accepted this template, so at least one shared word
		// exists; failing to find it here means the index and the store
		// disagree.
		s.log.WithFields(logrus.Fields{
			"words":    words,
			"template": id,
		}).Warn("matched template could not be aligned with line")
		return
	}
	for len(words) > wi {
		nwi, nci := s.alignFrom(words, id, wi, ci)
		if nwi == -1 || nci == -1 {
			break
		}
		if nwi != wi || nci != ci {
			wi, ci = nwi, nci
			continue
		}
		if wi == len(words)-1 {
			break
		}
		if ci == len(s.templates[id].Columns)-1 {
			break
		}
		wi++
		ci++
	}
	n := len(s.templates[id].Columns)
	if len(words) > n && ci == n-1 {
		for _, w := range words[n:] {
			s.templates[id].Columns = append(s.templates[id].Columns,
				Column{Alternatives: []string{w}, Optional: true})
			s.registerWord(w, id)
		}
	} else if wi < len(words) {
		reversed := make([]string, len(words))
		for i, w := range words {
			reversed[len(words)-1-i] = w
		}
		reverseColumns(s.templates[id].Columns)
		s.alignFrom(reversed, id, 0, 0)
		reverseColumns(s.templates[id].Columns)
	}
}

// alignFrom aligns the stretch of line and template between the given start
// cursors and the earliest shared word, and returns the cursors of that
// shared word (word index, column index), or (-1, -1) when no shared word
// remains. Two cases:
//
//   - the line is ahead of the template: the unmatched words are spliced in
//     as new optional columns just before the shared column;
//   - the template is ahead of (or even with) the line: the surplus columns
//     become optional, and the line's unmatched words are absorbed as
//     alternatives into the columns immediately preceding the shared one.
func (s *Set) alignFrom(words []string, id, wStart, cStart int) (int, int) {
	fw, fc := s.earliestMatch(words, id, wStart, cStart)
	if fw < 0 || fc < 0 {
		return -1, -1
	}
	offset := cStart - wStart
	cols := s.templates[id].Columns

	if fw+offset > fc {
		inserted := words[wStart:fw]
		front := make([]Column, len(inserted))
		for i, w := range inserted {
			front[i] = Column{Alternatives: []string{w}, Optional: true}
		}
		grown := make([]Column, 0, len(cols)+len(front))
		grown = append(grown, cols[:fc]...)
		grown = append(grown, front...)
		grown = append(grown, cols[fc:]...)
		s.templates[id].Columns = grown
		for _, w := range inserted {
			s.registerWord(w, id)
		}
		return fw, fc + len(front)
	}

	// boundary splits the template's surplus region: columns before it have
	// no word to pair with and become skippable, columns from it up to the
	// shared column pair one-to-one with the line's unmatched words.
	boundary := fc - (fw - wStart)
	for i := cStart; i < boundary; i++ {
		cols[i].Optional = true
	}
	w := wStart
	for i := boundary; i < fc; i++ {
		if !cols[i].Has(words[w]) {
			cols[i].Alternatives = append(cols[i].Alternatives, words[w])
		}
		w++
	}
	for _, word := range words[wStart:fw] {
		s.registerWord(word, id)
	}
	return fw, fc
}

// earliestMatch scans all words from wStart and returns the (word, column)
// pair whose column index is smallest, searching columns from cStart only.
// Later words can win if they sit in an earlier column; among words sharing
// the smallest column the first one wins. Returns (-1, -1) when either
// cursor is already past its sequence or nothing matches.
func (s *Set) earliestMatch(words []string, id, wStart, cStart int) (int, int) {
	if wStart > len(words)-1 || id < 0 || id >= len(s.templates) {
		return -1, -1
	}
	if cStart > len(s.templates[id].Columns)-1 {
		return -1, -1
	}
	fw, fc := -1, -1
	for i := wStart; i < len(words); i++ {
		at := s.wordIndexInTemplate(words[i], id, cStart)
		if at >= 0 && (fc == -1 || at < fc) {
			fc = at
			fw = i
		}
	}
	return fw, fc
}

func reverseColumns(cols []Column) {
	for i, j := 0, len(cols)-1; i < j; i, j = i+1, j-1 {
		cols[i], cols[j] = cols[j], cols[i]
	}
}
