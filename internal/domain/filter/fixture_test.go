package filter

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/corey/logmap/internal/domain/tokenize"
)

// quietLogger swallows the ambiguity/anomaly warnings so tests can drive
// those paths without polluting the output.
func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestSet(maxAllowed int) *Set {
	return New(Options{
		MaxNewAlternatives: maxAllowed,
		OptionalMarker:     ".",
		IgnoreNumeric:      true,
		IgnoreFirstColumns: 2,
	}, quietLogger())
}

func wordsFrom(s string) []string { return tokenize.Split(s) }

// simpleTemplate builds a template with one single-word column per word.
func simpleTemplate(s string) *Template {
	t := &Template{}
	for _, w := range tokenize.Split(s) {
		t.Columns = append(t.Columns, Column{Alternatives: []string{w}})
	}
	return t
}

// withAlt appends word as an alternative of the column at idx and returns the
// template for chaining. The "." marker flags the column optional instead of
// adding an alternative, matching how the persistence codecs read it.
func withAlt(tb testing.TB, t *Template, idx int, word string) *Template {
	tb.Helper()
	if idx < 0 || idx >= len(t.Columns) {
		tb.Fatalf("no column %d in %v", idx, t.Columns)
	}
	if word == "." {
		t.Columns[idx].Optional = true
	} else {
		t.Columns[idx].Alternatives = append(t.Columns[idx].Alternatives, word)
	}
	return t
}

// install appends a template to the set and registers every alternative in
// the reverse index, bypassing the matching pipeline.
func install(s *Set, t *Template) {
	id := len(s.templates)
	s.templates = append(s.templates, t)
	for _, c := range t.Columns {
		for _, w := range c.Alternatives {
			s.registerWord(w, id)
		}
	}
}

// testSet builds the shared six-template fixture used across the matcher and
// merger tests:
//
//	0: [aaa],[qqq,bbb],[ccc,rrr],[sss,ddd]
//	1: [eee],[fff],[ggg],[hhh],[x],[y],[z]
//	2: [iii],[jjj],[kkk],[lll]
//	3: [mmm],[nnn],[ooo],[ppp]
//	4: [qqq],[rrr],[sss],[ttt,aaa]
//	5: [ttt],[aaa],[uuu],[bbb],[ccc],[ddd],[vvv]
func testSet(tb testing.TB, maxAllowed int) *Set {
	tb.Helper()
	s := newTestSet(maxAllowed)
	f0 := simpleTemplate("aaa qqq ccc sss")
	f0 = withAlt(tb, f0, 1, "bbb")
	f0 = withAlt(tb, f0, 2, "rrr")
	f0 = withAlt(tb, f0, 3, "ddd")
	install(s, f0)
	install(s, simpleTemplate("eee fff ggg hhh x y z"))
	install(s, simpleTemplate("iii jjj kkk lll"))
	install(s, simpleTemplate("mmm nnn ooo ppp"))
	f4 := simpleTemplate("qqq rrr sss ttt")
	f4 = withAlt(tb, f4, 3, "aaa")
	install(s, f4)
	install(s, simpleTemplate("ttt aaa uuu bbb ccc ddd vvv"))
	return s
}
