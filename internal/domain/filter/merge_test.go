package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeWords(t *testing.T) {
	empty := newTestSet(0)
	empty.mergeWords(nil, 0)
	assert.Equal(t, 0, empty.TemplateCount())

	s := testSet(t, 1)

	// Empty word sequence and out-of-range ids are no-ops.
	before := len(s.templates[0].Columns)
	s.mergeWords(nil, 0)
	assert.Len(t, s.templates[0].Columns, before)
	s.mergeWords(wordsFrom("aaa bbb ccc xxx"), s.TemplateCount())
	assert.Equal(t, 6, s.TemplateCount())

	// A line already covered changes nothing.
	s.mergeWords(wordsFrom("mmm nnn ooo ppp"), 3)
	assert.Equal(t, simpleTemplate("mmm nnn ooo ppp"), s.templates[3])

	// One unmatched leading word becomes a new optional front column.
	s.mergeWords(wordsFrom("foo qqq rrr sss ttt"), 4)
	expected := simpleTemplate("foo qqq rrr sss ttt")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 4, "aaa")
	assert.Equal(t, expected, s.templates[4])
	assert.Equal(t, []int{4}, s.index["foo"])

	// Two unmatched leading words become two optional front columns.
	s.mergeWords(wordsFrom("xyz qwe mmm nnn ooo ppp"), 3)
	expected = simpleTemplate("xyz qwe mmm nnn ooo ppp")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 1, ".")
	assert.Equal(t, expected, s.templates[3])
	assert.Equal(t, []int{3}, s.index["xyz"])
	assert.Equal(t, []int{3}, s.index["qwe"])

	// A line missing the leading word marks that column optional.
	s.mergeWords(wordsFrom("fff ggg hhh x y z"), 1)
	expected = simpleTemplate("eee fff ggg hhh x y z")
	expected = withAlt(t, expected, 0, ".")
	assert.Equal(t, expected, s.templates[1])

	// A line missing the two leading words marks both optional.
	s.mergeWords(wordsFrom("kkk lll"), 2)
	expected = simpleTemplate("iii jjj kkk lll")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 1, ".")
	assert.Equal(t, expected, s.templates[2])

	// Skipped column turns optional while the unmatched word lands as an
	// alternative in the column right before the first shared one.
	s.mergeWords(wordsFrom("bar ccc sss"), 0)
	expected = simpleTemplate("aaa qqq ccc sss")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 1, "bbb")
	expected = withAlt(t, expected, 1, "bar")
	expected = withAlt(t, expected, 2, "rrr")
	expected = withAlt(t, expected, 3, "ddd")
	assert.Equal(t, expected, s.templates[0])

	s = testSet(t, 1)

	// New alternative in the middle.
	s.mergeWords(wordsFrom("iii jjj foo lll"), 2)
	expected = simpleTemplate("iii jjj kkk lll")
	expected = withAlt(t, expected, 2, "foo")
	assert.Equal(t, expected, s.templates[2])
	assert.Equal(t, []int{2}, s.index["foo"])

	// New alternatives in two consecutive middle columns.
	s.mergeWords(wordsFrom("ttt aaa xyz qwe ccc ddd vvv"), 5)
	expected = simpleTemplate("ttt aaa uuu bbb ccc ddd vvv")
	expected = withAlt(t, expected, 2, "xyz")
	expected = withAlt(t, expected, 3, "qwe")
	assert.Equal(t, expected, s.templates[5])
	assert.Equal(t, []int{5}, s.index["xyz"])
	assert.Equal(t, []int{5}, s.index["qwe"])

	// New alternatives in two non-consecutive middle columns.
	s.mergeWords(wordsFrom("eee fff bar hhh x baz z"), 1)
	expected = simpleTemplate("eee fff ggg hhh x y z")
	expected = withAlt(t, expected, 2, "bar")
	expected = withAlt(t, expected, 5, "baz")
	assert.Equal(t, expected, s.templates[1])
	assert.Equal(t, []int{1}, s.index["bar"])
	assert.Equal(t, []int{1}, s.index["baz"])

	s = testSet(t, 1)

	// A skipped middle column turns optional.
	s.mergeWords(wordsFrom("ttt aaa bbb ccc ddd vvv"), 5)
	expected = simpleTemplate("ttt aaa uuu bbb ccc ddd vvv")
	expected = withAlt(t, expected, 2, ".")
	assert.Equal(t, expected, s.templates[5])

	// Two skipped non-consecutive middle columns turn optional.
	s.mergeWords(wordsFrom("eee ggg x y z"), 1)
	expected = simpleTemplate("eee fff ggg hhh x y z")
	expected = withAlt(t, expected, 1, ".")
	expected = withAlt(t, expected, 3, ".")
	assert.Equal(t, expected, s.templates[1])

	s.mergeWords(wordsFrom("iii jjj lll"), 2)
	expected = simpleTemplate("iii jjj kkk lll")
	expected = withAlt(t, expected, 2, ".")
	assert.Equal(t, expected, s.templates[2])

	// Differing last word is repaired by the reverse pass.
	s = testSet(t, 1)
	s.mergeWords(wordsFrom("ttt aaa uuu bbb ccc ddd xyz"), 5)
	expected = simpleTemplate("ttt aaa uuu bbb ccc ddd vvv")
	expected = withAlt(t, expected, 6, "xyz")
	assert.Equal(t, expected, s.templates[5])
	assert.Equal(t, []int{5}, s.index["xyz"])

	// Line shorter by one word marks the last column optional.
	s = testSet(t, 1)
	s.mergeWords(wordsFrom("ttt aaa uuu bbb ccc ddd"), 5)
	expected = simpleTemplate("ttt aaa uuu bbb ccc ddd vvv")
	expected = withAlt(t, expected, 6, ".")
	assert.Equal(t, expected, s.templates[5])

	// Line longer by one word appends a trailing optional column.
	s = testSet(t, 1)
	s.mergeWords(wordsFrom("ttt aaa uuu bbb ccc ddd vvv xyz"), 5)
	expected = simpleTemplate("ttt aaa uuu bbb ccc ddd vvv xyz")
	expected = withAlt(t, expected, 7, ".")
	assert.Equal(t, expected, s.templates[5])
	assert.Equal(t, []int{5}, s.index["xyz"])
}

func TestAlignFrom(t *testing.T) {
	empty := newTestSet(0)
	wi, ci := empty.alignFrom(nil, 0, 0, 0)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})
	wi, ci = empty.alignFrom(wordsFrom("aaa bbb ccc xxx"), 0, 0, 0)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})
	assert.Equal(t, 0, empty.TemplateCount())
	assert.Empty(t, empty.index)

	s := testSet(t, 1)

	// Empty word sequence leaves the template untouched.
	before := len(s.templates[0].Columns)
	wi, ci = s.alignFrom(nil, 0, 0, 0)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})
	assert.Len(t, s.templates[0].Columns, before)

	// Nonexistent template id.
	wi, ci = s.alignFrom(wordsFrom("aaa bbb ccc xxx"), s.TemplateCount(), 0, 0)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})

	// Aligned from the start: no change.
	wi, ci = s.alignFrom(wordsFrom("mmm nnn ooo ppp"), 3, 0, 0)
	assert.Equal(t, [2]int{0, 0}, [2]int{wi, ci})
	assert.Equal(t, simpleTemplate("mmm nnn ooo ppp"), s.templates[3])

	// One leading word with no column: spliced in as an optional column.
	wi, ci = s.alignFrom(wordsFrom("foo qqq rrr sss ttt"), 4, 0, 0)
	assert.Equal(t, [2]int{1, 1}, [2]int{wi, ci})
	expected := simpleTemplate("foo qqq rrr sss ttt")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 4, "aaa")
	assert.Equal(t, expected, s.templates[4])
	assert.Equal(t, []int{4}, s.index["foo"])

	// Two leading words with no columns.
	wi, ci = s.alignFrom(wordsFrom("xyz qwe mmm nnn ooo ppp"), 3, 0, 0)
	assert.Equal(t, [2]int{2, 2}, [2]int{wi, ci})
	expected = simpleTemplate("xyz qwe mmm nnn ooo ppp")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 1, ".")
	assert.Equal(t, expected, s.templates[3])
	assert.Equal(t, []int{3}, s.index["xyz"])
	assert.Equal(t, []int{3}, s.index["qwe"])

	// Line starts one column into the template: column turns optional.
	wi, ci = s.alignFrom(wordsFrom("fff ggg hhh x y z"), 1, 0, 0)
	assert.Equal(t, [2]int{0, 1}, [2]int{wi, ci})
	expected = simpleTemplate("eee fff ggg hhh x y z")
	expected = withAlt(t, expected, 0, ".")
	assert.Equal(t, expected, s.templates[1])

	// Line starts two columns in.
	wi, ci = s.alignFrom(wordsFrom("kkk lll"), 2, 0, 0)
	assert.Equal(t, [2]int{0, 2}, [2]int{wi, ci})
	expected = simpleTemplate("iii jjj kkk lll")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 1, ".")
	assert.Equal(t, expected, s.templates[2])

	// Mixed: one column optional, one absorbed alternative.
	wi, ci = s.alignFrom(wordsFrom("bar ccc sss"), 0, 0, 0)
	assert.Equal(t, [2]int{1, 2}, [2]int{wi, ci})
	expected = simpleTemplate("aaa qqq ccc sss")
	expected = withAlt(t, expected, 0, ".")
	expected = withAlt(t, expected, 1, "bbb")
	expected = withAlt(t, expected, 1, "bar")
	expected = withAlt(t, expected, 2, "rrr")
	expected = withAlt(t, expected, 3, "ddd")
	assert.Equal(t, expected, s.templates[0])

	// Mid-sequence alignments where word and column cursors differ.
	s = testSet(t, 1)
	wi, ci = s.alignFrom(nil, 5, 3, 2)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})
	assert.Equal(t, simpleTemplate("ttt aaa uuu bbb ccc ddd vvv"), s.templates[5])

	s = testSet(t, 1)
	wi, ci = s.alignFrom(wordsFrom("ttt aaa kkk uuu ccc ddd vvv"), 5, 3, 2)
	assert.Equal(t, [2]int{3, 2}, [2]int{wi, ci})
	assert.Equal(t, simpleTemplate("ttt aaa uuu bbb ccc ddd vvv"), s.templates[5])

	s = testSet(t, 1)
	wi, ci = s.alignFrom(wordsFrom("ttt aaa uuu xyz uuu bbb ccc ddd vvv"), 5, 3, 2)
	assert.Equal(t, [2]int{4, 3}, [2]int{wi, ci})
	expected = simpleTemplate("ttt aaa xyz uuu bbb ccc ddd vvv")
	expected = withAlt(t, expected, 2, ".")
	assert.Equal(t, expected, s.templates[5])
	assert.Equal(t, []int{5}, s.index["xyz"])

	s = testSet(t, 1)
	wi, ci = s.alignFrom(wordsFrom("ttt aaa uuu xyz bbb ccc ddd vvv"), 5, 3, 2)
	assert.Equal(t, [2]int{4, 3}, [2]int{wi, ci})
	expected = simpleTemplate("ttt aaa uuu bbb ccc ddd vvv")
	expected = withAlt(t, expected, 2, "xyz")
	assert.Equal(t, expected, s.templates[5])
	assert.Equal(t, []int{5}, s.index["xyz"])

	s = testSet(t, 1)
	wi, ci = s.alignFrom(wordsFrom("ttt aaa fff xyz ccc ddd vvv"), 5, 3, 2)
	assert.Equal(t, [2]int{4, 4}, [2]int{wi, ci})
	expected = simpleTemplate("ttt aaa uuu bbb ccc ddd vvv")
	expected = withAlt(t, expected, 2, ".")
	expected = withAlt(t, expected, 3, "xyz")
	assert.Equal(t, expected, s.templates[5])
	assert.Equal(t, []int{5}, s.index["xyz"])

	s = testSet(t, 1)
	wi, ci = s.alignFrom(wordsFrom("xyz foo bar baz"), 5, 3, 2)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})
	assert.Equal(t, simpleTemplate("ttt aaa uuu bbb ccc ddd vvv"), s.templates[5])

	// A word matching a late column loses to a later word in an earlier one.
	s = testSet(t, 1)
	install(s, withAlt(t, simpleTemplate("aaa bbb ccc ddd eee fff ggg hhh"), 7, "lll"))
	wi, ci = s.alignFrom(wordsFrom("aaa bbb ccc lll ddd eee fff ggg hhh"), 6, 3, 2)
	assert.Equal(t, [2]int{4, 3}, [2]int{wi, ci})
	expected = simpleTemplate("aaa bbb ccc ddd eee fff ggg hhh")
	expected = withAlt(t, expected, 2, "lll")
	expected = withAlt(t, expected, 7, "lll")
	assert.Equal(t, expected, s.templates[6])
}

func TestEarliestMatch(t *testing.T) {
	empty := newTestSet(0)
	wi, ci := empty.earliestMatch(nil, 0, 0, 0)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})
	words := wordsFrom("aaa bbb ccc ddd")
	wi, ci = empty.earliestMatch(words, 0, 0, 0)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})

	// A template with no columns cannot match.
	empty.templates = append(empty.templates, &Template{})
	wi, ci = empty.earliestMatch(words, 0, 0, 0)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})

	type match struct {
		words  string
		id     int
		wStart int
		cStart int
		wantW  int
		wantC  int
	}
	s := testSet(t, 1)
	cases := []match{
		// From the start of both sequences.
		{"aaa bbb ccc ddd", 0, 0, 0, 0, 0},
		{"xyz aaa ccc ddd", 0, 0, 0, 1, 0},
		{"xyz bbb ccc ddd", 0, 0, 0, 1, 1},
		{"sss aaa ccc ddd", 0, 0, 0, 1, 0},
		{"bar ccc sss", 0, 0, 0, 1, 2},
		{"xyz", 0, 0, 0, -1, -1},
		// Equal non-zero start cursors.
		{"aaa bbb ccc ddd", 0, 2, 2, 2, 2},
		{"aaa bbb xyz ccc", 0, 2, 2, 3, 2},
		{"aaa bbb xyz ddd", 0, 2, 2, 3, 3},
		{"aaa bar ddd", 0, 1, 1, 2, 3},
		{"xyz foo bar baz", 0, 2, 2, -1, -1},
		// Different start cursors.
		{"ttt aaa kkk uuu ccc ddd vvv", 5, 3, 2, 3, 2},
		{"ttt aaa uuu xyz uuu bbb ccc ddd vvv", 5, 3, 2, 4, 2},
		{"ttt aaa uuu fff bbb ccc ddd vvv", 5, 3, 2, 4, 3},
		{"ttt aaa fff xyz ccc ddd vvv", 5, 3, 2, 4, 4},
		{"xyz foo bar baz", 5, 3, 2, -1, -1},
	}
	for _, c := range cases {
		wi, ci = s.earliestMatch(wordsFrom(c.words), c.id, c.wStart, c.cStart)
		assert.Equal(t, [2]int{c.wantW, c.wantC}, [2]int{wi, ci},
			"words %q template %d from (%d,%d)", c.words, c.id, c.wStart, c.cStart)
	}
	wi, ci = s.earliestMatch(nil, 0, 2, 2)
	assert.Equal(t, [2]int{-1, -1}, [2]int{wi, ci})

	// A word matching a late column loses to a later word in an earlier one.
	install(s, withAlt(t, simpleTemplate("aaa bbb ccc ddd eee fff ggg hhh"), 7, "lll"))
	words = wordsFrom("aaa bbb lll ddd eee fff ggg hhh")
	wi, ci = s.earliestMatch(words, 6, 2, 2)
	assert.Equal(t, [2]int{3, 3}, [2]int{wi, ci})
	words = wordsFrom("aaa bbb ccc lll ddd eee fff ggg hhh")
	wi, ci = s.earliestMatch(words, 6, 3, 2)
	assert.Equal(t, [2]int{4, 3}, [2]int{wi, ci})
	wi, ci = s.earliestMatch(words, 6, 8, 7)
	assert.Equal(t, [2]int{8, 7}, [2]int{wi, ci})
}
