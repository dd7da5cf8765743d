package ui

import "testing"

func assertSplitPoints(t *testing.T, line string, expected []Point) {
	l := NewLine([]string{line}, "", 0)

	if len(l.splitPoints) != len(expected) {
		t.Errorf("%q: expected %d split points got %d", line, len(expected), len(l.splitPoints))
		return
	}

	for i := 0; i < len(expected); i++ {
		e := expected[i]
		a := l.splitPoints[i]

		if e != a {
			t.Errorf("%q, point #%d: expected %+v got %+v", line, i, e, a)
		}
	}
}

func TestLineSplitPoints(t *testing.T) {
	assertSplitPoints(t, "hello", []Point{
		{X: 5, I: 5, Split: true},
	})
	assertSplitPoints(t, "hello world", []Point{
		{X: 5, I: 5, Split: true},
		{X: 6, I: 6, Split: false},
		{X: 11, I: 11, Split: true},
	})
	assertSplitPoints(t, "\x02hello\x02 wörld", []Point{
		{X: 5, I: 5, Split: true},
		{X: 6, I: 6, Split: false},
		{X: 11, I: 12, Split: true},
	})
	assertSplitPoints(t, "日本 語", []Point{
		{X: 4, I: 6, Split: true},
		{X: 5, I: 7, Split: false},
		{X: 7, I: 10, Split: true},
	})
}

func assertRenderedHeight(t *testing.T, line string, width int, expected int) {
	l := NewLine([]string{line}, "", 0)

	actual := l.RenderedHeight(width)

	if actual != expected {
		t.Errorf("%q (width=%d) expected to take %d lines, takes %d", line, width, expected, actual)
	}
}

func TestRenderedHeight(t *testing.T) {
	assertRenderedHeight(t, "", 10, 1)

	assertRenderedHeight(t, "hello world", 100, 1)
	assertRenderedHeight(t, "hello world", 10, 2)

	assertRenderedHeight(t, "have a good day!", 100, 1)
	assertRenderedHeight(t, "have a good day!", 10, 2)
	assertRenderedHeight(t, "have a good day!", 6, 3)
	assertRenderedHeight(t, "have a good day!", 4, 4)

	assertRenderedHeight(t, "abcdefghij", 5, 2)
	assertRenderedHeight(t, "abcdefghijk", 5, 3)
	assertRenderedHeight(t, "\x02\x034bold red", 4, 2)
}

func assertRows(t *testing.T, line string, width int, expected []string) {
	l := NewLine([]string{line}, "", 0)
	actual := l.Rows(width)

	if len(actual) != len(expected) {
		t.Errorf("%q (width=%d): expected rows %q, got %q", line, width, expected, actual)
		return
	}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("%q (width=%d): expected rows %q, got %q", line, width, expected, actual)
			return
		}
	}
}

func TestRows(t *testing.T) {
	assertRows(t, "have a good day!", 6, []string{"have a", "good", "day!"})
	assertRows(t, "  indented", 20, []string{"indented"})
	assertRows(t, "abcdefghijk xy", 5, []string{"abcde", "fghij", "k xy"})
	assertRows(t, "日本語", 4, []string{"日本", "語"})
	assertRows(t, "hello", 0, []string{"hello"})
}

func TestLineAccessors(t *testing.T) {
	l := NewLine([]string{"\x02a\x02", "b"}, "Monospace", 12)

	if l.Text() != "ab" {
		t.Errorf("expected text %q, got %q", "ab", l.Text())
	}
	if l.Height() != 12 {
		t.Errorf("expected height 12, got %d", l.Height())
	}

	segments := l.Segments()
	segments[0] = "changed"
	if l.Segments()[0] != "\x02a\x02" {
		t.Errorf("segments are shared with the caller")
	}

	same := NewLine([]string{"\x02a\x02", "b"}, "Sans", 10)
	if !l.Equal(same) {
		t.Errorf("expected lines with the same segments to be equal")
	}
	other := NewLine([]string{"\x02a\x02b"}, "Monospace", 12)
	if l.Equal(other) {
		t.Errorf("expected lines with different segments to differ")
	}
}
