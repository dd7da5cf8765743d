package ui

import "testing"

func assertStringWidth(t *testing.T, input string, expected int) {
	actual := StringWidth(input)
	if actual != expected {
		t.Errorf("%q: expected width of %d got %d", input, expected, actual)
	}
}

func TestStringWidth(t *testing.T) {
	assertStringWidth(t, "", 0)

	assertStringWidth(t, "hello", 5)
	assertStringWidth(t, "\x02hello", 5)
	assertStringWidth(t, "\x035hello", 5)
	assertStringWidth(t, "\x0305hello", 5)
	assertStringWidth(t, "\x0305,0hello", 5)
	assertStringWidth(t, "\x0305,09hello", 5)

	assertStringWidth(t, "\x0305,hello", 6)
	assertStringWidth(t, "\x03050hello", 6)
	assertStringWidth(t, "\x0305,090hello", 6)

	assertStringWidth(t, "\x04FF0000hello", 5)
	assertStringWidth(t, "\x04FF0000,00FF00hello", 5)
	assertStringWidth(t, "\x04QUXhello", 8)
	assertStringWidth(t, "\x13tip\x13hello\x13", 5)
	assertStringWidth(t, "\x10nick\x10hello\x10", 5)

	assertStringWidth(t, "日本", 4)
}

func TestTruncate(t *testing.T) {
	if s := Truncate("\x02hello world", 8, "~"); s != "hello w~" {
		t.Errorf("expected %q got %q", "hello w~", s)
	}
	if s := Truncate("hello", 8, "~"); s != "hello" {
		t.Errorf("expected %q got %q", "hello", s)
	}
}
