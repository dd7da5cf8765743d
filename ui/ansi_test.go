package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestANSI(t *testing.T) {
	assert.Equal(t, "abc", StyledString{string: "abc"}.ANSI())
	assert.Equal(t, "", StyledString{}.ANSI())
	assert.Equal(t, "\x1b[0;1mabc\x1b[0m", Styled("abc", tcell.StyleDefault.Bold(true)).ANSI())

	st, _ := newTestStyliser(nil)
	assert.Equal(t, "\x1b[0;1mb\x1b[0m \x1b[0;38;2;255;0;0;48;2;0;0;127mred\x1b[0m",
		st.StyledString("\x02b\x02 \x034,2red").ANSI())
}

func TestANSIHyperlinks(t *testing.T) {
	st, _ := newTestStyliser(nil)

	assert.Equal(t, "see \x1b]8;;http://x.org\x1b\\http://x.org\x1b]8;;\x1b\\ now",
		st.StyledString("see http://x.org now").ANSI())
	assert.Equal(t, "see \x1b[0;1m\x1b]8;;http://x.org\x1b\\http://x.org\x1b]8;;\x1b\\\x1b[0m",
		st.StyledString("see \x02http://x.org\x02").ANSI())
}
