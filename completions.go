package ircstyle

import (
	"sort"
	"strings"
)

// Completion is a candidate for the text of an input line, and where the
// cursor goes once it is chosen.
type Completion struct {
	Text      []rune
	CursorIdx int
}

// Completions computes the list of completions given the input text typed in
// window and the cursor position. When there are candidates, the last one is
// text itself.
func (app *App) Completions(window string, cursorIdx int, text []rune) []Completion {
	var cs []Completion

	if len(text) == 0 {
		return cs
	}

	if app.session.IsChannel(window) {
		cs = app.completionsChannelMembers(cs, window, cursorIdx, text)
	}
	cs = completionsCommands(cs, cursorIdx, text)

	if cs != nil {
		cs = append(cs, Completion{
			Text:      text,
			CursorIdx: cursorIdx,
		})
	}

	return cs
}

func (app *App) completionsChannelMembers(cs []Completion, channel string, cursorIdx int, text []rune) []Completion {
	var start int
	for start = cursorIdx - 1; 0 <= start; start-- {
		if text[start] == ' ' {
			break
		}
	}
	start++
	word := text[start:cursorIdx]
	if len(word) == 0 || hasPrefix(word, []rune("/")) {
		return cs
	}
	wordCf := app.session.Casemap(string(word))
	for _, name := range app.session.Names(channel) {
		if strings.HasPrefix(app.session.Casemap(name.Name.Name), wordCf) {
			nickComp := []rune(name.Name.Name)
			if start == 0 {
				nickComp = append(nickComp, ':')
			}
			nickComp = append(nickComp, ' ')
			c := make([]rune, len(text)+len(nickComp)-len(word))
			copy(c[:start], text[:start])
			if cursorIdx < len(text) {
				copy(c[start+len(nickComp):], text[cursorIdx:])
			}
			copy(c[start:], nickComp)
			cs = append(cs, Completion{
				Text:      c,
				CursorIdx: start + len(nickComp),
			})
		}
	}
	return cs
}

// completionsCommands completes the name of the command being typed.
func completionsCommands(cs []Completion, cursorIdx int, text []rune) []Completion {
	if cursorIdx < 1 || !hasPrefix(text, []rune("/")) {
		return cs
	}
	for i := 1; i < cursorIdx; i++ {
		if text[i] == ' ' {
			return cs
		}
	}
	word := strings.ToUpper(string(text[1:cursorIdx]))

	names := make([]string, 0, len(commands))
	for name := range commands {
		if strings.HasPrefix(name, word) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		comp := []rune("/" + strings.ToLower(name) + " ")
		c := make([]rune, 0, len(comp)+len(text)-cursorIdx)
		c = append(c, comp...)
		c = append(c, text[cursorIdx:]...)
		cs = append(cs, Completion{
			Text:      c,
			CursorIdx: len(comp),
		})
	}
	return cs
}

func hasPrefix(s, prefix []rune) bool {
	return len(prefix) <= len(s) && equal(prefix, s[:len(prefix)])
}

func equal(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
