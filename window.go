package ircstyle

import (
	"strings"
	"time"

	"git.sr.ht/~taiite/ircstyle/irc"
	"git.sr.ht/~taiite/ircstyle/ui"
)

// Window is one conversation: a channel, a query or the server window.
type Window struct {
	name string
	app  *App
	doc  *ui.Document
}

func (w *Window) Name() string {
	return w.name
}

func (w *Window) Document() *ui.Document {
	return w.doc
}

// AddEvent appends ev to the window. Events are shown with the template of
// their type if there is one, with the printf format of their message type
// otherwise.
func (w *Window) AddEvent(ev irc.Event, at time.Time) {
	text, ok := w.app.events.Format(ev)
	if !ok {
		messageType, args, ok := w.app.legacyFormat(w.name, ev)
		if !ok {
			return
		}
		text = w.app.formatter.FormatMessage(messageType, args...)
	}
	w.addText(text, at)
}

// AddMessage appends a message formatted with the format of messageType.
func (w *Window) AddMessage(at time.Time, messageType string, args ...interface{}) {
	w.addText(w.app.formatter.FormatMessage(messageType, args...), at)
}

// addText appends one line per line of text, each starting with a
// timestamp.
func (w *Window) addText(text string, at time.Time) {
	timestamp := w.app.formatter.FormatMessage("timestamp", at)

	lines := strings.Split(text, "\n")
	segments := make([][]string, len(lines))
	for i, line := range lines {
		segments[i] = []string{timestamp, line}
	}
	w.doc.AddLines(segments)
}
