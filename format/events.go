package format

import (
	"fmt"
	"strings"

	"git.sr.ht/~taiite/ircstyle/diag"
)

// FormatError replaces the tags of a template that could not be resolved.
const FormatError = "<FormatError>"

// TemplateSource looks up templates by event type name.
type TemplateSource interface {
	Template(typeName string) (Template, bool)
}

// EventFormatter renders events with the template of their type.
type EventFormatter struct {
	properties *PropertyManager
	templates  TemplateSource
	reporter   *diag.Reporter
}

func NewEventFormatter(properties *PropertyManager, templates TemplateSource, reporter *diag.Reporter) *EventFormatter {
	return &EventFormatter{
		properties: properties,
		templates:  templates,
		reporter:   reporter,
	}
}

// Format renders event. It returns false if the type of event has no
// template.
func (ef *EventFormatter) Format(event interface{}) (string, bool) {
	typeName, ok := ef.properties.TypeName(event)
	if !ok {
		return "", false
	}
	t, ok := ef.templates.Template(typeName)
	if !ok {
		return "", false
	}

	var sb strings.Builder
	if t.HasColour {
		fmt.Fprintf(&sb, "\x03%02d", t.Colour)
	}

	s := t.Format
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(s[start+2:], "}}")
		if end < 0 {
			break
		}
		end += start + 2

		sb.WriteString(s[:start])
		sb.WriteString(ef.tag(typeName, event, s[start+2:end]))
		s = s[end+2:]
	}
	sb.WriteString(s)

	return sb.String(), true
}

// tag resolves the body of a "{{property.chain|function}}" tag.
func (ef *EventFormatter) tag(typeName string, event interface{}, body string) string {
	pipeline := strings.Split(body, "|")

	var value interface{} = event
	for _, name := range strings.Split(strings.TrimSpace(pipeline[0]), ".") {
		prop, err := ef.properties.Property(value, name)
		if err != nil {
			ef.reporter.Report("eventformatter", "%s: {{%s}}: %v", typeName, body, err)
			return FormatError
		}
		value = prop
	}

	s := valueString(value)
	for _, fn := range pipeline[1:] {
		fn = strings.TrimSpace(fn)
		var ok bool
		s, ok = ef.properties.Function(fn, s)
		if !ok {
			ef.reporter.Report("eventformatter", "%s: {{%s}}: unknown function %q", typeName, body, fn)
		}
	}
	return s
}

func valueString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
