package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

type RangedStyle struct {
	Start int // byte index at which Style starts applying.
	Style tcell.Style
}

// Link is a span of a StyledString pointing somewhere: a URL, a channel, a
// nickname, a smilie or a tooltip text, depending on Kind.
type Link struct {
	Start, End int // byte indexes.
	Kind       Span
	Target     string
}

// StyledString is an immutable string with terminal styles and links.
type StyledString struct {
	string
	styles []RangedStyle // sorted, non-overlapping.
	links  []Link
}

func Styled(s string, style tcell.Style) StyledString {
	rStyle := RangedStyle{
		Start: 0,
		Style: style,
	}
	return StyledString{
		string: s,
		styles: []RangedStyle{rStyle},
	}
}

func (s StyledString) String() string {
	return s.string
}

func (s StyledString) Styles() []RangedStyle {
	return s.styles
}

func (s StyledString) Links() []Link {
	return s.links
}

// StyleAt returns the style of the byte at index i.
func (s StyledString) StyleAt(i int) tcell.Style {
	st := tcell.StyleDefault
	for _, rs := range s.styles {
		if i < rs.Start {
			break
		}
		st = rs.Style
	}
	return st
}

// LinkAt returns the links covering the byte at index i.
func (s StyledString) LinkAt(i int) (links []Link) {
	for _, l := range s.links {
		if l.Start <= i && i < l.End {
			links = append(links, l)
		}
	}
	return
}

// StyledStringMaker produces a StyledString. It delegates every directive to
// a RichTextMaker and converts the rich text when the message is requested,
// so one pass of the styliser feeds both representations.
type StyledStringMaker struct {
	*RichTextMaker

	// colours, if not nil, colours nickname links that have no explicit
	// foreground.
	colours *ColourManager
}

func NewStyledStringMaker(colours *ColourManager) *StyledStringMaker {
	return &StyledStringMaker{
		RichTextMaker: NewRichTextMaker(),
		colours:       colours,
	}
}

// DecorateRichTextMaker wraps an existing maker.
func DecorateRichTextMaker(m *RichTextMaker, colours *ColourManager) *StyledStringMaker {
	return &StyledStringMaker{RichTextMaker: m, colours: colours}
}

func (m *StyledStringMaker) StyledMessage() StyledString {
	return m.convert(m.RichTextMaker.StyledMessage())
}

func (m *StyledStringMaker) convert(rt *RichText) StyledString {
	var sb strings.Builder
	var styles []RangedStyle
	var links []Link
	current := tcell.StyleDefault

	for _, r := range rt.Runs {
		st := m.style(r.Attributes)
		if st != current {
			styles = append(styles, RangedStyle{Start: sb.Len(), Style: st})
			current = st
		}

		start := sb.Len()
		sb.WriteString(r.Text)
		end := sb.Len()

		for _, span := range []Span{SpanHyperlink, SpanChannel, SpanNickname, SpanSmilie, SpanToolTip} {
			if r.Spans&span == 0 {
				continue
			}
			target := r.target(span)
			if n := len(links); n != 0 {
				last := &links[n-1]
				if last.Kind == span && last.Target == target && last.End == start {
					last.End = end
					continue
				}
			}
			links = append(links, Link{Start: start, End: end, Kind: span, Target: target})
		}
	}

	return StyledString{string: sb.String(), styles: styles, links: links}
}

func (m *StyledStringMaker) style(a Attributes) tcell.Style {
	st := tcell.StyleDefault.
		Bold(a.Bold).
		Italic(a.Italic).
		Underline(a.Underline)
	if a.HasFg {
		st = st.Foreground(a.Foreground.TCell())
	} else if a.Spans&SpanNickname != 0 && m.colours != nil {
		st = st.Foreground(m.colours.IdentColour(a.Nickname).TCell())
	}
	if a.HasBg {
		st = st.Background(a.Background.TCell())
	}
	return st
}

func (a Attributes) target(span Span) string {
	switch span {
	case SpanHyperlink:
		return a.Hyperlink
	case SpanChannel:
		return a.Channel
	case SpanNickname:
		return a.Nickname
	case SpanSmilie:
		return a.Smilie
	case SpanToolTip:
		return a.ToolTip
	}
	return ""
}
