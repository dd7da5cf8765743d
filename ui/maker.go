package ui

// Sink receives the directives read by the styliser.
type Sink interface {
	ResetAllStyles()
	ResetColours()
	AppendString(text string)

	ToggleBold()
	ToggleUnderline()
	ToggleItalic()
	ToggleFixedWidth()

	StartHyperlink(url string)
	EndHyperlink()
	StartChannelLink(channel string)
	EndChannelLink()
	StartNicknameLink(nickname string)
	EndNicknameLink()

	// ToggleHyperlinkStyle and ToggleChannelLinkStyle are called right before
	// a link of the matching kind is opened and right before it is closed.
	// colour is nil when links keep the current foreground.
	ToggleHyperlinkStyle(colour *Colour)
	ToggleChannelLinkStyle(colour *Colour)

	SetForeground(colour Colour)
	SetBackground(colour Colour)
	SetDefaultForeground(colour Colour)
	SetDefaultBackground(colour Colour)

	StartSmilie(smilie string)
	EndSmilie()
	StartToolTip(tooltip string)
	EndToolTip()
}

// StyledMessageMaker is a Sink that accumulates a styled message of type T.
type StyledMessageMaker[T any] interface {
	Sink
	StyledMessage() T
}

// Span flags the link-like attributes of a run.
type Span uint8

const (
	SpanHyperlink Span = 1 << iota
	SpanChannel
	SpanNickname
	SpanSmilie
	SpanToolTip
)

// Attributes of a run of rich text. The zero value is unstyled text.
type Attributes struct {
	Bold       bool
	Underline  bool
	Italic     bool
	Monospace  bool
	Foreground Colour
	Background Colour
	HasFg      bool
	HasBg      bool

	Spans     Span
	Hyperlink string
	Channel   string
	Nickname  string
	Smilie    string
	ToolTip   string
}

type Run struct {
	Text string
	Attributes
}

// RichText is a mutable sequence of runs. Adjacent runs never share the same
// attributes.
type RichText struct {
	Runs []Run
}

func (rt *RichText) Append(text string, attrs Attributes) {
	if text == "" {
		return
	}
	if n := len(rt.Runs); n != 0 && rt.Runs[n-1].Attributes == attrs {
		rt.Runs[n-1].Text += text
		return
	}
	rt.Runs = append(rt.Runs, Run{Text: text, Attributes: attrs})
}

// String returns the text without attributes.
func (rt *RichText) String() string {
	n := 0
	for _, r := range rt.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range rt.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// RichTextMaker builds a RichText. Successive calls to StyledMessage return
// the same, still growing, document.
type RichTextMaker struct {
	doc   *RichText
	attrs Attributes

	defaultFg, defaultBg       Colour
	hasDefaultFg, hasDefaultBg bool

	restoreUnderline bool
	restoreFg        Colour
	hasRestoreFg     bool
}

func NewRichTextMaker() *RichTextMaker {
	return &RichTextMaker{doc: &RichText{}}
}

// NewRichTextMakerFor appends to an existing document.
func NewRichTextMakerFor(doc *RichText) *RichTextMaker {
	return &RichTextMaker{doc: doc}
}

func (m *RichTextMaker) StyledMessage() *RichText {
	return m.doc
}

func (m *RichTextMaker) ResetAllStyles() {
	m.attrs.Bold = false
	m.attrs.Underline = false
	m.attrs.Italic = false
	m.attrs.Monospace = false
	m.ResetColours()
}

func (m *RichTextMaker) ResetColours() {
	m.attrs.Foreground, m.attrs.HasFg = m.defaultFg, m.hasDefaultFg
	m.attrs.Background, m.attrs.HasBg = m.defaultBg, m.hasDefaultBg
}

func (m *RichTextMaker) AppendString(text string) {
	m.doc.Append(text, m.attrs)
}

func (m *RichTextMaker) ToggleBold() {
	m.attrs.Bold = !m.attrs.Bold
}

func (m *RichTextMaker) ToggleUnderline() {
	m.attrs.Underline = !m.attrs.Underline
}

func (m *RichTextMaker) ToggleItalic() {
	m.attrs.Italic = !m.attrs.Italic
}

func (m *RichTextMaker) ToggleFixedWidth() {
	m.attrs.Monospace = !m.attrs.Monospace
}

func (m *RichTextMaker) StartHyperlink(url string) {
	m.attrs.Spans |= SpanHyperlink
	m.attrs.Hyperlink = url
}

func (m *RichTextMaker) EndHyperlink() {
	m.attrs.Spans &^= SpanHyperlink
	m.attrs.Hyperlink = ""
}

func (m *RichTextMaker) StartChannelLink(channel string) {
	m.attrs.Spans |= SpanChannel
	m.attrs.Channel = channel
}

func (m *RichTextMaker) EndChannelLink() {
	m.attrs.Spans &^= SpanChannel
	m.attrs.Channel = ""
}

func (m *RichTextMaker) StartNicknameLink(nickname string) {
	m.attrs.Spans |= SpanNickname
	m.attrs.Nickname = nickname
}

func (m *RichTextMaker) EndNicknameLink() {
	m.attrs.Spans &^= SpanNickname
	m.attrs.Nickname = ""
}

func (m *RichTextMaker) ToggleHyperlinkStyle(colour *Colour) {
	m.toggleLink(SpanHyperlink, colour)
}

func (m *RichTextMaker) ToggleChannelLinkStyle(colour *Colour) {
	m.toggleLink(SpanChannel, colour)
}

// toggleLink underlines and colours text entering a link, and restores the
// previous underline and foreground when the link is left.
func (m *RichTextMaker) toggleLink(span Span, colour *Colour) {
	if m.attrs.Spans&span == 0 {
		if m.attrs.Underline {
			m.restoreUnderline = true
		} else {
			m.attrs.Underline = true
		}

		if colour != nil {
			if m.attrs.HasFg {
				m.restoreFg, m.hasRestoreFg = m.attrs.Foreground, true
			}
			m.attrs.Foreground, m.attrs.HasFg = *colour, true
		}
		return
	}

	if m.restoreUnderline {
		m.restoreUnderline = false
	} else {
		m.attrs.Underline = false
	}

	if colour != nil {
		m.attrs.Foreground, m.attrs.HasFg = Colour{}, false
		if m.hasRestoreFg {
			m.attrs.Foreground, m.attrs.HasFg = m.restoreFg, true
			m.restoreFg, m.hasRestoreFg = Colour{}, false
		}
	}
}

func (m *RichTextMaker) SetForeground(colour Colour) {
	m.attrs.Foreground, m.attrs.HasFg = colour, true
}

func (m *RichTextMaker) SetBackground(colour Colour) {
	m.attrs.Background, m.attrs.HasBg = colour, true
}

func (m *RichTextMaker) SetDefaultForeground(colour Colour) {
	m.defaultFg, m.hasDefaultFg = colour, true
}

func (m *RichTextMaker) SetDefaultBackground(colour Colour) {
	m.defaultBg, m.hasDefaultBg = colour, true
}

func (m *RichTextMaker) StartSmilie(smilie string) {
	m.attrs.Spans |= SpanSmilie
	m.attrs.Smilie = smilie
}

func (m *RichTextMaker) EndSmilie() {
	m.attrs.Spans &^= SpanSmilie
	m.attrs.Smilie = ""
}

func (m *RichTextMaker) StartToolTip(tooltip string) {
	m.attrs.Spans |= SpanToolTip
	m.attrs.ToolTip = tooltip
}

func (m *RichTextMaker) EndToolTip() {
	m.attrs.Spans &^= SpanToolTip
	m.attrs.ToolTip = ""
}
