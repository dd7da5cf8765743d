package ui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"mvdan.cc/xurls/v2"

	"git.sr.ht/~taiite/ircstyle/diag"
)

// DefaultMaxLinkPasses bounds the punctuation rewrites of DoLinks. Five
// passes converge on every input seen in practice.
const DefaultMaxLinkPasses = 5

const regexpTimeout = 100 * time.Millisecond

const (
	hyperlinkChars = string(CodeHyperlink) + string(CodeChannel)

	// characters that can't be part of a channel link.
	reservedChars = `[^\s` + string(CodeBold) + string(CodeColour) + string(CodeStop) +
		string(CodeHexColour) + string(CodeFixed) + string(CodeItalic) + string(CodeUnderline) +
		string(CodeChannel) + string(CodeNickname) + string(CodeNegate) + `",]`

	urlPunctIllegal = `"`
	urlPunctLegal   = `';:!,\.\?`
	urlPunct        = urlPunctIllegal + urlPunctLegal
	urlNoPunct      = `a-z0-9$\-_@&\+\*\(\)=/#%~\|`
	urlChars        = `[` + urlPunctLegal + urlNoPunct + `]*[` + urlNoPunct + `]+[` + urlPunctLegal + urlNoPunct + `]*`

	// The lookbehind keeps the last digit of a hex colour out of a scheme.
	urlPattern = `(?i)((?>(?<!` + string(CodeHexColour) + `[a-f0-9]{5})[a-f]|[g-z+])+://` + urlChars +
		`|(?<![a-z0-9:/])www\.` + urlChars + `)`

	// closing brackets
	urlInt1 = `(\([^\)` + hyperlinkChars + `]*(?:[` + hyperlinkChars + `][^` + hyperlinkChars + `]*[` +
		hyperlinkChars + `])?[^\)` + hyperlinkChars + `]*[` + hyperlinkChars + `][^` + hyperlinkChars +
		`]+)(\)['";:!,\.\)]*)([` + hyperlinkChars + `])`
	// trailing single and double quotes
	urlInt2 = `(^(?:[^` + hyperlinkChars + `]+|[` + hyperlinkChars + `][^` + hyperlinkChars + `][` +
		hyperlinkChars + `]))(['"])([^` + hyperlinkChars + `]*?[` + hyperlinkChars + `][^` +
		hyperlinkChars + `]+)(\1[` + urlPunct + `]*)([` + hyperlinkChars + `])`
	// surrounding quotes
	urlInt3 = `(['"])([` + hyperlinkChars + `][^` + hyperlinkChars + `]+?)(\1[^` + hyperlinkChars +
		`]*)([` + hyperlinkChars + `])`
	// trailing punctuation
	urlInt4 = `([` + hyperlinkChars + `][^` + hyperlinkChars + `]+?)([` + urlPunct + `]?)([` +
		hyperlinkChars + `])`

	channelPattern = `(?i)(?<![^\s\+@\-<>\("',])([%s]` + reservedChars + `+)`
)

type rewrite struct {
	re          *regexp2.Regexp
	replacement string
}

var (
	urlRegexp = mustCompile(urlPattern)

	linkRewrites = []rewrite{
		{mustCompile(urlInt1), "$1$3$2"},
		{mustCompile(urlInt2), "$1$2$3$5$4"},
		{mustCompile(urlInt3), "$1$2$4$3"},
		{mustCompile(urlInt4), "$1$3$2"},
	}

	bareDomainRegexp = xurls.Relaxed()

	internalCodesRegexp = regexp.MustCompile(`[` + internalCodes + `]`)
	tooltipRegexp       = regexp.MustCompile("\x13[^\x13]*\x13([^\x13]*)\x13")
	nicknameRegexp      = regexp.MustCompile("\x10[^\x10]*\x10([^\x10]*)\x10")
	strayCodesRegexp    = regexp.MustCompile("[\x10\x13]")
)

func mustCompile(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = regexpTimeout
	return re
}

// ChannelPrefixer is the connection a styliser links channel names for.
type ChannelPrefixer interface {
	// ChannelPrefixes returns the characters that start channel names, or ""
	// if unknown.
	ChannelPrefixes() string
}

type StyliserOptions struct {
	StyleLinks    bool
	StyleChannels bool
	// LinkColour and ChannelColour are colour specs (IRC code or hex). Empty
	// means links keep the surrounding foreground.
	LinkColour    string
	ChannelColour string
	// LinkBareDomains also links schemeless domains such as "example.org".
	LinkBareDomains bool
	// NickColours colours nickname links when building StyledStrings.
	NickColours bool
	// Smilies are the shortcodes marked up as smilies, e.g. ":)".
	Smilies       []string
	MaxLinkPasses int
}

// Styliser applies IRC control codes to a Sink.
type Styliser struct {
	conn     ChannelPrefixer
	colours  *ColourManager
	reporter *diag.Reporter

	mu            sync.RWMutex
	opts          StyliserOptions
	linkColour    *Colour
	channelColour *Colour
	smilies       *regexp2.Regexp
	channels      map[string]*regexp2.Regexp // channel regexps by prefix set.
}

// NewStyliser returns a styliser. conn may be nil, in which case channel
// names are never linked.
func NewStyliser(conn ChannelPrefixer, colours *ColourManager, reporter *diag.Reporter) *Styliser {
	st := &Styliser{
		conn:     conn,
		colours:  colours,
		reporter: reporter,
		channels: map[string]*regexp2.Regexp{},
	}
	st.SetOptions(StyliserOptions{})
	return st
}

func (st *Styliser) SetOptions(opts StyliserOptions) {
	if opts.MaxLinkPasses <= 0 {
		opts.MaxLinkPasses = DefaultMaxLinkPasses
	}

	var linkColour, channelColour *Colour
	if opts.LinkColour != "" {
		c := st.colours.FromString(opts.LinkColour, nil)
		linkColour = &c
	}
	if opts.ChannelColour != "" {
		c := st.colours.FromString(opts.ChannelColour, nil)
		channelColour = &c
	}

	var smilies *regexp2.Regexp
	if len(opts.Smilies) != 0 {
		quoted := make([]string, len(opts.Smilies))
		for i, s := range opts.Smilies {
			quoted[i] = regexp2.Escape(s)
		}
		smilies = mustCompile(`(\s|^)(` + strings.Join(quoted, "|") + `)(?=\s|$)`)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.opts = opts
	st.linkColour = linkColour
	st.channelColour = channelColour
	st.smilies = smilies
}

func (st *Styliser) Options() StyliserOptions {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.opts
}

// AddStyledString stylises each segment and feeds the result to sink. Each
// segment is parsed with its own state, but styles carry over from one
// segment to the next.
func (st *Styliser) AddStyledString(sink Sink, segments ...string) {
	sink.ResetAllStyles()

	for _, s := range segments {
		s = strings.ToValidUTF8(s, "?")
		s = strings.ReplaceAll(s, "\uFFFD", "?")
		s = internalCodesRegexp.ReplaceAllString(s, "")
		s = st.doSmilies(st.DoLinks(s))

		st.parse(sink, s)
	}
}

// StyledString stylises segments into a StyledString.
func (st *Styliser) StyledString(segments ...string) StyledString {
	m := NewStyledStringMaker(st.nickColours())
	st.AddStyledString(m, segments...)
	return m.StyledMessage()
}

// StyledFromRich converts rich text built by AddStyledString into a
// StyledString, without stylising it again.
func (st *Styliser) StyledFromRich(rt *RichText) StyledString {
	return DecorateRichTextMaker(NewRichTextMakerFor(rt), st.nickColours()).StyledMessage()
}

func (st *Styliser) nickColours() *ColourManager {
	if st.Options().NickColours {
		return st.colours
	}
	return nil
}

// DoLinks marks up URLs and, if the connection knows its channel prefixes,
// channel names.
func (st *Styliser) DoLinks(s string) string {
	st.mu.RLock()
	opts := st.opts
	st.mu.RUnlock()

	target := st.replace(urlRegexp, s, string(CodeHyperlink)+"$0"+string(CodeHyperlink))

	if opts.LinkBareDomains {
		target = linkBareDomains(target)
	}

	if st.conn != nil {
		if prefixes := st.conn.ChannelPrefixes(); prefixes != "" {
			target = st.replace(st.channelRegexp(prefixes), target, string(CodeChannel)+"$0"+string(CodeChannel))
		}
	}

	previous := s
	for j := 0; j < opts.MaxLinkPasses && target != previous; j++ {
		previous = target
		for _, rw := range linkRewrites {
			target = st.replace(rw.re, target, rw.replacement)
		}
	}
	if target != previous {
		st.reporter.Report("styliser", "link markup did not settle after %d passes: %q", opts.MaxLinkPasses, s)
	}

	return target
}

func (st *Styliser) replace(re *regexp2.Regexp, s, replacement string) string {
	out, err := re.Replace(s, replacement, -1, -1)
	if err != nil {
		st.reporter.Report("styliser", "link markup failed: %v", err)
		return s
	}
	return out
}

func (st *Styliser) channelRegexp(prefixes string) *regexp2.Regexp {
	st.mu.RLock()
	re, ok := st.channels[prefixes]
	st.mu.RUnlock()
	if ok {
		return re
	}

	var class strings.Builder
	for _, r := range prefixes {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			class.WriteByte('\\')
		}
		class.WriteRune(r)
	}
	re = mustCompile(fmt.Sprintf(channelPattern, class.String()))

	st.mu.Lock()
	st.channels[prefixes] = re
	st.mu.Unlock()
	return re
}

// linkBareDomains links domains outside existing hyperlinks. Matches must
// start the string or follow a space or an opening bracket or quote, so that
// colour arguments are never taken for domains.
func linkBareDomains(s string) string {
	parts := strings.Split(s, string(CodeHyperlink))
	for i := 0; i < len(parts); i += 2 {
		part := parts[i]
		var sb strings.Builder
		last := 0
		for _, loc := range bareDomainRegexp.FindAllStringIndex(part, -1) {
			start, end := loc[0], loc[1]
			m := part[start:end]
			if strings.Contains(m, "@") || strings.Contains(m, "://") {
				continue
			}
			if start != 0 && !strings.ContainsRune(" \t(<\"'", rune(part[start-1])) {
				continue
			}
			sb.WriteString(part[last:start])
			sb.WriteRune(CodeHyperlink)
			sb.WriteString(m)
			sb.WriteRune(CodeHyperlink)
			last = end
		}
		sb.WriteString(part[last:])
		parts[i] = sb.String()
	}
	return strings.Join(parts, string(CodeHyperlink))
}

func (st *Styliser) doSmilies(s string) string {
	st.mu.RLock()
	re := st.smilies
	st.mu.RUnlock()
	if re == nil {
		return s
	}
	return st.replace(re, s, "$1"+string(CodeSmilie)+"$2"+string(CodeSmilie))
}

type styliserState struct {
	isNegated   bool
	isInLink    bool
	isInSmilie  bool
	isInToolTip bool
}

func (st *Styliser) parse(sink Sink, s string) (state styliserState) {
	st.mu.RLock()
	p := parser{
		colours:       st.colours,
		styleLinks:    st.opts.StyleLinks,
		styleChannels: st.opts.StyleChannels,
		linkColour:    st.linkColour,
		channelColour: st.channelColour,
	}
	st.mu.RUnlock()

	return p.parse(sink, s)
}

type parser struct {
	colours       *ColourManager // nil when only text is wanted.
	styleLinks    bool
	styleChannels bool
	linkColour    *Colour
	channelColour *Colour
}

func (p *parser) parse(sink Sink, s string) (state styliserState) {
	position := 0
	for position < len(s) {
		next := readUntilControl(s[position:])
		sink.AppendString(next)
		position += len(next)

		if position < len(s) {
			n := p.readControlChars(s[position:], &state, sink)
			if n <= 0 {
				n = 1
			}
			position += n
		}
	}
	return
}

// readUntilControl returns the longest prefix of s without control codes.
func readUntilControl(s string) string {
	for i := 0; i < len(s); i++ {
		if isControl(s[i]) {
			return s[:i]
		}
	}
	return s
}

func (p *parser) colour(spec string) Colour {
	if p.colours == nil {
		return White
	}
	fallback := White
	return p.colours.FromString(spec, &fallback)
}

// readControlChars applies the control code at the start of s, along with its
// arguments, and returns the number of bytes read.
func (p *parser) readControlChars(s string, state *styliserState, sink Sink) int {
	isNegated := state.isNegated

	switch s[0] {
	case CodeBold:
		if !isNegated {
			sink.ToggleBold()
		}
		return 1
	case CodeUnderline:
		if !isNegated {
			sink.ToggleUnderline()
		}
		return 1
	case CodeItalic:
		if !isNegated {
			sink.ToggleItalic()
		}
		return 1
	case CodeHyperlink:
		if !isNegated && p.styleLinks {
			sink.ToggleHyperlinkStyle(p.linkColour)
		}
		if state.isInLink {
			sink.EndHyperlink()
		} else {
			sink.StartHyperlink(readUntilControl(s[1:]))
		}
		state.isInLink = !state.isInLink
		return 1
	case CodeChannel:
		if !isNegated && p.styleChannels {
			sink.ToggleChannelLinkStyle(p.channelColour)
		}
		if state.isInLink {
			sink.EndChannelLink()
		} else {
			sink.StartChannelLink(readUntilControl(s[1:]))
		}
		state.isInLink = !state.isInLink
		return 1
	case CodeNickname:
		// NICK nickname NICK displayed text NICK
		count := 1
		if state.isInLink {
			sink.EndNicknameLink()
		} else if next := strings.IndexByte(s[1:], CodeNickname); next >= 0 {
			sink.StartNicknameLink(s[1 : next+1])
			count += next + 1
		} else {
			sink.StartNicknameLink(readUntilControl(s[1:]))
		}
		state.isInLink = !state.isInLink
		return count
	case CodeFixed:
		if !isNegated {
			sink.ToggleFixedWidth()
		}
		return 1
	case CodeStop:
		if !isNegated {
			sink.ResetAllStyles()
		}
		return 1
	case CodeColour:
		return p.readColour(s, isNegated, sink)
	case CodeHexColour:
		return p.readHexColour(s, isNegated, sink)
	case CodeNegate:
		state.isNegated = !state.isNegated
		return 1
	case CodeSmilie:
		if state.isInSmilie {
			sink.EndSmilie()
		} else {
			sink.StartSmilie("smilie-" + readUntilControl(s[1:]))
		}
		state.isInSmilie = !state.isInSmilie
		return 1
	case CodeTooltip:
		// TIP tooltip TIP displayed text TIP
		if state.isInToolTip {
			sink.EndToolTip()
			state.isInToolTip = false
			return 1
		}
		next := strings.IndexByte(s[1:], CodeTooltip)
		if next < 0 {
			return 1
		}
		tooltip := s[1 : next+1]
		sink.StartToolTip(tooltip)
		state.isInToolTip = true
		return len(tooltip) + 2
	}

	return 0
}

// readColour reads "\x03[fg[,bg]]" where fg and bg have one or two digits.
// Colours wrap modulo 16.
func (p *parser) readColour(s string, isNegated bool, sink Sink) int {
	count := 1
	if len(s) <= count || !isDigit(s[count]) {
		if !isNegated {
			sink.ResetColours()
		}
		return count
	}

	fg := int(s[count] - '0')
	count++
	if len(s) > count && isDigit(s[count]) {
		fg = fg*10 + int(s[count]-'0')
		count++
	}
	fg %= PaletteSize

	if !isNegated {
		sink.SetForeground(p.colour(strconv.Itoa(fg)))
	}

	if len(s) > count+1 && s[count] == ',' && isDigit(s[count+1]) {
		bg := int(s[count+1] - '0')
		count += 2
		if len(s) > count && isDigit(s[count]) {
			bg = bg*10 + int(s[count]-'0')
			count++
		}
		bg %= PaletteSize

		if !isNegated {
			sink.SetBackground(p.colour(strconv.Itoa(bg)))
		}
	}

	return count
}

// readHexColour reads "\x04[RRGGBB[,RRGGBB]]".
func (p *parser) readHexColour(s string, isNegated bool, sink Sink) int {
	count := 1
	if !hasHexString(s, 1) {
		if !isNegated {
			sink.ResetColours()
		}
		return count
	}

	if !isNegated {
		sink.SetForeground(p.colour(strings.ToUpper(s[1:7])))
	}
	count += 6

	if len(s) > count && s[count] == ',' && hasHexString(s, count+1) {
		count++
		if !isNegated {
			sink.SetBackground(p.colour(strings.ToUpper(s[count : count+6])))
		}
		count += 6
	}

	return count
}

func hasHexString(s string, offset int) bool {
	return len(s) >= offset+6 && isHexDigits(s[offset:offset+6])
}

// textSink keeps only the text of a message.
type textSink struct {
	strings.Builder
}

func (ts *textSink) ResetAllStyles()                {}
func (ts *textSink) ResetColours()                  {}
func (ts *textSink) AppendString(text string)       { ts.WriteString(text) }
func (ts *textSink) ToggleBold()                    {}
func (ts *textSink) ToggleUnderline()               {}
func (ts *textSink) ToggleItalic()                  {}
func (ts *textSink) ToggleFixedWidth()              {}
func (ts *textSink) StartHyperlink(string)          {}
func (ts *textSink) EndHyperlink()                  {}
func (ts *textSink) StartChannelLink(string)        {}
func (ts *textSink) EndChannelLink()                {}
func (ts *textSink) StartNicknameLink(string)       {}
func (ts *textSink) EndNicknameLink()               {}
func (ts *textSink) ToggleHyperlinkStyle(*Colour)   {}
func (ts *textSink) ToggleChannelLinkStyle(*Colour) {}
func (ts *textSink) SetForeground(Colour)           {}
func (ts *textSink) SetBackground(Colour)           {}
func (ts *textSink) SetDefaultForeground(Colour)    {}
func (ts *textSink) SetDefaultBackground(Colour)    {}
func (ts *textSink) StartSmilie(string)             {}
func (ts *textSink) EndSmilie()                     {}
func (ts *textSink) StartToolTip(string)            {}
func (ts *textSink) EndToolTip()                    {}

// StripControlCodes returns the text that would be displayed for s, without
// any control code or argument.
func StripControlCodes(s string) string {
	var ts textSink
	var p parser
	p.parse(&ts, s)
	return ts.String()
}

// StripInternalControlCodes removes the link and smilie codes, and reduces
// nickname and tooltip markup to its displayed text. Formatting codes are
// kept.
func StripInternalControlCodes(s string) string {
	s = internalCodesRegexp.ReplaceAllString(s, "")
	s = tooltipRegexp.ReplaceAllString(s, "$1")
	s = nicknameRegexp.ReplaceAllString(s, "$1")
	return strayCodesRegexp.ReplaceAllString(s, "")
}

// GetStyledText returns the part of styled whose displayed text is the
// [from, to) rune range of the displayed text of styled, formatting codes
// included. It panics unless 0 <= from < to < displayed length.
func GetStyledText(styled string, from, to int) string {
	if from >= to {
		panic(fmt.Sprintf("ui: 'from' (%d) must be less than 'to' (%d)", from, to))
	}
	if from < 0 {
		panic(fmt.Sprintf("ui: 'from' (%d) must be non-negative", from))
	}
	sanitised := StripInternalControlCodes(styled)
	ends := displayedRuneEnds(sanitised)
	if to >= len(ends) {
		panic(fmt.Sprintf("ui: 'to' (%d) must be less than the unstyled length (%d)", to, len(ends)))
	}

	start := 0
	if 0 < from {
		start = ends[from-1]
	}
	return sanitised[start:ends[to-1]]
}

// displayedRuneEnds returns, for each displayed rune of s, the byte offset
// just past it.
func displayedRuneEnds(s string) (ends []int) {
	var (
		p     parser
		state styliserState
		ts    textSink
	)
	position := 0
	for position < len(s) {
		next := readUntilControl(s[position:])
		for i := 0; i < len(next); {
			_, size := utf8.DecodeRuneInString(next[i:])
			i += size
			ends = append(ends, position+i)
		}
		position += len(next)

		if position < len(s) {
			n := p.readControlChars(s[position:], &state, &ts)
			if n <= 0 {
				n = 1
			}
			position += n
		}
	}
	return
}
