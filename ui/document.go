package ui

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// styledLineCacheSize is the number of rendered lines a Document keeps.
const styledLineCacheSize = 50

// DocumentListener is notified of changes to a Document. Methods are called
// without the document lock held, so they may call back into the document.
type DocumentListener interface {
	LinesAdded(start, count, size int)
	Trimmed(newSize, trimmed int)
	Cleared()
	RepaintNeeded()
}

type DocumentConfig struct {
	// FrameBufferSize is the maximum number of lines kept. 0 means unbounded.
	FrameBufferSize int
	FontName        string
	FontSize        int
}

// rollingCache holds a fixed number of values keyed by line segments. When
// full, the oldest entry is evicted.
type rollingCache[V any] struct {
	keys   [][]string
	values []V
}

func (c *rollingCache[V]) get(key []string) (v V, ok bool) {
	for i, k := range c.keys {
		if segmentsEqual(k, key) {
			return c.values[i], true
		}
	}
	return
}

func (c *rollingCache[V]) add(key []string, v V) {
	if len(c.keys) == styledLineCacheSize {
		c.keys = c.keys[1:]
		c.values = c.values[1:]
	}
	c.keys = append(c.keys, key)
	c.values = append(c.values, v)
}

func (c *rollingCache[V]) clear() {
	c.keys = nil
	c.values = nil
}

func (c *rollingCache[V]) len() int {
	return len(c.keys)
}

// Document is the scroll-back of a window. It is safe for concurrent use.
type Document struct {
	styliser *Styliser

	mu         sync.Mutex
	cfg        DocumentConfig
	lines      []Line
	styled     rollingCache[StyledString]
	rich       rollingCache[*RichText]
	generation int // bumped whenever the caches are dropped.
	listeners  []DocumentListener
}

func NewDocument(styliser *Styliser, cfg DocumentConfig) *Document {
	return &Document{
		styliser: styliser,
		cfg:      cfg,
	}
}

func (doc *Document) AddListener(l DocumentListener) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.listeners = append(doc.listeners, l)
}

func (doc *Document) RemoveListener(l DocumentListener) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	for i, other := range doc.listeners {
		if other == l {
			doc.listeners = append(doc.listeners[:i:i], doc.listeners[i+1:]...)
			return
		}
	}
}

func (doc *Document) NumLines() int {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return len(doc.lines)
}

// Line returns a copy of the line at index i. It panics if i is out of
// range.
func (doc *Document) Line(i int) Line {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return *doc.line(i)
}

// Lines returns a copy of every line.
func (doc *Document) Lines() []Line {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return append([]Line(nil), doc.lines...)
}

func (doc *Document) line(i int) *Line {
	if i < 0 || len(doc.lines) <= i {
		panic(fmt.Sprintf("ui: line index %d out of range [0, %d)", i, len(doc.lines)))
	}
	return &doc.lines[i]
}

// AddText appends one line made of the given segments.
func (doc *Document) AddText(segments ...string) {
	doc.AddLines([][]string{segments})
}

// AddLines appends one line per element of lines.
func (doc *Document) AddLines(lines [][]string) {
	doc.add(lines, nil)
}

// AddTextWithHeights appends lines whose heights are already known. It
// panics if lines and heights differ in length.
func (doc *Document) AddTextWithHeights(lines [][]string, heights []int) {
	if len(lines) != len(heights) {
		panic(fmt.Sprintf("ui: %d lines but %d heights", len(lines), len(heights)))
	}
	doc.add(lines, heights)
}

func (doc *Document) add(lines [][]string, heights []int) {
	if len(lines) == 0 {
		return
	}

	doc.mu.Lock()
	start := len(doc.lines)
	for i, segments := range lines {
		line := NewLine(segments, doc.cfg.FontName, doc.cfg.FontSize)
		if heights != nil {
			line.height = heights[i]
		}
		doc.lines = append(doc.lines, line)
	}
	size := len(doc.lines)
	trimmed := doc.trim(doc.cfg.FrameBufferSize)
	newSize := len(doc.lines)
	listeners := doc.listeners
	doc.mu.Unlock()

	for _, l := range listeners {
		l.LinesAdded(start, len(lines), size)
	}
	if trimmed != 0 {
		for _, l := range listeners {
			l.Trimmed(newSize, trimmed)
		}
	}
}

// Trim removes the oldest lines until at most n remain. Nothing is removed
// unless the document has a frame buffer size.
func (doc *Document) Trim(n int) {
	doc.mu.Lock()
	trimmed := doc.trim(n)
	newSize := len(doc.lines)
	listeners := doc.listeners
	doc.mu.Unlock()

	if trimmed != 0 {
		for _, l := range listeners {
			l.Trimmed(newSize, trimmed)
		}
	}
}

func (doc *Document) trim(n int) (trimmed int) {
	if doc.cfg.FrameBufferSize <= 0 || n < 0 || len(doc.lines) <= n {
		return 0
	}

	trimmed = len(doc.lines) - n
	doc.lines = append([]Line(nil), doc.lines[trimmed:]...)
	return trimmed
}

func (doc *Document) Clear() {
	doc.mu.Lock()
	doc.lines = nil
	doc.styled.clear()
	doc.rich.clear()
	doc.generation++
	listeners := doc.listeners
	doc.mu.Unlock()

	for _, l := range listeners {
		l.Cleared()
	}
}

// StyledLine returns the rendering of line i. Renderings are cached.
func (doc *Document) StyledLine(i int) StyledString {
	doc.mu.Lock()
	segments := doc.line(i).segments
	s, ok := doc.styled.get(segments)
	generation := doc.generation
	doc.mu.Unlock()
	if ok {
		return s
	}

	s = doc.styliser.StyledFromRich(doc.richText(segments))

	doc.mu.Lock()
	defer doc.mu.Unlock()
	if cached, ok := doc.styled.get(segments); ok {
		return cached
	}
	if generation == doc.generation {
		doc.styled.add(segments, s)
	}
	return s
}

// RichLine returns line i as rich text. Renderings are cached and must not
// be modified.
func (doc *Document) RichLine(i int) *RichText {
	doc.mu.Lock()
	segments := doc.line(i).segments
	doc.mu.Unlock()
	return doc.richText(segments)
}

func (doc *Document) richText(segments []string) *RichText {
	doc.mu.Lock()
	rt, ok := doc.rich.get(segments)
	generation := doc.generation
	doc.mu.Unlock()
	if ok {
		return rt
	}

	// The styliser may report diagnostics, whose subscribers may use the
	// document, so it runs unlocked.
	m := NewRichTextMaker()
	doc.styliser.AddStyledString(m, segments...)
	rt = m.StyledMessage()

	doc.mu.Lock()
	defer doc.mu.Unlock()
	if cached, ok := doc.rich.get(segments); ok {
		return cached
	}
	if generation == doc.generation {
		doc.rich.add(segments, rt)
	}
	return rt
}

func (doc *Document) LineHeight(i int) int {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return doc.line(i).Height()
}

func (doc *Document) Config() DocumentConfig {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return doc.cfg
}

// ApplyConfig replaces the configuration of the document. Cached renderings
// are dropped, and every line takes the new font.
func (doc *Document) ApplyConfig(cfg DocumentConfig) {
	doc.mu.Lock()
	doc.cfg = cfg
	doc.styled.clear()
	doc.rich.clear()
	doc.generation++
	for i := range doc.lines {
		doc.lines[i].setFont(cfg.FontName, cfg.FontSize)
	}
	trimmed := doc.trim(cfg.FrameBufferSize)
	newSize := len(doc.lines)
	listeners := doc.listeners
	doc.mu.Unlock()

	if trimmed != 0 {
		for _, l := range listeners {
			l.Trimmed(newSize, trimmed)
		}
	}
	for _, l := range listeners {
		l.RepaintNeeded()
	}
}

// Search returns the index of the first line, starting at from and going
// down or up, whose displayed text contains text. Case is ignored.
func (doc *Document) Search(text string, from int, up bool) (int, bool) {
	fold := cases.Fold()
	needle := fold.String(text)

	doc.mu.Lock()
	defer doc.mu.Unlock()

	step := 1
	if up {
		step = -1
	}
	for i := from; 0 <= i && i < len(doc.lines); i += step {
		if strings.Contains(fold.String(doc.lines[i].text), needle) {
			return i, true
		}
	}
	return -1, false
}
