package ui

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~taiite/ircstyle/diag"
)

type documentEvent struct {
	kind string
	args [3]int
}

type recordingListener struct {
	mu     sync.Mutex
	events []documentEvent
}

func (l *recordingListener) record(kind string, args ...int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := documentEvent{kind: kind}
	copy(ev.args[:], args)
	l.events = append(l.events, ev)
}

func (l *recordingListener) LinesAdded(start, count, size int) { l.record("added", start, count, size) }
func (l *recordingListener) Trimmed(newSize, trimmed int)      { l.record("trimmed", newSize, trimmed) }
func (l *recordingListener) Cleared()                          { l.record("cleared") }
func (l *recordingListener) RepaintNeeded()                    { l.record("repaint") }

func newTestDocument(cfg DocumentConfig) *Document {
	st, _ := newTestStyliser(nil)
	return NewDocument(st, cfg)
}

func documentTexts(doc *Document) (texts []string) {
	for _, l := range doc.Lines() {
		texts = append(texts, l.Text())
	}
	return
}

func TestDocumentFrameBuffer(t *testing.T) {
	doc := newTestDocument(DocumentConfig{FrameBufferSize: 3})
	l := &recordingListener{}
	doc.AddListener(l)

	for i := 1; i <= 5; i++ {
		doc.AddText(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, 3, doc.NumLines())
	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, documentTexts(doc))
	assert.Equal(t, []documentEvent{
		{"added", [3]int{0, 1, 1}},
		{"added", [3]int{1, 1, 2}},
		{"added", [3]int{2, 1, 3}},
		{"added", [3]int{3, 1, 4}},
		{"trimmed", [3]int{3, 1}},
		{"added", [3]int{3, 1, 4}},
		{"trimmed", [3]int{3, 1}},
	}, l.events)
}

func TestDocumentTrimIsIdempotent(t *testing.T) {
	doc := newTestDocument(DocumentConfig{FrameBufferSize: 100})
	for i := 0; i < 10; i++ {
		doc.AddText(fmt.Sprint(i))
	}
	l := &recordingListener{}
	doc.AddListener(l)

	doc.Trim(4)
	assert.Equal(t, 4, doc.NumLines())
	doc.Trim(4)
	assert.Equal(t, 4, doc.NumLines())
	doc.Trim(4)
	assert.Equal(t, 4, doc.NumLines())
	assert.Equal(t, []string{"6", "7", "8", "9"}, documentTexts(doc))
	assert.Equal(t, []documentEvent{{"trimmed", [3]int{4, 6}}}, l.events)

	doc.Trim(20)
	assert.Equal(t, 4, doc.NumLines())
}

func TestDocumentUnbounded(t *testing.T) {
	doc := newTestDocument(DocumentConfig{})
	for i := 0; i < 10; i++ {
		doc.AddText(fmt.Sprint(i))
	}
	doc.Trim(2)
	assert.Equal(t, 10, doc.NumLines())
}

func TestDocumentAddLines(t *testing.T) {
	doc := newTestDocument(DocumentConfig{FontSize: 12})
	l := &recordingListener{}
	doc.AddListener(l)

	doc.AddLines([][]string{{"a"}, {"b", "c"}})
	doc.AddTextWithHeights([][]string{{"d"}}, []int{30})

	assert.Equal(t, []string{"a", "bc", "d"}, documentTexts(doc))
	assert.Equal(t, 12, doc.LineHeight(0))
	assert.Equal(t, 30, doc.LineHeight(2))
	assert.Equal(t, "bc", doc.Line(1).Text())
	assert.Equal(t, []string{"b", "c"}, doc.Line(1).Segments())
	assert.Equal(t, 12, doc.Line(1).FontSize())
	assert.Equal(t, 30, doc.Line(2).Height())
	assert.True(t, doc.Line(0).Equal(NewLine([]string{"a"}, "", 0)))
	assert.Equal(t, []documentEvent{
		{"added", [3]int{0, 2, 2}},
		{"added", [3]int{2, 1, 3}},
	}, l.events)

	assert.Panics(t, func() { doc.AddTextWithHeights([][]string{{"e"}}, nil) })
	assert.Panics(t, func() { doc.Line(3) })
	assert.Panics(t, func() { doc.StyledLine(-1) })
}

func TestDocumentClear(t *testing.T) {
	doc := newTestDocument(DocumentConfig{})
	doc.AddText("a")
	doc.StyledLine(0)
	l := &recordingListener{}
	doc.AddListener(l)

	doc.Clear()
	assert.Equal(t, 0, doc.NumLines())
	assert.Equal(t, 0, doc.styled.len())
	assert.Equal(t, []documentEvent{{kind: "cleared"}}, l.events)

	doc.RemoveListener(l)
	doc.AddText("b")
	assert.Len(t, l.events, 1)
}

func TestDocumentStyledLineCache(t *testing.T) {
	doc := newTestDocument(DocumentConfig{})
	for i := 0; i < 2*styledLineCacheSize; i++ {
		doc.AddText(fmt.Sprintf("\x02line\x02 %d", i))
	}

	s := doc.StyledLine(0)
	assert.Equal(t, "line 0", s.String())
	assert.Equal(t, s, doc.StyledLine(0))
	assert.Equal(t, 1, doc.styled.len())

	for i := 0; i < doc.NumLines(); i++ {
		doc.StyledLine(i)
	}
	assert.Equal(t, styledLineCacheSize, doc.styled.len())
	_, ok := doc.styled.get([]string{"\x02line\x02 0"})
	assert.False(t, ok)
	_, ok = doc.styled.get([]string{fmt.Sprintf("\x02line\x02 %d", 2*styledLineCacheSize-1)})
	assert.True(t, ok)

	rt := doc.RichLine(1)
	require.Len(t, rt.Runs, 2)
	assert.True(t, rt.Runs[0].Bold)
	assert.Same(t, rt, doc.RichLine(1))
}

func TestDocumentApplyConfig(t *testing.T) {
	doc := newTestDocument(DocumentConfig{FontName: "Sans", FontSize: 10})
	for i := 0; i < 5; i++ {
		doc.AddText(fmt.Sprint(i))
	}
	doc.StyledLine(0)
	l := &recordingListener{}
	doc.AddListener(l)

	doc.ApplyConfig(DocumentConfig{FrameBufferSize: 2, FontName: "Monospace", FontSize: 14})

	assert.Equal(t, 0, doc.styled.len())
	assert.Equal(t, 2, doc.NumLines())
	for i := 0; i < doc.NumLines(); i++ {
		line := doc.Line(i)
		assert.Equal(t, "Monospace", line.FontName())
		assert.Equal(t, 14, line.FontSize())
		assert.Equal(t, 14, doc.LineHeight(i))
	}
	assert.Equal(t, []documentEvent{
		{"trimmed", [3]int{2, 3}},
		{kind: "repaint"},
	}, l.events)
}

func TestDocumentSearch(t *testing.T) {
	doc := newTestDocument(DocumentConfig{})
	doc.AddText("Hello \x02World\x02")
	doc.AddText("nothing")
	doc.AddText("hello again")

	i, ok := doc.Search("WORLD", 0, false)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = doc.Search("hello", 1, false)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = doc.Search("hello", 1, true)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = doc.Search("absent", 0, false)
	assert.False(t, ok)
}

// listeners may call back into the document.
type reentrantListener struct {
	recordingListener
	doc   *Document
	sizes []int
}

func (l *reentrantListener) LinesAdded(start, count, size int) {
	l.sizes = append(l.sizes, l.doc.NumLines())
}

func TestDocumentReentrantListener(t *testing.T) {
	doc := newTestDocument(DocumentConfig{})
	l := &reentrantListener{doc: doc}
	doc.AddListener(l)

	doc.AddText("a")
	doc.AddText("b")
	assert.Equal(t, []int{1, 2}, l.sizes)
}

func TestDocumentConcurrentAccess(t *testing.T) {
	doc := newTestDocument(DocumentConfig{FrameBufferSize: 20})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			doc.AddText(fmt.Sprintf("\x034line\x03 %d http://example.com/%d", i, i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			// the document never shrinks below its frame buffer size.
			if n := doc.NumLines(); n != 0 {
				doc.StyledLine(n - 1)
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, 20, doc.NumLines())
	assert.Equal(t, "line 499 http://example.com/499", doc.Line(19).Text())
}

func TestDocumentDiagnosticSubscriberUsesDocument(t *testing.T) {
	reporter := diag.NewReporter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	st := NewStyliser(nil, NewColourManager(reporter), reporter)
	st.SetOptions(StyliserOptions{MaxLinkPasses: 1})
	doc := NewDocument(st, DocumentConfig{})
	doc.AddText("Check http://example.com.")

	var sizes []int
	reporter.Subscribe(func(diag.Diagnostic) {
		sizes = append(sizes, doc.NumLines())
	})

	doc.StyledLine(0)
	assert.Equal(t, []int{1}, sizes)

	// the styled rendering is built from the cached rich text.
	doc.RichLine(0)
	doc.StyledLine(0)
	assert.Len(t, sizes, 1)

	doc.ApplyConfig(DocumentConfig{})
	doc.RichLine(0)
	assert.Equal(t, []int{1, 1}, sizes)
}

func TestDocumentStyledLineMatchesStyliser(t *testing.T) {
	doc := newTestDocument(DocumentConfig{})
	doc.styliser.SetOptions(StyliserOptions{StyleLinks: true, NickColours: true})

	segments := []string{"12:00 | ", "\x10bob\x10bob\x10 \x034,2see\x0f http://x.org"}
	doc.AddText(segments...)
	assert.Equal(t, doc.styliser.StyledString(segments...), doc.StyledLine(0))
}
