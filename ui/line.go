package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

func IsSplitRune(c rune) bool {
	return c == ' ' || c == '\t'
}

// Point is a place where a line switches between words and blanks.
type Point struct {
	X int // cells before the point.
	I int // bytes before the point, in the displayed text.

	Split bool // whether blanks start here.
}

// Line is one entry of a Document. Its segments are stylised independently,
// in order.
type Line struct {
	segments []string
	fontName string
	fontSize int
	height   int // explicit height, 0 if unset.

	text        string
	splitPoints []Point

	renderedWidth  int
	renderedHeight int
}

func NewLine(segments []string, fontName string, fontSize int) Line {
	line := Line{
		segments: append([]string(nil), segments...),
		fontName: fontName,
		fontSize: fontSize,
	}

	var sb strings.Builder
	for _, s := range line.segments {
		sb.WriteString(StripControlCodes(s))
	}
	line.text = sb.String()

	line.Invalidate()
	line.computeSplitPoints()

	return line
}

func (line Line) Segments() []string {
	return append([]string(nil), line.segments...)
}

// Text returns the displayed text of the line.
func (line Line) Text() string {
	return line.text
}

func (line Line) FontName() string {
	return line.fontName
}

func (line Line) FontSize() int {
	return line.fontSize
}

// Height returns the explicit height of the line if it has one, its font
// size otherwise.
func (line Line) Height() int {
	if line.height > 0 {
		return line.height
	}
	return line.fontSize
}

func (line Line) SplitPoints() []Point {
	return line.splitPoints
}

// Equal reports whether both lines have the same segments.
func (line Line) Equal(other Line) bool {
	return segmentsEqual(line.segments, other.segments)
}

func segmentsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (line *Line) setFont(name string, size int) {
	line.fontName = name
	line.fontSize = size
	line.Invalidate()
}

func (line *Line) Invalidate() {
	line.renderedWidth = 0
	line.renderedHeight = -1
}

func (line *Line) RenderedHeight(screenWidth int) int {
	if line.renderedHeight < 0 || line.renderedWidth != screenWidth {
		line.renderedHeight = len(line.Rows(screenWidth))
		line.renderedWidth = screenWidth
	}
	return line.renderedHeight
}

// Rows wraps the displayed text of the line to screenWidth cells. Blanks at
// the start and end of rows are dropped, and words wider than the screen are
// cut.
func (line Line) Rows(screenWidth int) (rows []string) {
	if screenWidth <= 0 {
		return []string{line.text}
	}

	var row strings.Builder
	x := 0
	flush := func() {
		rows = append(rows, strings.TrimRight(row.String(), " \t"))
		row.Reset()
		x = 0
	}

	var lastSP Point
	for _, sp := range line.splitPoints {
		chunk := line.text[lastSP.I:sp.I]
		l := sp.X - lastSP.X
		lastSP = sp

		if !sp.Split {
			// blanks
			if x == 0 {
				continue
			}
			if screenWidth < x+l {
				flush()
				continue
			}
			row.WriteString(chunk)
			x += l
			continue
		}

		if screenWidth < x+l && x != 0 {
			flush()
		}
		for screenWidth < x+l {
			n, w := 0, 0
			for _, r := range chunk {
				rw := runewidth.RuneWidth(r)
				if screenWidth < w+rw {
					break
				}
				n += utf8.RuneLen(r)
				w += rw
			}
			if n == 0 {
				r, size := utf8.DecodeRuneInString(chunk)
				n, w = size, runewidth.RuneWidth(r)
			}
			row.WriteString(chunk[:n])
			flush()
			chunk = chunk[n:]
			l -= w
		}
		row.WriteString(chunk)
		x += l
	}

	if row.Len() != 0 || len(rows) == 0 {
		flush()
	}

	return
}

func (line *Line) computeSplitPoints() {
	line.splitPoints = nil

	x := 0
	lastWasSplit := false

	for i, r := range line.text {
		curIsSplit := IsSplitRune(r)

		if lastWasSplit != curIsSplit {
			line.splitPoints = append(line.splitPoints, Point{
				X:     x,
				I:     i,
				Split: curIsSplit,
			})
		}

		lastWasSplit = curIsSplit
		x += runewidth.RuneWidth(r)
	}

	if !lastWasSplit {
		line.splitPoints = append(line.splitPoints, Point{
			X:     x,
			I:     len(line.text),
			Split: true,
		})
	}
}
