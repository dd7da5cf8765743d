package ui

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~taiite/ircstyle/diag"
)

func newTestColourManager() (*ColourManager, *diag.Recorder) {
	reporter := diag.NewReporter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var rec diag.Recorder
	rec.Record(reporter)
	return NewColourManager(reporter), &rec
}

func TestFromIRCCode(t *testing.T) {
	cm, rec := newTestColourManager()

	for i := 0; i < PaletteSize; i++ {
		assert.Equal(t, DefaultPalette[i], cm.FromIRCCode(i))
	}
	assert.Empty(t, rec.Diagnostics())

	assert.Equal(t, White, cm.FromIRCCode(16))
	assert.Len(t, rec.Diagnostics(), 1)
	assert.Equal(t, White, cm.FromIRCCode(-1))
	assert.Len(t, rec.Diagnostics(), 2)
}

func TestFromHex(t *testing.T) {
	cm, rec := newTestColourManager()

	assert.Equal(t, Colour{255, 0, 0}, cm.FromHex("FF0000"))
	assert.Equal(t, cm.FromHex("ff8800"), cm.FromHex("FF8800"))
	assert.Equal(t, Colour{0x12, 0x34, 0x56}, cm.FromHex("123456"))
	assert.Empty(t, rec.Diagnostics())

	assert.Equal(t, White, cm.FromHex("QUX"))
	assert.Equal(t, White, cm.FromHex("GGGGGG"))
	assert.Len(t, rec.Diagnostics(), 2)
}

func TestFromString(t *testing.T) {
	cm, rec := newTestColourManager()
	fallback := Colour{1, 2, 3}

	assert.Equal(t, Colour{255, 0, 0}, cm.FromString("4", &fallback))
	assert.Equal(t, Colour{255, 0, 0}, cm.FromString("04", &fallback))
	assert.Equal(t, Colour{0, 0, 255}, cm.FromString("0000ff", &fallback))
	assert.Empty(t, rec.Diagnostics())

	assert.Equal(t, fallback, cm.FromString("16", &fallback))
	assert.Equal(t, fallback, cm.FromString("red", &fallback))
	assert.Equal(t, fallback, cm.FromString("", &fallback))
	assert.Equal(t, White, cm.FromString("1234567", nil))
	assert.Len(t, rec.Diagnostics(), 4)
}

func TestSetPalette(t *testing.T) {
	cm, rec := newTestColourManager()

	// fill the cache
	require.Equal(t, Colour{255, 0, 0}, cm.FromString("4", nil))

	cm.SetPalette(map[int]string{4: "navy", 5: "#00FF00"})
	assert.Equal(t, Colour{0, 0, 128}, cm.FromString("4", nil))
	assert.Equal(t, Colour{0, 0, 128}, cm.FromIRCCode(4))
	assert.Equal(t, Colour{0, 255, 0}, cm.FromIRCCode(5))
	assert.Empty(t, rec.Diagnostics())

	cm.SetPalette(map[int]string{5: "not a colour", 42: "red"})
	assert.Equal(t, DefaultPalette[4], cm.FromString("4", nil))
	assert.Equal(t, DefaultPalette[5], cm.FromIRCCode(5))
	assert.Len(t, rec.Diagnostics(), 2)
}

func TestFromStringDuringSetPalette(t *testing.T) {
	cm := NewColourManager(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				cm.SetPalette(map[int]string{4: "00FF00"})
			} else {
				cm.SetPalette(nil)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			cm.FromString("4", nil)
			cm.FromString("04", nil)
		}
	}()
	wg.Wait()

	cm.SetPalette(map[int]string{4: "0000FF"})
	assert.Equal(t, Colour{0, 0, 255}, cm.FromString("4", nil))
	assert.Equal(t, Colour{0, 0, 255}, cm.FromString("04", nil))
}

func TestParseColourName(t *testing.T) {
	c, ok := ParseColourName("#FF0000")
	assert.True(t, ok)
	assert.Equal(t, Colour{255, 0, 0}, c)

	c, ok = ParseColourName("ff0000")
	assert.True(t, ok)
	assert.Equal(t, Colour{255, 0, 0}, c)

	_, ok = ParseColourName("teal")
	assert.True(t, ok)

	_, ok = ParseColourName("foo")
	assert.False(t, ok)
}

func TestIdentColour(t *testing.T) {
	cm, _ := newTestColourManager()

	assert.Equal(t, cm.IdentColour("alice"), cm.IdentColour("alice"))
	for _, name := range []string{"alice", "bob", "carol", "dave", "eve"} {
		code := identCode(name)
		assert.NotContains(t, identColorBlacklist, code)
		assert.Less(t, code, 99)
	}
}

func TestColourFormatting(t *testing.T) {
	c := Colour{255, 8, 0}
	assert.Equal(t, "FF0800", c.Hex())
	assert.Equal(t, "255,8,0", c.String())
	assert.Equal(t, c, colourFromTCell(c.TCell()))
}
