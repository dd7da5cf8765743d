package ui

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"git.sr.ht/~taiite/ircstyle/diag"
)

// Colour is an RGB triple.
type Colour struct {
	R, G, B uint8
}

var (
	White = Colour{255, 255, 255}
	Black = Colour{0, 0, 0}
)

func colourFromTCell(c tcell.Color) Colour {
	r, g, b := c.RGB()
	return Colour{uint8(r), uint8(g), uint8(b)}
}

func (c Colour) TCell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Hex returns the colour as six upper-case hex digits.
func (c Colour) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c Colour) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// PaletteSize is the number of colours addressable with IRC colour codes.
const PaletteSize = 16

// DefaultPalette: white, black, navy, green, red, maroon, purple, orange,
// yellow, light green, teal, cyan, blue, pink, gray, light gray.
var DefaultPalette = [PaletteSize]Colour{
	{255, 255, 255}, {0, 0, 0}, {0, 0, 127}, {0, 141, 0},
	{255, 0, 0}, {127, 0, 0}, {160, 15, 160}, {252, 127, 0},
	{255, 255, 0}, {0, 252, 0}, {0, 128, 128}, {0, 255, 255},
	{0, 0, 255}, {255, 0, 255}, {128, 128, 128}, {192, 192, 192},
}

// Taken from <https://modern.ircdocs.horse/formatting.html>, codes 16 to 98.
var extendedCodes = []int32{
	0x470000, 0x472100, 0x474700, 0x324700, 0x004700, 0x00472c, 0x004747, 0x002747, 0x000047, 0x2e0047, 0x470047, 0x47002a,
	0x740000, 0x743a00, 0x747400, 0x517400, 0x007400, 0x007449, 0x007474, 0x004074, 0x000074, 0x4b0074, 0x740074, 0x740045,
	0xb50000, 0xb56300, 0xb5b500, 0x7db500, 0x00b500, 0x00b571, 0x00b5b5, 0x0063b5, 0x0000b5, 0x7500b5, 0xb500b5, 0xb5006b,
	0xff0000, 0xff8c00, 0xffff00, 0xb2ff00, 0x00ff00, 0x00ffa0, 0x00ffff, 0x008cff, 0x0000ff, 0xa500ff, 0xff00ff, 0xff0098,
	0xff5959, 0xffb459, 0xffff71, 0xcfff60, 0x6fff6f, 0x65ffc9, 0x6dffff, 0x59b4ff, 0x5959ff, 0xc459ff, 0xff66ff, 0xff59bc,
	0xff9c9c, 0xffd39c, 0xffff9c, 0xe2ff9c, 0x9cff9c, 0x9cffdb, 0x9cffff, 0x9cd3ff, 0x9c9cff, 0xdc9cff, 0xff9cff, 0xff94d3,
	0x000000, 0x131313, 0x282828, 0x363636, 0x4d4d4d, 0x656565, 0x818181, 0x9f9f9f, 0xbcbcbc, 0xe2e2e2, 0xffffff,
}

// ColourManager maps IRC colour codes and hex strings to colours. It is safe
// for concurrent use.
type ColourManager struct {
	reporter *diag.Reporter

	mu      sync.Mutex
	palette [PaletteSize]Colour
	cache   map[string]Colour
}

func NewColourManager(reporter *diag.Reporter) *ColourManager {
	return &ColourManager{
		reporter: reporter,
		palette:  DefaultPalette,
		cache:    map[string]Colour{},
	}
}

// FromIRCCode returns the palette entry for code, or white if code is not in
// 0..15.
func (cm *ColourManager) FromIRCCode(code int) Colour {
	if code < 0 || PaletteSize <= code {
		cm.reporter.Report("colour", "invalid colour: %d", code)
		return White
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.palette[code]
}

// FromHex parses six hex digits, in any case. It returns white if hex is
// invalid.
func (cm *ColourManager) FromHex(hex string) Colour {
	key := strings.ToUpper(hex)

	cm.mu.Lock()
	c, ok := cm.cache[key]
	cm.mu.Unlock()
	if ok {
		return c
	}

	c, ok = parseHex(key)
	if !ok {
		cm.reporter.Report("colour", "invalid colour #%s", hex)
		return White
	}

	cm.mu.Lock()
	cm.cache[key] = c
	cm.mu.Unlock()
	return c
}

// FromString parses either a 1-2 digit IRC colour code or a 6 digit hex
// colour. Anything else yields fallback, or white if fallback is nil.
func (cm *ColourManager) FromString(spec string, fallback *Colour) Colour {
	key := spec
	if len(spec) == 6 {
		key = strings.ToUpper(spec)
	}

	cm.mu.Lock()
	c, ok := cm.cache[key]
	cm.mu.Unlock()
	if ok {
		return c
	}

	if 0 < len(spec) && len(spec) < 3 && isDigits(spec) {
		if n, _ := strconv.Atoi(spec); n < PaletteSize {
			// SetPalette must not run between the read and the store.
			cm.mu.Lock()
			defer cm.mu.Unlock()
			c = cm.palette[n]
			cm.cache[key] = c
			return c
		}
	} else if len(spec) == 6 {
		if c, ok = parseHex(key); ok {
			cm.mu.Lock()
			cm.cache[key] = c
			cm.mu.Unlock()
			return c
		}
	}

	cm.reporter.Report("colour", "invalid colour format: %q", spec)
	if fallback != nil {
		return *fallback
	}
	return White
}

// SetPalette applies per-index overrides, given as hex strings or colour
// names known to tcell. Indices without an override go back to their
// default. Cache entries of changed indices are invalidated.
func (cm *ColourManager) SetPalette(overrides map[int]string) {
	var next [PaletteSize]Colour
	for i := range next {
		next[i] = DefaultPalette[i]
		spec, ok := overrides[i]
		if !ok {
			continue
		}
		c, ok := ParseColourName(spec)
		if !ok {
			cm.reporter.Report("colour", "invalid colour %q for index %d", spec, i)
			continue
		}
		next[i] = c
	}
	for i := range overrides {
		if i < 0 || PaletteSize <= i {
			cm.reporter.Report("colour", "invalid colour index %d", i)
		}
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	for i := range next {
		if next[i] == cm.palette[i] {
			continue
		}
		cm.palette[i] = next[i]
		delete(cm.cache, strconv.Itoa(i))
		delete(cm.cache, fmt.Sprintf("%02d", i))
	}
}

// Palette returns a copy of the current palette.
func (cm *ColourManager) Palette() [PaletteSize]Colour {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.palette
}

// IdentColour returns a stable colour for a nickname, picked among the
// readable colours of the 99 IRC colour codes.
func (cm *ColourManager) IdentColour(name string) Colour {
	code := identCode(name)
	if code < PaletteSize {
		cm.mu.Lock()
		defer cm.mu.Unlock()
		return cm.palette[code]
	}
	return colourFromTCell(tcell.NewHexColor(extendedCodes[code-PaletteSize]))
}

// see <https://modern.ircdocs.horse/formatting.html>
var identColorBlacklist = []int{1, 8, 16, 27, 28, 88, 89, 90, 91}

func identCode(s string) (code int) {
	h := fnv.New32()
	_, _ = h.Write([]byte(s))

	code = int(h.Sum32() % uint32(99-len(identColorBlacklist)))
	for _, c := range identColorBlacklist {
		if c <= code {
			code++
		}
	}

	return
}

// ParseColourName parses "RRGGBB", "#RRGGBB" or a colour name such as "navy".
func ParseColourName(spec string) (Colour, bool) {
	spec = strings.TrimSpace(spec)
	if c, ok := parseHex(strings.TrimPrefix(spec, "#")); ok {
		return c, true
	}
	tc := tcell.GetColor(strings.ToLower(spec))
	if tc == tcell.ColorDefault {
		return Colour{}, false
	}
	return colourFromTCell(tc), true
}

func parseHex(hex string) (Colour, bool) {
	if len(hex) != 6 || !isHexDigits(hex) {
		return Colour{}, false
	}
	tc := tcell.GetColor("#" + hex)
	if tc == tcell.ColorDefault {
		return Colour{}, false
	}
	return colourFromTCell(tc), true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
