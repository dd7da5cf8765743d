// Package format turns events into strings carrying IRC control codes, ready
// to be stylised.
package format

import (
	"sort"
	"sync"

	"git.sr.ht/~taiite/ircstyle/diag"
)

// FormatSource looks up printf formats by message type.
type FormatSource interface {
	Format(messageType string) (format string, ok bool)
	Types() []string
}

// FormatSet is the default format table overlaid by user overrides.
type FormatSet struct {
	overrides map[string]string
}

func NewFormatSet(overrides map[string]string) *FormatSet {
	fs := &FormatSet{overrides: map[string]string{}}
	for k, v := range overrides {
		fs.overrides[k] = v
	}
	return fs
}

func (fs *FormatSet) Format(messageType string) (string, bool) {
	if f, ok := fs.overrides[messageType]; ok {
		return f, true
	}
	f, ok := defaultFormats[messageType]
	return f, ok
}

// Types returns every known message type, sorted.
func (fs *FormatSet) Types() []string {
	types := make([]string, 0, len(defaultFormats)+len(fs.overrides))
	for t := range defaultFormats {
		types = append(types, t)
	}
	for t := range fs.overrides {
		if _, ok := defaultFormats[t]; !ok {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

// Formatter fills printf formats with message arguments. It is safe for
// concurrent use.
type Formatter struct {
	reporter *diag.Reporter

	mu      sync.Mutex
	formats FormatSource
	cache   map[string]*printfFormat // parsed formats, keyed by format string.
}

func NewFormatter(formats FormatSource, reporter *diag.Reporter) *Formatter {
	return &Formatter{
		reporter: reporter,
		formats:  formats,
		cache:    map[string]*printfFormat{},
	}
}

// SetFormats replaces the format source and drops parsed formats.
func (f *Formatter) SetFormats(formats FormatSource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formats = formats
	f.cache = map[string]*printfFormat{}
}

// FormatMessage formats args with the format of messageType. Errors are
// returned in place of the message, between angle brackets.
func (f *Formatter) FormatMessage(messageType string, args ...interface{}) string {
	f.mu.Lock()
	format, ok := f.formats.Format(messageType)
	if !ok {
		f.mu.Unlock()
		return "<No format string for message type " + messageType + ">"
	}
	pf, ok := f.cache[format]
	if !ok {
		pf = parseFormat(format)
		f.cache[format] = pf
	}
	f.mu.Unlock()

	res, err := pf.execute(args)
	if err != nil {
		f.reporter.Report("formatter", "%s: %v", messageType, err)
		return "<Invalid format string for message type " + messageType + "; Error: " + err.Error() + ">"
	}
	return res
}

func (f *Formatter) HasFormat(messageType string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.formats.Format(messageType)
	return ok
}

func (f *Formatter) Formats() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.formats.Types()
}
