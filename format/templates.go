package format

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/ergochat/irc-go/ircfmt"
	"gopkg.in/yaml.v3"

	"git.sr.ht/~taiite/ircstyle/diag"
)

//go:embed default.yml
var defaultTemplates []byte

// Template is the format of one event type.
type Template struct {
	Format    string
	Colour    int
	HasColour bool
}

type templateEntry struct {
	Format string `yaml:"format"`
	Colour *int   `yaml:"colour"`
}

func (e *templateEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&e.Format)
	}
	type plain templateEntry
	return node.Decode((*plain)(e))
}

// TemplateProvider holds the templates of event types: the bundled ones,
// overridden by those of a user file.
type TemplateProvider struct {
	path     string
	reporter *diag.Reporter

	mu        sync.RWMutex
	templates map[string]Template
}

// NewTemplateProvider loads the bundled templates, then those of the file at
// path if path is not empty. A missing file is not an error.
func NewTemplateProvider(path string, reporter *diag.Reporter) (*TemplateProvider, error) {
	tp := &TemplateProvider{
		path:     path,
		reporter: reporter,
	}
	if err := tp.Reload(); err != nil {
		return nil, err
	}
	return tp, nil
}

// Reload reads the templates again. The previous templates are kept on
// error.
func (tp *TemplateProvider) Reload() error {
	templates := map[string]Template{}

	if err := tp.load(templates, defaultTemplates); err != nil {
		return fmt.Errorf("bundled templates: %w", err)
	}

	if tp.path != "" {
		data, err := os.ReadFile(tp.path)
		if errors.Is(err, fs.ErrNotExist) {
			tp.reporter.Report("templates", "template file %q not found", tp.path)
		} else if err != nil {
			return fmt.Errorf("failed to read templates: %w", err)
		} else if err := tp.load(templates, data); err != nil {
			return fmt.Errorf("%s: %w", tp.path, err)
		}
	}

	tp.mu.Lock()
	tp.templates = templates
	tp.mu.Unlock()
	return nil
}

func (tp *TemplateProvider) load(templates map[string]Template, data []byte) error {
	var entries map[string]templateEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return err
	}

	for name, e := range entries {
		format, ok := unescape(e.Format)
		if !ok {
			tp.reporter.Report("templates", "%s: unterminated colour escape", name)
			format = e.Format
		}

		t := Template{Format: format}
		if e.Colour != nil {
			if *e.Colour < 0 || 15 < *e.Colour {
				tp.reporter.Report("templates", "%s: invalid colour %d", name, *e.Colour)
			} else {
				t.Colour = *e.Colour
				t.HasColour = true
			}
		}
		templates[name] = t
	}
	return nil
}

// unescape expands the "$b" escapes of s. It fails if a colour escape is
// not terminated.
func unescape(s string) (string, bool) {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '$' {
			continue
		}
		if s[i+1] == 'c' && i+2 < len(s) && s[i+2] == '[' && !strings.Contains(s[i+3:], "]") {
			return "", false
		}
		i++
	}
	return padColours(ircfmt.Unescape(s)), true
}

var colourCodeRegexp = regexp.MustCompile("\x03([0-9]{1,2})(?:,([0-9]{1,2}))?")

// padColours writes colour codes with two digits, so that a substituted value
// starting with a digit is not read as part of the colour.
func padColours(s string) string {
	return colourCodeRegexp.ReplaceAllStringFunc(s, func(code string) string {
		m := colourCodeRegexp.FindStringSubmatch(code)
		padded := "\x03" + pad2(m[1])
		if m[2] != "" {
			padded += "," + pad2(m[2])
		}
		return padded
	})
}

func pad2(n string) string {
	if len(n) == 1 {
		return "0" + n
	}
	return n
}

func (tp *TemplateProvider) Template(typeName string) (Template, bool) {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	t, ok := tp.templates[typeName]
	return t, ok
}

// Types returns the event types that have a template.
func (tp *TemplateProvider) Types() []string {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	types := make([]string, 0, len(tp.templates))
	for name := range tp.templates {
		types = append(types, name)
	}
	return types
}
