package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "format.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTemplateProviderDefaults(t *testing.T) {
	reporter, rec := newTestReporter()
	tp, err := NewTemplateProvider("", reporter)
	require.NoError(t, err)

	join, ok := tp.Template("UserJoinEvent")
	require.True(t, ok)
	assert.True(t, join.HasColour)
	assert.Equal(t, 3, join.Colour)
	assert.Contains(t, join.Format, "{{channel}}\x0F.")

	registered, ok := tp.Template("RegisteredEvent")
	require.True(t, ok)
	assert.Contains(t, registered.Format, "\x02{{nick}}\x02")

	_, ok = tp.Template("MessageEvent")
	assert.False(t, ok)
	assert.Empty(t, rec.Diagnostics())
}

func TestTemplateProviderOverrides(t *testing.T) {
	path := writeTemplates(t, `
UserJoinEvent: "--> {{user.nickname}}"
CustomEvent:
  format: "$c[red]custom$r $$5"
  colour: 12
BadColour:
  format: "x"
  colour: 16
Unterminated: "$c[red"
`)
	reporter, rec := newTestReporter()
	tp, err := NewTemplateProvider(path, reporter)
	require.NoError(t, err)

	join, _ := tp.Template("UserJoinEvent")
	assert.Equal(t, Template{Format: "--> {{user.nickname}}"}, join)

	custom, _ := tp.Template("CustomEvent")
	assert.Equal(t, Template{Format: "\x0304custom\x0F $5", Colour: 12, HasColour: true}, custom)

	bad, _ := tp.Template("BadColour")
	assert.False(t, bad.HasColour)

	unterminated, _ := tp.Template("Unterminated")
	assert.Equal(t, "$c[red", unterminated.Format)

	_, ok := tp.Template("TopicEvent")
	assert.True(t, ok)

	assert.Len(t, rec.Diagnostics(), 2)
}

func TestTemplateProviderMissingFile(t *testing.T) {
	reporter, rec := newTestReporter()
	tp, err := NewTemplateProvider(filepath.Join(t.TempDir(), "missing.yml"), reporter)
	require.NoError(t, err)

	_, ok := tp.Template("UserJoinEvent")
	assert.True(t, ok)
	require.Len(t, rec.Diagnostics(), 1)
	assert.Equal(t, "templates", rec.Diagnostics()[0].Source)
}

func TestTemplateProviderPadsColours(t *testing.T) {
	path := writeTemplates(t, `
Topic: "$c[red]{{topic}}"
Both: "$c[red,blue]{{topic}} $c[red]9"
Literal: "\x0312{{topic}}"
`)
	tp, err := NewTemplateProvider(path, nil)
	require.NoError(t, err)

	topic, _ := tp.Template("Topic")
	assert.Equal(t, "\x0304{{topic}}", topic.Format)

	both, _ := tp.Template("Both")
	assert.Equal(t, "\x0304,02{{topic}} \x03049", both.Format)

	literal, _ := tp.Template("Literal")
	assert.Equal(t, "\x0312{{topic}}", literal.Format)
}

func TestTemplateProviderReload(t *testing.T) {
	path := writeTemplates(t, `CustomEvent: "one"`)
	tp, err := NewTemplateProvider(path, nil)
	require.NoError(t, err)

	custom, _ := tp.Template("CustomEvent")
	assert.Equal(t, "one", custom.Format)

	require.NoError(t, os.WriteFile(path, []byte(`CustomEvent: "two"`), 0o644))
	require.NoError(t, tp.Reload())
	custom, _ = tp.Template("CustomEvent")
	assert.Equal(t, "two", custom.Format)

	require.NoError(t, os.WriteFile(path, []byte("CustomEvent: [unclosed"), 0o644))
	assert.Error(t, tp.Reload())
	custom, _ = tp.Template("CustomEvent")
	assert.Equal(t, "two", custom.Format)
}
