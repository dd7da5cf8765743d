package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type templates map[string]Template

func (ts templates) Template(typeName string) (Template, bool) {
	t, ok := ts[typeName]
	return t, ok
}

func TestEventFormatter(t *testing.T) {
	reporter, rec := newTestReporter()
	ef := NewEventFormatter(newTestProperties(), templates{
		"testEvent": {Format: "{{user.nickname}}@{{ user.host }} joined {{channel|uppercase}}"},
	}, reporter)

	s, ok := ef.Format(testEvent{user: &testUser{nick: "alice", host: "example.org"}, channel: "#chan"})
	require.True(t, ok)
	assert.Equal(t, "alice@example.org joined #CHAN", s)
	assert.Empty(t, rec.Diagnostics())
}

func TestEventFormatterColour(t *testing.T) {
	ef := NewEventFormatter(newTestProperties(), templates{
		"testEvent": {Format: "{{channel}}", Colour: 3, HasColour: true},
	}, nil)

	s, ok := ef.Format(testEvent{channel: "#chan"})
	require.True(t, ok)
	assert.Equal(t, "\x0303#chan", s)
}

func TestEventFormatterNoTemplate(t *testing.T) {
	ef := NewEventFormatter(newTestProperties(), templates{}, nil)

	_, ok := ef.Format(testEvent{})
	assert.False(t, ok)
	_, ok = ef.Format("not registered")
	assert.False(t, ok)
}

func TestEventFormatterErrors(t *testing.T) {
	reporter, rec := newTestReporter()
	ef := NewEventFormatter(newTestProperties(), templates{
		"testEvent": {Format: "{{user.age}} in {{channel|reverse|trim}} {{unclosed"},
	}, reporter)

	s, ok := ef.Format(testEvent{user: &testUser{nick: "alice"}, channel: " #chan "})
	require.True(t, ok)
	assert.Equal(t, FormatError+" in #chan {{unclosed", s)

	diags := rec.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "eventformatter", diags[0].Source)
	assert.Contains(t, diags[1].Message, `unknown function "reverse"`)
}

func TestEventFormatterNilProperty(t *testing.T) {
	reporter, rec := newTestReporter()
	ef := NewEventFormatter(newTestProperties(), templates{
		"testEvent": {Format: "<{{user.nickname}}>"},
	}, reporter)

	s, ok := ef.Format(testEvent{})
	require.True(t, ok)
	assert.Equal(t, "<"+FormatError+">", s)
	assert.Len(t, rec.Diagnostics(), 1)
}
