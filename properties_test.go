package ircstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~taiite/ircstyle/format"
	"git.sr.ht/~taiite/ircstyle/irc"
)

func TestDefaultTemplatesResolve(t *testing.T) {
	app, rec := newTestApp(t, Defaults())

	user := &irc.Prefix{Name: "alice", User: "a", Host: "host"}
	for _, ev := range []irc.Event{
		irc.RegisteredEvent{Nick: "me", Message: "Welcome"},
		irc.SelfJoinEvent{Channel: "#chan"},
		irc.UserJoinEvent{User: user, Channel: "#chan"},
		irc.TopicEvent{Channel: "#chan", Topic: "topic"},
		irc.TopicChangeEvent{User: user, Channel: "#chan", Topic: "topic"},
		irc.UserNickEvent{User: user, FormerNick: "alicia"},
		irc.SelfNickEvent{FormerNick: "me", NewNick: "myself"},
		irc.ModeChangeEvent{User: user, Target: "#chan", Modes: "+o bob"},
		irc.CTCPEvent{User: user, Target: "me", Type: "VERSION"},
		irc.ErrorEvent{Severity: irc.SeverityWarn, Code: "CODE", Message: "message"},
	} {
		s, ok := app.events.Format(ev)
		require.True(t, ok, "%T has no template", ev)
		assert.NotContains(t, s, format.FormatError, "%T", ev)
	}
	assert.Empty(t, rec.Diagnostics())
}

func TestPrefixProperties(t *testing.T) {
	pm := format.NewPropertyManager()
	registerProperties(pm)

	var p *irc.Prefix
	nick, err := pm.Property(p, "nickname")
	require.NoError(t, err)
	assert.Equal(t, "", nick)

	p = &irc.Prefix{Name: "alice", User: "a", Host: "host"}
	mask, err := pm.Property(p, "mask")
	require.NoError(t, err)
	assert.Equal(t, "alice!a@host", mask)

	name, ok := pm.TypeName(irc.KickEvent{})
	assert.True(t, ok)
	assert.Equal(t, "KickEvent", name)

	_, err = pm.Property(irc.KickEvent{}, "nope")
	assert.Error(t, err)
}
