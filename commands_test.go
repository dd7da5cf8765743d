package ircstyle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastText(t *testing.T, app *App, window string) string {
	t.Helper()
	texts := windowTexts(t, app, window)
	require.NotEmpty(t, texts)
	return texts[len(texts)-1]
}

func TestFieldsN(t *testing.T) {
	assert.Nil(t, fieldsN("   ", 2))
	assert.Equal(t, []string{"a b  c"}, fieldsN(" a b  c ", 1))
	assert.Equal(t, []string{"a", "b  c"}, fieldsN("a   b  c", 2))
	assert.Equal(t, []string{"a", "b", "c"}, fieldsN("a b c", 5))
}

func TestParseCommand(t *testing.T) {
	cmd, args, ok := parseCommand("/search some text")
	assert.True(t, ok)
	assert.Equal(t, "SEARCH", cmd)
	assert.Equal(t, "some text", args)

	_, args, ok = parseCommand("//not a command")
	assert.False(t, ok)
	assert.Equal(t, "/not a command", args)

	cmd, _, ok = parseCommand("/")
	assert.True(t, ok)
	assert.Equal(t, "", cmd)
}

func TestCommandEcho(t *testing.T) {
	app, _ := joinedApp(t, Defaults())

	app.HandleInput("#chan", "/echo \x02bold\x02 text")
	assert.Equal(t, "\x02bold\x02 text", lastText(t, app, "#chan"))

	app.HandleInput("#chan", "/ec prefix")
	assert.Equal(t, "prefix", lastText(t, app, "#chan"))
}

func TestCommandErrors(t *testing.T) {
	app, _ := joinedApp(t, Defaults())

	app.HandleInput(ServerWindow, "/search")
	assert.Equal(t, "\x037Usage: /search <text>", lastText(t, app, ServerWindow))

	app.HandleInput(ServerWindow, "/bogus")
	assert.Equal(t, "\x0314Unknown command /bogus\x0F.", lastText(t, app, ServerWindow))

	app.HandleInput(ServerWindow, "/c")
	assert.Contains(t, lastText(t, app, ServerWindow), "\x037ambiguous command \"C\"")

	app.HandleInput(ServerWindow, "/names")
	assert.Equal(t, "\x037command \"NAMES\" cannot be executed from the server window", lastText(t, app, ServerWindow))

	app.HandleInput(ServerWindow, "hello")
	assert.Equal(t, "\x037can't send messages to the server window", lastText(t, app, ServerWindow))

	app.HandleInput(ServerWindow, "/")
	assert.Equal(t, "\x037lone slash at the beginning", lastText(t, app, ServerWindow))
}

func TestCommandSelfMessages(t *testing.T) {
	app, _ := joinedApp(t, Defaults())

	app.HandleInput("#chan", "hello")
	assert.Equal(t, "<@me> hello", lastText(t, app, "#chan"))

	app.HandleInput("#chan", "/me waves")
	assert.Equal(t, "\x036* @me waves", lastText(t, app, "#chan"))

	app.HandleInput("alice", "//slash")
	assert.Equal(t, "<me> /slash", lastText(t, app, "alice"))
}

func TestCommandNamesAndTopic(t *testing.T) {
	app, _ := joinedApp(t, Defaults())
	feed(app,
		":srv 332 me #chan :the topic",
		":srv 333 me #chan alice 1234567890",
	)

	app.HandleInput("#chan", "/names")
	assert.Equal(t, "Names: +alice bob @me", lastText(t, app, "#chan"))

	app.HandleInput("#chan", "/topic")
	assert.Contains(t, lastText(t, app, "#chan"), "Topic (by alice, ")
	assert.Contains(t, lastText(t, app, "#chan"), "): the topic")
}

func TestCommandSearchAndClear(t *testing.T) {
	app, _ := joinedApp(t, Defaults())
	feed(app,
		":alice!a@host PRIVMSG #chan :first NEEDLE",
		":bob!b@host PRIVMSG #chan :nothing",
	)

	app.HandleInput("#chan", "/search needle")
	found := lastText(t, app, "#chan")
	assert.True(t, strings.HasPrefix(found, "Line 1: "), found)
	assert.True(t, strings.HasSuffix(found, " | <+alice> first NEEDLE"), found)

	app.HandleInput("#chan", "/search missing")
	assert.Equal(t, "\x037no line contains \"missing\"", lastText(t, app, "#chan"))

	app.HandleInput("#chan", "/clear")
	w, _ := app.Window("#chan")
	assert.Equal(t, 0, w.Document().NumLines())
}

func TestCommandHelp(t *testing.T) {
	app, _ := newTestApp(t, Defaults())

	app.HandleInput(ServerWindow, "/help sea")
	assert.Equal(t, []string{
		"Commands that match \"SEA\":",
		"  \x02SEARCH\x02 <text>",
		"    find the last line containing the given text",
	}, windowTexts(t, app, ServerWindow))

	app.HandleInput(ServerWindow, "/help")
	assert.Contains(t, windowTexts(t, app, ServerWindow), "  \x02RELOAD\x02 ")
}

func TestCommandReload(t *testing.T) {
	app, _ := newTestApp(t, Defaults())

	app.HandleInput(ServerWindow, "/reload")
	assert.Equal(t, "Templates reloaded.", lastText(t, app, ServerWindow))
}
