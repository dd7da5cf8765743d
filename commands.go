package ircstyle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"git.sr.ht/~taiite/ircstyle/irc"
)

type command struct {
	AllowHome bool
	MinArgs   int
	MaxArgs   int
	Usage     string
	Desc      string
	Handle    func(app *App, w *Window, args []string) error
}

type commandSet map[string]*command

var commands commandSet

func init() {
	commands = commandSet{
		"HELP": {
			AllowHome: true,
			MaxArgs:   1,
			Usage:     "[command]",
			Desc:      "show the list of commands, or how to use the given one",
			Handle:    commandDoHelp,
		},
		"CLEAR": {
			AllowHome: true,
			Desc:      "remove every line of the current window",
			Handle:    commandDoClear,
		},
		"COMPLETE": {
			AllowHome: true,
			MinArgs:   1,
			MaxArgs:   1,
			Usage:     "<text>",
			Desc:      "show the completions of the given text",
			Handle:    commandDoComplete,
		},
		"ECHO": {
			AllowHome: true,
			MinArgs:   1,
			MaxArgs:   1,
			Usage:     "<text>",
			Desc:      "show the given text, control codes included",
			Handle:    commandDoEcho,
		},
		"ME": {
			MinArgs: 1,
			MaxArgs: 1,
			Usage:   "<message>",
			Desc:    "show an action in the current window",
			Handle:  commandDoMe,
		},
		"NAMES": {
			Desc:   "show the member list of the current channel",
			Handle: commandDoNames,
		},
		"RELOAD": {
			AllowHome: true,
			Desc:      "read the event templates again",
			Handle:    commandDoReload,
		},
		"SEARCH": {
			AllowHome: true,
			MinArgs:   1,
			MaxArgs:   1,
			Usage:     "<text>",
			Desc:      "find the last line containing the given text",
			Handle:    commandDoSearch,
		},
		"TOPIC": {
			Desc:   "show the topic of the current channel",
			Handle: commandDoTopic,
		},
	}
}

type usageError struct {
	name  string
	usage string
}

func (err *usageError) Error() string {
	return fmt.Sprintf("usage: %s %s", err.name, err.usage)
}

type unknownCommandError string

func (err unknownCommandError) Error() string {
	return fmt.Sprintf("command %q doesn't exist", string(err))
}

func noCommand(app *App, w *Window, content string) error {
	if w.name == ServerWindow {
		return fmt.Errorf("can't send messages to the server window")
	}
	w.AddEvent(app.selfMessage(w.name, content, false), time.Now())
	return nil
}

// selfMessage returns the event of a message we send to target.
func (app *App) selfMessage(target, content string, action bool) irc.MessageEvent {
	return irc.MessageEvent{
		User:            &irc.Prefix{Name: app.session.Nick()},
		Target:          target,
		TargetIsChannel: app.session.IsChannel(target),
		Command:         "PRIVMSG",
		Content:         content,
		Action:          action,
		Self:            true,
		Time:            time.Now(),
	}
}

func commandDoHelp(app *App, w *Window, args []string) (err error) {
	t := time.Now()

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(args) == 0 {
		w.AddMessage(t, "commandOutput", "Available commands:")
		for _, name := range names {
			cmd := commands[name]
			w.AddMessage(t, "commandOutput", fmt.Sprintf("  \x02%s\x02 %s", name, cmd.Usage))
			w.AddMessage(t, "commandOutput", "    "+cmd.Desc)
		}
		return
	}

	search := strings.ToUpper(args[0])
	found := false
	w.AddMessage(t, "commandOutput", fmt.Sprintf("Commands that match \"%s\":", search))
	for _, name := range names {
		if !strings.Contains(name, search) {
			continue
		}
		cmd := commands[name]
		w.AddMessage(t, "commandOutput", fmt.Sprintf("  \x02%s\x02 %s", name, cmd.Usage))
		w.AddMessage(t, "commandOutput", "    "+cmd.Desc)
		found = true
	}
	if !found {
		w.AddMessage(t, "commandOutput", fmt.Sprintf("  no command matches %q", args[0]))
	}
	return
}

func commandDoClear(app *App, w *Window, args []string) (err error) {
	w.doc.Clear()
	return
}

func commandDoComplete(app *App, w *Window, args []string) (err error) {
	text := []rune(args[0])
	cs := app.Completions(w.name, len(text), text)
	if len(cs) == 0 {
		return fmt.Errorf("no completion for %q", args[0])
	}

	// The last completion is the text itself.
	cs = cs[:len(cs)-1]
	if len(cs) == 1 {
		w.AddMessage(time.Now(), "commandOutput", string(cs[0].Text))
		return
	}
	possibilities := make([]string, len(cs))
	for i, c := range cs {
		possibilities[i] = strings.TrimSpace(string(c.Text))
	}
	w.AddMessage(time.Now(), "tabCompletion", strings.Join(possibilities, ", "))
	return
}

func commandDoEcho(app *App, w *Window, args []string) (err error) {
	w.AddMessage(time.Now(), "commandOutput", args[0])
	return
}

func commandDoMe(app *App, w *Window, args []string) (err error) {
	w.AddEvent(app.selfMessage(w.name, args[0], true), time.Now())
	return
}

func commandDoNames(app *App, w *Window, args []string) (err error) {
	if !app.session.IsChannel(w.name) {
		return fmt.Errorf("%s is not a channel", w.name)
	}
	var sb strings.Builder
	sb.WriteString("Names:")
	for _, name := range app.session.Names(w.name) {
		sb.WriteByte(' ')
		sb.WriteString(name.PowerLevel)
		sb.WriteString(name.Name.Name)
	}
	w.AddMessage(time.Now(), "commandOutput", sb.String())
	return
}

func commandDoReload(app *App, w *Window, args []string) (err error) {
	if err := app.templates.Reload(); err != nil {
		return err
	}
	w.AddMessage(time.Now(), "commandOutput", "Templates reloaded.")
	return
}

func commandDoSearch(app *App, w *Window, args []string) (err error) {
	i, ok := w.doc.Search(args[0], w.doc.NumLines()-1, true)
	if !ok {
		return fmt.Errorf("no line contains %q", args[0])
	}
	w.AddMessage(time.Now(), "commandOutput", fmt.Sprintf("Line %d: %s", i, w.doc.Line(i).Text()))
	return
}

func commandDoTopic(app *App, w *Window, args []string) (err error) {
	if !app.session.IsChannel(w.name) {
		return fmt.Errorf("%s is not a channel", w.name)
	}

	var body string
	topic, who, at := app.session.Topic(w.name)
	if who == nil {
		body = fmt.Sprintf("Topic: %s", topic)
	} else {
		body = fmt.Sprintf("Topic (by %s, %s): %s", who, at.Local().Format("Mon Jan 2 15:04:05"), topic)
	}
	w.AddMessage(time.Now(), "commandOutput", body)
	return
}

// implemented from https://golang.org/src/strings/strings.go?s=8055:8085#L310
func fieldsN(s string, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" || n == 0 {
		return nil
	}
	if n == 1 {
		return []string{s}
	}
	n--
	var a []string
	na := 0
	fieldStart := 0
	i := 0
	// Skip spaces in front of the input.
	for i < len(s) && s[i] == ' ' {
		i++
	}
	fieldStart = i
	for i < len(s) {
		if s[i] != ' ' {
			i++
			continue
		}
		a = append(a, s[fieldStart:i])
		na++
		i++
		// Skip spaces in between fields.
		for i < len(s) && s[i] == ' ' {
			i++
		}
		fieldStart = i
		if n <= na {
			a = append(a, s[fieldStart:])
			return a
		}
	}
	if fieldStart < len(s) {
		// Last field ends at EOF.
		a = append(a, s[fieldStart:])
	}
	return a
}

func parseCommand(s string) (command, args string, isCommand bool) {
	if s[0] != '/' {
		return "", s, false
	}
	if 1 < len(s) && s[1] == '/' {
		// Input starts with two slashes.
		return "", s[1:], false
	}

	i := strings.IndexByte(s, ' ')
	if i < 0 {
		i = len(s)
	}

	isCommand = true
	command = strings.ToUpper(s[1:i])
	args = strings.TrimLeft(s[i:], " ")
	return
}

// HandleInput runs a line typed in the window called window: either a
// command, or a message shown as if we had sent it. Errors are shown in the
// window.
func (app *App) HandleInput(window, input string) {
	w := app.window(window)
	err := app.handleInput(w, input)

	var usage *usageError
	var unknown unknownCommandError
	switch {
	case err == nil:
	case errors.As(err, &usage):
		w.AddMessage(time.Now(), "commandUsage", "/", strings.ToLower(usage.name), usage.usage)
	case errors.As(err, &unknown):
		w.AddMessage(time.Now(), "unknownCommand", "/"+strings.ToLower(string(unknown)))
	default:
		w.AddMessage(time.Now(), "commandError", err.Error())
	}
}

func (app *App) handleInput(w *Window, content string) error {
	if content == "" {
		return nil
	}

	cmdName, rawArgs, isCommand := parseCommand(content)
	if !isCommand {
		return noCommand(app, w, rawArgs)
	}
	if cmdName == "" {
		return fmt.Errorf("lone slash at the beginning")
	}

	chosenCMDName := cmdName
	if _, ok := commands[cmdName]; !ok {
		var found bool
		for key := range commands {
			if !strings.HasPrefix(key, cmdName) {
				continue
			}
			if found {
				return fmt.Errorf("ambiguous command %q (could mean %v or %v)", cmdName, chosenCMDName, key)
			}
			chosenCMDName = key
			found = true
		}
		if !found {
			return unknownCommandError(cmdName)
		}
	}

	cmd := commands[chosenCMDName]

	var args []string
	if rawArgs != "" && cmd.MaxArgs != 0 {
		args = fieldsN(rawArgs, cmd.MaxArgs)
	}

	if len(args) < cmd.MinArgs {
		return &usageError{name: chosenCMDName, usage: cmd.Usage}
	}
	if w.name == ServerWindow && !cmd.AllowHome {
		return fmt.Errorf("command %q cannot be executed from the server window", chosenCMDName)
	}

	return cmd.Handle(app, w, args)
}
