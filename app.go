// Package ircstyle renders raw IRC traffic into styled scroll-back documents,
// one per conversation.
package ircstyle

import (
	"fmt"
	"strings"
	"time"

	"git.sr.ht/~taiite/ircstyle/diag"
	"git.sr.ht/~taiite/ircstyle/format"
	"git.sr.ht/~taiite/ircstyle/irc"
	"git.sr.ht/~taiite/ircstyle/ui"
)

// ServerWindow is the name of the window that receives server messages.
const ServerWindow = "*"

// App routes IRC events to windows. It is not safe for concurrent use.
type App struct {
	cfg      Config
	reporter *diag.Reporter

	session    *irc.Session
	colours    *ui.ColourManager
	styliser   *ui.Styliser
	formatter  *format.Formatter
	properties *format.PropertyManager
	templates  *format.TemplateProvider
	events     *format.EventFormatter

	windows map[string]*Window // by casemapped name.
	order   []*Window
}

func NewApp(cfg Config, reporter *diag.Reporter) (app *App, err error) {
	app = &App{
		cfg:      cfg,
		reporter: reporter,
		session:  irc.NewSession(cfg.Nick),
		colours:  ui.NewColourManager(reporter),
		windows:  map[string]*Window{},
	}

	app.colours.SetPalette(cfg.Colours)
	app.styliser = ui.NewStyliser(app.session, app.colours, reporter)
	app.styliser.SetOptions(styliserOptions(cfg))
	app.formatter = format.NewFormatter(format.NewFormatSet(cfg.Formats), reporter)

	app.properties = format.NewPropertyManager()
	registerProperties(app.properties)

	app.templates, err = format.NewTemplateProvider(cfg.Templates, reporter)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	app.events = format.NewEventFormatter(app.properties, app.templates, reporter)

	app.window(ServerWindow)
	return app, nil
}

func styliserOptions(cfg Config) ui.StyliserOptions {
	return ui.StyliserOptions{
		StyleLinks:      cfg.UI.StyleLinks,
		StyleChannels:   cfg.UI.StyleChannels,
		LinkColour:      cfg.UI.LinkColour,
		ChannelColour:   cfg.UI.ChannelColour,
		LinkBareDomains: cfg.UI.LinkBareDomains,
		NickColours:     cfg.UI.NickColours,
		Smilies:         cfg.Smilies,
		MaxLinkPasses:   cfg.UI.MaxLinkPasses,
	}
}

func documentConfig(cfg Config) ui.DocumentConfig {
	return ui.DocumentConfig{
		FrameBufferSize: cfg.UI.FrameBufferSize,
		FontName:        cfg.UI.FontName,
		FontSize:        cfg.UI.FontSize,
	}
}

// ApplyConfig replaces the configuration of the app and of every window.
// Nothing changes if the new templates can not be loaded.
func (app *App) ApplyConfig(cfg Config) error {
	if cfg.Templates != app.cfg.Templates {
		templates, err := format.NewTemplateProvider(cfg.Templates, app.reporter)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		app.templates = templates
		app.events = format.NewEventFormatter(app.properties, templates, app.reporter)
	}

	app.cfg = cfg
	app.colours.SetPalette(cfg.Colours)
	app.styliser.SetOptions(styliserOptions(cfg))
	app.formatter.SetFormats(format.NewFormatSet(cfg.Formats))
	for _, w := range app.order {
		w.doc.ApplyConfig(documentConfig(cfg))
	}
	return nil
}

func (app *App) Session() *irc.Session {
	return app.session
}

func (app *App) Styliser() *ui.Styliser {
	return app.styliser
}

// Windows returns every window, in creation order.
func (app *App) Windows() []*Window {
	return append([]*Window(nil), app.order...)
}

func (app *App) Window(name string) (w *Window, ok bool) {
	w, ok = app.windows[app.session.Casemap(name)]
	return
}

// window returns the window called name, creating it if needed.
func (app *App) window(name string) *Window {
	nameCf := app.session.Casemap(name)
	if w, ok := app.windows[nameCf]; ok {
		return w
	}
	w := &Window{
		name: name,
		app:  app,
		doc:  ui.NewDocument(app.styliser, documentConfig(app.cfg)),
	}
	app.windows[nameCf] = w
	app.order = append(app.order, w)
	return w
}

// HandleLine parses a raw IRC line, updates the state of the session and
// adds the resulting event to the windows it concerns. Malformed lines are
// reported and dropped.
func (app *App) HandleLine(line string) {
	msg, err := irc.Tokenize(line)
	if err != nil {
		app.reporter.Report("irc", "%q: %v", line, err)
		return
	}
	if err := msg.Validate(); err != nil {
		app.reporter.Report("irc", "%q: %v", line, err)
		return
	}

	at := msg.TimeOrNow()
	ev := app.session.HandleMessage(msg)
	app.handleIRCEvent(ev, at)
}

func (app *App) handleIRCEvent(ev irc.Event, at time.Time) {
	for _, name := range app.eventWindows(ev) {
		app.window(name).AddEvent(ev, at)
	}
}

// eventWindows returns the names of the windows ev must be shown in.
func (app *App) eventWindows(ev irc.Event) []string {
	switch ev := ev.(type) {
	case irc.RegisteredEvent, irc.ErrorEvent:
		return []string{ServerWindow}
	case irc.SelfNickEvent:
		return append([]string{ServerWindow}, app.session.ChannelsSharedWith(ev.NewNick)...)
	case irc.UserNickEvent:
		windows := append([]string(nil), ev.Channels...)
		if _, ok := app.Window(ev.FormerNick); ok {
			windows = append(windows, ev.FormerNick)
		}
		return windows
	case irc.UserQuitEvent:
		windows := append([]string(nil), ev.Channels...)
		if _, ok := app.Window(ev.User.Name); ok {
			windows = append(windows, ev.User.Name)
		}
		return windows
	case irc.SelfJoinEvent:
		return []string{ev.Channel}
	case irc.UserJoinEvent:
		return []string{ev.Channel}
	case irc.SelfPartEvent:
		return []string{ev.Channel}
	case irc.UserPartEvent:
		return []string{ev.Channel}
	case irc.KickEvent:
		return []string{ev.Channel}
	case irc.TopicEvent:
		return []string{ev.Channel}
	case irc.TopicChangeEvent:
		return []string{ev.Channel}
	case irc.ModeChangeEvent:
		if ev.TargetIsChannel {
			return []string{ev.Target}
		}
		return []string{ServerWindow}
	case irc.MessageEvent:
		switch {
		case ev.TargetIsChannel:
			return []string{ev.Target}
		case isServerMessage(ev.User, ev.Target):
			return []string{ServerWindow}
		case ev.Self:
			return []string{ev.Target}
		default:
			return []string{ev.User.Name}
		}
	case irc.CTCPEvent:
		if ev.TargetIsChannel {
			return []string{ev.Target}
		}
		return []string{ServerWindow}
	case irc.ReplyEvent:
		if isBlackListed(ev.Code) {
			return nil
		}
		return []string{ServerWindow}
	}
	return nil
}

func isBlackListed(command string) bool {
	switch command {
	case "002", "003", "004", "422":
		// useless connection messages
		return true
	}
	return false
}

// isServerMessage reports whether a private message comes from the server
// rather than from a user, like the notices sent during registration.
func isServerMessage(from *irc.Prefix, target string) bool {
	if target == "*" || strings.EqualFold(target, "AUTH") {
		return true
	}
	return from == nil || (from.User == "" && from.Host == "" && strings.ContainsRune(from.Name, '.'))
}

// modePrefix returns the most important membership prefix of nick in
// channel, or "" if nick has none.
func (app *App) modePrefix(channel, nick string) string {
	nickCf := app.session.Casemap(nick)
	for _, m := range app.session.Names(channel) {
		if m.Name != nil && app.session.Casemap(m.Name.Name) == nickCf {
			if m.PowerLevel == "" {
				return ""
			}
			return m.PowerLevel[:1]
		}
	}
	return ""
}

// channelArgs returns the arguments channel formats start with: the mode
// prefix, nickname, ident and host of user, then the channel. extra is
// appended.
func (app *App) channelArgs(channel string, user *irc.Prefix, extra ...interface{}) []interface{} {
	var nick, ident, host string
	if user != nil {
		nick, ident, host = user.Name, user.User, user.Host
	}
	args := []interface{}{app.modePrefix(channel, nick), nick, ident, host, channel}
	return append(args, extra...)
}

// queryArgs returns the arguments query formats start with: the nickname,
// ident and host of user. extra is appended.
func queryArgs(user *irc.Prefix, extra ...interface{}) []interface{} {
	var nick, ident, host string
	if user != nil {
		nick, ident, host = user.Name, user.User, user.Host
	}
	args := []interface{}{nick, ident, host}
	return append(args, extra...)
}

// legacyFormat returns the message type and arguments of ev, as shown in
// window, for events that have no template.
func (app *App) legacyFormat(window string, ev irc.Event) (messageType string, args []interface{}, ok bool) {
	s := app.session
	self := &irc.Prefix{Name: s.Nick()}

	switch ev := ev.(type) {
	case irc.RegisteredEvent:
		return "serverConnected", []interface{}{ev.Nick, ev.Message}, true
	case irc.SelfNickEvent:
		return "channelSelfNickChange", app.channelArgs(window, &irc.Prefix{Name: ev.FormerNick}, ev.NewNick), true
	case irc.UserNickEvent:
		if !s.IsChannel(window) {
			return "queryNickChanged", []interface{}{ev.FormerNick, ev.User.User, ev.User.Host, ev.User.Name}, true
		}
		args = app.channelArgs(window, ev.User, ev.User.Name)
		args[1] = ev.FormerNick
		return "channelNickChange", args, true
	case irc.SelfJoinEvent:
		return "channelSelfJoin", app.channelArgs(ev.Channel, self), true
	case irc.UserJoinEvent:
		return "channelJoin", app.channelArgs(ev.Channel, ev.User), true
	case irc.SelfPartEvent:
		messageType = "channelSelfPart"
		if ev.Reason != "" {
			messageType = "channelSelfPartReason"
		}
		return messageType, app.channelArgs(ev.Channel, self, ev.Reason), true
	case irc.UserPartEvent:
		messageType = "channelPart"
		if ev.Reason != "" {
			messageType = "channelPartReason"
		}
		return messageType, app.channelArgs(ev.Channel, ev.User, ev.Reason), true
	case irc.UserQuitEvent:
		if !s.IsChannel(window) {
			messageType = "queryQuit"
			if ev.Reason != "" {
				messageType = "queryQuitReason"
			}
			return messageType, queryArgs(ev.User, ev.Reason), true
		}
		messageType = "channelQuit"
		if ev.Reason != "" {
			messageType = "channelQuitReason"
		}
		return messageType, app.channelArgs(window, ev.User, ev.Reason), true
	case irc.KickEvent:
		messageType = "channelKick"
		if ev.Reason != "" {
			messageType = "channelKickReason"
		}
		args = app.channelArgs(ev.Channel, ev.User)[:4]
		args = append(args, app.modePrefix(ev.Channel, ev.Target), ev.Target, "", "", ev.Channel, ev.Reason)
		return messageType, args, true
	case irc.TopicEvent:
		var setter string
		_, who, at := s.Topic(ev.Channel)
		if who != nil {
			setter = who.Name
		}
		return "channelJoinTopic", []interface{}{ev.Topic, setter, at, ev.Channel}, true
	case irc.TopicChangeEvent:
		return "channelTopicChange", app.channelArgs(ev.Channel, ev.User, ev.Topic), true
	case irc.ModeChangeEvent:
		if !ev.TargetIsChannel {
			return "userModeChanged", queryArgs(ev.User, ev.Modes), true
		}
		messageType = "channelModeChange"
		if ev.User != nil && s.IsMe(ev.User.Name) {
			messageType = "channelSelfModeChange"
		}
		return messageType, app.channelArgs(ev.Target, ev.User, ev.Modes), true
	case irc.MessageEvent:
		return app.messageFormat(ev)
	case irc.CTCPEvent:
		if ev.TargetIsChannel {
			args = app.channelArgs(ev.Target, ev.User)[:4]
			return "channelCTCP", append(args, ev.Type, ev.Args, ev.Target), true
		}
		messageType = "privateCTCP"
		if ev.Reply {
			messageType = "privateCTCPreply"
		}
		return messageType, queryArgs(ev.User, ev.Type, ev.Args), true
	case irc.ReplyEvent:
		return app.replyFormat(ev)
	case irc.ErrorEvent:
		return "serverError", []interface{}{ev.Message, ev.Severity.String() + " " + ev.Code}, true
	}
	return "", nil, false
}

func (app *App) messageFormat(ev irc.MessageEvent) (messageType string, args []interface{}, ok bool) {
	if ev.TargetIsChannel {
		if ev.Command == "NOTICE" {
			return "channelNotice", app.channelArgs(ev.Target, ev.User, ev.Content), true
		}
		switch {
		case ev.Self && ev.Action:
			messageType = "channelSelfAction"
		case ev.Self:
			messageType = "channelSelfMessage"
		case ev.Highlight && ev.Action:
			messageType = "channelHighlightAction"
		case ev.Highlight:
			messageType = "channelHighlight"
		case ev.Action:
			messageType = "channelAction"
		default:
			messageType = "channelMessage"
		}
		args = app.channelArgs(ev.Target, ev.User)[:4]
		return messageType, append(args, ev.Content, ev.Target), true
	}

	switch {
	case isServerMessage(ev.User, ev.Target):
		return "authNotice", []interface{}{ev.Content}, true
	case ev.Command == "NOTICE" && ev.Self:
		return "selfNotice", []interface{}{ev.Target, ev.Content}, true
	case ev.Command == "NOTICE":
		messageType = "privateNotice"
	case ev.Self && ev.Action:
		messageType = "querySelfAction"
	case ev.Self:
		messageType = "querySelfMessage"
	case ev.Highlight && ev.Action:
		messageType = "queryActionHighlight"
	case ev.Highlight:
		messageType = "queryMessageHighlight"
	case ev.Action:
		messageType = "queryAction"
	default:
		messageType = "queryMessage"
	}
	return messageType, queryArgs(ev.User, ev.Content), true
}

func (app *App) replyFormat(ev irc.ReplyEvent) (messageType string, args []interface{}, ok bool) {
	var last string
	if 0 < len(ev.Params) {
		last = ev.Params[len(ev.Params)-1]
	}

	switch ev.Code {
	case "375":
		return "motdStart", []interface{}{last}, true
	case "372":
		return "motdLine", []interface{}{last}, true
	case "376":
		return "motdEnd", []interface{}{last}, true
	}

	if messageType = "numeric_" + ev.Code; app.formatter.HasFormat(messageType) {
		for _, token := range ev.Tokens() {
			args = append(args, token)
		}
		return messageType, args, true
	}

	var text string
	if 1 < len(ev.Params) {
		text = strings.Join(ev.Params[1:], " ")
	}
	if ev.Severity == irc.SeverityFail {
		return "serverError", []interface{}{text, ev.Code}, true
	}
	return "commandOutput", []interface{}{text}, true
}
