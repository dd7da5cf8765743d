package ircstyle

import (
	"git.sr.ht/~taiite/ircstyle/format"
	"git.sr.ht/~taiite/ircstyle/irc"
)

// registerProperties exposes the fields of IRC events to templates.
func registerProperties(pm *format.PropertyManager) {
	format.Register(pm, "Prefix", format.Properties[*irc.Prefix]{
		"nickname": func(p *irc.Prefix) interface{} {
			if p == nil {
				return ""
			}
			return p.Name
		},
		"ident": func(p *irc.Prefix) interface{} {
			if p == nil {
				return ""
			}
			return p.User
		},
		"host": func(p *irc.Prefix) interface{} {
			if p == nil {
				return ""
			}
			return p.Host
		},
		"mask": func(p *irc.Prefix) interface{} { return p.String() },
	})

	format.Register(pm, "RegisteredEvent", format.Properties[irc.RegisteredEvent]{
		"nick":    func(ev irc.RegisteredEvent) interface{} { return ev.Nick },
		"message": func(ev irc.RegisteredEvent) interface{} { return ev.Message },
	})
	format.Register(pm, "SelfNickEvent", format.Properties[irc.SelfNickEvent]{
		"formerNick": func(ev irc.SelfNickEvent) interface{} { return ev.FormerNick },
		"newNick":    func(ev irc.SelfNickEvent) interface{} { return ev.NewNick },
	})
	format.Register(pm, "UserNickEvent", format.Properties[irc.UserNickEvent]{
		"user":       func(ev irc.UserNickEvent) interface{} { return ev.User },
		"formerNick": func(ev irc.UserNickEvent) interface{} { return ev.FormerNick },
	})
	format.Register(pm, "SelfJoinEvent", format.Properties[irc.SelfJoinEvent]{
		"channel": func(ev irc.SelfJoinEvent) interface{} { return ev.Channel },
	})
	format.Register(pm, "UserJoinEvent", format.Properties[irc.UserJoinEvent]{
		"user":    func(ev irc.UserJoinEvent) interface{} { return ev.User },
		"channel": func(ev irc.UserJoinEvent) interface{} { return ev.Channel },
	})
	format.Register(pm, "SelfPartEvent", format.Properties[irc.SelfPartEvent]{
		"channel": func(ev irc.SelfPartEvent) interface{} { return ev.Channel },
		"reason":  func(ev irc.SelfPartEvent) interface{} { return ev.Reason },
	})
	format.Register(pm, "UserPartEvent", format.Properties[irc.UserPartEvent]{
		"user":    func(ev irc.UserPartEvent) interface{} { return ev.User },
		"channel": func(ev irc.UserPartEvent) interface{} { return ev.Channel },
		"reason":  func(ev irc.UserPartEvent) interface{} { return ev.Reason },
	})
	format.Register(pm, "UserQuitEvent", format.Properties[irc.UserQuitEvent]{
		"user":   func(ev irc.UserQuitEvent) interface{} { return ev.User },
		"reason": func(ev irc.UserQuitEvent) interface{} { return ev.Reason },
	})
	format.Register(pm, "KickEvent", format.Properties[irc.KickEvent]{
		"user":    func(ev irc.KickEvent) interface{} { return ev.User },
		"channel": func(ev irc.KickEvent) interface{} { return ev.Channel },
		"target":  func(ev irc.KickEvent) interface{} { return ev.Target },
		"reason":  func(ev irc.KickEvent) interface{} { return ev.Reason },
	})
	format.Register(pm, "TopicEvent", format.Properties[irc.TopicEvent]{
		"channel": func(ev irc.TopicEvent) interface{} { return ev.Channel },
		"topic":   func(ev irc.TopicEvent) interface{} { return ev.Topic },
	})
	format.Register(pm, "TopicChangeEvent", format.Properties[irc.TopicChangeEvent]{
		"user":    func(ev irc.TopicChangeEvent) interface{} { return ev.User },
		"channel": func(ev irc.TopicChangeEvent) interface{} { return ev.Channel },
		"topic":   func(ev irc.TopicChangeEvent) interface{} { return ev.Topic },
	})
	format.Register(pm, "ModeChangeEvent", format.Properties[irc.ModeChangeEvent]{
		"user":   func(ev irc.ModeChangeEvent) interface{} { return ev.User },
		"target": func(ev irc.ModeChangeEvent) interface{} { return ev.Target },
		"modes":  func(ev irc.ModeChangeEvent) interface{} { return ev.Modes },
	})
	format.Register(pm, "MessageEvent", format.Properties[irc.MessageEvent]{
		"user":    func(ev irc.MessageEvent) interface{} { return ev.User },
		"target":  func(ev irc.MessageEvent) interface{} { return ev.Target },
		"command": func(ev irc.MessageEvent) interface{} { return ev.Command },
		"content": func(ev irc.MessageEvent) interface{} { return ev.Content },
	})
	format.Register(pm, "CTCPEvent", format.Properties[irc.CTCPEvent]{
		"user":   func(ev irc.CTCPEvent) interface{} { return ev.User },
		"target": func(ev irc.CTCPEvent) interface{} { return ev.Target },
		"type":   func(ev irc.CTCPEvent) interface{} { return ev.Type },
		"args":   func(ev irc.CTCPEvent) interface{} { return ev.Args },
	})
	format.Register(pm, "ReplyEvent", format.Properties[irc.ReplyEvent]{
		"server":   func(ev irc.ReplyEvent) interface{} { return ev.Prefix },
		"code":     func(ev irc.ReplyEvent) interface{} { return ev.Code },
		"severity": func(ev irc.ReplyEvent) interface{} { return ev.Severity },
	})
	format.Register(pm, "ErrorEvent", format.Properties[irc.ErrorEvent]{
		"severity": func(ev irc.ErrorEvent) interface{} { return ev.Severity },
		"code":     func(ev irc.ErrorEvent) interface{} { return ev.Code },
		"message":  func(ev irc.ErrorEvent) interface{} { return ev.Message },
	})
}
