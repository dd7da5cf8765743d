package irc

import (
	"time"
)

type Event interface{}

type RegisteredEvent struct {
	Nick    string
	Message string
	Time    time.Time
}

type SelfNickEvent struct {
	FormerNick string
	NewNick    string
	Time       time.Time
}

type UserNickEvent struct {
	User       *Prefix // with the new nickname.
	FormerNick string
	Channels   []string // channels shared with the user.
	Time       time.Time
}

type SelfJoinEvent struct {
	Channel string
	Time    time.Time
}

type UserJoinEvent struct {
	User    *Prefix
	Channel string
	Time    time.Time
}

type SelfPartEvent struct {
	Channel string
	Reason  string
	Time    time.Time
}

type UserPartEvent struct {
	User    *Prefix
	Channel string
	Reason  string
	Time    time.Time
}

type UserQuitEvent struct {
	User     *Prefix
	Channels []string
	Reason   string
	Time     time.Time
}

type KickEvent struct {
	User    *Prefix // the kicker.
	Channel string
	Target  string
	Reason  string
	Self    bool // whether we have been kicked.
	Time    time.Time
}

// TopicEvent is the topic of a channel, as sent by the server after a join.
type TopicEvent struct {
	Channel string
	Topic   string
	Time    time.Time
}

type TopicChangeEvent struct {
	User    *Prefix
	Channel string
	Topic   string
	Time    time.Time
}

type ModeChangeEvent struct {
	User            *Prefix
	Target          string
	TargetIsChannel bool
	Modes           string // the mode string followed by its arguments.
	Time            time.Time
}

// MessageEvent is a PRIVMSG or a NOTICE. CTCP ACTIONs are unwrapped and have
// Action set.
type MessageEvent struct {
	User            *Prefix
	Target          string
	TargetIsChannel bool
	Command         string
	Content         string
	Action          bool
	Self            bool // whether we sent the message.
	Highlight       bool // whether the content contains our nickname.
	Time            time.Time
}

// CTCPEvent is a CTCP request or reply other than ACTION.
type CTCPEvent struct {
	User            *Prefix
	Target          string
	TargetIsChannel bool
	Reply           bool // NOTICE instead of PRIVMSG.
	Type            string
	Args            string
	Time            time.Time
}

// ReplyEvent is a numeric reply that carries no state. Params do not include
// the prefix nor the numeric.
type ReplyEvent struct {
	Prefix   *Prefix
	Code     string
	Params   []string
	Severity Severity
	Time     time.Time
}

// Tokens returns the prefix, the numeric and then every parameter.
func (ev ReplyEvent) Tokens() []string {
	tokens := make([]string, 0, len(ev.Params)+2)
	tokens = append(tokens, ev.Prefix.String(), ev.Code)
	tokens = append(tokens, ev.Params...)
	return tokens
}

// ErrorEvent is a standard reply (FAIL, WARN, NOTE) or an ERROR message.
type ErrorEvent struct {
	Severity Severity
	Code     string
	Message  string
	Time     time.Time
}
