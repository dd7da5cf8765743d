package irc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

func word(s string) (w, rest string) {
	split := strings.SplitN(s, " ", 2)

	if len(split) < 2 {
		w = split[0]
		rest = ""
	} else {
		w = split[0]
		rest = split[1]
	}

	return
}

func tagEscape(c rune) (escape rune) {
	switch c {
	case ':':
		escape = ';'
	case 's':
		escape = ' '
	case 'r':
		escape = '\r'
	case 'n':
		escape = '\n'
	default:
		escape = c
	}

	return
}

func unescapeTagValue(escaped string) (unescaped string) {
	var builder strings.Builder
	builder.Grow(len(escaped))
	escape := false

	for _, c := range escaped {
		if c == '\\' && !escape {
			escape = true
		} else {
			var cpp rune

			if escape {
				cpp = tagEscape(c)
			} else {
				cpp = c
			}

			builder.WriteRune(cpp)
			escape = false
		}
	}

	unescaped = builder.String()
	return
}

func parseTags(s string) (tags map[string]string) {
	s = s[1:]
	tags = map[string]string{}

	for _, item := range strings.Split(s, ";") {
		if item == "" || item == "=" || item == "+" || item == "+=" {
			continue
		}

		kv := strings.SplitN(item, "=", 2)
		if len(kv) < 2 {
			tags[kv[0]] = ""
		} else {
			tags[kv[0]] = unescapeTagValue(kv[1])
		}
	}

	return
}

var (
	errEmptyMessage      = errors.New("empty message")
	errIncompleteMessage = errors.New("message is incomplete")
	errNoPrefix          = errors.New("missing prefix")
	errNotEnoughParams   = errors.New("not enough params")
)

// Prefix is the source of a message: a server name, or a user mask.
type Prefix struct {
	Name string
	User string
	Host string
}

// ParsePrefix parses "nick!user@host", "nick@host" or "nick". It returns nil
// if s is empty.
func ParsePrefix(s string) (p *Prefix) {
	if s == "" {
		return
	}

	p = &Prefix{}

	spl0 := strings.SplitN(s, "@", 2)
	if 1 < len(spl0) {
		p.Host = spl0[1]
	}

	spl1 := strings.SplitN(spl0[0], "!", 2)
	if 1 < len(spl1) {
		p.User = spl1[1]
	}

	p.Name = spl1[0]

	return
}

func (p *Prefix) Copy() *Prefix {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (p *Prefix) String() string {
	if p == nil {
		return "*"
	}

	if p.User != "" && p.Host != "" {
		return p.Name + "!" + p.User + "@" + p.Host
	} else if p.User != "" {
		return p.Name + "!" + p.User
	} else if p.Host != "" {
		return p.Name + "@" + p.Host
	} else {
		return p.Name
	}
}

type Message struct {
	Tags    map[string]string
	Prefix  *Prefix
	Command string
	Params  []string
}

// Tokenize parses one raw IRC line, without its trailing CRLF.
func Tokenize(line string) (msg Message, err error) {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errEmptyMessage
		return
	}

	if line[0] == '@' {
		var tags string

		tags, line = word(line)
		msg.Tags = parseTags(tags)
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	if line[0] == ':' {
		var prefix string

		prefix, line = word(line)
		msg.Prefix = ParsePrefix(prefix[1:])
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	msg.Command, line = word(line)
	msg.Command = strings.ToUpper(msg.Command)

	msg.Params = make([]string, 0, 15)
	for line != "" {
		if line[0] == ':' {
			msg.Params = append(msg.Params, line[1:])
			break
		}

		var param string
		param, line = word(line)
		if param == "" {
			// several spaces between parameters.
			continue
		}
		msg.Params = append(msg.Params, param)
	}

	return
}

// IsReply reports whether the message is a numeric reply.
func (msg *Message) IsReply() bool {
	if len(msg.Command) != 3 {
		return false
	}
	for _, r := range msg.Command {
		if !('0' <= r && r <= '9') {
			return false
		}
	}
	return true
}

func (msg *Message) Validate() (err error) {
	switch msg.Command {
	case rplWelcome:
		if len(msg.Params) < 1 {
			err = errNotEnoughParams
		}
	case rplIsupport:
		if len(msg.Params) < 3 {
			err = errNotEnoughParams
		}
	case rplNamreply:
		if len(msg.Params) < 4 {
			err = errNotEnoughParams
		}
	case rplTopic, rplNotopic:
		if len(msg.Params) < 3 {
			err = errNotEnoughParams
		}
	case rplTopicwhotime:
		if len(msg.Params) < 4 {
			err = errNotEnoughParams
		}
	case "JOIN", "PART", "NICK":
		if len(msg.Params) < 1 {
			err = errNotEnoughParams
		} else if msg.Prefix == nil {
			err = errNoPrefix
		}
	case "KICK":
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		} else if msg.Prefix == nil {
			err = errNoPrefix
		}
	case "QUIT":
		if msg.Prefix == nil {
			err = errNoPrefix
		}
	case "PRIVMSG", "NOTICE", "TOPIC":
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		} else if msg.Prefix == nil {
			err = errNoPrefix
		}
	case "MODE":
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		} else if msg.Prefix == nil {
			err = errNoPrefix
		}
	case "FAIL", "WARN", "NOTE":
		if len(msg.Params) < 3 {
			err = errNotEnoughParams
		}
	default:
		if msg.IsReply() && len(msg.Params) < 1 {
			err = errNotEnoughParams
		}
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", msg.Command, err)
	}
	return
}

// Time returns the time carried by the "time" tag, in local time.
func (msg *Message) Time() (t time.Time, ok bool) {
	var tag string
	var year, month, day, hour, minute, second, millis int

	tag, ok = msg.Tags["time"]
	if !ok {
		return
	}

	tag = strings.TrimSuffix(tag, "Z")

	_, err := fmt.Sscanf(tag, "%4d-%2d-%2dT%2d:%2d:%2d.%3d", &year, &month, &day, &hour, &minute, &second, &millis)
	if err != nil || month < 1 || 12 < month {
		ok = false
		return
	}

	t = time.Date(year, time.Month(month), day, hour, minute, second, millis*1e6, time.UTC)
	t = t.Local()

	return
}

func (msg *Message) TimeOrNow() time.Time {
	t, ok := msg.Time()
	if ok {
		return t
	}
	return time.Now()
}

// Member is an entry of a NAMES reply.
type Member struct {
	PowerLevel string
	Name       *Prefix
}

// ParseNameReply parses the trailing parameter of RPL_NAMREPLY. symbols are
// the membership prefixes advertised by the server, e.g. "~&@%+".
func ParseNameReply(trailing string, symbols string) (names []Member) {
	for _, name := range strings.Split(trailing, " ") {
		if name == "" {
			continue
		}

		mask := strings.TrimLeft(name, symbols)
		names = append(names, Member{
			PowerLevel: name[:len(name)-len(mask)],
			Name:       ParsePrefix(mask),
		})
	}

	return
}

func CasemapASCII(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func CasemapRFC1459(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		} else if r == '[' {
			r = '{'
		} else if r == ']' {
			r = '}'
		} else if r == '\\' {
			r = '|'
		} else if r == '~' {
			r = '^'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
