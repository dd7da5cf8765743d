package irc

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

// User is a known IRC user (we share a channel with it).
type User struct {
	Name *Prefix // the nick, user and hostname of the user if known.
}

// Channel is a joined channel.
type Channel struct {
	Name      string           // the name of the channel.
	Members   map[*User]string // the set of members associated with their membership.
	Topic     string           // the topic of the channel, or "" if absent.
	TopicWho  *Prefix          // the name of the last user who set the topic.
	TopicTime time.Time        // the last time the topic has been changed.
	Secret    bool             // whether the channel is on the server channel list.
}

type members []Member

func (m members) Len() int      { return len(m) }
func (m members) Swap(i, j int) { m[i], m[j] = m[j], m[i] }
func (m members) Less(i, j int) bool {
	return strings.ToLower(m[i].Name.Name) < strings.ToLower(m[j].Name.Name)
}

// Session tracks the state of one IRC connection from the messages it
// receives. It does not send anything. It is safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	registered bool
	nick       string
	nickCf     string // casemapped nickname.

	casemap       func(string) string
	chantypes     string
	prefixSymbols string
	prefixModes   string

	users    map[string]*User   // known users.
	channels map[string]Channel // joined channels.
}

func NewSession(nick string) *Session {
	return &Session{
		nick:          nick,
		nickCf:        CasemapRFC1459(nick),
		casemap:       CasemapRFC1459,
		chantypes:     "#&",
		prefixSymbols: "@+",
		prefixModes:   "ov",
		users:         map[string]*User{},
		channels:      map[string]Channel{},
	}
}

func (s *Session) Registered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registered
}

func (s *Session) Nick() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nick
}

func (s *Session) IsMe(nick string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isMe(nick)
}

func (s *Session) isMe(nick string) bool {
	return s.nickCf == s.casemap(nick)
}

func (s *Session) IsChannel(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isChannel(name)
}

func (s *Session) isChannel(name string) bool {
	return strings.IndexAny(name, s.chantypes) == 0
}

func (s *Session) Casemap(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.casemap(name)
}

// ChannelPrefixes returns the characters that start a channel name, as
// advertised by the server in CHANTYPES.
func (s *Session) ChannelPrefixes() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chantypes
}

// PrefixSymbols returns the membership prefixes, highest first.
func (s *Session) PrefixSymbols() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefixSymbols
}

// Users returns the list of all known nicknames.
func (s *Session) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Name.Name)
	}
	sort.Strings(users)
	return users
}

// Names returns the list of users in the given channel, or nil if this channel
// is not known by the session.
// The list is sorted according to member name.
func (s *Session) Names(channel string) []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []Member
	if c, ok := s.channels[s.casemap(channel)]; ok {
		names = make([]Member, 0, len(c.Members))
		for u, pl := range c.Members {
			names = append(names, Member{
				PowerLevel: pl,
				Name:       u.Name.Copy(),
			})
		}
	}
	sort.Sort(members(names))
	return names
}

func (s *Session) ChannelsSharedWith(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channelsSharedWith(name)
}

func (s *Session) channelsSharedWith(name string) []string {
	user, ok := s.users[s.casemap(name)]
	if !ok {
		return nil
	}
	var channels []string
	for _, c := range s.channels {
		if _, ok := c.Members[user]; ok {
			channels = append(channels, c.Name)
		}
	}
	sort.Strings(channels)
	return channels
}

func (s *Session) Topic(channel string) (topic string, who *Prefix, at time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.channels[s.casemap(channel)]; ok {
		topic = c.Topic
		who = c.TopicWho.Copy()
		at = c.TopicTime
	}
	return
}

// HandleMessage updates the state of the session and returns the event that
// should be displayed, or nil. msg must have been validated.
func (s *Session) HandleMessage(msg Message) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Command {
	case rplWelcome:
		s.nick = msg.Params[0]
		s.nickCf = s.casemap(s.nick)
		s.registered = true
		return RegisteredEvent{
			Nick:    s.nick,
			Message: msg.Params[len(msg.Params)-1],
			Time:    msg.TimeOrNow(),
		}
	case rplIsupport:
		s.updateFeatures(msg.Params[1 : len(msg.Params)-1])
	case "JOIN":
		nickCf := s.casemap(msg.Prefix.Name)
		channelCf := s.casemap(msg.Params[0])
		if s.isMe(msg.Prefix.Name) {
			c := Channel{
				Name:    msg.Params[0],
				Members: map[*User]string{},
			}
			if _, ok := s.users[nickCf]; !ok {
				s.users[nickCf] = &User{Name: msg.Prefix.Copy()}
			}
			c.Members[s.users[nickCf]] = ""
			s.channels[channelCf] = c
			return SelfJoinEvent{
				Channel: msg.Params[0],
				Time:    msg.TimeOrNow(),
			}
		} else if c, ok := s.channels[channelCf]; ok {
			if _, ok := s.users[nickCf]; !ok {
				s.users[nickCf] = &User{Name: msg.Prefix.Copy()}
			}
			c.Members[s.users[nickCf]] = ""
			return UserJoinEvent{
				User:    msg.Prefix.Copy(),
				Channel: c.Name,
				Time:    msg.TimeOrNow(),
			}
		}
	case "PART":
		nickCf := s.casemap(msg.Prefix.Name)
		channelCf := s.casemap(msg.Params[0])
		var reason string
		if 1 < len(msg.Params) {
			reason = msg.Params[1]
		}
		if s.isMe(msg.Prefix.Name) {
			if c, ok := s.channels[channelCf]; ok {
				s.leave(channelCf, c)
				return SelfPartEvent{
					Channel: c.Name,
					Reason:  reason,
					Time:    msg.TimeOrNow(),
				}
			}
		} else if c, ok := s.channels[channelCf]; ok {
			if u, ok := s.users[nickCf]; ok {
				delete(c.Members, u)
				s.cleanUser(u)
				return UserPartEvent{
					User:    msg.Prefix.Copy(),
					Channel: c.Name,
					Reason:  reason,
					Time:    msg.TimeOrNow(),
				}
			}
		}
	case "KICK":
		nickCf := s.casemap(msg.Params[1])
		channelCf := s.casemap(msg.Params[0])
		c, ok := s.channels[channelCf]
		if !ok {
			break
		}
		ev := KickEvent{
			User:    msg.Prefix.Copy(),
			Channel: c.Name,
			Target:  msg.Params[1],
			Time:    msg.TimeOrNow(),
		}
		if 2 < len(msg.Params) {
			ev.Reason = msg.Params[2]
		}
		if s.isMe(msg.Params[1]) {
			ev.Self = true
			s.leave(channelCf, c)
		} else if u, ok := s.users[nickCf]; ok {
			delete(c.Members, u)
			s.cleanUser(u)
		}
		return ev
	case "QUIT":
		nickCf := s.casemap(msg.Prefix.Name)

		if u, ok := s.users[nickCf]; ok {
			var channels []string
			for _, c := range s.channels {
				if _, ok := c.Members[u]; ok {
					channels = append(channels, c.Name)
					delete(c.Members, u)
				}
			}
			s.cleanUser(u)
			sort.Strings(channels)
			ev := UserQuitEvent{
				User:     msg.Prefix.Copy(),
				Channels: channels,
				Time:     msg.TimeOrNow(),
			}
			if 0 < len(msg.Params) {
				ev.Reason = msg.Params[0]
			}
			return ev
		}
	case rplNamreply:
		channelCf := s.casemap(msg.Params[2])

		if c, ok := s.channels[channelCf]; ok {
			c.Secret = msg.Params[1] == "@"

			for _, name := range ParseNameReply(msg.Params[3], s.prefixSymbols) {
				nickCf := s.casemap(name.Name.Name)

				if _, ok := s.users[nickCf]; !ok {
					s.users[nickCf] = &User{Name: name.Name.Copy()}
				}
				c.Members[s.users[nickCf]] = name.PowerLevel
			}

			s.channels[channelCf] = c
		}
	case rplEndofnames:
		// nothing to display.
	case rplTopic:
		channelCf := s.casemap(msg.Params[1])
		if c, ok := s.channels[channelCf]; ok {
			c.Topic = msg.Params[2]
			s.channels[channelCf] = c
			return TopicEvent{
				Channel: c.Name,
				Topic:   c.Topic,
				Time:    msg.TimeOrNow(),
			}
		}
	case rplTopicwhotime:
		channelCf := s.casemap(msg.Params[1])
		t, _ := strconv.ParseInt(msg.Params[3], 10, 64)
		if c, ok := s.channels[channelCf]; ok {
			c.TopicWho = ParsePrefix(msg.Params[2])
			c.TopicTime = time.Unix(t, 0)
			s.channels[channelCf] = c
		}
	case rplNotopic:
		channelCf := s.casemap(msg.Params[1])
		if c, ok := s.channels[channelCf]; ok {
			c.Topic = ""
			s.channels[channelCf] = c
		}
	case "TOPIC":
		channelCf := s.casemap(msg.Params[0])
		if c, ok := s.channels[channelCf]; ok {
			c.Topic = msg.Params[1]
			c.TopicWho = msg.Prefix.Copy()
			c.TopicTime = msg.TimeOrNow()
			s.channels[channelCf] = c
			return TopicChangeEvent{
				User:    msg.Prefix.Copy(),
				Channel: c.Name,
				Topic:   c.Topic,
				Time:    c.TopicTime,
			}
		}
	case "MODE":
		return ModeChangeEvent{
			User:            msg.Prefix.Copy(),
			Target:          msg.Params[0],
			TargetIsChannel: s.isChannel(msg.Params[0]),
			Modes:           strings.Join(msg.Params[1:], " "),
			Time:            msg.TimeOrNow(),
		}
	case "PRIVMSG", "NOTICE":
		return s.newMessageEvent(msg)
	case "NICK":
		nickCf := s.casemap(msg.Prefix.Name)
		newNick := msg.Params[0]
		newNickCf := s.casemap(newNick)

		if s.isMe(msg.Prefix.Name) {
			s.nick = newNick
			s.nickCf = newNickCf
		}

		var channels []string
		if formerUser, ok := s.users[nickCf]; ok {
			channels = s.channelsSharedWith(msg.Prefix.Name)
			formerUser.Name.Name = newNick
			delete(s.users, nickCf)
			s.users[newNickCf] = formerUser
		}

		if s.nickCf == newNickCf {
			return SelfNickEvent{
				FormerNick: msg.Prefix.Name,
				NewNick:    newNick,
				Time:       msg.TimeOrNow(),
			}
		}
		user := msg.Prefix.Copy()
		user.Name = newNick
		return UserNickEvent{
			User:       user,
			FormerNick: msg.Prefix.Name,
			Channels:   channels,
			Time:       msg.TimeOrNow(),
		}
	case "ERROR":
		var message string
		if 0 < len(msg.Params) {
			message = msg.Params[0]
		}
		return ErrorEvent{
			Severity: SeverityFail,
			Code:     "ERROR",
			Message:  message,
			Time:     msg.TimeOrNow(),
		}
	case "FAIL":
		return ErrorEvent{
			Severity: SeverityFail,
			Code:     msg.Params[1],
			Message:  strings.Join(msg.Params[2:], " "),
			Time:     msg.TimeOrNow(),
		}
	case "WARN":
		return ErrorEvent{
			Severity: SeverityWarn,
			Code:     msg.Params[1],
			Message:  strings.Join(msg.Params[2:], " "),
			Time:     msg.TimeOrNow(),
		}
	case "NOTE":
		return ErrorEvent{
			Severity: SeverityNote,
			Code:     msg.Params[1],
			Message:  strings.Join(msg.Params[2:], " "),
			Time:     msg.TimeOrNow(),
		}
	default:
		if msg.IsReply() {
			return ReplyEvent{
				Prefix:   msg.Prefix.Copy(),
				Code:     msg.Command,
				Params:   append([]string(nil), msg.Params...),
				Severity: ReplySeverity(msg.Command),
				Time:     msg.TimeOrNow(),
			}
		}
	}
	return nil
}

func (s *Session) newMessageEvent(msg Message) Event {
	target := msg.Params[0]
	content := msg.Params[1]
	targetIsChannel := false
	if c, ok := s.channels[s.casemap(target)]; ok {
		target = c.Name
		targetIsChannel = true
	} else if s.isChannel(target) {
		targetIsChannel = true
	}

	if ctcp, args, ok := parseCTCP(content); ok && ctcp != "ACTION" {
		return CTCPEvent{
			User:            msg.Prefix.Copy(),
			Target:          target,
			TargetIsChannel: targetIsChannel,
			Reply:           msg.Command == "NOTICE",
			Type:            ctcp,
			Args:            args,
			Time:            msg.TimeOrNow(),
		}
	} else if ok {
		return MessageEvent{
			User:            msg.Prefix.Copy(),
			Target:          target,
			TargetIsChannel: targetIsChannel,
			Command:         msg.Command,
			Content:         args,
			Action:          true,
			Self:            s.isMe(msg.Prefix.Name),
			Highlight:       s.isHighlight(msg.Prefix.Name, args),
			Time:            msg.TimeOrNow(),
		}
	}

	return MessageEvent{
		User:            msg.Prefix.Copy(),
		Target:          target,
		TargetIsChannel: targetIsChannel,
		Command:         msg.Command,
		Content:         content,
		Self:            s.isMe(msg.Prefix.Name),
		Highlight:       s.isHighlight(msg.Prefix.Name, content),
		Time:            msg.TimeOrNow(),
	}
}

// isHighlight reports whether content mentions our nickname as a word.
func (s *Session) isHighlight(from, content string) bool {
	if s.isMe(from) || s.nickCf == "" {
		return false
	}
	contentCf := s.casemap(content)
	for start := 0; ; {
		i := strings.Index(contentCf[start:], s.nickCf)
		if i < 0 {
			return false
		}
		i += start

		left, right := ' ', ' '
		if 0 < i {
			left = rune(contentCf[i-1])
		}
		if j := i + len(s.nickCf); j < len(contentCf) {
			right = rune(contentCf[j])
		}
		if !isNickRune(left) && !isNickRune(right) {
			return true
		}

		start = i + 1
	}
}

func isNickRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_[]{}\\|`^", r)
}

// parseCTCP splits a "\x01TYPE args\x01" message. The closing \x01 is
// optional.
func parseCTCP(content string) (typ, args string, ok bool) {
	if len(content) < 2 || content[0] != '\x01' {
		return
	}
	content = strings.TrimSuffix(content[1:], "\x01")
	typ, args = word(content)
	typ = strings.ToUpper(typ)
	ok = typ != ""
	return
}

func (s *Session) leave(channelCf string, c Channel) {
	delete(s.channels, channelCf)
	for u := range c.Members {
		s.cleanUser(u)
	}
}

func (s *Session) cleanUser(parted *User) {
	for _, c := range s.channels {
		if _, ok := c.Members[parted]; ok {
			return
		}
	}
	delete(s.users, s.casemap(parted.Name.Name))
}

func (s *Session) updateFeatures(features []string) {
	for _, f := range features {
		if f == "" || f == "-" || f == "=" || f == "-=" {
			continue
		}

		var (
			add   bool
			key   string
			value string
		)

		if strings.HasPrefix(f, "-") {
			add = false
			f = f[1:]
		} else {
			add = true
		}

		kv := strings.SplitN(f, "=", 2)
		key = strings.ToUpper(kv[0])
		if len(kv) > 1 {
			value = kv[1]
		}

		if !add {
			// negations restore the defaults.
			switch key {
			case "CASEMAPPING":
				s.setCasemap(CasemapRFC1459)
			case "CHANTYPES":
				s.chantypes = "#&"
			case "PREFIX":
				s.prefixModes = "ov"
				s.prefixSymbols = "@+"
			}
			continue
		}

	Switch:
		switch key {
		case "CASEMAPPING":
			switch value {
			case "ascii":
				s.setCasemap(CasemapASCII)
			default:
				s.setCasemap(CasemapRFC1459)
			}
		case "CHANTYPES":
			s.chantypes = value
		case "PREFIX":
			if value == "" {
				s.prefixModes = ""
				s.prefixSymbols = ""
				break Switch
			}
			if len(value)%2 != 0 {
				break Switch
			}
			for i := 0; i < len(value); i++ {
				if unicode.MaxASCII < value[i] {
					break Switch
				}
			}
			numPrefixes := len(value)/2 - 1
			s.prefixModes = value[1 : numPrefixes+1]
			s.prefixSymbols = value[numPrefixes+2:]
		}
	}
}

// setCasemap changes the casemapping and rekeys the state accordingly.
func (s *Session) setCasemap(casemap func(string) string) {
	s.casemap = casemap
	s.nickCf = casemap(s.nick)

	users := make(map[string]*User, len(s.users))
	for _, u := range s.users {
		users[casemap(u.Name.Name)] = u
	}
	s.users = users

	channels := make(map[string]Channel, len(s.channels))
	for _, c := range s.channels {
		channels[casemap(c.Name)] = c
	}
	s.channels = channels
}
