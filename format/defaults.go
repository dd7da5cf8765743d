package format

const (
	colour = "\x03"
	stop   = "\x0F"
	fixed  = "\x11"
	hex    = "\x04"
)

// defaultFormats are the printf formats every FormatSet starts with.
//
// Channel events take, in order: the mode prefixes, nickname, ident and host
// of the user, then the channel name and the content, except messages and
// actions which take the content before the channel. Binary channel events
// (kicks) take both users before the channel. Query events take the
// nickname, ident and host of the user, then the content.
var defaultFormats = map[string]string{
	"timestamp": "%1$tH:%1$tM:%1$tS | ",

	"channelMessage":             "<%1$s%2$s> %5$s",
	"channelHighlight":           colour + "4<%1$s%2$s> %5$s",
	"channelAction":              colour + "6* %1$s%2$s %5$s",
	"channelHighlightAction":     colour + "6* %1$s%2$s %5$s",
	"channelSelfMessage":         "<%1$s%2$s> %5$s",
	"channelSelfAction":          colour + "6* %1$s%2$s %5$s",
	"channelSelfExternalMessage": "<%1$s%2$s> %5$s",
	"channelSelfExternalAction":  colour + "6* %1$s%2$s %5$s",
	"channelNotice":              colour + "5-%1$s%2$s:%5$s- %6$s",

	"channelCTCP": colour + "4-!- CTCP %5$S from %1$s%2$s",

	"channelJoin":     colour + "3* %2$s (%3$s@%4$s) has joined %5$s" + stop + ".",
	"channelPart":     colour + "3* %1$s%2$s (%3$s@%4$s) has left %5$s." + stop,
	"channelQuit":     colour + "2* %1$s%2$s (%3$s@%4$s) has quit IRC.",
	"channelSelfJoin": colour + "3* You are now talking in %5$s." + stop,
	"channelSelfPart": colour + "3* You have left the channel.",

	"channelPartReason":     colour + "3* %1$s%2$s (%3$s@%4$s) has left %5$s (%6$s" + stop + ").",
	"channelQuitReason":     colour + "2* %1$s%2$s (%3$s@%4$s) has quit IRC (%6$s" + stop + ").",
	"channelTopicChange":    colour + "3* %1$s%2$s has changed the topic to '%6$s" + stop + "'.",
	"channelNickChange":     colour + "3* %1$s%2$s is now know as %6$s" + stop + ".",
	"channelModeChange":     colour + "3* %1$s%2$s sets mode: %6$s" + stop + ".",
	"channelSelfNickChange": colour + "3* You are now know as %6$s" + stop + ".",
	"channelSelfModeChange": colour + "3* You set mode: %6$s" + stop + ".",
	"channelSelfPartReason": colour + "3* You have left the channel.",

	"channelKick":             colour + "3* %1$s%2$s has kicked %5$s%6$s from %9$s" + stop + ".",
	"channelKickReason":       colour + "3* %1$s%2$s has kicked %5$s%6$s from %9$s (%10$s" + stop + ").",
	"channelUserMode_default": colour + "3* %1$s%2$s sets mode %10$s on %6$s" + stop + ".",

	"channelJoinTopic":      colour + "3* The topic for %4$s is '%1$s" + stop + "'.\n" + colour + "3* Topic was set by %2$s.",
	"channelNoModes":        colour + "3* There are no channel modes for %2$s" + stop + ".",
	"channelModeDiscovered": colour + "3* Channel modes for %2$s are: %1$s" + stop + ".",

	"privateCTCP":      colour + "4-!- CTCP %4$S from %1$s",
	"privateCTCPreply": colour + "4-!- CTCP %4$S reply from %1$s: %5$s",

	"privateNotice":         colour + "5-%1$s- %4$s",
	"queryMessage":          "<%1$s> %4$s",
	"queryAction":           colour + "6* %1$s %4$s",
	"querySelfMessage":      "<%1$s> %4$s",
	"querySelfAction":       colour + "6* %1$s %4$s",
	"queryNickChanged":      colour + "3* %1$s is now know as %4$s" + stop + ".",
	"userModeChanged":       colour + "3 %1$s sets user mode: %4$s" + stop + ".",
	"queryQuitReason":       colour + "2* %1$s has quit IRC (%4$s" + stop + ").",
	"queryMessageHighlight": colour + "4<%1$s> %4$s",
	"queryActionHighlight":  colour + "6* %1$s %4$s",
	"queryQuit":             colour + "2* %1$s has quit IRC.",

	"selfCTCP":    colour + "4->- [%1$s] %2$s",
	"selfNotice":  colour + "5>%1$s> %2$s",
	"selfMessage": ">[%1$s]> %2$s",

	"connectError":     colour + "2Error connecting: %2$s",
	"connectRetry":     colour + "2Reconnecting in %2$s seconds...",
	"serverConnecting": "Connecting to %1$s:%2$s...",
	"serverConnected":  colour + "3* Connected as %1$s: %2$s",
	"serverError":      colour + "4-!- %1$s (%2$s" + stop + ")",

	"authNotice":     colour + "5-AUTH- %1$s",
	"channelNoTopic": colour + "3* There is no topic set for %1$s" + stop + ".",
	"rawCommand":     colour + "10>>> %1$s",
	"unknownCommand": colour + "14Unknown command %1$s" + stop + ".",
	"socketClosed":   colour + "2-!- You have been disconnected from the server.",
	"stonedServer":   colour + "2-!- Disconnected from a non-responsive server.",
	"motdStart":      colour + "10%1$s",
	"motdLine":       colour + "10" + fixed + "%1$s",
	"motdEnd":        colour + "10%1$s",
	"rawIn":          "<< %1$s",
	"rawOut":         ">> %1$s",
	"commandOutput":  "%1$s",
	"commandError":   colour + "7%1$s",
	"actionTooLong":  "Warning: action too long to be sent",
	"tabCompletion":  colour + "14Multiple possibilities: %1$s",

	"unknownNotice": colour + "5-[%1$s:%2$s]- %3$s",

	"commandUsage": colour + "7Usage: %1$s%2$s %3$s",

	// Numerics take every token of the reply: the prefix, the numeric,
	// then the parameters.
	"numeric_301": "%4$s is away: %5$s",
	"numeric_311": "-\n%4$s is %5$s@%6$s (%8$s" + stop + ").",
	"numeric_312": "%4$s is connected to %5$s (%6$s" + stop + ").",
	"numeric_313": "%4$s %5$s.",
	"numeric_317": "%4$s has been idle for %5$u; signed on at %6$TT on %6$TF.",
	"numeric_318": "End of WHOIS info for %4$s" + stop + ".\n-",
	"numeric_319": "%4$s is on: %5$s",
	"numeric_330": "%4$s %6$s %5$s" + stop + ".",
	"numeric_343": "%4$s %6$s %5$s" + stop + ".",

	"numeric_401": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_421": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_433": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_461": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_471": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_472": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_473": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_474": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_475": hex + "6A7000%4$s" + stop + ": %5$s",
	"numeric_479": hex + "6A7000%4$s" + stop + ": %5$s",
}
