package irc

// IRC replies.
const (
	rplWelcome  = "001" // :Welcome message
	rplYourhost = "002" // :Your host is...
	rplCreated  = "003" // :This server was created...
	rplMyinfo   = "004" // <servername> <version> <umodes> <chan modes> <chan modes with a parameter>
	rplIsupport = "005" // 1*13<TOKEN[=value]> :are supported by this server

	rplNotopic      = "331" // <channel> :No topic set
	rplTopic        = "332" // <channel> <topic>
	rplTopicwhotime = "333" // <channel> <nick> <setat>
	rplNamreply     = "353" // <=/*/@> <channel> :1*(@/ /+user)
	rplEndofnames   = "366" // <channel> :End of names list
	rplMotd         = "372" // :- <text>
	rplMotdstart    = "375" // :- <servername> Message of the day -
	rplEndofmotd    = "376" // :End of MOTD command

	errNomotd = "422" // :MOTD file missing

	rplLoggedin    = "900" // <nick> <nick>!<ident>@<host> <account> :You are now logged in as <user>
	rplLoggedout   = "901" // <nick> <nick>!<ident>@<host> :You are now logged out
	errNicklocked  = "902" // :You must use a nick assigned to you
	rplSaslsuccess = "903" // :SASL authentication successful
	errSaslfail    = "904" // :SASL authentication failed
	errSasltoolong = "905" // :SASL message too long
	errSaslaborted = "906" // :SASL authentication aborted
	errSaslalready = "907" // :You have already authenticated using SASL
	rplSaslmechs   = "908" // <mechanisms> :are available SASL mechanisms
)

type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarn
	SeverityFail
)

func (s Severity) String() string {
	switch s {
	case SeverityFail:
		return "FAIL"
	case SeverityWarn:
		return "WARN"
	default:
		return "NOTE"
	}
}

// ReplySeverity returns the severity of a numeric reply. Error replies are
// in the 400-599 range, and some SASL replies are failures as well.
func ReplySeverity(reply string) Severity {
	switch reply {
	case errNicklocked, errSaslfail, errSasltoolong, errSaslaborted, errSaslalready:
		return SeverityFail
	case errNomotd:
		return SeverityNote
	}
	if len(reply) == 3 && (reply[0] == '4' || reply[0] == '5') {
		return SeverityFail
	}
	return SeverityNote
}
