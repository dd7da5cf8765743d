package ui

// Control codes understood by the styliser. The code points are part of the
// stored and transmitted text format and must not change.
const (
	CodeBold      = '\x02'
	CodeColour    = '\x03'
	CodeHexColour = '\x04'
	CodeHyperlink = '\x05'
	CodeChannel   = '\x06'
	CodeSmilie    = '\x07'
	CodeStop      = '\x0F'
	CodeNickname  = '\x10'
	CodeFixed     = '\x11'
	CodeNegate    = '\x12'
	CodeTooltip   = '\x13'
	CodeItalic    = '\x1D'
	CodeUnderline = '\x1F'
)

// controlCodes holds every code that ends a run of plain text.
const controlCodes = "\x02\x03\x04\x05\x06\x07\x0F\x10\x11\x12\x13\x1D\x1F"

// internalCodes are produced by the link and smilie passes themselves, and
// are removed from input before those passes run again.
const internalCodes = "\x05\x06\x07"

func isControl(c byte) bool {
	for i := 0; i < len(controlCodes); i++ {
		if controlCodes[i] == c {
			return true
		}
	}
	return false
}
