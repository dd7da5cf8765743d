package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formats follow the printf syntax of the JVM, which old format files were
// written for:
//
//	%[index$][flags][width][.precision]conversion
//	%[index$][flags][width]tX
//
// Arguments are numbered from 1. "%<s" reuses the previous argument. The
// additional conversion "u" formats a number of seconds as a duration.
var specifierRegexp = regexp.MustCompile(`^%(\d+\$|<)?([-#+ 0,(]*)(\d+)?(\.\d+)?([tT])?([a-zA-Z%])`)

var groupingPrinter = message.NewPrinter(language.English)

// maxFieldSize bounds widths and precisions.
const maxFieldSize = 4096

// Errors, formatted the same way as JVM exception messages.
type (
	unknownConversionError string
	illegalConversionError struct {
		conv byte
		arg  interface{}
	}
	missingArgumentError  string
	badNumberError        string
	illegalWidthError     string
	illegalPrecisionError string
)

func (e unknownConversionError) Error() string {
	return fmt.Sprintf("Unknown format conversion: Conversion = '%s'", string(e))
}

func (e illegalConversionError) Error() string {
	return fmt.Sprintf("Illegal format conversion: %c != %T", e.conv, e.arg)
}

func (e missingArgumentError) Error() string {
	return fmt.Sprintf("Missing format argument: Format specifier '%s'", string(e))
}

func (e badNumberError) Error() string {
	return fmt.Sprintf("Bad number: For input string: %q", string(e))
}

func (e illegalWidthError) Error() string {
	return fmt.Sprintf("Illegal format width: %s", string(e))
}

func (e illegalPrecisionError) Error() string {
	return fmt.Sprintf("Illegal format precision: %s", string(e))
}

// parseFieldSize parses a width or precision.
func parseFieldSize(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil && n <= maxFieldSize
}

type specifier struct {
	text      string // as written.
	index     int    // 1-based, 0 for %% and %n.
	flags     string
	width     int // -1 if unset.
	precision int // -1 if unset.
	date      bool
	conv      byte // for dates, the date conversion.
	upper     bool
}

func (spec *specifier) hasFlag(f byte) bool {
	return strings.IndexByte(spec.flags, f) >= 0
}

type chunk struct {
	literal string
	spec    *specifier
}

// printfFormat is a parsed format string, along with the conversion every
// argument is first used with.
type printfFormat struct {
	chunks []chunk
	types  map[int]byte
	err    error
}

func parseFormat(s string) *printfFormat {
	f := &printfFormat{types: map[int]byte{}}

	ordinary, last := 0, 0
	for s != "" {
		i := strings.IndexByte(s, '%')
		if i < 0 {
			f.chunks = append(f.chunks, chunk{literal: s})
			break
		}
		if 0 < i {
			f.chunks = append(f.chunks, chunk{literal: s[:i]})
			s = s[i:]
		}

		m := specifierRegexp.FindStringSubmatch(s)
		if m == nil {
			c := "%"
			if 1 < len(s) {
				r, _ := utf8.DecodeRuneInString(s[1:])
				c = string(r)
			}
			f.err = unknownConversionError(c)
			return f
		}
		s = s[len(m[0]):]

		spec := &specifier{
			text:      m[0],
			flags:     m[2],
			width:     -1,
			precision: -1,
			date:      m[5] != "",
			conv:      m[6][0],
		}
		if m[3] != "" {
			var ok bool
			if spec.width, ok = parseFieldSize(m[3]); !ok {
				f.err = illegalWidthError(m[3])
				return f
			}
		}
		if m[4] != "" {
			var ok bool
			if spec.precision, ok = parseFieldSize(m[4][1:]); !ok {
				f.err = illegalPrecisionError(m[4][1:])
				return f
			}
		}

		if spec.date {
			spec.upper = m[5] == "T"
			if !isDateConversion(spec.conv) {
				f.err = unknownConversionError(m[5] + m[6])
				return f
			}
		} else {
			switch spec.conv {
			case '%', 'n':
				f.chunks = append(f.chunks, chunk{spec: spec})
				continue
			case 'B', 'H', 'S', 'C', 'X', 'E', 'G', 'A':
				spec.upper = true
				spec.conv += 'a' - 'A'
			case 'b', 'h', 's', 'c', 'd', 'o', 'x', 'e', 'f', 'g', 'a', 'u':
			default:
				f.err = unknownConversionError(m[6])
				return f
			}
		}

		switch {
		case m[1] == "<":
			spec.index = last
		case m[1] != "":
			var err error
			if spec.index, err = strconv.Atoi(strings.TrimSuffix(m[1], "$")); err != nil {
				f.err = missingArgumentError(m[0])
				return f
			}
		default:
			ordinary++
			spec.index = ordinary
		}
		last = spec.index

		if _, ok := f.types[spec.index]; !ok && 0 < spec.index {
			if spec.date {
				f.types[spec.index] = 't'
			} else {
				f.types[spec.index] = spec.conv
			}
		}

		f.chunks = append(f.chunks, chunk{spec: spec})
	}

	return f
}

func isDateConversion(c byte) bool {
	return strings.IndexByte("HIklMSLNpzZsQBbhAaCYyjmdeRTrDFc", c) >= 0
}

// coerce converts the arguments to the type their first conversion expects.
func (f *printfFormat) coerce(args []interface{}) ([]interface{}, error) {
	res := make([]interface{}, len(args))
	for i, arg := range args {
		var err error
		switch f.types[i+1] {
		case 'b', 'h', 's':
			if arg != nil {
				res[i] = toString(arg)
			}
		case 'c':
			res[i], err = toRune(arg)
		case 'd', 'o', 'x':
			res[i], err = toInt(arg)
		case 'e', 'f', 'g', 'a':
			res[i], err = toFloat(arg)
		case 't':
			res[i], err = toTime(arg)
		case 'u':
			var seconds int64
			seconds, err = toSeconds(arg)
			res[i] = formatDuration(seconds)
		default:
			res[i] = arg
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func toString(arg interface{}) string {
	switch v := arg.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toRune(arg interface{}) (interface{}, error) {
	switch v := arg.(type) {
	case string:
		r, size := utf8.DecodeRuneInString(v)
		if size == 0 {
			return nil, illegalConversionError{'c', v}
		}
		return r, nil
	case rune:
		return v, nil
	case byte:
		return rune(v), nil
	}
	if n, ok := asInt64(arg); ok {
		return rune(n), nil
	}
	return arg, nil
}

func toInt(arg interface{}) (interface{}, error) {
	if s, ok := arg.(string); ok {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, badNumberError(s)
		}
		return n, nil
	}
	if n, ok := asInt64(arg); ok {
		return n, nil
	}
	return arg, nil
}

func toFloat(arg interface{}) (interface{}, error) {
	switch v := arg.(type) {
	case string:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, badNumberError(v)
		}
		return x, nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	}
	if n, ok := asInt64(arg); ok {
		return float64(n), nil
	}
	return arg, nil
}

// toTime reads strings and integers as Unix timestamps in seconds.
func toTime(arg interface{}) (interface{}, error) {
	switch v := arg.(type) {
	case time.Time:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, badNumberError(v)
		}
		return time.Unix(n, 0), nil
	}
	if n, ok := asInt64(arg); ok {
		return time.Unix(n, 0), nil
	}
	return arg, nil
}

func toSeconds(arg interface{}) (int64, error) {
	switch v := arg.(type) {
	case time.Duration:
		return int64(v / time.Second), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, badNumberError(v)
		}
		return n, nil
	}
	if n, ok := asInt64(arg); ok {
		return n, nil
	}
	return 0, illegalConversionError{'u', arg}
}

func asInt64(arg interface{}) (int64, bool) {
	switch v := arg.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

// formatDuration formats seconds as "1 day, 2 hours, 1 minute, 5 seconds".
func formatDuration(seconds int64) string {
	var sb strings.Builder
	if seconds < 0 {
		sb.WriteByte('-')
		seconds = -seconds
	}
	n := sb.Len()

	units := []struct {
		length int64
		name   string
	}{
		{60 * 60 * 24, "day"},
		{60 * 60, "hour"},
		{60, "minute"},
		{1, "second"},
	}
	for _, unit := range units {
		if seconds < unit.length {
			continue
		}
		val := seconds / unit.length
		seconds %= unit.length
		if sb.Len() != n {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(val, 10))
		sb.WriteByte(' ')
		sb.WriteString(unit.name)
		if val != 1 {
			sb.WriteByte('s')
		}
	}

	if sb.Len() == n {
		return "0 seconds"
	}
	return sb.String()
}

func (f *printfFormat) execute(args []interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	args, err := f.coerce(args)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, c := range f.chunks {
		if c.spec == nil {
			sb.WriteString(c.literal)
			continue
		}

		spec := c.spec
		switch {
		case spec.index == 0 && spec.conv == '%':
			sb.WriteString(justify(spec, "%"))
			continue
		case spec.index == 0 && spec.conv == 'n':
			sb.WriteByte('\n')
			continue
		case spec.index < 1 || len(args) < spec.index:
			return "", missingArgumentError(spec.text)
		}

		s, err := formatArg(spec, args[spec.index-1])
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func formatArg(spec *specifier, arg interface{}) (s string, err error) {
	if spec.date {
		t, ok := arg.(time.Time)
		if !ok {
			return "", illegalConversionError{spec.conv, arg}
		}
		s = formatDate(spec.conv, t)
	} else {
		switch spec.conv {
		case 's', 'u':
			if arg == nil {
				s = "null"
			} else {
				s = toString(arg)
			}
			s = truncate(spec, s)
		case 'b':
			switch v := arg.(type) {
			case nil:
				s = "false"
			case bool:
				s = strconv.FormatBool(v)
			default:
				s = "true"
			}
			s = truncate(spec, s)
		case 'h':
			if arg == nil {
				s = "null"
			} else {
				s = strconv.FormatUint(uint64(uint32(javaHashCode(toString(arg)))), 16)
			}
			s = truncate(spec, s)
		case 'c':
			r, ok := arg.(rune)
			if !ok {
				return "", illegalConversionError{spec.conv, arg}
			}
			s = string(r)
		case 'd', 'o', 'x':
			n, ok := asInt64(arg)
			if !ok {
				return "", illegalConversionError{spec.conv, arg}
			}
			s = formatInt(spec, n)
			if spec.upper {
				s = strings.ToUpper(s)
			}
			return s, nil
		case 'e', 'f', 'g', 'a':
			x, ok := arg.(float64)
			if !ok {
				return "", illegalConversionError{spec.conv, arg}
			}
			s = formatFloat(spec, x)
			if spec.upper {
				s = strings.ToUpper(s)
			}
			return s, nil
		default:
			return "", unknownConversionError(string(spec.conv))
		}
	}

	if spec.upper {
		s = strings.ToUpper(s)
	}
	return justify(spec, s), nil
}

func truncate(spec *specifier, s string) string {
	if spec.precision < 0 || utf8.RuneCountInString(s) <= spec.precision {
		return s
	}
	n := 0
	for i := range s {
		if n == spec.precision {
			return s[:i]
		}
		n++
	}
	return s
}

func justify(spec *specifier, s string) string {
	pad := spec.width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	if spec.hasFlag('-') {
		return s + strings.Repeat(" ", pad)
	}
	return strings.Repeat(" ", pad) + s
}

// javaHashCode is the hash the JVM gives to strings.
func javaHashCode(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	return h
}

func formatInt(spec *specifier, n int64) string {
	var digits, prefix string
	negative := false

	switch spec.conv {
	case 'd':
		negative = n < 0
		abs := uint64(n)
		if negative {
			abs = uint64(-n)
		}
		if spec.hasFlag(',') {
			digits = groupingPrinter.Sprintf("%d", abs)
		} else {
			digits = strconv.FormatUint(abs, 10)
		}
	case 'o', 'x':
		// negative numbers are shown in two's complement.
		var u uint64
		if math.MinInt32 <= n && n <= math.MaxInt32 {
			u = uint64(uint32(int32(n)))
		} else {
			u = uint64(n)
		}
		if spec.conv == 'o' {
			digits = strconv.FormatUint(u, 8)
			if spec.hasFlag('#') {
				prefix = "0"
			}
		} else {
			digits = strconv.FormatUint(u, 16)
			if spec.hasFlag('#') {
				prefix = "0x"
			}
		}
	}

	return signAndPad(spec, negative, prefix, digits)
}

func formatFloat(spec *specifier, x float64) string {
	if math.IsNaN(x) {
		return justify(spec, "NaN")
	}
	negative := math.Signbit(x)
	abs := math.Abs(x)
	if math.IsInf(x, 0) {
		s := "Infinity"
		if negative && spec.hasFlag('(') {
			s = "(" + s + ")"
		} else if negative {
			s = "-" + s
		} else if spec.hasFlag('+') {
			s = "+" + s
		}
		return justify(spec, s)
	}

	precision := spec.precision
	if precision < 0 {
		precision = 6
	}

	var digits string
	switch spec.conv {
	case 'e':
		digits = strconv.FormatFloat(abs, 'e', precision, 64)
	case 'f':
		digits = strconv.FormatFloat(abs, 'f', precision, 64)
		if spec.hasFlag(',') {
			digits = groupDigits(digits)
		}
	case 'g':
		if precision == 0 {
			precision = 1
		}
		if abs != 0 && (abs < 1e-4 || math.Pow10(precision) <= abs) {
			digits = strconv.FormatFloat(abs, 'e', precision-1, 64)
		} else {
			exp := 0
			if abs != 0 {
				exp = int(math.Floor(math.Log10(abs)))
			}
			digits = strconv.FormatFloat(abs, 'f', max(precision-exp-1, 0), 64)
			if spec.hasFlag(',') {
				digits = groupDigits(digits)
			}
		}
	case 'a':
		p := -1
		if spec.precision >= 0 {
			p = spec.precision
		}
		digits = strconv.FormatFloat(abs, 'x', p, 64)
		// 0x1.8p+01 -> 0x1.8p1
		if i := strings.IndexByte(digits, 'p'); i >= 0 {
			exp, _ := strconv.Atoi(digits[i+1:])
			digits = digits[:i+1] + strconv.Itoa(exp)
		}
	}

	return signAndPad(spec, negative, "", digits)
}

// groupDigits adds thousand separators to the integer part of a decimal.
func groupDigits(digits string) string {
	intPart, fracPart := digits, ""
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		intPart, fracPart = digits[:i], digits[i:]
	}
	n, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return digits
	}
	return groupingPrinter.Sprintf("%d", n) + fracPart
}

func signAndPad(spec *specifier, negative bool, prefix, digits string) string {
	var lead, trail string
	switch {
	case negative && spec.hasFlag('('):
		lead, trail = "(", ")"
	case negative:
		lead = "-"
	case spec.hasFlag('+'):
		lead = "+"
	case spec.hasFlag(' '):
		lead = " "
	}
	lead += prefix

	if spec.hasFlag('0') && !spec.hasFlag('-') {
		pad := spec.width - len(lead) - len(digits) - len(trail)
		if 0 < pad {
			digits = strings.Repeat("0", pad) + digits
		}
	}
	return justify(spec, lead+digits+trail)
}

func formatDate(conv byte, t time.Time) string {
	switch conv {
	case 'H':
		return fmt.Sprintf("%02d", t.Hour())
	case 'I':
		return fmt.Sprintf("%02d", hour12(t))
	case 'k':
		return strconv.Itoa(t.Hour())
	case 'l':
		return strconv.Itoa(hour12(t))
	case 'M':
		return fmt.Sprintf("%02d", t.Minute())
	case 'S':
		return fmt.Sprintf("%02d", t.Second())
	case 'L':
		return fmt.Sprintf("%03d", t.Nanosecond()/1e6)
	case 'N':
		return fmt.Sprintf("%09d", t.Nanosecond())
	case 'p':
		return strings.ToLower(t.Format("PM"))
	case 'z':
		return t.Format("-0700")
	case 'Z':
		return t.Format("MST")
	case 's':
		return strconv.FormatInt(t.Unix(), 10)
	case 'Q':
		return strconv.FormatInt(t.UnixMilli(), 10)
	case 'B':
		return t.Format("January")
	case 'b', 'h':
		return t.Format("Jan")
	case 'A':
		return t.Format("Monday")
	case 'a':
		return t.Format("Mon")
	case 'C':
		return fmt.Sprintf("%02d", t.Year()/100)
	case 'Y':
		return fmt.Sprintf("%04d", t.Year())
	case 'y':
		return fmt.Sprintf("%02d", t.Year()%100)
	case 'j':
		return fmt.Sprintf("%03d", t.YearDay())
	case 'm':
		return fmt.Sprintf("%02d", int(t.Month()))
	case 'd':
		return fmt.Sprintf("%02d", t.Day())
	case 'e':
		return strconv.Itoa(t.Day())
	case 'R':
		return formatDate('H', t) + ":" + formatDate('M', t)
	case 'T':
		return formatDate('H', t) + ":" + formatDate('M', t) + ":" + formatDate('S', t)
	case 'r':
		return formatDate('I', t) + ":" + formatDate('M', t) + ":" + formatDate('S', t) + " " + strings.ToUpper(formatDate('p', t))
	case 'D':
		return formatDate('m', t) + "/" + formatDate('d', t) + "/" + formatDate('y', t)
	case 'F':
		return formatDate('Y', t) + "-" + formatDate('m', t) + "-" + formatDate('d', t)
	case 'c':
		return t.Format("Mon Jan 02 15:04:05 MST 2006")
	}
	return ""
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}
