package indicator

import (
	"fmt"
	"math"
	"strings"
)

// Kind tags the variant held by a Command.
type Kind int

const (
	Unrecognized Kind = iota
	LevelUpdate
	Clear
)

func (k Kind) String() string {
	switch k {
	case LevelUpdate:
		return "level"
	case Clear:
		return "clear"
	default:
		return "unrecognized"
	}
}

// Command is one parsed protocol line.
//
// Level and Date are only meaningful for LevelUpdate. HasDate is set when the
// date field carried the D prefix; Date is not length-checked at this point.
type Command struct {
	Kind    Kind
	Level   AlertLevel
	Date    string
	HasDate bool

	// Line is the input the command was parsed from.
	Line string
}

func (c Command) String() string {
	switch c.Kind {
	case LevelUpdate:
		if c.HasDate {
			return fmt.Sprintf("level %d date %q", c.Level, c.Date)
		}
		return fmt.Sprintf("level %d", c.Level)
	case Clear:
		return "clear"
	default:
		return fmt.Sprintf("unrecognized %q", c.Line)
	}
}

const (
	levelSeparator = '_'
	datePrefixes   = "Dd"
)

// Parse classifies a line. It never fails: anything that is neither a level
// update nor a clear comes back as Unrecognized.
func Parse(line string) Command {
	cmd := Command{Line: line}

	if i := strings.IndexByte(line, levelSeparator); i >= 0 {
		cmd.Kind = LevelUpdate
		cmd.Level = AlertLevel(parseLevel(line[:i]))

		if rest := line[i+1:]; rest != "" && strings.IndexByte(datePrefixes, rest[0]) >= 0 {
			cmd.Date = rest[1:]
			cmd.HasDate = true
		}
		return cmd
	}

	// Only these two spellings; "Off" is not a clear.
	if strings.HasPrefix(line, "OFF") || strings.HasPrefix(line, "off") {
		cmd.Kind = Clear
		return cmd
	}

	return cmd
}

// parseLevel reads an optionally signed decimal prefix after leading blanks,
// stopping at the first non-digit. Input with no digits is 0 and values
// saturate at the 32-bit range.
func parseLevel(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var n int64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
		if n > math.MaxInt32 {
			n = math.MaxInt32 + 1
		}
	}

	if neg {
		n = -n
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return int(n)
}
