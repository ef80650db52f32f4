package indicator

import "strconv"

// Digits holds the four glyphs of the numeric display, left to right. Each is
// '0'-'9', '-' or ' ' for an unlit position.
type Digits [4]byte

// Blank is the display with nothing lit.
var Blank = Digits{' ', ' ', ' ', ' '}

func (d Digits) String() string {
	return string(d[:])
}

// Display is the output side of the device: the light and the 4-digit
// display. Implementations talk to the hardware.
type Display interface {
	SetColor(c RGB) error
	SetDigits(d Digits) error
	Clear() error
}

// LevelDigits renders a level right-aligned with leading zeros. Levels beyond
// four digits keep their low four digits; negative levels lead with '-'.
func LevelDigits(l AlertLevel) Digits {
	v := int64(l)
	width := 4
	var d Digits

	if v < 0 {
		d[0] = '-'
		v = -v
		width = 3
	}

	s := strconv.FormatInt(v, 10)
	if len(s) > width {
		s = s[len(s)-width:]
	}

	off := len(d) - width
	for i := 0; i < width; i++ {
		d[off+i] = '0'
	}
	copy(d[len(d)-len(s):], s)
	return d
}

// DateDigits renders a date code character by character. Anything that is not
// a decimal digit is left unlit.
func DateDigits(date string) Digits {
	d := Blank
	for i := 0; i < len(d) && i < len(date); i++ {
		if c := date[i]; c >= '0' && c <= '9' {
			d[i] = c
		}
	}
	return d
}
