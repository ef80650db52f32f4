// Package indicator drives a storage alert indicator: a tri-colour light and a
// 4-digit display fed by a line-oriented serial protocol.
package indicator

import "strconv"

// AlertLevel is the severity carried by a level update. Values outside the
// known set are kept as-is so the display can show them literally.
type AlertLevel int

const (
	LevelOff AlertLevel = iota
	LevelNormal
	LevelNotice
	LevelAlert
)

// Known reports whether l is one of the defined levels.
func (l AlertLevel) Known() bool {
	return l >= LevelOff && l <= LevelAlert
}

func (l AlertLevel) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelNotice:
		return "notice"
	case LevelAlert:
		return "alert"
	default:
		return "unknown(" + strconv.Itoa(int(l)) + ")"
	}
}

// RGB is a colour on a 0-255 scale per channel.
type RGB struct {
	R, G, B uint8
}

// Off is the colour of a dark light.
var Off = RGB{}

// DefaultMaxBrightness leaves the palette uncapped.
const DefaultMaxBrightness = 255

// Color maps a level to the light colour. Every channel of a lit colour is
// capped at limit, so Notice and Alert dim along with Normal; at the default
// limit the palette is 0/255/0, 255/100/0 and 255/0/0.
func Color(l AlertLevel, limit uint8) RGB {
	var c RGB
	switch l {
	case LevelNormal:
		c = RGB{0, 255, 0}
	case LevelNotice:
		c = RGB{255, 100, 0}
	case LevelAlert:
		c = RGB{255, 0, 0}
	default:
		return Off
	}

	return RGB{R: capAt(c.R, limit), G: capAt(c.G, limit), B: capAt(c.B, limit)}
}

func capAt(v, limit uint8) uint8 {
	if v > limit {
		return limit
	}
	return v
}
