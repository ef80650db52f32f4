// Package monitor is the host side of the indicator: it checks SMART health
// on remote storage over SSH and reduces it to one alert level.
package monitor

import (
	"strings"

	"go.tigermatt.uk/indicator"
)

// HealthLevel classifies smartctl -H output. Order matters: connection
// failures and FAIL outrank everything, a PASSED verdict wins over stray
// ERROR text, and anything unexpected is treated as a notice.
func HealthLevel(output string) indicator.AlertLevel {
	out := strings.ToUpper(output)

	switch {
	case strings.Contains(out, "SSH ERROR"):
		return indicator.LevelAlert
	case strings.Contains(out, "FAIL"):
		return indicator.LevelAlert
	case strings.Contains(out, "ERROR"):
		if strings.Contains(out, "PASSED") {
			return indicator.LevelNormal
		}
		return indicator.LevelAlert
	case strings.Contains(out, "PASSED"):
		return indicator.LevelNormal
	case strings.Contains(out, "WARNING"), strings.Contains(out, "SELF-ASSESSMENT"):
		return indicator.LevelNotice
	}

	return indicator.LevelNotice
}
