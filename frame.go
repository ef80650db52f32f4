package indicator

import (
	"fmt"
	"io"
	"time"
)

// DateFormat is the layout of a date code.
const DateFormat = "0102"

// FormatLevelUpdate builds the frame a host sends to report level on day t,
// e.g. "3_D1115\n".
func FormatLevelUpdate(level AlertLevel, t time.Time) string {
	return fmt.Sprintf("%d%cD%s\n", int(level), levelSeparator, t.Format(DateFormat))
}

// SendLevel writes one level update frame to w.
func SendLevel(w io.Writer, level AlertLevel, t time.Time) error {
	if _, err := io.WriteString(w, FormatLevelUpdate(level, t)); err != nil {
		return fmt.Errorf("writing level frame: %w", err)
	}
	return nil
}
