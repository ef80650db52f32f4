// Package driver has Display implementations that do not need the indicator
// hardware: one reports every output change to the log, the other prints a
// timeline for offline replay.
package driver

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"go.tigermatt.uk/indicator"
)

// Log reports output changes through zap. Unchanged writes are not repeated.
type Log struct {
	log *zap.SugaredLogger

	mu        sync.Mutex
	color     indicator.RGB
	digits    indicator.Digits
	colorSet  bool
	digitsSet bool
}

func NewLog(log *zap.SugaredLogger) *Log {
	return &Log{log: log}
}

func (l *Log) SetColor(c indicator.RGB) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.colorSet && c == l.color {
		return nil
	}
	l.color, l.colorSet = c, true
	l.log.Infow("light", "r", c.R, "g", c.G, "b", c.B)
	return nil
}

func (l *Log) SetDigits(d indicator.Digits) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.digitsSet && d == l.digits {
		return nil
	}
	l.digits, l.digitsSet = d, true
	l.log.Infow("display", "digits", fmt.Sprintf("[%s]", d))
	return nil
}

func (l *Log) Clear() error {
	return l.SetDigits(indicator.Blank)
}

// Timeline prints one line per output call, stamped with the time Clock
// returns.
type Timeline struct {
	W     io.Writer
	Clock func() time.Time
}

func (t *Timeline) SetColor(c indicator.RGB) error {
	return t.printf("light   #%02X%02X%02X", c.R, c.G, c.B)
}

func (t *Timeline) SetDigits(d indicator.Digits) error {
	return t.printf("display [%s]", d)
}

func (t *Timeline) Clear() error {
	return t.printf("display [%s]", indicator.Blank)
}

func (t *Timeline) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(t.W, "%s: %s\n", t.Clock().Format("15:04:05.000"), fmt.Sprintf(format, args...))
	return err
}
