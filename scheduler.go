package indicator

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDwell is how long a level stays on the display before the date
// comes back.
const DefaultDwell = 1500 * time.Millisecond

// Phase is what the numeric display is currently committed to.
type Phase int

const (
	ShowingDate Phase = iota
	TransientLevel
)

func (p Phase) String() string {
	if p == TransientLevel {
		return "transient-level"
	}
	return "showing-date"
}

// Scheduler sequences the outputs: a level update shows the level for Dwell
// and then falls back to the stored date. It never sleeps; the owner calls
// Service whenever the deadline may have passed.
type Scheduler struct {
	Out           Display
	Dwell         time.Duration
	MaxBrightness uint8

	phase    Phase
	deadline time.Time
	blank    bool
}

// NewScheduler returns a scheduler in ShowingDate with the display marked
// blank. Call Start to push that to the hardware.
func NewScheduler(out Display, dwell time.Duration, maxBrightness uint8) *Scheduler {
	if dwell <= 0 {
		dwell = DefaultDwell
	}
	return &Scheduler{
		Out:           out,
		Dwell:         dwell,
		MaxBrightness: maxBrightness,
		blank:         true,
	}
}

// Start puts the outputs into their power-on state.
func (s *Scheduler) Start() error {
	return s.blankOut()
}

// Phase returns the current phase.
func (s *Scheduler) Phase() Phase {
	return s.phase
}

// Deadline returns when the transient level expires, if one is showing.
func (s *Scheduler) Deadline() (time.Time, bool) {
	if s.phase != TransientLevel {
		return time.Time{}, false
	}
	return s.deadline, true
}

// Dispatch applies the display side of a command that has already been folded
// into st.
func (s *Scheduler) Dispatch(cmd Command, st *State, now time.Time) error {
	switch cmd.Kind {
	case LevelUpdate:
		s.phase = TransientLevel
		s.deadline = now.Add(s.Dwell)
		s.blank = false

		return errors.Join(
			s.wrap("set color", s.Out.SetColor(Color(st.Level, s.MaxBrightness))),
			s.wrap("show level", s.Out.SetDigits(LevelDigits(st.Level))),
		)
	case Clear:
		return s.blankOut()
	}

	return nil
}

// Service moves back to the date once the dwell is over. It reports whether
// the display changed.
func (s *Scheduler) Service(st *State, now time.Time) (bool, error) {
	if s.phase != TransientLevel || now.Before(s.deadline) {
		return false, nil
	}

	s.phase = ShowingDate
	s.deadline = time.Time{}
	return true, s.wrap("show date", s.Out.SetDigits(DateDigits(st.Date)))
}

func (s *Scheduler) blankOut() error {
	s.phase = ShowingDate
	s.deadline = time.Time{}
	s.blank = true

	return errors.Join(
		s.wrap("clear display", s.Out.Clear()),
		s.wrap("set color", s.Out.SetColor(Off)),
	)
}

func (s *Scheduler) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("while trying to %s: %w", op, err)
}
