package indicator

// DateLen is the only accepted length of a date code (MMDD).
const DateLen = 4

// InitialDate is stored until a valid date has been received.
const InitialDate = "0000"

// State is what the device remembers between commands.
type State struct {
	Level AlertLevel
	Date  string
}

// NewState returns the power-on state.
func NewState() State {
	return State{Level: LevelOff, Date: InitialDate}
}

// Apply folds a command into the state and reports whether the date changed.
// A date of the wrong length leaves the previous one in place.
func (s *State) Apply(cmd Command) (dateChanged bool) {
	switch cmd.Kind {
	case LevelUpdate:
		s.Level = cmd.Level
		if cmd.HasDate && len(cmd.Date) == DateLen && cmd.Date != s.Date {
			s.Date = cmd.Date
			return true
		}
	case Clear:
		s.Level = LevelOff
	}

	return false
}
