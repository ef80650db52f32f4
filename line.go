package indicator

// DefaultMaxLine bounds a line when no other limit is configured. The longest
// valid frame is well under this.
const DefaultMaxLine = 64

// LineAssembler turns a byte stream into newline-terminated lines. Carriage
// returns are dropped. A line longer than Max is thrown away up to and
// including its terminating newline.
type LineAssembler struct {
	Max int

	buf      []byte
	skipping bool
	dropped  int
}

// Feed consumes one byte and returns a line once its newline arrives.
func (a *LineAssembler) Feed(b byte) (string, bool) {
	switch b {
	case '\r':
		return "", false
	case '\n':
		if a.skipping {
			a.skipping = false
			return "", false
		}
		line := string(a.buf)
		a.buf = a.buf[:0]
		return line, true
	}

	if a.skipping {
		return "", false
	}

	if len(a.buf) >= a.limit() {
		a.buf = a.buf[:0]
		a.skipping = true
		a.dropped++
		return "", false
	}

	a.buf = append(a.buf, b)
	return "", false
}

// Dropped is the number of over-long lines discarded so far.
func (a *LineAssembler) Dropped() int {
	return a.dropped
}

func (a *LineAssembler) limit() int {
	if a.Max <= 0 {
		return DefaultMaxLine
	}
	return a.Max
}
