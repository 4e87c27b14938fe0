package schedule

// Latch remembers that a level condition has been announced, so that it
// fires once per window of being true rather than on every report.
// The zero value is an open latch. A Latch is not safe for concurrent use;
// the owner guards it.
type Latch struct {
	set bool
}

// Update feeds the current condition and reports whether to fire.
// Rising edge sets the latch and fires; falling edge resets it silently.
func (l *Latch) Update(cond bool) bool {
	switch {
	case cond && !l.set:
		l.set = true
		return true
	case !cond && l.set:
		l.set = false
	}
	return false
}

// Reset opens the latch, e.g. when a new match starts.
func (l *Latch) Reset() { l.set = false }
