package paging

// Cursor scrubs through a finished trace. Running tallies are computed once
// up front so moving in either direction never re-simulates anything.
//
// A Cursor belongs to one viewer and is not safe for concurrent use. The
// trace it reads is never modified.
type Cursor struct {
	trace   *Trace
	tallies []Tally
	pos     int // -1 before the first step
}

// NewCursor creates a cursor positioned before the first step
func NewCursor(trace *Trace) *Cursor {
	return &Cursor{
		trace:   trace,
		tallies: trace.RunningTallies(),
		pos:     -1,
	}
}

// Trace returns the trace being replayed
func (c *Cursor) Trace() *Trace {
	return c.trace
}

// Position returns the current step index, -1 before the first step
func (c *Cursor) Position() int {
	return c.pos
}

// Step returns the current step, or nil before the first step
func (c *Cursor) Step() *Step {
	if c.pos < 0 {
		return nil
	}
	return &c.trace.Steps[c.pos]
}

// Next advances one step. It returns false at the end of the trace.
func (c *Cursor) Next() bool {
	if c.pos+1 >= c.trace.Len() {
		return false
	}
	c.pos++
	return true
}

// Prev moves back one step. It returns false when already before the
// first step.
func (c *Cursor) Prev() bool {
	if c.pos < 0 {
		return false
	}
	c.pos--
	return true
}

// Seek jumps to step i
func (c *Cursor) Seek(i int) error {
	if i < 0 || i >= c.trace.Len() {
		return errInvalidStep("Cursor.Seek", i, c.trace.Len())
	}
	c.pos = i
	return nil
}

// Reset moves the cursor back before the first step
func (c *Cursor) Reset() {
	c.pos = -1
}

// Done reports whether the cursor is on the last step
func (c *Cursor) Done() bool {
	return c.pos == c.trace.Len()-1
}

// Tally returns the running tally up to and including the current step
func (c *Cursor) Tally() Tally {
	if c.pos < 0 {
		return Tally{}
	}
	return c.tallies[c.pos]
}
