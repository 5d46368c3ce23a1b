package paging

import "slices"

const (
	// EmptySlot marks a frame that holds no page
	EmptySlot = -1

	// NoPage is the Evicted value of steps that did not evict anything
	NoPage = -1
)

// Action is the outcome of processing one reference
type Action uint8

const (
	Hit         Action = iota // Page already resident
	Fault                     // Page loaded into an empty frame
	Replacement               // Page loaded over an evicted victim
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "HIT"
	case Fault:
		return "FAULT"
	case Replacement:
		return "REPLACEMENT"
	default:
		return "UNKNOWN"
	}
}

// IsMiss reports whether the page had to be loaded
func (a Action) IsMiss() bool {
	return a == Fault || a == Replacement
}

// AuxState is the policy-specific bookkeeping captured with each step.
// Implementations are FIFOState, LRUState and ClockState. Optimal steps
// carry no auxiliary state.
type AuxState interface {
	policy() Policy
}

// FIFOState records where the next replacement will land
type FIFOState struct {
	Pointer int
}

func (FIFOState) policy() Policy { return FIFO }

// LRUState holds one age per frame, 0 being the most recently touched
type LRUState struct {
	Ages []int
}

func (LRUState) policy() Policy { return LRU }

// ClockState holds the reference bits and the hand position. Probes is the
// number of frames the hand examined to pick a victim, zero unless the step
// was a replacement.
type ClockState struct {
	Hand   int
	Bits   []uint8
	Probes int
}

func (ClockState) policy() Policy { return Clock }

// Step is the record of one processed reference. A step never changes once
// it has been appended to a trace.
type Step struct {
	Index   int    // Position of the reference in the sequence
	Page    int    // Referenced page
	Action  Action // Outcome
	Frames  []int  // Memory after this step, EmptySlot for unused frames
	Slot    int    // Frame that held, received or lost a page
	Evicted int    // Evicted page, NoPage unless Action is Replacement
	Aux     AuxState
}

// Occupied returns the number of non-empty frames after the step
func (s *Step) Occupied() int {
	n := 0
	for _, p := range s.Frames {
		if p != EmptySlot {
			n++
		}
	}
	return n
}

// Trace is the full output of one simulation run
type Trace struct {
	Policy Policy
	Frames int
	Steps  []Step
}

func newTrace(policy Policy, frames, length int) *Trace {
	return &Trace{
		Policy: policy,
		Frames: frames,
		Steps:  make([]Step, 0, length),
	}
}

// Len returns the number of steps
func (t *Trace) Len() int {
	return len(t.Steps)
}

// References returns the reference sequence the trace was generated from
func (t *Trace) References() []int {
	refs := make([]int, len(t.Steps))
	for i := range t.Steps {
		refs[i] = t.Steps[i].Page
	}
	return refs
}

// Equal reports whether two traces record the same run step for step
func (t *Trace) Equal(other *Trace) bool {
	if t.Policy != other.Policy || t.Frames != other.Frames || len(t.Steps) != len(other.Steps) {
		return false
	}
	for i := range t.Steps {
		if !t.Steps[i].equal(&other.Steps[i]) {
			return false
		}
	}
	return true
}

func (s *Step) equal(o *Step) bool {
	if s.Index != o.Index || s.Page != o.Page || s.Action != o.Action ||
		s.Slot != o.Slot || s.Evicted != o.Evicted || !slices.Equal(s.Frames, o.Frames) {
		return false
	}

	switch a := s.Aux.(type) {
	case nil:
		return o.Aux == nil
	case FIFOState:
		b, ok := o.Aux.(FIFOState)
		return ok && a == b
	case LRUState:
		b, ok := o.Aux.(LRUState)
		return ok && slices.Equal(a.Ages, b.Ages)
	case ClockState:
		b, ok := o.Aux.(ClockState)
		return ok && a.Hand == b.Hand && a.Probes == b.Probes && slices.Equal(a.Bits, b.Bits)
	default:
		return false
	}
}
