package paging

import "strings"

// Policy names a page replacement algorithm
type Policy string

const (
	FIFO    Policy = "fifo"
	LRU     Policy = "lru"
	Optimal Policy = "optimal"
	Clock   Policy = "clock"
)

// Policies lists every supported policy in display order
var Policies = []Policy{FIFO, LRU, Optimal, Clock}

// Generator interface for trace generation policies
// Allows different algorithms (FIFO, LRU, Optimal, Clock)
type Generator interface {
	// Policy returns the algorithm this generator simulates
	Policy() Policy

	// Generate simulates the policy over refs with frameCount frames and
	// returns one step per reference
	Generate(refs []int, frameCount int) (*Trace, error)
}

// ParsePolicy resolves a policy name, ignoring case and surrounding space
func ParsePolicy(name string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case FIFO, LRU, Optimal, Clock:
		return p, nil
	case "opt":
		return Optimal, nil
	case "second-chance":
		return Clock, nil
	}
	return "", errUnknownPolicy("ParsePolicy", name)
}

// NewGenerator creates a generator for the specified policy
func NewGenerator(policy Policy) (Generator, error) {
	switch policy {
	case FIFO:
		return NewFIFOGenerator(), nil
	case LRU:
		return NewLRUGenerator(), nil
	case Optimal:
		return NewOptimalGenerator(), nil
	case Clock:
		return NewClockGenerator(), nil
	default:
		return nil, errUnknownPolicy("NewGenerator", string(policy))
	}
}

// Generate runs a single policy over refs
func Generate(policy Policy, refs []int, frameCount int) (*Trace, error) {
	g, err := NewGenerator(policy)
	if err != nil {
		return nil, err
	}
	return g.Generate(refs, frameCount)
}

func validateInput(op string, refs []int, frameCount int) error {
	if frameCount < 1 {
		return errInvalidFrameCount(op, frameCount)
	}
	for i, page := range refs {
		if page < 0 {
			return errInvalidReference(op, i, page)
		}
	}
	return nil
}
