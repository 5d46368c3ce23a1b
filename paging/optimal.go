package paging

// OptimalGenerator simulates Belady's optimal replacement.
// On a replacement it looks ahead through the rest of the reference
// sequence and evicts the page whose next use is furthest away, or a page
// that is never used again. No real system can do this; it is the lower
// bound every other policy is measured against.
type OptimalGenerator struct{}

// NewOptimalGenerator creates a new Optimal generator
func NewOptimalGenerator() *OptimalGenerator {
	return &OptimalGenerator{}
}

// Policy returns Optimal
func (g *OptimalGenerator) Policy() Policy {
	return Optimal
}

// Generate simulates optimal replacement over refs
func (g *OptimalGenerator) Generate(refs []int, frameCount int) (*Trace, error) {
	if err := validateInput("OptimalGenerator.Generate", refs, frameCount); err != nil {
		return nil, err
	}

	trace := newTrace(Optimal, frameCount, len(refs))
	mem := newMemory(frameCount)

	for i, page := range refs {
		step := Step{Index: i, Page: page, Evicted: NoPage}

		if slot := mem.find(page); slot >= 0 {
			step.Action = Hit
			step.Slot = slot
		} else if slot := mem.firstEmpty(); slot >= 0 {
			step.Action = Fault
			step.Slot = slot
			mem[slot] = page
		} else {
			victim := furthestNextUse(mem, refs, i+1)
			step.Action = Replacement
			step.Slot = victim
			step.Evicted = mem[victim]
			mem[victim] = page
		}

		step.Frames = mem.snapshot()
		trace.Steps = append(trace.Steps, step)
	}

	return trace, nil
}

// furthestNextUse picks the victim slot given the references still to come
// starting at from. The first slot whose page never recurs wins outright;
// otherwise the strictly furthest next use wins and ties keep the earlier slot.
func furthestNextUse(mem memory, refs []int, from int) int {
	victim, furthest := 0, -1

	for slot, page := range mem {
		next := -1
		for j := from; j < len(refs); j++ {
			if refs[j] == page {
				next = j
				break
			}
		}

		if next < 0 {
			return slot
		}
		if next > furthest {
			victim, furthest = slot, next
		}
	}

	return victim
}
