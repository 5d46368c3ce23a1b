package paging

// LRUGenerator simulates Least Recently Used replacement
// Each frame carries an age: 0 for the frame touched by the current
// reference, growing by one for every later reference that touches another
// frame. The victim is the frame with the largest age.
type LRUGenerator struct{}

// NewLRUGenerator creates a new LRU generator
func NewLRUGenerator() *LRUGenerator {
	return &LRUGenerator{}
}

// Policy returns LRU
func (g *LRUGenerator) Policy() Policy {
	return LRU
}

// Generate simulates LRU replacement over refs
func (g *LRUGenerator) Generate(refs []int, frameCount int) (*Trace, error) {
	if err := validateInput("LRUGenerator.Generate", refs, frameCount); err != nil {
		return nil, err
	}

	trace := newTrace(LRU, frameCount, len(refs))
	mem := newMemory(frameCount)
	ages := make([]int, frameCount)

	for i, page := range refs {
		step := Step{Index: i, Page: page, Evicted: NoPage}
		hitSlot := mem.find(page)

		// Age everything resident except the frame being referenced
		for slot, p := range mem {
			if p != EmptySlot && slot != hitSlot {
				ages[slot]++
			}
		}

		if hitSlot >= 0 {
			step.Action = Hit
			step.Slot = hitSlot
		} else if slot := mem.firstEmpty(); slot >= 0 {
			step.Action = Fault
			step.Slot = slot
			mem[slot] = page
		} else {
			victim := oldest(ages)
			step.Action = Replacement
			step.Slot = victim
			step.Evicted = mem[victim]
			mem[victim] = page
		}
		ages[step.Slot] = 0

		step.Frames = mem.snapshot()
		step.Aux = LRUState{Ages: append([]int(nil), ages...)}
		trace.Steps = append(trace.Steps, step)
	}

	return trace, nil
}

// oldest returns the slot with the largest age, lowest index on ties
func oldest(ages []int) int {
	victim := 0
	for slot := 1; slot < len(ages); slot++ {
		if ages[slot] > ages[victim] {
			victim = slot
		}
	}
	return victim
}
