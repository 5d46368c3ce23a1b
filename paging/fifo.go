package paging

// FIFOGenerator simulates First-In First-Out replacement.
// A single pointer walks the frames in load order: the frame it points at
// holds the oldest page and is the next victim. The pointer only moves when
// a replacement happens, so loading into empty frames leaves it at 0.
type FIFOGenerator struct{}

// NewFIFOGenerator creates a new FIFO generator
func NewFIFOGenerator() *FIFOGenerator {
	return &FIFOGenerator{}
}

// Policy returns FIFO
func (g *FIFOGenerator) Policy() Policy {
	return FIFO
}

// Generate simulates FIFO replacement over refs
func (g *FIFOGenerator) Generate(refs []int, frameCount int) (*Trace, error) {
	if err := validateInput("FIFOGenerator.Generate", refs, frameCount); err != nil {
		return nil, err
	}

	trace := newTrace(FIFO, frameCount, len(refs))
	mem := newMemory(frameCount)
	pointer := 0

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
			step.Action = Replacement
			step.Slot = pointer
			step.Evicted = mem[pointer]
			mem[pointer] = page
			pointer = (pointer + 1) % frameCount
		}

		step.Frames = mem.snapshot()
		step.Aux = FIFOState{Pointer: pointer}
		trace.Steps = append(trace.Steps, step)
	}

	return trace, nil
}
