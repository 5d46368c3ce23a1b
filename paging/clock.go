package paging

// ClockGenerator simulates the Clock (second chance) replacement algorithm.
// Frames form a circle with a hand pointing at the next candidate. Every
// resident page has a reference bit that is set whenever the page is loaded
// or hit. When a victim is needed the hand sweeps forward: a set bit is
// cleared and the page is spared for one more lap, a clear bit marks the
// victim.
//
// The sweep terminates within 2*frames probes: after one full lap every bit
// the hand passed has been cleared.
type ClockGenerator struct{}

// NewClockGenerator creates a new Clock generator
func NewClockGenerator() *ClockGenerator {
	return &ClockGenerator{}
}

// Policy returns Clock
func (g *ClockGenerator) Policy() Policy {
	return Clock
}

// Generate simulates Clock replacement over refs
func (g *ClockGenerator) Generate(refs []int, frameCount int) (*Trace, error) {
	if err := validateInput("ClockGenerator.Generate", refs, frameCount); err != nil {
		return nil, err
	}

	trace := newTrace(Clock, frameCount, len(refs))
	mem := newMemory(frameCount)
	bits := make([]uint8, frameCount)
	hand := 0

	for i, page := range refs {
		step := Step{Index: i, Page: page, Evicted: NoPage}
		probes := 0

		if slot := mem.find(page); slot >= 0 {
			step.Action = Hit
			step.Slot = slot
		} else if slot := mem.firstEmpty(); slot >= 0 {
			step.Action = Fault
			step.Slot = slot
			mem[slot] = page
		} else {
			for {
				probes++
				if bits[hand] == 0 {
					break
				}
				// Second chance
				bits[hand] = 0
				hand = (hand + 1) % frameCount
			}

			step.Action = Replacement
			step.Slot = hand
			step.Evicted = mem[hand]
			mem[hand] = page
			hand = (hand + 1) % frameCount
		}
		bits[step.Slot] = 1

		step.Frames = mem.snapshot()
		step.Aux = ClockState{
			Hand:   hand,
			Bits:   append([]uint8(nil), bits...),
			Probes: probes,
		}
		trace.Steps = append(trace.Steps, step)
	}

	return trace, nil
}
