package paging

// memory is the frame table shared by every generator
type memory []int

func newMemory(frameCount int) memory {
	m := make(memory, frameCount)
	for i := range m {
		m[i] = EmptySlot
	}
	return m
}

// find returns the slot holding page, or -1
func (m memory) find(page int) int {
	for i, p := range m {
		if p == page {
			return i
		}
	}
	return -1
}

// firstEmpty returns the lowest empty slot, or -1 when memory is full
func (m memory) firstEmpty() int {
	return m.find(EmptySlot)
}

func (m memory) snapshot() []int {
	out := make([]int, len(m))
	copy(out, m)
	return out
}
