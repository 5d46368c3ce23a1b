package paging

import "fmt"

// Compare runs every requested policy over the same input and returns one
// summary per policy, in the order given. With no policies it runs all four.
func Compare(refs []int, frameCount int, policies ...Policy) ([]Summary, error) {
	return compare(Generate, refs, frameCount, policies)
}

// Compare is like the package level Compare but serves traces from the memo
func (m *Memo) Compare(refs []int, frameCount int, policies ...Policy) ([]Summary, error) {
	return compare(m.Generate, refs, frameCount, policies)
}

func compare(generate func(Policy, []int, int) (*Trace, error), refs []int, frameCount int, policies []Policy) ([]Summary, error) {
	if len(policies) == 0 {
		policies = Policies
	}

	out := make([]Summary, 0, len(policies))
	for _, p := range policies {
		trace, err := generate(p, refs, frameCount)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", p, err)
		}
		out = append(out, trace.Summarize())
	}
	return out, nil
}
