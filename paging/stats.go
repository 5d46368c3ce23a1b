package paging

import (
	"log/slog"
	"sort"
)

// Tally counts step outcomes
type Tally struct {
	Hits         int
	Faults       int
	Replacements int
}

// Add records one step outcome
func (t *Tally) Add(a Action) {
	switch a {
	case Hit:
		t.Hits++
	case Fault:
		t.Faults++
	case Replacement:
		t.Replacements++
	}
}

// Total returns the number of steps counted
func (t Tally) Total() int {
	return t.Hits + t.Faults + t.Replacements
}

// Misses returns the number of page faults, replacements included
func (t Tally) Misses() int {
	return t.Faults + t.Replacements
}

// HitRatio returns hits as a percentage of all references (0-100)
func (t Tally) HitRatio() float64 {
	total := t.Total()
	if total == 0 {
		return 0.0
	}
	return float64(t.Hits) / float64(total) * 100.0
}

// Tally returns the totals over the whole trace
func (tr *Trace) Tally() Tally {
	var t Tally
	for i := range tr.Steps {
		t.Add(tr.Steps[i].Action)
	}
	return t
}

// RunningTallies returns the tally after each step. Entry i covers steps
// 0 through i.
func (tr *Trace) RunningTallies() []Tally {
	out := make([]Tally, len(tr.Steps))
	var t Tally
	for i := range tr.Steps {
		t.Add(tr.Steps[i].Action)
		out[i] = t
	}
	return out
}

// Evictions counts how many times each page was evicted
func (tr *Trace) Evictions() map[int]int {
	out := make(map[int]int)
	for i := range tr.Steps {
		if tr.Steps[i].Action == Replacement {
			out[tr.Steps[i].Evicted]++
		}
	}
	return out
}

// Summary condenses a trace for side by side comparison
type Summary struct {
	Policy    Policy
	Frames    int
	Tally     Tally
	Evictions map[int]int
}

// Summarize builds a Summary of the trace
func (tr *Trace) Summarize() Summary {
	return Summary{
		Policy:    tr.Policy,
		Frames:    tr.Frames,
		Tally:     tr.Tally(),
		Evictions: tr.Evictions(),
	}
}

// MostEvicted returns the page evicted most often, lowest page on ties.
// ok is false when nothing was evicted.
func (s Summary) MostEvicted() (page, count int, ok bool) {
	pages := make([]int, 0, len(s.Evictions))
	for p := range s.Evictions {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	for _, p := range pages {
		if s.Evictions[p] > count {
			page, count, ok = p, s.Evictions[p], true
		}
	}
	return page, count, ok
}

// LogValue implements slog.LogValuer
func (tr *Trace) LogValue() slog.Value {
	t := tr.Tally()
	return slog.GroupValue(
		slog.String("policy", string(tr.Policy)),
		slog.Int("frames", tr.Frames),
		slog.Int("steps", tr.Len()),
		slog.Int("hits", t.Hits),
		slog.Int("faults", t.Faults),
		slog.Int("replacements", t.Replacements),
		slog.Float64("hit_ratio", t.HitRatio()),
	)
}

// LogTrace logs the trace totals using structured logging
func LogTrace(logger *slog.Logger, tr *Trace) {
	s := tr.Summarize()
	attrs := []any{slog.Any("trace", tr)}
	if page, count, ok := s.MostEvicted(); ok {
		attrs = append(attrs, slog.Group("most_evicted",
			slog.Int("page", page),
			slog.Int("count", count),
		))
	}
	logger.Info("Simulation finished", attrs...)
}
