package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sibexico/PageTrace/paging"
)

const (
	defaultWidth = 80
	labelWidth   = 9
)

// actionSymbol is the single-letter code used in table cells
func actionSymbol(a paging.Action) string {
	switch a {
	case paging.Hit:
		return "H"
	case paging.Fault:
		return "F"
	case paging.Replacement:
		return "R"
	default:
		return "?"
	}
}

func pageCell(page int) string {
	if page == paging.EmptySlot {
		return "."
	}
	return strconv.Itoa(page)
}

// tableRows lays a trace out as labelled rows of cells, one cell per step
func tableRows(trace *paging.Trace) (labels []string, rows [][]string) {
	n := trace.Len()
	add := func(label string, cell func(s *paging.Step) string) {
		row := make([]string, n)
		for i := range trace.Steps {
			row[i] = cell(&trace.Steps[i])
		}
		labels = append(labels, label)
		rows = append(rows, row)
	}

	add("Step", func(s *paging.Step) string { return strconv.Itoa(s.Index) })
	add("Ref", func(s *paging.Step) string { return strconv.Itoa(s.Page) })
	for f := 0; f < trace.Frames; f++ {
		add(fmt.Sprintf("Frame %d", f), func(s *paging.Step) string {
			if f >= len(s.Frames) {
				return "?"
			}
			return pageCell(s.Frames[f])
		})
	}
	add("Result", func(s *paging.Step) string { return actionSymbol(s.Action) })
	add("Evicted", func(s *paging.Step) string {
		if s.Action != paging.Replacement {
			return "-"
		}
		return strconv.Itoa(s.Evicted)
	})

	switch trace.Policy {
	case paging.FIFO:
		add("Pointer", func(s *paging.Step) string {
			if st, ok := s.Aux.(paging.FIFOState); ok {
				return strconv.Itoa(st.Pointer)
			}
			return "?"
		})
	case paging.LRU:
		for f := 0; f < trace.Frames; f++ {
			add(fmt.Sprintf("Age %d", f), func(s *paging.Step) string {
				if st, ok := s.Aux.(paging.LRUState); ok && f < len(st.Ages) {
					return strconv.Itoa(st.Ages[f])
				}
				return "?"
			})
		}
	case paging.Clock:
		add("Hand", func(s *paging.Step) string {
			if st, ok := s.Aux.(paging.ClockState); ok {
				return strconv.Itoa(st.Hand)
			}
			return "?"
		})
		add("Bits", func(s *paging.Step) string {
			if st, ok := s.Aux.(paging.ClockState); ok {
				return bitString(st.Bits)
			}
			return "?"
		})
	}

	return labels, rows
}

// RenderTable writes the trace as a table with one column per step,
// wrapping into blocks that fit width.
func RenderTable(w io.Writer, trace *paging.Trace, width int) {
	fmt.Fprintf(w, "%s, %d frames, %d references\n", strings.ToUpper(string(trace.Policy)), trace.Frames, trace.Len())
	if trace.Len() == 0 {
		return
	}

	labels, rows := tableRows(trace)

	cellWidth := 1
	for _, row := range rows {
		for _, c := range row {
			cellWidth = max(cellWidth, len(c))
		}
	}
	cellWidth++

	perBlock := max(1, (width-labelWidth)/cellWidth)
	for start := 0; start < trace.Len(); start += perBlock {
		end := min(start+perBlock, trace.Len())
		fmt.Fprintln(w)
		for r, row := range rows {
			fmt.Fprintf(w, "%-*s", labelWidth, labels[r])
			for _, c := range row[start:end] {
				fmt.Fprintf(w, "%*s", cellWidth, c)
			}
			fmt.Fprintln(w)
		}
	}
}

// RenderTally writes totals and the hit ratio
func RenderTally(w io.Writer, t paging.Tally) {
	fmt.Fprintf(w, "\nHits: %d  Faults: %d  Replacements: %d  Hit ratio: %.2f%%\n",
		t.Hits, t.Faults, t.Replacements, t.HitRatio())
}

// RenderStep writes the state of a single step in detail
func RenderStep(w io.Writer, trace *paging.Trace, s *paging.Step, running paging.Tally) {
	fmt.Fprintf(w, "Step %d of %d: reference %d, %s\n", s.Index, trace.Len()-1, s.Page, s.Action)

	cells := make([]string, len(s.Frames))
	for i, p := range s.Frames {
		cells[i] = pageCell(p)
	}
	fmt.Fprintf(w, "Frames: [%s]\n", strings.Join(cells, " "))

	switch s.Action {
	case paging.Hit:
		fmt.Fprintf(w, "Found in frame %d\n", s.Slot)
	case paging.Fault:
		fmt.Fprintf(w, "Loaded into empty frame %d\n", s.Slot)
	case paging.Replacement:
		fmt.Fprintf(w, "Evicted page %d from frame %d\n", s.Evicted, s.Slot)
	}

	if aux := auxString(s.Aux); aux != "" {
		fmt.Fprintf(w, "State: %s\n", aux)
	}
	fmt.Fprintf(w, "Running: %d hits, %d misses, hit ratio %.2f%%\n",
		running.Hits, running.Misses(), running.HitRatio())
}

// RenderComparison writes one line per policy
func RenderComparison(w io.Writer, summaries []paging.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Policy\tHits\tFaults\tReplacements\tMisses\tHit ratio\tMost evicted\t")
	for _, s := range summaries {
		most := "-"
		if page, count, ok := s.MostEvicted(); ok {
			most = fmt.Sprintf("%d (x%d)", page, count)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.2f%%\t%s\t\n",
			s.Policy, s.Tally.Hits, s.Tally.Faults, s.Tally.Replacements,
			s.Tally.Misses(), s.Tally.HitRatio(), most)
	}
	tw.Flush()
}
