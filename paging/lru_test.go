package paging

import (
	"slices"
	"testing"
)

// TestLRUTextbook tests the textbook reference string with 3 frames
func TestLRUTextbook(t *testing.T) {
	trace, err := NewLRUGenerator().Generate([]int{7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2}, 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if got := trace.Tally().Misses(); got != 9 {
		t.Errorf("Expected 9 faults, got %d", got)
	}

	expectedEvicted := []int{NoPage, NoPage, NoPage, 7, NoPage, 1, NoPage, 2, 3, 0, 4, NoPage, NoPage}
	for i, s := range trace.Steps {
		if s.Evicted != expectedEvicted[i] {
			t.Errorf("Step %d: expected evicted %d, got %d", i, expectedEvicted[i], s.Evicted)
		}
	}

	last := trace.Steps[len(trace.Steps)-1]
	if !slices.Equal(last.Frames, []int{0, 3, 2}) {
		t.Errorf("Expected final frames [0 3 2], got %v", last.Frames)
	}
}

// TestLRUAges tests the age snapshot after every step
func TestLRUAges(t *testing.T) {
	trace, err := NewLRUGenerator().Generate([]int{7, 0, 1, 2, 0, 3, 0, 4}, 4)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	expected := [][]int{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{2, 1, 0, 0},
		{3, 2, 1, 0},
		{4, 0, 2, 1}, // hit on 0
		{0, 1, 3, 2}, // 3 replaces 7
		{1, 0, 4, 3}, // hit on 0
		{2, 1, 0, 4}, // 4 replaces 1
	}

	for i, s := range trace.Steps {
		aux, ok := s.Aux.(LRUState)
		if !ok {
			t.Fatalf("Step %d: expected LRUState, got %T", i, s.Aux)
		}
		if !slices.Equal(aux.Ages, expected[i]) {
			t.Errorf("Step %d: expected ages %v, got %v", i, expected[i], aux.Ages)
		}
	}
}

// TestLRUHitProtects tests that a recently hit page survives the next replacement
func TestLRUHitProtects(t *testing.T) {
	trace, err := NewLRUGenerator().Generate([]int{1, 2, 3, 1, 4}, 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	repl := trace.Steps[4]
	if repl.Action != Replacement {
		t.Fatalf("Expected REPLACEMENT, got %s", repl.Action)
	}
	if repl.Evicted != 2 || repl.Slot != 1 {
		t.Errorf("Expected page 2 evicted from slot 1, got page %d from slot %d", repl.Evicted, repl.Slot)
	}
}

// TestLRUSnapshotsAreCopies tests that later steps do not alter earlier snapshots
func TestLRUSnapshotsAreCopies(t *testing.T) {
	trace, err := NewLRUGenerator().Generate([]int{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	first := trace.Steps[0]
	if !slices.Equal(first.Frames, []int{1, EmptySlot}) {
		t.Errorf("First snapshot changed: %v", first.Frames)
	}
	if !slices.Equal(first.Aux.(LRUState).Ages, []int{0, 0}) {
		t.Errorf("First ages changed: %v", first.Aux.(LRUState).Ages)
	}
}
