// Package paging simulates classical page replacement policies.
//
// Each generator (FIFO, LRU, Optimal, Clock) takes a page reference sequence
// and a frame count and returns a Trace: one Step per reference recording the
// outcome, a copy of every frame, the evicted page and the policy's own
// bookkeeping at that instant. A trace is a self-contained value, so a viewer
// can move to any step in either direction without re-running the policy.
package paging
