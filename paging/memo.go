package paging

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"
)

const (
	MinMemoSize     = 8
	DefaultMemoSize = 64
)

// Memo caches generated traces in memory. Generation is deterministic, so a
// cached trace is indistinguishable from a fresh one. Cached traces are
// shared between callers and must not be modified.
//
// Memo is safe for concurrent use.
type Memo struct {
	mu     sync.Mutex
	lru    *freelru.LRU[uint64, memoEntry]
	logger *slog.Logger

	// Stats
	hits   atomic.Uint64
	misses atomic.Uint64
}

// memoEntry keeps the inputs next to the trace so that a key collision
// is detected instead of served
type memoEntry struct {
	policy Policy
	frames int
	refs   []int
	trace  *Trace
}

func (e memoEntry) matches(policy Policy, refs []int, frameCount int) bool {
	return e.policy == policy && e.frames == frameCount && slices.Equal(e.refs, refs)
}

// MemoStats is a point in time copy of the memo counters
type MemoStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// NewMemo creates a memo holding at most size traces
func NewMemo(size int, logger *slog.Logger) (*Memo, error) {
	size = max(size, MinMemoSize)
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	lru, err := freelru.New[uint64, memoEntry](uint32(size), hashFingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo cache: %w", err)
	}

	return &Memo{lru: lru, logger: logger}, nil
}

// Generate returns the cached trace for the inputs, generating it on a miss.
// Invalid inputs are never cached.
func (m *Memo) Generate(policy Policy, refs []int, frameCount int) (*Trace, error) {
	key := memoKey(policy, refs, frameCount)

	m.mu.Lock()
	entry, ok := m.lru.Get(key)
	m.mu.Unlock()
	if ok && entry.matches(policy, refs, frameCount) {
		m.hits.Add(1)
		m.logger.Debug("memo hit", slog.String("policy", string(policy)), slog.Uint64("key", key))
		return entry.trace, nil
	}
	if ok {
		m.logger.Warn("memo key collision", slog.String("policy", string(policy)), slog.Uint64("key", key))
	}
	m.misses.Add(1)

	trace, err := Generate(policy, refs, frameCount)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	entry = memoEntry{
		policy: policy,
		frames: frameCount,
		refs:   slices.Clone(refs),
		trace:  trace,
	}
	if evicted := m.lru.Add(key, entry); evicted {
		m.logger.Debug("memo evicted entry", slog.Int("entries", m.lru.Len()))
	}
	m.mu.Unlock()

	return trace, nil
}

// Stats returns the current memo counters
func (m *Memo) Stats() MemoStats {
	m.mu.Lock()
	entries := m.lru.Len()
	m.mu.Unlock()

	return MemoStats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Entries: entries,
	}
}

// Purge drops every cached trace
func (m *Memo) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Purge()
}

func memoKey(policy Policy, refs []int, frameCount int) uint64 {
	buf := make([]byte, 0, len(policy)+binary.MaxVarintLen64*(len(refs)+2))
	buf = append(buf, policy...)
	buf = append(buf, 0)
	buf = binary.AppendVarint(buf, int64(frameCount))
	for _, r := range refs {
		buf = binary.AppendVarint(buf, int64(r))
	}
	return xxhash.Sum64(buf)
}

func hashFingerprint(key uint64) uint32 {
	return uint32(key ^ (key >> 32))
}
