package cache

import (
	"sort"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// EpochStore keeps the current epoch of every tag.
// Counters are created by the first Advance and live for the process lifetime.
type EpochStore struct {
	epochs *xsync.MapOf[string, *atomic.Uint64]
}

// NewEpochStore creates an empty epoch store.
func NewEpochStore() *EpochStore {
	return &EpochStore{epochs: xsync.NewMapOf[string, *atomic.Uint64]()}
}

func (s *EpochStore) counter(tag string) *atomic.Uint64 {
	c, _ := s.epochs.LoadOrCompute(tag, func() *atomic.Uint64 {
		return new(atomic.Uint64)
	})
	return c
}

// Current returns the epoch entries written now would be bound to. A tag
// that was never advanced is at epoch 0; reading it creates no state.
func (s *EpochStore) Current(tag string) uint64 {
	c, ok := s.epochs.Load(tag)
	if !ok {
		return 0
	}
	return c.Load()
}

// Advance moves the tag to a new epoch and returns it.
func (s *EpochStore) Advance(tag string) uint64 {
	return s.counter(tag).Add(1)
}

// Tags returns every tag seen so far, sorted.
func (s *EpochStore) Tags() []string {
	tags := make([]string, 0, s.epochs.Size())
	s.epochs.Range(func(tag string, _ *atomic.Uint64) bool {
		tags = append(tags, tag)
		return true
	})
	sort.Strings(tags)
	return tags
}
