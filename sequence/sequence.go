// Package sequence allocates year-scoped protocol numbers of the form
// "{YYYY}{seq:05d}", for example "202500042".
//
// The allocator reads the greatest number issued for the current year and
// returns the next one. It takes no locks: two concurrent calls can produce
// the same number. Uniqueness is left to a unique index on the number column,
// and the caller retries with a fresh allocation when the insert conflicts.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Width is the zero padded width of the sequence part.
const Width = 5

// Finder looks up the greatest number already issued with prefix.
// found is false when no number carries the prefix.
type Finder interface {
	LastNumber(ctx context.Context, prefix string) (last string, found bool, err error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func(ctx context.Context, prefix string) (string, bool, error)

func (f FinderFunc) LastNumber(ctx context.Context, prefix string) (string, bool, error) {
	return f(ctx, prefix)
}

// Allocator produces the next protocol number.
type Allocator struct {
	finder Finder
	now    func() time.Time
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithClock overrides the clock used to derive the year prefix.
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAllocator creates an allocator backed by finder.
func NewAllocator(finder Finder, opts ...Option) *Allocator {
	a := &Allocator{finder: finder, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Prefix returns the UTC year of t as a four digit string.
func Prefix(t time.Time) string {
	return fmt.Sprintf("%04d", t.UTC().Year())
}

// Next returns the number following the greatest one issued this year.
// Finder errors are returned unchanged.
func (a *Allocator) Next(ctx context.Context) (string, error) {
	prefix := Prefix(a.now())

	last, found, err := a.finder.LastNumber(ctx, prefix)
	if err != nil {
		return "", err
	}
	return Format(prefix, NextSequence(prefix, last, found)), nil
}

// Reserve returns n consecutive numbers following the greatest one issued
// this year, for bulk inserts. Like Next it takes no locks.
func (a *Allocator) Reserve(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	prefix := Prefix(a.now())

	last, found, err := a.finder.LastNumber(ctx, prefix)
	if err != nil {
		return nil, err
	}

	seq := NextSequence(prefix, last, found)
	numbers := make([]string, n)
	for i := range numbers {
		numbers[i] = Format(prefix, seq+i)
	}
	return numbers, nil
}

// NextSequence derives the next sequence from the last issued number.
// It restarts at 1 when nothing was found or the remainder after prefix
// is not a number.
func NextSequence(prefix, last string, found bool) int {
	if !found || !strings.HasPrefix(last, prefix) {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}

// Format joins prefix and seq padded to Width digits.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, Width, seq)
}
