package sequence

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 15, 9, 30, 0, 0, time.UTC)
	}
}

func TestAllocator_Next(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		last   string
		found  bool
		want   string
		prefix string
	}{
		{name: "continues the year", year: 2025, last: "202500041", found: true, want: "202500042", prefix: "2025"},
		{name: "first of the year", year: 2025, found: false, want: "202500001", prefix: "2025"},
		{name: "unparsable remainder restarts", year: 2025, last: "2025ABCDE", found: true, want: "202500001", prefix: "2025"},
		{name: "past five digits", year: 2025, last: "202599999", found: true, want: "2025100000", prefix: "2025"},
		{name: "past five digits keeps counting", year: 2025, last: "2025100000", found: true, want: "2025100001", prefix: "2025"},
		{name: "new year", year: 2026, found: false, want: "202600001", prefix: "2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPrefix string
			finder := FinderFunc(func(_ context.Context, prefix string) (string, bool, error) {
				gotPrefix = prefix
				return tt.last, tt.found, nil
			})

			a := NewAllocator(finder, WithClock(fixedClock(tt.year)))
			got, err := a.Next(context.Background())
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next = %q, want %q", got, tt.want)
			}
			if gotPrefix != tt.prefix {
				t.Errorf("finder asked for prefix %q, want %q", gotPrefix, tt.prefix)
			}
		})
	}
}

func TestAllocator_UsesUTCYear(t *testing.T) {
	// 23:30 on Dec 31st in UTC-3 is already next year in UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	a := NewAllocator(FinderFunc(func(context.Context, string) (string, bool, error) {
		return "", false, nil
	}), WithClock(func() time.Time { return time.Date(2025, time.December, 31, 23, 30, 0, 0, loc) }))

	got, err := a.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got != "202600001" {
		t.Errorf("Next = %q, want 202600001", got)
	}
}

func TestAllocator_FinderErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	a := NewAllocator(FinderFunc(func(context.Context, string) (string, bool, error) {
		return "", false, boom
	}))

	if _, err := a.Next(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Next error = %v, want %v", err, boom)
	}
}

func TestAllocator_Reserve(t *testing.T) {
	finder := FinderFunc(func(context.Context, string) (string, bool, error) {
		return "202599998", true, nil
	})
	a := NewAllocator(finder, WithClock(fixedClock(2025)))

	got, err := a.Reserve(context.Background(), 3)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	want := []string{"202599999", "2025100000", "2025100001"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reserve = %v, want %v", got, want)
	}

	if got, err := a.Reserve(context.Background(), 0); err != nil || got != nil {
		t.Errorf("Reserve(0) = %v, %v", got, err)
	}

	boom := errors.New("boom")
	failing := NewAllocator(FinderFunc(func(context.Context, string) (string, bool, error) {
		return "", false, boom
	}))
	if _, err := failing.Reserve(context.Background(), 2); !errors.Is(err, boom) {
		t.Errorf("Reserve error = %v, want %v", err, boom)
	}
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		prefix string
		last   string
		found  bool
		want   int
	}{
		{"2025", "202500041", true, 42},
		{"2025", "", false, 1},
		{"2025", "202500041", false, 1},
		{"2025", "2025", true, 1},
		{"2025", "2025-0001", true, 1},
		{"2025", "202400099", true, 1},
	}
	for _, tt := range tests {
		if got := NextSequence(tt.prefix, tt.last, tt.found); got != tt.want {
			t.Errorf("NextSequence(%q, %q, %v) = %d, want %d", tt.prefix, tt.last, tt.found, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "202500001"},
		{42, "202500042"},
		{99999, "202599999"},
		{100000, "2025100000"},
	}
	for _, tt := range tests {
		if got := Format("2025", tt.seq); got != tt.want {
			t.Errorf("Format(2025, %d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}
