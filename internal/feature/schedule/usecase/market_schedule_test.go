package usecase

import (
	"testing"
	"time"
)

// Instants for a known week: 2024-01-10 is a Wednesday, 2024-01-13 a
// Saturday.
func wednesdayAt(hour int) time.Time {
	return time.Date(2024, 1, 10, hour, 0, 0, 0, time.UTC)
}

func TestMarketSchedule_Windows(t *testing.T) {
	s := NewMarketSchedule()

	testCases := []struct {
		name string
		pred func(time.Time) bool
		at   time.Time
		want bool
	}{
		{name: "market open on Saturday 10:00", pred: s.IsMarketOpen, at: time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC), want: false},
		{name: "market open on Wednesday 10:00", pred: s.IsMarketOpen, at: wednesdayAt(10), want: true},
		{name: "market open on Wednesday 8:00", pred: s.IsMarketOpen, at: wednesdayAt(8), want: false},
		{name: "market open at open boundary", pred: s.IsMarketOpen, at: wednesdayAt(9), want: true},
		{name: "market open at close boundary", pred: s.IsMarketOpen, at: wednesdayAt(16), want: false},
		{name: "pre-market on Wednesday 6:00", pred: s.IsPreMarket, at: wednesdayAt(6), want: true},
		{name: "pre-market on Wednesday 3:00", pred: s.IsPreMarket, at: wednesdayAt(3), want: false},
		{name: "pre-market during session", pred: s.IsPreMarket, at: wednesdayAt(10), want: false},
		{name: "after-hours on Wednesday 17:00", pred: s.IsAfterHours, at: wednesdayAt(17), want: true},
		{name: "after-hours on Wednesday 21:00", pred: s.IsAfterHours, at: wednesdayAt(21), want: false},
		{name: "after-hours on Saturday 17:00", pred: s.IsAfterHours, at: time.Date(2024, 1, 13, 17, 0, 0, 0, time.UTC), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pred(tc.at); got != tc.want {
				t.Errorf("predicate at %v = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestMarketSchedule_NextMarketOpen(t *testing.T) {
	s := NewMarketSchedule()

	testCases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "Friday 20:00 skips the weekend",
			now:  time.Date(2024, 1, 12, 20, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "before open on a trading day stays on that day",
			now:  wednesdayAt(7),
			want: wednesdayAt(9),
		},
		{
			name: "during the session moves to the next day",
			now:  wednesdayAt(10),
			want: time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "Saturday moves to Monday",
			now:  time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.NextMarketOpen(tc.now); !got.Equal(tc.want) {
				t.Errorf("NextMarketOpen(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestMarketSchedule_NextMarketClose(t *testing.T) {
	s := NewMarketSchedule()

	now := wednesdayAt(10)
	want := wednesdayAt(16)
	if got := s.NextMarketClose(now); !got.Equal(want) {
		t.Errorf("NextMarketClose(%v) = %v, want %v", now, got, want)
	}

	// After close the next close is Thursday's.
	now = wednesdayAt(17)
	want = time.Date(2024, 1, 11, 16, 0, 0, 0, time.UTC)
	if got := s.NextMarketClose(now); !got.Equal(want) {
		t.Errorf("NextMarketClose(%v) = %v, want %v", now, got, want)
	}
}
