package services

import (
	"testing"
	"time"
)

func TestTodayAtUsesLocationWallClock(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2024, time.March, 9, 20, 30, 0, 0, time.UTC)

	if got := TodayAt(now, tokyo); formatDay(got) != "2024-03-10" {
		t.Fatalf("expected Tokyo date 2024-03-10, got %s", formatDay(got))
	}
	if got := TodayAt(now, nil); formatDay(got) != "2024-03-09" {
		t.Fatalf("expected UTC date 2024-03-09 for nil location, got %s", formatDay(got))
	}
	if got := TodayAt(now, tokyo); got.Location() != time.UTC || got.Hour() != 0 {
		t.Fatalf("expected midnight UTC calendar day, got %v", got)
	}
}

func TestDaysBetweenIgnoresClockAndDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day different hours",
			from: time.Date(2024, time.January, 1, 1, 0, 0, 0, time.UTC),
			to:   time.Date(2024, time.January, 1, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "across spring DST change",
			from: time.Date(2024, time.March, 30, 12, 0, 0, 0, berlin),
			to:   time.Date(2024, time.April, 1, 0, 30, 0, 0, berlin),
			want: 2,
		},
		{
			name: "leap day",
			from: time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "centuries apart",
			from: time.Date(1700, time.January, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			want: 118338,
		},
		{
			name: "far future backwards",
			from: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
			to:   time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
			want: -3652058,
		},
		{
			name: "backwards",
			from: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
			want: -7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysBetween(tt.from, tt.to); got != tt.want {
				t.Fatalf("daysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClampDayAndRange(t *testing.T) {
	low := mustParseDay(t, "2024-01-05")
	high := mustParseDay(t, "2024-01-10")

	if got := clampDay(mustParseDay(t, "2024-01-01"), low, high); !got.Equal(low) {
		t.Fatalf("expected clamp to low bound, got %s", formatDay(got))
	}
	if got := clampDay(mustParseDay(t, "2024-01-20"), low, high); !got.Equal(high) {
		t.Fatalf("expected clamp to high bound, got %s", formatDay(got))
	}
	if !dayInRange(mustParseDay(t, "2024-01-10"), low, high) || dayInRange(mustParseDay(t, "2024-01-11"), low, high) {
		t.Fatal("expected dayInRange to be inclusive on both ends")
	}
	if got := addDays(time.Date(2024, time.January, 31, 18, 0, 0, 0, time.UTC), 1); formatDay(got) != "2024-02-01" || got.Hour() != 0 {
		t.Fatalf("expected addDays to return midnight 2024-02-01, got %v", got)
	}
}
