package services

import (
	"context"
	"testing"
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
)

func twoCompletedPeriods(t *testing.T) (*periodRecordStoreStub, CycleHistory) {
	t.Helper()
	store := newPeriodRecordStoreStub()
	store.seedRun(t, "2024-01-01", "2024-01-05", 1)
	store.seedRun(t, "2024-01-29", "2024-02-02", 2)
	return store, loadHistory(t, store)
}

func findCalendarDayState(t *testing.T, days []CalendarDayState, key string) CalendarDayState {
	t.Helper()
	for _, day := range days {
		if day.DateString == key {
			return day
		}
	}
	t.Fatalf("day %s not found in calendar grid", key)
	return CalendarDayState{}
}

func TestCalendarGridIsMondayFirst(t *testing.T) {
	t.Parallel()

	cases := []struct {
		month     string
		wantStart string
		wantEnd   string
	}{
		{month: "2024-01-17", wantStart: "2024-01-01", wantEnd: "2024-02-04"},
		{month: "2024-02-01", wantStart: "2024-01-29", wantEnd: "2024-03-03"},
		{month: "2024-03-31", wantStart: "2024-02-26", wantEnd: "2024-03-31"},
	}
	for _, testCase := range cases {
		monthStart, gridStart, gridEnd := CalendarGrid(mustParseDay(t, testCase.month))
		if monthStart.Day() != 1 {
			t.Fatalf("%s: expected month start on day 1, got %s", testCase.month, formatDay(monthStart))
		}
		if got := formatDay(gridStart); got != testCase.wantStart {
			t.Fatalf("%s: expected grid start %s, got %s", testCase.month, testCase.wantStart, got)
		}
		if got := formatDay(gridEnd); got != testCase.wantEnd {
			t.Fatalf("%s: expected grid end %s, got %s", testCase.month, testCase.wantEnd, got)
		}
	}
}

func TestBuildCalendarDayStatesClassifiesObservedCycle(t *testing.T) {
	store, history := twoCompletedPeriods(t)
	records, _ := store.AllRecords(context.Background())
	now := time.Date(2024, time.January, 20, 22, 0, 0, 0, time.UTC)

	days := BuildCalendarDayStates(mustParseDay(t, "2024-01-01"), records, history, ClickState{}, now, time.UTC)
	if len(days) != 35 {
		t.Fatalf("expected 5 weeks for January 2024, got %d days", len(days))
	}

	start := findCalendarDayState(t, days, "2024-01-01")
	if !start.IsPeriod || start.RecordType != models.RecordTypeStart || start.GroupID != 1 {
		t.Fatalf("expected recorded START for group 1 on 2024-01-01, got %+v", start)
	}

	follicular := findCalendarDayState(t, days, "2024-01-10")
	if follicular.Phase != PhaseFollicular || follicular.IsPredicted {
		t.Fatalf("expected observed follicular day, got %+v", follicular)
	}

	ovulation := findCalendarDayState(t, days, "2024-01-15")
	if ovulation.Phase != PhaseOvulation || !ovulation.IsOvulationDay || ovulation.IsPredicted {
		t.Fatalf("expected observed ovulation day, got %+v", ovulation)
	}

	luteal := findCalendarDayState(t, days, "2024-01-25")
	if luteal.Phase != PhaseLuteal {
		t.Fatalf("expected luteal day, got %+v", luteal)
	}

	today := findCalendarDayState(t, days, "2024-01-20")
	if !today.IsToday {
		t.Fatalf("expected 2024-01-20 to be flagged as today")
	}

	spill := findCalendarDayState(t, days, "2024-02-03")
	if spill.InMonth || spill.Phase != PhaseFollicular || !spill.IsPredicted {
		t.Fatalf("expected trailing day to be a forecast follicular day outside the month, got %+v", spill)
	}
}

func TestBuildCalendarDayStatesUsesForecastWindows(t *testing.T) {
	store, history := twoCompletedPeriods(t)
	records, _ := store.AllRecords(context.Background())
	now := time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)

	february := BuildCalendarDayStates(mustParseDay(t, "2024-02-01"), records, history, ClickState{}, now, time.UTC)
	recorded := findCalendarDayState(t, february, "2024-02-01")
	if !recorded.IsPeriod || recorded.IsPredicted || recorded.RecordType != models.RecordTypeMid {
		t.Fatalf("expected recorded MID day to win over the forecast, got %+v", recorded)
	}
	ovulation := findCalendarDayState(t, february, "2024-02-12")
	if !ovulation.IsPredicted || !ovulation.IsOvulationDay || ovulation.Phase != PhaseOvulation {
		t.Fatalf("expected forecast ovulation day on 2024-02-12, got %+v", ovulation)
	}

	march := BuildCalendarDayStates(mustParseDay(t, "2024-03-01"), records, history, ClickState{}, now, time.UTC)
	nextPeriod := findCalendarDayState(t, march, "2024-02-26")
	if nextPeriod.IsPeriod || !nextPeriod.IsPredicted || nextPeriod.Phase != PhasePeriod {
		t.Fatalf("expected forecast period on 2024-02-26, got %+v", nextPeriod)
	}
	nextOvulation := findCalendarDayState(t, march, "2024-03-11")
	if !nextOvulation.IsOvulationDay || !nextOvulation.IsPredicted {
		t.Fatalf("expected next forecast ovulation day on 2024-03-11, got %+v", nextOvulation)
	}
	lastLuteal := findCalendarDayState(t, march, "2024-03-24")
	if lastLuteal.Phase != PhaseLuteal {
		t.Fatalf("expected last day of the next window to be luteal, got %+v", lastLuteal)
	}
	beyond := findCalendarDayState(t, march, "2024-03-25")
	if beyond.Phase != PhaseNone || beyond.IsPredicted {
		t.Fatalf("expected no forecast past the next window, got %+v", beyond)
	}
}

func TestBuildCalendarDayStatesMarksPendingStart(t *testing.T) {
	store := newPeriodRecordStoreStub()
	store.seedRun(t, "2024-05-14", "2024-05-14", 1)
	records, _ := store.AllRecords(context.Background())

	state := PendingAt(mustParseDay(t, "2024-05-14"))
	days := BuildCalendarDayStates(mustParseDay(t, "2024-05-01"), records, CycleHistory{}, state, time.Now(), time.UTC)

	pending := findCalendarDayState(t, days, "2024-05-14")
	if !pending.IsPending || !pending.IsPeriod {
		t.Fatalf("expected pending recorded start on 2024-05-14, got %+v", pending)
	}
	other := findCalendarDayState(t, days, "2024-05-15")
	if other.IsPending || other.Phase != PhaseNone {
		t.Fatalf("expected plain day on 2024-05-15, got %+v", other)
	}
}
