package services

import (
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
)

type CalendarDayState struct {
	Date           time.Time
	DateString     string
	Day            int
	InMonth        bool
	IsToday        bool
	IsPeriod       bool
	RecordType     models.RecordType
	GroupID        int64
	IsPending      bool
	Phase          CyclePhase
	IsPredicted    bool
	IsOvulationDay bool
}

// CalendarGrid returns the Monday-first weeks covering the month of value.
func CalendarGrid(value time.Time) (time.Time, time.Time, time.Time) {
	year, month, _ := value.Date()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := addDays(monthStart, -mondayOffset(monthStart))
	gridEnd := addDays(monthEnd, 6-mondayOffset(monthEnd))
	return monthStart, gridStart, gridEnd
}

func mondayOffset(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// BuildCalendarDayStates classifies every grid day. Recorded periods win over
// observed cycles, which win over the forecast's current window and then its
// next window.
func BuildCalendarDayStates(month time.Time, records []models.PeriodRecord, history CycleHistory, state ClickState, now time.Time, location *time.Location) []CalendarDayState {
	monthStart, gridStart, gridEnd := CalendarGrid(month)

	recordByDay := make(map[string]models.PeriodRecord, len(records))
	for _, record := range records {
		recordByDay[record.DayKey()] = record
	}

	todayKey := TodayAt(now, location).Format(models.DateLayout)

	days := make([]CalendarDayState, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = addDays(day, 1) {
		key := day.Format(models.DateLayout)
		dayState := CalendarDayState{
			Date:       day,
			DateString: key,
			Day:        day.Day(),
			InMonth:    day.Month() == monthStart.Month(),
			IsToday:    key == todayKey,
			IsPending:  state.pendingIs(day),
		}

		if record, ok := recordByDay[key]; ok && record.RecordType.IsPeriod() {
			dayState.IsPeriod = true
			dayState.RecordType = record.RecordType
			dayState.GroupID = record.PeriodGroupID
			dayState.Phase = PhasePeriod
		}

		classifyDay(&dayState, history)
		days = append(days, dayState)
	}
	return days
}

func classifyDay(dayState *CalendarDayState, history CycleHistory) {
	day := dayState.Date
	for _, analysis := range history.Completed {
		phase := analysis.PhaseOn(day)
		if phase == PhaseNone {
			continue
		}
		if !dayState.IsPeriod {
			dayState.Phase = phase
		}
		dayState.IsOvulationDay = analysis.IsOvulationDay(day)
		return
	}

	if history.Predicted == nil || dayState.IsPeriod {
		return
	}
	for _, window := range []CyclePhases{history.Predicted.CyclePhases, history.Predicted.Next} {
		phase := window.PhaseOn(day)
		if phase == PhaseNone {
			continue
		}
		dayState.Phase = phase
		dayState.IsPredicted = true
		dayState.IsOvulationDay = window.IsOvulationDay(day)
		return
	}
}
