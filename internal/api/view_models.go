package api

import (
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
	"github.com/terraincognita07/cyclemark/internal/services"
)

type RecordView struct {
	Date       string `json:"date"`
	RecordType string `json:"record_type"`
	GroupID    int64  `json:"group_id"`
}

type ClickView struct {
	Action       services.ClickAction `json:"action"`
	PendingStart *string              `json:"pending_start"`
	GroupID      int64                `json:"group_id,omitempty"`
	Records      []RecordView         `json:"records"`
}

type CycleWindowView struct {
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	FollicularStart string `json:"follicular_start"`
	FollicularEnd   string `json:"follicular_end"`
	OvulationStart  string `json:"ovulation_start"`
	OvulationEnd    string `json:"ovulation_end"`
	OvulationDay    string `json:"ovulation_day,omitempty"`
	LutealStart     string `json:"luteal_start"`
	LutealEnd       string `json:"luteal_end"`
	CycleEnd        string `json:"cycle_end"`
	Exact           bool   `json:"exact"`
}

type CycleAnalysisView struct {
	CycleWindowView
	CycleLength       int             `json:"cycle_length"`
	PeriodDuration    int             `json:"period_duration"`
	LutealDays        int             `json:"luteal_days"`
	NewerPeriodActual bool            `json:"newer_period_actual"`
	NextPeriodDate    string          `json:"next_period_date"`
	Previous          CycleWindowView `json:"previous"`
	Next              CycleWindowView `json:"next"`
}

type CyclesView struct {
	Completed          []CycleAnalysisView `json:"completed"`
	Predicted          *CycleAnalysisView  `json:"predicted"`
	AverageCycleLength *int                `json:"average_cycle_length"`
}

type CalendarDayView struct {
	Date         string              `json:"date"`
	Day          int                 `json:"day"`
	InMonth      bool                `json:"in_month"`
	IsToday      bool                `json:"is_today"`
	IsPeriod     bool                `json:"recorded_period"`
	RecordType   string              `json:"record_type,omitempty"`
	GroupID      int64               `json:"group_id,omitempty"`
	IsPending    bool                `json:"pending"`
	Phase        services.CyclePhase `json:"phase,omitempty"`
	IsPredicted  bool                `json:"predicted"`
	OvulationDay bool                `json:"ovulation_day"`
}

func formatDay(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(models.DateLayout)
}

func NewRecordViews(records []models.PeriodRecord) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, record := range records {
		views = append(views, RecordView{
			Date:       record.DayKey(),
			RecordType: record.RecordType.String(),
			GroupID:    record.PeriodGroupID,
		})
	}
	return views
}

func NewClickView(result services.ClickResult) ClickView {
	view := ClickView{
		Action:  result.Action,
		GroupID: result.GroupID,
		Records: NewRecordViews(result.Records),
	}
	if result.State.AwaitingEnd() {
		pending := formatDay(*result.State.PendingStart)
		view.PendingStart = &pending
	}
	return view
}

func newCycleWindowView(phases services.CyclePhases) CycleWindowView {
	return CycleWindowView{
		PeriodStart:     formatDay(phases.PeriodStart),
		PeriodEnd:       formatDay(phases.PeriodEnd),
		FollicularStart: formatDay(phases.FollicularStart),
		FollicularEnd:   formatDay(phases.FollicularEnd),
		OvulationStart:  formatDay(phases.OvulationStart),
		OvulationEnd:    formatDay(phases.OvulationEnd),
		OvulationDay:    formatDay(phases.OvulationDay),
		LutealStart:     formatDay(phases.LutealStart),
		LutealEnd:       formatDay(phases.LutealEnd),
		CycleEnd:        formatDay(phases.CycleEnd),
		Exact:           phases.Exact,
	}
}

func NewCycleAnalysisView(analysis services.CycleAnalysis) CycleAnalysisView {
	return CycleAnalysisView{
		CycleWindowView:   newCycleWindowView(analysis.CyclePhases),
		CycleLength:       analysis.CycleLength,
		PeriodDuration:    analysis.PeriodDuration,
		LutealDays:        analysis.LutealDays,
		NewerPeriodActual: analysis.NewerPeriodActual,
		NextPeriodDate:    formatDay(analysis.NextPeriodDate),
		Previous:          newCycleWindowView(analysis.Previous),
		Next:              newCycleWindowView(analysis.Next),
	}
}

func NewCyclesView(history services.CycleHistory) CyclesView {
	view := CyclesView{Completed: make([]CycleAnalysisView, 0, len(history.Completed))}
	for _, analysis := range history.Completed {
		view.Completed = append(view.Completed, NewCycleAnalysisView(analysis))
	}
	if history.Predicted != nil {
		predicted := NewCycleAnalysisView(*history.Predicted)
		view.Predicted = &predicted
	}
	if history.HasAverage {
		average := history.AverageCycleLength
		view.AverageCycleLength = &average
	}
	return view
}

func newCalendarDayViews(days []services.CalendarDayState) []CalendarDayView {
	views := make([]CalendarDayView, 0, len(days))
	for _, day := range days {
		view := CalendarDayView{
			Date:         day.DateString,
			Day:          day.Day,
			InMonth:      day.InMonth,
			IsToday:      day.IsToday,
			IsPeriod:     day.IsPeriod,
			GroupID:      day.GroupID,
			IsPending:    day.IsPending,
			Phase:        day.Phase,
			IsPredicted:  day.IsPredicted,
			OvulationDay: day.IsOvulationDay,
		}
		if day.IsPeriod {
			view.RecordType = day.RecordType.String()
		}
		views = append(views, view)
	}
	return views
}
