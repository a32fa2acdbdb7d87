package services

import (
	"errors"
	"sort"
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
)

var (
	ErrCycleStartsOutOfOrder = errors.New("newer period start must be after older period start")
	ErrPeriodEndBeforeStart  = errors.New("period end is before period start")
)

const (
	fertileDaysBeforeOvulation = 3
	fertileDaysAfterOvulation  = 4
)

type CyclePhase string

const (
	PhaseNone       CyclePhase = ""
	PhasePeriod     CyclePhase = "period"
	PhaseFollicular CyclePhase = "follicular"
	PhaseOvulation  CyclePhase = "ovulation"
	PhaseLuteal     CyclePhase = "luteal"
)

// CyclePhases covers one cycle window [PeriodStart, CycleEnd). Phases are
// contiguous in the order period, follicular, ovulation, luteal. An empty
// phase has its end one day before its start. OvulationDay is zero when the
// fertile window is empty.
type CyclePhases struct {
	PeriodStart     time.Time
	PeriodEnd       time.Time
	FollicularStart time.Time
	FollicularEnd   time.Time
	OvulationStart  time.Time
	OvulationEnd    time.Time
	OvulationDay    time.Time
	LutealStart     time.Time
	LutealEnd       time.Time
	CycleEnd        time.Time
	// Exact is false when a boundary had to be clamped to fit a short cycle.
	Exact bool
}

// CycleAnalysis is the derived view of one pair of period starts. The
// embedded phases describe the current window; Previous and Next are the
// windows one cycle before and after it.
type CycleAnalysis struct {
	CyclePhases
	CycleLength       int
	PeriodDuration    int
	LutealDays        int
	NewerPeriodActual bool
	NextPeriodDate    time.Time
	Previous          CyclePhases
	Next              CyclePhases
}

type CycleCalculator struct {
	LutealDays            int
	DefaultPeriodDuration int
}

func NewCycleCalculator(lutealDays int, defaultPeriodDuration int) CycleCalculator {
	if lutealDays <= 0 {
		lutealDays = models.DefaultLutealDays
	}
	if defaultPeriodDuration < 0 {
		defaultPeriodDuration = models.DefaultPeriodDurationDays
	}
	return CycleCalculator{
		LutealDays:            lutealDays,
		DefaultPeriodDuration: defaultPeriodDuration,
	}
}

// CalculateCycle uses the default assumed period duration when newerEnd is nil.
func CalculateCycle(olderStart time.Time, newerStart time.Time, newerEnd *time.Time, newerPeriodActual bool, lutealDays int) (CycleAnalysis, error) {
	return NewCycleCalculator(lutealDays, models.DefaultPeriodDurationDays).
		Calculate(olderStart, newerStart, newerEnd, newerPeriodActual)
}

// Calculate extrapolates linearly from two period starts. When
// newerPeriodActual is true the current window is the observed cycle
// [olderStart, newerStart) and its ovulation counts back from the recorded
// newer start. Otherwise the current window is the forecast
// [newerStart, NextPeriodDate) and ovulation counts back from the predicted
// start. NextPeriodDate is the same in both modes.
func (calc CycleCalculator) Calculate(olderStart time.Time, newerStart time.Time, newerEnd *time.Time, newerPeriodActual bool) (CycleAnalysis, error) {
	calc = NewCycleCalculator(calc.LutealDays, calc.DefaultPeriodDuration)
	olderStart = models.CalendarDay(olderStart)
	newerStart = models.CalendarDay(newerStart)
	if !newerStart.After(olderStart) {
		return CycleAnalysis{}, ErrCycleStartsOutOfOrder
	}

	periodDuration := calc.DefaultPeriodDuration
	if newerEnd != nil {
		end := models.CalendarDay(*newerEnd)
		if end.Before(newerStart) {
			return CycleAnalysis{}, ErrPeriodEndBeforeStart
		}
		periodDuration = daysBetween(newerStart, end)
	}

	cycleLength := daysBetween(olderStart, newerStart)
	analysis := CycleAnalysis{
		CycleLength:       cycleLength,
		PeriodDuration:    periodDuration,
		LutealDays:        calc.LutealDays,
		NewerPeriodActual: newerPeriodActual,
		NextPeriodDate:    addDays(newerStart, cycleLength),
	}

	currentStart := newerStart
	if newerPeriodActual {
		currentStart = olderStart
	}
	analysis.Previous = calc.phasesFor(addDays(currentStart, -cycleLength), cycleLength, periodDuration)
	analysis.CyclePhases = calc.phasesFor(currentStart, cycleLength, periodDuration)
	analysis.Next = calc.phasesFor(addDays(currentStart, cycleLength), cycleLength, periodDuration)
	return analysis, nil
}

func (calc CycleCalculator) phasesFor(start time.Time, cycleLength int, periodDuration int) CyclePhases {
	following := addDays(start, cycleLength)
	ovulationDay := addDays(following, -calc.LutealDays)

	// Boundaries are the first day of each phase; clamping keeps them
	// monotonic inside [start, following].
	rawFollicularStart := addDays(start, periodDuration+1)
	rawOvulationStart := addDays(ovulationDay, -fertileDaysBeforeOvulation)
	rawLutealStart := addDays(ovulationDay, fertileDaysAfterOvulation+1)

	follicularStart := clampDay(rawFollicularStart, addDays(start, 1), following)
	ovulationStart := clampDay(rawOvulationStart, follicularStart, following)
	lutealStart := clampDay(rawLutealStart, ovulationStart, following)

	phases := CyclePhases{
		PeriodStart:     start,
		PeriodEnd:       addDays(follicularStart, -1),
		FollicularStart: follicularStart,
		FollicularEnd:   addDays(ovulationStart, -1),
		OvulationStart:  ovulationStart,
		OvulationEnd:    addDays(lutealStart, -1),
		LutealStart:     lutealStart,
		LutealEnd:       addDays(following, -1),
		CycleEnd:        following,
		Exact: follicularStart.Equal(rawFollicularStart) &&
			ovulationStart.Equal(rawOvulationStart) &&
			lutealStart.Equal(rawLutealStart),
	}
	if lutealStart.After(ovulationStart) {
		phases.OvulationDay = clampDay(ovulationDay, phases.OvulationStart, phases.OvulationEnd)
	}
	return phases
}

// PhaseOn reports which phase of this window day falls into.
func (phases CyclePhases) PhaseOn(day time.Time) CyclePhase {
	day = models.CalendarDay(day)
	switch {
	case dayInRange(day, phases.PeriodStart, phases.PeriodEnd):
		return PhasePeriod
	case dayInRange(day, phases.FollicularStart, phases.FollicularEnd):
		return PhaseFollicular
	case dayInRange(day, phases.OvulationStart, phases.OvulationEnd):
		return PhaseOvulation
	case dayInRange(day, phases.LutealStart, phases.LutealEnd):
		return PhaseLuteal
	default:
		return PhaseNone
	}
}

func (phases CyclePhases) IsOvulationDay(day time.Time) bool {
	return !phases.OvulationDay.IsZero() && phases.OvulationDay.Equal(models.CalendarDay(day))
}

// AverageCycleLength is the mean gap in whole days between consecutive
// starts. It reports false with fewer than two starts.
func AverageCycleLength(starts []time.Time) (int, bool) {
	if len(starts) < 2 {
		return 0, false
	}

	sorted := make([]time.Time, 0, len(starts))
	for _, start := range starts {
		sorted = append(sorted, models.CalendarDay(start))
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	total := 0
	for index := 1; index < len(sorted); index++ {
		total += daysBetween(sorted[index-1], sorted[index])
	}
	return total / (len(sorted) - 1), true
}
