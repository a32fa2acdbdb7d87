package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemark/internal/models"
)

// CycleHistory holds the analyses of every completed cycle, oldest first,
// and the forecast built from the two most recent starts.
type CycleHistory struct {
	Completed          []CycleAnalysis
	Predicted          *CycleAnalysis
	AverageCycleLength int
	HasAverage         bool
}

// BuildCycleHistory expects starts and records ordered newest first, the way
// the store returns them. A pair is only analysed when its newer period has
// an END record, so periods still in progress never show up as cycles.
func BuildCycleHistory(starts []models.PeriodRecord, records []models.PeriodRecord, calculator CycleCalculator) CycleHistory {
	history := CycleHistory{Completed: make([]CycleAnalysis, 0)}

	startDays := make([]time.Time, 0, len(starts))
	for _, start := range starts {
		startDays = append(startDays, start.Date)
	}
	history.AverageCycleLength, history.HasAverage = AverageCycleLength(startDays)

	if len(starts) < 2 {
		return history
	}

	ends := endsByGroup(records)
	for index := len(starts) - 1; index >= 1; index-- {
		older := starts[index]
		newer := starts[index-1]
		end, ok := ends[newer.PeriodGroupID]
		if !ok {
			continue
		}
		analysis, err := calculator.Calculate(older.Date, newer.Date, &end, true)
		if err != nil {
			continue
		}
		history.Completed = append(history.Completed, analysis)
	}

	latest := starts[0]
	secondLatest := starts[1]
	if end, ok := ends[latest.PeriodGroupID]; ok {
		predicted, err := calculator.Calculate(secondLatest.Date, latest.Date, &end, false)
		if err == nil {
			history.Predicted = &predicted
		}
	}
	return history
}

func endsByGroup(records []models.PeriodRecord) map[int64]time.Time {
	ends := make(map[int64]time.Time)
	for _, record := range records {
		if record.RecordType != models.RecordTypeEnd {
			continue
		}
		if _, seen := ends[record.PeriodGroupID]; !seen {
			ends[record.PeriodGroupID] = models.CalendarDay(record.Date)
		}
	}
	return ends
}

type CycleHistoryService struct {
	store      PeriodRecordStore
	calculator CycleCalculator
	logger     logrus.FieldLogger
}

func NewCycleHistoryService(store PeriodRecordStore, calculator CycleCalculator, logger logrus.FieldLogger) *CycleHistoryService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CycleHistoryService{
		store:      store,
		calculator: calculator,
		logger:     logger,
	}
}

func (service *CycleHistoryService) Load(ctx context.Context) (CycleHistory, error) {
	starts, err := service.store.AllStarts(ctx)
	if err != nil {
		return CycleHistory{}, fmt.Errorf("%w: starts: %v", ErrPeriodLoadFailed, err)
	}
	records, err := service.store.AllRecords(ctx)
	if err != nil {
		return CycleHistory{}, fmt.Errorf("%w: records: %v", ErrPeriodLoadFailed, err)
	}

	history := BuildCycleHistory(starts, records, service.calculator)
	service.logger.WithFields(logrus.Fields{
		"starts":    len(starts),
		"completed": len(history.Completed),
		"predicted": history.Predicted != nil,
	}).Debug("cycle history built")
	return history, nil
}

func (service *CycleHistoryService) Calculator() CycleCalculator {
	return service.calculator
}
