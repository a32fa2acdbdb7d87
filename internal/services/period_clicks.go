package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemark/internal/models"
)

var (
	ErrClickBeforePendingStart = errors.New("click precedes pending period start")
	ErrPeriodLoadFailed        = errors.New("load period records failed")
	ErrPeriodWriteFailed       = errors.New("write period records failed")
	ErrPeriodDeleteFailed      = errors.New("delete period records failed")
	ErrDayAlreadyMarked        = errors.New("day already belongs to a period")
	ErrDayNotMarked            = errors.New("day does not belong to a period")
)

type ClickAction string

const (
	ClickActionStart    ClickAction = "start"
	ClickActionComplete ClickAction = "complete"
	ClickActionDelete   ClickAction = "delete"
	ClickActionIgnore   ClickAction = "ignore"
)

// ClickState is the pending-start marker. A nil PendingStart is IDLE,
// anything else is AWAITING_END.
type ClickState struct {
	PendingStart *time.Time
}

func PendingAt(day time.Time) ClickState {
	pending := models.CalendarDay(day)
	return ClickState{PendingStart: &pending}
}

func (state ClickState) AwaitingEnd() bool {
	return state.PendingStart != nil
}

func (state ClickState) pendingIs(day time.Time) bool {
	return state.PendingStart != nil && state.PendingStart.Equal(day)
}

// ClickInput is everything the transition needs to know about the store.
type ClickInput struct {
	Day time.Time
	// Existing is the record stored at Day, if any.
	Existing *models.PeriodRecord
	// Covered holds the records between the pending start and Day when a
	// completion is possible. Their groups are replaced by the new run.
	Covered    []models.PeriodRecord
	MaxGroupID int64
	Now        time.Time
}

// ClickPlan lists the store mutations of one transition. Groups are deleted
// before Records are written.
type ClickPlan struct {
	Action         ClickAction
	Next           ClickState
	GroupID        int64
	DeleteGroupIDs []int64
	Records        []models.PeriodRecord
}

// DecideClick is the period state machine transition. It never touches the
// store. An inverted completion returns a plan that only clears the pending
// start together with ErrClickBeforePendingStart.
func DecideClick(state ClickState, input ClickInput) (ClickPlan, error) {
	day := models.CalendarDay(input.Day)

	if input.Existing != nil {
		next := state
		if state.pendingIs(day) {
			next = ClickState{}
		}
		return ClickPlan{
			Action:         ClickActionDelete,
			Next:           next,
			GroupID:        input.Existing.PeriodGroupID,
			DeleteGroupIDs: []int64{input.Existing.PeriodGroupID},
		}, nil
	}

	groupID := input.MaxGroupID + 1
	if !state.AwaitingEnd() {
		return ClickPlan{
			Action:  ClickActionStart,
			Next:    PendingAt(day),
			GroupID: groupID,
			Records: []models.PeriodRecord{
				models.NewPeriodRecord(day, models.RecordTypeStart, groupID, input.Now),
			},
		}, nil
	}

	start := models.CalendarDay(*state.PendingStart)
	if day.Before(start) {
		return ClickPlan{Action: ClickActionIgnore, Next: ClickState{}}, ErrClickBeforePendingStart
	}

	return ClickPlan{
		Action:         ClickActionComplete,
		Next:           ClickState{},
		GroupID:        groupID,
		DeleteGroupIDs: coveredGroupIDs(input.Covered),
		Records:        BuildPeriodRun(start, day, groupID, input.Now),
	}, nil
}

// BuildPeriodRun returns START, MID... and END records for [start, end]. A
// single-day run has no END record.
func BuildPeriodRun(start time.Time, end time.Time, groupID int64, createdAt time.Time) []models.PeriodRecord {
	start = models.CalendarDay(start)
	end = models.CalendarDay(end)
	if end.Before(start) {
		return nil
	}

	records := make([]models.PeriodRecord, 0, daysBetween(start, end)+1)
	records = append(records, models.NewPeriodRecord(start, models.RecordTypeStart, groupID, createdAt))
	for day := addDays(start, 1); day.Before(end); day = addDays(day, 1) {
		records = append(records, models.NewPeriodRecord(day, models.RecordTypeMid, groupID, createdAt))
	}
	if end.After(start) {
		records = append(records, models.NewPeriodRecord(end, models.RecordTypeEnd, groupID, createdAt))
	}
	return records
}

func coveredGroupIDs(records []models.PeriodRecord) []int64 {
	seen := make(map[int64]struct{}, len(records))
	ids := make([]int64, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.PeriodGroupID]; ok {
			continue
		}
		seen[record.PeriodGroupID] = struct{}{}
		ids = append(ids, record.PeriodGroupID)
	}
	return ids
}

type ClickResult struct {
	Action  ClickAction
	State   ClickState
	GroupID int64
	Records []models.PeriodRecord
}

// PeriodClickService applies DecideClick plans to a store. Calls are
// serialized over the whole dataset since a group delete can touch many days.
type PeriodClickService struct {
	mu     sync.Mutex
	store  PeriodRecordStore
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewPeriodClickService(store PeriodRecordStore, logger logrus.FieldLogger) *PeriodClickService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PeriodClickService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// HandleClick runs one transition. On a store failure the given state is
// returned unchanged so the click can be retried.
func (service *PeriodClickService) HandleClick(ctx context.Context, state ClickState, day time.Time) (ClickResult, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	day = models.CalendarDay(day)
	input, err := service.loadClickInput(ctx, state, day)
	if err != nil {
		return ClickResult{State: state}, err
	}

	plan, err := DecideClick(state, input)
	if errors.Is(err, ErrClickBeforePendingStart) {
		service.logger.WithFields(logrus.Fields{
			"date":          day.Format(models.DateLayout),
			"pending_start": state.PendingStart.Format(models.DateLayout),
		}).Warn("ignored click before pending period start")
		return ClickResult{Action: plan.Action, State: plan.Next}, err
	}
	if err != nil {
		return ClickResult{State: state}, err
	}

	if err := service.apply(ctx, plan); err != nil {
		return ClickResult{State: state}, err
	}

	service.logger.WithFields(logrus.Fields{
		"date":     day.Format(models.DateLayout),
		"action":   plan.Action,
		"group_id": plan.GroupID,
		"records":  len(plan.Records),
	}).Info("period click applied")

	return ClickResult{
		Action:  plan.Action,
		State:   plan.Next,
		GroupID: plan.GroupID,
		Records: plan.Records,
	}, nil
}

// MarkPeriod writes a complete run without going through the pending state.
// It refuses to overwrite days that already belong to a period.
func (service *PeriodClickService) MarkPeriod(ctx context.Context, start time.Time, end time.Time) (ClickResult, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	start = models.CalendarDay(start)
	end = models.CalendarDay(end)
	if end.Before(start) {
		return ClickResult{}, ErrPeriodEndBeforeStart
	}

	covered, err := service.store.GetByDateRange(ctx, start, end)
	if err != nil {
		return ClickResult{}, fmt.Errorf("%w: %v", ErrPeriodLoadFailed, err)
	}
	if len(covered) > 0 {
		return ClickResult{}, fmt.Errorf("%w: %s", ErrDayAlreadyMarked, covered[0].DayKey())
	}
	maxID, err := service.store.MaxGroupID(ctx)
	if err != nil {
		return ClickResult{}, fmt.Errorf("%w: %v", ErrPeriodLoadFailed, err)
	}

	plan, err := DecideClick(PendingAt(start), ClickInput{Day: end, MaxGroupID: maxID, Now: service.now()})
	if err != nil {
		return ClickResult{}, err
	}
	if err := service.apply(ctx, plan); err != nil {
		return ClickResult{}, err
	}

	service.logger.WithFields(logrus.Fields{
		"start":    start.Format(models.DateLayout),
		"end":      end.Format(models.DateLayout),
		"group_id": plan.GroupID,
	}).Info("period marked")
	return ClickResult{Action: plan.Action, GroupID: plan.GroupID, Records: plan.Records}, nil
}

// UnmarkDay deletes the whole period containing day.
func (service *PeriodClickService) UnmarkDay(ctx context.Context, day time.Time) (ClickResult, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	day = models.CalendarDay(day)
	record, found, err := service.store.GetByDate(ctx, day)
	if err != nil {
		return ClickResult{}, fmt.Errorf("%w: %v", ErrPeriodLoadFailed, err)
	}
	if !found {
		return ClickResult{}, ErrDayNotMarked
	}

	plan, err := DecideClick(ClickState{}, ClickInput{Day: day, Existing: &record})
	if err != nil {
		return ClickResult{}, err
	}
	if err := service.apply(ctx, plan); err != nil {
		return ClickResult{}, err
	}

	service.logger.WithFields(logrus.Fields{
		"date":     day.Format(models.DateLayout),
		"group_id": plan.GroupID,
	}).Info("period unmarked")
	return ClickResult{Action: plan.Action, GroupID: plan.GroupID}, nil
}

func (service *PeriodClickService) DeleteAll(ctx context.Context) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPeriodDeleteFailed, err)
	}
	service.logger.Info("all period records deleted")
	return nil
}

func (service *PeriodClickService) loadClickInput(ctx context.Context, state ClickState, day time.Time) (ClickInput, error) {
	input := ClickInput{Day: day, Now: service.now()}

	record, found, err := service.store.GetByDate(ctx, day)
	if err != nil {
		return ClickInput{}, fmt.Errorf("%w: %v", ErrPeriodLoadFailed, err)
	}
	if found {
		input.Existing = &record
		return input, nil
	}

	if state.AwaitingEnd() && !day.Before(*state.PendingStart) {
		covered, err := service.store.GetByDateRange(ctx, *state.PendingStart, day)
		if err != nil {
			return ClickInput{}, fmt.Errorf("%w: %v", ErrPeriodLoadFailed, err)
		}
		input.Covered = covered
	}

	maxID, err := service.store.MaxGroupID(ctx)
	if err != nil {
		return ClickInput{}, fmt.Errorf("%w: %v", ErrPeriodLoadFailed, err)
	}
	input.MaxGroupID = maxID
	return input, nil
}

func (service *PeriodClickService) apply(ctx context.Context, plan ClickPlan) error {
	for _, groupID := range plan.DeleteGroupIDs {
		if err := service.store.DeleteByGroupID(ctx, groupID); err != nil {
			return fmt.Errorf("%w: group %d: %v", ErrPeriodDeleteFailed, groupID, err)
		}
	}

	switch len(plan.Records) {
	case 0:
		return nil
	case 1:
		if err := service.store.InsertOne(ctx, plan.Records[0]); err != nil {
			return fmt.Errorf("%w: %v", ErrPeriodWriteFailed, err)
		}
	default:
		if err := service.store.InsertBatch(ctx, plan.Records); err != nil {
			return fmt.Errorf("%w: %v", ErrPeriodWriteFailed, err)
		}
	}
	return nil
}

// PeriodSession keeps the pending start for callers that do not carry it
// themselves, such as the HTTP API.
type PeriodSession struct {
	mu      sync.Mutex
	service *PeriodClickService
	state   ClickState
}

func NewPeriodSession(service *PeriodClickService) *PeriodSession {
	return &PeriodSession{service: service}
}

func (session *PeriodSession) Click(ctx context.Context, day time.Time) (ClickResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	result, err := session.service.HandleClick(ctx, session.state, day)
	session.state = result.State
	return result, err
}

func (session *PeriodSession) State() ClickState {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

func (session *PeriodSession) Reset() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.state = ClickState{}
}
