package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemark/internal/models"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type ReminderKind string

const (
	ReminderPeriod    ReminderKind = "period"
	ReminderFertility ReminderKind = "fertility"
)

type Reminder struct {
	Kind    ReminderKind
	Day     time.Time
	Message string
}

type ReminderSettings struct {
	PeriodReminderDays int
	NotifyFertility    bool
	Location           *time.Location
}

// DueReminders looks at the forecast windows and returns what should be sent
// on today.
func DueReminders(history CycleHistory, today time.Time, settings ReminderSettings) []Reminder {
	if history.Predicted == nil {
		return nil
	}
	today = models.CalendarDay(today)

	reminders := make([]Reminder, 0, 2)
	for _, window := range []CyclePhases{history.Predicted.CyclePhases, history.Predicted.Next} {
		if settings.PeriodReminderDays >= 0 && daysBetween(today, window.CycleEnd) == settings.PeriodReminderDays {
			reminders = append(reminders, Reminder{
				Kind: ReminderPeriod,
				Day:  window.CycleEnd,
				Message: fmt.Sprintf("Reminder: your predicted period starts in %d day(s) on %s.",
					settings.PeriodReminderDays,
					window.CycleEnd.Format("Jan 2"),
				),
			})
		}
		if settings.NotifyFertility && !window.OvulationDay.IsZero() && window.OvulationStart.Equal(today) {
			reminders = append(reminders, Reminder{
				Kind:    ReminderFertility,
				Day:     window.OvulationStart,
				Message: fmt.Sprintf("Reminder: your fertile window starts today (%s).", window.OvulationStart.Format("Jan 2")),
			})
		}
	}
	return reminders
}

type ReminderService struct {
	history  *CycleHistoryService
	notifier Notifier
	settings ReminderSettings
	logger   logrus.FieldLogger
	now      func() time.Time

	mu                     sync.Mutex
	sentDailyNotifications map[string]time.Time
}

func NewReminderService(history *CycleHistoryService, notifier Notifier, settings ReminderSettings, logger logrus.FieldLogger) *ReminderService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &ReminderService{
		history:                history,
		notifier:               notifier,
		settings:               settings,
		logger:                 logger,
		now:                    time.Now,
		sentDailyNotifications: make(map[string]time.Time),
	}
}

// Run sends today's reminders once. Reminders already sent today are skipped
// so the job can be triggered more than once a day.
func (service *ReminderService) Run(ctx context.Context) error {
	history, err := service.history.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cycle history: %w", err)
	}

	today := TodayAt(service.now(), service.settings.Location)
	for _, reminder := range DueReminders(history, today, service.settings) {
		key := fmt.Sprintf("%s:%s", reminder.Kind, reminder.Day.Format(models.DateLayout))
		if !service.shouldSend(key, today) {
			continue
		}

		entry := service.logger.WithFields(logrus.Fields{
			"kind": reminder.Kind,
			"day":  reminder.Day.Format(models.DateLayout),
		})
		if err := service.notifier.Notify(ctx, reminder.Message); err != nil {
			service.forget(key)
			entry.WithError(err).Error("send reminder failed")
			continue
		}
		entry.Info("reminder sent")
	}
	return nil
}

func (service *ReminderService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sentDailyNotifications[key]; ok && sentOn.Equal(today) {
		return false
	}

	service.sentDailyNotifications[key] = today
	if len(service.sentDailyNotifications) > 500 {
		service.sentDailyNotifications = map[string]time.Time{key: today}
	}
	return true
}

func (service *ReminderService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sentDailyNotifications, key)
}
