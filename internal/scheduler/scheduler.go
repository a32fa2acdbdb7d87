package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one unit of scheduled work, such as a reminder pass.
type Job interface {
	Run(ctx context.Context) error
}

type Scheduler struct {
	cronEngine *cron.Cron
	logger     logrus.FieldLogger
	timeout    time.Duration
}

func New(location *time.Location, logger logrus.FieldLogger) *Scheduler {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(location)),
		logger:     logger,
		timeout:    time.Minute,
	}
}

// Add registers job under a standard five-field cron spec.
func (s *Scheduler) Add(name string, spec string, job Job) error {
	jobLogger := s.logger.WithFields(logrus.Fields{"job": name, "spec": spec})
	_, err := s.cronEngine.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		jobLogger.Debug("cron job triggered")
		if err := job.Run(ctx); err != nil {
			jobLogger.WithError(err).Error("cron job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cronEngine.Start()
	s.logger.WithField("jobs", len(s.cronEngine.Entries())).Info("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
