package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes reminders to the log when no Telegram bot is configured.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) Notify(_ context.Context, message string) error {
	notifier.logger.WithField("channel", "log").Info(message)
	return nil
}
