package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Commands configure it once via Init and
// pass it down as a logrus.FieldLogger.
var Log = logrus.New()

// Init applies level and formatter settings to Log and returns it.
func Init(level string, environment string) *logrus.Logger {
	Configure(Log, os.Stdout, level, environment)
	return Log
}

// Configure sets output, level and formatter on logger. An unknown level falls
// back to info.
func Configure(logger *logrus.Logger, out io.Writer, level string, environment string) {
	logger.SetOutput(out)

	if IsStructuredEnvironment(environment) {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
		logger.Warnf("invalid log level %q, defaulting to info", level)
	} else {
		logger.SetLevel(parsed)
	}

	logger.Debugf("log level set to %s for environment %q", logger.GetLevel(), environment)
}

// IsStructuredEnvironment reports whether logs should be emitted as JSON.
func IsStructuredEnvironment(environment string) bool {
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "production", "staging":
		return true
	default:
		return false
	}
}
