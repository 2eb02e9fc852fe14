// Package logging configures the structured logger shared across
// powertrainx's CLI and solver packages, grounded on
// PossumXI-Asgard_Arobi's Valkyrie/pkg/utils/logger.go.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the package-wide logger instance.
var Log *logrus.Logger

func init() {
	Log = New("info", "stdout")
}

// New builds a configured logrus.Logger writing JSON-formatted entries to
// stdout or the named file.
func New(level, output string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLevel(level))

	if output == "" || output == "stdout" {
		logger.SetOutput(os.Stdout)
	} else {
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.SetOutput(os.Stdout)
			logger.Warnf("failed to open log file %s, falling back to stdout", output)
		} else {
			logger.SetOutput(file)
		}
	}

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return logger
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel changes the package logger's level at runtime.
func SetLevel(level string) {
	Log.SetLevel(parseLevel(level))
}
