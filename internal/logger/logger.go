// Package logger builds the application's logrus logger and bridges
// GORM's logger interface onto it.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout. format is "json" (default) or "text".
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}

// Component returns an entry tagged with the given component name.
func Component(l logrus.FieldLogger, name string) logrus.FieldLogger {
	return l.WithField("component", name)
}
