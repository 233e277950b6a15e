package logger

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold marks queries slower than this as warnings.
const slowQueryThreshold = 200 * time.Millisecond

// Gorm adapts a logrus logger to gorm's logger.Interface.
func Gorm(l logrus.FieldLogger, level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{
		log:      l.WithField("source", "gorm"),
		LogLevel: level,
	}
}

type gormLogger struct {
	log      logrus.FieldLogger
	LogLevel gormlogger.LogLevel
}

// LogMode implements logger.Interface
func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// Info implements logger.Interface
func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		l.log.WithField("data", data).Info(msg)
	}
}

// Warn implements logger.Interface
func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		l.log.WithField("data", data).Warn(msg)
	}
}

// Error implements logger.Interface
func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		l.log.WithField("data", data).Error(msg)
	}
}

// Trace implements logger.Interface
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := logrus.Fields{
		"elapsed": elapsed.String(),
		"sql":     sql,
		"rows":    rows,
	}

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.LogLevel >= gormlogger.Error:
		fields["error"] = err.Error()
		l.log.WithFields(fields).Error("SQL query error")
	case elapsed > slowQueryThreshold && l.LogLevel >= gormlogger.Warn:
		l.log.WithFields(fields).Warn("slow SQL query")
	case l.LogLevel >= gormlogger.Info:
		l.log.WithFields(fields).Debug("SQL query executed")
	}
}
