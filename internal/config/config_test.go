package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("QUEUE_MAX_ATTEMPTS", "")
	t.Setenv("QUEUE_RETRY_BACKOFF", "")
	t.Setenv("SCHEDULE_DEFAULT_TIMEZONE", "")

	cfg := New()

	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Queue.RetryBackoff)
	assert.Equal(t, "UTC", cfg.Schedule.DefaultTimezone)
	assert.Equal(t, 9, cfg.Reminder.Hour)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("QUEUE_MAX_ATTEMPTS", "5")
	t.Setenv("QUEUE_RETRY_BACKOFF", "2s")
	t.Setenv("MAIL_TRANSPORT", "SMTP")
	t.Setenv("WORKER_EMBEDDED", "no")
	t.Setenv("DB_PORT", "not-a-number")

	cfg := New()

	assert.Equal(t, 5, cfg.Queue.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Queue.RetryBackoff)
	assert.Equal(t, "smtp", cfg.Mail.Transport)
	assert.False(t, cfg.Worker.Embedded)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestReminderLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{}
	cfg.Reminder.Location = "Mars/Olympus_Mons"

	assert.Equal(t, time.UTC, cfg.ReminderLocation())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{}
	cfg.DB.Host = "localhost"
	cfg.DB.Port = 5433
	cfg.DB.User = "u"
	cfg.DB.Password = "p"
	cfg.DB.Name = "n"
	cfg.DB.SSLMode = "disable"

	assert.Equal(t, "host=localhost port=5433 user=u password=p dbname=n sslmode=disable", cfg.PostgresDSN())
}
