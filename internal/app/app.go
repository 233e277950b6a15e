// Package app wires configuration into the long-lived components shared by
// the api, worker, seed and admin binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/oggyb/portfolio-backend/internal/cache"
	rediscache "github.com/oggyb/portfolio-backend/internal/cache/redis"
	"github.com/oggyb/portfolio-backend/internal/config"
	"github.com/oggyb/portfolio-backend/internal/db/gormdb"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/handler"
	"github.com/oggyb/portfolio-backend/internal/logger"
	"github.com/oggyb/portfolio-backend/internal/mail"
	"github.com/oggyb/portfolio-backend/internal/notify"
	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/oggyb/portfolio-backend/internal/queue/redisq"
	contactgorm "github.com/oggyb/portfolio-backend/internal/repository/gorm/contact"
	schedulegorm "github.com/oggyb/portfolio-backend/internal/repository/gorm/schedule"
	"github.com/oggyb/portfolio-backend/internal/scheduler"
	"github.com/oggyb/portfolio-backend/internal/service"
	"github.com/oggyb/portfolio-backend/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// App holds the wired components. Fields are nil when their dependency was
// not requested.
type App struct {
	Config *config.Config
	Log    *logrus.Logger

	DB     *gormdb.GormDB
	Redis  *redis.Client
	Cache  cache.Cache
	Broker queue.Broker
	Stats  *queue.Stats
	Mail   mail.Sender

	Contacts  contact.Repository
	Schedules schedule.Repository

	Notifier   *notify.Notifier
	Handlers   *queue.Mux
	Dispatcher *notify.Dispatcher

	ContactService  service.ContactService
	ScheduleService service.ScheduleService
	ReminderService service.ReminderService
}

// New connects to Postgres and, depending on QUEUE_DRIVER, Redis, then
// builds repositories, mail transport, the notification pipeline and the
// services. An unreachable Redis is logged, not fatal: enqueueing then
// falls back to inline sends.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	a := &App{Config: cfg, Log: log}

	gormLevel := gormlogger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gormLevel = gormlogger.Info
	}
	conn, err := gormdb.New(cfg.PostgresDSN(), logger.Gorm(logger.Component(log, "gorm"), gormLevel))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.DB = conn

	switch cfg.Queue.Driver {
	case "memory":
		a.Cache = cache.NewMemory()
		a.Broker = queue.NewMemoryBroker()
	default:
		a.Redis = redisq.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.Cache = rediscache.NewFromClient(a.Redis)
		a.Broker = redisq.New(a.Redis, cfg.Queue.Name)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := a.Redis.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis not reachable, notifications will be sent inline")
		}
		cancel()
	}
	a.Stats = queue.NewStats(a.Cache)

	a.Mail, err = NewMailSender(cfg, log)
	if err != nil {
		return nil, err
	}

	a.Contacts = contactgorm.NewRepository(conn)
	a.Schedules = schedulegorm.NewRepository(conn)

	a.Notifier = notify.NewNotifier(a.Mail, a.Contacts, a.Schedules, notify.Addresses{
		From:  cfg.Notify.FromEmail,
		Admin: cfg.Notify.AdminEmail,
		Owner: notify.Owner{Name: cfg.Notify.OwnerName, Title: cfg.Notify.OwnerTitle},
	}, log)
	a.Handlers = queue.NewMux()
	a.Notifier.Register(a.Handlers)
	a.Dispatcher = notify.NewDispatcher(a.Broker, a.Handlers, a.Stats, cfg.Queue.EnqueueTimeout, cfg.Queue.JobTimeout, log)

	a.ContactService = service.NewContactService(a.Contacts, a.Dispatcher, log)
	a.ScheduleService = service.NewScheduleService(a.Schedules, a.Dispatcher, cfg.Schedule.DefaultTimezone, log)
	a.ReminderService = service.NewReminderService(a.Schedules, a.Notifier, a.Cache, service.ReminderOptions{
		Lead:              cfg.Reminder.Lead,
		Window:            cfg.Reminder.Window,
		MaxWorkers:        cfg.Worker.ReminderWorkers,
		PerMessageTimeout: cfg.Worker.PerMessageTimeout,
	}, log)

	return a, nil
}

// NewMailSender picks the transport named by MAIL_TRANSPORT.
func NewMailSender(cfg *config.Config, log logrus.FieldLogger) (mail.Sender, error) {
	switch cfg.Mail.Transport {
	case "smtp":
		return mail.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUser, cfg.Mail.SMTPPass, cfg.Mail.SendTimeout), nil
	case "webhook":
		if cfg.Mail.WebhookURL == "" {
			return nil, fmt.Errorf("MAIL_WEBHOOK_URL is required for the webhook transport")
		}
		return mail.NewWebhookClient(cfg.Mail.WebhookURL, cfg.Mail.WebhookKey, cfg.Mail.SendTimeout), nil
	case "console", "":
		return mail.NewConsoleSender(log), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", cfg.Mail.Transport)
	}
}

// Migrate creates or updates every table.
func (a *App) Migrate() error {
	return a.DB.Migrate(&contactgorm.ContactMessageModel{}, &schedulegorm.CallScheduleModel{})
}

// NewPool builds the notification worker pool.
func (a *App) NewPool() *worker.Pool {
	q := a.Config.Queue
	return worker.NewPool(a.Broker, a.Handlers, a.Stats, a.Log, worker.Options{
		Concurrency:  a.Config.Worker.Concurrency,
		MaxAttempts:  q.MaxAttempts,
		RetryBackoff: q.RetryBackoff,
		JobTimeout:   q.JobTimeout,
		PollInterval: q.PollInterval,
	})
}

// NewReminderScheduler builds the stopped daily reminder scheduler.
func (a *App) NewReminderScheduler() scheduler.SchedulerService {
	r := a.Config.Reminder
	return scheduler.NewSchedulerService(
		a.ReminderService,
		scheduler.DailyAt(r.Hour, r.Minute, a.Config.ReminderLocation()),
		r.BatchTimeout,
		a.Log,
	)
}

// HealthChecks lists the dependency checks reported by /health.
func (a *App) HealthChecks() map[string]handler.Check {
	return map[string]handler.Check{
		"database": a.DB.Ping,
		"cache":    a.Cache.Ping,
		"broker":   a.Broker.Ping,
		"mail":     a.Mail.Health,
	}
}

// Close releases connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.WithError(err).Warn("closing redis")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.WithError(err).Warn("closing database")
		}
	}
}
