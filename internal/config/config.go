package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Name    string
		Version string
		Env     string
	}

	API struct {
		Host string
		Port string
	}

	DB struct {
		Host        string
		Port        int
		User        string
		Password    string
		Name        string
		SSLMode     string
		AutoMigrate bool
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Log struct {
		Level  string
		Format string
	}

	Mail struct {
		// Transport selects the outbound backend: smtp, webhook or console.
		Transport   string
		SMTPHost    string
		SMTPPort    int
		SMTPUser    string
		SMTPPass    string
		WebhookURL  string
		WebhookKey  string
		SendTimeout time.Duration
	}

	Notify struct {
		FromEmail  string
		AdminEmail string
		OwnerName  string
		OwnerTitle string
	}

	Queue struct {
		// Driver selects the broker: redis or memory.
		Driver         string
		Name           string
		EnqueueTimeout time.Duration
		MaxAttempts    int
		RetryBackoff   time.Duration
		JobTimeout     time.Duration
		PollInterval   time.Duration
	}

	Worker struct {
		// Embedded runs the job pool and reminder scheduler inside the API process.
		Embedded          bool
		Concurrency       int
		ReminderWorkers   int
		PerMessageTimeout time.Duration
	}

	Reminder struct {
		Hour         int
		Minute       int
		Location     string
		Lead         time.Duration
		Window       time.Duration
		BatchTimeout time.Duration
	}

	Schedule struct {
		DefaultTimezone string
	}

	RateLimit struct {
		PerMinute int
		Burst     int
	}

	CORS struct {
		AllowedOrigins string
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "Portfolio Backend API")
	cfg.App.Version = getEnv("APP_VERSION", "1.0.0")
	cfg.App.Env = getEnv("APP_ENV", "development")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "db")
	cfg.DB.Port = getInt("DB_PORT", 5432)
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "123456")
	cfg.DB.Name = getEnv("DB_NAME", "db_portfolio")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.AutoMigrate = getBool("DB_AUTO_MIGRATE", true)

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "redis:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// Logging
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// Mail
	cfg.Mail.Transport = strings.ToLower(getEnv("MAIL_TRANSPORT", "console"))
	cfg.Mail.SMTPHost = getEnv("SMTP_HOST", "smtp.gmail.com")
	cfg.Mail.SMTPPort = getInt("SMTP_PORT", 587)
	cfg.Mail.SMTPUser = getEnv("SMTP_USER", "")
	cfg.Mail.SMTPPass = getEnv("SMTP_PASSWORD", "")
	cfg.Mail.WebhookURL = getEnv("MAIL_WEBHOOK_URL", "")
	cfg.Mail.WebhookKey = getEnv("MAIL_WEBHOOK_KEY", "")
	cfg.Mail.SendTimeout = getDuration("MAIL_SEND_TIMEOUT", 10*time.Second)

	// Notification addresses
	cfg.Notify.FromEmail = getEnv("DEFAULT_FROM_EMAIL", "no-reply@localhost")
	cfg.Notify.AdminEmail = getEnv("ADMIN_EMAIL", "admin@localhost")
	cfg.Notify.OwnerName = getEnv("OWNER_NAME", "Portfolio Owner")
	cfg.Notify.OwnerTitle = getEnv("OWNER_TITLE", "Full Stack Software Engineer")

	// Task queue
	cfg.Queue.Driver = strings.ToLower(getEnv("QUEUE_DRIVER", "redis"))
	cfg.Queue.Name = getEnv("QUEUE_NAME", "notifications")
	cfg.Queue.EnqueueTimeout = getDuration("QUEUE_ENQUEUE_TIMEOUT", 2*time.Second)
	cfg.Queue.MaxAttempts = getInt("QUEUE_MAX_ATTEMPTS", 3)
	cfg.Queue.RetryBackoff = getDuration("QUEUE_RETRY_BACKOFF", 60*time.Second)
	cfg.Queue.JobTimeout = getDuration("QUEUE_JOB_TIMEOUT", 30*time.Second)
	cfg.Queue.PollInterval = getDuration("QUEUE_POLL_INTERVAL", time.Second)

	// Workers
	cfg.Worker.Embedded = getBool("WORKER_EMBEDDED", true)
	cfg.Worker.Concurrency = getInt("WORKER_CONCURRENCY", 4)
	cfg.Worker.ReminderWorkers = getInt("REMINDER_MAX_WORKERS", 4)
	cfg.Worker.PerMessageTimeout = getDuration("REMINDER_PER_MESSAGE_TIMEOUT", 15*time.Second)

	// Daily reminder scan
	cfg.Reminder.Hour = getInt("REMINDER_HOUR", 9)
	cfg.Reminder.Minute = getInt("REMINDER_MINUTE", 0)
	cfg.Reminder.Location = getEnv("REMINDER_LOCATION", "UTC")
	cfg.Reminder.Lead = getDuration("REMINDER_LEAD", 24*time.Hour)
	cfg.Reminder.Window = getDuration("REMINDER_WINDOW", 24*time.Hour)
	cfg.Reminder.BatchTimeout = getDuration("REMINDER_BATCH_TIMEOUT", 5*time.Minute)

	// Call schedules
	cfg.Schedule.DefaultTimezone = getEnv("SCHEDULE_DEFAULT_TIMEZONE", "UTC")

	// Public endpoint protection
	cfg.RateLimit.PerMinute = getInt("RATE_LIMIT_PER_MINUTE", 20)
	cfg.RateLimit.Burst = getInt("RATE_LIMIT_BURST", 5)
	cfg.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", "*")

	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return isTruthy(v)
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.API.Host, c.API.Port)
}

// ReminderLocation resolves the reminder trigger time zone, falling back to UTC.
func (c *Config) ReminderLocation() *time.Location {
	loc, err := time.LoadLocation(c.Reminder.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}
