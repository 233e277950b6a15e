package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/oggyb/portfolio-backend/internal/app"
	"github.com/oggyb/portfolio-backend/internal/config"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/sirupsen/logrus"
)

var (
	topics    = []string{"Backend architecture review", "Freelance project", "Mentoring session", "Job opportunity"}
	timezones = []string{"UTC", "Europe/Istanbul", "Europe/Berlin", "America/New_York"}
)

func main() {
	contacts := flag.Int("contacts", 20, "number of contact messages to insert")
	calls := flag.Int("calls", 10, "number of call schedules to insert")
	flag.Parse()

	ctx := context.Background()

	// Load application configuration (DB, Redis, etc.) from env/.env.
	cfg := config.New()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("[Seed] startup failed")
	}
	defer a.Close()
	log := a.Log.WithField("component", "seed")

	if err := a.Migrate(); err != nil {
		log.WithError(err).Fatal("auto-migrate failed")
	}
	log.WithField("database", cfg.DB.Name).Info("schema is up to date")

	// Records go straight to the repositories so seeding sends no email.
	now := time.Now().UTC()

	for i := 1; i <= *contacts; i++ {
		m, err := contact.NewMessage(contact.Submission{
			Name:    fmt.Sprintf("Seed Visitor %d", i),
			Email:   fmt.Sprintf("visitor%d@example.com", i),
			Project: topics[rand.Intn(len(topics))],
			Message: fmt.Sprintf("Seed contact message #%d created at %s", i, now.Format(time.TimeOnly)),
		}, now)
		if err != nil {
			log.WithError(err).Fatalf("invalid seed contact #%d", i)
		}
		m.IsRead = rand.Intn(2) == 0

		if err := a.Contacts.Save(ctx, m); err != nil {
			log.WithError(err).Fatalf("failed to save contact #%d", i)
		}
		log.WithField("id", m.ID).Debug("created contact message")
	}

	for i := 1; i <= *calls; i++ {
		tz := timezones[rand.Intn(len(timezones))]
		day := now.AddDate(0, 0, 1+rand.Intn(14))

		c, err := schedule.NewCallSchedule(schedule.Submission{
			Name:          fmt.Sprintf("Seed Caller %d", i),
			Email:         fmt.Sprintf("caller%d@example.com", i),
			Phone:         fmt.Sprintf("+90 555 %03d %04d", rand.Intn(1000), rand.Intn(10000)),
			PreferredDate: day.Format(schedule.DateLayout),
			PreferredTime: fmt.Sprintf("%02d:%02d", 9+rand.Intn(9), 30*rand.Intn(2)),
			Timezone:      tz,
			Topic:         topics[rand.Intn(len(topics))],
		}, cfg.Schedule.DefaultTimezone, now)
		if err != nil {
			log.WithError(err).Fatalf("invalid seed call #%d", i)
		}

		if err := a.Schedules.Save(ctx, c); err != nil {
			log.WithError(err).Fatalf("failed to save call #%d", i)
		}
		log.WithField("id", c.ID).Debug("created call schedule")
	}

	log.WithFields(logrus.Fields{
		"contacts": *contacts,
		"calls":    *calls,
	}).Info("seeding done")
}
