// Command worker runs the notification worker pool and the daily reminder
// scheduler without the HTTP API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/portfolio-backend/internal/app"
	"github.com/oggyb/portfolio-backend/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	remindNow := flag.Bool("remind-now", false, "run the reminder scan once and exit")
	flag.Parse()

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("startup failed")
	}
	defer a.Close()
	log := a.Log

	if *remindNow {
		runCtx, cancel := context.WithTimeout(ctx, cfg.Reminder.BatchTimeout)
		defer cancel()
		if err := a.ReminderService.ProcessBatch(runCtx); err != nil {
			log.WithError(err).Fatal("reminder scan failed")
		}
		return
	}

	cron := a.NewReminderScheduler()
	if err := cron.Start(); err != nil {
		log.WithError(err).Fatal("reminder scheduler error")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.NewPool().Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return cron.Stop()
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("worker stopped with error")
	}
	log.Info("worker stopped")
}
