package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/portfolio-backend/internal/app"
	"github.com/oggyb/portfolio-backend/internal/config"
	"github.com/oggyb/portfolio-backend/internal/handler"
	"github.com/oggyb/portfolio-backend/internal/middleware"
	routes "github.com/oggyb/portfolio-backend/internal/router"
	"github.com/oggyb/portfolio-backend/internal/scheduler"
	"github.com/oggyb/portfolio-backend/internal/server"
	"github.com/sirupsen/logrus"
)

// @title        Portfolio Backend API
// @version      1.0
// @description  Contact form and call scheduling API with email notifications.
// @host         localhost:8080
// @BasePath     /
func main() {
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()

	a, err := app.New(rootCtx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("startup failed")
	}
	defer a.Close()
	log := a.Log

	if cfg.DB.AutoMigrate {
		if err := a.Migrate(); err != nil {
			log.WithError(err).Fatal("auto-migrate failed")
		}
		log.Info("database schema is up to date")
	}

	// HTTP dependencies & server wiring.
	limiter := middleware.NewLimiterStore(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, time.Minute)
	defer limiter.Stop()

	deps := routes.AppDeps{
		Home:     handler.NewHomeHandler(cfg.App.Name, cfg.App.Version, a.HealthChecks(), a.Broker, a.Stats, log),
		Contact:  handler.NewContactHandler(a.ContactService, log),
		Schedule: handler.NewScheduleHandler(a.ScheduleService, log),
		Limit:    middleware.RateLimit(limiter),
	}
	srv := server.New(cfg.Addr(), deps, cfg.CORS.AllowedOrigins, log)

	// Cancelled on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.Addr()).Info("HTTP server listening")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	// Embedded workers share the process with the API.
	var (
		cron     scheduler.SchedulerService
		poolDone chan struct{}
	)
	poolCtx, cancelPool := context.WithCancel(rootCtx)
	defer cancelPool()

	if cfg.Worker.Embedded {
		pool := a.NewPool()
		poolDone = make(chan struct{})
		go func() {
			defer close(poolDone)
			if err := pool.Run(poolCtx); err != nil {
				log.WithError(err).Error("worker pool stopped with error")
			}
		}()

		cron = a.NewReminderScheduler()
		if err := cron.Start(); err != nil {
			log.WithError(err).Fatal("reminder scheduler error")
		}
	}

	<-ctx.Done()
	log.Info("shutdown signal received, starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server graceful shutdown failed")
	}

	if cron != nil {
		if err := cron.Stop(); err != nil {
			log.WithError(err).Warn("reminder scheduler did not stop cleanly")
		}
	}
	if poolDone != nil {
		cancelPool()
		select {
		case <-poolDone:
		case <-shutdownCtx.Done():
			log.Warn("worker pool did not stop before the shutdown deadline")
		}
	}

	log.Info("shutdown complete")
}
