package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/oggyb/portfolio-backend/internal/response"
	"github.com/sirupsen/logrus"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// HomeHandler serves the root metadata and health endpoints.
type HomeHandler struct {
	name    string
	version string
	checks  map[string]Check
	broker  queue.Broker
	stats   *queue.Stats
	log     logrus.FieldLogger
}

// NewHomeHandler returns a new HomeHandler. broker and stats may be nil.
func NewHomeHandler(
	name, version string,
	checks map[string]Check,
	broker queue.Broker,
	stats *queue.Stats,
	log logrus.FieldLogger,
) *HomeHandler {
	return &HomeHandler{
		name:    name,
		version: version,
		checks:  checks,
		broker:  broker,
		stats:   stats,
		log:     log.WithField("component", "health"),
	}
}

// Index godoc
// @Summary     Service metadata
// @Description Returns the service name, version and endpoint map.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.IndexResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.IndexPayload{
		Name:    h.name,
		Version: h.version,
		Endpoints: map[string]string{
			"contact":       "/api/contact/",
			"schedule_call": "/api/schedule-call/",
			"upcoming":      "/api/schedule-call/upcoming/",
			"health":        "/health",
			"docs":          "/swagger/index.html",
		},
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Health godoc
// @Summary     Health check
// @Description Checks the database, cache, broker and mail transport, and reports job counters.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Failure     503 {object} response.HealthResponse
// @Router      /health [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	payload := response.HealthPayload{
		Status: "ok",
		Checks: make(map[string]string, len(h.checks)),
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.WithError(err).WithField("check", name).Warn("health check failed")
			payload.Checks[name] = "error: " + err.Error()
			payload.Status = "degraded"
			continue
		}
		payload.Checks[name] = "ok"
	}

	if h.broker != nil {
		q := &response.QueueHealth{}
		if ready, delayed, err := h.broker.Len(ctx); err == nil {
			q.Ready, q.Delayed = ready, delayed
		}
		if jobs, err := h.stats.Snapshot(ctx); err == nil {
			q.Jobs = jobs
		}
		payload.Queue = q
	}

	status := http.StatusOK
	if payload.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.RespondJSON(w, status, payload)
}
