package handler

import (
	"net/http"
	"strings"

	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/request"
	"github.com/oggyb/portfolio-backend/internal/response"
	"github.com/oggyb/portfolio-backend/internal/service"
	"github.com/sirupsen/logrus"
)

// ScheduleHandler wires the call-scheduling endpoints to the schedule service.
type ScheduleHandler struct {
	svc service.ScheduleService
	log logrus.FieldLogger
}

func NewScheduleHandler(svc service.ScheduleService, log logrus.FieldLogger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, log: log.WithField("component", "schedule_handler")}
}

// Create godoc
// @Summary     Schedule a call
// @Description Validates and stores a call request. The date and time, read in the given time zone, must be in the future.
// @Tags        schedule-call
// @Accept      json
// @Produce     json
// @Param       request body request.ScheduleCallRequest true "Call request"
// @Success     201 {object} response.CallScheduleResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     429 {object} response.ErrorResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /api/schedule-call/ [post]
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ScheduleCallRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.svc.Submit(r.Context(), req.Submission())
	if err != nil {
		respondErr(w, h.log, err, schedule.ErrNotFound, "call schedule")
		return
	}

	response.RespondMessage(w, http.StatusCreated,
		"Your call has been scheduled successfully! You will receive a confirmation email shortly.",
		response.FromCallSchedule(c, h.svc.Now()))
}

// List godoc
// @Summary     List call schedules
// @Description Returns call schedules ordered by preferred date and time.
// @Tags        schedule-call
// @Produce     json
// @Param       status query string false "Comma-separated statuses (pending,confirmed,completed,cancelled)"
// @Param       limit  query int    false "Page size (max 200)" default(50)
// @Param       offset query int    false "Items to skip"       default(0)
// @Success     200 {object} response.CallSchedulesResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /api/schedule-call/ [get]
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.Page(r)
	f := schedule.ListFilter{Limit: limit + 1, Offset: offset}

	if v := r.URL.Query().Get("status"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			st, err := schedule.ParseStatus(raw)
			if err != nil {
				response.RespondError(w, http.StatusBadRequest, err.Error())
				return
			}
			f.Statuses = append(f.Statuses, st)
		}
	}

	calls, err := h.svc.List(r.Context(), f)
	if err != nil {
		respondErr(w, h.log, err, schedule.ErrNotFound, "call schedule")
		return
	}

	calls, page := response.Paginate(calls, limit, offset)
	response.RespondPage(w, http.StatusOK, response.FromCallSchedules(calls, h.svc.Now()), page)
}

// Upcoming godoc
// @Summary     List upcoming calls
// @Description Returns pending or confirmed calls dated today or later.
// @Tags        schedule-call
// @Produce     json
// @Param       limit  query int false "Page size (max 200)" default(50)
// @Param       offset query int false "Items to skip"       default(0)
// @Success     200 {object} response.CallSchedulesResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /api/schedule-call/upcoming/ [get]
func (h *ScheduleHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.Page(r)

	calls, err := h.svc.Upcoming(r.Context(), limit+1, offset)
	if err != nil {
		respondErr(w, h.log, err, schedule.ErrNotFound, "call schedule")
		return
	}

	calls, page := response.Paginate(calls, limit, offset)
	response.RespondPage(w, http.StatusOK, response.FromCallSchedules(calls, h.svc.Now()), page)
}

// Get godoc
// @Summary     Get a call schedule
// @Tags        schedule-call
// @Produce     json
// @Param       id path string true "Call schedule ID (UUID)"
// @Success     200 {object} response.CallScheduleResponse
// @Failure     404 {object} response.ErrorResponse
// @Router      /api/schedule-call/{id}/ [get]
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, h.log, err, schedule.ErrNotFound, "call schedule")
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondErr(w, h.log, err, schedule.ErrNotFound, "call schedule")
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromCallSchedule(c, h.svc.Now()))
}
