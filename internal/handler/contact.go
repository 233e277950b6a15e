package handler

import (
	"net/http"
	"strconv"

	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/request"
	"github.com/oggyb/portfolio-backend/internal/response"
	"github.com/oggyb/portfolio-backend/internal/service"
	"github.com/sirupsen/logrus"
)

// ContactHandler wires the contact endpoints to the contact service.
type ContactHandler struct {
	svc service.ContactService
	log logrus.FieldLogger
}

func NewContactHandler(svc service.ContactService, log logrus.FieldLogger) *ContactHandler {
	return &ContactHandler{svc: svc, log: log.WithField("component", "contact_handler")}
}

// Create godoc
// @Summary     Submit a contact message
// @Description Validates and stores a contact-form message, then notifies the owner and the submitter by email.
// @Tags        contact
// @Accept      json
// @Produce     json
// @Param       request body request.ContactRequest true "Contact form"
// @Success     201 {object} response.ContactMessageResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     429 {object} response.ErrorResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /api/contact/ [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, err := h.svc.Submit(r.Context(), req.Submission())
	if err != nil {
		respondErr(w, h.log, err, contact.ErrNotFound, "contact message")
		return
	}

	response.RespondMessage(w, http.StatusCreated,
		"Thank you for your message! I will get back to you soon.",
		response.FromContactMessage(msg))
}

// List godoc
// @Summary     List contact messages
// @Description Returns contact messages, newest first.
// @Tags        contact
// @Produce     json
// @Param       is_read query bool false "Filter by read flag"
// @Param       limit   query int  false "Page size (max 200)" default(50)
// @Param       offset  query int  false "Items to skip"       default(0)
// @Success     200 {object} response.ContactMessagesResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /api/contact/ [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.Page(r)
	f := contact.ListFilter{Limit: limit + 1, Offset: offset}

	if v := r.URL.Query().Get("is_read"); v != "" {
		read, err := strconv.ParseBool(v)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "is_read must be true or false")
			return
		}
		f.IsRead = &read
	}

	msgs, err := h.svc.List(r.Context(), f)
	if err != nil {
		respondErr(w, h.log, err, contact.ErrNotFound, "contact message")
		return
	}

	msgs, page := response.Paginate(msgs, limit, offset)
	response.RespondPage(w, http.StatusOK, response.FromContactMessages(msgs), page)
}

// Get godoc
// @Summary     Get a contact message
// @Tags        contact
// @Produce     json
// @Param       id path string true "Message ID (UUID)"
// @Success     200 {object} response.ContactMessageResponse
// @Failure     404 {object} response.ErrorResponse
// @Router      /api/contact/{id}/ [get]
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, h.log, err, contact.ErrNotFound, "contact message")
		return
	}

	msg, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondErr(w, h.log, err, contact.ErrNotFound, "contact message")
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromContactMessage(msg))
}
