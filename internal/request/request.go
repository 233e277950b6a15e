// Package request holds the JSON bodies accepted by the API and the
// parsing of shared query parameters.
package request

import (
	"net/http"
	"strconv"

	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
)

// ContactRequest is the body of POST /api/contact/.
type ContactRequest struct {
	Name    string `json:"name" example:"Jo Lee"`
	Email   string `json:"email" example:"jo@example.com"`
	Project string `json:"project,omitempty" example:"API redesign"`
	Message string `json:"message" example:"Interested in your backend work"`
}

func (r ContactRequest) Submission() contact.Submission {
	return contact.Submission{
		Name:    r.Name,
		Email:   r.Email,
		Project: r.Project,
		Message: r.Message,
	}
}

// ScheduleCallRequest is the body of POST /api/schedule-call/.
type ScheduleCallRequest struct {
	Name          string `json:"name" example:"Jo Lee"`
	Email         string `json:"email" example:"jo@example.com"`
	Phone         string `json:"phone" example:"+1 555 123 4567"`
	PreferredDate string `json:"preferred_date" example:"2030-06-16"`
	PreferredTime string `json:"preferred_time" example:"14:30"`
	Timezone      string `json:"timezone,omitempty" example:"Europe/Istanbul"`
	Topic         string `json:"topic" example:"Backend consulting"`
	Message       string `json:"message,omitempty"`
}

func (r ScheduleCallRequest) Submission() schedule.Submission {
	return schedule.Submission{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		PreferredDate: r.PreferredDate,
		PreferredTime: r.PreferredTime,
		Timezone:      r.Timezone,
		Topic:         r.Topic,
		Message:       r.Message,
	}
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Page reads limit and offset from the query string. Invalid values fall
// back to the defaults. Handlers fetch limit+1 rows to detect a next page.
func Page(r *http.Request) (limit, offset int) {
	limit = DefaultLimit

	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = min(v, MaxLimit)
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
