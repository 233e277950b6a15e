// Package response provides small helpers for writing JSON API responses
// with a consistent envelope structure.
package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// JSONResponse is the common response envelope for all API endpoints.
type JSONResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Data      any        `json:"data,omitempty"`
	Page      *Page      `json:"pagination,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// Page describes one window of a listing. NextOffset is set only when more
// rows follow.
type Page struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
	NextOffset *int `json:"next_offset,omitempty"`
}

// Paginate trims items fetched with limit+1 back to limit and reports
// whether another page exists.
func Paginate[T any](items []T, limit, offset int) ([]T, Page) {
	p := Page{Limit: limit, Offset: offset}
	if len(items) > limit {
		items = items[:limit]
		next := offset + limit
		p.HasMore = true
		p.NextOffset = &next
	}
	return items, p
}

// ErrorBody holds details about an API error. Fields is set for
// validation failures and maps each field to its messages.
type ErrorBody struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// RespondJSON writes a successful JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	RespondMessage(w, status, "", payload)
}

// RespondMessage is RespondJSON with a human-readable message.
func RespondMessage(w http.ResponseWriter, status int, msg string, payload any) {
	resp := JSONResponse{
		Success:   true,
		Message:   msg,
		Data:      payload,
		Timestamp: now(),
	}
	writeJSON(w, status, resp)
}

// RespondPage writes a listing together with its pagination window.
func RespondPage(w http.ResponseWriter, status int, payload any, page Page) {
	resp := JSONResponse{
		Success:   true,
		Data:      payload,
		Page:      &page,
		Timestamp: now(),
	}
	writeJSON(w, status, resp)
}

// RespondError writes an error JSON response with the given status code and message.
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondFieldErrors(w, status, msg, nil)
}

// RespondFieldErrors writes an error response carrying per-field messages.
func RespondFieldErrors(w http.ResponseWriter, status int, msg string, fields map[string][]string) {
	resp := JSONResponse{
		Success: false,
		Error: &ErrorBody{
			Code:    status,
			Message: msg,
			Fields:  fields,
		},
		Timestamp: now(),
	}
	writeJSON(w, status, resp)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// writeJSON encodes v as JSON and writes it to the response writer.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
