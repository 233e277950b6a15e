package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/response"
	"github.com/oggyb/portfolio-backend/internal/validation"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

var errBadID = errors.New("invalid id")

// decodeJSON reads a single JSON object from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}

// respondErr maps service errors to status codes. notFound is the domain's
// ErrNotFound sentinel.
func respondErr(w http.ResponseWriter, log logrus.FieldLogger, err error, notFound error, what string) {
	if errs, ok := validation.As(err); ok {
		response.RespondFieldErrors(w, http.StatusBadRequest, "validation failed", errs)
		return
	}
	if errors.Is(err, notFound) || errors.Is(err, errBadID) {
		response.RespondError(w, http.StatusNotFound, what+" not found")
		return
	}

	log.WithError(err).Error("request failed")
	response.RespondError(w, http.StatusInternalServerError, "internal server error")
}
