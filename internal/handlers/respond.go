package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	mw "moodjournal/internal/middleware"
	"moodjournal/internal/models"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors onto HTTP statuses. Server-side failures
// are logged with the request and user ids; their details never reach the
// client.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Errors})
		return
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	case errors.Is(err, models.ErrNoRecentEntries):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "no entries found in the recap window"})
		return
	case errors.Is(err, models.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, models.ErrGeneratorUnavailable):
		status, msg = http.StatusBadGateway, "recap generator unavailable"
	case errors.Is(err, models.ErrUpstream):
		status, msg = http.StatusBadGateway, "could not generate recap"
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "timed out"
	}

	userID, _ := mw.UserIDFrom(r.Context())
	log.Error("request failed",
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("user_id", userID),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	writeJSON(w, status, errorResponse{Error: msg})
}
