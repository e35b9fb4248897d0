package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"moodjournal/internal/services"
)

type recapService interface {
	Get(ctx context.Context, userID string) (services.RecapResult, error)
	GetFresh(ctx context.Context, userID string) (services.RecapResult, error)
	Generate(ctx context.Context, userID string) (services.RecapResult, error)
}

type RecapHandler struct {
	svc recapService
	log *zap.Logger
}

func NewRecapHandler(svc recapService, log *zap.Logger) *RecapHandler {
	return &RecapHandler{svc: svc, log: log}
}

// Get returns the cached weekly recap. With ?fresh=1 a stale or missing recap
// is regenerated first.
func (h *RecapHandler) Get(w http.ResponseWriter, r *http.Request) {
	get := h.svc.Get
	if fresh, _ := strconv.ParseBool(r.URL.Query().Get("fresh")); fresh {
		get = h.svc.GetFresh
	}
	res, err := get(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecapResponse(res))
}

// Generate forces a new recap from the last week of entries.
// @Summary Generate a new weekly recap
// @Tags recap
// @Produce json
// @Security BearerAuth
// @Success 200 {object} recapResponse
// @Failure 422 {object} errorResponse "No entries in the recap window"
// @Failure 429 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /entries/generate_new_weekly_recap [get]
func (h *RecapHandler) Generate(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Generate(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecapResponse(res))
}
