package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	mw "moodjournal/internal/middleware"
	"moodjournal/internal/models"
	"moodjournal/internal/services"
)

type entryService interface {
	Create(ctx context.Context, userID string, in services.EntryInput) (models.Entry, error)
	Get(ctx context.Context, userID, id string) (models.Entry, error)
	List(ctx context.Context, userID string) ([]models.Entry, error)
	Update(ctx context.Context, userID, id string, in services.EntryInput) (models.Entry, error)
	Delete(ctx context.Context, userID, id string) error
	Daily(ctx context.Context, userID string) ([]models.DailyStat, error)
	Summary(ctx context.Context, userID string) (models.Summary, error)
}

type EntryHandler struct {
	svc entryService
	log *zap.Logger
}

func NewEntryHandler(svc entryService, log *zap.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: log}
}

// userID is set by RequireAuth on every route this package serves.
func userID(r *http.Request) string {
	id, _ := mw.UserIDFrom(r.Context())
	return id
}

// Create godoc
// @Summary Create a journal entry
// @Description Stores a new entry; mood and sentiment score are derived from the content
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body entryRequest true "Entry"
// @Success 201 {object} models.Entry
// @Failure 400 {object} errorResponse
// @Router /entries [post]
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	e, err := h.svc.Create(r.Context(), userID(r), req.input())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// List returns all entries of the caller, newest first.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Update godoc
// @Summary Replace an entry's title and content
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param entry body entryRequest true "Entry"
// @Success 200 {object} models.Entry
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /entries/{id} [put]
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	e, err := h.svc.Update(r.Context(), userID(r), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Entry deleted successfully"})
}
