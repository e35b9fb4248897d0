package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store pinger
	// breakerState is optional and reports the recap provider circuit.
	breakerState func() string
	log          *zap.Logger
}

func NewHealthHandler(store pinger, breakerState func() string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, breakerState: breakerState, log: log}
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the store answers. The recap provider is informational
// only; the API stays usable while it is down.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]string{"status": "ok", "store": "ok"}
	if h.breakerState != nil {
		body["recapGenerator"] = h.breakerState()
	}
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("readiness check failed", zap.Error(err))
		body["status"], body["store"] = "unavailable", "unreachable"
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	writeJSON(w, http.StatusOK, body)
}
