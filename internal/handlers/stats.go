package handlers

import "net/http"

// Daily returns the caller's per-day average score and mood, oldest day first.
func (h *EntryHandler) Daily(w http.ResponseWriter, r *http.Request) {
	daily, err := h.svc.Daily(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, daily)
}

func (h *EntryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
