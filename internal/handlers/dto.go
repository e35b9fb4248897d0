package handlers

import (
	"time"

	"moodjournal/internal/services"
)

// entryRequest is the body of create and update. Whitespace-only values are
// rejected by the service.
type entryRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=20000"`
}

func (req entryRequest) input() services.EntryInput {
	return services.EntryInput{Title: req.Title, Content: req.Content}
}

type recapResponse struct {
	RecapText   string `json:"recapText"`
	GeneratedAt string `json:"generatedAt"`
	Stale       bool   `json:"stale"`
}

func toRecapResponse(r services.RecapResult) recapResponse {
	return recapResponse{
		RecapText:   r.RecapText,
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339Nano),
		Stale:       r.Stale,
	}
}
