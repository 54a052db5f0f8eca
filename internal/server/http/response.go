package httpserver

import (
	"github.com/helixir/medline-fetcher/internal/domain"
)

// Response types for JSON serialization.

type searchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Entries []*domain.Entry `json:"entries"`
}

type entryResponse struct {
	Entry *domain.Entry `json:"entry"`
}
