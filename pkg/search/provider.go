package search

import "context"

// Result is a single reference found for a drafting query.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider is the reference-search collaborator the execution phase
// consults before drafting. Implementations are expected to be
// best-effort; the caller drafts without references on error.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// NoopProvider always returns no results. It stands in until a real
// search backend is configured.
type NoopProvider struct{}

func (NoopProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	return nil, nil
}
