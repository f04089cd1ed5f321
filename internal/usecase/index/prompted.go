package index

import (
	"context"

	"pdfchat/internal/domain"
)

type Querier interface {
	Query(ctx context.Context, text string) (*domain.Response, error)
}

// Prompted puts a textual prompt in front of every query sent to an index.
type Prompted struct {
	inner Querier
}

func WithPrompt(inner Querier) *Prompted {
	return &Prompted{inner: inner}
}

// Query forwards prompt+queryText, with no separator, to the wrapped index.
func (p *Prompted) Query(ctx context.Context, queryText, prompt string) (*domain.Response, error) {
	return p.inner.Query(ctx, prompt+queryText)
}
