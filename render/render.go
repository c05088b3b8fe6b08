// Package render assembles the payload handed to an external document
// renderer for a quotation. Totals are recomputed from the stored line
// items and charge flags rather than trusting the stored total.
package render

import (
	"context"
	"fmt"

	"cotizador/db"
	"cotizador/quote"
)

// Storer is the store dependency needed to assemble a Document.
type Storer interface {
	QuoteGet(ctx context.Context, quoteID string) (*db.Quote, []quote.LineItem, error)
	ClientGet(ctx context.Context, id int64) (*db.Client, error)
}

// Document is the full payload for rendering a quotation or invoice.
type Document struct {
	Quote  db.Quote         `json:"quote"`
	Client db.Client        `json:"client"`
	Items  []quote.LineItem `json:"items"`
	Totals quote.Totals     `json:"totals"`
}

// NewDocument assembles the rendering payload for the given quote.
func NewDocument(ctx context.Context, store Storer, quoteID string) (*Document, error) {
	q, items, err := store.QuoteGet(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("document quote error: %w", err)
	}
	client, err := store.ClientGet(ctx, q.ClientID)
	if err != nil {
		return nil, fmt.Errorf("document client error: %w", err)
	}
	return &Document{
		Quote:  *q,
		Client: *client,
		Items:  items,
		Totals: quote.CalculateTotals(items, q.IncludedCharges),
	}, nil
}
