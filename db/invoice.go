package db

// invoice.go implements the one-way Draft to Invoiced conversion.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cotizador/quote"
)

// QuoteInvoice converts a Draft quote into an Invoice, renaming its
// identifier from COT- to INV- across the quote and all of its line items,
// and returns the effective identifier.
//
// The conversion is idempotent against partial prior conversions: if a
// quote already exists under the derived INV- identifier, only the status
// of the record at quoteID is updated and quoteID is returned unchanged,
// avoiding a duplicate-key violation. Otherwise the line items are renamed
// first, then the quote row itself, all inside a single transaction so a
// crash cannot leave line items pointing at a quote identifier with no
// quote row. A retry with the pre-conversion identifier of a fully
// converted quote resolves to the invoice identifier without error.
//
// Converting a quote that is already Invoiced returns
// quote.ErrAlreadyInvoiced.
func (db *DB) QuoteInvoice(ctx context.Context, quoteID string) (string, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback() // no-op after commit.

	candidateID := quote.InvoiceID(quoteID)

	var q Quote
	err = tx.GetContext(ctx, &q,
		`SELECT quote_id, status FROM quotes WHERE quote_id = ?`, quoteID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("quote invoice get error: %w", err)
		}
		// The quote may already have been converted; a retry with the
		// old identifier resolves to the invoice identifier.
		var converted int
		err = tx.GetContext(ctx, &converted,
			`SELECT COUNT(*) FROM quotes WHERE quote_id = ?`, candidateID)
		if err != nil {
			return "", fmt.Errorf("quote invoice lookup error: %w", err)
		}
		if converted > 0 && candidateID != quoteID {
			return candidateID, nil
		}
		return "", ErrNotFound
	}
	if err := q.Status.Transition(quote.StatusInvoiced); err != nil {
		return "", err
	}

	var collisions int
	err = tx.GetContext(ctx, &collisions,
		`SELECT COUNT(*) FROM quotes WHERE quote_id = ?`, candidateID)
	if err != nil {
		return "", fmt.Errorf("quote invoice collision check error: %w", err)
	}
	if collisions > 0 {
		// A prior partial conversion left a quote at the invoice id;
		// update the status in place and keep the current identifier.
		_, err = tx.ExecContext(ctx,
			`UPDATE quotes SET status = ? WHERE quote_id = ?`,
			string(quote.StatusInvoiced), quoteID)
		if err != nil {
			return "", fmt.Errorf("quote invoice status update error: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return "", err
		}
		db.logger.Warn("invoice id collision; status updated in place",
			"quote_id", quoteID, "invoice_id", candidateID)
		return quoteID, nil
	}

	// Rename the line items before their parent quote. The quote_items
	// foreign key is deferred, so the intermediate state is legal within
	// the transaction.
	_, err = tx.ExecContext(ctx,
		`UPDATE quote_items SET quote_id = ? WHERE quote_id = ?`, candidateID, quoteID)
	if err != nil {
		return "", fmt.Errorf("quote invoice items rename error: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE quotes SET status = ?, quote_id = ? WHERE quote_id = ?`,
		string(quote.StatusInvoiced), candidateID, quoteID)
	if err != nil {
		return "", fmt.Errorf("quote invoice rename error: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	db.logger.Info("quote invoiced", "quote_id", quoteID, "invoice_id", candidateID)
	return candidateID, nil
}
