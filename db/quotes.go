package db

// quotes.go deals with the quote lifecycle: creation with identifier
// allocation, retrieval, full-replacement update, cascade delete, listing
// and duplication. The Draft to Invoiced conversion is in invoice.go.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cotizador/quote"

	"github.com/jmoiron/sqlx"
)

// Quote is a persisted quotation header. Line items are stored separately
// in quote_items keyed by QuoteID.
type Quote struct {
	QuoteID         string            `db:"quote_id" json:"quote_id"`
	ClientID        int64             `db:"client_id" json:"client_id"`
	ProjectName     string            `db:"project_name" json:"project_name"`
	Date            string            `db:"date" json:"date"`
	TotalAmount     float64           `db:"total_amount" json:"total_amount"`
	Status          quote.Status      `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes"`
	IncludedCharges quote.ChargeFlags `db:"included_charges" json:"included_charges"`
}

// QuoteDraft is the value object carrying an in-progress quote through
// handlers. There is no ambient draft state; callers construct one
// explicitly for create and update.
type QuoteDraft struct {
	ClientID        int64             `json:"client_id"`
	ProjectName     string            `json:"project_name"`
	Items           []quote.LineItem  `json:"items"`
	Notes           string            `json:"notes"`
	IncludedCharges quote.ChargeFlags `json:"included_charges"`
}

// QuoteCreate allocates the next quote identifier for the current year and
// inserts the quote with status Draft together with all of its line items,
// in one transaction. The cached total_amount is the computed grand total.
//
// The identifier allocation reads the current maximum inside the same
// transaction, so two writers in this process cannot allocate the same id;
// no guarantee is made across processes.
func (db *DB) QuoteCreate(ctx context.Context, draft QuoteDraft) (string, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback() // no-op after commit.

	year := time.Now().Year()
	quoteID, err := db.nextQuoteID(ctx, tx, year)
	if err != nil {
		return "", err
	}

	totals := quote.CalculateTotals(draft.Items, draft.IncludedCharges)
	q := Quote{
		QuoteID:         quoteID,
		ClientID:        draft.ClientID,
		ProjectName:     draft.ProjectName,
		Date:            time.Now().Format("2006-01-02"),
		TotalAmount:     totals.GrandTotal,
		Status:          quote.StatusDraft,
		Notes:           draft.Notes,
		IncludedCharges: draft.IncludedCharges,
	}

	stmt := tx.NamedStmtContext(ctx, db.quoteInsertStmt)
	if _, err := stmt.ExecContext(ctx, quoteNamedArgs(q)); err != nil {
		return "", fmt.Errorf("quote insert error: %w", err)
	}
	if err := insertItems(ctx, tx, db.itemInsertStmt, quoteID, draft.Items); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	db.logger.Info("quote created", "quote_id", quoteID, "client_id", draft.ClientID)
	return quoteID, nil
}

// QuoteGet retrieves a quote and its line items, returning ErrNotFound if
// no quote exists under the given identifier.
func (db *DB) QuoteGet(ctx context.Context, quoteID string) (*Quote, []quote.LineItem, error) {
	var q Quote
	err := db.quoteGetStmt.GetContext(ctx, &q, map[string]any{"quote_id": quoteID})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("quote get error: %w", err)
	}
	var items []quote.LineItem
	err = db.itemsGetStmt.SelectContext(ctx, &items, map[string]any{"quote_id": quoteID})
	if err != nil {
		return nil, nil, fmt.Errorf("quote items select error: %w", err)
	}
	return &q, items, nil
}

// QuoteUpdate rewrites the quote's scalar fields and replaces the complete
// line item set (delete then insert); callers must resupply every item.
// The client a quote belongs to never changes on update.
func (db *DB) QuoteUpdate(ctx context.Context, quoteID string, draft QuoteDraft) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after commit.

	totals := quote.CalculateTotals(draft.Items, draft.IncludedCharges)
	charges, err := draft.IncludedCharges.Value()
	if err != nil {
		return err
	}
	stmt := tx.NamedStmtContext(ctx, db.quoteUpdateStmt)
	res, err := stmt.ExecContext(ctx, map[string]any{
		"quote_id":         quoteID,
		"project_name":     draft.ProjectName,
		"notes":            draft.Notes,
		"included_charges": charges,
		"total_amount":     totals.GrandTotal,
	})
	if err != nil {
		return fmt.Errorf("quote update error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	del := tx.NamedStmtContext(ctx, db.itemsDeleteStmt)
	if _, err := del.ExecContext(ctx, map[string]any{"quote_id": quoteID}); err != nil {
		return fmt.Errorf("quote items delete error: %w", err)
	}
	if err := insertItems(ctx, tx, db.itemInsertStmt, quoteID, draft.Items); err != nil {
		return err
	}
	return tx.Commit()
}

// QuoteDelete removes a quote and its line items, items first to satisfy
// the referential relationship. Deleting an absent quote is not an error.
func (db *DB) QuoteDelete(ctx context.Context, quoteID string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after commit.

	del := tx.NamedStmtContext(ctx, db.itemsDeleteStmt)
	if _, err := del.ExecContext(ctx, map[string]any{"quote_id": quoteID}); err != nil {
		return fmt.Errorf("quote items delete error: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM quotes WHERE quote_id = ?`, quoteID); err != nil {
		return fmt.Errorf("quote delete error: %w", err)
	}
	return tx.Commit()
}

// QuotesForClient lists a client's quotes, most recent date first.
func (db *DB) QuotesForClient(ctx context.Context, clientID int64) ([]Quote, error) {
	var quotes []Quote
	err := db.quotesForClientStmt.SelectContext(ctx, &quotes, map[string]any{"client_id": clientID})
	if err != nil {
		return nil, fmt.Errorf("quotes for client select error: %w", err)
	}
	return quotes, nil
}

// QuoteDuplicate creates a fresh Draft copy of an existing quote under a
// newly allocated identifier, noting the source quote in the copy's notes.
func (db *DB) QuoteDuplicate(ctx context.Context, quoteID string) (string, error) {
	q, items, err := db.QuoteGet(ctx, quoteID)
	if err != nil {
		return "", err
	}
	notes := fmt.Sprintf("Copied from %s", quoteID)
	if q.Notes != "" {
		notes = fmt.Sprintf("%s\n\n%s", q.Notes, notes)
	}
	return db.QuoteCreate(ctx, QuoteDraft{
		ClientID:        q.ClientID,
		ProjectName:     q.ProjectName,
		Items:           items,
		Notes:           notes,
		IncludedCharges: q.IncludedCharges,
	})
}

// nextQuoteID allocates the next quote identifier for the year within tx.
func (db *DB) nextQuoteID(ctx context.Context, tx *sqlx.Tx, year int) (string, error) {
	var existing []string
	stmt := tx.NamedStmtContext(ctx, db.quoteMaxIDStmt)
	var max string
	err := stmt.GetContext(ctx, &max, map[string]any{
		"pattern": fmt.Sprintf("%s%d-%%", quote.QuotePrefix, year),
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first quote of the year
	case err != nil:
		return "", fmt.Errorf("quote id allocation error: %w", err)
	default:
		existing = append(existing, max)
	}
	return quote.NextQuoteID(year, existing), nil
}

// insertItems inserts the full line item set for a quote within tx.
func insertItems(ctx context.Context, tx *sqlx.Tx, insertStmt *sqlx.NamedStmt, quoteID string, items []quote.LineItem) error {
	stmt := tx.NamedStmtContext(ctx, insertStmt)
	for _, li := range items {
		_, err := stmt.ExecContext(ctx, map[string]any{
			"quote_id":       quoteID,
			"product_name":   li.ProductName,
			"quantity":       li.Quantity,
			"unit_price":     li.UnitPrice,
			"discount_type":  li.DiscountType,
			"discount_value": li.DiscountValue,
			"auto_imported":  li.AutoImported,
		})
		if err != nil {
			return fmt.Errorf("quote item insert error for %q: %w", li.ProductName, err)
		}
	}
	return nil
}

func quoteNamedArgs(q Quote) map[string]any {
	charges, _ := q.IncludedCharges.Value()
	return map[string]any{
		"quote_id":         q.QuoteID,
		"client_id":        q.ClientID,
		"project_name":     q.ProjectName,
		"date":             q.Date,
		"total_amount":     q.TotalAmount,
		"status":           string(q.Status),
		"notes":            q.Notes,
		"included_charges": charges,
	}
}
