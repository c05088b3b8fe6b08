package db

// clients.go deals with client-related database calls.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Client is a company a quote can be issued to. Only the company name is
// required.
type Client struct {
	ID          int64  `db:"id" json:"id"`
	CompanyName string `db:"company_name" json:"company_name"`
	ContactName string `db:"contact_name" json:"contact_name"`
	Email       string `db:"email" json:"email"`
	Phone       string `db:"phone" json:"phone"`
	Address     string `db:"address" json:"address"`
	TaxID       string `db:"tax_id" json:"tax_id"`
	Notes       string `db:"notes" json:"notes"`
}

func (c Client) namedArgs() map[string]any {
	return map[string]any{
		"id":           c.ID,
		"company_name": c.CompanyName,
		"contact_name": c.ContactName,
		"email":        c.Email,
		"phone":        c.Phone,
		"address":      c.Address,
		"tax_id":       c.TaxID,
		"notes":        c.Notes,
	}
}

// ClientAdd inserts a new client and returns its id.
func (db *DB) ClientAdd(ctx context.Context, c Client) (int64, error) {
	if c.CompanyName == "" {
		return 0, errors.New("client company name is required")
	}
	res, err := db.clientInsertStmt.ExecContext(ctx, c.namedArgs())
	if err != nil {
		return 0, fmt.Errorf("client insert error: %w", err)
	}
	return res.LastInsertId()
}

// ClientUpdate updates an existing client's details.
func (db *DB) ClientUpdate(ctx context.Context, c Client) error {
	if c.CompanyName == "" {
		return errors.New("client company name is required")
	}
	res, err := db.clientUpdateStmt.ExecContext(ctx, c.namedArgs())
	if err != nil {
		return fmt.Errorf("client update error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClientGet retrieves a client by id, returning ErrNotFound if absent.
func (db *DB) ClientGet(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := db.clientGetStmt.GetContext(ctx, &c, map[string]any{"id": id})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client get error: %w", err)
	}
	return &c, nil
}

// Clients lists all clients ordered by company name.
func (db *DB) Clients(ctx context.Context) ([]Client, error) {
	var clients []Client
	err := db.clientsStmt.SelectContext(ctx, &clients, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("clients select error: %w", err)
	}
	return clients, nil
}

// ClientSearch finds clients whose company name, contact name, email or
// phone contains the search term.
func (db *DB) ClientSearch(ctx context.Context, term string) ([]Client, error) {
	var clients []Client
	err := db.clientSearchStmt.SelectContext(ctx, &clients, map[string]any{
		"pattern": "%" + term + "%",
	})
	if err != nil {
		return nil, fmt.Errorf("client search error: %w", err)
	}
	return clients, nil
}

// ClientDelete removes a client together with all of its quotes and their
// line items. Deletion order satisfies the referential relationships:
// line items, then quotes, then the client row.
func (db *DB) ClientDelete(ctx context.Context, id int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after commit.

	_, err = tx.ExecContext(ctx,
		`DELETE FROM quote_items WHERE quote_id IN (SELECT quote_id FROM quotes WHERE client_id = ?)`, id)
	if err != nil {
		return fmt.Errorf("client delete items error: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM quotes WHERE client_id = ?`, id); err != nil {
		return fmt.Errorf("client delete quotes error: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id); err != nil {
		return fmt.Errorf("client delete error: %w", err)
	}
	return tx.Commit()
}
