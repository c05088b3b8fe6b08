package db

// products.go deals with the product catalog.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Product is a catalog entry. Names are unique; a duplicate insert is a
// recoverable ErrProductExists outcome, never a raw constraint error.
type Product struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
}

func (p Product) namedArgs() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"unit_price":  p.UnitPrice,
	}
}

// ProductAdd inserts a catalog entry, returning ErrProductExists when the
// name is already taken.
func (db *DB) ProductAdd(ctx context.Context, p Product) (int64, error) {
	res, err := db.productInsertStmt.ExecContext(ctx, p.namedArgs())
	if isUniqueViolation(err) {
		return 0, ErrProductExists
	}
	if err != nil {
		return 0, fmt.Errorf("product insert error: %w", err)
	}
	return res.LastInsertId()
}

// ProductUpdate updates a catalog entry. Renaming onto an existing name
// returns ErrProductExists.
func (db *DB) ProductUpdate(ctx context.Context, p Product) error {
	res, err := db.productUpdateStmt.ExecContext(ctx, p.namedArgs())
	if isUniqueViolation(err) {
		return ErrProductExists
	}
	if err != nil {
		return fmt.Errorf("product update error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ProductDelete removes a catalog entry.
func (db *DB) ProductDelete(ctx context.Context, id int64) error {
	_, err := db.productDeleteStmt.ExecContext(ctx, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("product delete error: %w", err)
	}
	return nil
}

// Products lists the catalog ordered by name.
func (db *DB) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	err := db.productsStmt.SelectContext(ctx, &products, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("products select error: %w", err)
	}
	return products, nil
}

// ProductByName retrieves a catalog entry by its unique name.
func (db *DB) ProductByName(ctx context.Context, name string) (*Product, error) {
	var p Product
	err := db.productByNameStmt.GetContext(ctx, &p, map[string]any{"name": name})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product get error: %w", err)
	}
	return &p, nil
}

// ProductUpsertByName inserts the product or, if the name already exists,
// updates its description and price. It reports whether a new row was
// added. Used by the catalog sync.
func (db *DB) ProductUpsertByName(ctx context.Context, name, description string, unitPrice float64) (bool, error) {
	existing, err := db.ProductByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		_, err := db.ProductAdd(ctx, Product{Name: name, Description: description, UnitPrice: unitPrice})
		if err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}
	existing.Description = description
	existing.UnitPrice = unitPrice
	if err := db.ProductUpdate(ctx, *existing); err != nil {
		return false, err
	}
	return false, nil
}
