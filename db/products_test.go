package db

// tests for product catalog database queries

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProductCRUD(t *testing.T) {

	testDB := setupTestDB(t)
	ctx := context.Background()

	p := Product{Name: "Steel Beam IPE 200", Description: "European standard I-beam", UnitPrice: 125.50}
	id, err := testDB.ProductAdd(ctx, p)
	if err != nil {
		t.Fatalf("unexpected product add error: %v", err)
	}
	p.ID = id

	got, err := testDB.ProductByName(ctx, p.Name)
	if err != nil {
		t.Fatalf("unexpected product get error: %v", err)
	}
	if diff := cmp.Diff(p, *got); diff != "" {
		t.Errorf("product mismatch (-want +got):\n%s", diff)
	}

	p.UnitPrice = 130.25
	if err := testDB.ProductUpdate(ctx, p); err != nil {
		t.Fatalf("unexpected product update error: %v", err)
	}

	if err := testDB.ProductDelete(ctx, id); err != nil {
		t.Fatalf("unexpected product delete error: %v", err)
	}
	if _, err := testDB.ProductByName(ctx, p.Name); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v want ErrNotFound", err)
	}
}

func TestProductDuplicateName(t *testing.T) {

	testDB := setupTestDB(t)
	ctx := context.Background()

	p := Product{Name: "Anchor Bolts M20", UnitPrice: 8.90}
	if _, err := testDB.ProductAdd(ctx, p); err != nil {
		t.Fatalf("unexpected product add error: %v", err)
	}
	if _, err := testDB.ProductAdd(ctx, p); !errors.Is(err, ErrProductExists) {
		t.Errorf("duplicate add got %v want ErrProductExists", err)
	}

	// Renaming onto a taken name is also recoverable.
	otherID, err := testDB.ProductAdd(ctx, Product{Name: "Anchor Bolts M24", UnitPrice: 10.40})
	if err != nil {
		t.Fatalf("unexpected product add error: %v", err)
	}
	err = testDB.ProductUpdate(ctx, Product{ID: otherID, Name: "Anchor Bolts M20", UnitPrice: 10.40})
	if !errors.Is(err, ErrProductExists) {
		t.Errorf("rename collision got %v want ErrProductExists", err)
	}
}

func TestProductsOrderedByName(t *testing.T) {

	testDB := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Rebar 12mm", "Concrete Mix 25MPa", "Galvanized Sheet 2mm"} {
		if _, err := testDB.ProductAdd(ctx, Product{Name: name, UnitPrice: 1}); err != nil {
			t.Fatalf("unexpected product add error: %v", err)
		}
	}
	products, err := testDB.Products(ctx)
	if err != nil {
		t.Fatalf("unexpected products error: %v", err)
	}
	var names []string
	for _, p := range products {
		names = append(names, p.Name)
	}
	want := []string{"Concrete Mix 25MPa", "Galvanized Sheet 2mm", "Rebar 12mm"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("product order mismatch (-want +got):\n%s", diff)
	}
}

func TestProductUpsertByName(t *testing.T) {

	testDB := setupTestDB(t)
	ctx := context.Background()

	added, err := testDB.ProductUpsertByName(ctx, "Purlin C150", "cold-formed", 22.10)
	if err != nil {
		t.Fatalf("unexpected upsert error: %v", err)
	}
	if !added {
		t.Error("first upsert should report an added row")
	}

	added, err = testDB.ProductUpsertByName(ctx, "Purlin C150", "cold-formed, galvanized", 23.95)
	if err != nil {
		t.Fatalf("unexpected upsert error: %v", err)
	}
	if added {
		t.Error("second upsert should report an update")
	}

	got, err := testDB.ProductByName(ctx, "Purlin C150")
	if err != nil {
		t.Fatalf("unexpected product get error: %v", err)
	}
	if got.UnitPrice != 23.95 || got.Description != "cold-formed, galvanized" {
		t.Errorf("upsert did not update fields: %+v", got)
	}
}
