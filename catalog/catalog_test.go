package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// memUpserter records upserts in memory, reporting rows it has not
// seen before as added.
type memUpserter struct {
	products map[string]Row
}

func newMemUpserter() *memUpserter {
	return &memUpserter{products: map[string]Row{}}
}

func (m *memUpserter) ProductUpsertByName(_ context.Context, name, description string, unitPrice float64) (bool, error) {
	_, exists := m.products[name]
	m.products[name] = Row{Name: name, Description: description, UnitPrice: unitPrice}
	return !exists, nil
}

func writeTestCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFileCSV(t *testing.T) {
	path := writeTestCSV(t, `name,description,unit_price
Steel Beam IPE 200,European standard I-beam,125.50
  Rebar 12mm  ,Reinforcement steel bar,12.5
`)
	rows, skipped, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 {
		t.Errorf("got %d skipped rows, want 0", skipped)
	}
	want := []Row{
		{Name: "Steel Beam IPE 200", Description: "European standard I-beam", UnitPrice: 125.50},
		{Name: "Rebar 12mm", Description: "Reinforcement steel bar", UnitPrice: 12.5},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileSkipsInvalidRows(t *testing.T) {
	path := writeTestCSV(t, `name,description,unit_price
Good Product,ok,10.00
,missing name,5.00
Zero Price,not for sale,0
Negative Price,refund,-2.50
Bad Price,oops,cheap
`)
	rows, skipped, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(rows), 1; got != want {
		t.Fatalf("got %d rows, want %d", got, want)
	}
	if got, want := skipped, 4; got != want {
		t.Errorf("got %d skipped rows, want %d", got, want)
	}
	if rows[0].Name != "Good Product" {
		t.Errorf("unexpected surviving row %q", rows[0].Name)
	}
}

func TestReadFileNoDescriptionColumn(t *testing.T) {
	path := writeTestCSV(t, `name,unit_price
Anchor Bolts M20,8.90
`)
	rows, _, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := rows[0].Description, ""; got != want {
		t.Errorf("got description %q, want empty", got)
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"missing required columns", "description,price\nx,1\n"},
		{"no valid rows", "name,unit_price\n,0\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestCSV(t, tt.contents)
			if _, _, err := ReadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
	t.Run("unsupported extension", func(t *testing.T) {
		if _, _, err := ReadFile("products.txt"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestSync(t *testing.T) {
	path := writeTestCSV(t, `name,description,unit_price
Steel Beam IPE 200,European standard I-beam,125.50
Rebar 12mm,Reinforcement steel bar,12.50
,skip me,9.99
`)
	store := newMemUpserter()
	store.products["Rebar 12mm"] = Row{Name: "Rebar 12mm", UnitPrice: 11.00}

	result, err := Sync(context.Background(), store, path)
	if err != nil {
		t.Fatal(err)
	}
	want := Result{Added: 1, Updated: 1, Skipped: 1}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if got, want := store.products["Rebar 12mm"].UnitPrice, 12.50; got != want {
		t.Errorf("got price %v, want %v", got, want)
	}
}

func TestSampleRoundTrip(t *testing.T) {
	for _, ext := range []string{".csv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "products"+ext)
			if err := WriteSample(path); err != nil {
				t.Fatal(err)
			}
			rows, skipped, err := ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if skipped != 0 {
				t.Errorf("got %d skipped rows, want 0", skipped)
			}
			if diff := cmp.Diff(sampleRows, rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
