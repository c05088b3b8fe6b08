// Package catalog reads product catalog files (csv or xlsx) and syncs
// their rows into the products table. Rows without a name or with a
// non-positive unit price are skipped rather than failing the sync.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one catalog file entry after cleaning.
type Row struct {
	Name        string
	Description string
	UnitPrice   float64
}

// Result summarises a sync run.
type Result struct {
	Added   int
	Updated int
	Skipped int
}

func (r Result) String() string {
	return fmt.Sprintf("%d added, %d updated, %d skipped", r.Added, r.Updated, r.Skipped)
}

// Upserter is the store dependency needed by Sync.
type Upserter interface {
	ProductUpsertByName(ctx context.Context, name, description string, unitPrice float64) (bool, error)
}

// Sync reads the catalog file at path and upserts each valid row by
// product name.
func Sync(ctx context.Context, store Upserter, path string) (Result, error) {
	rows, skipped, err := ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	result := Result{Skipped: skipped}
	for _, row := range rows {
		added, err := store.ProductUpsertByName(ctx, row.Name, row.Description, row.UnitPrice)
		if err != nil {
			return result, fmt.Errorf("catalog sync error for %q: %w", row.Name, err)
		}
		if added {
			result.Added++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// ReadFile reads a catalog file, dispatching on the file extension. It
// returns the valid rows and the count of rows skipped during cleaning.
func ReadFile(path string) ([]Row, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, 0, fmt.Errorf("unsupported catalog file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func readCSV(path string) ([]Row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog open error: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("catalog csv read error: %w", err)
		}
		records = append(records, record)
	}
	return cleanRecords(records)
}

func readXLSX(path string) ([]Row, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog workbook open error: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("catalog workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("catalog workbook read error: %w", err)
	}
	return cleanRecords(records)
}

// cleanRecords resolves the header row and cleans the data rows. The
// name and unit_price columns are required; description is optional.
func cleanRecords(records [][]string) ([]Row, int, error) {
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("catalog file is empty")
	}

	cols := map[string]int{}
	for i, header := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(header))] = i
	}
	nameCol, ok := cols["name"]
	if !ok {
		return nil, 0, fmt.Errorf("catalog file must have columns: name, unit_price")
	}
	priceCol, ok := cols["unit_price"]
	if !ok {
		return nil, 0, fmt.Errorf("catalog file must have columns: name, unit_price")
	}
	descCol, hasDesc := cols["description"]

	var rows []Row
	skipped := 0
	for _, record := range records[1:] {
		row, ok := cleanRecord(record, nameCol, priceCol, descCol, hasDesc)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, skipped, fmt.Errorf("no valid products found in catalog file")
	}
	return rows, skipped, nil
}

func cleanRecord(record []string, nameCol, priceCol, descCol int, hasDesc bool) (Row, bool) {
	field := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	name := field(nameCol)
	if name == "" {
		return Row{}, false
	}
	price, err := strconv.ParseFloat(field(priceCol), 64)
	if err != nil || price <= 0 {
		return Row{}, false
	}
	row := Row{Name: name, UnitPrice: price}
	if hasDesc {
		row.Description = field(descCol)
	}
	return row, true
}
