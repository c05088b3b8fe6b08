package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// sampleRows seed a new catalog file so users have a format to follow.
var sampleRows = []Row{
	{Name: "Steel Beam IPE 200", Description: "European standard I-beam", UnitPrice: 125.50},
	{Name: "Galvanized Sheet 2mm", Description: "Corrosion-resistant roofing", UnitPrice: 45.75},
	{Name: "Anchor Bolts M20", Description: "Heavy-duty foundation bolts", UnitPrice: 8.90},
	{Name: "Concrete Mix 25MPa", Description: "High-strength concrete", UnitPrice: 95.00},
	{Name: "Rebar 12mm", Description: "Reinforcement steel bar", UnitPrice: 12.50},
}

// WriteSample writes a starter catalog file to path, in csv or xlsx
// format depending on the file extension.
func WriteSample(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeSampleCSV(path)
	case ".xlsx":
		return writeSampleXLSX(path)
	default:
		return fmt.Errorf("unsupported catalog file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func writeSampleCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sample catalog create error: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(catalogHeaders); err != nil {
		return fmt.Errorf("sample catalog write error: %w", err)
	}
	for _, row := range sampleRows {
		record := []string{row.Name, row.Description, strconv.FormatFloat(row.UnitPrice, 'f', 2, 64)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("sample catalog write error: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeSampleXLSX(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sample catalog create error: %w", err)
	}
	defer f.Close()

	var data [][]string
	for _, row := range sampleRows {
		data = append(data, []string{row.Name, row.Description, strconv.FormatFloat(row.UnitPrice, 'f', 2, 64)})
	}
	return writeExcel(f, "Products", catalogHeaders, data)
}
