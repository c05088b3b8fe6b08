package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"cotizador/db"
)

var catalogHeaders = []string{"name", "description", "unit_price"}

// ExportCSV writes the product catalog to w in csv format, in the same
// column layout the sync reads back.
func ExportCSV(w io.Writer, products []db.Product) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(catalogHeaders); err != nil {
		return fmt.Errorf("catalog export error: %w", err)
	}
	for _, p := range products {
		record := []string{p.Name, p.Description, strconv.FormatFloat(p.UnitPrice, 'f', 2, 64)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("catalog export error: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportExcel writes the product catalog to w as an xlsx workbook.
func ExportExcel(w io.Writer, products []db.Product) error {
	var data [][]string
	for _, p := range products {
		data = append(data, []string{p.Name, p.Description, strconv.FormatFloat(p.UnitPrice, 'f', 2, 64)})
	}
	return writeExcel(w, "Products", catalogHeaders, data)
}

// writeExcel writes a single-sheet workbook with a bold header row.
func writeExcel(w io.Writer, sheetName string, headers []string, data [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("workbook sheet error: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("workbook style error: %w", err)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 22)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("workbook write error: %w", err)
	}
	return nil
}
