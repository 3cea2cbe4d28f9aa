// Package export renders tabular reports as XLSX or PDF documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Report is a titled table. Cell values may be strings or numbers.
type Report struct {
	Title    string
	Subtitle string
	Sheet    string
	Headers  []string
	Rows     [][]any
}

func (r Report) sheetName() string {
	if r.Sheet == "" {
		return "Report"
	}
	return r.Sheet
}

// XLSX writes the title on row 1, the subtitle on row 2 and the table from row 4.
func XLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := r.sheetName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	f.SetCellValue(sheet, "A1", r.Title)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	if r.Subtitle != "" {
		f.SetCellValue(sheet, "A2", r.Subtitle)
	}

	const headerRow = 4
	for col, header := range r.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheet, colName, colName, 22)
	}

	for i, row := range r.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, headerRow+1+i)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders the report on landscape A4 pages with evenly sized columns.
func PDF(r Report) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.Title)
	pdf.Ln(10)
	if r.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 8, r.Subtitle)
		pdf.Ln(10)
	}

	width := 0.0
	if len(r.Headers) > 0 {
		pageWidth, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		width = (pageWidth - left - right) / float64(len(r.Headers))
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, header := range r.Headers {
		pdf.CellFormat(width, 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range r.Rows {
		for _, value := range row {
			pdf.CellFormat(width, 7, tr(fmt.Sprint(value)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
