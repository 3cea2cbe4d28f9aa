package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() Report {
	return Report{
		Title:    "Attendance Summary",
		Subtitle: "March 2025",
		Sheet:    "Summary",
		Headers:  []string{"Name", "Email", "Days Present", "Days On Leave", "Working Days"},
		Rows: [][]any{
			{"Asha Rao", "asha@example.com", 18, 2, 21},
			{"Ravi Kumar", "ravi@example.com", 21, 0, 21},
		},
	}
}

func TestXLSX(t *testing.T) {
	// Act
	content, err := XLSX(sampleReport())
	require.NoError(t, err)

	// Assert
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Attendance Summary", title)

	header, _ := f.GetCellValue("Summary", "C4")
	assert.Equal(t, "Days Present", header)

	name, _ := f.GetCellValue("Summary", "A5")
	assert.Equal(t, "Asha Rao", name)
	present, _ := f.GetCellValue("Summary", "C6")
	assert.Equal(t, "21", present)
}

func TestXLSX_DefaultSheet(t *testing.T) {
	report := sampleReport()
	report.Sheet = ""

	content, err := XLSX(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Report"}, f.GetSheetList())
}

func TestPDF(t *testing.T) {
	content, err := PDF(sampleReport())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestPDF_EmptyRows(t *testing.T) {
	report := sampleReport()
	report.Rows = nil

	content, err := PDF(report)

	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
