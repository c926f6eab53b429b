package attendance

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestSheetReader_Read(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"Name", "Present Days", "OT Days", "Total Days", "Absent Days"},
		{"Ramesh Kumar", 26, 0, 31, 5},
		{"Suresh Patel", 24, 2, 31, 7},
		{"", "", "", "", ""},
		{"Mahesh Singh", "26", "", 31, 5},
	})

	rows, err := NewSheetReader(zap.NewNop()).Read(wb)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Ramesh Kumar", rows[0].Name)
	assert.Equal(t, 26.0, rows[0].PresentDays)
	assert.Equal(t, 0.0, rows[0].OvertimeDays)
	assert.Equal(t, 31.0, rows[0].TotalDays)
	assert.Equal(t, 5.0, rows[0].AbsentDays)

	assert.Equal(t, 2.0, rows[1].OvertimeDays)

	// Numeric strings parse; empty overtime defaults to zero.
	assert.Equal(t, 26.0, rows[2].PresentDays)
	assert.Equal(t, 0.0, rows[2].OvertimeDays)
}

func TestSheetReader_HeaderAliases(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"Employee Name", "Duty Days", "Overtime"},
		{"Ramesh Kumar", 20, 1},
	})

	rows, err := NewSheetReader(zap.NewNop()).Read(wb)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 20.0, rows[0].PresentDays)
	assert.Equal(t, 1.0, rows[0].OvertimeDays)
}

func TestSheetReader_MissingColumns(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"Something", "Else"},
		{"Ramesh Kumar", 20},
	})

	_, err := NewSheetReader(zap.NewNop()).Read(wb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name column")
}

func TestSheetReader_NotAWorkbook(t *testing.T) {
	_, err := NewSheetReader(zap.NewNop()).Read(bytes.NewReader([]byte("not an xlsx")))
	require.Error(t, err)
}
