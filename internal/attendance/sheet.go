// Package attendance reads uploaded attendance sheets into raw rows for
// normalization. Extraction from scanned documents happens in an external
// service; this package covers the spreadsheet path.
package attendance

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// Column header aliases accepted in the first row of a sheet, compared
// after trimming and lowercasing.
var (
	nameHeaders     = []string{"name", "employee name", "employee"}
	presentHeaders  = []string{"present days", "days present", "present", "duty days"}
	overtimeHeaders = []string{"ot days", "overtime days", "overtime", "ot"}
	totalHeaders    = []string{"total days", "month days"}
	absentHeaders   = []string{"absent days", "absent"}
)

// SheetReader extracts attendance rows from .xlsx workbooks.
type SheetReader struct {
	logger *zap.Logger
}

// NewSheetReader creates a new sheet reader.
func NewSheetReader(logger *zap.Logger) *SheetReader {
	return &SheetReader{logger: logger}
}

// Read parses the first sheet of an .xlsx workbook into raw attendance
// rows. The first row must carry recognizable name and present-days
// headers; unparseable cells become zero and are left to the normalizer's
// skip-and-report pass.
func (sr *SheetReader) Read(r io.Reader) ([]entity.RawAttendanceRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var raw []entity.RawAttendanceRow
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		raw = append(raw, entity.RawAttendanceRow{
			Name:         cellString(row, cols.name),
			PresentDays:  cellNumber(row, cols.present),
			OvertimeDays: cellNumber(row, cols.overtime),
			TotalDays:    cellNumber(row, cols.total),
			AbsentDays:   cellNumber(row, cols.absent),
		})
	}

	sr.logger.Info("Attendance sheet parsed",
		zap.String("sheet", sheets[0]),
		zap.Int("rows", len(raw)))

	return raw, nil
}

type columnMap struct {
	name     int
	present  int
	overtime int
	total    int
	absent   int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{name: -1, present: -1, overtime: -1, total: -1, absent: -1}
	for i, h := range header {
		switch key := strings.ToLower(strings.TrimSpace(h)); {
		case matches(key, nameHeaders):
			cols.name = i
		case matches(key, presentHeaders):
			cols.present = i
		case matches(key, overtimeHeaders):
			cols.overtime = i
		case matches(key, totalHeaders):
			cols.total = i
		case matches(key, absentHeaders):
			cols.absent = i
		}
	}
	if cols.name < 0 {
		return cols, fmt.Errorf("header row has no name column")
	}
	if cols.present < 0 {
		return cols, fmt.Errorf("header row has no present-days column")
	}
	return cols, nil
}

func matches(key string, aliases []string) bool {
	for _, a := range aliases {
		if key == a {
			return true
		}
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellString(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellNumber(row []string, idx int) float64 {
	s := cellString(row, idx)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
