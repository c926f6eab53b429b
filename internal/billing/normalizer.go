package billing

import (
	"fmt"
	"math"
	"strings"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// SkippedRow is a diagnostic for one attendance row rejected during
// normalization. Rejection never aborts the batch.
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// NormalizeAttendance validates and coerces raw attendance rows into
// canonical records. Names are trimmed and must be non-empty; day counts
// are coerced to non-negative integers and, when daysInPeriod > 0,
// clamped to that period length. Rows failing the name check are skipped
// and reported, not fatal.
func NormalizeAttendance(rows []entity.RawAttendanceRow, daysInPeriod int) ([]entity.AttendanceRecord, []SkippedRow) {
	records := make([]entity.AttendanceRecord, 0, len(rows))
	var skipped []SkippedRow

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			skipped = append(skipped, SkippedRow{
				Index:  i,
				Reason: fmt.Sprintf("row %d: name is empty", i+1),
			})
			continue
		}

		records = append(records, entity.AttendanceRecord{
			Name:         name,
			PresentDays:  coerceDays(row.PresentDays, daysInPeriod),
			OvertimeDays: coerceDays(row.OvertimeDays, daysInPeriod),
			TotalDays:    coerceDays(row.TotalDays, 0),
			AbsentDays:   coerceDays(row.AbsentDays, 0),
		})
	}

	return records, skipped
}

// coerceDays turns a loosely-typed day count into a non-negative integer,
// clamped to [0, daysInPeriod] when a period length is known. The float
// is bounded before conversion: int(v) on a value past the int range is
// undefined and can wrap negative.
func coerceDays(v float64, daysInPeriod int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if daysInPeriod > 0 {
		if v > float64(daysInPeriod) {
			return daysInPeriod
		}
	} else if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
