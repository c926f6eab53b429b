package entity

// RawAttendanceRow is one loosely-typed row as it arrives from sheet
// extraction, before normalization. Day counts are float64 because
// spreadsheet cells and JSON numbers carry no integer guarantee.
type RawAttendanceRow struct {
	Name         string  `json:"name"`
	PresentDays  float64 `json:"present_days"`
	OvertimeDays float64 `json:"overtime_days"`
	TotalDays    float64 `json:"total_days,omitempty"`
	AbsentDays   float64 `json:"absent_days,omitempty"`
}

// AttendanceRecord is one employee's normalized attendance for a billing
// period. PresentDays and OvertimeDays drive the money math; TotalDays and
// AbsentDays are informational and never cross-validated against them.
//
// Overtime is tracked as a day-rate quantity (days x overtime rate), not
// hours. Sheets that report "OT Hours" must be converted upstream.
type AttendanceRecord struct {
	Name         string `json:"name"`
	PresentDays  int    `json:"present_days"`
	OvertimeDays int    `json:"overtime_days"`
	TotalDays    int    `json:"total_days,omitempty"`
	AbsentDays   int    `json:"absent_days,omitempty"`
}
