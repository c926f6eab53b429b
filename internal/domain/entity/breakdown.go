package entity

// InvoiceBreakdown is the fully itemized result of one invoice
// calculation. It is ephemeral: computed on demand, displayed, and only
// persisted when the caller confirms invoice creation.
//
// Rounding happens at exactly two points, SubTotal and GrandTotal. Every
// other field carries its unrounded value so downstream totals never
// accumulate per-line rounding drift.
type InvoiceBreakdown struct {
	TotalPresentDays  int `json:"total_present_days"`
	TotalOvertimeDays int `json:"total_overtime_days"`

	BaseTotal         float64 `json:"base_total"`
	OvertimeAmount    float64 `json:"overtime_amount"`
	PreStatutoryTotal float64 `json:"pre_statutory_total"`

	PFAmount    float64 `json:"pf_amount"`
	ESICAmount  float64 `json:"esic_amount"`
	BonusAmount float64 `json:"bonus_amount"`
	SubTotal    float64 `json:"sub_total"`

	ServiceChargeAmount float64 `json:"service_charge_amount"`
	TotalBeforeTax      float64 `json:"total_before_tax"`

	// CGST/SGST are always computed for display, even when the principal
	// employer bears GST and they are excluded from the grand total.
	CGSTAmount float64 `json:"cgst_amount"`
	SGSTAmount float64 `json:"sgst_amount"`

	GrandTotal      float64 `json:"grand_total"`
	GrandTotalWords string  `json:"grand_total_words"`
}
