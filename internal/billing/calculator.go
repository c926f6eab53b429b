package billing

import (
	"fmt"
	"math"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// ComputeInvoice maps normalized attendance and a rate configuration to a
// fully itemized invoice breakdown. It is a pure function: no I/O, no
// shared state, same inputs always yield the same breakdown.
//
// The step order is fixed. Rounding happens at SubTotal and GrandTotal
// only; statutory amounts, the service charge and the tax components stay
// unrounded so the totals never accumulate per-line drift.
func ComputeInvoice(records []entity.AttendanceRecord, cfg entity.RateConfig) (*entity.InvoiceBreakdown, error) {
	if err := validateRateConfig(cfg); err != nil {
		return nil, err
	}
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	b := &entity.InvoiceBreakdown{}
	for _, r := range records {
		b.TotalPresentDays += r.PresentDays
		b.TotalOvertimeDays += r.OvertimeDays
	}

	b.BaseTotal = float64(b.TotalPresentDays) * cfg.PerDayRate
	b.OvertimeAmount = float64(b.TotalOvertimeDays) * cfg.OvertimeRate
	b.PreStatutoryTotal = b.BaseTotal + b.OvertimeAmount

	b.PFAmount = b.PreStatutoryTotal * cfg.PFRatePct / 100
	b.ESICAmount = b.PreStatutoryTotal * cfg.ESICRatePct / 100
	b.BonusAmount = b.PreStatutoryTotal * cfg.BonusRatePct / 100

	// First rounding point.
	b.SubTotal = math.Round(b.PreStatutoryTotal + b.PFAmount + b.ESICAmount + b.BonusAmount)

	b.ServiceChargeAmount = b.SubTotal * cfg.ServiceChargeRatePct / 100
	b.TotalBeforeTax = b.SubTotal + b.ServiceChargeAmount

	// CGST/SGST are computed regardless of payer, for display.
	b.CGSTAmount = b.TotalBeforeTax * cfg.CGSTRatePct / 100
	b.SGSTAmount = b.TotalBeforeTax * cfg.SGSTRatePct / 100

	// Second and only other rounding point. When the principal employer
	// bears GST, the tax components are excluded from the grand total.
	if cfg.GSTPayer == entity.GSTPayerPrincipalEmployer {
		b.GrandTotal = math.Round(b.TotalBeforeTax)
	} else {
		b.GrandTotal = math.Round(b.TotalBeforeTax + b.CGSTAmount + b.SGSTAmount)
	}

	b.GrandTotalWords = AmountInWords(int64(b.GrandTotal))

	return b, nil
}

// validateRecords guards the calculator against records that bypassed
// normalization, such as confirmed rows sent back by a client.
func validateRecords(records []entity.AttendanceRecord) error {
	for i, r := range records {
		if r.PresentDays < 0 {
			return &ValidationError{
				Field:  "present_days",
				Reason: fmt.Sprintf("row %d: must not be negative", i+1),
			}
		}
		if r.OvertimeDays < 0 {
			return &ValidationError{
				Field:  "overtime_days",
				Reason: fmt.Sprintf("row %d: must not be negative", i+1),
			}
		}
	}
	return nil
}

func validateRateConfig(cfg entity.RateConfig) error {
	if cfg.PerDayRate <= 0 {
		return &ValidationError{Field: "per_day_rate", Reason: "must be greater than zero"}
	}
	if cfg.OvertimeRate < 0 {
		return &ValidationError{Field: "overtime_rate", Reason: "must not be negative"}
	}
	pcts := []struct {
		field string
		value float64
	}{
		{"service_charge_rate_pct", cfg.ServiceChargeRatePct},
		{"bonus_rate_pct", cfg.BonusRatePct},
		{"pf_rate_pct", cfg.PFRatePct},
		{"esic_rate_pct", cfg.ESICRatePct},
		{"cgst_rate_pct", cfg.CGSTRatePct},
		{"sgst_rate_pct", cfg.SGSTRatePct},
	}
	for _, p := range pcts {
		if p.value < 0 {
			return &ValidationError{Field: p.field, Reason: "must not be negative"}
		}
	}
	return nil
}
