package entity

// GSTPayer identifies which party bears GST on an invoice. It decides
// whether tax is folded into the grand total.
type GSTPayer string

const (
	GSTPayerServiceProvider   GSTPayer = "SERVICE_PROVIDER"
	GSTPayerPrincipalEmployer GSTPayer = "PRINCIPAL_EMPLOYER"
)

// Statutory rate defaults. These seed RateConfig and are overridable per
// invocation through configuration or the request itself.
const (
	DefaultPFRatePct   = 13.0
	DefaultESICRatePct = 3.25
	DefaultCGSTRatePct = 9.0
	DefaultSGSTRatePct = 9.0
)

// RateConfig holds the billing-period-wide pricing parameters for one
// invoice calculation. It is supplied by the caller, never derived from
// attendance data.
type RateConfig struct {
	PerDayRate           float64  `json:"per_day_rate"`
	OvertimeRate         float64  `json:"overtime_rate"`
	ServiceChargeRatePct float64  `json:"service_charge_rate_pct"`
	BonusRatePct         float64  `json:"bonus_rate_pct"`
	PFRatePct            float64  `json:"pf_rate_pct"`
	ESICRatePct          float64  `json:"esic_rate_pct"`
	CGSTRatePct          float64  `json:"cgst_rate_pct"`
	SGSTRatePct          float64  `json:"sgst_rate_pct"`
	GSTPayer             GSTPayer `json:"gst_payer"`
}

// DefaultRateConfig returns a RateConfig preloaded with the statutory
// defaults. PerDayRate is left zero and must be set by the caller.
func DefaultRateConfig() RateConfig {
	return RateConfig{
		PFRatePct:   DefaultPFRatePct,
		ESICRatePct: DefaultESICRatePct,
		CGSTRatePct: DefaultCGSTRatePct,
		SGSTRatePct: DefaultSGSTRatePct,
		GSTPayer:    GSTPayerServiceProvider,
	}
}
