package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/port"
	"github.com/AshapuriCRM/billing-engine/internal/billing"
	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// ComputeRequest carries one calculation's inputs.
type ComputeRequest struct {
	CompanyID    int64
	Rows         []entity.RawAttendanceRow
	RateConfig   entity.RateConfig
	DaysInPeriod int
}

// ComputeResult bundles the breakdown with the normalization diagnostics
// and advisory roster warnings produced on the way.
type ComputeResult struct {
	Records        []entity.AttendanceRecord `json:"records"`
	Skipped        []billing.SkippedRow      `json:"skipped,omitempty"`
	RosterWarnings []billing.RosterWarning   `json:"roster_warnings,omitempty"`
	Breakdown      *entity.InvoiceBreakdown  `json:"breakdown"`
}

// CreateInvoiceRequest persists a confirmed breakdown snapshot.
type CreateInvoiceRequest struct {
	CompanyID     int64
	BillingPeriod string
	Records       []entity.AttendanceRecord
	RateConfig    entity.RateConfig
	Notes         string
}

// InvoiceService exposes the calculation flow and invoice persistence.
type InvoiceService interface {
	Compute(ctx context.Context, req ComputeRequest) (*ComputeResult, error)
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*entity.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	ListMergeable(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

type invoiceServiceImpl struct {
	companyRepo  port.CompanyRepository
	employeeRepo port.EmployeeRepository
	invoiceRepo  port.InvoiceRepository
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	companyRepo port.CompanyRepository,
	employeeRepo port.EmployeeRepository,
	invoiceRepo port.InvoiceRepository,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		invoiceRepo:  invoiceRepo,
		logger:       logger,
	}
}

// Compute normalizes raw rows, runs the advisory roster check, and maps
// the result through the invoice calculator. Nothing is persisted.
func (s *invoiceServiceImpl) Compute(ctx context.Context, req ComputeRequest) (*ComputeResult, error) {
	records, skipped := billing.NormalizeAttendance(req.Rows, req.DaysInPeriod)

	var warnings []billing.RosterWarning
	if req.CompanyID != 0 {
		names, err := s.employeeRepo.ListNamesByCompany(ctx, req.CompanyID)
		if err != nil {
			// The roster check is advisory; a lookup failure must not
			// block the calculation.
			s.logger.Warn("Roster lookup failed, skipping advisory check",
				zap.Int64("company_id", req.CompanyID), zap.Error(err))
		} else {
			warnings = billing.CheckRoster(records, names)
		}
	}

	breakdown, err := billing.ComputeInvoice(records, req.RateConfig)
	if err != nil {
		return nil, err
	}

	return &ComputeResult{
		Records:        records,
		Skipped:        skipped,
		RosterWarnings: warnings,
		Breakdown:      breakdown,
	}, nil
}

// CreateInvoice recomputes the breakdown from the confirmed records and
// persists the snapshot. Recomputing instead of trusting a client-sent
// breakdown keeps the stored numbers on the documented formula.
func (s *invoiceServiceImpl) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*entity.Invoice, error) {
	company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve company %d: %w", req.CompanyID, err)
	}
	if company == nil {
		return nil, &billing.ValidationError{Field: "company_id", Reason: fmt.Sprintf("company %d not found", req.CompanyID)}
	}

	breakdown, err := billing.ComputeInvoice(req.Records, req.RateConfig)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		InvoiceNumber:   newInvoiceNumber(),
		CompanyID:       company.ID,
		CompanyName:     company.Name,
		CompanyLocation: company.Location,
		BillingPeriod:   req.BillingPeriod,
		BillDetails:     billDetailsFromBreakdown(breakdown),
		Employees:       employeeLines(req.Records, req.RateConfig),
		Notes:           req.Notes,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}

	s.logger.Info("Invoice created",
		zap.Int64("invoice_id", invoice.ID),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("total_amount", invoice.BillDetails.TotalAmount))

	return invoice, nil
}

func (s *invoiceServiceImpl) GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceServiceImpl) ListInvoices(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	return s.invoiceRepo.List(ctx, limit, offset)
}

func (s *invoiceServiceImpl) ListMergeable(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Invoice, error) {
	return s.invoiceRepo.ListAvailableForMerge(ctx, companyID, from, to)
}

func (s *invoiceServiceImpl) DeleteInvoice(ctx context.Context, id int64) error {
	return s.invoiceRepo.Delete(ctx, id)
}

// billDetailsFromBreakdown maps an ephemeral breakdown onto the persisted
// monetary summary.
func billDetailsFromBreakdown(b *entity.InvoiceBreakdown) entity.BillDetails {
	return entity.BillDetails{
		BaseAmount:    b.PreStatutoryTotal,
		ServiceCharge: b.ServiceChargeAmount,
		PFAmount:      b.PFAmount,
		ESICAmount:    b.ESICAmount,
		GSTAmount:     b.CGSTAmount + b.SGSTAmount,
		TotalAmount:   b.GrandTotal,
	}
}

// employeeLines derives the per-employee salary lines stored on the
// invoice from the confirmed attendance.
func employeeLines(records []entity.AttendanceRecord, cfg entity.RateConfig) []entity.InvoiceEmployee {
	lines := make([]entity.InvoiceEmployee, 0, len(records))
	for _, r := range records {
		lines = append(lines, entity.InvoiceEmployee{
			Name:         r.Name,
			PresentDays:  r.PresentDays,
			OvertimeDays: r.OvertimeDays,
			Salary:       float64(r.PresentDays)*cfg.PerDayRate + float64(r.OvertimeDays)*cfg.OvertimeRate,
		})
	}
	return lines
}

func newInvoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "INV-" + id[:12]
}
