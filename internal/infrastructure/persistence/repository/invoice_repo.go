package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/port"
	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
	"github.com/AshapuriCRM/billing-engine/internal/infrastructure/persistence/sqlite"
)

// InvoiceRepository implements port.InvoiceRepository for the regular
// invoice variant (is_merged = 0).
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `
	i.id, i.invoice_number, i.company_id, COALESCE(c.name, ''), COALESCE(c.location, ''),
	i.is_merged, i.billing_period, i.base_amount, i.service_charge, i.pf_amount,
	i.esic_amount, i.gst_amount, i.total_amount, i.employees, i.notes, i.created_at`

// Create creates a new regular invoice record.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	employees, err := json.Marshal(invoice.Employees)
	if err != nil {
		return fmt.Errorf("failed to marshal employees: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, company_id, is_merged, billing_period,
			base_amount, service_charge, pf_amount, esic_amount,
			gst_amount, total_amount, employees, notes
		) VALUES (?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		invoice.InvoiceNumber,
		invoice.CompanyID,
		invoice.BillingPeriod,
		invoice.BillDetails.BaseAmount,
		invoice.BillDetails.ServiceCharge,
		invoice.BillDetails.PFAmount,
		invoice.BillDetails.ESICAmount,
		invoice.BillDetails.GSTAmount,
		invoice.BillDetails.TotalAmount,
		string(employees),
		invoice.Notes,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	invoice.ID = id
	return nil
}

// GetByID retrieves an invoice by ID. Returns nil, nil when not found.
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i LEFT JOIN companies c ON c.id = i.company_id
		WHERE i.id = ?
	`

	invoice, err := r.scanInvoice(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// List retrieves regular invoices, newest first.
func (r *InvoiceRepository) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i LEFT JOIN companies c ON c.id = i.company_id
		WHERE i.is_merged = 0
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	return r.collectInvoices(rows)
}

// ListAvailableForMerge returns candidate merge sources. Only merge
// outputs are hidden; invoices already used as a source stay available,
// since nothing marks a source consumed.
func (r *InvoiceRepository) ListAvailableForMerge(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i LEFT JOIN companies c ON c.id = i.company_id
		WHERE i.is_merged = 0
	`
	args := []interface{}{}

	if companyID != 0 {
		query += " AND i.company_id = ?"
		args = append(args, companyID)
	}
	if !from.IsZero() {
		query += " AND i.created_at >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		query += " AND i.created_at <= ?"
		args = append(args, to)
	}
	query += " ORDER BY i.created_at DESC, i.id DESC"

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list mergeable invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list mergeable invoices: %w", err)
	}
	defer rows.Close()

	return r.collectInvoices(rows)
}

// Delete removes a regular invoice. Merge-source link rows keep their
// copied invoice number, so earlier merges stay auditable.
func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM invoices WHERE id = ? AND is_merged = 0`, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *InvoiceRepository) scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var invoice entity.Invoice
	var companyID sql.NullInt64
	var employeesJSON string

	err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&companyID,
		&invoice.CompanyName,
		&invoice.CompanyLocation,
		&invoice.IsMerged,
		&invoice.BillingPeriod,
		&invoice.BillDetails.BaseAmount,
		&invoice.BillDetails.ServiceCharge,
		&invoice.BillDetails.PFAmount,
		&invoice.BillDetails.ESICAmount,
		&invoice.BillDetails.GSTAmount,
		&invoice.BillDetails.TotalAmount,
		&employeesJSON,
		&invoice.Notes,
		&invoice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if companyID.Valid {
		invoice.CompanyID = companyID.Int64
	}
	if employeesJSON != "" {
		if err := json.Unmarshal([]byte(employeesJSON), &invoice.Employees); err != nil {
			return nil, fmt.Errorf("failed to unmarshal employees: %w", err)
		}
	}
	return &invoice, nil
}

func (r *InvoiceRepository) collectInvoices(rows *sql.Rows) ([]*entity.Invoice, error) {
	var invoices []*entity.Invoice
	for rows.Next() {
		invoice, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
