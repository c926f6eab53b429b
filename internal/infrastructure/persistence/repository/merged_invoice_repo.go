package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/port"
	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
	"github.com/AshapuriCRM/billing-engine/internal/infrastructure/persistence/sqlite"
)

// MergedInvoiceRepository implements port.MergedInvoiceRepository. A
// merged invoice is stored as an invoices row with is_merged = 1 plus its
// ordered merge_sources link rows; run Create inside a transaction so
// both land together.
type MergedInvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMergedInvoiceRepository creates a new merged invoice repository.
func NewMergedInvoiceRepository(db *sql.DB, logger *zap.Logger) port.MergedInvoiceRepository {
	return &MergedInvoiceRepository{db: db, logger: logger}
}

// Create stores the merged invoice and its source links.
func (r *MergedInvoiceRepository) Create(ctx context.Context, merged *entity.MergedInvoice) error {
	employees, err := json.Marshal(merged.Employees)
	if err != nil {
		return fmt.Errorf("failed to marshal employees: %w", err)
	}
	companies, err := json.Marshal(merged.Companies)
	if err != nil {
		return fmt.Errorf("failed to marshal companies: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, company_id, is_merged, billing_period,
			base_amount, service_charge, pf_amount, esic_amount,
			gst_amount, total_amount, employees, companies, notes, created_at
		) VALUES (?, NULL, 1, '', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	ex := r.getExecutor(ctx)
	result, err := ex.ExecContext(ctx, query,
		merged.InvoiceNumber,
		merged.BillDetails.BaseAmount,
		merged.BillDetails.ServiceCharge,
		merged.BillDetails.PFAmount,
		merged.BillDetails.ESICAmount,
		merged.BillDetails.GSTAmount,
		merged.BillDetails.TotalAmount,
		string(employees),
		string(companies),
		merged.Notes,
		merged.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create merged invoice", zap.Error(err))
		return fmt.Errorf("failed to create merged invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	merged.ID = id

	// Source links copy the invoice number so the merged record stays
	// auditable even if a source is deleted later.
	linkQuery := `
		INSERT INTO merge_sources (merged_invoice_id, source_invoice_id, source_invoice_number, position)
		VALUES (?, ?, (SELECT invoice_number FROM invoices WHERE id = ?), ?)
	`
	for pos, srcID := range merged.SourceInvoiceIDs {
		if _, err := ex.ExecContext(ctx, linkQuery, merged.ID, srcID, srcID, pos); err != nil {
			r.logger.Error("Failed to link merge source",
				zap.Int64("merged_invoice_id", merged.ID),
				zap.Int64("source_invoice_id", srcID),
				zap.Error(err))
			return fmt.Errorf("failed to link merge source %d: %w", srcID, err)
		}
	}

	return nil
}

// GetByID retrieves a merged invoice. Returns nil, nil when not found.
func (r *MergedInvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.MergedInvoice, error) {
	query := `
		SELECT id, invoice_number, base_amount, service_charge, pf_amount,
			esic_amount, gst_amount, total_amount, employees, companies, notes, created_at
		FROM invoices
		WHERE id = ? AND is_merged = 1
	`

	var merged entity.MergedInvoice
	var employeesJSON, companiesJSON string

	err := r.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&merged.ID,
		&merged.InvoiceNumber,
		&merged.BillDetails.BaseAmount,
		&merged.BillDetails.ServiceCharge,
		&merged.BillDetails.PFAmount,
		&merged.BillDetails.ESICAmount,
		&merged.BillDetails.GSTAmount,
		&merged.BillDetails.TotalAmount,
		&employeesJSON,
		&companiesJSON,
		&merged.Notes,
		&merged.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get merged invoice", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get merged invoice: %w", err)
	}

	if employeesJSON != "" {
		if err := json.Unmarshal([]byte(employeesJSON), &merged.Employees); err != nil {
			return nil, fmt.Errorf("failed to unmarshal employees: %w", err)
		}
	}
	if companiesJSON != "" {
		if err := json.Unmarshal([]byte(companiesJSON), &merged.Companies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal companies: %w", err)
		}
	}

	sourceIDs, err := r.sourceIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	merged.SourceInvoiceIDs = sourceIDs

	return &merged, nil
}

// Delete removes the merged document. merge_sources rows cascade off the
// merged invoice; source invoices are not touched.
func (r *MergedInvoiceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM invoices WHERE id = ? AND is_merged = 1`, id)
	if err != nil {
		r.logger.Error("Failed to delete merged invoice", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete merged invoice: %w", err)
	}
	return nil
}

func (r *MergedInvoiceRepository) sourceIDs(ctx context.Context, mergedID int64) ([]int64, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx,
		`SELECT source_invoice_id FROM merge_sources WHERE merged_invoice_id = ? ORDER BY position`, mergedID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merge sources: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan merge source: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *MergedInvoiceRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.MergedInvoiceRepository = (*MergedInvoiceRepository)(nil)
