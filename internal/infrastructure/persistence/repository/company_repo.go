package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/port"
	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
	"github.com/AshapuriCRM/billing-engine/internal/infrastructure/persistence/sqlite"
)

// executor covers both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// CompanyRepository implements port.CompanyRepository.
type CompanyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *sql.DB, logger *zap.Logger) port.CompanyRepository {
	return &CompanyRepository{db: db, logger: logger}
}

// Create creates a new company record.
func (r *CompanyRepository) Create(ctx context.Context, company *entity.Company) error {
	query := `INSERT INTO companies (name, location, gstin) VALUES (?, ?, ?)`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		company.Name, company.Location, company.GSTIN)
	if err != nil {
		r.logger.Error("Failed to create company", zap.Error(err))
		return fmt.Errorf("failed to create company: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	company.ID = id
	return nil
}

// GetByID retrieves a company by ID. Returns nil, nil when not found.
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	query := `SELECT id, name, location, gstin, created_at FROM companies WHERE id = ?`

	var company entity.Company
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&company.ID, &company.Name, &company.Location, &company.GSTIN, &company.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get company", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

// List retrieves all companies ordered by name.
func (r *CompanyRepository) List(ctx context.Context) ([]*entity.Company, error) {
	query := `SELECT id, name, location, gstin, created_at FROM companies ORDER BY name`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list companies", zap.Error(err))
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []*entity.Company
	for rows.Next() {
		var company entity.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.Location, &company.GSTIN, &company.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, &company)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.CompanyRepository = (*CompanyRepository)(nil)
