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

// EmployeeRepository implements port.EmployeeRepository.
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) port.EmployeeRepository {
	return &EmployeeRepository{db: db, logger: logger}
}

// Create creates a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	query := `INSERT INTO employees (company_id, name, trade) VALUES (?, ?, ?)`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		employee.CompanyID, employee.Name, employee.Trade)
	if err != nil {
		r.logger.Error("Failed to create employee", zap.Error(err))
		return fmt.Errorf("failed to create employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	employee.ID = id
	return nil
}

// ListNamesByCompany returns the roster names for one company.
func (r *EmployeeRepository) ListNamesByCompany(ctx context.Context, companyID int64) ([]string, error) {
	query := `SELECT name FROM employees WHERE company_id = ? ORDER BY name`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, companyID)
	if err != nil {
		r.logger.Error("Failed to list employee names", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list employee names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan employee name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *EmployeeRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.EmployeeRepository = (*EmployeeRepository)(nil)
