package port

import (
	"context"
	"time"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// CompanyRepository defines persistence operations for Company.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	List(ctx context.Context) ([]*entity.Company, error)
}

// EmployeeRepository defines persistence operations for the advisory
// employee roster.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	ListNamesByCompany(ctx context.Context, companyID int64) ([]string, error)
}

// InvoiceRepository defines persistence operations for regular invoices.
// A GetByID or List result of nil with nil error means not found.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)

	// ListAvailableForMerge returns invoices that may serve as merge
	// sources. It excludes merge outputs only: an invoice already used as
	// a source stays listed, since nothing marks a source "consumed".
	// companyID of zero and zero times mean no filter.
	ListAvailableForMerge(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Invoice, error)

	Delete(ctx context.Context, id int64) error
}

// MergedInvoiceRepository defines persistence operations for the merged
// invoice variant. Create must store the aggregate and its source links
// together; Delete removes the merged document only, never its sources.
type MergedInvoiceRepository interface {
	Create(ctx context.Context, merged *entity.MergedInvoice) error
	GetByID(ctx context.Context, id int64) (*entity.MergedInvoice, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager handles database transactions.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
