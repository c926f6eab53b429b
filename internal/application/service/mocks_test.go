package service

import (
	"context"
	"time"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

type mockCompanyRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.Company, error)
}

func (m *mockCompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	company.ID = 1
	return nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Company{ID: id, Name: "Alpha Security Services", Location: "Ahmedabad"}, nil
}

func (m *mockCompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	return nil, nil
}

type mockEmployeeRepo struct {
	listNamesFunc func(ctx context.Context, companyID int64) ([]string, error)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	employee.ID = 1
	return nil
}

func (m *mockEmployeeRepo) ListNamesByCompany(ctx context.Context, companyID int64) ([]string, error) {
	if m.listNamesFunc != nil {
		return m.listNamesFunc(ctx, companyID)
	}
	return nil, nil
}

// mockInvoiceRepo keeps invoices in a map so merge tests can verify that
// sources survive merges and merged-invoice deletion.
type mockInvoiceRepo struct {
	invoices map[int64]*entity.Invoice
	nextID   int64
	created  []*entity.Invoice
}

func newMockInvoiceRepo(seed ...*entity.Invoice) *mockInvoiceRepo {
	repo := &mockInvoiceRepo{invoices: make(map[int64]*entity.Invoice), nextID: 1000}
	for _, inv := range seed {
		repo.invoices[inv.ID] = inv
	}
	return repo
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	m.nextID++
	invoice.ID = m.nextID
	invoice.CreatedAt = time.Now()
	m.invoices[invoice.ID] = invoice
	m.created = append(m.created, invoice)
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return m.invoices[id], nil
}

func (m *mockInvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range m.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (m *mockInvoiceRepo) ListAvailableForMerge(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range m.invoices {
		if !inv.IsMerged {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id int64) error {
	delete(m.invoices, id)
	return nil
}

type mockMergedRepo struct {
	merged     map[int64]*entity.MergedInvoice
	nextID     int64
	createErr  error
	deletedIDs []int64
}

func newMockMergedRepo() *mockMergedRepo {
	return &mockMergedRepo{merged: make(map[int64]*entity.MergedInvoice), nextID: 5000}
}

func (m *mockMergedRepo) Create(ctx context.Context, mi *entity.MergedInvoice) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	mi.ID = m.nextID
	m.merged[mi.ID] = mi
	return nil
}

func (m *mockMergedRepo) GetByID(ctx context.Context, id int64) (*entity.MergedInvoice, error) {
	return m.merged[id], nil
}

func (m *mockMergedRepo) Delete(ctx context.Context, id int64) error {
	delete(m.merged, id)
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
