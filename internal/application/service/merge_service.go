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

// MergeService resolves source invoices, runs the merge aggregation, and
// persists the consolidated record.
type MergeService interface {
	Merge(ctx context.Context, sourceIDs []int64, notes string) (*entity.MergedInvoice, error)
	GetMergedInvoice(ctx context.Context, id int64) (*entity.MergedInvoice, error)
	DeleteMergedInvoice(ctx context.Context, id int64) error
}

type mergeServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	mergedRepo  port.MergedInvoiceRepository
	txManager   port.TransactionManager
	logger      *zap.Logger
}

// NewMergeService creates a new MergeService.
func NewMergeService(
	invoiceRepo port.InvoiceRepository,
	mergedRepo port.MergedInvoiceRepository,
	txManager port.TransactionManager,
	logger *zap.Logger,
) MergeService {
	return &mergeServiceImpl{
		invoiceRepo: invoiceRepo,
		mergedRepo:  mergedRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Merge consolidates the given source invoices into one merged invoice.
// Sources are read-only throughout; the aggregate and its source links
// are written in a single transaction, so the caller sees either the
// whole merged record or nothing.
func (s *mergeServiceImpl) Merge(ctx context.Context, sourceIDs []int64, notes string) (*entity.MergedInvoice, error) {
	sources := make([]*entity.Invoice, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		inv, err := s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source invoice %d: %w", id, err)
		}
		if inv == nil {
			return nil, &billing.MergeError{
				Precondition: billing.MergeSourceNotFound,
				Detail:       fmt.Sprintf("invoice %d does not exist", id),
			}
		}
		sources = append(sources, inv)
	}

	merged, err := billing.MergeInvoices(sources, notes)
	if err != nil {
		return nil, err
	}

	merged.InvoiceNumber = newMergedInvoiceNumber()
	merged.CreatedAt = time.Now().UTC()

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.mergedRepo.Create(ctx, merged)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist merged invoice: %w", err)
	}

	s.logger.Info("Invoices merged",
		zap.Int64("merged_invoice_id", merged.ID),
		zap.String("invoice_number", merged.InvoiceNumber),
		zap.Int64s("source_invoice_ids", merged.SourceInvoiceIDs),
		zap.Float64("total_amount", merged.BillDetails.TotalAmount))

	return merged, nil
}

func (s *mergeServiceImpl) GetMergedInvoice(ctx context.Context, id int64) (*entity.MergedInvoice, error) {
	return s.mergedRepo.GetByID(ctx, id)
}

// DeleteMergedInvoice removes the merged document only. Source invoices
// stay untouched and independently retrievable.
func (s *mergeServiceImpl) DeleteMergedInvoice(ctx context.Context, id int64) error {
	if err := s.mergedRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete merged invoice %d: %w", id, err)
	}
	s.logger.Info("Merged invoice deleted", zap.Int64("merged_invoice_id", id))
	return nil
}

func newMergedInvoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "MRG-" + id[:12]
}
