package billing

import (
	"fmt"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// MergeInvoices combines two or more already-issued invoices into one
// consolidated record. It is pure computation over read-only inputs: no
// field on any source invoice is touched, and the same source may appear
// in any number of later merges.
//
// Monetary fields are summed with missing values treated as zero; a
// source is never skipped for lacking a sub-field. Companies are unioned
// by company ID. Employee rows are concatenated, tagged with their
// originating company and invoice number, and deliberately NOT
// deduplicated by name: a person appearing on two source invoices keeps
// both lines as the audit trail.
//
// The returned MergedInvoice has no ID, invoice number or creation time;
// assigning those is the caller's concern at persistence.
func MergeInvoices(sources []*entity.Invoice, notes string) (*entity.MergedInvoice, error) {
	if len(sources) < 2 {
		return nil, &MergeError{
			Precondition: MergeMinTwoRequired,
			Detail:       fmt.Sprintf("got %d source invoice(s), need at least 2", len(sources)),
		}
	}

	seen := make(map[int64]bool, len(sources))
	for _, src := range sources {
		if seen[src.ID] {
			return nil, &MergeError{
				Precondition: MergeMinTwoRequired,
				Detail:       fmt.Sprintf("source invoice %d selected more than once", src.ID),
			}
		}
		seen[src.ID] = true
	}

	merged := &entity.MergedInvoice{
		SourceInvoiceIDs: make([]int64, 0, len(sources)),
		Notes:            notes,
	}

	companySeen := make(map[int64]bool)
	for _, src := range sources {
		merged.SourceInvoiceIDs = append(merged.SourceInvoiceIDs, src.ID)

		merged.BillDetails.BaseAmount += src.BillDetails.BaseAmount
		merged.BillDetails.ServiceCharge += src.BillDetails.ServiceCharge
		merged.BillDetails.PFAmount += src.BillDetails.PFAmount
		merged.BillDetails.ESICAmount += src.BillDetails.ESICAmount
		merged.BillDetails.GSTAmount += src.BillDetails.GSTAmount
		merged.BillDetails.TotalAmount += src.BillDetails.TotalAmount

		if src.CompanyID != 0 && !companySeen[src.CompanyID] {
			companySeen[src.CompanyID] = true
			merged.Companies = append(merged.Companies, entity.MergedCompany{
				CompanyID: src.CompanyID,
				Name:      src.CompanyName,
				Location:  src.CompanyLocation,
			})
		}

		for _, emp := range src.Employees {
			merged.Employees = append(merged.Employees, entity.InvoiceEmployee{
				Name:                emp.Name,
				PresentDays:         emp.PresentDays,
				OvertimeDays:        emp.OvertimeDays,
				Salary:              emp.Salary,
				SourceCompany:       src.CompanyName,
				SourceInvoiceNumber: src.InvoiceNumber,
			})
		}
	}

	return merged, nil
}
