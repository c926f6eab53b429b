package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

func mergeSources() []*entity.Invoice {
	return []*entity.Invoice{
		{
			ID:              101,
			InvoiceNumber:   "INV-2024-101",
			CompanyID:       1,
			CompanyName:     "Alpha Security Services",
			CompanyLocation: "Ahmedabad",
			BillDetails: entity.BillDetails{
				BaseAmount:    8000,
				ServiceCharge: 560,
				PFAmount:      1040,
				ESICAmount:    260,
				GSTAmount:     140,
				TotalAmount:   10000,
			},
			Employees: []entity.InvoiceEmployee{
				{Name: "Ramesh Kumar", PresentDays: 26, Salary: 12116},
			},
		},
		{
			ID:              102,
			InvoiceNumber:   "INV-2024-102",
			CompanyID:       2,
			CompanyName:     "Beta Industries",
			CompanyLocation: "Surat",
			BillDetails: entity.BillDetails{
				BaseAmount:    12000,
				ServiceCharge: 840,
				PFAmount:      1560,
				ESICAmount:    390,
				GSTAmount:     210,
				TotalAmount:   15000,
			},
			Employees: []entity.InvoiceEmployee{
				{Name: "Suresh Patel", PresentDays: 24, Salary: 11184},
				{Name: "Ramesh Kumar", PresentDays: 20, Salary: 9320},
			},
		},
	}
}

func TestMergeInvoices_SumsBillDetails(t *testing.T) {
	merged, err := MergeInvoices(mergeSources(), "consolidated for March")
	require.NoError(t, err)

	assert.Equal(t, 25000.0, merged.BillDetails.TotalAmount)
	assert.Equal(t, 20000.0, merged.BillDetails.BaseAmount)
	assert.Equal(t, 1400.0, merged.BillDetails.ServiceCharge)
	assert.Equal(t, 2600.0, merged.BillDetails.PFAmount)
	assert.Equal(t, 650.0, merged.BillDetails.ESICAmount)
	assert.Equal(t, 350.0, merged.BillDetails.GSTAmount)
	assert.Equal(t, "consolidated for March", merged.Notes)
}

func TestMergeInvoices_MissingFieldsDefaultToZero(t *testing.T) {
	sources := mergeSources()
	// A source with only a total must still be summed, not skipped.
	sources[0].BillDetails = entity.BillDetails{TotalAmount: 10000}

	merged, err := MergeInvoices(sources, "")
	require.NoError(t, err)
	assert.Equal(t, 25000.0, merged.BillDetails.TotalAmount)
	assert.Equal(t, 12000.0, merged.BillDetails.BaseAmount)
}

func TestMergeInvoices_SourceOrderPreserved(t *testing.T) {
	merged, err := MergeInvoices(mergeSources(), "")
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, merged.SourceInvoiceIDs)
}

func TestMergeInvoices_CompaniesUnionedByID(t *testing.T) {
	sources := mergeSources()
	sources = append(sources, &entity.Invoice{
		ID:            103,
		InvoiceNumber: "INV-2024-103",
		CompanyID:     1,
		CompanyName:   "Alpha Security Services",
		BillDetails:   entity.BillDetails{TotalAmount: 5000},
	})

	merged, err := MergeInvoices(sources, "")
	require.NoError(t, err)

	require.Len(t, merged.Companies, 2)
	assert.Equal(t, int64(1), merged.Companies[0].CompanyID)
	assert.Equal(t, "Ahmedabad", merged.Companies[0].Location)
	assert.Equal(t, int64(2), merged.Companies[1].CompanyID)
}

// No dedup by employee name: the same person on two source invoices keeps
// both lines, each tagged with its origin.
func TestMergeInvoices_EmployeesConcatenated(t *testing.T) {
	merged, err := MergeInvoices(mergeSources(), "")
	require.NoError(t, err)

	require.Len(t, merged.Employees, 3)

	assert.Equal(t, "Ramesh Kumar", merged.Employees[0].Name)
	assert.Equal(t, "Alpha Security Services", merged.Employees[0].SourceCompany)
	assert.Equal(t, "INV-2024-101", merged.Employees[0].SourceInvoiceNumber)

	assert.Equal(t, "Ramesh Kumar", merged.Employees[2].Name)
	assert.Equal(t, "Beta Industries", merged.Employees[2].SourceCompany)
	assert.Equal(t, "INV-2024-102", merged.Employees[2].SourceInvoiceNumber)
}

func TestMergeInvoices_MinTwoRequired(t *testing.T) {
	sources := mergeSources()

	_, err := MergeInvoices(sources[:1], "")
	var mErr *MergeError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, MergeMinTwoRequired, mErr.Precondition)

	_, err = MergeInvoices(nil, "")
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, MergeMinTwoRequired, mErr.Precondition)
}

func TestMergeInvoices_DuplicateSourceRejected(t *testing.T) {
	sources := mergeSources()
	sources[1] = sources[0]

	_, err := MergeInvoices(sources, "")
	var mErr *MergeError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, MergeMinTwoRequired, mErr.Precondition)
	assert.Contains(t, mErr.Detail, "more than once")
}

func TestMergeInvoices_SourcesUntouched(t *testing.T) {
	sources := mergeSources()
	before := []entity.Invoice{*sources[0], *sources[1]}

	_, err := MergeInvoices(sources, "audit")
	require.NoError(t, err)

	assert.Equal(t, before[0], *sources[0])
	assert.Equal(t, before[1], *sources[1])
	assert.False(t, sources[0].IsMerged)
	assert.False(t, sources[1].IsMerged)
}
