package entity

import "time"

// BillDetails holds the monetary summary persisted with an invoice.
// On a regular invoice these come from a confirmed breakdown snapshot;
// on a merged invoice they are sums over the source invoices.
type BillDetails struct {
	BaseAmount    float64 `json:"base_amount"`
	ServiceCharge float64 `json:"service_charge"`
	PFAmount      float64 `json:"pf_amount"`
	ESICAmount    float64 `json:"esic_amount"`
	GSTAmount     float64 `json:"gst_amount"`
	TotalAmount   float64 `json:"total_amount"`
}

// InvoiceEmployee is one employee line on a persisted invoice. On rows
// belonging to a merged invoice, SourceCompany and SourceInvoiceNumber
// record where the line came from; the same person appearing in two
// source invoices yields two lines, preserving the audit trail.
type InvoiceEmployee struct {
	Name                string  `json:"name"`
	PresentDays         int     `json:"present_days"`
	OvertimeDays        int     `json:"overtime_days,omitempty"`
	Salary              float64 `json:"salary"`
	SourceCompany       string  `json:"source_company,omitempty"`
	SourceInvoiceNumber string  `json:"source_invoice_number,omitempty"`
}

// Invoice is a persisted invoice record. IsMerged discriminates the two
// variants: a regular invoice created from a breakdown snapshot, and a
// consolidated invoice produced by merging two or more regular ones.
type Invoice struct {
	ID              int64             `json:"id"`
	InvoiceNumber   string            `json:"invoice_number"`
	CompanyID       int64             `json:"company_id,omitempty"`
	CompanyName     string            `json:"company_name,omitempty"`
	CompanyLocation string            `json:"company_location,omitempty"`
	IsMerged        bool              `json:"is_merged"`
	BillingPeriod   string            `json:"billing_period,omitempty"`
	BillDetails     BillDetails       `json:"bill_details"`
	Employees       []InvoiceEmployee `json:"employees,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// MergedCompany identifies one distinct company contributing to a merged
// invoice. Identity is by CompanyID; there is no fuzzy name matching.
type MergedCompany struct {
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
}

// MergedInvoice is the consolidated record produced by merging two or
// more previously issued invoices. Source invoices are read-only inputs:
// nothing on them is mutated, and deleting a merged invoice never
// cascades to its sources.
type MergedInvoice struct {
	ID               int64             `json:"id"`
	InvoiceNumber    string            `json:"invoice_number"`
	SourceInvoiceIDs []int64           `json:"source_invoice_ids"`
	Companies        []MergedCompany   `json:"companies"`
	BillDetails      BillDetails       `json:"bill_details"`
	Employees        []InvoiceEmployee `json:"employees,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}
