package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/service"
	"github.com/AshapuriCRM/billing-engine/internal/attendance"
	"github.com/AshapuriCRM/billing-engine/internal/billing"
	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoiceService service.InvoiceService
	mergeService   service.MergeService
	companyService service.CompanyService
	sheetReader    *attendance.SheetReader
	defaultRates   entity.RateConfig
	logger         *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	invoiceService service.InvoiceService,
	mergeService service.MergeService,
	companyService service.CompanyService,
	sheetReader *attendance.SheetReader,
	defaultRates entity.RateConfig,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		invoiceService: invoiceService,
		mergeService:   mergeService,
		companyService: companyService,
		sheetReader:    sheetReader,
		defaultRates:   defaultRates,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RateConfigRequest carries rate parameters on compute/create requests.
// The statutory percentages are pointers so an absent field falls back
// to the configured default while an explicit zero stays zero.
type RateConfigRequest struct {
	PerDayRate           float64  `json:"per_day_rate"`
	OvertimeRate         float64  `json:"overtime_rate"`
	ServiceChargeRatePct float64  `json:"service_charge_rate_pct"`
	BonusRatePct         float64  `json:"bonus_rate_pct"`
	PFRatePct            *float64 `json:"pf_rate_pct,omitempty"`
	ESICRatePct          *float64 `json:"esic_rate_pct,omitempty"`
	CGSTRatePct          *float64 `json:"cgst_rate_pct,omitempty"`
	SGSTRatePct          *float64 `json:"sgst_rate_pct,omitempty"`
	GSTPayer             string   `json:"gst_payer,omitempty"`
}

func (r *RateConfigRequest) toRateConfig(defaults entity.RateConfig) (entity.RateConfig, error) {
	cfg := defaults
	cfg.PerDayRate = r.PerDayRate
	cfg.OvertimeRate = r.OvertimeRate
	cfg.ServiceChargeRatePct = r.ServiceChargeRatePct
	cfg.BonusRatePct = r.BonusRatePct
	if r.PFRatePct != nil {
		cfg.PFRatePct = *r.PFRatePct
	}
	if r.ESICRatePct != nil {
		cfg.ESICRatePct = *r.ESICRatePct
	}
	if r.CGSTRatePct != nil {
		cfg.CGSTRatePct = *r.CGSTRatePct
	}
	if r.SGSTRatePct != nil {
		cfg.SGSTRatePct = *r.SGSTRatePct
	}
	if r.GSTPayer != "" {
		payer := entity.GSTPayer(r.GSTPayer)
		if payer != entity.GSTPayerServiceProvider && payer != entity.GSTPayerPrincipalEmployer {
			return entity.RateConfig{}, &billing.ValidationError{
				Field: "gst_payer",
				Reason: fmt.Sprintf("must be %s or %s",
					entity.GSTPayerServiceProvider, entity.GSTPayerPrincipalEmployer),
			}
		}
		cfg.GSTPayer = payer
	}
	return cfg, nil
}

// ComputeInvoiceRequest is the body for POST /api/v1/invoices/compute.
type ComputeInvoiceRequest struct {
	CompanyID    int64                     `json:"company_id"`
	DaysInPeriod int                       `json:"days_in_period"`
	Records      []entity.RawAttendanceRow `json:"records"`
	RateConfig   RateConfigRequest         `json:"rate_config"`
}

// CreateInvoiceRequest is the body for POST /api/v1/invoices.
type CreateInvoiceRequest struct {
	CompanyID     int64                     `json:"company_id"`
	BillingPeriod string                    `json:"billing_period"`
	Records       []entity.AttendanceRecord `json:"records"`
	RateConfig    RateConfigRequest         `json:"rate_config"`
	Notes         string                    `json:"notes"`
}

// MergeInvoicesRequest is the body for POST /api/v1/invoices/merge.
type MergeInvoicesRequest struct {
	SourceInvoiceIDs []int64 `json:"source_invoice_ids"`
	Notes            string  `json:"notes"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":  "healthy",
			"service": "billing-engine",
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ImportAttendance handles POST /api/v1/attendance/import. It accepts a
// multipart .xlsx upload and returns the normalized records with
// skipped-row diagnostics, ready for review before computation.
func (h *Handlers) ImportAttendance(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "file is required")
		return
	}

	daysInPeriod := 0
	if v := c.PostForm("days_in_period"); v != "" {
		daysInPeriod, err = strconv.Atoi(v)
		if err != nil || daysInPeriod < 0 {
			h.badRequest(c, "days_in_period must be a non-negative integer")
			return
		}
	}

	f, err := file.Open()
	if err != nil {
		h.serverError(c, "failed to open upload", err)
		return
	}
	defer f.Close()

	rows, err := h.sheetReader.Read(f)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	records, skipped := billing.NormalizeAttendance(rows, daysInPeriod)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"records": records,
			"skipped": skipped,
		},
	})
}

// ComputeInvoice handles POST /api/v1/invoices/compute. Nothing is
// persisted; the caller reviews the breakdown before creating an
// invoice.
func (h *Handlers) ComputeInvoice(c *gin.Context) {
	var req ComputeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	rateCfg, err := req.RateConfig.toRateConfig(h.defaultRates)
	if err != nil {
		h.domainError(c, err)
		return
	}

	result, err := h.invoiceService.Compute(c.Request.Context(), service.ComputeRequest{
		CompanyID:    req.CompanyID,
		Rows:         req.Records,
		RateConfig:   rateCfg,
		DaysInPeriod: req.DaysInPeriod,
	})
	if err != nil {
		h.domainError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// CreateInvoice handles POST /api/v1/invoices.
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	rateCfg, err := req.RateConfig.toRateConfig(h.defaultRates)
	if err != nil {
		h.domainError(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), service.CreateInvoiceRequest{
		CompanyID:     req.CompanyID,
		BillingPeriod: req.BillingPeriod,
		Records:       req.Records,
		RateConfig:    rateCfg,
		Notes:         req.Notes,
	})
	if err != nil {
		h.domainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: invoice})
}

// ListInvoices handles GET /api/v1/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), limit, offset)
	if err != nil {
		h.serverError(c, "failed to list invoices", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoices})
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, "failed to get invoice", err)
		return
	}
	if invoice == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoice})
}

// DeleteInvoice handles DELETE /api/v1/invoices/:id
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		h.serverError(c, "failed to delete invoice", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListMergeable handles GET /api/v1/invoices/mergeable
func (h *Handlers) ListMergeable(c *gin.Context) {
	var companyID int64
	if v := c.Query("company_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.badRequest(c, "company_id must be an integer")
			return
		}
		companyID = id
	}

	from, ok := h.queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to")
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListMergeable(c.Request.Context(), companyID, from, to)
	if err != nil {
		h.serverError(c, "failed to list mergeable invoices", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoices})
}

// MergeInvoices handles POST /api/v1/invoices/merge
func (h *Handlers) MergeInvoices(c *gin.Context) {
	var req MergeInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	merged, err := h.mergeService.Merge(c.Request.Context(), req.SourceInvoiceIDs, req.Notes)
	if err != nil {
		h.domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: merged})
}

// GetMergedInvoice handles GET /api/v1/invoices/merged/:id
func (h *Handlers) GetMergedInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	merged, err := h.mergeService.GetMergedInvoice(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, "failed to get merged invoice", err)
		return
	}
	if merged == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "merged invoice not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: merged})
}

// DeleteMergedInvoice handles DELETE /api/v1/invoices/merged/:id
func (h *Handlers) DeleteMergedInvoice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.mergeService.DeleteMergedInvoice(c.Request.Context(), id); err != nil {
		h.serverError(c, "failed to delete merged invoice", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListCompanies handles GET /api/v1/companies
func (h *Handlers) ListCompanies(c *gin.Context) {
	companies, err := h.companyService.ListCompanies(c.Request.Context())
	if err != nil {
		h.serverError(c, "failed to list companies", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: companies})
}

// CreateCompany handles POST /api/v1/companies
func (h *Handlers) CreateCompany(c *gin.Context) {
	var company entity.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	if err := h.companyService.CreateCompany(c.Request.Context(), &company); err != nil {
		h.domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: company})
}

// CreateEmployee handles POST /api/v1/employees
func (h *Handlers) CreateEmployee(c *gin.Context) {
	var employee entity.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	if err := h.companyService.AddEmployee(c.Request.Context(), &employee); err != nil {
		h.domainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: employee})
}

func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handlers) queryTime(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		h.badRequest(c, key+" must be a date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return t, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// domainError maps calculation and merge errors onto status codes. The
// error message always names the offending field or precondition.
func (h *Handlers) domainError(c *gin.Context, err error) {
	var vErr *billing.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: vErr.Error()})
		return
	}
	var mErr *billing.MergeError
	if errors.As(err, &mErr) {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: mErr.Error()})
		return
	}
	h.serverError(c, "request failed", err)
}

func (h *Handlers) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: msg})
}
