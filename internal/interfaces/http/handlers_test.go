package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/service"
	"github.com/AshapuriCRM/billing-engine/internal/attendance"
	"github.com/AshapuriCRM/billing-engine/internal/billing"
	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

type stubInvoiceService struct {
	computeFn func(ctx context.Context, req service.ComputeRequest) (*service.ComputeResult, error)
	getFn     func(ctx context.Context, id int64) (*entity.Invoice, error)
}

func (s *stubInvoiceService) Compute(ctx context.Context, req service.ComputeRequest) (*service.ComputeResult, error) {
	return s.computeFn(ctx, req)
}

func (s *stubInvoiceService) CreateInvoice(ctx context.Context, req service.CreateInvoiceRequest) (*entity.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceService) GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func (s *stubInvoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceService) ListMergeable(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Invoice, error) {
	return nil, nil
}

func (s *stubInvoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	return nil
}

type stubMergeService struct {
	mergeFn func(ctx context.Context, sourceIDs []int64, notes string) (*entity.MergedInvoice, error)
}

func (s *stubMergeService) Merge(ctx context.Context, sourceIDs []int64, notes string) (*entity.MergedInvoice, error) {
	return s.mergeFn(ctx, sourceIDs, notes)
}

func (s *stubMergeService) GetMergedInvoice(ctx context.Context, id int64) (*entity.MergedInvoice, error) {
	return nil, nil
}

func (s *stubMergeService) DeleteMergedInvoice(ctx context.Context, id int64) error {
	return nil
}

type stubCompanyService struct{}

func (s *stubCompanyService) CreateCompany(ctx context.Context, company *entity.Company) error {
	return nil
}

func (s *stubCompanyService) ListCompanies(ctx context.Context) ([]*entity.Company, error) {
	return []*entity.Company{}, nil
}

func (s *stubCompanyService) AddEmployee(ctx context.Context, employee *entity.Employee) error {
	return nil
}

func newTestServer(t *testing.T, inv service.InvoiceService, mrg service.MergeService) *Server {
	t.Helper()
	logger := zap.NewNop()
	return NewServer(
		DefaultServerConfig(),
		inv,
		mrg,
		&stubCompanyService{},
		attendance.NewSheetReader(logger),
		entity.DefaultRateConfig(),
		logger,
	)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := newTestServer(t, &stubInvoiceService{}, &stubMergeService{})

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestComputeInvoice_ValidationErrorReturns400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	inv := &stubInvoiceService{
		computeFn: func(ctx context.Context, req service.ComputeRequest) (*service.ComputeResult, error) {
			return nil, &billing.ValidationError{Field: "per_day_rate", Reason: "must be positive"}
		},
	}
	srv := newTestServer(t, inv, &stubMergeService{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/invoices/compute", ComputeInvoiceRequest{
		CompanyID: 1,
		Records:   []entity.RawAttendanceRow{{Name: "Ram Singh", PresentDays: 26}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "per_day_rate")
}

func TestComputeInvoice_AppliesDefaultStatutoryRates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured entity.RateConfig
	inv := &stubInvoiceService{
		computeFn: func(ctx context.Context, req service.ComputeRequest) (*service.ComputeResult, error) {
			captured = req.RateConfig
			return &service.ComputeResult{Breakdown: &entity.InvoiceBreakdown{}}, nil
		},
	}
	srv := newTestServer(t, inv, &stubMergeService{})

	body := ComputeInvoiceRequest{
		CompanyID:    1,
		DaysInPeriod: 30,
		Records:      []entity.RawAttendanceRow{{Name: "Ram Singh", PresentDays: 26}},
		RateConfig:   RateConfigRequest{PerDayRate: 466, ServiceChargeRatePct: 7},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/invoices/compute", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 466.0, captured.PerDayRate)
	assert.Equal(t, entity.DefaultPFRatePct, captured.PFRatePct)
	assert.Equal(t, entity.DefaultESICRatePct, captured.ESICRatePct)
	assert.Equal(t, entity.DefaultCGSTRatePct, captured.CGSTRatePct)
}

func TestComputeInvoice_ExplicitZeroRateOverridesDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured entity.RateConfig
	inv := &stubInvoiceService{
		computeFn: func(ctx context.Context, req service.ComputeRequest) (*service.ComputeResult, error) {
			captured = req.RateConfig
			return &service.ComputeResult{Breakdown: &entity.InvoiceBreakdown{}}, nil
		},
	}
	srv := newTestServer(t, inv, &stubMergeService{})

	zero := 0.0
	body := ComputeInvoiceRequest{
		CompanyID:    1,
		DaysInPeriod: 30,
		Records:      []entity.RawAttendanceRow{{Name: "Ram Singh", PresentDays: 26}},
		RateConfig: RateConfigRequest{
			PerDayRate: 466,
			PFRatePct:  &zero,
		},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/invoices/compute", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, captured.PFRatePct)
	assert.Equal(t, entity.DefaultESICRatePct, captured.ESICRatePct)
}

func TestComputeInvoice_UnknownGSTPayerRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	inv := &stubInvoiceService{
		computeFn: func(ctx context.Context, req service.ComputeRequest) (*service.ComputeResult, error) {
			t.Fatal("service must not be called with an invalid gst_payer")
			return nil, nil
		},
	}
	srv := newTestServer(t, inv, &stubMergeService{})

	body := ComputeInvoiceRequest{
		CompanyID:    1,
		DaysInPeriod: 30,
		Records:      []entity.RawAttendanceRow{{Name: "Ram Singh", PresentDays: 26}},
		RateConfig:   RateConfigRequest{PerDayRate: 466, GSTPayer: "CONTRACTOR"},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/invoices/compute", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "gst_payer")
}

func TestComputeInvoice_PrincipalEmployerPayerAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured entity.RateConfig
	inv := &stubInvoiceService{
		computeFn: func(ctx context.Context, req service.ComputeRequest) (*service.ComputeResult, error) {
			captured = req.RateConfig
			return &service.ComputeResult{Breakdown: &entity.InvoiceBreakdown{}}, nil
		},
	}
	srv := newTestServer(t, inv, &stubMergeService{})

	body := ComputeInvoiceRequest{
		CompanyID:    1,
		DaysInPeriod: 30,
		Records:      []entity.RawAttendanceRow{{Name: "Ram Singh", PresentDays: 26}},
		RateConfig:   RateConfigRequest{PerDayRate: 466, GSTPayer: "PRINCIPAL_EMPLOYER"},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/invoices/compute", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.GSTPayerPrincipalEmployer, captured.GSTPayer)
}

func TestMergeInvoices_PreconditionErrorReturns400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mrg := &stubMergeService{
		mergeFn: func(ctx context.Context, sourceIDs []int64, notes string) (*entity.MergedInvoice, error) {
			return nil, &billing.MergeError{Precondition: "min-two-required", Detail: "got 1 invoice"}
		},
	}
	srv := newTestServer(t, &stubInvoiceService{}, mrg)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/invoices/merge", MergeInvoicesRequest{
		SourceInvoiceIDs: []int64{7},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "min-two-required")
}

func TestMergeInvoices_Created(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mrg := &stubMergeService{
		mergeFn: func(ctx context.Context, sourceIDs []int64, notes string) (*entity.MergedInvoice, error) {
			return &entity.MergedInvoice{
				ID:               42,
				InvoiceNumber:    "MRG-AB12CD34EF56",
				SourceInvoiceIDs: sourceIDs,
			}, nil
		},
	}
	srv := newTestServer(t, &stubInvoiceService{}, mrg)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/invoices/merge", MergeInvoicesRequest{
		SourceInvoiceIDs: []int64{1, 2},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetInvoice_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := newTestServer(t, &stubInvoiceService{}, &stubMergeService{})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/invoices/99", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInvoice_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := newTestServer(t, &stubInvoiceService{}, &stubMergeService{})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/invoices/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
