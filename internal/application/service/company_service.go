package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/port"
	"github.com/AshapuriCRM/billing-engine/internal/billing"
	"github.com/AshapuriCRM/billing-engine/internal/domain/entity"
)

// CompanyService manages the company registry and its employee roster.
type CompanyService interface {
	CreateCompany(ctx context.Context, company *entity.Company) error
	ListCompanies(ctx context.Context) ([]*entity.Company, error)
	AddEmployee(ctx context.Context, employee *entity.Employee) error
}

type companyServiceImpl struct {
	companyRepo  port.CompanyRepository
	employeeRepo port.EmployeeRepository
	logger       *zap.Logger
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(
	companyRepo port.CompanyRepository,
	employeeRepo port.EmployeeRepository,
	logger *zap.Logger,
) CompanyService {
	return &companyServiceImpl{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func (s *companyServiceImpl) CreateCompany(ctx context.Context, company *entity.Company) error {
	company.Name = strings.TrimSpace(company.Name)
	if company.Name == "" {
		return &billing.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	s.logger.Info("Company created", zap.Int64("company_id", company.ID), zap.String("name", company.Name))
	return nil
}

func (s *companyServiceImpl) ListCompanies(ctx context.Context) ([]*entity.Company, error) {
	return s.companyRepo.List(ctx)
}

func (s *companyServiceImpl) AddEmployee(ctx context.Context, employee *entity.Employee) error {
	employee.Name = strings.TrimSpace(employee.Name)
	if employee.Name == "" {
		return &billing.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	company, err := s.companyRepo.GetByID(ctx, employee.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to resolve company %d: %w", employee.CompanyID, err)
	}
	if company == nil {
		return &billing.ValidationError{Field: "company_id", Reason: fmt.Sprintf("company %d not found", employee.CompanyID)}
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}
