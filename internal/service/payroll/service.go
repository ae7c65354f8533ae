package payroll

import (
	"context"

	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
	"github.com/folhaplus/folha-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	payrollRepo payroll.Repository
}

type Service interface {
	ListByPeriod(ctx context.Context, periodo string) ([]payroll.EntryResponse, error)
	GetByID(ctx context.Context, id string) (payroll.EntryResponse, error)
}

func NewPayrollService(payrollRepo payroll.Repository) Service {
	return &PayrollServiceImpl{payrollRepo: payrollRepo}
}

func (s *PayrollServiceImpl) ListByPeriod(ctx context.Context, periodo string) ([]payroll.EntryResponse, error) {
	if !validator.IsValidPeriod(periodo) {
		return nil, payroll.ErrInvalidPeriod
	}

	entries, err := s.payrollRepo.ListByPeriod(ctx, periodo)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, payroll.ToEntryResponse(entry))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) GetByID(ctx context.Context, id string) (payroll.EntryResponse, error) {
	if validator.IsEmpty(id) {
		return payroll.EntryResponse{}, payroll.ErrEntryNotFound
	}

	entry, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.EntryResponse{}, err
	}
	return payroll.ToEntryResponse(entry), nil
}
