package employee

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/folhaplus/folha-backend-go/internal/domain/employee"
	"github.com/folhaplus/folha-backend-go/internal/pkg/textutil"
	"github.com/folhaplus/folha-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.Repository
}

type Service interface {
	ListActive(ctx context.Context) ([]employee.Employee, error)
	GetByID(ctx context.Context, id string) (employee.Employee, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (employee.Employee, error)
}

type CreateEmployeeRequest struct {
	FullName string `json:"full_name"`
	CPF      string `json:"cpf"`
	Funcao   string `json:"funcao"`
	Contrato string `json:"contrato"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if !validator.IsValidCPF(r.CPF) {
		errs = append(errs, validator.ValidationError{Field: "cpf", Message: "must be a valid CPF"})
	}
	if !employee.ContractType(strings.ToUpper(strings.TrimSpace(r.Contrato))).Valid() {
		errs = append(errs, validator.ValidationError{Field: "contrato", Message: "must be 'CLT' or 'PJ'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func NewEmployeeService(employeeRepo employee.Repository) Service {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

func (s *EmployeeServiceImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return s.employeeRepo.ListActive(ctx)
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if validator.IsEmpty(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	newEmployee := employee.Employee{
		ID:       uuid.NewString(),
		FullName: strings.TrimSpace(req.FullName),
		CPF:      textutil.Digits(req.CPF),
		Funcao:   strings.TrimSpace(req.Funcao),
		Contrato: employee.ContractType(strings.ToUpper(strings.TrimSpace(req.Contrato))),
		Ativo:    true,
	}
	return s.employeeRepo.Create(ctx, newEmployee)
}
