package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrCPFExists        = errors.New("CPF already registered")
	ErrInvalidCPF       = errors.New("invalid CPF")
	ErrInvalidContract  = errors.New("contract type must be CLT or PJ")
)
