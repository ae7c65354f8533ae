package payroll

import "errors"

var (
	ErrEntryNotFound  = errors.New("payroll entry not found")
	ErrInvalidPeriod  = errors.New("invalid payroll period")
	ErrEntryImmutable = errors.New("paid payroll entry cannot be modified")
)
