package benefit

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrCostNotFound = errors.New("benefits cost not found")

// Cost is the monthly benefits cost carried by one employee. It only
// feeds the total computation of imported payroll entries; nothing in
// this service produces it.
type Cost struct {
	EmployeeID  string
	MonthlyCost decimal.Decimal
	UpdatedAt   time.Time
}

type Repository interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (Cost, error)
}
