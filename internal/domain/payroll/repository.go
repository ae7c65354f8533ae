package payroll

import "context"

// Repository defines ledger data access. ListByPeriod feeds the
// duplicate detector; Insert and Update are only reached from the
// import commit and the entry endpoints.
type Repository interface {
	Insert(ctx context.Context, entry Entry) (Entry, error)
	Update(ctx context.Context, req UpdateEntryRequest) error
	GetByID(ctx context.Context, id string) (Entry, error)
	ListByPeriod(ctx context.Context, periodo string) ([]Entry, error)
	FindByEmployeePeriod(ctx context.Context, employeeID string, periodo string) (Entry, error)
}
