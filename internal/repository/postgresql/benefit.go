package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/folhaplus/folha-backend-go/internal/domain/benefit"
	"github.com/folhaplus/folha-backend-go/internal/pkg/database"
)

type benefitRepositoryImpl struct {
	db *database.DB
}

func NewBenefitRepository(db *database.DB) benefit.Repository {
	return &benefitRepositoryImpl{db: db}
}

// GetByEmployeeID implements benefit.Repository.
func (r *benefitRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (benefit.Cost, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, monthly_cost, updated_at
		FROM benefit_costs
		WHERE employee_id = $1
	`

	var c benefit.Cost
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&c.EmployeeID,
		&c.MonthlyCost,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return benefit.Cost{}, benefit.ErrCostNotFound
		}
		return benefit.Cost{}, fmt.Errorf("failed to get benefit cost for employee %s: %w", employeeID, err)
	}

	return c, nil
}
