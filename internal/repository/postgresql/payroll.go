package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
	"github.com/folhaplus/folha-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepositoryImpl{db: db}
}

const entryColumns = `
	id, employee_id, snapshot, periodo,
	valor, adicional, reembolso, desconto, beneficios,
	valor_total, valor_total_sem_reembolso,
	splits, total_opers, nota_fiscal, situacao,
	created_at, updated_at
`

func scanEntry(row pgx.Row) (payroll.Entry, error) {
	var e payroll.Entry
	var snapshot, splits []byte

	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&snapshot,
		&e.Periodo,
		&e.Valor,
		&e.Adicional,
		&e.Reembolso,
		&e.Desconto,
		&e.Beneficios,
		&e.ValorTotal,
		&e.ValorTotalSemReembolso,
		&splits,
		&e.TotalOpers,
		&e.NotaFiscal,
		&e.Situacao,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return payroll.Entry{}, err
	}

	if err := json.Unmarshal(snapshot, &e.Snapshot); err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to decode entry snapshot: %w", err)
	}
	if len(splits) > 0 {
		if err := json.Unmarshal(splits, &e.Splits); err != nil {
			return payroll.Entry{}, fmt.Errorf("failed to decode entry splits: %w", err)
		}
	}

	return e, nil
}

// Insert implements payroll.Repository.
func (r *payrollRepositoryImpl) Insert(ctx context.Context, entry payroll.Entry) (payroll.Entry, error) {
	q := GetQuerier(ctx, r.db)

	snapshot, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to encode entry snapshot: %w", err)
	}
	splits, err := json.Marshal(entry.Splits)
	if err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to encode entry splits: %w", err)
	}

	query := `
		INSERT INTO payroll_entries (
			id, employee_id, snapshot, periodo,
			valor, adicional, reembolso, desconto, beneficios,
			valor_total, valor_total_sem_reembolso,
			splits, total_opers, nota_fiscal, situacao
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + entryColumns

	created, err := scanEntry(q.QueryRow(ctx, query,
		entry.ID,
		entry.EmployeeID,
		snapshot,
		entry.Periodo,
		entry.Valor,
		entry.Adicional,
		entry.Reembolso,
		entry.Desconto,
		entry.Beneficios,
		entry.ValorTotal,
		entry.ValorTotalSemReembolso,
		splits,
		entry.TotalOpers,
		entry.NotaFiscal,
		entry.Situacao,
	))
	if err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to insert payroll entry: %w", err)
	}

	return created, nil
}

// Update implements payroll.Repository.
func (r *payrollRepositoryImpl) Update(ctx context.Context, req payroll.UpdateEntryRequest) error {
	q := GetQuerier(ctx, r.db)

	sql := `UPDATE payroll_entries SET updated_at = NOW()`
	args := []interface{}{}
	n := 1

	add := func(column string, value interface{}) {
		sql += fmt.Sprintf(", %s = $%d", column, n)
		args = append(args, value)
		n++
	}

	if req.Snapshot != nil {
		snapshot, err := json.Marshal(req.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to encode entry snapshot: %w", err)
		}
		add("snapshot", snapshot)
	}
	if req.Valor != nil {
		add("valor", *req.Valor)
	}
	if req.Adicional != nil {
		add("adicional", *req.Adicional)
	}
	if req.Reembolso != nil {
		add("reembolso", *req.Reembolso)
	}
	if req.Desconto != nil {
		add("desconto", *req.Desconto)
	}
	if req.Beneficios != nil {
		add("beneficios", *req.Beneficios)
	}
	if req.ValorTotal != nil {
		add("valor_total", *req.ValorTotal)
	}
	if req.ValorTotalSemReembolso != nil {
		add("valor_total_sem_reembolso", *req.ValorTotalSemReembolso)
	}
	if req.Splits != nil {
		splits, err := json.Marshal(req.Splits)
		if err != nil {
			return fmt.Errorf("failed to encode entry splits: %w", err)
		}
		add("splits", splits)
	}
	if req.TotalOpers != nil {
		add("total_opers", *req.TotalOpers)
	}
	if req.NotaFiscal != nil {
		add("nota_fiscal", *req.NotaFiscal)
	}
	if req.Situacao != nil {
		add("situacao", *req.Situacao)
	}

	sql += fmt.Sprintf(" WHERE id = $%d RETURNING id", n)
	args = append(args, req.ID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrEntryNotFound
		}
		return fmt.Errorf("failed to update payroll entry with id %s: %w", req.ID, err)
	}

	return nil
}

// GetByID implements payroll.Repository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE id = $1`

	entry, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Entry{}, payroll.ErrEntryNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to get payroll entry with id %s: %w", id, err)
	}

	return entry, nil
}

// ListByPeriod implements payroll.Repository.
func (r *payrollRepositoryImpl) ListByPeriod(ctx context.Context, periodo string) ([]payroll.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE periodo = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, periodo)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries for period %s: %w", periodo, err)
	}
	defer rows.Close()

	var entries []payroll.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll entries: %w", err)
	}

	return entries, nil
}

// FindByEmployeePeriod implements payroll.Repository.
func (r *payrollRepositoryImpl) FindByEmployeePeriod(ctx context.Context, employeeID string, periodo string) (payroll.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE employee_id = $1 AND periodo = $2`

	entry, err := scanEntry(q.QueryRow(ctx, query, employeeID, periodo))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Entry{}, payroll.ErrEntryNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to find payroll entry for employee %s in %s: %w", employeeID, periodo, err)
	}

	return entry, nil
}
