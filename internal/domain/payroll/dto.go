package payroll

import (
	"github.com/shopspring/decimal"
)

// UpdateEntryRequest is a partial, field-level update applied to an
// existing ledger entry, keyed by id at the repository. Used when an
// operator resolves an import duplicate with the update action.
type UpdateEntryRequest struct {
	ID string

	Snapshot *EmployeeSnapshot

	Valor                  *decimal.Decimal
	Adicional              *decimal.Decimal
	Reembolso              *decimal.Decimal
	Desconto               *decimal.Decimal
	Beneficios             *decimal.Decimal
	ValorTotal             *decimal.Decimal
	ValorTotalSemReembolso *decimal.Decimal

	Splits     []EntitySplit
	TotalOpers *decimal.Decimal

	NotaFiscal *string
	Situacao   *Situacao
}

type EntryResponse struct {
	ID         string           `json:"id"`
	EmployeeID *string          `json:"employee_id,omitempty"`
	Snapshot   EmployeeSnapshot `json:"snapshot"`
	Periodo    string           `json:"periodo"`

	Valor                  decimal.Decimal `json:"valor"`
	Adicional              decimal.Decimal `json:"adicional"`
	Reembolso              decimal.Decimal `json:"reembolso"`
	Desconto               decimal.Decimal `json:"desconto"`
	Beneficios             decimal.Decimal `json:"beneficios"`
	ValorTotal             decimal.Decimal `json:"valor_total"`
	ValorTotalSemReembolso decimal.Decimal `json:"valor_total_sem_reembolso"`

	Splits     []EntitySplit   `json:"splits,omitempty"`
	TotalOpers decimal.Decimal `json:"total_opers"`

	NotaFiscal *string  `json:"nota_fiscal,omitempty"`
	Situacao   Situacao `json:"situacao"`
}

func ToEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:                     e.ID,
		EmployeeID:             e.EmployeeID,
		Snapshot:               e.Snapshot,
		Periodo:                e.Periodo,
		Valor:                  e.Valor,
		Adicional:              e.Adicional,
		Reembolso:              e.Reembolso,
		Desconto:               e.Desconto,
		Beneficios:             e.Beneficios,
		ValorTotal:             e.ValorTotal,
		ValorTotalSemReembolso: e.ValorTotalSemReembolso,
		Splits:                 e.Splits,
		TotalOpers:             e.TotalOpers,
		NotaFiscal:             e.NotaFiscal,
		Situacao:               e.Situacao,
	}
}
