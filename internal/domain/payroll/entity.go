package payroll

import (
	"time"

	"github.com/folhaplus/folha-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type Situacao string

const (
	SituacaoPendente Situacao = "pendente"
	SituacaoPago     Situacao = "pago"
)

// EmployeeSnapshot freezes the identity fields of a ledger entry at the
// moment it is written. Entries stay readable even when the directory
// record is later edited, and rows imported without a directory link
// have only the snapshot.
type EmployeeSnapshot struct {
	Nome     string                `json:"nome"`
	CPF      string                `json:"cpf"`
	Funcao   string                `json:"funcao"`
	Empresa  string                `json:"empresa"`
	Contrato employee.ContractType `json:"contrato"`
}

// EntitySplit is one paying entity's share of a payment. Valor derives
// from ValorTotalSemReembolso at the entity's percentage; the
// percentages of an entry are not required to sum to 100.
type EntitySplit struct {
	Nome       string          `json:"nome"`
	Percentual decimal.Decimal `json:"percentual"`
	Valor      decimal.Decimal `json:"valor"`
}

// Entry - one payroll ledger record for an employee (or standalone
// payee) in a period.
// Invariants: ValorTotal = Valor + Adicional + Reembolso + Beneficios - Desconto;
// ValorTotalSemReembolso = ValorTotal - Reembolso.
type Entry struct {
	ID         string
	EmployeeID *string
	Snapshot   EmployeeSnapshot
	Periodo    string // YYYY-MM

	Valor                  decimal.Decimal
	Adicional              decimal.Decimal
	Reembolso              decimal.Decimal
	Desconto               decimal.Decimal
	Beneficios             decimal.Decimal
	ValorTotal             decimal.Decimal
	ValorTotalSemReembolso decimal.Decimal

	Splits     []EntitySplit
	TotalOpers decimal.Decimal

	NotaFiscal *string
	Situacao   Situacao

	CreatedAt time.Time
	UpdatedAt time.Time
}
