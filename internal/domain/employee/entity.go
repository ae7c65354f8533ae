package employee

import "time"

type Employee struct {
	ID        string       `json:"id"`
	FullName  string       `json:"full_name"`
	CPF       string       `json:"cpf"`
	Funcao    string       `json:"funcao"`
	Contrato  ContractType `json:"contrato"`
	Ativo     bool         `json:"ativo"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type ContractType string

const (
	ContractCLT ContractType = "CLT"
	ContractPJ  ContractType = "PJ"
)

func (c ContractType) Valid() bool {
	return c == ContractCLT || c == ContractPJ
}
