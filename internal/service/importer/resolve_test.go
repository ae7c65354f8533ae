package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folhaplus/folha-backend-go/internal/domain/employee"
	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
)

func rowWith(nome, cpf string) importer.CanonicalRow {
	return importer.CanonicalRow{Fields: map[importer.Field]string{
		importer.FieldColaborador: nome,
		importer.FieldCPF:         cpf,
	}}
}

func TestIdentityIndexResolve(t *testing.T) {
	ix := newIdentityIndex([]employee.Employee{
		{ID: "e1", FullName: "João da Silva", CPF: "529.982.247-25"},
		{ID: "e2", FullName: "Ana Luz", CPF: "111.444.777-35"},
		{ID: "e3", FullName: "Ana", CPF: "123"},
	})

	tests := []struct {
		name string
		row  importer.CanonicalRow
		want string
	}{
		{"exact name", rowWith("João da Silva", ""), "e1"},
		{"name ignores case accents spacing", rowWith("  JOAO DA  SILVA ", ""), "e1"},
		{"cpf with punctuation", rowWith("", "52998224725"), "e1"},
		{"cpf fallback after name miss", rowWith("J. Silva Junior", "529.982.247-25"), "e1"},
		{"short name never matches", rowWith("Ana", ""), ""},
		{"short cpf never matches", rowWith("", "123"), ""},
		{"name beats cpf", rowWith("Ana Luz", "529.982.247-25"), "e2"},
		{"nothing", rowWith("Desconhecido X", "000.000.000-00"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.Resolve(tt.row))
		})
	}
}

func TestLedgerIndexFind(t *testing.T) {
	linkedID := "e1"
	ix := newLedgerIndex([]payroll.Entry{
		{ID: "entry1", EmployeeID: &linkedID, Snapshot: payroll.EmployeeSnapshot{Nome: "João da Silva"}},
		{ID: "entry2", Snapshot: payroll.EmployeeSnapshot{Nome: "Maria Souza"}},
	})

	// Resolved rows look up by employee id.
	assert.Equal(t, "entry1", ix.Find("e1", "outro nome qualquer"))
	assert.Equal(t, "", ix.Find("e9", "Maria Souza"))

	// Unresolved rows fall back to normalized name equality.
	assert.Equal(t, "entry2", ix.Find("", "  MARIA   SOUZA "))
	assert.Equal(t, "", ix.Find("", "Pedro Alves"))
}
