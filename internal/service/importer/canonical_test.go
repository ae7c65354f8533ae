package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
)

func TestCanonicalize(t *testing.T) {
	grid := importer.RawGrid{
		{"CPF", "COLABORADOR", "FUNÇÃO", "EMPRESA", "CONTRATO", "VALOR", "OBS"},
		{"529.982.247-25", "João Silva", "Analista", "ACME", "CLT", "5.000,00", "pagar até dia 5"},
		{"", "Maria Souza", "Gerente", "ACME", "PJ", "7000", ""},
	}

	result, err := Canonicalize(grid, nil)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, grid.Headers(), result.Headers)

	first := result.Rows[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "529.982.247-25", first.Fields[importer.FieldCPF])
	assert.Equal(t, "João Silva", first.Fields[importer.FieldColaborador])
	assert.Equal(t, "Analista", first.Fields[importer.FieldFuncao])
	assert.Equal(t, "5.000,00", first.Fields[importer.FieldValor])

	// Unrecognized headers survive verbatim.
	assert.Equal(t, "pagar até dia 5", first.Unmapped["OBS"])

	// Origins point back at the file's own header labels.
	assert.Equal(t, "FUNÇÃO", result.Origins[importer.FieldFuncao])
	assert.Equal(t, "VALOR", result.Origins[importer.FieldValor])

	second := result.Rows[1]
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, "", second.Fields[importer.FieldCPF])
	assert.Equal(t, "Maria Souza", second.Fields[importer.FieldColaborador])
}

func TestCanonicalizeMissingColumns(t *testing.T) {
	grid := importer.RawGrid{
		{"COLABORADOR", "VALOR"},
		{"João Silva", "100"},
	}

	_, err := Canonicalize(grid, nil)
	require.Error(t, err)

	var structuralErr *importer.StructuralError
	require.ErrorAs(t, err, &structuralErr)

	// Every missing required column is reported at once, not just the
	// first one found.
	assert.ElementsMatch(t, []importer.Field{
		importer.FieldCPF,
		importer.FieldFuncao,
		importer.FieldEmpresa,
		importer.FieldContrato,
	}, structuralErr.Missing)
}

func TestCanonicalizeRowPerDataRow(t *testing.T) {
	grid := importer.RawGrid{
		{"CPF", "COLABORADOR", "FUNÇÃO", "EMPRESA", "CONTRATO", "VALOR"},
		{"1", "a", "b", "c", "CLT", "10"},
		{"2", "d", "e", "f", "PJ", "20"},
		{"3", "g", "h", "i", "CLT", "30"},
	}

	result, err := Canonicalize(grid, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	for i, row := range result.Rows {
		assert.Equal(t, i, row.Index)
	}
}

func TestCanonicalizeWithMapping(t *testing.T) {
	grid := importer.RawGrid{
		{"DOC", "QUEM", "FUNÇÃO", "EMPRESA", "CONTRATO", "QUANTO"},
		{"529.982.247-25", "João Silva", "Analista", "ACME", "CLT", "100"},
	}

	// Without the mapping the grid is structurally invalid.
	_, err := Canonicalize(grid, nil)
	require.Error(t, err)

	applied := &mapping.Mapping{
		ID:   "m1",
		Name: "layout contador",
		Fields: map[string]string{
			"DOC":    string(importer.FieldCPF),
			"QUEM":   string(importer.FieldColaborador),
			"QUANTO": string(importer.FieldValor),
		},
	}

	result, err := Canonicalize(grid, applied)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "529.982.247-25", row.Fields[importer.FieldCPF])
	assert.Equal(t, "João Silva", row.Fields[importer.FieldColaborador])
	assert.Equal(t, "100", row.Fields[importer.FieldValor])

	// Provenance shows the original header, not the canonical name.
	assert.Equal(t, "DOC", result.Origins[importer.FieldCPF])
	assert.Equal(t, "QUANTO", result.Origins[importer.FieldValor])
}

func TestCanonicalizeDeterministic(t *testing.T) {
	grid := importer.RawGrid{
		{"CPF", "COLABORADOR", "FUNÇÃO", "EMPRESA", "CONTRATO", "VALOR"},
		{"1", "a", "b", "c", "CLT", "10"},
	}

	first, err := Canonicalize(grid, nil)
	require.NoError(t, err)
	second, err := Canonicalize(grid, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCanonicalizeShortRow(t *testing.T) {
	grid := importer.RawGrid{
		{"CPF", "COLABORADOR", "FUNÇÃO", "EMPRESA", "CONTRATO", "VALOR"},
		{"1", "a"},
	}

	result, err := Canonicalize(grid, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "1", row.Fields[importer.FieldCPF])
	assert.Equal(t, "a", row.Fields[importer.FieldColaborador])
	_, has := row.Fields[importer.FieldValor]
	assert.False(t, has)
}
