package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"identical", []string{"cpf", "nome", "valor"}, []string{"cpf", "nome", "valor"}, 1},
		{"case and space insensitive", []string{"CPF ", " Nome"}, []string{"cpf", "nome"}, 1},
		{"accent insensitive", []string{"FUNÇÃO", "OPERAÇÃO"}, []string{"funcao", "operacao"}, 1},
		{"disjoint", []string{"a", "b"}, []string{"c", "d"}, 0},
		{"empty side", []string{"cpf"}, nil, 0},
		{"half overlap same size", []string{"a", "b"}, []string{"b", "c"}, 0.5},
		{"size mismatch penalized", []string{"a", "b", "c", "d", "e", "f"}, []string{"a", "b"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestBestMatch(t *testing.T) {
	headers := []string{"cpf", "colaborador", "funcao", "empresa", "contrato", "valor"}

	t.Run("no saved mappings", func(t *testing.T) {
		best, score := BestMatch(headers, nil)
		assert.Nil(t, best)
		assert.Zero(t, score)
	})

	t.Run("below threshold is not applied", func(t *testing.T) {
		saved := []mapping.Mapping{
			{ID: "m1", HeaderSignature: []string{"cpf", "colaborador", "x", "y", "z", "w"}},
		}
		best, _ := BestMatch(headers, saved)
		assert.Nil(t, best)
	})

	t.Run("above threshold is applied", func(t *testing.T) {
		saved := []mapping.Mapping{
			{ID: "m1", HeaderSignature: []string{"cpf", "colaborador", "funcao", "empresa", "contrato", "outro"}},
		}
		best, score := BestMatch(headers, saved)
		require.NotNil(t, best)
		assert.Equal(t, "m1", best.ID)
		assert.Greater(t, score, autoApplyThreshold)
	})

	t.Run("accented layout matches its own signature", func(t *testing.T) {
		raw := []string{"CPF", "NOME DO FUNCIONÁRIO", "FUNÇÃO", "OPERAÇÃO", "REMUNERAÇÃO", "CTT"}
		signature := make([]string, len(raw))
		for i, h := range raw {
			signature[i] = headerKey(h)
		}
		assert.InDelta(t, 1, Similarity(raw, signature), 1e-9)

		best, score := BestMatch(raw, []mapping.Mapping{{ID: "m1", HeaderSignature: signature}})
		require.NotNil(t, best)
		assert.Equal(t, "m1", best.ID)
		assert.InDelta(t, 1, score, 1e-9)
	})

	t.Run("tie goes to most recent", func(t *testing.T) {
		older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := older.AddDate(0, 6, 0)
		saved := []mapping.Mapping{
			{ID: "old", HeaderSignature: headers, CreatedAt: older},
			{ID: "new", HeaderSignature: headers, CreatedAt: newer},
		}
		best, score := BestMatch(headers, saved)
		require.NotNil(t, best)
		assert.Equal(t, "new", best.ID)
		assert.InDelta(t, 1, score, 1e-9)

		// Order independent.
		best, _ = BestMatch(headers, []mapping.Mapping{saved[1], saved[0]})
		require.NotNil(t, best)
		assert.Equal(t, "new", best.ID)
	})
}
