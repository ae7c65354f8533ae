package importer

import (
	"strconv"
	"strings"

	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Derivation is the full monetary picture of one imported row. Pure
// function of the row's cells plus the externally supplied benefits
// cost; nothing here reads stores.
type Derivation struct {
	Valor      decimal.Decimal
	Adicional  decimal.Decimal
	Reembolso  decimal.Decimal
	Desconto   decimal.Decimal
	Beneficios decimal.Decimal

	ValorTotal             decimal.Decimal
	ValorTotalSemReembolso decimal.Decimal

	Splits     []payroll.EntitySplit
	TotalOpers decimal.Decimal
}

// Derive computes totals and the per-entity split for a row.
// Unparseable or missing numeric cells count as zero: blank and
// text-formatted cells are routine in real payroll exports and failing
// the row over them would be worse than a zero.
func Derive(fields map[importer.Field]string, beneficios decimal.Decimal) Derivation {
	d := Derivation{
		Valor:      ParseAmount(fields[importer.FieldValor]),
		Adicional:  ParseAmount(fields[importer.FieldAdicional]),
		Reembolso:  ParseAmount(fields[importer.FieldReembolso]),
		Desconto:   ParseAmount(fields[importer.FieldDesconto]),
		Beneficios: beneficios,
	}

	d.ValorTotal = d.Valor.Add(d.Adicional).Add(d.Reembolso).Add(d.Beneficios).Sub(d.Desconto)
	d.ValorTotalSemReembolso = d.ValorTotal.Sub(d.Reembolso)

	d.Splits, d.TotalOpers = deriveSplits(fields, d.ValorTotalSemReembolso)
	return d
}

// deriveSplits builds the per-entity allocation from the split columns.
// When the sheet names no entity at all, the whole amount is assigned
// to a single entity taken from the row's empresa column, so every
// entry has at least one cost-bearing entity.
func deriveSplits(fields map[importer.Field]string, base decimal.Decimal) ([]payroll.EntitySplit, decimal.Decimal) {
	var splits []payroll.EntitySplit
	totalOpers := decimal.Zero

	for n := 1; n <= importer.MaxEntities; n++ {
		raw := fields[importer.EntityPercentField(n)]
		if strings.TrimSpace(raw) == "" {
			raw = fields[importer.EntityField(n)]
		}
		percent := ParseAmount(raw)
		if percent.IsZero() {
			continue
		}

		nome := strings.TrimSpace(fields[importer.EntityNameField(n)])
		if nome == "" {
			nome = "Empresa " + strconv.Itoa(n)
		}

		splits = append(splits, payroll.EntitySplit{
			Nome:       nome,
			Percentual: percent,
			Valor:      base.Mul(percent).Div(oneHundred),
		})
		totalOpers = totalOpers.Add(percent)
	}

	if len(splits) == 0 {
		nome := strings.TrimSpace(fields[importer.FieldEmpresa])
		if nome == "" {
			nome = "Empresa 1"
		}
		return []payroll.EntitySplit{{
			Nome:       nome,
			Percentual: oneHundred,
			Valor:      base,
		}}, oneHundred
	}

	return splits, totalOpers
}

// SplitPercentSum reports the declared split percentages of a row
// before derivation. present is false when the sheet declares none.
func SplitPercentSum(fields map[importer.Field]string) (sum decimal.Decimal, present bool) {
	sum = decimal.Zero
	for n := 1; n <= importer.MaxEntities; n++ {
		raw := strings.TrimSpace(fields[importer.EntityPercentField(n)])
		if raw == "" {
			raw = strings.TrimSpace(fields[importer.EntityField(n)])
		}
		if raw == "" {
			continue
		}
		present = true
		sum = sum.Add(ParseAmount(raw))
	}
	return sum, present
}

// ParseAmount reads a Brazilian or anglo formatted number. "R$",
// percent signs, thin/non-breaking spaces and thousand separators are
// tolerated; parentheses mean negative. Anything unreadable is zero.
func ParseAmount(val string) decimal.Decimal {
	s := strings.TrimSpace(val)
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both separators: the rightmost one is the decimal mark.
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ",") > 1:
		// Anglo thousands with no decimal part.
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// BR decimal comma.
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		// Anglo thousands with no decimal part.
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}
