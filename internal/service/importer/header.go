package importer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
	"github.com/folhaplus/folha-backend-go/internal/pkg/textutil"
	"github.com/schollz/closestmatch"
)

// headerKey lowers, trims and de-accents a raw header so that "FUNÇÃO",
// "Função " and "funcao" all resolve through the same rules.
func headerKey(raw string) string {
	return textutil.NormalizeName(raw)
}

// Exact rules run before any substring matching. Keyed by headerKey
// output, so both accented and plain spellings land here. The canonical
// keys themselves are included: normalizing an already-canonical header
// must return the same field.
var exactHeaderRules = map[string]importer.Field{
	"cpf": importer.FieldCPF,

	"colaborador":      importer.FieldColaborador,
	"nome colaborador": importer.FieldColaborador,
	"nome completo":    importer.FieldColaborador,

	"funcao": importer.FieldFuncao,
	"cargo":  importer.FieldFuncao,

	"empresa": importer.FieldEmpresa,

	"contrato": importer.FieldContrato,
	"ctt":      importer.FieldContrato,

	"adicional": importer.FieldAdicional,

	"reembolso": importer.FieldReembolso,
	"reemb":     importer.FieldReembolso,

	"desconto": importer.FieldDesconto,

	"valor total": importer.FieldValorTotal,
	"valortotal":  importer.FieldValorTotal,
	"total":       importer.FieldValorTotal,

	"valor": importer.FieldValor,

	"nota fiscal": importer.FieldNotaFiscal,
	"notafiscal":  importer.FieldNotaFiscal,
	"nota":        importer.FieldNotaFiscal,
}

// Per-entity split columns: "EMPRESA 2", "EMPRESA 2 NOME",
// "empresa2Percent", "EMPRESA 2 %", "EMPRESA 2 VALOR".
var entityHeaderRegex = regexp.MustCompile(`^empresa\s*([1-4])\s*(nome|percentual|percent|%|valor)?$`)

// entityLikeRegex guards the substring phase: any header with a digit
// adjacent to "empresa" is a split column (or split-column variant) and
// must never be folded into the single-valued empresa field.
var entityLikeRegex = regexp.MustCompile(`empresa\s*\d|\d\s*empresa`)

// Substring rules run last, in order. More specific tokens come before
// the generic ones ("total" before "valor").
var substringHeaderRules = []struct {
	substr string
	field  importer.Field
}{
	{"cpf", importer.FieldCPF},
	{"colaborador", importer.FieldColaborador},
	{"nome", importer.FieldColaborador},
	{"funcao", importer.FieldFuncao},
	{"cargo", importer.FieldFuncao},
	{"contrato", importer.FieldContrato},
	{"adicional", importer.FieldAdicional},
	{"reembolso", importer.FieldReembolso},
	{"desconto", importer.FieldDesconto},
	{"nota", importer.FieldNotaFiscal},
	{"total", importer.FieldValorTotal},
	{"valor", importer.FieldValor},
	{"empresa", importer.FieldEmpresa},
}

// NormalizeHeader maps a raw header to a canonical field. The second
// return is false when no rule matched; such headers are preserved
// verbatim for the operator but excluded from required-field checks.
func NormalizeHeader(raw string) (importer.Field, bool) {
	key := headerKey(raw)
	if key == "" {
		return "", false
	}

	if f, ok := exactHeaderRules[key]; ok {
		return f, true
	}

	if f, ok := entityHeaderField(key); ok {
		return f, true
	}

	// Headers that look like split columns but matched no entity rule
	// (e.g. "EMPRESA 5 NOME") stay unmapped rather than being swallowed
	// by a substring rule.
	if entityLikeRegex.MatchString(key) {
		return "", false
	}

	for _, rule := range substringHeaderRules {
		if strings.Contains(key, rule.substr) {
			return rule.field, true
		}
	}

	return "", false
}

func entityHeaderField(key string) (importer.Field, bool) {
	m := entityHeaderRegex.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	n := int(m[1][0] - '0')
	switch m[2] {
	case "":
		return importer.EntityField(n), true
	case "nome":
		return importer.EntityNameField(n), true
	case "valor":
		return importer.EntityValueField(n), true
	default: // percentual, percent, %
		return importer.EntityPercentField(n), true
	}
}

// SuggestFields offers fuzzy canonical-field hints for headers no rule
// matched and no applied mapping covers. Hints only; nothing is applied
// without the operator confirming a mapping.
func SuggestFields(headers []string, applied *mapping.Mapping) map[string]importer.Field {
	keys := make([]string, 0, len(exactHeaderRules))
	for key := range exactHeaderRules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	cm := closestmatch.New(keys, []int{2, 3, 4})

	covered := make(map[string]struct{})
	if applied != nil {
		for original := range applied.Fields {
			covered[strings.ToLower(strings.TrimSpace(original))] = struct{}{}
		}
	}

	suggestions := make(map[string]importer.Field)
	for _, raw := range headers {
		if _, ok := NormalizeHeader(raw); ok {
			continue
		}
		key := headerKey(raw)
		if key == "" {
			continue
		}
		if _, ok := covered[strings.ToLower(strings.TrimSpace(raw))]; ok {
			continue
		}
		if match := closestKey(cm, key); match != "" {
			suggestions[strings.TrimSpace(raw)] = exactHeaderRules[match]
		}
	}
	if len(suggestions) == 0 {
		return nil
	}
	return suggestions
}

// closestKey resolves a fuzzy lookup to one stable candidate. The index
// ranks candidates by shared-substring count and orders equal scores
// arbitrarily, so equally-ranked candidates are re-ordered here: the
// one nearest in length to the query wins, then the lexically smallest.
func closestKey(cm *closestmatch.ClosestMatch, key string) string {
	best := ""
	bestDiff := 0
	for _, candidate := range cm.ClosestN(key, 3) {
		if candidate == "" {
			continue
		}
		diff := len(candidate) - len(key)
		if diff < 0 {
			diff = -diff
		}
		if best == "" || diff < bestDiff || (diff == bestDiff && candidate < best) {
			best = candidate
			bestDiff = diff
		}
	}
	return best
}
