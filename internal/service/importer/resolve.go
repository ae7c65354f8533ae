package importer

import (
	"unicode/utf8"

	"github.com/folhaplus/folha-backend-go/internal/domain/employee"
	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/pkg/textutil"
)

const (
	// Normalized names shorter than this never match: short common name
	// fragments produce false positives.
	minNameMatchLen = 5
	// Tax ids with fewer digits never match: spreadsheets routinely
	// carry truncated or placeholder CPF values.
	minCPFMatchDigits = 11
)

// identityIndex resolves imported rows to directory employees. Name
// equality is checked before the tax id: names are rarely duplicated
// across active employees, while CPF strings in spreadsheets are often
// truncated or reused as placeholders.
type identityIndex struct {
	byName map[string]string
	byCPF  map[string]string
}

func newIdentityIndex(employees []employee.Employee) *identityIndex {
	ix := &identityIndex{
		byName: make(map[string]string, len(employees)),
		byCPF:  make(map[string]string, len(employees)),
	}
	for _, e := range employees {
		if name := textutil.NormalizeName(e.FullName); utf8.RuneCountInString(name) >= minNameMatchLen {
			if _, taken := ix.byName[name]; !taken {
				ix.byName[name] = e.ID
			}
		}
		if digits := textutil.Digits(e.CPF); len(digits) >= minCPFMatchDigits {
			if _, taken := ix.byCPF[digits]; !taken {
				ix.byCPF[digits] = e.ID
			}
		}
	}
	return ix
}

// Resolve returns the most likely employee id for a row, or "" when
// nothing matched. An unmatched row is not an error: it becomes a
// standalone payment unless the operator links it.
func (ix *identityIndex) Resolve(row importer.CanonicalRow) string {
	name := textutil.NormalizeName(row.Fields[importer.FieldColaborador])
	if utf8.RuneCountInString(name) >= minNameMatchLen {
		if id, ok := ix.byName[name]; ok {
			return id
		}
	}

	digits := textutil.Digits(row.Fields[importer.FieldCPF])
	if len(digits) >= minCPFMatchDigits {
		if id, ok := ix.byCPF[digits]; ok {
			return id
		}
	}

	return ""
}
