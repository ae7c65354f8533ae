package importer

import (
	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
	"github.com/folhaplus/folha-backend-go/internal/pkg/textutil"
)

// ledgerIndex answers "does this period already have an entry for this
// payee" over the ledger entries of one period. Detection only
// annotates rows; the operator decides what to do with each hit.
type ledgerIndex struct {
	byEmployee map[string]string
	byName     map[string]string
}

func newLedgerIndex(entries []payroll.Entry) *ledgerIndex {
	ix := &ledgerIndex{
		byEmployee: make(map[string]string, len(entries)),
		byName:     make(map[string]string, len(entries)),
	}
	// The ledger should hold at most one entry per payee and period;
	// when it does not, the first entry found wins.
	for _, e := range entries {
		if e.EmployeeID != nil {
			if _, taken := ix.byEmployee[*e.EmployeeID]; !taken {
				ix.byEmployee[*e.EmployeeID] = e.ID
			}
		}
		if name := textutil.NormalizeName(e.Snapshot.Nome); name != "" {
			if _, taken := ix.byName[name]; !taken {
				ix.byName[name] = e.ID
			}
		}
	}
	return ix
}

// Find returns the existing entry id for a row's payee: by employee id
// when the row resolved to one, otherwise by normalized full-name
// equality.
func (ix *ledgerIndex) Find(employeeID string, nome string) string {
	if employeeID != "" {
		return ix.byEmployee[employeeID]
	}
	if name := textutil.NormalizeName(nome); name != "" {
		return ix.byName[name]
	}
	return ""
}
