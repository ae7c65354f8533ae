package importer

import (
	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
)

// SessionState tracks the reconciliation workflow. Transitions only
// move forward: Idle -> Invalid (terminal for the attempt) or
// Idle -> Preview -> Committed. Cancellation from any pre-commit state
// has no side effects because the ledger is only written at commit.
type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateInvalid   SessionState = "invalid"
	StatePreview   SessionState = "preview"
	StateCommitted SessionState = "committed"
)

// Session is one operator-paced import attempt. The annotated rows and
// every decision taken on them live here until commit or cancel.
type Session struct {
	State   SessionState
	Periodo string
	Rows    []importer.PreviewRow
	Origins map[importer.Field]string
	Applied *importer.AppliedMapping

	// Missing is set only in the Invalid state.
	Missing []importer.Field

	// unmappedRows is the pre-mapping view, kept so undoing an applied
	// mapping restores the rows without re-parsing the file.
	unmappedRows []importer.PreviewRow
}

func NewInvalidSession(periodo string, missing []importer.Field) Session {
	return Session{State: StateInvalid, Periodo: periodo, Missing: missing}
}

func NewPreviewSession(periodo string, rows []importer.PreviewRow, origins map[importer.Field]string, applied *importer.AppliedMapping, unmapped []importer.PreviewRow) Session {
	return Session{
		State:        StatePreview,
		Periodo:      periodo,
		Rows:         rows,
		Origins:      origins,
		Applied:      applied,
		unmappedRows: unmapped,
	}
}

// ResumePreview rebuilds the preview state from rows an operator sent
// back for confirmation.
func ResumePreview(periodo string, rows []importer.PreviewRow) Session {
	return Session{State: StatePreview, Periodo: periodo, Rows: rows}
}

// UndoMapping reverts an auto-applied saved mapping, restoring the rows
// as they were canonicalized from the bare header rules.
func (s Session) UndoMapping() (Session, error) {
	if s.State != StatePreview {
		return s, importer.ErrSessionNotPreviewing
	}
	if s.Applied == nil || s.unmappedRows == nil {
		return s, importer.ErrNoMappingApplied
	}
	s.Rows = s.unmappedRows
	s.Applied = nil
	s.unmappedRows = nil
	return s, nil
}

// Committed finalizes the session after the ledger write.
func (s Session) Committed() (Session, error) {
	if s.State != StatePreview {
		return s, importer.ErrSessionNotPreviewing
	}
	if err := ConfirmableErr(s.Rows); err != nil {
		return s, err
	}
	s.State = StateCommitted
	return s, nil
}

// ---- operator decisions: pure transitions over the row slice ----

// SelectEmployee changes which directory employee a row is linked to.
// importer.SelectionNew unlinks it.
func SelectEmployee(rows []importer.PreviewRow, index int, employeeID string) ([]importer.PreviewRow, error) {
	return updateRow(rows, index, func(r *importer.PreviewRow) error {
		if employeeID == "" {
			employeeID = importer.SelectionNew
		}
		r.SelectedEmployeeID = employeeID
		return nil
	})
}

// SetDuplicateAction records the operator's decision for one
// duplicate-flagged row.
func SetDuplicateAction(rows []importer.PreviewRow, index int, action importer.DuplicateAction) ([]importer.PreviewRow, error) {
	return updateRow(rows, index, func(r *importer.PreviewRow) error {
		if !r.IsDuplicate() {
			return importer.ErrNotADuplicate
		}
		if !action.Valid() {
			return importer.ErrInvalidAction
		}
		r.DuplicateAction = action
		return nil
	})
}

// SetAllDuplicateActions is the bulk form: one decision applied to
// every duplicate-flagged row.
func SetAllDuplicateActions(rows []importer.PreviewRow, action importer.DuplicateAction) ([]importer.PreviewRow, error) {
	if !action.Valid() {
		return rows, importer.ErrInvalidAction
	}
	out := cloneRows(rows)
	for i := range out {
		if out[i].IsDuplicate() {
			out[i].DuplicateAction = action
		}
	}
	return out, nil
}

// UnresolvedDuplicates lists the indexes of duplicate-flagged rows the
// operator has not decided on yet.
func UnresolvedDuplicates(rows []importer.PreviewRow) []int {
	var pending []int
	for _, r := range rows {
		if r.IsDuplicate() && r.DuplicateAction == "" {
			pending = append(pending, r.Index)
		}
	}
	return pending
}

// ConfirmableErr is the gate in front of the commit: every flagged
// duplicate needs an explicit decision, there is no silent default.
// Rows without a duplicate are always eligible.
func ConfirmableErr(rows []importer.PreviewRow) error {
	if len(UnresolvedDuplicates(rows)) > 0 {
		return importer.ErrDuplicatesUnresolved
	}
	return nil
}

func updateRow(rows []importer.PreviewRow, index int, fn func(*importer.PreviewRow) error) ([]importer.PreviewRow, error) {
	out := cloneRows(rows)
	for i := range out {
		if out[i].Index == index {
			if err := fn(&out[i]); err != nil {
				return rows, err
			}
			return out, nil
		}
	}
	return rows, importer.ErrRowNotFound
}

func cloneRows(rows []importer.PreviewRow) []importer.PreviewRow {
	out := make([]importer.PreviewRow, len(rows))
	copy(out, rows)
	return out
}
