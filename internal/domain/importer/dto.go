package importer

import (
	"strconv"

	"github.com/folhaplus/folha-backend-go/internal/pkg/validator"
)

// SelectionNew marks a preview row the operator (or the resolver, by
// default) decided not to link to any directory employee. On commit the
// row becomes a standalone ledger entry, e.g. an external contractor.
const SelectionNew = "new"

type DuplicateAction string

const (
	DuplicateActionUpdate    DuplicateAction = "update"
	DuplicateActionCreateNew DuplicateAction = "create-new"
)

func (a DuplicateAction) Valid() bool {
	return a == DuplicateActionUpdate || a == DuplicateActionCreateNew
}

// WarningCode classifies non-blocking row problems. They are surfaced
// to the operator but never stop a commit.
type WarningCode string

const (
	WarningInvalidCPF   WarningCode = "cpf_invalido"
	WarningInvalidCNPJ  WarningCode = "cnpj_invalido"
	WarningSplitPercent WarningCode = "percentual_diferente_100"
)

type RowWarning struct {
	Code    WarningCode `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
}

// PreviewRow is one imported row annotated by the identity resolver and
// the duplicate detector, plus the operator decisions taken on it. Row
// Index is the only cross-stage correlation key until a ledger id is
// assigned at commit.
type PreviewRow struct {
	Index    int               `json:"index"`
	Periodo  string            `json:"periodo"`
	Fields   map[Field]string  `json:"fields"`
	Unmapped map[string]string `json:"unmapped,omitempty"`

	SuggestedEmployeeID string `json:"suggested_employee_id,omitempty"`
	SelectedEmployeeID  string `json:"selected_employee_id"`

	ExistingEntryID string          `json:"existing_entry_id,omitempty"`
	DuplicateAction DuplicateAction `json:"duplicate_action,omitempty"`

	Warnings []RowWarning `json:"warnings,omitempty"`
}

func (r PreviewRow) IsDuplicate() bool {
	return r.ExistingEntryID != ""
}

// AppliedMapping describes the saved mapping that was auto-applied to
// the current header set, if any.
type AppliedMapping struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// PreviewResult is what the operator reviews before confirming.
type PreviewResult struct {
	Periodo string       `json:"periodo"`
	Rows    []PreviewRow `json:"rows"`
	Headers []string     `json:"headers"`
	// Origins: canonical field -> original header label.
	Origins map[Field]string `json:"origins"`
	// Suggestions: fuzzy canonical-field hints for headers no rule
	// matched. Display only, never applied automatically.
	Suggestions map[string]Field `json:"suggestions,omitempty"`
	Applied     *AppliedMapping  `json:"applied_mapping,omitempty"`
	// UnmappedRows is the row view canonicalized without the applied
	// mapping, present only when one was auto-applied. Undoing the
	// mapping swaps these rows in without re-reading the uploaded file;
	// empty when the grid only satisfies the required columns through
	// the mapping.
	UnmappedRows []PreviewRow `json:"unmapped_rows,omitempty"`
}

type PreviewRequest struct {
	Grid    RawGrid
	Periodo string
	// SkipMapping suppresses saved-mapping auto-application; used to
	// regenerate the un-mapped view when the operator undoes a mapping.
	SkipMapping bool
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Periodo) {
		errs = append(errs, validator.ValidationError{Field: "periodo", Message: "must be in YYYY-MM format"})
	}
	if len(r.Grid) == 0 {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "file has no rows"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ConfirmRequest carries the reviewed rows back for commit, with every
// operator decision already taken.
type ConfirmRequest struct {
	Periodo string       `json:"periodo"`
	Rows    []PreviewRow `json:"rows"`
}

func (r *ConfirmRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.Periodo) {
		errs = append(errs, validator.ValidationError{Field: "periodo", Message: "must be in YYYY-MM format"})
	}
	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{Field: "rows", Message: "at least one row is required"})
	}
	for _, row := range r.Rows {
		if row.DuplicateAction != "" && !row.DuplicateAction.Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "rows[" + strconv.Itoa(row.Index) + "].duplicate_action",
				Message: "must be 'update' or 'create-new'",
			})
		}
		if row.Periodo != "" && row.Periodo != r.Periodo {
			errs = append(errs, validator.ValidationError{
				Field:   "rows[" + strconv.Itoa(row.Index) + "].periodo",
				Message: "does not match the import period",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Summary reports what a commit did to the ledger.
type Summary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

type SaveMappingRequest struct {
	Name    string            `json:"name"`
	Headers []string          `json:"headers"`
	Fields  map[string]string `json:"fields"`
}

func (r *SaveMappingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if len(r.Headers) == 0 {
		errs = append(errs, validator.ValidationError{Field: "headers", Message: "at least one header is required"})
	}
	if len(r.Fields) == 0 {
		errs = append(errs, validator.ValidationError{Field: "fields", Message: "at least one field mapping is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
