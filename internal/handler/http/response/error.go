package response

import (
	"errors"
	"net/http"

	"github.com/folhaplus/folha-backend-go/internal/domain/auth"
	"github.com/folhaplus/folha-backend-go/internal/domain/employee"
	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
	"github.com/folhaplus/folha-backend-go/internal/domain/user"
	"github.com/folhaplus/folha-backend-go/internal/pkg/spreadsheet"
	"github.com/folhaplus/folha-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Structural import errors carry the missing required columns
	var structuralErr *importer.StructuralError
	if errors.As(err, &structuralErr) {
		details := make(map[string]string, len(structuralErr.Missing))
		for _, field := range structuralErr.Missing {
			details[string(field)] = "required column not found"
		}
		UnprocessableEntity(w, "MISSING_COLUMNS", "The file is missing required columns", details)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Import domain errors
	case errors.Is(err, importer.ErrDuplicatesUnresolved):
		Conflict(w, "All flagged duplicates need a decision before confirming")
	case errors.Is(err, importer.ErrRowNotFound):
		NotFound(w, "Preview row not found")
	case errors.Is(err, importer.ErrNotADuplicate):
		BadRequest(w, "Row is not flagged as a duplicate", nil)
	case errors.Is(err, importer.ErrEntryReferenceLost):
		Conflict(w, "The referenced ledger entry no longer exists")
	case errors.Is(err, importer.ErrUnknownTemplate):
		BadRequest(w, "Template format must be 'csv' or 'xlsx'", nil)
	case errors.Is(err, importer.ErrNoMappingApplied):
		BadRequest(w, "No saved mapping is applied to this preview", nil)
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported file format", nil)

	// Saved mapping errors
	case errors.Is(err, mapping.ErrMappingNotFound):
		NotFound(w, "Saved mapping not found")
	case errors.Is(err, mapping.ErrMappingNameExists):
		Conflict(w, "A mapping with this name already exists")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Period must be in YYYY-MM format", nil)
	case errors.Is(err, payroll.ErrEntryImmutable):
		Conflict(w, "Paid payroll entries cannot be modified")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrCPFExists):
		Conflict(w, "CPF already registered")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
