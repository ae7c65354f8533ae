package importer

import (
	"errors"
	"strings"
)

var (
	ErrDuplicatesUnresolved = errors.New("duplicate rows pending an operator decision")
	ErrRowNotFound          = errors.New("preview row not found")
	ErrNotADuplicate        = errors.New("row has no duplicate to resolve")
	ErrInvalidAction        = errors.New("invalid duplicate action")
	ErrEntryReferenceLost   = errors.New("duplicate row references a ledger entry that no longer exists")
	ErrUnknownTemplate      = errors.New("unknown template format")
	ErrSessionNotPreviewing = errors.New("workflow is not in the preview state")
	ErrNoMappingApplied     = errors.New("no saved mapping is applied")
)

// StructuralError rejects an entire import attempt: one or more required
// canonical columns could not be derived from the header row. No rows
// are parsed when it is returned.
type StructuralError struct {
	Missing []Field
}

func (e *StructuralError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "required columns missing: " + strings.Join(names, ", ")
}
