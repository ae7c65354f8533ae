package importer

import (
	"context"

	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
)

// Service runs the spreadsheet import pipeline and the commit that
// closes it. Preview is pure with respect to the ledger; Confirm is the
// only operation that writes it.
type Service interface {
	Preview(ctx context.Context, req PreviewRequest) (PreviewResult, error)
	Confirm(ctx context.Context, req ConfirmRequest) (Summary, error)

	Template(format string) (data []byte, contentType string, filename string, err error)

	SaveMapping(ctx context.Context, req SaveMappingRequest) (mapping.Mapping, error)
	ListMappings(ctx context.Context) ([]mapping.Mapping, error)
	DeleteMapping(ctx context.Context, id string) error
}
