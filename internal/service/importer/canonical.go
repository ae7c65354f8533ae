package importer

import (
	"strings"

	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
)

// columnTarget is the resolution of one header column, computed once
// before any row is read.
type columnTarget struct {
	label   string // original header, trimmed
	field   importer.Field
	mapped  bool           // matched a normalizer rule
	overlay importer.Field // applied-mapping target, "" when none
}

// Canonicalize turns a raw grid into canonical rows. The required
// canonical columns must all be derivable from the header row; when any
// are missing the whole grid is rejected with a StructuralError and no
// rows are produced. Pure and deterministic: canonicalizing the same
// grid twice yields identical output, which the undo-mapping feature
// relies on.
func Canonicalize(grid importer.RawGrid, applied *mapping.Mapping) (importer.CanonicalResult, error) {
	headers := grid.Headers()

	var overlayByHeader map[string]importer.Field
	if applied != nil {
		overlayByHeader = make(map[string]importer.Field, len(applied.Fields))
		for original, target := range applied.Fields {
			overlayByHeader[strings.ToLower(strings.TrimSpace(original))] = importer.Field(target)
		}
	}

	targets := make([]columnTarget, len(headers))
	present := make(map[importer.Field]struct{})
	origins := make(map[importer.Field]string)

	for i, raw := range headers {
		t := columnTarget{label: strings.TrimSpace(raw)}
		if f, ok := NormalizeHeader(raw); ok {
			t.field = f
			t.mapped = true
			if _, seen := present[f]; !seen {
				present[f] = struct{}{}
				origins[f] = t.label
			}
		}
		if overlayByHeader != nil {
			if target, ok := overlayByHeader[strings.ToLower(t.label)]; ok && target != "" {
				t.overlay = target
				if _, seen := present[target]; !seen {
					present[target] = struct{}{}
				}
				// Mapping provenance always shows the original header.
				origins[target] = t.label
			}
		}
		targets[i] = t
	}

	var missing []importer.Field
	for _, f := range importer.RequiredFields() {
		if _, ok := present[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return importer.CanonicalResult{}, &importer.StructuralError{Missing: missing}
	}

	data := grid.DataRows()
	rows := make([]importer.CanonicalRow, 0, len(data))
	for i, cells := range data {
		row := importer.CanonicalRow{
			Index:  i,
			Fields: make(map[importer.Field]string),
		}
		for j, t := range targets {
			if j >= len(cells) {
				break
			}
			value := strings.TrimSpace(cells[j])
			if t.mapped {
				// Each canonical field comes from at most one header:
				// the first column that normalized to it.
				if _, exists := row.Fields[t.field]; !exists {
					row.Fields[t.field] = value
				}
			} else if t.label != "" {
				if row.Unmapped == nil {
					row.Unmapped = make(map[string]string)
				}
				row.Unmapped[t.label] = value
			}
			if t.overlay != "" {
				row.Fields[t.overlay] = value
			}
		}
		rows = append(rows, row)
	}

	return importer.CanonicalResult{
		Rows:    rows,
		Origins: origins,
		Headers: headers,
	}, nil
}
