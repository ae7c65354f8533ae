package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/folhaplus/folha-backend-go/internal/domain/benefit"
	"github.com/folhaplus/folha-backend-go/internal/domain/employee"
	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
	"github.com/folhaplus/folha-backend-go/internal/pkg/database"
	"github.com/folhaplus/folha-backend-go/internal/pkg/spreadsheet"
	"github.com/folhaplus/folha-backend-go/internal/pkg/validator"
)

type ImportServiceImpl struct {
	tx           database.TxManager
	employeeRepo employee.Repository
	payrollRepo  payroll.Repository
	mappingRepo  mapping.Repository
	benefitRepo  benefit.Repository
}

func NewImportService(
	tx database.TxManager,
	employeeRepo employee.Repository,
	payrollRepo payroll.Repository,
	mappingRepo mapping.Repository,
	benefitRepo benefit.Repository,
) importer.Service {
	return &ImportServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		mappingRepo:  mappingRepo,
		benefitRepo:  benefitRepo,
	}
}

// Preview canonicalizes an uploaded grid and annotates every data row
// with identity suggestions, duplicate flags and non-blocking warnings.
// Nothing is written; the caller decides row by row before Confirm.
func (s *ImportServiceImpl) Preview(ctx context.Context, req importer.PreviewRequest) (importer.PreviewResult, error) {
	if err := req.Validate(); err != nil {
		return importer.PreviewResult{}, err
	}

	headers := req.Grid.Headers()

	var applied *mapping.Mapping
	var score float64
	if !req.SkipMapping {
		saved, err := s.mappingRepo.List(ctx)
		if err != nil {
			return importer.PreviewResult{}, fmt.Errorf("failed to list saved mappings: %w", err)
		}
		applied, score = BestMatch(headers, saved)
	}

	canon, err := Canonicalize(req.Grid, applied)
	if err != nil {
		return importer.PreviewResult{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return importer.PreviewResult{}, fmt.Errorf("failed to list employees: %w", err)
	}
	entries, err := s.payrollRepo.ListByPeriod(ctx, req.Periodo)
	if err != nil {
		return importer.PreviewResult{}, fmt.Errorf("failed to list period entries: %w", err)
	}

	idIndex := newIdentityIndex(employees)
	ledger := newLedgerIndex(entries)

	rows := annotateRows(canon.Rows, req.Periodo, idIndex, ledger)

	var appliedInfo *importer.AppliedMapping
	var unmappedRows []importer.PreviewRow
	if applied != nil {
		appliedInfo = &importer.AppliedMapping{ID: applied.ID, Name: applied.Name, Score: score}
		// The pre-mapping view is kept so undoing the mapping does not
		// require re-reading the uploaded file. When the grid only
		// satisfies the required columns through the mapping there is
		// nothing to undo to, and the view stays empty.
		if bare, bareErr := Canonicalize(req.Grid, nil); bareErr == nil {
			unmappedRows = annotateRows(bare.Rows, req.Periodo, idIndex, ledger)
		}
	}

	sess := NewPreviewSession(req.Periodo, rows, canon.Origins, appliedInfo, unmappedRows)

	return importer.PreviewResult{
		Periodo:      sess.Periodo,
		Rows:         sess.Rows,
		Headers:      canon.Headers,
		Origins:      sess.Origins,
		Applied:      sess.Applied,
		UnmappedRows: unmappedRows,
		Suggestions:  SuggestFields(headers, applied),
	}, nil
}

func annotateRows(rows []importer.CanonicalRow, periodo string, idIndex *identityIndex, ledger *ledgerIndex) []importer.PreviewRow {
	out := make([]importer.PreviewRow, 0, len(rows))
	for _, row := range rows {
		pr := importer.PreviewRow{
			Index:    row.Index,
			Periodo:  periodo,
			Fields:   row.Fields,
			Unmapped: row.Unmapped,
			Warnings: rowWarnings(row),
		}
		if id := idIndex.Resolve(row); id != "" {
			pr.SuggestedEmployeeID = id
			pr.SelectedEmployeeID = id
		} else {
			// No match defaults to a standalone payee; the operator can
			// still link the row before confirming.
			pr.SelectedEmployeeID = importer.SelectionNew
		}
		pr.ExistingEntryID = ledger.Find(pr.SuggestedEmployeeID, row.Fields[importer.FieldColaborador])
		out = append(out, pr)
	}
	return out
}

func rowWarnings(row importer.CanonicalRow) []importer.RowWarning {
	var warnings []importer.RowWarning

	if cpf := strings.TrimSpace(row.Fields[importer.FieldCPF]); cpf != "" && !validator.IsValidCPF(cpf) {
		warnings = append(warnings, importer.RowWarning{
			Code:    importer.WarningInvalidCPF,
			Field:   string(importer.FieldCPF),
			Message: "CPF check digits do not validate",
		})
	}

	labels := make([]string, 0, len(row.Unmapped))
	for label := range row.Unmapped {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if !strings.Contains(strings.ToLower(label), "cnpj") {
			continue
		}
		if value := strings.TrimSpace(row.Unmapped[label]); value != "" && !validator.IsValidCNPJ(value) {
			warnings = append(warnings, importer.RowWarning{
				Code:    importer.WarningInvalidCNPJ,
				Field:   label,
				Message: "CNPJ check digits do not validate",
			})
		}
	}

	if sum, present := SplitPercentSum(row.Fields); present && !sum.Equal(oneHundred) {
		warnings = append(warnings, importer.RowWarning{
			Code:    importer.WarningSplitPercent,
			Field:   string(importer.EntityPercentField(1)),
			Message: "entity percentages sum to " + sum.String() + ", expected 100",
		})
	}

	return warnings
}

// Confirm persists a reviewed preview. Every flagged duplicate must
// carry a decision; the whole batch is applied in one transaction so a
// mid-batch failure leaves the period untouched.
func (s *ImportServiceImpl) Confirm(ctx context.Context, req importer.ConfirmRequest) (importer.Summary, error) {
	if err := req.Validate(); err != nil {
		return importer.Summary{}, err
	}

	sess, err := ResumePreview(req.Periodo, req.Rows).Committed()
	if err != nil {
		return importer.Summary{}, err
	}

	var summary importer.Summary
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, row := range sess.Rows {
			if row.DuplicateAction == importer.DuplicateActionUpdate {
				if row.ExistingEntryID == "" {
					return importer.ErrEntryReferenceLost
				}
				upd, err := s.buildUpdate(txCtx, row)
				if err != nil {
					return err
				}
				if err := s.payrollRepo.Update(txCtx, upd); err != nil {
					return fmt.Errorf("failed to update entry for row %d: %w", row.Index, err)
				}
				summary.Updated++
				continue
			}

			entry, err := s.buildEntry(txCtx, row, req.Periodo)
			if err != nil {
				return err
			}
			if _, err := s.payrollRepo.Insert(txCtx, entry); err != nil {
				return fmt.Errorf("failed to insert entry for row %d: %w", row.Index, err)
			}
			summary.Inserted++
		}
		return nil
	})
	if err != nil {
		return importer.Summary{}, err
	}
	return summary, nil
}

func (s *ImportServiceImpl) linkedEmployee(ctx context.Context, row importer.PreviewRow) (*employee.Employee, error) {
	if row.SelectedEmployeeID == "" || row.SelectedEmployeeID == importer.SelectionNew {
		return nil, nil
	}
	emp, err := s.employeeRepo.GetByID(ctx, row.SelectedEmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee for row %d: %w", row.Index, err)
	}
	return &emp, nil
}

func (s *ImportServiceImpl) monthlyBenefits(ctx context.Context, emp *employee.Employee) (decimal.Decimal, error) {
	if emp == nil {
		return decimal.Zero, nil
	}
	cost, err := s.benefitRepo.GetByEmployeeID(ctx, emp.ID)
	switch {
	case err == nil:
		return cost.MonthlyCost, nil
	case errors.Is(err, benefit.ErrCostNotFound):
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("failed to load benefit cost: %w", err)
	}
}

func (s *ImportServiceImpl) buildEntry(ctx context.Context, row importer.PreviewRow, periodo string) (payroll.Entry, error) {
	linked, err := s.linkedEmployee(ctx, row)
	if err != nil {
		return payroll.Entry{}, err
	}
	beneficios, err := s.monthlyBenefits(ctx, linked)
	if err != nil {
		return payroll.Entry{}, err
	}

	d := Derive(row.Fields, beneficios)

	entry := payroll.Entry{
		ID:                     uuid.NewString(),
		Periodo:                periodo,
		Valor:                  d.Valor,
		Adicional:              d.Adicional,
		Reembolso:              d.Reembolso,
		Desconto:               d.Desconto,
		Beneficios:             d.Beneficios,
		ValorTotal:             d.ValorTotal,
		ValorTotalSemReembolso: d.ValorTotalSemReembolso,
		Splits:                 d.Splits,
		TotalOpers:             d.TotalOpers,
		Situacao:               payroll.SituacaoPendente,
	}
	if nf := strings.TrimSpace(row.Fields[importer.FieldNotaFiscal]); nf != "" {
		entry.NotaFiscal = &nf
	}

	if linked != nil {
		id := linked.ID
		entry.EmployeeID = &id
		entry.Snapshot = payroll.EmployeeSnapshot{
			Nome:     linked.FullName,
			CPF:      linked.CPF,
			Funcao:   linked.Funcao,
			Empresa:  strings.TrimSpace(row.Fields[importer.FieldEmpresa]),
			Contrato: linked.Contrato,
		}
		return entry, nil
	}

	entry.Snapshot = payroll.EmployeeSnapshot{
		Nome:     strings.TrimSpace(row.Fields[importer.FieldColaborador]),
		CPF:      strings.TrimSpace(row.Fields[importer.FieldCPF]),
		Funcao:   strings.TrimSpace(row.Fields[importer.FieldFuncao]),
		Empresa:  strings.TrimSpace(row.Fields[importer.FieldEmpresa]),
		Contrato: employee.ContractType(strings.ToUpper(strings.TrimSpace(row.Fields[importer.FieldContrato]))),
	}
	return entry, nil
}

func (s *ImportServiceImpl) buildUpdate(ctx context.Context, row importer.PreviewRow) (payroll.UpdateEntryRequest, error) {
	linked, err := s.linkedEmployee(ctx, row)
	if err != nil {
		return payroll.UpdateEntryRequest{}, err
	}
	beneficios, err := s.monthlyBenefits(ctx, linked)
	if err != nil {
		return payroll.UpdateEntryRequest{}, err
	}

	d := Derive(row.Fields, beneficios)

	upd := payroll.UpdateEntryRequest{
		ID:                     row.ExistingEntryID,
		Valor:                  &d.Valor,
		Adicional:              &d.Adicional,
		Reembolso:              &d.Reembolso,
		Desconto:               &d.Desconto,
		Beneficios:             &d.Beneficios,
		ValorTotal:             &d.ValorTotal,
		ValorTotalSemReembolso: &d.ValorTotalSemReembolso,
		Splits:                 d.Splits,
		TotalOpers:             &d.TotalOpers,
	}
	if nf := strings.TrimSpace(row.Fields[importer.FieldNotaFiscal]); nf != "" {
		upd.NotaFiscal = &nf
	}
	return upd, nil
}

// Template renders an empty import model with one example row.
func (s *ImportServiceImpl) Template(format string) ([]byte, string, string, error) {
	grid := templateGrid()
	switch format {
	case "", "csv":
		data, err := spreadsheet.WriteCSV(grid)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to render csv template: %w", err)
		}
		return data, "text/csv", "modelo-importacao-folha.csv", nil
	case "xlsx":
		data, err := spreadsheet.WriteXLSX(grid)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to render xlsx template: %w", err)
		}
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "modelo-importacao-folha.xlsx", nil
	default:
		return nil, "", "", importer.ErrUnknownTemplate
	}
}

func templateGrid() importer.RawGrid {
	headers := importer.TemplateHeaders()
	example := []string{
		"529.982.247-25",
		"João Silva",
		"Analista",
		"ACME",
		"CLT",
		"5000,00",
		"500,00",
		"200,00",
		"800,00",
		"",
		"NF-1234",
		"ACME",
		"60",
		"ACME Filial",
		"40",
	}
	for len(example) < len(headers) {
		example = append(example, "")
	}
	return importer.RawGrid{headers, example}
}

func (s *ImportServiceImpl) SaveMapping(ctx context.Context, req importer.SaveMappingRequest) (mapping.Mapping, error) {
	if err := req.Validate(); err != nil {
		return mapping.Mapping{}, err
	}

	signature := make([]string, 0, len(req.Headers))
	for _, h := range req.Headers {
		if key := headerKey(h); key != "" {
			signature = append(signature, key)
		}
	}

	m := mapping.Mapping{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		HeaderSignature: signature,
		Fields:          req.Fields,
	}
	created, err := s.mappingRepo.Create(ctx, m)
	if err != nil {
		return mapping.Mapping{}, err
	}
	return created, nil
}

func (s *ImportServiceImpl) ListMappings(ctx context.Context) ([]mapping.Mapping, error) {
	return s.mappingRepo.List(ctx)
}

func (s *ImportServiceImpl) DeleteMapping(ctx context.Context, id string) error {
	if validator.IsEmpty(id) {
		return mapping.ErrMappingNotFound
	}
	return s.mappingRepo.Delete(ctx, id)
}
