package importer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folhaplus/folha-backend-go/internal/domain/benefit"
	"github.com/folhaplus/folha-backend-go/internal/domain/employee"
	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/domain/mapping"
	"github.com/folhaplus/folha-backend-go/internal/domain/payroll"
	"github.com/folhaplus/folha-backend-go/internal/pkg/validator"
)

// ---- in-memory fakes ----

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListActive(context.Context) ([]employee.Employee, error) {
	return r.employees, nil
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.employees = append(r.employees, e)
	return e, nil
}

type fakePayrollRepo struct {
	entries []payroll.Entry
	updates []payroll.UpdateEntryRequest
}

func (r *fakePayrollRepo) Insert(_ context.Context, e payroll.Entry) (payroll.Entry, error) {
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *fakePayrollRepo) Update(_ context.Context, req payroll.UpdateEntryRequest) error {
	for _, e := range r.entries {
		if e.ID == req.ID {
			r.updates = append(r.updates, req)
			return nil
		}
	}
	return payroll.ErrEntryNotFound
}

func (r *fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.Entry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (r *fakePayrollRepo) ListByPeriod(_ context.Context, periodo string) ([]payroll.Entry, error) {
	var out []payroll.Entry
	for _, e := range r.entries {
		if e.Periodo == periodo {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) FindByEmployeePeriod(_ context.Context, employeeID, periodo string) (payroll.Entry, error) {
	for _, e := range r.entries {
		if e.Periodo == periodo && e.EmployeeID != nil && *e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

type fakeMappingRepo struct {
	mappings []mapping.Mapping
}

func (r *fakeMappingRepo) List(context.Context) ([]mapping.Mapping, error) {
	return r.mappings, nil
}

func (r *fakeMappingRepo) Create(_ context.Context, m mapping.Mapping) (mapping.Mapping, error) {
	m.CreatedAt = time.Now()
	r.mappings = append(r.mappings, m)
	return m, nil
}

func (r *fakeMappingRepo) Delete(_ context.Context, id string) error {
	for i, m := range r.mappings {
		if m.ID == id {
			r.mappings = append(r.mappings[:i], r.mappings[i+1:]...)
			return nil
		}
	}
	return mapping.ErrMappingNotFound
}

type fakeBenefitRepo struct {
	costs map[string]decimal.Decimal
}

func (r *fakeBenefitRepo) GetByEmployeeID(_ context.Context, employeeID string) (benefit.Cost, error) {
	if c, ok := r.costs[employeeID]; ok {
		return benefit.Cost{EmployeeID: employeeID, MonthlyCost: c}, nil
	}
	return benefit.Cost{}, benefit.ErrCostNotFound
}

func newTestService(employees []employee.Employee) (importer.Service, *fakePayrollRepo, *fakeMappingRepo, *fakeBenefitRepo) {
	payrollRepo := &fakePayrollRepo{}
	mappingRepo := &fakeMappingRepo{}
	benefitRepo := &fakeBenefitRepo{costs: map[string]decimal.Decimal{}}
	svc := NewImportService(fakeTxManager{}, &fakeEmployeeRepo{employees: employees}, payrollRepo, mappingRepo, benefitRepo)
	return svc, payrollRepo, mappingRepo, benefitRepo
}

func testGrid() importer.RawGrid {
	return importer.RawGrid{
		{"CPF", "COLABORADOR", "FUNÇÃO", "EMPRESA", "CTT", "VALOR"},
		{"12345678900", "João Silva", "Analista", "ACME", "CLT", "5.000,00"},
		{"", "Maria Souza", "Gerente", "ACME", "PJ", "R$ 7.000,00"},
	}
}

// ---- Preview ----

func TestPreview(t *testing.T) {
	svc, _, _, _ := newTestService([]employee.Employee{
		{ID: "e1", FullName: "João Silva", CPF: "529.982.247-25", Funcao: "Analista", Contrato: employee.ContractCLT, Ativo: true},
	})

	result, err := svc.Preview(context.Background(), importer.PreviewRequest{
		Grid:    testGrid(),
		Periodo: "2025-11",
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	joao := result.Rows[0]
	assert.Equal(t, "e1", joao.SuggestedEmployeeID)
	assert.Equal(t, "e1", joao.SelectedEmployeeID)
	assert.Empty(t, joao.ExistingEntryID)

	// 12345678900 has eleven digits but fails the check-digit rule:
	// surfaced as a warning, never a blocker.
	require.Len(t, joao.Warnings, 1)
	assert.Equal(t, importer.WarningInvalidCPF, joao.Warnings[0].Code)

	maria := result.Rows[1]
	assert.Empty(t, maria.SuggestedEmployeeID)
	assert.Equal(t, importer.SelectionNew, maria.SelectedEmployeeID)
	assert.Empty(t, maria.Warnings)

	// Header provenance is exposed to the operator.
	assert.Equal(t, "CTT", result.Origins[importer.FieldContrato])
	assert.Nil(t, result.Applied)
}

func TestPreviewStructuralError(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	_, err := svc.Preview(context.Background(), importer.PreviewRequest{
		Grid: importer.RawGrid{
			{"COLABORADOR", "VALOR"},
			{"João Silva", "100"},
		},
		Periodo: "2025-11",
	})

	var structuralErr *importer.StructuralError
	require.ErrorAs(t, err, &structuralErr)
	assert.NotEmpty(t, structuralErr.Missing)
}

func TestPreviewInvalidPeriod(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	_, err := svc.Preview(context.Background(), importer.PreviewRequest{
		Grid:    testGrid(),
		Periodo: "novembro/2025",
	})
	require.Error(t, err)
}

func TestPreviewAppliesSavedMapping(t *testing.T) {
	svc, _, mappingRepo, _ := newTestService(nil)
	mappingRepo.mappings = []mapping.Mapping{{
		ID:              "m1",
		Name:            "layout contador",
		HeaderSignature: []string{"doc", "quem", "função", "empresa", "ctt", "quanto"},
		Fields: map[string]string{
			"DOC":    string(importer.FieldCPF),
			"QUEM":   string(importer.FieldColaborador),
			"QUANTO": string(importer.FieldValor),
		},
	}}

	grid := importer.RawGrid{
		{"DOC", "QUEM", "FUNÇÃO", "EMPRESA", "CTT", "QUANTO"},
		{"529.982.247-25", "João Silva", "Analista", "ACME", "CLT", "100"},
	}

	result, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: grid, Periodo: "2025-11"})
	require.NoError(t, err)

	require.NotNil(t, result.Applied)
	assert.Equal(t, "m1", result.Applied.ID)
	assert.Greater(t, result.Applied.Score, 0.7)
	assert.Equal(t, "João Silva", result.Rows[0].Fields[importer.FieldColaborador])
	assert.Equal(t, "100", result.Rows[0].Fields[importer.FieldValor])

	// DOC and QUEM only map through the mapping, so there is no valid
	// pre-mapping view to offer.
	assert.Empty(t, result.UnmappedRows)
}

func TestPreviewSavedMappingRoundTrip(t *testing.T) {
	// A mapping saved from an accented layout must auto-apply when the
	// same layout is imported again.
	svc, _, _, _ := newTestService(nil)

	headers := []string{"DOC", "NOME DO FUNCIONÁRIO", "FUNÇÃO", "EMPRESA", "CTT", "REMUNERAÇÃO"}
	_, err := svc.SaveMapping(context.Background(), importer.SaveMappingRequest{
		Name:    "layout contador",
		Headers: headers,
		Fields: map[string]string{
			"DOC":         string(importer.FieldCPF),
			"REMUNERAÇÃO": string(importer.FieldValor),
		},
	})
	require.NoError(t, err)

	grid := importer.RawGrid{
		headers,
		{"529.982.247-25", "João Silva", "Analista", "ACME", "CLT", "5.000,00"},
	}
	result, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: grid, Periodo: "2025-11"})
	require.NoError(t, err)

	require.NotNil(t, result.Applied)
	assert.InDelta(t, 1, result.Applied.Score, 1e-9)
	assert.Equal(t, "5.000,00", result.Rows[0].Fields[importer.FieldValor])
}

func TestPreviewReturnsUnmappedView(t *testing.T) {
	svc, _, mappingRepo, _ := newTestService(nil)
	mappingRepo.mappings = []mapping.Mapping{{
		ID:              "m1",
		Name:            "com nota",
		HeaderSignature: []string{"cpf", "colaborador", "funcao", "empresa", "ctt", "valor", "obs"},
		Fields:          map[string]string{"OBS": string(importer.FieldNotaFiscal)},
	}}

	grid := importer.RawGrid{
		{"CPF", "COLABORADOR", "FUNÇÃO", "EMPRESA", "CTT", "VALOR", "OBS"},
		{"529.982.247-25", "João Silva", "Analista", "ACME", "CLT", "100", "NF-9"},
	}
	result, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: grid, Periodo: "2025-11"})
	require.NoError(t, err)
	require.NotNil(t, result.Applied)

	assert.Equal(t, "NF-9", result.Rows[0].Fields[importer.FieldNotaFiscal])

	// The pre-mapping view rides along so undoing the mapping needs no
	// second upload.
	require.Len(t, result.UnmappedRows, 1)
	bare := result.UnmappedRows[0]
	assert.NotContains(t, bare.Fields, importer.FieldNotaFiscal)
	assert.Equal(t, "NF-9", bare.Unmapped["OBS"])
	assert.Equal(t, importer.SelectionNew, bare.SelectedEmployeeID)
}

func TestPreviewSkipMapping(t *testing.T) {
	svc, _, mappingRepo, _ := newTestService(nil)
	mappingRepo.mappings = []mapping.Mapping{{
		ID:              "m1",
		HeaderSignature: []string{"cpf", "colaborador", "função", "empresa", "ctt", "valor"},
		Fields:          map[string]string{"CPF": string(importer.FieldCPF)},
	}}

	result, err := svc.Preview(context.Background(), importer.PreviewRequest{
		Grid:        testGrid(),
		Periodo:     "2025-11",
		SkipMapping: true,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Applied)
}

func TestPreviewFlagsDuplicates(t *testing.T) {
	svc, payrollRepo, _, _ := newTestService([]employee.Employee{
		{ID: "e1", FullName: "João Silva", Ativo: true},
	})
	linkedID := "e1"
	payrollRepo.entries = []payroll.Entry{
		{ID: "entry1", EmployeeID: &linkedID, Periodo: "2025-11", Snapshot: payroll.EmployeeSnapshot{Nome: "João Silva"}},
		{ID: "entry2", Periodo: "2025-12", Snapshot: payroll.EmployeeSnapshot{Nome: "Maria Souza"}},
	}

	result, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: testGrid(), Periodo: "2025-11"})
	require.NoError(t, err)

	// João exists in 2025-11: flagged.
	assert.Equal(t, "entry1", result.Rows[0].ExistingEntryID)
	// Maria's entry is in another period: not a duplicate here.
	assert.Empty(t, result.Rows[1].ExistingEntryID)
}

// ---- Confirm ----

func TestConfirmInsertsRows(t *testing.T) {
	svc, payrollRepo, _, benefitRepo := newTestService([]employee.Employee{
		{ID: "e1", FullName: "João Silva", CPF: "52998224725", Funcao: "Analista", Contrato: employee.ContractCLT, Ativo: true},
	})
	benefitRepo.costs["e1"] = decimal.NewFromInt(300)

	preview, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: testGrid(), Periodo: "2025-11"})
	require.NoError(t, err)

	summary, err := svc.Confirm(context.Background(), importer.ConfirmRequest{
		Periodo: "2025-11",
		Rows:    preview.Rows,
	})
	require.NoError(t, err)
	assert.Equal(t, importer.Summary{Inserted: 2}, summary)
	require.Len(t, payrollRepo.entries, 2)

	joao := payrollRepo.entries[0]
	require.NotNil(t, joao.EmployeeID)
	assert.Equal(t, "e1", *joao.EmployeeID)
	// Snapshot comes from the directory record for linked rows.
	assert.Equal(t, "João Silva", joao.Snapshot.Nome)
	assert.Equal(t, "52998224725", joao.Snapshot.CPF)
	assert.Equal(t, payroll.SituacaoPendente, joao.Situacao)
	// 5000 + 300 benefits.
	assert.True(t, decimal.NewFromInt(5300).Equal(joao.ValorTotal), "valorTotal = %s", joao.ValorTotal)

	maria := payrollRepo.entries[1]
	assert.Nil(t, maria.EmployeeID)
	assert.Equal(t, "Maria Souza", maria.Snapshot.Nome)
	assert.Equal(t, employee.ContractPJ, maria.Snapshot.Contrato)
	// No directory link, no benefits.
	assert.True(t, decimal.NewFromInt(7000).Equal(maria.ValorTotal), "valorTotal = %s", maria.ValorTotal)
	require.Len(t, maria.Splits, 1)
	assert.Equal(t, "ACME", maria.Splits[0].Nome)
}

func TestConfirmBlockedByUnresolvedDuplicates(t *testing.T) {
	svc, payrollRepo, _, _ := newTestService([]employee.Employee{
		{ID: "e1", FullName: "João Silva", Ativo: true},
	})
	linkedID := "e1"
	payrollRepo.entries = []payroll.Entry{
		{ID: "entry1", EmployeeID: &linkedID, Periodo: "2025-11", Snapshot: payroll.EmployeeSnapshot{Nome: "João Silva"}},
	}

	preview, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: testGrid(), Periodo: "2025-11"})
	require.NoError(t, err)
	require.Equal(t, "entry1", preview.Rows[0].ExistingEntryID)

	_, err = svc.Confirm(context.Background(), importer.ConfirmRequest{
		Periodo: "2025-11",
		Rows:    preview.Rows,
	})
	assert.ErrorIs(t, err, importer.ErrDuplicatesUnresolved)

	// Nothing was written.
	assert.Len(t, payrollRepo.entries, 1)
	assert.Empty(t, payrollRepo.updates)
}

func TestConfirmDuplicateUpdate(t *testing.T) {
	svc, payrollRepo, _, _ := newTestService([]employee.Employee{
		{ID: "e1", FullName: "João Silva", Ativo: true},
	})
	linkedID := "e1"
	payrollRepo.entries = []payroll.Entry{
		{ID: "entry1", EmployeeID: &linkedID, Periodo: "2025-11", Snapshot: payroll.EmployeeSnapshot{Nome: "João Silva"}},
	}

	preview, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: testGrid(), Periodo: "2025-11"})
	require.NoError(t, err)

	rows, err := SetDuplicateAction(preview.Rows, 0, importer.DuplicateActionUpdate)
	require.NoError(t, err)

	summary, err := svc.Confirm(context.Background(), importer.ConfirmRequest{Periodo: "2025-11", Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, importer.Summary{Inserted: 1, Updated: 1}, summary)

	require.Len(t, payrollRepo.updates, 1)
	upd := payrollRepo.updates[0]
	assert.Equal(t, "entry1", upd.ID)
	require.NotNil(t, upd.Valor)
	assert.True(t, decimal.NewFromInt(5000).Equal(*upd.Valor))

	// One insert for Maria, none for João.
	assert.Len(t, payrollRepo.entries, 2)
}

func TestConfirmDuplicateCreateNew(t *testing.T) {
	svc, payrollRepo, _, _ := newTestService([]employee.Employee{
		{ID: "e1", FullName: "João Silva", Ativo: true},
	})
	linkedID := "e1"
	payrollRepo.entries = []payroll.Entry{
		{ID: "entry1", EmployeeID: &linkedID, Periodo: "2025-11", Snapshot: payroll.EmployeeSnapshot{Nome: "João Silva"}},
	}

	preview, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: testGrid(), Periodo: "2025-11"})
	require.NoError(t, err)

	rows, err := SetDuplicateAction(preview.Rows, 0, importer.DuplicateActionCreateNew)
	require.NoError(t, err)

	summary, err := svc.Confirm(context.Background(), importer.ConfirmRequest{Periodo: "2025-11", Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, importer.Summary{Inserted: 2}, summary)
	assert.Empty(t, payrollRepo.updates)
	assert.Len(t, payrollRepo.entries, 3)
}

func TestConfirmRejectsMismatchedRowPeriod(t *testing.T) {
	svc, payrollRepo, _, _ := newTestService(nil)

	preview, err := svc.Preview(context.Background(), importer.PreviewRequest{Grid: testGrid(), Periodo: "2025-11"})
	require.NoError(t, err)

	rows := preview.Rows
	rows[1].Periodo = "2025-10"

	_, err = svc.Confirm(context.Background(), importer.ConfirmRequest{Periodo: "2025-11", Rows: rows})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Empty(t, payrollRepo.entries)
}

// ---- Template ----

func TestTemplate(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	data, contentType, filename, err := svc.Template("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "modelo-importacao-folha.csv", filename)
	assert.NotEmpty(t, data)

	data, contentType, filename, err = svc.Template("xlsx")
	require.NoError(t, err)
	assert.Contains(t, contentType, "spreadsheetml")
	assert.Equal(t, "modelo-importacao-folha.xlsx", filename)
	assert.NotEmpty(t, data)

	_, _, _, err = svc.Template("pdf")
	assert.ErrorIs(t, err, importer.ErrUnknownTemplate)
}

// ---- Mappings ----

func TestSaveAndDeleteMapping(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	created, err := svc.SaveMapping(context.Background(), importer.SaveMappingRequest{
		Name:    "layout contador",
		Headers: []string{"DOC", "QUEM", "QUANTO"},
		Fields:  map[string]string{"DOC": string(importer.FieldCPF)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"doc", "quem", "quanto"}, created.HeaderSignature)

	listed, err := svc.ListMappings(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.DeleteMapping(context.Background(), created.ID))
	assert.ErrorIs(t, svc.DeleteMapping(context.Background(), created.ID), mapping.ErrMappingNotFound)
}

func TestSaveMappingValidation(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	_, err := svc.SaveMapping(context.Background(), importer.SaveMappingRequest{})
	require.Error(t, err)
}
