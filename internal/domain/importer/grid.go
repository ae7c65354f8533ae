package importer

// RawGrid is a rectangular spreadsheet already decoded from its file
// format: row 0 is the header row, everything after is data. Cells are
// kept as raw strings; numeric interpretation happens later.
type RawGrid [][]string

func (g RawGrid) Headers() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

func (g RawGrid) DataRows() [][]string {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}

// Field is a canonical payroll column key. Spreadsheet headers are
// normalized into these; a header that matches no rule stays out of
// the canonical set and is carried separately.
type Field string

const (
	FieldCPF         Field = "cpf"
	FieldColaborador Field = "colaborador"
	FieldFuncao      Field = "funcao"
	FieldEmpresa     Field = "empresa"
	FieldContrato    Field = "contrato"
	FieldValor       Field = "valor"
	FieldAdicional   Field = "adicional"
	FieldReembolso   Field = "reembolso"
	FieldDesconto    Field = "desconto"
	FieldValorTotal  Field = "valorTotal"
	FieldNotaFiscal  Field = "notaFiscal"
)

// MaxEntities is how many paying entities a single payment can be split
// across.
const MaxEntities = 4

// Per-entity split columns, N in 1..MaxEntities. EntityField holds the
// percentage when the sheet has a bare "EMPRESA N" column;
// EntityPercentField when the percentage column is labeled explicitly.
func EntityField(n int) Field        { return Field("empresa" + itoa(n)) }
func EntityNameField(n int) Field    { return Field("empresa" + itoa(n) + "Nome") }
func EntityPercentField(n int) Field { return Field("empresa" + itoa(n) + "Percent") }
func EntityValueField(n int) Field   { return Field("empresa" + itoa(n) + "Valor") }

func itoa(n int) string {
	return string(rune('0' + n))
}

// RequiredFields must all be derivable from the header row, or the
// import is rejected before any row is parsed.
func RequiredFields() []Field {
	return []Field{
		FieldCPF,
		FieldColaborador,
		FieldFuncao,
		FieldEmpresa,
		FieldValor,
		FieldContrato,
	}
}

// TemplateHeaders is the model header row offered for download: the
// canonical single-valued columns followed by the four per-entity split
// column groups.
func TemplateHeaders() []string {
	headers := []string{
		"CPF", "COLABORADOR", "FUNÇÃO", "EMPRESA", "CONTRATO",
		"VALOR", "ADICIONAL", "REEMBOLSO", "DESCONTO", "VALOR TOTAL", "NOTA FISCAL",
	}
	for n := 1; n <= MaxEntities; n++ {
		num := itoa(n)
		headers = append(headers,
			"EMPRESA "+num+" NOME",
			"EMPRESA "+num+" PERCENTUAL",
		)
	}
	return headers
}

// CanonicalRow is one data row keyed by canonical fields. Headers that
// no rule matched keep their original label in Unmapped; the two maps
// never mix key spaces.
type CanonicalRow struct {
	Index    int               `json:"index"`
	Fields   map[Field]string  `json:"fields"`
	Unmapped map[string]string `json:"unmapped,omitempty"`
}

// CanonicalResult is the canonicalizer output for a whole grid.
type CanonicalResult struct {
	Rows []CanonicalRow `json:"rows"`
	// Origins records, per canonical field, the original header text the
	// values were sourced from, so the operator can see the provenance
	// of every column.
	Origins map[Field]string `json:"origins"`
	// Headers is the raw header row as read from the file.
	Headers []string `json:"headers"`
}
