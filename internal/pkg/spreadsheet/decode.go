// Package spreadsheet decodes uploaded tabular files into a RawGrid and
// writes template grids back out. The import pipeline itself never
// touches file bytes; everything past this package works on the grid.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var ErrUnsupportedFormat = errors.New("unsupported spreadsheet file format")

// Decode reads a CSV, TSV, XLSX or legacy XLS upload into a RawGrid.
// The extension picks the decoder; mislabeled binary workbooks fall
// through from xls to xlsx the way real exports require.
func Decode(filename string, r io.Reader) (importer.RawGrid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return decodeXLSX(data)
	case ".xls":
		grid, err := decodeXLS(data)
		if err != nil {
			// Spreadsheets renamed to .xls are often xlsx inside.
			if grid2, err2 := decodeXLSX(data); err2 == nil {
				return grid2, nil
			}
			return nil, err
		}
		return grid, nil
	case ".tsv":
		return decodeCSV(data, '\t')
	case ".csv", ".txt", "":
		return decodeCSV(data, detectDelimiter(data))
	default:
		return nil, ErrUnsupportedFormat
	}
}

func decodeCSV(data []byte, comma rune) (importer.RawGrid, error) {
	if !utf8.Valid(data) {
		// Brazilian payroll exports frequently come out of Excel as
		// Windows-1252.
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode file encoding: %w", err)
		}
		data = decoded
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return trimTrailingEmpty(records), nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func decodeXLSX(data []byte) (importer.RawGrid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrUnsupportedFormat
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read xlsx sheet: %w", err)
	}
	return trimTrailingEmpty(rows), nil
}

func decodeXLS(data []byte) (importer.RawGrid, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, ErrUnsupportedFormat
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read xls sheet: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return trimTrailingEmpty(rows), nil
}

// trimTrailingEmpty drops the fully empty rows Excel leaves at the
// bottom of exported sheets, so they do not become blank preview rows.
func trimTrailingEmpty(rows [][]string) importer.RawGrid {
	end := len(rows)
	for end > 0 && emptyRow(rows[end-1]) {
		end--
	}
	return importer.RawGrid(rows[:end])
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
