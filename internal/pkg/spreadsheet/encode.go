package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/xuri/excelize/v2"
)

// WriteCSV renders a grid with semicolon delimiters, the separator
// Excel pt-BR expects when double-clicking a CSV.
func WriteCSV(grid importer.RawGrid) ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.Comma = ';'

	for _, row := range grid {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return buffer.Bytes(), writer.Error()
}

// WriteXLSX renders a grid as a single-sheet workbook.
func WriteXLSX(grid importer.RawGrid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode xlsx: %w", err)
	}
	return buffer.Bytes(), nil
}
