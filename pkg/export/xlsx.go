package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xfinder/reporting-api/internal/models"
)

const sheetName = "Sheet1"

// XLSX renders rows into a single sheet workbook. The first line holds the
// column names of the first row; an empty set produces a workbook with an
// empty sheet.
func XLSX(rows []models.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if len(rows) > 0 {
		header := make([]any, len(rows[0].Columns))
		for i, c := range rows[0].Columns {
			header[i] = c
		}
		if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row.Values))
		for j, v := range row.Values {
			values[j] = xlsxValue(v)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xlsxValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return t
	}
}
