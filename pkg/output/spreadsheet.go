package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/plan-autofill/internal/projection"
	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetContentType is the MIME type of workbooks written by WriteWorkbook.
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// numFmtThousands is the builtin "#,##0.00" number format.
const numFmtThousands = 4

// SheetName truncates a table name to the spreadsheet sheet name limit.
func SheetName(name string) string {
	runes := []rune(name)
	if len(runes) > constants.MaxSheetNameLength {
		runes = runes[:constants.MaxSheetNameLength]
	}
	return string(runes)
}

// WriteWorkbook writes one sheet per table, in order, each with a bold header
// row holding the column names. Unset cells are left blank.
func WriteWorkbook(w io.Writer, tables []projection.Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, table := range tables {
		sheet := SheetName(table.Name)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("failed to rename sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, table, headerStyle, numberStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, table projection.Table, headerStyle, numberStyle int) error {
	if len(table.Columns) > 1 {
		last, err := excelize.ColumnNumberToName(len(table.Columns))
		if err != nil {
			return err
		}
		if err := f.SetColStyle(sheet, "B:"+last, numberStyle); err != nil {
			return fmt.Errorf("failed to style sheet %s: %w", sheet, err)
		}
	}

	header := make([]interface{}, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of sheet %s: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of sheet %s: %w", sheet, err)
	}

	for r, row := range table.Rows {
		values := make([]interface{}, 0, len(row.Values)+1)
		values = append(values, labelValue(table, row.Label))
		for _, v := range row.Values {
			if v == nil {
				values = append(values, nil)
				continue
			}
			values = append(values, *v)
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", r+2, sheet, err)
		}
	}

	return nil
}

// labelValue keeps financing years numeric in the sheet.
func labelValue(table projection.Table, label string) interface{} {
	if table.Name == projection.TableFinancing {
		if year, err := strconv.Atoi(label); err == nil {
			return year
		}
	}
	return label
}
