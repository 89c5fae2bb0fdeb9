package excel

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const TemplateSheet = "Products"

// WriteTemplate writes an empty workbook whose first sheet carries the
// required header row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, col := range RequiredColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(TemplateSheet, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(TemplateSheet, cell, cell, headerStyle); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(TemplateSheet, colName, colName, 20); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}
