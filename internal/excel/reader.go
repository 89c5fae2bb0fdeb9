// Package excel reads product/color rows from .xlsx workbooks and writes the
// blank import template.
package excel

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const Extension = ".xlsx"

const (
	ColumnProductName = "Product Name"
	ColumnColor       = "Color"
	ColumnPrice       = "Price"
	ColumnCurrency    = "Currency"
)

// RequiredColumns lists the headers every import sheet must carry, in template order.
var RequiredColumns = []string{ColumnProductName, ColumnColor, ColumnPrice, ColumnCurrency}

// headerAliases maps the legacy Turkish headers onto the canonical ones.
var headerAliases = map[string]string{
	"Ürün Adı":    ColumnProductName,
	"Renk":        ColumnColor,
	"Fiyat":       ColumnPrice,
	"Para Birimi": ColumnCurrency,
}

var (
	ErrInvalidFormat  = errors.New("unsupported file format")
	ErrParse          = errors.New("spreadsheet could not be read")
	ErrMissingColumns = errors.New("spreadsheet is missing required columns")
)

// Row is one non-blank data row as found in the sheet. Text cells are left
// untrimmed and Price is nil when the cell is empty; dropping incomplete rows
// is the importer's job.
type Row struct {
	Line        int
	ProductName string
	Color       string
	Price       *float64
	Currency    string
}

// Sheet is the parsed content of an import workbook.
type Sheet struct {
	Name string
	Rows []Row
}

// CheckExtension fails with ErrInvalidFormat unless filename ends in .xlsx.
func CheckExtension(filename string) error {
	if !strings.EqualFold(filepath.Ext(filename), Extension) {
		return fmt.Errorf("%w: please upload a %s file", ErrInvalidFormat, Extension)
	}
	return nil
}

// Parse reads the first worksheet. The first row holds the headers, which are
// trimmed before the required columns are checked.
func Parse(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrParse)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var headers []string
	if len(rows) > 0 {
		headers = rows[0]
	}
	index, err := indexColumns(headers)
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{Name: sheetName}
	for i, record := range rows[1:] {
		line := i + 2 // 1-based, after the header
		cell := func(col string) string {
			pos := index[col]
			if pos >= len(record) {
				return ""
			}
			return record[pos]
		}

		row := Row{
			Line:        line,
			ProductName: cell(ColumnProductName),
			Color:       cell(ColumnColor),
			Currency:    cell(ColumnCurrency),
		}
		price := strings.TrimSpace(cell(ColumnPrice))
		if price == "" && isBlank(row.ProductName, row.Color, row.Currency) {
			continue
		}
		if price != "" {
			value, err := strconv.ParseFloat(price, 64)
			if err != nil || math.IsInf(value, 0) {
				return nil, fmt.Errorf("%w: row %d: invalid %s %q", ErrParse, line, ColumnPrice, price)
			}
			// NaN is a missing value, so the row is dropped like an empty cell.
			if !math.IsNaN(value) {
				row.Price = &value
			}
		}

		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

func isBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// indexColumns maps each required column to its position. The first
// occurrence of a duplicated header wins.
func indexColumns(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(RequiredColumns))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if canonical, ok := headerAliases[h]; ok {
			h = canonical
		}
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}
