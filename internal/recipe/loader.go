package recipe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrSchemaMismatch is returned when a source lacks required columns.
var ErrSchemaMismatch = errors.New("catalog schema mismatch")

// ErrUnsupportedSource is returned for file types no loader understands.
var ErrUnsupportedSource = errors.New("unsupported catalog source")

// LoadFile reads raw rows from a CSV or HTML file, chosen by extension.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".html", ".htm":
		return LoadHTML(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}
}

// LoadCSV reads raw rows from CSV data with a header line.
func LoadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty CSV", ErrSchemaMismatch)
	}
	return rowsFromTable(records[0], records[1:])
}

// LoadHTML reads raw rows from the first table of an HTML document.
// The header is taken from the first all-th row, or from the first row when
// none exist. Data rows keep th row headers in column order.
func LoadHTML(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no table found", ErrSchemaMismatch)
	}

	var header []string
	var records [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if header == nil && tr.Find("td").Length() == 0 && tr.Find("th").Length() > 0 {
			header = cellTexts(tr.Find("th"))
			return
		}
		cells := cellTexts(tr.Find("th, td"))
		if len(cells) == 0 {
			return
		}
		if header == nil {
			header = cells
			return
		}
		records = append(records, cells)
	})

	if header == nil {
		return nil, fmt.Errorf("%w: table has no header", ErrSchemaMismatch)
	}
	return rowsFromTable(header, records)
}

func cellTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}

// rowsFromTable maps records onto Row fields using the header. Short
// records leave the trailing fields empty so cleaning drops them.
func rowsFromTable(header []string, records [][]string) ([]Row, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	cell := func(record []string, col string) string {
		i := index[strings.ToLower(col)]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, Row{
			Name:     cell(record, ColumnName),
			Calories: cell(record, ColumnCalories),
			Protein:  cell(record, ColumnProtein),
			Carbs:    cell(record, ColumnCarbs),
			Fat:      cell(record, ColumnFat),
			Cuisine:  cell(record, ColumnCuisine),
			DietType: cell(record, ColumnDietType),
		})
	}
	return rows, nil
}
