package views

import (
	"sort"

	"exodash/domain/exoplanet"
)

// TablePageSize is the number of rows per table page.
const TablePageSize = 30

// hiddenColumns are derived or bookkeeping columns kept out of the table.
var hiddenColumns = map[string]bool{
	exoplanet.ColRelativeDist: true,
	exoplanet.ColStarSize:     true,
	exoplanet.ColROW:          true,
	exoplanet.ColTemp:         true,
	exoplanet.ColGravity:      true,
}

// TableColumns returns the visible columns of the subset in sorted order.
func TableColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !hiddenColumns[c] {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// BuildTable lays the subset out row by row. Values are passed through
// untouched except NaN, which becomes an empty cell.
func BuildTable(id string, columns []string, records []exoplanet.Record) Table {
	visible := TableColumns(columns)
	t := Table{
		ID:       id,
		Columns:  make([]Column, len(visible)),
		Rows:     make([][]interface{}, 0, len(records)),
		PageSize: TablePageSize,
		Total:    len(records),
	}
	for i, c := range visible {
		t.Columns[i] = Column{Key: c, Label: c, Type: "text", Align: "left"}
	}
	if len(records) == 0 {
		t.Empty = true
		t.Message = EmptyMessage
		return t
	}

	numeric := make([]bool, len(visible))
	for i := range numeric {
		numeric[i] = true
	}
	for _, r := range records {
		row := make([]interface{}, len(visible))
		for i, c := range visible {
			v := cell(r.Value(c))
			row[i] = v
			switch v.(type) {
			case nil, float64, int64, int:
			default:
				numeric[i] = false
			}
		}
		t.Rows = append(t.Rows, row)
	}
	for i := range t.Columns {
		if numeric[i] {
			t.Columns[i].Type = "number"
			t.Columns[i].Align = "right"
		}
	}
	return t
}

func cell(v interface{}) interface{} {
	if f, ok := v.(float64); ok && !finite(f) {
		return nil
	}
	return v
}
