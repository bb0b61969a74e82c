package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"exodash/adapters/excel"
	"exodash/domain/exoplanet"
	"exodash/internal/errors"
	"exodash/internal/views"
)

// ParseFilterQuery reads min, max and sizes from query values. Missing
// parameters fall back to def; "sizes=" with an empty value selects nothing.
func ParseFilterQuery(q url.Values, def exoplanet.Filter) (exoplanet.Filter, error) {
	f := def
	if raw := q.Get("min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, errors.InvalidFilter(fmt.Sprintf("min %q is not a number", raw))
		}
		f.Radius.Min = v
	}
	if raw := q.Get("max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, errors.InvalidFilter(fmt.Sprintf("max %q is not a number", raw))
		}
		f.Radius.Max = v
	}
	if values, ok := q["sizes"]; ok {
		f.Sizes = []exoplanet.Label{}
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					f.Sizes = append(f.Sizes, exoplanet.Label(part))
				}
			}
		}
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// WriteXLSX streams table as a workbook download
func WriteXLSX(w http.ResponseWriter, filename string, table views.Table) error {
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return excel.WriteTable(w, headers, table.Rows)
}
