package views

import (
	"github.com/montanaflynn/stats"

	"exodash/domain/exoplanet"
)

// SummaryColumns are the numeric columns the dashboard plots or filters on.
var SummaryColumns = []string{
	exoplanet.ColRPLANET,
	exoplanet.ColRSTAR,
	exoplanet.ColTPLANET,
	exoplanet.ColA,
	exoplanet.ColPER,
	exoplanet.ColMSTAR,
	exoplanet.ColTSTAR,
	exoplanet.ColRelativeDist,
}

// ColumnSummary describes the finite values of one column.
type ColumnSummary struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
}

// Summary aggregates a record set.
type Summary struct {
	Records  int             `json:"records"`
	Columns  []ColumnSummary `json:"columns"`
	StarSize map[string]int  `json:"starSize"`
	Status   map[string]int  `json:"status"`
}

// Summarize computes per-column statistics. Columns without a finite value
// report Count 0 and zero statistics.
func Summarize(records []exoplanet.Record) (Summary, error) {
	s := Summary{
		Records:  len(records),
		Columns:  make([]ColumnSummary, 0, len(SummaryColumns)),
		StarSize: make(map[string]int),
		Status:   make(map[string]int),
	}
	for _, r := range records {
		s.StarSize[string(r.StarSize)]++
		s.Status[string(r.Status)]++
	}

	for _, col := range SummaryColumns {
		cs, err := SummarizeColumn(col, records)
		if err != nil {
			return s, err
		}
		s.Columns = append(s.Columns, cs)
	}
	return s, nil
}

// SummarizeColumn computes statistics over the finite values of column.
func SummarizeColumn(column string, records []exoplanet.Record) (ColumnSummary, error) {
	cs := ColumnSummary{Column: column}
	data := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		v := histogramValue(r, column)
		if !finite(v) {
			cs.Missing++
			continue
		}
		data = append(data, v)
	}
	cs.Count = len(data)
	if cs.Count == 0 {
		return cs, nil
	}

	var err error
	if cs.Min, err = data.Min(); err != nil {
		return cs, err
	}
	if cs.Max, err = data.Max(); err != nil {
		return cs, err
	}
	if cs.Mean, err = data.Mean(); err != nil {
		return cs, err
	}
	if cs.Median, err = data.Median(); err != nil {
		return cs, err
	}
	return cs, nil
}
