package session

import (
	"encoding/json"
	"math"

	"exodash/domain/exoplanet"
	"exodash/internal/errors"
)

// splitPayload is the column-oriented document a filtered subset is cached
// as: column names once, then one positional row per record.
type splitPayload struct {
	Filter  exoplanet.Filter `json:"filter"`
	Columns []string         `json:"columns"`
	Index   []int            `json:"index"`
	Data    [][]interface{}  `json:"data"`
}

// Encode serializes records under the given columns.
func Encode(f exoplanet.Filter, columns []string, records []exoplanet.Record) ([]byte, error) {
	p := splitPayload{
		Filter:  f,
		Columns: columns,
		Index:   make([]int, len(records)),
		Data:    make([][]interface{}, len(records)),
	}
	for i, r := range records {
		p.Index[i] = i
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = jsonSafe(r.Value(col))
		}
		p.Data[i] = row
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode subset")
	}
	return b, nil
}

// Decode rebuilds the filter, columns and records from a payload.
func Decode(payload []byte) (exoplanet.Filter, []string, []exoplanet.Record, error) {
	var p splitPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return exoplanet.Filter{}, nil, nil, errors.Wrap(err, "failed to decode subset")
	}
	records := make([]exoplanet.Record, len(p.Data))
	for i, values := range p.Data {
		row := make(map[string]interface{}, len(p.Columns))
		for j, col := range p.Columns {
			if j < len(values) && values[j] != nil {
				row[col] = values[j]
			}
		}
		records[i] = exoplanet.RecordFromRow(row)
	}
	return p.Filter, p.Columns, records, nil
}

// JSON has no NaN or Inf
func jsonSafe(v interface{}) interface{} {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}
