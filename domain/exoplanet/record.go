package exoplanet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// KOI is the catalog identifier. When the source value cannot be coerced to
// an integer the original value is kept in Raw and Valid is false.
type KOI struct {
	Value int64
	Raw   interface{}
	Valid bool
}

// ParseKOI coerces a raw column value to an integer KOI. Floats are truncated.
func ParseKOI(raw interface{}) KOI {
	switch v := raw.(type) {
	case int:
		return KOI{Value: int64(v), Raw: raw, Valid: true}
	case int64:
		return KOI{Value: v, Raw: raw, Valid: true}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return KOI{Raw: raw}
		}
		return KOI{Value: int64(v), Raw: raw, Valid: true}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return KOI{Value: n, Raw: raw, Valid: true}
		}
		if f, err := v.Float64(); err == nil {
			k := ParseKOI(f)
			k.Raw = raw
			return k
		}
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return KOI{Value: n, Raw: raw, Valid: true}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			k := ParseKOI(f)
			k.Raw = raw
			return k
		}
	}
	return KOI{Raw: raw}
}

// Interface returns the coerced integer, or the untouched original value.
func (k KOI) Interface() interface{} {
	if k.Valid {
		return k.Value
	}
	return k.Raw
}

func (k KOI) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Interface())
}

// Record is one catalog row: a candidate exoplanet and its host star.
// Missing or non-numeric source values are NaN.
type Record struct {
	// Columns holds every flattened source column by name. Read-only once
	// the record is part of a Catalog.
	Columns map[string]interface{}

	KOI     KOI
	PER     float64
	A       float64
	RSTAR   float64
	TPLANET float64
	RPLANET float64
	RA      float64
	DEC     float64
	MSTAR   float64
	TSTAR   float64

	StarSize     Label
	Temp         Label
	Gravity      Label
	Status       Status
	RelativeDist RelativeDistance
}

// NewRecord builds an unclassified record from flattened columns.
func NewRecord(columns map[string]interface{}) Record {
	r := Record{
		Columns: columns,
		PER:     Float(columns[ColPER]),
		A:       Float(columns[ColA]),
		RSTAR:   Float(columns[ColRSTAR]),
		TPLANET: Float(columns[ColTPLANET]),
		RPLANET: Float(columns[ColRPLANET]),
		RA:      Float(columns[ColRA]),
		DEC:     Float(columns[ColDEC]),
		MSTAR:   Float(columns[ColMSTAR]),
		TSTAR:   Float(columns[ColTSTAR]),
	}
	if raw, ok := columns[ColKOI]; ok {
		r.KOI = ParseKOI(raw)
	}
	return r
}

// RecordFromRow rebuilds a classified record from a row that carries the
// derived columns, e.g. one decoded from a cached payload.
func RecordFromRow(row map[string]interface{}) Record {
	columns := make(map[string]interface{}, len(row))
	for k, v := range row {
		switch k {
		case ColStarSize, ColTemp, ColGravity, ColStatus, ColRelativeDist:
			continue
		}
		columns[k] = v
	}
	r := NewRecord(columns)
	r.StarSize = labelOf(row[ColStarSize])
	r.Temp = labelOf(row[ColTemp])
	r.Gravity = labelOf(row[ColGravity])
	if s, ok := row[ColStatus].(string); ok && s != "" {
		r.Status = Status(s)
	} else {
		r.Status = StatusOf(r.Temp, r.Gravity)
	}
	if d := Float(row[ColRelativeDist]); !math.IsNaN(d) && !math.IsInf(d, 0) {
		r.RelativeDist = RelativeDistance{Value: d, Defined: true}
	} else {
		r.RelativeDist = UndefinedDistance
	}
	return r
}

func labelOf(v interface{}) Label {
	if s, ok := v.(string); ok && s != "" {
		return Label(s)
	}
	return Unclassified
}

// Value returns a column by name, derived columns included.
func (r Record) Value(column string) interface{} {
	switch column {
	case ColStarSize:
		return string(r.StarSize)
	case ColTemp:
		return string(r.Temp)
	case ColGravity:
		return string(r.Gravity)
	case ColStatus:
		return string(r.Status)
	case ColRelativeDist:
		return r.RelativeDist.Interface()
	case ColKOI:
		if _, ok := r.Columns[ColKOI]; ok {
			return r.KOI.Interface()
		}
		return nil
	}
	return r.Columns[column]
}

// Number returns a column as float64, NaN when missing or not numeric.
func (r Record) Number(column string) float64 {
	switch column {
	case ColPER:
		return r.PER
	case ColA:
		return r.A
	case ColRSTAR:
		return r.RSTAR
	case ColTPLANET:
		return r.TPLANET
	case ColRPLANET:
		return r.RPLANET
	case ColRA:
		return r.RA
	case ColDEC:
		return r.DEC
	case ColMSTAR:
		return r.MSTAR
	case ColTSTAR:
		return r.TSTAR
	case ColRelativeDist:
		return r.RelativeDist.Value
	}
	return Float(r.Columns[column])
}

// Category returns a categorical column used for chart colouring.
func (r Record) Category(column string) string {
	switch column {
	case ColStarSize:
		return string(r.StarSize)
	case ColTemp:
		return string(r.Temp)
	case ColGravity:
		return string(r.Gravity)
	case ColStatus:
		return string(r.Status)
	}
	if s, ok := r.Columns[column].(string); ok {
		return s
	}
	return ""
}

// Row flattens the record into column → value, derived columns included.
func (r Record) Row() map[string]interface{} {
	row := make(map[string]interface{}, len(r.Columns)+5)
	for k := range r.Columns {
		row[k] = r.Value(k)
	}
	row[ColStarSize] = string(r.StarSize)
	row[ColTemp] = string(r.Temp)
	row[ColGravity] = string(r.Gravity)
	row[ColStatus] = string(r.Status)
	row[ColRelativeDist] = r.RelativeDist.Interface()
	return row
}

// Float converts a loosely typed column value to float64; NaN on failure.
func Float(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
