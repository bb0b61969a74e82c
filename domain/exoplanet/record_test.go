package exoplanet

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKOI(t *testing.T) {
	tests := []struct {
		name  string
		raw   interface{}
		valid bool
		value int64
	}{
		{"float truncates", 1.01, true, 1},
		{"int", 42, true, 42},
		{"numeric string", " 17 ", true, 17},
		{"float string", "3.5", true, 3},
		{"json number", json.Number("255"), true, 255},
		{"text", "K00752.01x", false, 0},
		{"nil", nil, false, 0},
		{"nan", math.NaN(), false, 0},
		{"2^63 overflows", 9223372036854775808.0, false, 0},
		{"-2^63 fits", -9223372036854775808.0, true, math.MinInt64},
		{"overflowing string", "1e19", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := ParseKOI(tt.raw)
			assert.Equal(t, tt.valid, k.Valid)
			if tt.valid {
				assert.Equal(t, tt.value, k.Value)
			}
		})
	}
}

func TestKOIFailureKeepsOriginal(t *testing.T) {
	k := ParseKOI("not-a-number")
	assert.Equal(t, "not-a-number", k.Interface())

	b, err := json.Marshal(k)
	assert.NoError(t, err)
	assert.Equal(t, `"not-a-number"`, string(b))

	b, err = json.Marshal(ParseKOI(7.0))
	assert.NoError(t, err)
	assert.Equal(t, `7`, string(b))
}

func TestFloat(t *testing.T) {
	assert.Equal(t, 1.5, Float(1.5))
	assert.Equal(t, 2.0, Float(2))
	assert.Equal(t, 0.25, Float("0.25"))
	assert.Equal(t, 9.0, Float(json.Number("9")))
	assert.True(t, math.IsNaN(Float(nil)))
	assert.True(t, math.IsNaN(Float("n/a")))
	assert.True(t, math.IsNaN(Float(true)))
}

func TestRowRoundTrip(t *testing.T) {
	orig := Classify(NewRecord(map[string]interface{}{
		"KOI":     12.0,
		"RSTAR":   0.0,
		"A":       1.0,
		"RPLANET": 1.4,
		"TPLANET": 250.0,
		"ROW":     3.0,
	}))

	row := orig.Row()
	assert.Equal(t, int64(12), row[ColKOI])
	assert.Nil(t, row[ColRelativeDist])
	assert.Equal(t, "small", row[ColStarSize])

	back := RecordFromRow(row)
	assert.Equal(t, orig.StarSize, back.StarSize)
	assert.Equal(t, orig.Temp, back.Temp)
	assert.Equal(t, orig.Gravity, back.Gravity)
	assert.Equal(t, orig.Status, back.Status)
	assert.False(t, back.RelativeDist.Defined)
	assert.Equal(t, 1.4, back.RPLANET)
	assert.Equal(t, int64(12), back.KOI.Value)
	_, hasDerived := back.Columns[ColStatus]
	assert.False(t, hasDerived)
}

func TestRecordValueAndCategory(t *testing.T) {
	r := Classify(NewRecord(map[string]interface{}{"RSTAR": 1.0, "A": 2.0, "name": "Kepler-22"}))

	assert.Equal(t, "similar", r.Value(ColStarSize))
	assert.Equal(t, 2.0, r.Value(ColRelativeDist))
	assert.Equal(t, "Kepler-22", r.Value("name"))
	assert.Nil(t, r.Value(ColKOI))
	assert.Equal(t, "similar", r.Category(ColStarSize))
	assert.Equal(t, "Kepler-22", r.Category("name"))
	assert.Equal(t, 2.0, r.Number(ColRelativeDist))
}
