package exoplanet

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStarSizeBoundaries(t *testing.T) {
	tests := []struct {
		rstar float64
		want  Label
	}{
		{0, Small},
		{0.5, Small},
		{0.79999, Small},
		{0.8, Similar}, // lower bound inclusive
		{1.19, Similar},
		{1.2, Bigger},
		{99.9, Bigger},
		{100, Bigger}, // top bucket is unbounded above
		{250, Bigger},
		{-0.1, Unclassified},
		{math.NaN(), Unclassified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StarSizeBuckets.Assign(tt.rstar), "RSTAR=%v", tt.rstar)
	}
}

func TestTemperatureBoundaries(t *testing.T) {
	tests := []struct {
		tplanet float64
		want    Label
	}{
		{0, Low},
		{199.9, Low},
		{200, Optimal},
		{399.9, Optimal},
		{400, High},
		{500, Extreme},
		{5000, Extreme},
		{7200, Extreme},
		{-5, Unclassified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TemperatureBuckets.Assign(tt.tplanet), "TPLANET=%v", tt.tplanet)
	}
}

func TestGravityBoundaries(t *testing.T) {
	tests := []struct {
		rplanet float64
		want    Label
	}{
		{0.2, Low},
		{0.5, Optimal},
		{1.99, Optimal},
		{2, High},
		{4, Extreme},
		{120, Extreme},
		{math.NaN(), Unclassified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GravityBuckets.Assign(tt.rplanet), "RPLANET=%v", tt.rplanet)
	}
}

func TestBucketingWithoutLabels(t *testing.T) {
	assert.Equal(t, Unclassified, Bucketing{}.Assign(1))
}

func TestStatusRules(t *testing.T) {
	tests := []struct {
		name          string
		temp, gravity Label
		want          Status
	}{
		{"both optimal", Optimal, Optimal, Promising},
		{"optimal temp, low gravity", Optimal, Low, Challenging},
		{"optimal temp, high gravity", Optimal, High, Challenging},
		{"optimal gravity, low temp", Low, Optimal, Challenging},
		{"optimal gravity, high temp", High, Optimal, Challenging},
		{"both high", High, High, StatusExtreme},
		{"optimal temp, extreme gravity", Optimal, Extreme, StatusExtreme},
		{"extreme temp, optimal gravity", Extreme, Optimal, StatusExtreme},
		{"unclassified temp", Unclassified, Optimal, StatusExtreme},
		{"both unclassified", Unclassified, Unclassified, StatusExtreme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.temp, tt.gravity))
		})
	}
}

func TestRelativeDistance(t *testing.T) {
	d := RelativeDistanceOf(2.0, 1.0)
	assert.True(t, d.Defined)
	assert.Equal(t, 2.0, d.Value)

	zero := RelativeDistanceOf(1.0, 0)
	assert.False(t, zero.Defined)
	assert.Nil(t, zero.Interface())

	assert.False(t, RelativeDistanceOf(math.NaN(), 1).Defined)
	assert.False(t, RelativeDistanceOf(1, math.NaN()).Defined)
	assert.False(t, RelativeDistanceOf(math.Inf(1), 2).Defined)

	// an undefined distance must survive JSON encoding as null
	b, err := json.Marshal(map[string]interface{}{ColRelativeDist: zero.Interface()})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"relative_dist": null}`, string(b))
}

func TestClassifyFillsEveryDerivedField(t *testing.T) {
	r := Classify(NewRecord(map[string]interface{}{
		"RSTAR":   0.9,
		"TPLANET": 288.0,
		"RPLANET": 1.0,
		"A":       1.8,
	}))

	assert.Equal(t, Similar, r.StarSize)
	assert.Equal(t, Optimal, r.Temp)
	assert.Equal(t, Optimal, r.Gravity)
	assert.Equal(t, Promising, r.Status)
	assert.True(t, r.RelativeDist.Defined)
	assert.InDelta(t, 2.0, r.RelativeDist.Value, 1e-12)
}

func TestClassifyMissingColumnsAreExplicit(t *testing.T) {
	r := Classify(NewRecord(map[string]interface{}{"KOI": "K00001"}))

	assert.Equal(t, Unclassified, r.StarSize)
	assert.Equal(t, Unclassified, r.Temp)
	assert.Equal(t, Unclassified, r.Gravity)
	assert.Equal(t, StatusExtreme, r.Status)
	assert.False(t, r.RelativeDist.Defined)
}

func TestClassifyAllLeavesInputUntouched(t *testing.T) {
	in := []Record{NewRecord(map[string]interface{}{"RSTAR": 2.0})}
	out := ClassifyAll(in)

	assert.Equal(t, Label(""), in[0].StarSize)
	assert.Equal(t, Bigger, out[0].StarSize)
}
