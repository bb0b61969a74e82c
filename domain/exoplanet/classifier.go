package exoplanet

import "math"

// Bucketing partitions a numeric column into ordered labels.
//
// Boundaries holds k+1 ascending values for k labels. A value v lands in
// Labels[i] when Boundaries[i] <= v < Boundaries[i+1]; the last label also
// takes everything at or above its lower bound. Values below Boundaries[0]
// and NaN are Unclassified.
type Bucketing struct {
	Column     string
	Boundaries []float64
	Labels     []Label
}

// Assign returns the label of the interval containing v.
func (b Bucketing) Assign(v float64) Label {
	if len(b.Labels) == 0 || len(b.Boundaries) < len(b.Labels) {
		return Unclassified
	}
	if math.IsNaN(v) || v < b.Boundaries[0] {
		return Unclassified
	}
	for i := len(b.Labels) - 1; i >= 0; i-- {
		if v >= b.Boundaries[i] {
			return b.Labels[i]
		}
	}
	return Unclassified
}

// Fixed bucket tables.
var (
	StarSizeBuckets = Bucketing{
		Column:     ColRSTAR,
		Boundaries: []float64{0, 0.8, 1.2, 100},
		Labels:     []Label{Small, Similar, Bigger},
	}
	TemperatureBuckets = Bucketing{
		Column:     ColTPLANET,
		Boundaries: []float64{0, 200, 400, 500, 5000},
		Labels:     []Label{Low, Optimal, High, Extreme},
	}
	GravityBuckets = Bucketing{
		Column:     ColRPLANET,
		Boundaries: []float64{0, 0.5, 2, 4, 100},
		Labels:     []Label{Low, Optimal, High, Extreme},
	}
)

// StatusOf evaluates the status rules in priority order; the first match wins.
// Rule 1 is checked before 2 and 3 because they overlap on optimal inputs.
func StatusOf(temp, gravity Label) Status {
	switch {
	case temp == Optimal && gravity == Optimal:
		return Promising
	case temp == Optimal && (gravity == Low || gravity == High):
		return Challenging
	case gravity == Optimal && (temp == Low || temp == High):
		return Challenging
	default:
		return StatusExtreme
	}
}

// RelativeDistance is A / RSTAR, or undefined when the quotient is not finite.
type RelativeDistance struct {
	Value   float64
	Defined bool
}

// UndefinedDistance is the sentinel for a degenerate division.
var UndefinedDistance = RelativeDistance{Value: math.NaN()}

// RelativeDistanceOf divides the semi-major axis by the star radius.
func RelativeDistanceOf(a, rstar float64) RelativeDistance {
	if rstar == 0 || math.IsNaN(a) || math.IsNaN(rstar) {
		return UndefinedDistance
	}
	v := a / rstar
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return UndefinedDistance
	}
	return RelativeDistance{Value: v, Defined: true}
}

// Interface returns the value for tabular output: nil when undefined.
func (d RelativeDistance) Interface() interface{} {
	if !d.Defined {
		return nil
	}
	return d.Value
}

// Classify returns a copy of r with every derived field filled in.
func Classify(r Record) Record {
	r.StarSize = StarSizeBuckets.Assign(r.RSTAR)
	r.Temp = TemperatureBuckets.Assign(r.TPLANET)
	r.Gravity = GravityBuckets.Assign(r.RPLANET)
	r.Status = StatusOf(r.Temp, r.Gravity)
	r.RelativeDist = RelativeDistanceOf(r.A, r.RSTAR)
	return r
}

// ClassifyAll classifies every record; the input is left untouched.
func ClassifyAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Classify(r)
	}
	return out
}
