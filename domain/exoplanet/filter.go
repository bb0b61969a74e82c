package exoplanet

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"exodash/internal/errors"
)

// Range is an open interval over RPLANET: both bounds are exclusive.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports Min < v < Max. NaN is never contained.
func (r Range) Contains(v float64) bool {
	return r.Min < v && v < r.Max
}

// Filter is the user selection driving every view.
type Filter struct {
	Radius Range   `json:"radius"`
	Sizes  []Label `json:"sizes"`
}

// Validate rejects selections no record could be compared against.
// An empty Sizes set is valid and simply matches nothing.
func (f Filter) Validate() error {
	if math.IsNaN(f.Radius.Min) || math.IsNaN(f.Radius.Max) {
		return errors.InvalidFilter("radius bounds must be numbers")
	}
	if math.IsInf(f.Radius.Min, 0) || math.IsInf(f.Radius.Max, 0) {
		return errors.InvalidFilter("radius bounds must be finite")
	}
	if f.Radius.Min > f.Radius.Max {
		return errors.InvalidFilter(fmt.Sprintf("radius min %g is above max %g", f.Radius.Min, f.Radius.Max))
	}
	for _, s := range f.Sizes {
		if !IsStarSize(s) {
			return errors.InvalidFilter(fmt.Sprintf("unknown star size %q", s))
		}
	}
	return nil
}

// Match applies both predicates to one record.
func (f Filter) Match(r Record) bool {
	if !f.Radius.Contains(r.RPLANET) {
		return false
	}
	for _, s := range f.Sizes {
		if r.StarSize == s {
			return true
		}
	}
	return false
}

// Key is a canonical cache key: equal selections produce equal keys
// regardless of label order or duplicates.
func (f Filter) Key() string {
	sizes := make([]string, 0, len(f.Sizes))
	seen := make(map[Label]bool, len(f.Sizes))
	for _, s := range f.Sizes {
		if seen[s] {
			continue
		}
		seen[s] = true
		sizes = append(sizes, string(s))
	}
	sort.Strings(sizes)
	return "rplanet(" + strconv.FormatFloat(f.Radius.Min, 'g', -1, 64) + "," +
		strconv.FormatFloat(f.Radius.Max, 'g', -1, 64) + ")|starsize=" + strings.Join(sizes, ",")
}

// Apply returns the records matching f, in input order. The input is not
// modified and the result may be empty.
func Apply(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
