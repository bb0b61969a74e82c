package exoplanet

import (
	"math"
	"sort"
	"time"
)

// Catalog is the classified record set. It is built once at startup and
// never mutated; filtering produces new slices.
type Catalog struct {
	records  []Record
	columns  []string
	source   string
	loadedAt time.Time
	dropped  int
}

// NewCatalog takes ownership of already classified records.
func NewCatalog(records []Record, source string, dropped int) *Catalog {
	colSet := make(map[string]bool)
	for _, r := range records {
		for k := range r.Columns {
			colSet[k] = true
		}
	}
	columns := make([]string, 0, len(colSet)+5)
	for k := range colSet {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	columns = append(columns, ColStarSize, ColTemp, ColGravity, ColStatus, ColRelativeDist)

	return &Catalog{
		records:  records,
		columns:  columns,
		source:   source,
		loadedAt: time.Now(),
		dropped:  dropped,
	}
}

// Len returns the number of retained records.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns a copy of the record slice.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Columns lists source columns in sorted order followed by the derived ones.
func (c *Catalog) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

func (c *Catalog) Source() string      { return c.source }
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Dropped is the number of source rows discarded during validation.
func (c *Catalog) Dropped() int { return c.dropped }

// Apply filters the catalog.
func (c *Catalog) Apply(f Filter) []Record {
	return Apply(c.records, f)
}

// RadiusBounds returns the observed finite RPLANET range.
func (c *Catalog) RadiusBounds() (Range, bool) {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	found := false
	for _, rec := range c.records {
		v := rec.RPLANET
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		found = true
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	if !found {
		return Range{}, false
	}
	return r, true
}

// ObservedSizes returns the StarSize labels present, declared labels first.
// Unclassified is included only when some record carries it.
func (c *Catalog) ObservedSizes() []Label {
	sizes := make([]Label, 0, len(StarSizes)+1)
	sizes = append(sizes, StarSizes...)
	for _, r := range c.records {
		if r.StarSize == Unclassified {
			sizes = append(sizes, Unclassified)
			break
		}
	}
	return sizes
}

// DefaultFilter shows everything: the observed radius range widened by one
// ULP on each side, so the strict bounds keep the extreme records, and every
// observed StarSize.
func (c *Catalog) DefaultFilter() Filter {
	bounds, ok := c.RadiusBounds()
	if !ok {
		// no finite radius: nothing can match any range
		return Filter{Sizes: c.ObservedSizes()}
	}
	return Filter{
		Radius: Range{
			Min: widen(bounds.Min, math.Inf(-1)),
			Max: widen(bounds.Max, math.Inf(1)),
		},
		Sizes: c.ObservedSizes(),
	}
}

// widen steps v one ULP toward dir but never past the largest finite float.
func widen(v, dir float64) float64 {
	if w := math.Nextafter(v, dir); !math.IsInf(w, 0) {
		return w
	}
	return v
}
