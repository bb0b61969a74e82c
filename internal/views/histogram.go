package views

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"exodash/domain/exoplanet"
)

const maxBins = 50

// HistogramConfig describes an overlaid histogram of one column split by a
// category.
type HistogramConfig struct {
	ID      string
	Title   string
	Column  string
	ColorBy string
	Order   []string
	Markers []Marker
}

// Histogram bins Column per ColorBy category over one shared set of
// dividers, so the overlaid bars line up. Records whose value is undefined
// or non-finite are counted in Skipped and not plotted.
func Histogram(cfg HistogramConfig, records []exoplanet.Record) Chart {
	chart := Chart{
		ID:      cfg.ID,
		Type:    ChartHistogram,
		Title:   cfg.Title,
		XAxis:   cfg.Column,
		YAxis:   "count",
		ColorBy: cfg.ColorBy,
		BarMode: "overlay",
		Markers: cfg.Markers,
		Layout:  DefaultLayout(),
	}
	if len(records) == 0 {
		return EmptyChart(chart)
	}

	groups := make(map[string][]float64)
	order := append([]string(nil), cfg.Order...)
	known := make(map[string]bool, len(order))
	for _, c := range order {
		known[c] = true
	}
	var all []float64
	for _, r := range records {
		v := histogramValue(r, cfg.Column)
		if !finite(v) {
			chart.Skipped++
			continue
		}
		cat := r.Category(cfg.ColorBy)
		if !known[cat] {
			known[cat] = true
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], v)
		all = append(all, v)
	}

	chart.Series = []Series{}
	if len(all) == 0 {
		return chart
	}
	dividers := Dividers(all)

	for i, cat := range order {
		values, ok := groups[cat]
		if !ok {
			continue
		}
		sort.Float64s(values)
		counts := stat.Histogram(nil, dividers, values, nil)
		bins := make([]Bin, len(counts))
		for j, c := range counts {
			bins[j] = Bin{Lo: dividers[j], Hi: dividers[j+1], Count: c}
		}
		chart.Series = append(chart.Series, Series{
			Name:  cat,
			Color: ColorFor(i),
			Bins:  bins,
		})
	}
	return chart
}

// Dividers returns evenly spaced bin edges covering every value. The bin
// count follows Sturges' rule. The last edge is nudged past the maximum
// because bins are half-open.
func Dividers(values []float64) []float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	n := int(math.Ceil(math.Log2(float64(len(values))))) + 1
	if n < 1 {
		n = 1
	}
	if n > maxBins {
		n = maxBins
	}
	dividers := floats.Span(make([]float64, n+1), lo, hi)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	return dividers
}

// relative_dist carries its own undefined flag
func histogramValue(r exoplanet.Record, column string) float64 {
	if column == exoplanet.ColRelativeDist && !r.RelativeDist.Defined {
		return math.NaN()
	}
	return r.Number(column)
}
