package views

import (
	"math"

	"exodash/domain/exoplanet"
)

// ScatterConfig describes a scatter or bubble chart over record columns.
type ScatterConfig struct {
	ID      string
	Title   string
	X, Y    string
	SizeBy  string // optional
	ColorBy string
	// Order fixes the series order; unknown categories follow in order of
	// first appearance.
	Order []string
}

// Scatter groups records into one series per ColorBy category. Records with a
// non-finite coordinate or size are skipped and counted.
func Scatter(cfg ScatterConfig, records []exoplanet.Record) Chart {
	chart := Chart{
		ID:      cfg.ID,
		Type:    ChartScatter,
		Title:   cfg.Title,
		XAxis:   cfg.X,
		YAxis:   cfg.Y,
		ColorBy: cfg.ColorBy,
		SizeBy:  cfg.SizeBy,
		Layout:  DefaultLayout(),
	}
	if len(records) == 0 {
		return EmptyChart(chart)
	}

	groups := make(map[string][]Point)
	order := append([]string(nil), cfg.Order...)
	known := make(map[string]bool, len(order))
	for _, c := range order {
		known[c] = true
	}

	for _, r := range records {
		x, y := r.Number(cfg.X), r.Number(cfg.Y)
		if !finite(x) || !finite(y) {
			chart.Skipped++
			continue
		}
		p := Point{X: x, Y: y, Label: r.Value(exoplanet.ColKOI)}
		if cfg.SizeBy != "" {
			s := r.Number(cfg.SizeBy)
			if !finite(s) || s < 0 {
				chart.Skipped++
				continue
			}
			p.Size = &s
		}
		cat := r.Category(cfg.ColorBy)
		if !known[cat] {
			known[cat] = true
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], p)
	}

	for i, cat := range order {
		points, ok := groups[cat]
		if !ok {
			continue
		}
		chart.Series = append(chart.Series, Series{
			Name:   cat,
			Color:  ColorFor(i),
			Points: points,
		})
	}
	if len(chart.Series) == 0 {
		chart.Series = []Series{}
	}
	return chart
}

// EmptyChart turns c into the uniform empty state.
func EmptyChart(c Chart) Chart {
	c.Series = []Series{}
	c.Markers = nil
	c.Empty = true
	c.Message = EmptyMessage
	return c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
