package views

import "exodash/domain/exoplanet"

// View IDs, also used as dispatcher output names.
const (
	DistTempChartID     = "dist-temp-chart"
	CelestialChartID    = "celestial-chart"
	RelativeDistChartID = "relative-dist-chart"
	MassTempChartID     = "mstar-tstar-chart"
	DataTableID         = "data-table"
)

// EarthMarker marks one AU per solar radius on the relative distance axis.
var EarthMarker = Marker{Axis: "x", Value: 1, Label: "Earth", Dash: "dot"}

func labels(ls []exoplanet.Label) []string {
	out := make([]string, 0, len(ls)+1)
	for _, l := range ls {
		out = append(out, string(l))
	}
	return append(out, string(exoplanet.Unclassified))
}

func statuses() []string {
	out := make([]string, len(exoplanet.Statuses))
	for i, s := range exoplanet.Statuses {
		out[i] = string(s)
	}
	return out
}

// DistTempChart plots planet temperature against orbit size, by star size.
func DistTempChart(records []exoplanet.Record) Chart {
	return Scatter(ScatterConfig{
		ID:      DistTempChartID,
		Title:   "Planet Temperature ~ Distance from the Star",
		X:       exoplanet.ColTPLANET,
		Y:       exoplanet.ColA,
		ColorBy: exoplanet.ColStarSize,
		Order:   labels(exoplanet.StarSizes),
	}, records)
}

// CelestialChart plots sky position with planet radius as marker size.
func CelestialChart(records []exoplanet.Record) Chart {
	return Scatter(ScatterConfig{
		ID:      CelestialChartID,
		Title:   "Position on the Celestial Sphere",
		X:       exoplanet.ColRA,
		Y:       exoplanet.ColDEC,
		SizeBy:  exoplanet.ColRPLANET,
		ColorBy: exoplanet.ColStatus,
		Order:   statuses(),
	}, records)
}

// RelativeDistChart is the overlaid relative distance histogram by status.
func RelativeDistChart(records []exoplanet.Record) Chart {
	return Histogram(HistogramConfig{
		ID:      RelativeDistChartID,
		Title:   "Relative Distance (AU/SOL radii)",
		Column:  exoplanet.ColRelativeDist,
		ColorBy: exoplanet.ColStatus,
		Order:   statuses(),
		Markers: []Marker{EarthMarker},
	}, records)
}

// MassTempChart plots star mass against star temperature.
func MassTempChart(records []exoplanet.Record) Chart {
	return Scatter(ScatterConfig{
		ID:      MassTempChartID,
		Title:   "Star Mass ~ Star Temperature",
		X:       exoplanet.ColMSTAR,
		Y:       exoplanet.ColTSTAR,
		SizeBy:  exoplanet.ColRPLANET,
		ColorBy: exoplanet.ColStatus,
		Order:   statuses(),
	}, records)
}

// ChartBuilder produces one chart from a record set.
type ChartBuilder struct {
	ID    string
	Build func([]exoplanet.Record) Chart
}

// ChartBuilders lists the four dashboard charts in display order.
var ChartBuilders = []ChartBuilder{
	{DistTempChartID, DistTempChart},
	{CelestialChartID, CelestialChart},
	{RelativeDistChartID, RelativeDistChart},
	{MassTempChartID, MassTempChart},
}
