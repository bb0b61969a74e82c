// Package catalog builds the immutable, classified record set at startup.
package catalog

import (
	"context"
	"time"

	"exodash/domain/exoplanet"
	"exodash/internal"
	"exodash/internal/errors"
	"exodash/ports"
)

// Loader turns raw source rows into a classified Catalog.
type Loader struct {
	source ports.CatalogSource
	logger *internal.Logger
}

// NewLoader creates a loader over source
func NewLoader(source ports.CatalogSource, logger *internal.Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// ValidationReport counts what happened to the source rows.
type ValidationReport struct {
	Rows           int
	Retained       int
	InvalidOrbit   int // PER <= 0 or missing
	KOIUnconverted int
}

// Load fetches, validates and classifies. Any fetch failure is fatal: there
// is no partial catalog.
func (l *Loader) Load(ctx context.Context) (*exoplanet.Catalog, ValidationReport, error) {
	start := time.Now()
	l.logger.Info("[CatalogLoader] loading catalog from %s", l.source.Describe())

	rows, err := l.source.FetchRows(ctx)
	if err != nil {
		return nil, ValidationReport{}, errors.Wrap(err, "failed to load catalog")
	}
	if len(rows) == 0 {
		return nil, ValidationReport{}, errors.CatalogEmpty("catalog endpoint returned no records")
	}

	records, report := Validate(rows)
	if report.InvalidOrbit > 0 {
		l.logger.Debug("[CatalogLoader] dropped %d rows with non-positive orbital period", report.InvalidOrbit)
	}
	if report.KOIUnconverted > 0 {
		l.logger.Warn("[CatalogLoader] %d KOI values could not be converted to integers and were left as-is", report.KOIUnconverted)
	}
	if len(records) == 0 {
		return nil, report, errors.CatalogEmpty("no catalog record has a positive orbital period")
	}

	cat := exoplanet.NewCatalog(exoplanet.ClassifyAll(records), l.source.Describe(), report.InvalidOrbit)
	l.logger.Info("[CatalogLoader] catalog ready: %d records (%d dropped) in %s", cat.Len(), report.InvalidOrbit, time.Since(start))
	return cat, report, nil
}

// Validate drops rows whose PER is not positive and coerces KOI. Failures
// are per-row and never fatal.
func Validate(rows []map[string]interface{}) ([]exoplanet.Record, ValidationReport) {
	report := ValidationReport{Rows: len(rows)}
	records := make([]exoplanet.Record, 0, len(rows))
	for _, row := range rows {
		rec := exoplanet.NewRecord(row)
		// NaN compares false, so a missing period is an invalid orbit too
		if !(rec.PER > 0) {
			report.InvalidOrbit++
			continue
		}
		if _, ok := row[exoplanet.ColKOI]; ok && !rec.KOI.Valid {
			report.KOIUnconverted++
		}
		records = append(records, rec)
	}
	report.Retained = len(records)
	return records, report
}
