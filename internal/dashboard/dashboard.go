// Package dashboard wires the filter and view handlers onto a dispatcher.
//
// The apply trigger validates a selection, caches the filtered subset for the
// session and emits filtered-data. The filtered-data trigger reads that
// subset back and builds every chart and the table from it.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"exodash/domain/exoplanet"
	"exodash/internal"
	"exodash/internal/dispatch"
	"exodash/internal/errors"
	"exodash/internal/session"
	"exodash/internal/views"
)

// OutputFilteredData names the subset descriptor output.
const OutputFilteredData = string(dispatch.TriggerFilteredData)

// FilteredData describes the cached subset a dispatch produced.
type FilteredData struct {
	Key    string           `json:"key"`
	Filter exoplanet.Filter `json:"filter"`
	Count  int              `json:"count"`
	Empty  bool             `json:"empty"`
}

// Dashboard owns the catalog and the session cache for the handlers.
type Dashboard struct {
	catalog    *exoplanet.Catalog
	cache      *session.Cache
	dispatcher *dispatch.Dispatcher
	logger     *internal.Logger
}

// New registers the handlers on a fresh dispatcher.
func New(catalog *exoplanet.Catalog, cache *session.Cache, logger *internal.Logger) *Dashboard {
	d := &Dashboard{
		catalog:    catalog,
		cache:      cache,
		dispatcher: dispatch.New(logger),
		logger:     logger,
	}
	d.dispatcher.Subscribe(dispatch.TriggerApply, "apply-filter", d.handleApply)
	d.dispatcher.Subscribe(dispatch.TriggerFilteredData, "render-views", d.handleRender)
	return d
}

func (d *Dashboard) Catalog() *exoplanet.Catalog { return d.catalog }

// Apply filters the catalog for the session and returns every output.
func (d *Dashboard) Apply(ctx context.Context, sessionID string, f exoplanet.Filter) (*dispatch.Outputs, error) {
	return d.dispatcher.Dispatch(ctx, dispatch.Event{
		Trigger:   dispatch.TriggerApply,
		SessionID: sessionID,
		Payload:   f,
	})
}

// Render rebuilds the views from the session's latest subset. A session
// without one gets the default filter applied first.
func (d *Dashboard) Render(ctx context.Context, sessionID string) (*dispatch.Outputs, error) {
	subset, err := d.cache.Latest(ctx, sessionID)
	if errors.HasCode(err, errors.CodeNotFound) {
		return d.Apply(ctx, sessionID, d.catalog.DefaultFilter())
	}
	if err != nil {
		return nil, err
	}
	return d.dispatcher.Dispatch(ctx, dispatch.Event{
		Trigger:   dispatch.TriggerFilteredData,
		SessionID: sessionID,
		Payload:   subset.Key,
	})
}

// Current returns the session's latest subset, applying the default filter
// when there is none yet.
func (d *Dashboard) Current(ctx context.Context, sessionID string) (*session.Subset, error) {
	subset, err := d.cache.Latest(ctx, sessionID)
	if errors.HasCode(err, errors.CodeNotFound) {
		f := d.catalog.DefaultFilter()
		return d.cache.GetOrCompute(ctx, sessionID, f, d.catalog.Columns(), func() []exoplanet.Record {
			return d.catalog.Apply(f)
		})
	}
	return subset, err
}

func (d *Dashboard) handleApply(ctx context.Context, ev dispatch.Event, out *dispatch.Outputs) ([]dispatch.Event, error) {
	f, ok := ev.Payload.(exoplanet.Filter)
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("apply payload must be a filter, got %T", ev.Payload))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	subset, err := d.cache.GetOrCompute(ctx, ev.SessionID, f, d.catalog.Columns(), func() []exoplanet.Record {
		return d.catalog.Apply(f)
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("[Dashboard] session %s applied %s: %d of %d records", ev.SessionID, subset.Key, len(subset.Records), d.catalog.Len())
	out.Set(OutputFilteredData, FilteredData{
		Key:    subset.Key,
		Filter: subset.Filter,
		Count:  len(subset.Records),
		Empty:  subset.Empty(),
	})
	return []dispatch.Event{{Trigger: dispatch.TriggerFilteredData, Payload: subset.Key}}, nil
}

func (d *Dashboard) handleRender(ctx context.Context, ev dispatch.Event, out *dispatch.Outputs) ([]dispatch.Event, error) {
	key, _ := ev.Payload.(string)
	var (
		subset *session.Subset
		err    error
	)
	if key == "" {
		subset, err = d.cache.Latest(ctx, ev.SessionID)
	} else {
		subset, err = d.cache.Load(ctx, ev.SessionID, key)
	}
	if err != nil {
		return nil, err
	}

	if _, ok := out.Get(OutputFilteredData); !ok {
		out.Set(OutputFilteredData, FilteredData{
			Key:    subset.Key,
			Filter: subset.Filter,
			Count:  len(subset.Records),
			Empty:  subset.Empty(),
		})
	}

	if err := BuildViews(ctx, subset, out); err != nil {
		return nil, err
	}
	return nil, nil
}

// BuildViews writes every chart and the table for subset into out. The
// builders only read the subset, so they run concurrently. The first failing
// builder is returned; a panicking builder fails the render instead of the
// process.
func BuildViews(ctx context.Context, subset *session.Subset, out *dispatch.Outputs) error {
	return buildViews(ctx, subset, out, views.ChartBuilders)
}

func buildViews(ctx context.Context, subset *session.Subset, out *dispatch.Outputs, charts []views.ChartBuilder) error {
	g, _ := errgroup.WithContext(ctx)
	for _, b := range charts {
		b := b
		g.Go(func() error {
			return buildView(b.ID, out, func() interface{} { return b.Build(subset.Records) })
		})
	}
	g.Go(func() error {
		return buildView(views.DataTableID, out, func() interface{} {
			return views.BuildTable(views.DataTableID, subset.Columns, subset.Records)
		})
	})
	return g.Wait()
}

func buildView(id string, out *dispatch.Outputs, build func() interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.CodeInternalError, fmt.Sprintf("building %s: %v", id, r))
		}
	}()
	out.Set(id, build())
	return nil
}
