// Package api serves read-only JSON access to the catalog. Requests are
// stateless: the filter travels in the query string instead of the session.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"exodash/domain/exoplanet"
	"exodash/internal"
	"exodash/internal/errors"
	"exodash/internal/views"
)

const maxPageSize = 500

// Handler serves the catalog API
type Handler struct {
	catalog *exoplanet.Catalog
	logger  *internal.Logger
}

// NewHandler creates a new catalog API handler
func NewHandler(catalog *exoplanet.Catalog, logger *internal.Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Routes returns the API router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/summary", h.handleSummary)
	r.Get("/filter/default", h.handleDefaultFilter)
	r.Get("/records", h.handleRecords)
	r.Get("/charts/{id}", h.handleChart)
	r.Get("/export.xlsx", h.handleExport)
	return r
}

// CatalogSummary is the /summary response
type CatalogSummary struct {
	Source   string           `json:"source"`
	LoadedAt string           `json:"loadedAt"`
	Dropped  int              `json:"dropped"`
	Radius   *exoplanet.Range `json:"radius,omitempty"`
	Summary  views.Summary    `json:"summary"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := views.Summarize(h.catalog.Records())
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "failed to summarize catalog"))
		return
	}
	resp := CatalogSummary{
		Source:   h.catalog.Source(),
		LoadedAt: h.catalog.LoadedAt().UTC().Format("2006-01-02T15:04:05Z"),
		Dropped:  h.catalog.Dropped(),
		Summary:  summary,
	}
	if bounds, ok := h.catalog.RadiusBounds(); ok {
		resp.Radius = &bounds
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDefaultFilter(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog.DefaultFilter())
}

// RecordsPage is the /records response
type RecordsPage struct {
	Filter  exoplanet.Filter `json:"filter"`
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
	Columns []views.Column   `json:"columns"`
	Rows    [][]interface{}  `json:"rows"`
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilterQuery(r.URL.Query(), h.catalog.DefaultFilter())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", views.TablePageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	records := h.catalog.Apply(f)
	table := views.BuildTable(views.DataTableID, h.catalog.Columns(), records)

	page := RecordsPage{
		Filter:  f,
		Total:   len(records),
		Offset:  offset,
		Limit:   limit,
		Columns: table.Columns,
		Rows:    [][]interface{}{},
	}
	if offset < len(table.Rows) {
		end := offset + limit
		if end > len(table.Rows) {
			end = len(table.Rows)
		}
		page.Rows = table.Rows[offset:end]
	}
	h.writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := ParseFilterQuery(r.URL.Query(), h.catalog.DefaultFilter())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	for _, b := range views.ChartBuilders {
		if b.ID == id {
			h.writeJSON(w, http.StatusOK, b.Build(h.catalog.Apply(f)))
			return
		}
	}
	h.writeError(w, r, errors.NotFound("chart "+id))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilterQuery(r.URL.Query(), h.catalog.DefaultFilter())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	table := views.BuildTable(views.DataTableID, h.catalog.Columns(), h.catalog.Apply(f))
	if err := WriteXLSX(w, "exoplanets.xlsx", table); err != nil {
		h.logger.Error("[CatalogAPI] export failed: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("[CatalogAPI] %s %s (request %s): %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	}
	h.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// writeJSON encodes before committing the status so an unencodable value
// becomes a 500 instead of an empty 200.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.logger.Error("[CatalogAPI] failed to encode response: %v", err)
		status = http.StatusInternalServerError
		buf.Reset()
		json.NewEncoder(&buf).Encode(map[string]string{
			"error": "failed to encode response",
			"code":  errors.CodeInternalError,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.InvalidInput(name + " must be a non-negative integer")
	}
	return n, nil
}
