package ui

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"exodash/domain/exoplanet"
	"exodash/internal/api"
	"exodash/internal/errors"
	"exodash/internal/views"
)

// FilterRequest is the body of POST /filter
type FilterRequest struct {
	Radius exoplanet.Range `json:"radius"`
	Sizes  []string        `json:"sizes"`
}

// indexData feeds index.html
type indexData struct {
	Title         string
	Slider        SliderConfig
	Sizes         []exoplanet.Label
	DefaultFilter exoplanet.Filter
	Records       int
	Source        string
	About         template.HTML
	Tabs          []string
	ChartIDs      []string
	TableID       string
}

// handleIndex renders the dashboard shell; charts are fetched from /views
func (s *Server) handleIndex(c *gin.Context) {
	cat := s.dashboard.Catalog()
	chartIDs := make([]string, len(views.ChartBuilders))
	for i, b := range views.ChartBuilders {
		chartIDs[i] = b.ID
	}
	s.renderTemplate(c, "index.html", indexData{
		Title:         Title,
		Slider:        sliderFor(cat),
		Sizes:         cat.ObservedSizes(),
		DefaultFilter: cat.DefaultFilter(),
		Records:       cat.Len(),
		Source:        cat.Source(),
		About:         s.about,
		Tabs:          []string{"Charts", "Data", "About"},
		ChartIDs:      chartIDs,
		TableID:       views.DataTableID,
	})
}

func (s *Server) handleAbout(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(s.about))
}

func (s *Server) handleHealth(c *gin.Context) {
	cat := s.dashboard.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"records":   cat.Len(),
		"dropped":   cat.Dropped(),
		"source":    cat.Source(),
		"loadedAt":  cat.LoadedAt().UTC(),
		"startedAt": s.startedAt.UTC(),
	})
}

// handleFilter runs the apply trigger for the session and returns every
// output it produced
func (s *Server) handleFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.InvalidInput("invalid filter body: "+err.Error()))
		return
	}
	f := exoplanet.Filter{
		Radius: req.Radius,
		Sizes:  make([]exoplanet.Label, len(req.Sizes)),
	}
	for i, l := range req.Sizes {
		f.Sizes[i] = exoplanet.Label(l)
	}

	out, err := s.dashboard.Apply(c.Request.Context(), sessionID(c), f)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Map())
}

// handleViews rebuilds the views from the session's latest selection
func (s *Server) handleViews(c *gin.Context) {
	out, err := s.dashboard.Render(c.Request.Context(), sessionID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Map())
}

// handleExport downloads the session's filtered table as a workbook
func (s *Server) handleExport(c *gin.Context) {
	subset, err := s.dashboard.Current(c.Request.Context(), sessionID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	table := views.BuildTable(views.DataTableID, subset.Columns, subset.Records)
	if err := api.WriteXLSX(c.Writer, "exoplanets.xlsx", table); err != nil {
		s.logger.Error("[Export] session %s: %v", sessionID(c), err)
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[Server] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func toJSON(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
