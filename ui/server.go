package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"exodash/domain/exoplanet"
	"exodash/internal"
	"exodash/internal/dashboard"
)

//go:embed templates/*.html static/* content/*.md
var embeddedFiles embed.FS

// Title is the dashboard heading
const Title = "Exo Planets Dashboard"

// SliderMarks are the labelled ticks on the radius slider
var SliderMarks = []int{5, 10, 20}

// Server represents the dashboard web server
type Server struct {
	router    *gin.Engine
	dashboard *dashboard.Dashboard
	api       http.Handler
	templates *template.Template
	about     template.HTML
	logger    *internal.Logger
	startedAt time.Time
}

// NewServer creates the server and registers every route. api is mounted
// under /api/v1 when non-nil.
func NewServer(dash *dashboard.Dashboard, api http.Handler, logger *internal.Logger) (*Server, error) {
	s := &Server{
		router:    gin.New(),
		dashboard: dash,
		api:       api,
		logger:    logger,
		startedAt: time.Now(),
	}

	funcMap := template.FuncMap{
		"json": toJSON,
		"add":  func(a, b int) int { return a + b },
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	aboutMD, err := embeddedFiles.ReadFile("content/about.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read about page: %w", err)
	}
	s.about = RenderMarkdown(aboutMD)

	s.setupMiddleware()
	s.setupRoutes()

	logger.Debug("[TemplateInit] parsed templates: %s", s.templates.DefinedTemplates())
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/about", s.handleAbout)
	s.router.GET("/healthz", s.handleHealth)

	// session-scoped dashboard endpoints
	s.router.POST("/filter", s.handleFilter)
	s.router.GET("/views", s.handleViews)
	s.router.GET("/export.xlsx", s.handleExport)

	if s.api != nil {
		s.router.Any("/api/v1/*path", gin.WrapH(http.StripPrefix("/api/v1", s.api)))
	}
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting %s on http://%s", Title, addr)
	return s.router.Run(addr)
}

// Template helpers
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, templateName, data); err != nil {
		s.logger.Error("Template error: %v", err)
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}

// SliderConfig describes the radius range slider
type SliderConfig struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Marks []int   `json:"marks"`
}

func sliderFor(cat *exoplanet.Catalog) SliderConfig {
	cfg := SliderConfig{Step: 1, Marks: SliderMarks}
	if bounds, ok := cat.RadiusBounds(); ok {
		cfg.Min = math.Floor(bounds.Min)
		cfg.Max = math.Ceil(bounds.Max)
	}
	return cfg
}
