package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"exodash/adapters/api"
	"exodash/adapters/excel"
	"exodash/adapters/postgres"
	"exodash/domain/exoplanet"
	"exodash/internal"
	catalogapi "exodash/internal/api"
	"exodash/internal/catalog"
	"exodash/internal/config"
	"exodash/internal/dashboard"
	"exodash/internal/errors"
	"exodash/internal/migration"
	"exodash/internal/session"
	"exodash/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB     *sqlx.DB
	Source ports.CatalogSource
	Store  ports.SubsetStore

	// Loaded once at startup, read-only afterwards
	Catalog *exoplanet.Catalog
	Report  catalog.ValidationReport

	Cache     *session.Cache
	Dashboard *dashboard.Dashboard
	API       *catalogapi.Handler
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		Source: NewSource(cfg, logger),
	}, nil
}

// NewSource picks the XLSX/CSV file when configured, the remote endpoint
// otherwise
func NewSource(cfg *config.Config, logger *internal.Logger) ports.CatalogSource {
	if cfg.Catalog.ExcelFile != "" {
		return excel.NewCatalogFileReader(cfg.Catalog.ExcelFile, logger)
	}
	return api.NewCatalogReader(cfg.Catalog.Endpoint, logger)
}

// InitStore connects the Postgres subset store when DATABASE_URL is set and
// falls back to process memory otherwise
func (c *Container) InitStore(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.Store = session.NewMemoryStore(c.Config.Session.MaxKeys)
		c.Logger.Info("[Container] session subsets kept in memory")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.DatabaseError("failed to ping database", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.Store = postgres.NewSubsetRepository(db)
	c.Logger.Info("[Container] session subsets stored in Postgres")
	return nil
}

// LoadCatalog fetches, validates and classifies the catalog
func (c *Container) LoadCatalog(ctx context.Context) error {
	cat, report, err := catalog.NewLoader(c.Source, c.Logger).Load(ctx)
	if err != nil {
		return err
	}
	c.Catalog = cat
	c.Report = report
	return nil
}

// InitDashboard builds the session cache, the handlers and the API. It
// needs the store and the catalog.
func (c *Container) InitDashboard() error {
	if c.Catalog == nil {
		return fmt.Errorf("catalog must be loaded first")
	}
	if c.Store == nil {
		return fmt.Errorf("subset store must be initialized first")
	}

	c.Cache = session.NewCache(c.Store, c.Logger)
	c.Cache.StartJanitor(c.Config.Session.JanitorInterval, c.Config.Session.TTL)
	c.Dashboard = dashboard.New(c.Catalog, c.Cache, c.Logger)
	c.API = catalogapi.NewHandler(c.Catalog, c.Logger)
	return nil
}

// Init runs every stage in order
func (c *Container) Init(ctx context.Context) error {
	if err := c.InitStore(ctx); err != nil {
		return err
	}
	if err := c.LoadCatalog(ctx); err != nil {
		return err
	}
	return c.InitDashboard()
}

// Close releases background work and connections
func (c *Container) Close() error {
	if c.Cache != nil {
		c.Cache.Stop()
	}
	var err error
	if c.DB != nil {
		err = c.DB.Close()
	}
	c.Logger.Sync()
	return err
}
