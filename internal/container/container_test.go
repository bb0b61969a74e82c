package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exodash/adapters/api"
	"exodash/adapters/excel"
	"exodash/internal"
	"exodash/internal/config"
	"exodash/internal/errors"
	"exodash/internal/session"
)

const catalogBody = `[
	{"KOI": 1.01, "PER": 3.5, "RPLANET": 1.0, "RSTAR": 1.0, "TPLANET": 300, "A": 1.0},
	{"KOI": "bad", "PER": 0, "RPLANET": 2.0, "RSTAR": 1.0, "TPLANET": 300, "A": 1.0},
	{"KOI": 3, "PER": 9.1, "RPLANET": 5.0, "RSTAR": 0.5, "TPLANET": 800, "A": 0.2, "extra": {"note": "x"}}
]`

func testConfig(url string) *config.Config {
	cfg := config.Default()
	cfg.Catalog.Endpoint.BaseURL = url
	cfg.Catalog.Endpoint.RetryAttempts = 0
	cfg.Catalog.Endpoint.Timeout = 2 * time.Second
	cfg.Session.JanitorInterval = time.Hour
	return cfg
}

func TestInitWiresEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL), internal.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	defer c.Close()

	assert.IsType(t, &session.MemoryStore{}, c.Store)
	assert.Equal(t, 2, c.Catalog.Len())
	assert.Equal(t, 1, c.Report.InvalidOrbit)
	assert.Contains(t, c.Catalog.Columns(), "extra.note")
	assert.NotNil(t, c.Dashboard)
	assert.NotNil(t, c.API)
}

func TestInitFailsWhenCatalogIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL), internal.NewNopLogger())
	require.NoError(t, err)
	err = c.Init(context.Background())
	assert.Equal(t, errors.CodeCatalogEmpty, errors.GetCode(err))
	assert.NoError(t, c.Close())
}

func TestNewSourcePrefersFile(t *testing.T) {
	cfg := config.Default()
	assert.IsType(t, &api.CatalogReader{}, NewSource(cfg, internal.NewNopLogger()))

	cfg.Catalog.ExcelFile = "catalog.xlsx"
	assert.IsType(t, &excel.CatalogFileReader{}, NewSource(cfg, internal.NewNopLogger()))
}

func TestInitDashboardNeedsCatalog(t *testing.T) {
	c, err := New(config.Default(), internal.NewNopLogger())
	require.NoError(t, err)
	assert.Error(t, c.InitDashboard())

	_, err = New(nil, nil)
	assert.Error(t, err)
}
