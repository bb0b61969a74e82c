package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exodash/domain/exoplanet"
	"exodash/internal"
	"exodash/internal/errors"
)

// MockCatalogSource implements ports.CatalogSource
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) FetchRows(ctx context.Context) ([]map[string]interface{}, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]map[string]interface{})
	return rows, args.Error(1)
}

func (m *MockCatalogSource) Describe() string {
	return "mock"
}

func TestLoadDropsInvalidOrbitsAndClassifies(t *testing.T) {
	src := new(MockCatalogSource)
	src.On("FetchRows", mock.Anything).Return([]map[string]interface{}{
		{"KOI": 1.01, "PER": 2.5, "RSTAR": 0.8, "TPLANET": 300.0, "RPLANET": 1.0, "A": 0.4},
		{"KOI": 2.0, "PER": 0.0, "RSTAR": 1.0},
		{"KOI": 3.0, "PER": -4.0, "RSTAR": 1.0},
		{"KOI": "K0004", "PER": 10.0, "RSTAR": 2.0, "TPLANET": 800.0, "RPLANET": 3.0, "A": 1.0},
		{"KOI": 5.0, "RSTAR": 1.0},
	}, nil)

	cat, report, err := NewLoader(src, internal.NewNopLogger()).Load(context.Background())
	require.NoError(t, err)
	src.AssertExpectations(t)

	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 2, report.Retained)
	assert.Equal(t, 3, report.InvalidOrbit)
	assert.Equal(t, 1, report.KOIUnconverted)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, 3, cat.Dropped())

	records := cat.Records()
	for _, r := range records {
		assert.Greater(t, r.PER, 0.0)
	}

	assert.Equal(t, int64(1), records[0].KOI.Value)
	assert.Equal(t, exoplanet.Similar, records[0].StarSize)
	assert.Equal(t, exoplanet.Promising, records[0].Status)
	assert.InDelta(t, 0.5, records[0].RelativeDist.Value, 1e-12)

	assert.Equal(t, "K0004", records[1].Value(exoplanet.ColKOI))
	assert.Equal(t, exoplanet.Bigger, records[1].StarSize)
	assert.Equal(t, exoplanet.StatusExtreme, records[1].Status)
}

func TestLoadFetchFailureIsFatal(t *testing.T) {
	src := new(MockCatalogSource)
	src.On("FetchRows", mock.Anything).Return(nil, errors.CatalogUnreachable(fmt.Errorf("connection refused")))

	cat, _, err := NewLoader(src, internal.NewNopLogger()).Load(context.Background())
	assert.Nil(t, cat)
	assert.Equal(t, errors.CodeCatalogUnreachable, errors.GetCode(err))
}

func TestLoadEmptyIsDistinctFromUnreachable(t *testing.T) {
	src := new(MockCatalogSource)
	src.On("FetchRows", mock.Anything).Return([]map[string]interface{}{}, nil)

	_, _, err := NewLoader(src, internal.NewNopLogger()).Load(context.Background())
	assert.Equal(t, errors.CodeCatalogEmpty, errors.GetCode(err))

	src = new(MockCatalogSource)
	src.On("FetchRows", mock.Anything).Return([]map[string]interface{}{{"PER": -1.0}}, nil)

	_, report, err := NewLoader(src, internal.NewNopLogger()).Load(context.Background())
	assert.Equal(t, errors.CodeCatalogEmpty, errors.GetCode(err))
	assert.Equal(t, 1, report.InvalidOrbit)
}

func TestValidateStringPeriods(t *testing.T) {
	records, report := Validate([]map[string]interface{}{
		{"PER": "3.2"},
		{"PER": "n/a"},
	})
	assert.Len(t, records, 1)
	assert.Equal(t, 1, report.InvalidOrbit)
}
