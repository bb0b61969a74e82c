package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exodash/domain/exoplanet"
	catalogapi "exodash/internal/api"
)

func TestFilterFlagsBuildQuery(t *testing.T) {
	cmd := newExportCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--min", "0.5", "--sizes", "small,similar"}))

	var f filterFlags
	f.min, _ = cmd.Flags().GetString("min")
	f.sizes, _ = cmd.Flags().GetStringSlice("sizes")
	q := f.values(cmd)

	assert.Equal(t, "0.5", q.Get("min"))
	assert.Empty(t, q.Get("max"))
	assert.Equal(t, "small,similar", q.Get("sizes"))

	def := exoplanet.Filter{Radius: exoplanet.Range{Min: 0, Max: 10}, Sizes: []exoplanet.Label{exoplanet.Bigger}}
	parsed, err := catalogapi.ParseFilterQuery(q, def)
	require.NoError(t, err)
	assert.Equal(t, 0.5, parsed.Radius.Min)
	assert.Equal(t, 10.0, parsed.Radius.Max)
	assert.Equal(t, []exoplanet.Label{exoplanet.Small, exoplanet.Similar}, parsed.Sizes)
}

func TestFilterFlagsOmitUnsetSizes(t *testing.T) {
	cmd := newSummaryCmd()
	require.NoError(t, cmd.Flags().Parse(nil))

	var f filterFlags
	_, ok := f.values(cmd)["sizes"]
	assert.False(t, ok)
}

func TestCommandsAreRegistered(t *testing.T) {
	for _, cmd := range []string{newSummaryCmd().Use, newExportCmd().Use} {
		assert.NotEmpty(t, cmd)
	}
	assert.Equal(t, "migrate [database-url]", newMigrateCmd().Use)
}
