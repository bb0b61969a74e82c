package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"exodash/internal"
	"exodash/internal/errors"
)

func TestWriteTableThenReadBack(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"KOI", "PER", "status"}
	rows := [][]interface{}{
		{int64(1), 2.47, "promising"},
		{"K-x", nil, "extreme"},
	}
	require.NoError(t, WriteTable(&buf, headers, rows))

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	f.Close()

	got, err := NewCatalogFileReader(path, internal.NewNopLogger()).FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0]["KOI"])
	assert.Equal(t, 2.47, got[0]["PER"])
	assert.Equal(t, "K-x", got[1]["KOI"])
	assert.Nil(t, got[1]["PER"])
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte("KOI,PER,RSTAR\n1,3.5,0.9\n2,,\n"), 0o644))

	reader := NewCatalogFileReader(path, internal.NewNopLogger())
	assert.Contains(t, reader.Describe(), "csv")

	rows, err := reader.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3.5, rows[0]["PER"])
	assert.Nil(t, rows[1]["RSTAR"])
}

func TestMissingFileIsUnreachable(t *testing.T) {
	_, err := NewCatalogFileReader(filepath.Join(t.TempDir(), "nope.xlsx"), internal.NewNopLogger()).
		FetchRows(context.Background())
	assert.Equal(t, errors.CodeCatalogUnreachable, errors.GetCode(err))
}
