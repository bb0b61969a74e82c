package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"exodash/internal"
	"exodash/internal/errors"
)

// CatalogFileReader reads a catalog export from an XLSX or CSV file.
// The first row holds column names; numeric cells become float64 and empty
// cells nil, matching what the JSON reader produces.
type CatalogFileReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewCatalogFileReader picks the format from the file extension
func NewCatalogFileReader(filePath string, logger *internal.Logger) *CatalogFileReader {
	fileType := "xlsx"
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		fileType = "csv"
	}
	return &CatalogFileReader{filePath: filePath, fileType: fileType, logger: logger}
}

// Describe implements ports.CatalogSource
func (r *CatalogFileReader) Describe() string {
	return r.fileType + " file " + r.filePath
}

// FetchRows implements ports.CatalogSource
func (r *CatalogFileReader) FetchRows(ctx context.Context) ([]map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.CatalogUnreachable(fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readXLSX()
	}
	if err != nil {
		return nil, errors.CatalogMalformed("failed to read catalog file", err)
	}
	if len(rows) == 0 {
		return nil, errors.CatalogMalformed("catalog file has no header row", nil)
	}

	out := processRows(rows)
	r.logger.Info("[CatalogFileReader] read %d rows from %s in %s", len(out), r.filePath, time.Since(start))
	return out, nil
}

func (r *CatalogFileReader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (r *CatalogFileReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// processRows converts string rows into column maps
func processRows(rows [][]string) []map[string]interface{} {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	out := make([]map[string]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]interface{}, len(headers))
		for i, h := range headers {
			if i >= len(row) {
				rec[h] = nil
				continue
			}
			rec[h] = cellValue(row[i])
		}
		out = append(out, rec)
	}
	return out
}

func cellValue(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
