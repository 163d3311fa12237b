// Package repository provides the plant record store, credential stores
// and the in-memory session store.
package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/atinyakov/GreenFacade/internal/models"
)

// FieldSeparator is the delimiter of the plant source file.
const FieldSeparator = ';'

// ErrEmptySource is returned when the source file holds no header row.
var ErrEmptySource = errors.New("source file has no header row")

// CSVPlantRepository loads the plant table from a delimited text file and
// caches it until the file's modification time or size changes.
type CSVPlantRepository struct {
	// Path is the location of the source file.
	Path string

	mu      sync.Mutex
	cached  *models.Table
	modTime time.Time
	size    int64
}

// NewCSVPlantRepository creates a repository reading from path.
func NewCSVPlantRepository(path string) *CSVPlantRepository {
	return &CSVPlantRepository{Path: path}
}

// Load returns the plant table. Repeated calls return the same table
// pointer as long as the file is unchanged. On failure Load returns an
// empty table together with the error, never a nil table.
func (r *CSVPlantRepository) Load(ctx context.Context) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return models.NewTable(), err
	}

	info, err := os.Stat(r.Path)
	if err != nil {
		return models.NewTable(), fmt.Errorf("stat %s: %w", r.Path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && info.ModTime().Equal(r.modTime) && info.Size() == r.size {
		return r.cached, nil
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return models.NewTable(), fmt.Errorf("open %s: %w", r.Path, err)
	}
	defer f.Close()

	table, err := ReadTable(f)
	if err != nil {
		return models.NewTable(), fmt.Errorf("read %s: %w", r.Path, err)
	}

	r.cached = table
	r.modTime = info.ModTime()
	r.size = info.Size()
	return table, nil
}

// ReadTable parses a semicolon separated document with a header row.
// Every field is kept as text; empty fields become invalid cells.
func ReadTable(src io.Reader) (*models.Table, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = FieldSeparator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	columns := uniqueColumns(header)
	table := models.NewTable(columns...)

	for index := 0; ; index++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", index+1, err)
		}
		fields := make(map[string]models.Cell, len(columns))
		for i, col := range columns {
			if i >= len(row) || row[i] == "" {
				fields[col] = models.Cell{}
				continue
			}
			fields[col] = models.Text(row[i])
		}
		table.Records = append(table.Records, models.Record{Index: index, Fields: fields})
	}

	return table, nil
}

// uniqueColumns keeps header names verbatim but names blank headers
// "Unnamed: <pos>" and suffixes repeats with ".1", ".2", ... so that every
// column keeps its own values.
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := h
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			for n := 1; ; n++ {
				candidate := name + "." + strconv.Itoa(n)
				if !used[candidate] && !slices.Contains(header[i+1:], candidate) {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		columns[i] = name
	}
	return columns
}
