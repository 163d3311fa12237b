package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atinyakov/GreenFacade/internal/filter"
	"github.com/atinyakov/GreenFacade/internal/models"
)

// ErrNoImage is returned when a record has no usable local image.
var ErrNoImage = errors.New("no image")

// minImagePathLen is the shortest Bild_URL value treated as a path.
const minImagePathLen = 5

// PlantRepository defines the record store used by the catalog.
type PlantRepository interface {
	// Load returns the plant table. On failure it returns an empty,
	// non-nil table together with the error.
	Load(ctx context.Context) (*models.Table, error)
}

// CatalogView is the result of one browse interaction.
type CatalogView struct {
	// All is the unfiltered table.
	All *models.Table
	// Filtered holds the records matching the selection, in table order.
	Filtered *models.Table
	// Options lists the selectable values per filter control.
	Options filter.Options
}

// Empty reports whether no data could be loaded.
func (v CatalogView) Empty() bool {
	return v.All.Len() == 0
}

// CatalogService narrows the plant table for browsing and exporting.
type CatalogService struct {
	repo  PlantRepository
	logos []string
}

// NewCatalogService constructs a CatalogService. logos lists candidate logo
// files; the first existing one is used.
func NewCatalogService(repo PlantRepository, logos ...string) *CatalogService {
	return &CatalogService{repo: repo, logos: logos}
}

// Browse loads the table and applies sel. A load failure yields an empty
// view together with the error so callers can warn and carry on.
func (s *CatalogService) Browse(ctx context.Context, sel models.FilterSelection) (CatalogView, error) {
	table, err := s.repo.Load(ctx)
	if table == nil {
		table = models.NewTable()
	}
	view := CatalogView{
		All:      table,
		Filtered: filter.Apply(table, sel),
		Options:  filter.BuildOptions(table),
	}
	if err != nil {
		return view, fmt.Errorf("load plants: %w", err)
	}
	return view, nil
}

// Filtered returns the records matching sel.
func (s *CatalogService) Filtered(ctx context.Context, sel models.FilterSelection) (*models.Table, error) {
	view, err := s.Browse(ctx, sel)
	return view.Filtered, err
}

// ImagePath returns the local image file of the record with the given
// source index.
func (s *CatalogService) ImagePath(ctx context.Context, index int) (string, error) {
	table, err := s.repo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load plants: %w", err)
	}
	rec, ok := table.Record(index)
	if !ok {
		return "", ErrNoImage
	}
	path, ok := LocalImage(rec)
	if !ok {
		return "", ErrNoImage
	}
	return path, nil
}

// Logo returns the first existing logo file.
func (s *CatalogService) Logo() (string, bool) {
	for _, p := range s.logos {
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

// LocalImage returns the record's image path when it names an existing file.
func LocalImage(r models.Record) (string, bool) {
	path := strings.TrimSpace(r.Get(models.ColImage).Value)
	if len(path) < minImagePathLen || !fileExists(path) {
		return "", false
	}
	return path, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
