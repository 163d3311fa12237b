package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/atinyakov/GreenFacade/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	table *models.Table
	err   error
	calls int
}

func (s *stubRepo) Load(context.Context) (*models.Table, error) {
	s.calls++
	return s.table, s.err
}

func record(index int, fields map[string]string) models.Record {
	cells := map[string]models.Cell{}
	for k, v := range fields {
		cells[k] = models.Text(v)
	}
	return models.Record{Index: index, Fields: cells}
}

func TestBrowse(t *testing.T) {
	table := models.NewTable(models.ColName, models.ColLocation)
	table.Records = append(table.Records,
		record(0, map[string]string{models.ColName: "Efeu", models.ColLocation: "Schatten"}),
		record(1, map[string]string{models.ColName: "Hopfen", models.ColLocation: "Sonne"}),
	)
	svc := service.NewCatalogService(&stubRepo{table: table})

	view, err := svc.Browse(context.Background(), models.FilterSelection{Location: []string{"Sonne"}})
	require.NoError(t, err)

	assert.False(t, view.Empty())
	assert.Same(t, table, view.All)
	require.Equal(t, 1, view.Filtered.Len())
	assert.Equal(t, "Hopfen", view.Filtered.Records[0].Get(models.ColName).Value)
	assert.Equal(t, []string{"Schatten", "Sonne"}, view.Options.Location)
	assert.Nil(t, view.Options.Soil)
}

func TestBrowse_LoadFailureIsNonFatal(t *testing.T) {
	loadErr := errors.New("no such file")
	svc := service.NewCatalogService(&stubRepo{table: models.NewTable(), err: loadErr})

	view, err := svc.Browse(context.Background(), models.NewFilterSelection())
	require.ErrorIs(t, err, loadErr)
	assert.True(t, view.Empty())
	assert.Equal(t, 0, view.Filtered.Len())
}

func TestImagePath(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "efeu.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o644))

	table := models.NewTable(models.ColName, models.ColImage)
	table.Records = append(table.Records,
		record(0, map[string]string{models.ColName: "Efeu", models.ColImage: " " + img + " "}),
		record(1, map[string]string{models.ColName: "Hopfen", models.ColImage: filepath.Join(dir, "missing.jpg")}),
		record(2, map[string]string{models.ColName: "Kurz", models.ColImage: "a.jp"}),
	)
	svc := service.NewCatalogService(&stubRepo{table: table})

	path, err := svc.ImagePath(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, img, path)

	for _, idx := range []int{1, 2, 9} {
		_, err := svc.ImagePath(context.Background(), idx)
		assert.ErrorIs(t, err, service.ErrNoImage, "index %d", idx)
	}
}

func TestLogo(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "1200x1200_1.png")
	require.NoError(t, os.WriteFile(second, []byte("png"), 0o644))

	svc := service.NewCatalogService(&stubRepo{}, filepath.Join(dir, "logo.png"), second)
	path, ok := svc.Logo()
	require.True(t, ok)
	assert.Equal(t, second, path)

	_, ok = service.NewCatalogService(&stubRepo{}, filepath.Join(dir, "logo.png")).Logo()
	assert.False(t, ok)
}
