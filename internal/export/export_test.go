package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/atinyakov/GreenFacade/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func table(columns []string, rows ...[]string) *models.Table {
	t := models.NewTable(columns...)
	for i, row := range rows {
		fields := map[string]models.Cell{}
		for j, col := range columns {
			if j < len(row) && row[j] != "" {
				fields[col] = models.Text(row[j])
			}
		}
		t.Records = append(t.Records, models.Record{Index: i, Fields: fields})
	}
	return t
}

func TestSpreadsheet_RoundTrip(t *testing.T) {
	cols := []string{"Name", "Botanisch", "PLZ", "Wuchs_Hoehe"}
	src := table(cols,
		[]string{"Efeu", "Hedera helix", "01234", "bis 20 m"},
		[]string{"Geißblatt", "Lonicera", "00700", "3–6 m"},
	)

	data, err := Spreadsheet(src)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		cols,
		{"Efeu", "Hedera helix", "01234", "bis 20 m"},
		{"Geißblatt", "Lonicera", "00700", "3–6 m"},
	}, rows)
}

func TestSpreadsheet_RepeatedHeadersKeepValues(t *testing.T) {
	src, err := repository.ReadTable(strings.NewReader("Name;Hinweis;Standort;Hinweis;;\nEfeu;schattig;Schatten;giftig;a;b\n"))
	require.NoError(t, err)

	data, err := Spreadsheet(src)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Name", "Hinweis", "Standort", "Hinweis.1", "Unnamed: 4", "Unnamed: 5"},
		{"Efeu", "schattig", "Schatten", "giftig", "a", "b"},
	}, rows)
}

func TestSpreadsheet_EmptyTable(t *testing.T) {
	data, err := Spreadsheet(table([]string{"Name", "Standort"}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Standort"}}, rows)
}

func TestSpreadsheet_MissingCellsStayBlank(t *testing.T) {
	data, err := Spreadsheet(table([]string{"Name", "Boden", "Standort"}, []string{"Hopfen", "", "Sonne"}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "B2")
	require.NoError(t, err)
	assert.Empty(t, v)
	v, err = f.GetCellValue(SheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Sonne", v)
}

func TestToSingleByte(t *testing.T) {
	tests := map[string]string{
		"Efeu":          "Efeu",
		"Winterhärte":   "Winterh\xe4rte",
		"Geißblatt €":   "Gei\xdfblatt \x80",
		"Kletter 🌿 Typ": "Kletter ? Typ",
		"日本":            "??",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSingleByte(in), "input %q", in)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFlatten_TransparencyBecomesWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{0, 0, 0, 0})
	src.Set(1, 0, color.NRGBA{255, 0, 0, 255})

	out := Flatten(src)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, out.RGBAAt(1, 0))
}

func TestPrepareImage(t *testing.T) {
	dir := t.TempDir()

	alpha := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	alpha.Set(3, 3, color.NRGBA{0, 128, 0, 200})
	alphaPath := filepath.Join(dir, "alpha.png")
	writePNG(t, alphaPath, alpha)

	paletted := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Transparent, color.Black})
	palettedPath := filepath.Join(dir, "indexed.png")
	writePNG(t, palettedPath, paletted)

	for _, p := range []string{alphaPath, palettedPath} {
		data, err := PrepareImage(p)
		require.NoError(t, err, p)
		_, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	}

	broken := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not an image"), 0o644))
	_, err := PrepareImage(broken)
	assert.Error(t, err)

	_, err = PrepareImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files may be left behind")
}

func reportColumns() []string {
	return []string{"Name", "Botanisch", "Standort", "Klettertyp", "Bild_URL", "Beschreibung", "Boden", "Bluete_Farbe"}
}

func TestReport_DegradesGracefully(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "efeu.png")
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	img.Set(1, 1, color.NRGBA{0, 100, 0, 128})
	writePNG(t, good, img)
	broken := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0o644))

	src := table(reportColumns(),
		[]string{"Efeu", "Hedera helix", "Schatten", "Selbstklimmer", good, "Immergrün und robust", "humos", "grün"},
		[]string{"Hopfen 🍺", "Humulus lupulus", "", "", broken, "", "", "-"},
		[]string{"Kiwi 猕猴桃", "", "", "", filepath.Join(dir, "missing.png"), "kurz", "", ""},
		[]string{"", "", "", "", "", "", "", ""},
	)

	data, err := Report(src, ReportOptions{LogoPath: filepath.Join(dir, "logo.png")})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files may be left behind")
}

// uncompressed renders pdf without stream compression so page content can
// be searched as text.
func uncompressed(t *testing.T, pdf interface {
	SetCompression(bool)
	Output(w io.Writer) error
}) string {
	t.Helper()
	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.String()
}

func TestReport_PlacesImagesAndFallbacks(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "efeu.png")
	img := image.NewNRGBA64(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.NRGBA64{R: 0xffff, A: 0x8000})
	writePNG(t, good, img)

	src := table(reportColumns(),
		[]string{"Efeu", "Hedera helix", "Schatten", "Selbstklimmer", good, "Immergrün und robust"},
		[]string{"Hopfen", "Humulus lupulus", "", "", filepath.Join(dir, "missing.png"), "abc"},
		[]string{"Kiwi", "Actinidia", "Sonne", "Schlinger", "", "kurz"},
	)

	pdf := renderReport(src, ReportOptions{LogoPath: filepath.Join(dir, "logo.png")})
	require.True(t, pdf.Ok(), "pdf error: %v", pdf.Error())
	assert.NotNil(t, pdf.GetImageInfo("plant-0"), "valid image must be embedded")
	assert.Nil(t, pdf.GetImageInfo("plant-1"))
	assert.Nil(t, pdf.GetImageInfo("logo"))

	out := uncompressed(t, pdf)
	assert.Equal(t, 1, strings.Count(out, "/Subtype /Image"))
	assert.Equal(t, 2, strings.Count(out, "(Kein Bild) Tj"), "records without image get the placeholder")
	assert.Equal(t, 2, strings.Count(out, "(Beschreibung:) Tj"), "descriptions shorter than 4 runes are skipped")
	assert.NotContains(t, out, "(abc)")
	// Wasserbedarf and Winterhaerte are absent for all three records, Standort
	// and Klettertyp for the second one.
	assert.Equal(t, 8, strings.Count(out, "(-) Tj"))
}

func TestReport_EmptyTable(t *testing.T) {
	data, err := Report(models.NewTable(), ReportOptions{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReport_PaginatesPastThreshold(t *testing.T) {
	one := table(reportColumns(), []string{"Efeu", "Hedera helix"})
	assert.Equal(t, 1, renderReport(one, ReportOptions{}).PageCount())

	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"Pflanze " + strconv.Itoa(i), "Species"}
	}
	many := table(reportColumns(), rows...)
	pdf := renderReport(many, ReportOptions{})
	require.True(t, pdf.Ok(), "pdf error: %v", pdf.Error())
	assert.Greater(t, pdf.PageCount(), 2)
}

func TestCatchAll(t *testing.T) {
	rec := table(reportColumns(),
		[]string{"Efeu", "Hedera", "Schatten", "Selbstklimmer", "x.png", "Text", "humos", "-"},
	).Records[0]

	assert.Equal(t, "[Boden: humos]  ", catchAll(reportColumns(), rec))
}
