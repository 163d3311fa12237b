package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Report file name and media type offered for download.
const (
	ReportFilename    = "report.pdf"
	ReportContentType = "application/pdf"
	ReportTitle       = "Pflanzenauswahl Fassadenbegrünung"
)

// Page geometry in millimetres on an A4 portrait page.
const (
	marginLeft     = 10.0
	marginRight    = 200.0
	pageBreakLimit = 220.0
	autoBreak      = 15.0

	imageSize = 40.0
	factsX    = 55.0
	factLabel = 35.0

	logoX = 160.0
	logoY = 10.0
	logoW = 35.0

	minDescriptionLen = 4
	minImagePathLen   = 5
)

// QuickFacts are printed beside the image of every record.
var QuickFacts = []string{
	models.ColLocation,
	models.ColClimbingType,
	models.ColWater,
	models.ColWinterHardiness,
}

// featured columns are rendered explicitly and left out of the catch-all line.
var featured = map[string]bool{
	models.ColName:            true,
	models.ColBotanical:       true,
	models.ColImage:           true,
	models.ColDescription:     true,
	models.ColLocation:        true,
	models.ColClimbingType:    true,
	models.ColWater:           true,
	models.ColWinterHardiness: true,
}

// ReportOptions configures the PDF report.
type ReportOptions struct {
	// LogoPath is drawn in the top right corner of the first page when set.
	LogoPath string
	// Title overrides ReportTitle.
	Title string
	// Logger receives image preparation failures. Nil disables logging.
	Logger *zap.Logger
}

// Report lays out table as a paginated A4 document: a title block followed
// by one section per record. Missing or broken images are replaced by a
// placeholder and never abort the report.
func Report(table *models.Table, opts ReportOptions) ([]byte, error) {
	pdf := renderReport(table, opts)
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type reportWriter struct {
	pdf *fpdf.Fpdf
	log *zap.Logger
}

func renderReport(table *models.Table, opts ReportOptions) *fpdf.Fpdf {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	title := opts.Title
	if title == "" {
		title = ReportTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, autoBreak)
	pdf.AddPage()
	w := &reportWriter{pdf: pdf, log: log}

	if opts.LogoPath != "" {
		w.image("logo", opts.LogoPath, logoX, logoY, logoW, 0)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.SetY(20)
	pdf.CellFormat(0, 10, ToSingleByte(title), "", 1, "L", false, 0, "")
	pdf.Line(marginLeft, 32, marginRight, 32)
	pdf.Ln(15)

	for _, rec := range table.Records {
		w.record(table.Columns, rec)
	}
	return pdf
}

func (w *reportWriter) record(columns []string, rec models.Record) {
	pdf := w.pdf
	if pdf.GetY() > pageBreakLimit {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 8, ToSingleByte(rec.Get(models.ColName).Or("")), "", 1, "", true, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 6, ToSingleByte(rec.Get(models.ColBotanical).Or("")), "", 1, "", false, 0, "")
	pdf.Ln(2)

	imgY := pdf.GetY()
	path := strings.TrimSpace(rec.Get(models.ColImage).Value)
	placed := false
	if len(path) >= minImagePathLen {
		placed = w.image("plant-"+strconv.Itoa(rec.Index), path, marginLeft, imgY, imageSize, imageSize)
	}
	if !placed {
		pdf.SetFillColor(250, 250, 250)
		pdf.Rect(marginLeft, imgY, imageSize, imageSize, "F")
		pdf.SetXY(marginLeft, imgY+18)
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(imageSize, 5, "Kein Bild", "", 0, "C", false, 0, "")
	}

	pdf.SetXY(factsX, imgY)
	for _, col := range QuickFacts {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(factLabel, 5, ToSingleByte(models.Label(col)+":"), "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, ToSingleByte(rec.Get(col).Or("-")), "", 1, "", false, 0, "")
		pdf.SetX(factsX)
	}

	pdf.SetY(max(pdf.GetY(), imgY+imageSize+5))
	if desc := rec.Get(models.ColDescription); desc.Valid && len([]rune(strings.TrimSpace(desc.Value))) >= minDescriptionLen {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 5, "Beschreibung:", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, ToSingleByte(desc.Value), "", "", false)
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(0, 5, ToSingleByte("Vollständige Daten:"), "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.MultiCell(0, 4, ToSingleByte(catchAll(columns, rec)), "", "", false)
	pdf.Ln(3)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(marginLeft, pdf.GetY(), marginRight, pdf.GetY())
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(5)
}

// image embeds the file at path and reports whether it was placed. h == 0
// keeps the aspect ratio.
func (w *reportWriter) image(name, path string, x, y, width, h float64) bool {
	data, err := PrepareImage(path)
	if err != nil {
		w.log.Warn("report image skipped", zap.String("path", path), zap.Error(err))
		return false
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if !w.pdf.Ok() {
		w.log.Warn("report image rejected", zap.String("path", path), zap.Error(w.pdf.Error()))
		w.pdf.ClearError()
		return false
	}
	w.pdf.ImageOptions(name, x, y, width, h, false, opts, 0, "")
	return true
}

// catchAll lists every non-featured column with a value as "[Label: value]".
func catchAll(columns []string, rec models.Record) string {
	var b strings.Builder
	for _, col := range columns {
		if featured[col] {
			continue
		}
		c := rec.Get(col)
		if !c.Valid || c.Value == "-" {
			continue
		}
		fmt.Fprintf(&b, "[%s: %s]  ", models.Label(col), c.Value)
	}
	return b.String()
}
