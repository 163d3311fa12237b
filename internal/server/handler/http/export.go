package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atinyakov/GreenFacade/internal/export"
	"github.com/atinyakov/GreenFacade/internal/middleware"
	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// ExportService defines the operations the export handlers need.
type ExportService interface {
	// Filtered returns the records matching sel.
	Filtered(ctx context.Context, sel models.FilterSelection) (*models.Table, error)
	// Logo returns the logo file, if one exists.
	Logo() (string, bool)
}

// ExportHandler serves spreadsheet and report downloads of the session's
// filtered selection.
type ExportHandler struct {
	Catalog ExportService
	Logger  *zap.Logger
}

// Spreadsheet handles GET /export/xlsx.
func (h *ExportHandler) Spreadsheet(w http.ResponseWriter, r *http.Request) {
	table, ok := h.filtered(w, r)
	if !ok {
		return
	}
	data, err := export.Spreadsheet(table)
	if err != nil {
		h.Logger.Error("spreadsheet export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	h.send(w, data, export.SpreadsheetFilename, export.SpreadsheetContentType, table.Len())
}

// Report handles GET /export/pdf.
func (h *ExportHandler) Report(w http.ResponseWriter, r *http.Request) {
	table, ok := h.filtered(w, r)
	if !ok {
		return
	}
	logo, _ := h.Catalog.Logo()
	data, err := export.Report(table, export.ReportOptions{LogoPath: logo, Logger: h.Logger})
	if err != nil {
		h.Logger.Error("report export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	h.send(w, data, export.ReportFilename, export.ReportContentType, table.Len())
}

// filtered loads the session's selection. Exports of an unavailable table
// are refused.
func (h *ExportHandler) filtered(w http.ResponseWriter, r *http.Request) (*models.Table, bool) {
	ctx := r.Context()
	sess := middleware.GetSessionFromContext(ctx)
	table, err := h.Catalog.Filtered(ctx, sess.Filters)
	if err != nil {
		h.Logger.Warn("plant table unavailable", zap.Error(err))
		http.Error(w, "no data", http.StatusServiceUnavailable)
		return nil, false
	}
	return table, true
}

func (h *ExportHandler) send(w http.ResponseWriter, data []byte, filename, contentType string, records int) {
	h.Logger.Info("export ready",
		zap.String("file", filename),
		zap.Int("records", records),
		zap.String("size", humanize.Bytes(uint64(len(data)))),
	)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
