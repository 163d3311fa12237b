package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/atinyakov/GreenFacade/internal/filter"
	"github.com/atinyakov/GreenFacade/internal/middleware"
	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/atinyakov/GreenFacade/internal/render"
	"github.com/atinyakov/GreenFacade/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoadWarning is shown when the plant table could not be read.
const LoadWarning = "Fehler beim Laden der Datenbank"

// CatalogService defines the catalog operations required by the handlers.
type CatalogService interface {
	// Browse returns the loaded and filtered tables. A load error comes
	// with an empty view.
	Browse(ctx context.Context, sel models.FilterSelection) (service.CatalogView, error)
	// ImagePath returns the local image file of a record.
	ImagePath(ctx context.Context, index int) (string, error)
	// Logo returns the logo file, if one exists.
	Logo() (string, bool)
}

// CatalogHandler serves the catalog page, the filter form and the JSON API.
type CatalogHandler struct {
	Catalog  CatalogService
	Sessions SessionStore
	Logger   *zap.Logger
}

// Index handles GET /.
func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.GetSessionFromContext(ctx)

	view, err := h.Catalog.Browse(ctx, sess.Filters)
	warning := ""
	if err != nil {
		h.Logger.Warn("plant table unavailable", zap.Error(err))
		warning = LoadWarning
	}
	_, hasLogo := h.Catalog.Logo()

	page := render.BuildCatalogPage(render.CatalogInput{
		Session:  sess,
		All:      view.All,
		Filtered: view.Filtered,
		Options:  view.Options,
		Images:   imageURL,
		HasLogo:  hasLogo,
		Warning:  warning,
	})
	html, err := render.Catalog(page)
	if err != nil {
		h.Logger.Error("failed to render catalog", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func imageURL(rec models.Record) (string, bool) {
	if _, ok := service.LocalImage(rec); !ok {
		return "", false
	}
	return "/images/" + strconv.Itoa(rec.Index), true
}

// ApplyFilters handles POST /filters. The submitted form replaces the
// session's whole selection.
func (h *CatalogHandler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	sess := middleware.GetSessionFromContext(r.Context())
	sess.Filters = ParseSelection(r.PostForm)
	h.save(w, r, sess)
}

// ResetFilters handles POST /filters/reset.
func (h *CatalogHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	sess.Filters.Reset()
	h.save(w, r, sess)
}

func (h *CatalogHandler) save(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	if err := h.Sessions.Save(r.Context(), sess); err != nil {
		h.Logger.Error("failed to save session", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ParseSelection reads a filter selection from submitted form values.
// Unknown evergreen values fall back to "Alle".
func ParseSelection(form url.Values) models.FilterSelection {
	sel := models.NewFilterSelection()
	sel.Location = nonEmpty(form[render.FieldLocation])
	sel.ClimbingType = nonEmpty(form[render.FieldClimbingType])
	sel.Water = nonEmpty(form[render.FieldWater])
	sel.WinterHardiness = nonEmpty(form[render.FieldWinterHardiness])
	sel.Soil = nonEmpty(form[render.FieldSoil])
	sel.Growth = nonEmpty(form[render.FieldGrowth])
	if v := form.Get(render.FieldEvergreen); slices.Contains(filter.EvergreenChoices, v) {
		sel.Evergreen = v
	}
	sel.InsectFriendly = form.Get(render.FieldInsects) != ""
	return sel
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// PlantsResponse is the JSON body of GET /api/plants.
type PlantsResponse struct {
	Columns []string `json:"columns"`
	// Count is the number of records matching the selection.
	Count int `json:"count"`
	// Total is the number of records in the unfiltered table.
	Total   int           `json:"total"`
	Records []PlantRecord `json:"records"`
}

// PlantRecord is one record of PlantsResponse. Missing values are null.
type PlantRecord struct {
	Index  int                `json:"index"`
	Fields map[string]*string `json:"fields"`
}

// Plants handles GET /api/plants and returns the records matching the
// session's selection.
func (h *CatalogHandler) Plants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.GetSessionFromContext(ctx)
	view, err := h.Catalog.Browse(ctx, sess.Filters)
	if err != nil {
		h.Logger.Warn("plant table unavailable", zap.Error(err))
	}

	resp := PlantsResponse{
		Columns: view.Filtered.Columns,
		Count:   view.Filtered.Len(),
		Total:   view.All.Len(),
		Records: make([]PlantRecord, 0, view.Filtered.Len()),
	}
	for _, rec := range view.Filtered.Records {
		pr := PlantRecord{Index: rec.Index, Fields: make(map[string]*string, len(resp.Columns))}
		for _, col := range resp.Columns {
			if c := rec.Get(col); c.Valid {
				v := c.Value
				pr.Fields[col] = &v
			} else {
				pr.Fields[col] = nil
			}
		}
		resp.Records = append(resp.Records, pr)
	}
	writeJSON(w, resp)
}

// Options handles GET /api/options.
func (h *CatalogHandler) Options(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.Catalog.Browse(ctx, models.NewFilterSelection())
	if err != nil {
		h.Logger.Warn("plant table unavailable", zap.Error(err))
	}
	writeJSON(w, view.Options)
}

// SessionResponse is the JSON body of GET /api/session.
type SessionResponse struct {
	Username  string                 `json:"username"`
	Role      models.Role            `json:"role"`
	CanExport bool                   `json:"can_export"`
	Filters   models.FilterSelection `json:"filters"`
}

// Session handles GET /api/session.
func (h *CatalogHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, SessionResponse{
		Username:  sess.Username,
		Role:      sess.Role,
		CanExport: sess.CanExport(),
		Filters:   sess.Filters,
	})
}

// Image handles GET /images/{index} and serves the record's local image.
func (h *CatalogHandler) Image(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	path, err := h.Catalog.ImagePath(r.Context(), index)
	if errors.Is(err, service.ErrNoImage) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Logger.Warn("image lookup failed", zap.Int("index", index), zap.Error(err))
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// Logo handles GET /logo.
func (h *CatalogHandler) Logo(w http.ResponseWriter, r *http.Request) {
	path, ok := h.Catalog.Logo()
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
