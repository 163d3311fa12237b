package http

import (
	"net/http"

	"github.com/atinyakov/GreenFacade/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler of the catalog browser.
//
// Routes:
//
//	GET  /login          → authHandler.LoginForm
//	POST /login          → authHandler.Login
//	POST /logout         → authHandler.Logout
//	GET  /logo           → catalogHandler.Logo
//	GET  /               → catalogHandler.Index          (login required)
//	POST /filters        → catalogHandler.ApplyFilters   (login required)
//	POST /filters/reset  → catalogHandler.ResetFilters   (login required)
//	GET  /images/{index} → catalogHandler.Image          (login required)
//	GET  /api/plants     → catalogHandler.Plants         (login required)
//	GET  /api/options    → catalogHandler.Options        (login required)
//	GET  /api/session    → catalogHandler.Session        (login required)
//	GET  /export/xlsx    → exportHandler.Spreadsheet     (full role)
//	GET  /export/pdf     → exportHandler.Report          (full role)
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. Recoverer
//  3. WithRequestLogging(logger)
//  4. WithSession(sessions, logger)
func NewRouter(
	authHandler *AuthHandler,
	catalogHandler *CatalogHandler,
	exportHandler *ExportHandler,
	sessions middleware.SessionStore,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithSession(sessions, logger))

	// Public endpoints
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Get("/logo", catalogHandler.Logo)

	// Protected group: requires an authenticated session
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)

		r.Get("/", catalogHandler.Index)
		r.Post("/filters", catalogHandler.ApplyFilters)
		r.Post("/filters/reset", catalogHandler.ResetFilters)
		r.Get("/images/{index}", catalogHandler.Image)

		r.Route("/api", func(r chi.Router) {
			r.Get("/plants", catalogHandler.Plants)
			r.Get("/options", catalogHandler.Options)
			r.Get("/session", catalogHandler.Session)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.RequireExport)
			r.Get("/xlsx", exportHandler.Spreadsheet)
			r.Get("/pdf", exportHandler.Report)
		})
	})

	return r
}
