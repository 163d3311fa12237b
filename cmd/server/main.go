// Package main initializes and starts the GreenFacade catalog server,
// setting up configuration, logging, the credential source, repositories,
// services, handlers, and optional TLS.
package main

import (
	"cmp"
	"database/sql"
	"fmt"
	"net"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/GreenFacade/internal/certgen"
	"github.com/atinyakov/GreenFacade/internal/config"
	"github.com/atinyakov/GreenFacade/internal/db"
	"github.com/atinyakov/GreenFacade/internal/logger"
	"github.com/atinyakov/GreenFacade/internal/repository"
	"github.com/atinyakov/GreenFacade/internal/server/handler/http"
	"github.com/atinyakov/GreenFacade/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Credentials come from PostgreSQL when configured, otherwise from the
	// built-in account table.
	var credentials service.CredentialProvider = repository.NewDefaultCredentialRepository()
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer func(d *sql.DB) { _ = d.Close() }(postgresDB)
		credentials = repository.NewPostgresCredentialRepository(postgresDB)
		zapLogger.Info("using database credentials")
	}

	// Initialize repositories and business-logic services.
	plantRepo := repository.NewCSVPlantRepository(options.DataFile)
	sessionRepo := repository.NewMemorySessionRepository()
	authService := service.NewAuthService(credentials)
	catalogService := service.NewCatalogService(plantRepo, options.LogoPaths...)

	// Create HTTP handlers and build the router.
	router := http.NewRouter(
		&http.AuthHandler{AuthService: authService, Sessions: sessionRepo, Logger: zapLogger},
		&http.CatalogHandler{Catalog: catalogService, Sessions: sessionRepo, Logger: zapLogger},
		&http.ExportHandler{Catalog: catalogService, Logger: zapLogger},
		sessionRepo,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if options.TLSCert == "" || options.TLSKey == "" {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr), zap.String("data", options.DataFile))
		if err := server.ListenAndServe(); err != nil {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
		return
	}

	if options.TLSSelfSigned {
		created, err := certgen.EnsureServerCertificate(options.TLSCert, options.TLSKey, certHosts(options.Addr))
		if err != nil {
			zapLogger.Fatal("failed to create self-signed certificate", zap.Error(err))
		}
		if created {
			zapLogger.Info("self-signed certificate written", zap.String("cert", options.TLSCert))
		}
	}

	zapLogger.Info("starting HTTPS server", zap.String("addr", options.Addr), zap.String("data", options.DataFile))
	if err := server.ListenAndServeTLS(options.TLSCert, options.TLSKey); err != nil {
		zapLogger.Fatal("failed to start HTTPS server", zap.Error(err))
	}
}

// certHosts lists the names a self-signed certificate is issued for.
func certHosts(addr string) []string {
	hosts := []string{"localhost", "127.0.0.1"}
	if h, _, err := net.SplitHostPort(addr); err == nil && h != "" && h != "localhost" && h != "127.0.0.1" {
		hosts = append(hosts, h)
	}
	return hosts
}
