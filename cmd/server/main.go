package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/sspedowski/justice-document-pip-sub000/internal/auth"
	"github.com/sspedowski/justice-document-pip-sub000/internal/config"
	"github.com/sspedowski/justice-document-pip-sub000/internal/handler"
	"github.com/sspedowski/justice-document-pip-sub000/internal/metrics"
	"github.com/sspedowski/justice-document-pip-sub000/internal/middleware"
	"github.com/sspedowski/justice-document-pip-sub000/internal/pdfextract"
	"github.com/sspedowski/justice-document-pip-sub000/internal/repository/postgres"
	"github.com/sspedowski/justice-document-pip-sub000/internal/service"
	"github.com/sspedowski/justice-document-pip-sub000/internal/service/analysis"
	"github.com/sspedowski/justice-document-pip-sub000/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// In dev, mirror logs to a timestamped file (10 most recent kept)
	var logOut io.Writer = os.Stdout
	if cfg.Environment == "dev" {
		if f, err := config.SetupLogFile("logs", 10); err == nil {
			defer f.Close()
			logOut = io.MultiWriter(os.Stdout, f)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Load analysis configuration (watchlists, vocabularies, thresholds)
	analysisCfg, err := analysis.LoadConfig(cfg.AnalysisConfigPath)
	if err != nil {
		log.Fatalf("Failed to load analysis config: %v", err)
	}

	// Create JWT verifier. Dev with no JWKS URL runs with auth disabled.
	var jwtVerifier auth.JWTVerifier
	if cfg.Environment == "dev" && cfg.JWKSURL == "" {
		logger.Warn("no JWKS URL configured, authentication disabled")
	} else {
		v, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer v.Close()
		jwtVerifier = v
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create blob store for original file bytes
	blobs, err := storage.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Create services
	extractor := pdfextract.New()
	ingestService := service.NewIngestService(docRepo, versionRepo, txManager, extractor, blobs, analysisCfg, logger)
	docService := service.NewDocumentService(docRepo, versionRepo, txManager, logger)
	analysisService := analysis.NewService(docRepo, versionRepo, analysisCfg, logger)

	m := metrics.New()

	// Create handlers
	docHandler := handler.NewDocumentHandler(ingestService, docService, m, logger)
	analysisHandler := handler.NewAnalysisHandler(analysisService, m, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.UploadDocument)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("GET /api/documents/{id}/versions", docHandler.GetVersions)

	// Analysis routes
	mux.HandleFunc("POST /api/analysis/run", analysisHandler.RunAnalysis)
	mux.HandleFunc("GET /api/analysis/report", analysisHandler.GetReport)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Metrics -> Recovery -> Auth -> Routes
	h = middleware.Auth(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Metrics(m)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Prometheus endpoint sits outside the auth chain
	root := http.NewServeMux()
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
