package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"quill/internal/auth"
	"quill/internal/capabilities"
	"quill/internal/config"
	"quill/internal/domain/services"
	"quill/internal/handler"
	"quill/internal/handler/sse"
	"quill/internal/middleware"
	"quill/internal/repository"
	"quill/internal/repository/kv"
	"quill/internal/service"
	serviceDocsys "quill/internal/service/docsystem"
	"quill/internal/service/docsystem/converter"
	"quill/internal/service/docsystem/converter/sanitizer"
	"quill/internal/service/draft"
	serviceLLM "quill/internal/service/llm"
	"quill/internal/service/llm/generation"
	"quill/internal/service/llm/tools"
	"quill/internal/service/usage"
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

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "quill", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage_driver", cfg.StorageDriver,
		"storage_namespace", cfg.StorageNS,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Token verification is optional: without a JWKS URL the service runs
	// as a single-user local backend
	var verifier auth.TokenVerifier
	if cfg.AuthJWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(ctx, cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
		defer jwksVerifier.Close()
		verifier = jwksVerifier
	}

	// Persistence medium
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	// Create repositories
	txManager := kv.NewTransactionManager(store)
	ns := kv.Namespace(cfg.StorageNS)
	docRepo := kv.NewDocumentRepository(txManager, ns, logger)
	folderRepo := kv.NewFolderRepository(txManager, ns, logger)
	draftRepo := kv.NewDraftRepository(txManager, ns, logger)
	profileRepo := kv.NewProfileRepository(txManager, ns)

	// Tool catalog and model capabilities
	catalog, err := tools.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load tool catalog: %v", err)
	}
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("catalogs loaded",
		"tools", len(catalog.List()),
		"providers", capabilityRegistry.GetAllProviders(),
	)

	// Profile and usage gate
	profileService := service.NewProfileService(profileRepo, logger)

	var entitlements services.EntitlementSource
	if cfg.BillingURL != "" {
		entitlements = usage.NewBillingClient(cfg.BillingURL, cfg.BillingAPIKey)
	} else {
		logger.Warn("BILLING_URL not set, usage gate fails open")
	}
	gate := usage.NewGate(entitlements, cfg.EntitlementTTL, logger)
	gate.OnPlanChange = profileService.SetPlan
	go gate.Run(ctx, cfg.EntitlementTTL/2)

	// Generation backend
	providerFactory := serviceLLM.NewProviderFactory(cfg)
	modelInfo, err := providerFactory.Resolve()
	if err != nil {
		log.Fatalf("Failed to resolve generation model: %v", err)
	}
	backend, err := providerFactory.GetBackend(modelInfo.Provider)
	if err != nil {
		log.Fatalf("Failed to set up generation backend: %v", err)
	}
	logger.Info("generation backend ready",
		"provider", modelInfo.Provider,
		"model", modelInfo.Model,
		"max_output", capabilityRegistry.MaxOutput(modelInfo.Provider, modelInfo.Model),
	)

	htmlSanitizer := sanitizer.NewHTMLSanitizer()
	payloadBuilder := tools.NewPayloadBuilder(catalog, capabilityRegistry, profileService, modelInfo.Provider, modelInfo.Model)
	controller := generation.NewController(payloadBuilder, backend, gate, htmlSanitizer, generation.Options{
		RPS:     cfg.GenerationRPS,
		Burst:   cfg.GenerationBurst,
		Timeout: cfg.GenerationTimeout,
	}, logger)

	// Create document services
	contentAnalyzer := serviceDocsys.NewContentAnalyzer()
	docService := serviceDocsys.NewDocumentService(docRepo, folderRepo, txManager, converter.NewConverterRegistry(), catalog, logger)
	folderService := serviceDocsys.NewFolderService(folderRepo, docRepo, txManager, logger)
	importService := serviceDocsys.NewImportService(docRepo, folderRepo, draftRepo, profileRepo, txManager, logger)

	// Drafts
	draftService := draft.NewService(draftRepo, logger)
	autosaver := draft.NewAutosaver(draftService, cfg.DraftDebounce, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, &handler.Handlers{
		Documents:  handler.NewDocumentHandler(docService, contentAnalyzer, gate, htmlSanitizer, logger),
		Folders:    handler.NewFolderHandler(folderService, logger),
		Drafts:     handler.NewDraftHandler(draftService, autosaver, logger),
		Generation: handler.NewGenerationHandler(catalog, controller, sse.NewConfig(cfg.SSEKeepAlive), logger),
		Usage:      handler.NewUsageHandler(gate, logger),
		Profile:    handler.NewProfileHandler(profileService, logger),
		Import:     handler.NewImportHandler(importService, autosaver, logger),
		Models:     handler.NewModelsHandler(capabilityRegistry, modelInfo.Provider, modelInfo.Model, logger),
	})

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(verifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// Abort generations first so open SSE streams end promptly
	controller.CancelAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	// Pending drafts are written before storage closes
	autosaver.Stop()
	logger.Info("server stopped")
}
