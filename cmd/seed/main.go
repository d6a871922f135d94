package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"quill/internal/config"
	"quill/internal/repository"
	"quill/internal/repository/kv"
	"quill/internal/seed"
	serviceDocsys "quill/internal/service/docsystem"
	"quill/internal/service/docsystem/converter"
	"quill/internal/service/draft"
	"quill/internal/service/llm/tools"
)

func main() {
	// Parse command-line flags
	clearData := flag.Bool("clear-data", false, "Clear all documents, folders, drafts and the profile, then exit")
	keepData := flag.Bool("keep-data", false, "Seed on top of existing data instead of clearing it first")
	flag.Parse()

	if *clearData && *keepData {
		log.Fatalf("--clear-data and --keep-data are mutually exclusive")
	}

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && !*keepData {
		log.Fatalf("BLOCKED: clearing data is not allowed in production, pass --keep-data to seed without clearing")
	}
	if cfg.StorageDriver == "memory" {
		log.Fatalf("STORAGE_DRIVER=memory does not persist, nothing to seed")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding storage (environment: %s, driver: %s, namespace: %s)", cfg.Environment, cfg.StorageDriver, cfg.StorageNS)

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() { _ = store.Close() }() // Error ignored: command exiting

	// Create repositories
	txManager := kv.NewTransactionManager(store)
	ns := kv.Namespace(cfg.StorageNS)
	docRepo := kv.NewDocumentRepository(txManager, ns, logger)
	folderRepo := kv.NewFolderRepository(txManager, ns, logger)
	draftRepo := kv.NewDraftRepository(txManager, ns, logger)
	profileRepo := kv.NewProfileRepository(txManager, ns)

	catalog, err := tools.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load tool catalog: %v", err)
	}

	// Create services
	seeder := seed.NewSeeder(
		serviceDocsys.NewDocumentService(docRepo, folderRepo, txManager, converter.NewConverterRegistry(), catalog, logger),
		serviceDocsys.NewFolderService(folderRepo, docRepo, txManager, logger),
		draft.NewService(draftRepo, logger),
		serviceDocsys.NewImportService(docRepo, folderRepo, draftRepo, profileRepo, txManager, logger),
		logger,
	)

	if !*keepData {
		log.Println("Clearing existing data...")
		if err := seeder.Clear(ctx); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
	}

	// Exit early if clear-data mode (just clear and exit)
	if *clearData {
		log.Println("Data cleared successfully")
		return
	}

	summary, err := seeder.Seed(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeding complete: %d folders, %d documents, %d drafts", summary.Folders, summary.Documents, summary.Drafts)
}
