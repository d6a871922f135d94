package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/domain/models"
	"quill/internal/domain/services"
	docsysSvc "quill/internal/domain/services/docsystem"
)

// Seeder fills a store with sample folders, documents and drafts
type Seeder struct {
	documents docsysSvc.DocumentService
	folders   docsysSvc.FolderService
	drafts    services.DraftService
	importer  docsysSvc.ImportService
	logger    *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	documents docsysSvc.DocumentService,
	folders docsysSvc.FolderService,
	drafts services.DraftService,
	importer docsysSvc.ImportService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		documents: documents,
		folders:   folders,
		drafts:    drafts,
		importer:  importer,
		logger:    logger,
	}
}

// Summary counts what Seed created
type Summary struct {
	Folders   int
	Documents int
	Drafts    int
}

// Clear removes every document, folder, draft and the profile by importing
// an empty snapshot.
func (s *Seeder) Clear(ctx context.Context) error {
	empty, err := json.Marshal(models.Snapshot{
		FormatVersion: models.SnapshotFormatVersion,
		ExportedAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if _, err := s.importer.Import(ctx, empty); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	s.logger.Info("data cleared")
	return nil
}

// Seed creates the sample data set. Documents that fail to create are
// logged and skipped.
func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	folderIDs := make(map[string]string, len(sampleFolders))
	for _, name := range sampleFolders {
		folder, err := s.folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{Name: name})
		if err != nil {
			return summary, fmt.Errorf("create folder %q: %w", name, err)
		}
		folderIDs[name] = folder.ID
		summary.Folders++
	}

	for _, sample := range sampleDocuments {
		req := &docsysSvc.CreateDocumentRequest{
			Title:   sample.title,
			Content: sample.content,
			ToolID:  sample.toolID,
			Tags:    sample.tags,
		}
		if sample.folder != "" {
			id := folderIDs[sample.folder]
			req.FolderID = &id
		}

		doc, err := s.documents.CreateDocument(ctx, req)
		if err != nil {
			s.logger.Warn("failed to seed document", "title", sample.title, "error", err)
			continue
		}
		summary.Documents++
		s.logger.Debug("document seeded", "id", doc.ID, "title", doc.Title)
	}

	for _, draft := range sampleDrafts() {
		if _, err := s.drafts.Save(ctx, draft); err != nil {
			return summary, fmt.Errorf("save draft %q: %w", draft.ToolID, err)
		}
		summary.Drafts++
	}

	s.logger.Info("seeding complete",
		"folders", summary.Folders,
		"documents", summary.Documents,
		"drafts", summary.Drafts,
	)
	return summary, nil
}
