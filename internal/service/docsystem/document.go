package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quill/internal/config"
	"quill/internal/domain"
	models "quill/internal/domain/models/docsystem"
	"quill/internal/domain/repositories"
	docsysRepo "quill/internal/domain/repositories/docsystem"
	docsysSvc "quill/internal/domain/services/docsystem"
	"quill/internal/service/docsystem/converter"
)

// ToolCatalog resolves display names and output formats of generator tools.
// Unknown tool ids return "".
type ToolCatalog interface {
	ToolName(toolID string) string
	OutputFormat(toolID string) string
}

// documentService implements the DocumentService interface
type documentService struct {
	docRepo    docsysRepo.DocumentRepository
	folderRepo docsysRepo.FolderRepository
	txManager  repositories.TransactionManager
	converters *converter.ConverterRegistry
	tools      ToolCatalog
	logger     *slog.Logger
	now        func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo docsysRepo.DocumentRepository,
	folderRepo docsysRepo.FolderRepository,
	txManager repositories.TransactionManager,
	converters *converter.ConverterRegistry,
	tools ToolCatalog,
	logger *slog.Logger,
) docsysSvc.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		converters: converters,
		tools:      tools,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateDocument creates a new document. A blank title falls back to the
// tool name and today's date.
func (s *documentService) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	req.Tags = models.NormalizeTags(req.Tags)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now().UTC()
	doc := models.Document{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Content:      req.Content,
		TemplateID:   req.ToolID,
		FolderID:     req.FolderID,
		Tags:         req.Tags,
		LastModified: now,
		Versions:     []models.Version{},
	}
	if doc.Title == "" {
		doc.Title = s.defaultTitle(req.ToolID, now)
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureFolder(txCtx, doc.FolderID); err != nil {
			return err
		}
		return s.docRepo.Mutate(txCtx, func(docs []models.Document) ([]models.Document, error) {
			return append(docs, doc), nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"tool_id", doc.TemplateID,
		"title", doc.Title,
	)

	return &doc, nil
}

// SaveDocument upserts by id. Title, content, template, folder and tags come
// from the caller. Versions and trash state are owned by the store and are
// carried over from the stored record.
func (s *documentService) SaveDocument(ctx context.Context, input *models.Document) (*models.Document, error) {
	incoming := input.Clone()
	incoming.Title = strings.TrimSpace(incoming.Title)
	incoming.Tags = models.NormalizeTags(incoming.Tags)
	if incoming.FolderID != nil && *incoming.FolderID == "" {
		incoming.FolderID = nil
	}
	if incoming.ID == "" {
		incoming.ID = uuid.NewString()
	}

	if err := s.validateDocument(&incoming); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now().UTC()
	var saved models.Document
	created := false

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureFolder(txCtx, incoming.FolderID); err != nil {
			return err
		}
		return s.docRepo.Mutate(txCtx, func(docs []models.Document) ([]models.Document, error) {
			i := indexOf(docs, incoming.ID)
			if i == -1 {
				created = true
				incoming.Versions = []models.Version{}
				incoming.DeletedAt = nil
				incoming.LastModified = now
				if incoming.Title == "" {
					incoming.Title = s.defaultTitle(incoming.TemplateID, now)
				}
				saved = incoming
				return append(docs, incoming), nil
			}

			doc := &docs[i]
			if incoming.Title != "" {
				doc.Title = incoming.Title
			}
			if incoming.TemplateID != "" {
				doc.TemplateID = incoming.TemplateID
			}
			doc.FolderID = incoming.FolderID
			doc.Tags = incoming.Tags
			s.setContent(doc, incoming.Content)
			doc.LastModified = now

			saved = doc.Clone()
			return docs, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	s.logger.Info("document saved",
		"id", saved.ID,
		"created", created,
		"versions", len(saved.Versions),
	)

	return &saved, nil
}

// UpdateDocument applies a partial update
func (s *documentService) UpdateDocument(ctx context.Context, id string, req *docsysSvc.UpdateDocumentRequest) (*models.Document, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if req.Tags != nil {
		tags := models.NormalizeTags(*req.Tags)
		req.Tags = &tags
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var folderID *string
	if req.FolderID != nil && *req.FolderID != "" {
		folderID = req.FolderID
	}

	now := s.now().UTC()
	var updated models.Document

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if req.FolderID != nil {
			if err := s.ensureFolder(txCtx, folderID); err != nil {
				return err
			}
		}
		return s.mutateOne(txCtx, id, func(doc *models.Document) error {
			if req.Title != nil {
				doc.Title = *req.Title
			}
			if req.Tags != nil {
				doc.Tags = *req.Tags
			}
			if req.FolderID != nil {
				doc.FolderID = folderID
			}
			if req.Content != nil {
				s.setContent(doc, *req.Content)
			}
			doc.LastModified = now
			updated = doc.Clone()
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	s.logger.Info("document updated",
		"id", id,
		"versions", len(updated.Versions),
	)

	return &updated, nil
}

// GetDocument retrieves a document, active or trashed
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	i := indexOf(docs, id)
	if i == -1 {
		return nil, notFound(id)
	}

	doc := docs[i].Clone()
	return &doc, nil
}

// DeleteDocument moves a document to the trash. Deleting a trashed document is a no-op.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	now := s.now().UTC()
	err := s.mutateOne(ctx, id, func(doc *models.Document) error {
		if doc.DeletedAt == nil {
			doc.DeletedAt = &now
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	s.logger.Info("document moved to trash", "id", id)
	return nil
}

// RestoreDocument clears deleted_at
func (s *documentService) RestoreDocument(ctx context.Context, id string) (*models.Document, error) {
	var restored models.Document
	err := s.mutateOne(ctx, id, func(doc *models.Document) error {
		doc.DeletedAt = nil
		restored = doc.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restore document: %w", err)
	}

	s.logger.Info("document restored", "id", id)
	return &restored, nil
}

// HardDeleteDocument removes the record and its history. Irreversible.
func (s *documentService) HardDeleteDocument(ctx context.Context, id string) error {
	err := s.docRepo.Mutate(ctx, func(docs []models.Document) ([]models.Document, error) {
		i := indexOf(docs, id)
		if i == -1 {
			return nil, notFound(id)
		}
		return slices.Delete(docs, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("hard delete document: %w", err)
	}

	s.logger.Info("document permanently deleted", "id", id)
	return nil
}

// DuplicateDocument clones a document under a new id. The copy has no
// history, is active, and its title carries the copy suffix.
func (s *documentService) DuplicateDocument(ctx context.Context, id string) (*models.Document, error) {
	now := s.now().UTC()
	var copied models.Document

	err := s.docRepo.Mutate(ctx, func(docs []models.Document) ([]models.Document, error) {
		i := indexOf(docs, id)
		if i == -1 {
			return nil, notFound(id)
		}

		copied = docs[i].Clone()
		copied.ID = uuid.NewString()
		copied.Title = truncate(copied.Title, config.MaxTitleLength-len(config.CopyTitleSuffix)) + config.CopyTitleSuffix
		copied.Versions = []models.Version{}
		copied.DeletedAt = nil
		copied.LastModified = now

		return append(docs, copied), nil
	})
	if err != nil {
		return nil, fmt.Errorf("duplicate document: %w", err)
	}

	s.logger.Info("document duplicated", "source_id", id, "id", copied.ID)
	return &copied, nil
}

// MoveToFolder assigns folderID, or removes the folder when it is nil or ""
func (s *documentService) MoveToFolder(ctx context.Context, id string, folderID *string) (*models.Document, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	now := s.now().UTC()
	var moved models.Document

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureFolder(txCtx, folderID); err != nil {
			return err
		}
		return s.mutateOne(txCtx, id, func(doc *models.Document) error {
			doc.FolderID = folderID
			doc.LastModified = now
			moved = doc.Clone()
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("move document: %w", err)
	}

	s.logger.Info("document moved", "id", id, "folder_id", folderID)
	return &moved, nil
}

// EmptyTrash hard-deletes every trashed document
func (s *documentService) EmptyTrash(ctx context.Context) (int, error) {
	removed := 0
	err := s.docRepo.Mutate(ctx, func(docs []models.Document) ([]models.Document, error) {
		kept := docs[:0]
		for _, doc := range docs {
			if doc.IsDeleted() {
				removed++
				continue
			}
			kept = append(kept, doc)
		}
		return kept, nil
	})
	if err != nil {
		return 0, fmt.Errorf("empty trash: %w", err)
	}

	s.logger.Info("trash emptied", "removed", removed)
	return removed, nil
}

// ListDocuments returns documents matching filter. A nil filter lists active documents.
func (s *documentService) ListDocuments(ctx context.Context, filter *models.DocumentFilter) ([]models.Document, error) {
	if filter == nil {
		filter = &models.DocumentFilter{Scope: models.ScopeActive}
	}

	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return filter.Apply(docs), nil
}

// ExportMarkdown renders a document as Markdown using the converter for
// its tool's output format. Unknown tools are treated as HTML, which also
// passes plain text through unchanged apart from entity decoding.
func (s *documentService) ExportMarkdown(ctx context.Context, id string) (string, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}

	format := "html"
	if s.tools != nil {
		if f := s.tools.OutputFormat(doc.TemplateID); f != "" {
			format = f
		}
	}

	markdown, err := s.converters.Convert(ctx, format, doc.Content)
	if err != nil {
		return "", fmt.Errorf("export markdown: %w", err)
	}

	return "# " + doc.Title + "\n\n" + strings.TrimSpace(markdown) + "\n", nil
}

// setContent pushes the stored content onto the history when it changes
func (s *documentService) setContent(doc *models.Document, content string) {
	if content == doc.Content {
		return
	}
	doc.PushVersion(doc.Content, doc.LastModified, config.MaxVersionHistory-1)
	doc.Content = content
}

// mutateOne applies fn to the document with id inside a read-modify-write cycle
func (s *documentService) mutateOne(ctx context.Context, id string, fn func(doc *models.Document) error) error {
	return s.docRepo.Mutate(ctx, func(docs []models.Document) ([]models.Document, error) {
		i := indexOf(docs, id)
		if i == -1 {
			return nil, notFound(id)
		}
		if err := fn(&docs[i]); err != nil {
			return nil, err
		}
		return docs, nil
	})
}

// ensureFolder checks that folderID refers to an existing folder. nil is always valid.
func (s *documentService) ensureFolder(ctx context.Context, folderID *string) error {
	if folderID == nil {
		return nil
	}

	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, folder := range folders {
		if folder.ID == *folderID {
			return nil
		}
	}
	return fmt.Errorf("%w: folder %s does not exist", domain.ErrValidation, *folderID)
}

// defaultTitle builds "<Tool Name> <date>"
func (s *documentService) defaultTitle(toolID string, now time.Time) string {
	name := ""
	if s.tools != nil {
		name = s.tools.ToolName(toolID)
	}
	if name == "" {
		name = strings.NewReplacer("-", " ", "_", " ").Replace(toolID)
	}
	if strings.TrimSpace(name) == "" {
		name = "untitled document"
	}

	name = cases.Title(language.English).String(strings.TrimSpace(name))
	return name + " " + now.Format("Jan 2, 2006")
}

func (s *documentService) validateCreateRequest(req *docsysSvc.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&req.ToolID, validation.Length(0, config.MaxToolIDLength)),
		validation.Field(&req.Tags, tagRules()...),
	)
}

func (s *documentService) validateDocument(doc *models.Document) error {
	return validation.ValidateStruct(doc,
		validation.Field(&doc.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&doc.TemplateID, validation.Length(0, config.MaxToolIDLength)),
		validation.Field(&doc.Tags, tagRules()...),
	)
}

func (s *documentService) validateUpdateRequest(req *docsysSvc.UpdateDocumentRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
	)
	if err != nil || req.Tags == nil {
		return err
	}
	if err := validation.Validate(*req.Tags, tagRules()...); err != nil {
		return validation.Errors{"tags": err}
	}
	return nil
}

func tagRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(0, config.MaxTags),
		validation.Each(validation.Length(1, config.MaxTagLength)),
	}
}

func indexOf(docs []models.Document, id string) int {
	return slices.IndexFunc(docs, func(d models.Document) bool { return d.ID == id })
}

func notFound(id string) error {
	return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

// truncate cuts s to at most max bytes without splitting a rune
func truncate(s string, max int) string {
	for len(s) > max {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}
