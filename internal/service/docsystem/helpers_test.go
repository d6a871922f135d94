package docsystem

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"quill/internal/domain/repositories"
	docsysRepo "quill/internal/domain/repositories/docsystem"
	docsysSvc "quill/internal/domain/services/docsystem"
	"quill/internal/repository/kv"
	"quill/internal/repository/memory"
	"quill/internal/service/docsystem/converter"
)

type fakeCatalog map[string][2]string // id -> {name, format}

func (c fakeCatalog) ToolName(id string) string     { return c[id][0] }
func (c fakeCatalog) OutputFormat(id string) string { return c[id][1] }

type testEnv struct {
	store      *memory.Store
	tm         *kv.TransactionManager
	docRepo    docsysRepo.DocumentRepository
	folderRepo docsysRepo.FolderRepository
	draftRepo  repositories.DraftRepository
	profile    repositories.ProfileRepository
	docs       *documentService
	folders    docsysSvc.FolderService
	imports    docsysSvc.ImportService
	clock      *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New(0)
	tm := kv.NewTransactionManager(store)
	ns := kv.Namespace("quill_test:")

	env := &testEnv{
		store:      store,
		tm:         tm,
		docRepo:    kv.NewDocumentRepository(tm, ns, logger),
		folderRepo: kv.NewFolderRepository(tm, ns, logger),
		draftRepo:  kv.NewDraftRepository(tm, ns, logger),
		profile:    kv.NewProfileRepository(tm, ns),
		clock:      &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)},
	}

	catalog := fakeCatalog{
		"cv-builder": {"CV builder", "html"},
		"blog-post":  {"Blog post", "markdown"},
	}

	env.docs = NewDocumentService(env.docRepo, env.folderRepo, tm, converter.NewConverterRegistry(), catalog, logger).(*documentService)
	env.docs.now = env.clock.Now

	folders := NewFolderService(env.folderRepo, env.docRepo, tm, logger)
	folders.(*folderService).now = env.clock.Now
	env.folders = folders

	imports := NewImportService(env.docRepo, env.folderRepo, env.draftRepo, env.profile, tm, logger)
	imports.(*importService).now = env.clock.Now
	env.imports = imports

	return env
}
