package draft

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/repository/kv"
	"quill/internal/repository/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, store *memory.Store) *Service {
	t.Helper()
	tm := kv.NewTransactionManager(store)
	svc := NewService(kv.NewDraftRepository(tm, kv.Namespace("quill_test:"), discardLogger()), discardLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestValidateToolID(t *testing.T) {
	tests := []struct {
		name    string
		toolID  string
		wantErr bool
	}{
		{name: "simple", toolID: "cv-builder"},
		{name: "underscore", toolID: "blog_post2"},
		{name: "empty", toolID: "", wantErr: true},
		{name: "separator", toolID: "cv:builder", wantErr: true},
		{name: "leading dash", toolID: "-cv", wantErr: true},
		{name: "too long", toolID: strings.Repeat("a", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToolID(tt.toolID)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_SaveLoad(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.New(0))

	got, err := svc.Load(ctx, "cv-builder")
	require.NoError(t, err)
	assert.Nil(t, got, "a tool without a draft starts empty")

	saved, err := svc.Save(ctx, &models.Draft{
		ToolID:     "cv-builder",
		FormValues: models.FormValues{"name": models.TextValue("Ada")},
		Content:    "<p>v1</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), saved.SavedAt)

	_, err = svc.Save(ctx, &models.Draft{ToolID: "cv-builder", Content: "<p>v2</p>"})
	require.NoError(t, err)

	got, err = svc.Load(ctx, "cv-builder")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "<p>v2</p>", got.Content, "last write wins")
	assert.Empty(t, got.FormValues)
}

func TestService_ToolsDoNotBleed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.New(0))

	_, err := svc.Save(ctx, &models.Draft{ToolID: "cv-builder", Content: "cv"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, &models.Draft{ToolID: "cv-builder-pro", Content: "pro"})
	require.NoError(t, err)

	got, err := svc.Load(ctx, "cv-builder")
	require.NoError(t, err)
	assert.Equal(t, "cv", got.Content)

	other, err := svc.Load(ctx, "blog-post")
	require.NoError(t, err)
	assert.Nil(t, other)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_SaveStorageFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	svc := newTestService(t, store)

	_, err := svc.Save(ctx, &models.Draft{ToolID: "cv-builder", Content: "kept"})
	require.NoError(t, err)

	store.FailWrites = true
	_, err = svc.Save(ctx, &models.Draft{ToolID: "cv-builder", Content: "lost"})
	require.Error(t, err)
	assert.Equal(t, domain.KindStorage, domain.Classify(err))

	store.FailWrites = false
	got, err := svc.Load(ctx, "cv-builder")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Content)
}

func TestService_SaveRejectsInvalid(t *testing.T) {
	svc := newTestService(t, memory.New(0))

	_, err := svc.Save(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Save(context.Background(), &models.Draft{ToolID: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
