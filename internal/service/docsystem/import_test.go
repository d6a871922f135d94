package docsystem

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models"
	docsysSvc "quill/internal/domain/services/docsystem"
)

func seedEnv(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()

	folder, err := env.folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{Name: "Jobs"})
	require.NoError(t, err)

	doc, err := env.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{Title: "CV", Content: "v1", FolderID: &folder.ID, Tags: []string{"cv"}})
	require.NoError(t, err)
	doc.Content = "v2"
	_, err = env.docs.SaveDocument(ctx, doc)
	require.NoError(t, err)

	trashed, err := env.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{Title: "Old"})
	require.NoError(t, err)
	require.NoError(t, env.docs.DeleteDocument(ctx, trashed.ID))

	require.NoError(t, env.draftRepo.Put(ctx, &models.Draft{
		ToolID: "cv-builder",
		FormValues: models.FormValues{
			"name":       models.TextValue("Ada"),
			"years":      models.NumberValue(7),
			"experience": models.GroupValue(models.FormValues{"company": models.TextValue("ACME")}),
		},
		Content: "<p>draft</p>",
	}))

	profile := &models.Profile{DisplayName: "Ada", Plan: models.PlanFree}
	require.NoError(t, profile.SetGeneration(&models.GenerationPreferences{AccentColor: "#2563eb"}))
	require.NoError(t, env.profile.Put(ctx, profile))
}

func TestImport_RoundTripIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedEnv(t, env)

	exported, err := env.imports.Export(ctx)
	require.NoError(t, err)

	rawBefore := map[string]string{}
	keys, err := env.store.Keys(ctx, "")
	require.NoError(t, err)
	for _, key := range keys {
		value, err := env.store.Get(ctx, key)
		require.NoError(t, err)
		rawBefore[key] = string(value)
	}

	result, err := env.imports.Import(ctx, exported)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Documents)
	assert.Equal(t, 1, result.Folders)
	assert.Equal(t, 1, result.Drafts)
	assert.True(t, result.Profile)

	keys, err = env.store.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, len(rawBefore))
	for _, key := range keys {
		value, err := env.store.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, rawBefore[key], string(value), key)
	}
}

func TestImport_ReplacesState(t *testing.T) {
	source := newTestEnv(t)
	seedEnv(t, source)
	exported, err := source.imports.Export(context.Background())
	require.NoError(t, err)

	target := newTestEnv(t)
	ctx := context.Background()
	_, err = target.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{Title: "Will be replaced"})
	require.NoError(t, err)
	require.NoError(t, target.draftRepo.Put(ctx, &models.Draft{ToolID: "translator"}))

	_, err = target.imports.Import(ctx, exported)
	require.NoError(t, err)

	docs, err := target.docRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	drafts, err := target.draftRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "cv-builder", drafts[0].ToolID)
	assert.Equal(t, "ACME", drafts[0].FormValues["experience"].Group[0]["company"].Text)

	profile, err := target.profile.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	gen, err := profile.GetGeneration()
	require.NoError(t, err)
	assert.Equal(t, "#2563eb", gen.AccentColor)
}

func TestImport_InvalidLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{nope"},
		{name: "unknown field", data: `{"format_version":1,"documents":[],"bogus":true}`},
		{name: "missing version", data: `{"documents":[]}`},
		{name: "future version", data: `{"format_version":99}`},
		{name: "document without id", data: `{"format_version":1,"documents":[{"title":"x"}]}`},
		{name: "duplicate ids", data: `{"format_version":1,"documents":[{"id":"a"},{"id":"a"}]}`},
		{name: "dangling folder", data: `{"format_version":1,"documents":[{"id":"a","folder_id":"f"}]}`},
		{name: "draft without tool", data: `{"format_version":1,"drafts":[{"content":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			seedEnv(t, env)

			before, err := env.imports.Export(ctx)
			require.NoError(t, err)

			result, err := env.imports.Import(ctx, []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.False(t, result.Success)

			after, err := env.imports.Export(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, stripExportedAt(t, before), stripExportedAt(t, after))
		})
	}
}

func TestImport_StorageFailureLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedEnv(t, env)

	before, err := env.imports.Export(ctx)
	require.NoError(t, err)

	env.store.FailWrites = true
	result, err := env.imports.Import(ctx, []byte(`{"format_version":1,"documents":[]}`))
	env.store.FailWrites = false
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.False(t, result.Success)

	after, err := env.imports.Export(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, stripExportedAt(t, before), stripExportedAt(t, after))
}

func stripExportedAt(t *testing.T, data []byte) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	delete(m, "exported_at")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}
