package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/repository/kv"
	"quill/internal/repository/memory"
)

func newTestProfileService(t *testing.T) *ProfileService {
	t.Helper()
	tm := kv.NewTransactionManager(memory.New(0))
	repo := kv.NewProfileRepository(tm, kv.Namespace("quill_test:"))
	return NewProfileService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProfileService_Defaults(t *testing.T) {
	s := newTestProfileService(t)

	profile, err := s.GetProfile(context.Background())
	require.NoError(t, err)

	ui, err := profile.GetUI()
	require.NoError(t, err)
	assert.Equal(t, "light", ui.Theme)
	assert.Equal(t, &models.GenerationPreferences{}, s.GenerationDefaults(context.Background()))
}

func TestProfileService_UpdateProfile(t *testing.T) {
	s := newTestProfileService(t)
	ctx := context.Background()

	name := " Ada "
	updated, err := s.UpdateProfile(ctx, &models.UpdateProfileRequest{
		DisplayName: &name,
		Generation:  &models.GenerationPreferences{Voice: "friendly", AccentColor: "#2563eb"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.DisplayName)

	// Partial update leaves other namespaces alone
	_, err = s.UpdateProfile(ctx, &models.UpdateProfileRequest{UI: &models.UIPreferences{Theme: "dark"}})
	require.NoError(t, err)

	profile, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.DisplayName)

	ui, err := profile.GetUI()
	require.NoError(t, err)
	assert.Equal(t, "dark", ui.Theme)

	gen := s.GenerationDefaults(ctx)
	assert.Equal(t, "friendly", gen.Voice)
	assert.Equal(t, "#2563eb", gen.AccentColor)
}

func TestProfileService_Validation(t *testing.T) {
	s := newTestProfileService(t)
	ctx := context.Background()

	badEmail := "not-an-email"
	tests := []struct {
		name string
		req  models.UpdateProfileRequest
	}{
		{name: "email", req: models.UpdateProfileRequest{Email: &badEmail}},
		{name: "theme", req: models.UpdateProfileRequest{UI: &models.UIPreferences{Theme: "neon"}}},
		{name: "accent color", req: models.UpdateProfileRequest{Generation: &models.GenerationPreferences{AccentColor: "blue"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.UpdateProfile(ctx, &tt.req)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestProfileService_SetPlan(t *testing.T) {
	s := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, s.SetPlan(ctx, models.PlanPro))
	profile, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, profile.Plan)
}
