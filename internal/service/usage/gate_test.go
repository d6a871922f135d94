package usage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain/models"
)

type fakeSource struct {
	ent   *models.Entitlement
	err   error
	calls int
}

func (f *fakeSource) FetchEntitlement(ctx context.Context) (*models.Entitlement, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ent := *f.ent
	return &ent, nil
}

var gateEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestGate(t *testing.T, source *fakeSource) (*Gate, *time.Time) {
	t.Helper()
	now := gateEpoch
	g := NewGate(source, 5*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.now = func() time.Time { return now }
	return g, &now
}

func freeEntitlement() *models.Entitlement {
	return &models.Entitlement{
		Plan:   models.PlanFree,
		Usage:  models.UsageCounters{Generations: 4, Documents: 1},
		Limits: models.UsageCounters{Generations: 5, Documents: -1},
	}
}

func TestGate_Check(t *testing.T) {
	tests := []struct {
		name        string
		entitlement *models.Entitlement
		action      models.GatedAction
		wantAllowed bool
		wantUpgrade bool
	}{
		{
			name:        "under generation limit",
			entitlement: freeEntitlement(),
			action:      models.ActionGenerate,
			wantAllowed: true,
		},
		{
			name: "generation limit reached",
			entitlement: &models.Entitlement{
				Plan:   models.PlanFree,
				Usage:  models.UsageCounters{Generations: 5},
				Limits: models.UsageCounters{Generations: 5},
			},
			action:      models.ActionGenerate,
			wantUpgrade: true,
		},
		{
			name:        "unlimited documents",
			entitlement: freeEntitlement(),
			action:      models.ActionCreateDocument,
			wantAllowed: true,
		},
		{
			name:        "locked feature",
			entitlement: freeEntitlement(),
			action:      models.ActionExportPDF,
			wantUpgrade: true,
		},
		{
			name: "feature granted",
			entitlement: &models.Entitlement{
				Plan:     models.PlanPro,
				Limits:   models.UsageCounters{Generations: -1, Documents: -1},
				Features: []models.GatedAction{models.ActionExportPDF},
			},
			action:      models.ActionExportPDF,
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGate(t, &fakeSource{ent: tt.entitlement})
			_, err := g.Refresh(context.Background())
			require.NoError(t, err)

			d := g.Check(context.Background(), tt.action)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantUpgrade, d.Upgrade)
			assert.False(t, d.Stale)
			if !d.Allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestGate_FailsOpen(t *testing.T) {
	t.Run("unknown entitlement", func(t *testing.T) {
		g, _ := newTestGate(t, &fakeSource{err: errors.New("billing down")})
		_, err := g.Refresh(context.Background())
		require.Error(t, err)

		d := g.Check(context.Background(), models.ActionExportPDF)
		assert.True(t, d.Allowed)
		assert.True(t, d.Stale)
	})

	t.Run("stale entitlement", func(t *testing.T) {
		source := &fakeSource{ent: &models.Entitlement{
			Plan:   models.PlanFree,
			Usage:  models.UsageCounters{Generations: 5},
			Limits: models.UsageCounters{Generations: 5},
		}}
		g, now := newTestGate(t, source)
		_, err := g.Refresh(context.Background())
		require.NoError(t, err)
		require.False(t, g.Check(context.Background(), models.ActionGenerate).Allowed)

		*now = now.Add(10 * time.Minute)
		d := g.Check(context.Background(), models.ActionGenerate)
		assert.True(t, d.Allowed)
		assert.True(t, d.Stale)
	})

	t.Run("no billing backend", func(t *testing.T) {
		g := NewGate(nil, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ent, err := g.Refresh(context.Background())
		require.NoError(t, err)
		assert.Nil(t, ent)
		assert.True(t, g.Check(context.Background(), models.ActionGenerate).Allowed)
	})
}

func TestGate_RecordUsage(t *testing.T) {
	g, _ := newTestGate(t, &fakeSource{ent: freeEntitlement()})
	_, err := g.Refresh(context.Background())
	require.NoError(t, err)

	before := g.Entitlement()
	require.True(t, g.Check(context.Background(), models.ActionGenerate).Allowed)

	g.RecordUsage(models.ActionGenerate)

	assert.Equal(t, 4, before.Usage.Generations, "earlier copies are not mutated")
	assert.Equal(t, 5, g.Entitlement().Usage.Generations)
	assert.False(t, g.Check(context.Background(), models.ActionGenerate).Allowed)
}

func TestGate_RecordUsageWithoutEntitlement(t *testing.T) {
	g, _ := newTestGate(t, &fakeSource{err: errors.New("down")})
	g.RecordUsage(models.ActionGenerate)
	assert.Nil(t, g.Entitlement())
}

func TestGate_OnPlanChange(t *testing.T) {
	source := &fakeSource{ent: freeEntitlement()}
	g, _ := newTestGate(t, source)

	var plans []models.Plan
	g.OnPlanChange = func(ctx context.Context, plan models.Plan) error {
		plans = append(plans, plan)
		return nil
	}

	_, err := g.Refresh(context.Background())
	require.NoError(t, err)
	_, err = g.Refresh(context.Background())
	require.NoError(t, err)

	source.ent = &models.Entitlement{Plan: models.PlanPro}
	_, err = g.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Plan{models.PlanFree, models.PlanPro}, plans)
	assert.Equal(t, 3, source.calls)
}

func TestWatermark(t *testing.T) {
	tests := []struct {
		name      string
		plan      models.Plan
		html      string
		wantMark  bool
		wantAfter string
	}{
		{name: "free", plan: models.PlanFree, html: "<p>cv</p>", wantMark: true},
		{name: "unknown", plan: models.PlanUnknown, html: "<p>cv</p>", wantMark: true},
		{name: "pro", plan: models.PlanPro, html: "<p>cv</p>"},
		{name: "team", plan: models.PlanTeam, html: "<p>cv</p>"},
		{name: "before body end", plan: models.PlanFree, html: "<body><p>cv</p></body>", wantMark: true, wantAfter: "</body>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Watermark(tt.plan, tt.html)
			if !tt.wantMark {
				assert.Equal(t, tt.html, got)
				return
			}
			assert.Contains(t, got, "quill-watermark")
			if tt.wantAfter != "" {
				assert.True(t, strings.HasSuffix(got, tt.wantAfter))
			}
			assert.Equal(t, got, Watermark(tt.plan, got), "watermark is applied once")
		})
	}
}
