package usage

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"quill/internal/domain/models"
	"quill/internal/domain/services"
)

// Gate implements services.UsageGate over a cached entitlement. Checks are
// local and optimistic: the billing backend is only consulted by Refresh.
type Gate struct {
	source services.EntitlementSource // nil disables refreshing
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	// OnPlanChange is called after a refresh reports a different plan
	OnPlanChange func(ctx context.Context, plan models.Plan) error

	mu          sync.RWMutex
	entitlement *models.Entitlement
}

// NewGate creates a gate. A nil source leaves the entitlement unknown, so
// every check fails open.
func NewGate(source services.EntitlementSource, ttl time.Duration, logger *slog.Logger) *Gate {
	return &Gate{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ services.UsageGate = (*Gate)(nil)

// lockedActions need an explicit feature grant on the plan
var lockedActions = []models.GatedAction{
	models.ActionExportPDF,
	models.ActionExportDOCX,
	models.ActionPremiumTemplate,
}

func (g *Gate) Check(ctx context.Context, action models.GatedAction) models.Decision {
	g.mu.RLock()
	ent := g.entitlement
	g.mu.RUnlock()

	decision := models.Decision{Allowed: true, Action: action}
	if ent == nil || g.isStale(ent) {
		// Unknown or outdated entitlement never blocks the user
		decision.Stale = true
		return decision
	}

	if slices.Contains(lockedActions, action) && !slices.Contains(ent.Features, action) {
		decision.Allowed = false
		decision.Upgrade = true
		decision.Reason = fmt.Sprintf("%s is not included in the %s plan", action, planName(ent.Plan))
		return decision
	}

	used, limit, limited := counterFor(ent, action)
	if limited && limit >= 0 && used >= limit {
		decision.Allowed = false
		decision.Upgrade = true
		decision.Reason = fmt.Sprintf("%s limit of %d reached on the %s plan", action, limit, planName(ent.Plan))
	}
	return decision
}

func (g *Gate) isStale(ent *models.Entitlement) bool {
	return g.ttl > 0 && g.now().Sub(ent.FetchedAt) > g.ttl
}

// counterFor returns the usage and limit governing action. A limit of -1
// means unlimited.
func counterFor(ent *models.Entitlement, action models.GatedAction) (used, limit int, limited bool) {
	switch action {
	case models.ActionGenerate:
		return ent.Usage.Generations, ent.Limits.Generations, true
	case models.ActionCreateDocument:
		return ent.Usage.Documents, ent.Limits.Documents, true
	}
	return 0, 0, false
}

func planName(plan models.Plan) string {
	if plan == models.PlanUnknown {
		return "current"
	}
	return string(plan)
}

// Refresh re-reads the billing backend. On failure the cached entitlement
// is kept and eventually goes stale.
func (g *Gate) Refresh(ctx context.Context) (*models.Entitlement, error) {
	if g.source == nil {
		return g.Entitlement(), nil
	}

	ent, err := g.source.FetchEntitlement(ctx)
	if err != nil {
		g.logger.Warn("entitlement refresh failed", "error", err)
		return nil, fmt.Errorf("refresh entitlement: %w", err)
	}
	if ent.FetchedAt.IsZero() {
		ent.FetchedAt = g.now()
	}

	g.mu.Lock()
	previous := g.entitlement
	g.entitlement = ent
	g.mu.Unlock()

	g.logger.Debug("entitlement refreshed", "plan", ent.Plan,
		"generations", ent.Usage.Generations, "generation_limit", ent.Limits.Generations)

	if g.OnPlanChange != nil && (previous == nil || previous.Plan != ent.Plan) {
		if err := g.OnPlanChange(ctx, ent.Plan); err != nil {
			g.logger.Warn("failed to record plan change", "plan", ent.Plan, "error", err)
		}
	}
	return g.Entitlement(), nil
}

// Run refreshes on every tick until ctx is done
func (g *Gate) Run(ctx context.Context, interval time.Duration) {
	if g.source == nil || interval <= 0 {
		return
	}

	if _, err := g.Refresh(ctx); err != nil && ctx.Err() == nil {
		g.logger.Info("initial entitlement unavailable, failing open", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = g.Refresh(ctx) // Logged by Refresh
		}
	}
}

func (g *Gate) RecordUsage(action models.GatedAction) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.entitlement == nil {
		return
	}

	// Copy so callers holding the previous pointer see a stable value
	ent := *g.entitlement
	switch action {
	case models.ActionGenerate:
		ent.Usage.Generations++
	case models.ActionCreateDocument:
		ent.Usage.Documents++
	default:
		return
	}
	g.entitlement = &ent
}

// Entitlement returns a copy of the cached entitlement
func (g *Gate) Entitlement() *models.Entitlement {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.entitlement == nil {
		return nil
	}
	ent := *g.entitlement
	ent.Features = slices.Clone(g.entitlement.Features)
	return &ent
}

// Plan returns the cached plan, PlanUnknown when never fetched
func (g *Gate) Plan() models.Plan {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.entitlement == nil {
		return models.PlanUnknown
	}
	return g.entitlement.Plan
}

func (g *Gate) ApplyWatermark(html string) string {
	return Watermark(g.Plan(), html)
}
