package services

import (
	"context"

	"quill/internal/domain/models"
)

// EntitlementSource reads the billing backend's view of the current plan
type EntitlementSource interface {
	FetchEntitlement(ctx context.Context) (*models.Entitlement, error)
}

// UsageGate is the local, optimistic plan check run before gated actions
type UsageGate interface {
	// Check decides whether action may proceed. It never blocks on the
	// network and fails open when entitlement is stale or unknown.
	Check(ctx context.Context, action models.GatedAction) models.Decision

	// Refresh re-reads the billing backend
	Refresh(ctx context.Context) (*models.Entitlement, error)

	// RecordUsage optimistically bumps the local counter for action
	RecordUsage(action models.GatedAction)

	// Entitlement returns the cached entitlement, nil when unknown
	Entitlement() *models.Entitlement

	// ApplyWatermark decorates rendered HTML for non-paying plans
	ApplyWatermark(html string) string
}
