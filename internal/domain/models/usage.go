package models

import "time"

// Plan is a billing tier.
type Plan string

const (
	PlanUnknown Plan = ""
	PlanFree    Plan = "free"
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
	PlanTeam    Plan = "team"
)

// IsPaid reports whether the plan is a paying tier.
func (p Plan) IsPaid() bool {
	switch p {
	case PlanStarter, PlanPro, PlanTeam:
		return true
	}
	return false
}

// GatedAction identifies an action whose availability depends on the plan.
type GatedAction string

const (
	ActionGenerate        GatedAction = "generate"
	ActionCreateDocument  GatedAction = "create_document"
	ActionExportPDF       GatedAction = "export_pdf"
	ActionExportDOCX      GatedAction = "export_docx"
	ActionPremiumTemplate GatedAction = "premium_template"
)

// UsageCounters are per-resource consumption figures.
type UsageCounters struct {
	Generations  int   `json:"generations"`
	Documents    int   `json:"documents"`
	StorageBytes int64 `json:"storage_bytes"`
}

// Entitlement is the billing backend's view of what the user may do.
// A limit of -1 means unlimited.
type Entitlement struct {
	Plan      Plan          `json:"plan"`
	Usage     UsageCounters `json:"usage"`
	Limits    UsageCounters `json:"limits"`
	Features  []GatedAction `json:"features"` // Feature locks lifted on this plan
	FetchedAt time.Time     `json:"fetched_at"`
}

// Decision is the outcome of a local entitlement check.
type Decision struct {
	Allowed bool        `json:"allowed"`
	Action  GatedAction `json:"action"`
	Reason  string      `json:"reason,omitempty"`
	Upgrade bool        `json:"upgrade"` // Show an upgrade affordance instead of the action
	Stale   bool        `json:"stale"`   // Entitlement unknown or outdated, failed open
}
