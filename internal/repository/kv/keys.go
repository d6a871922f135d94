package kv

// Namespace builds the storage keys for one environment prefix
type Namespace string

func (n Namespace) Documents() string { return string(n) + "documents" }
func (n Namespace) Folders() string   { return string(n) + "folders" }
func (n Namespace) Profile() string   { return string(n) + "profile" }

// DraftPrefix is the common prefix of every per-tool draft key
func (n Namespace) DraftPrefix() string { return string(n) + "drafts:" }

func (n Namespace) Draft(toolID string) string { return n.DraftPrefix() + toolID }
