package capabilities

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// fallbackMaxOutput bounds generations for models missing from the catalog
const fallbackMaxOutput = 4096

// Registry is the read-only catalog of generation models per provider.
// It is built once and safe for concurrent use.
type Registry struct {
	providers map[string]*ProviderCapabilities
}

// NewRegistry loads every embedded config/<provider>.yaml file
func NewRegistry() (*Registry, error) {
	return loadRegistry(configFiles, "config")
}

func loadRegistry(fsys fs.FS, dir string) (*Registry, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no capability files in %s", dir)
	}

	r := &Registry{providers: make(map[string]*ProviderCapabilities, len(files))}
	for _, file := range files {
		caps, err := loadProviderFile(fsys, file)
		if err != nil {
			return nil, err
		}
		r.providers[caps.Provider] = caps
	}
	return r, nil
}

// loadProviderFile decodes one provider file. The provider field must match
// the file name and the default model must be listed.
func loadProviderFile(fsys fs.FS, file string) (*ProviderCapabilities, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", file, err)
	}

	name := strings.TrimSuffix(path.Base(file), ".yaml")
	if caps.Provider != name {
		return nil, fmt.Errorf("%s declares provider %q", file, caps.Provider)
	}
	if caps.DefaultModel != "" && !slices.ContainsFunc(caps.Models, func(m ModelCapabilities) bool {
		return m.ID == caps.DefaultModel
	}) {
		return nil, fmt.Errorf("%s: default model %q is not listed", file, caps.DefaultModel)
	}
	return &caps, nil
}

// GetModelCapabilities returns capabilities for a specific model
func (r *Registry) GetModelCapabilities(provider, model string) (*ModelCapabilities, error) {
	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	i := slices.IndexFunc(providerCaps.Models, func(m ModelCapabilities) bool { return m.ID == model })
	if i < 0 {
		return nil, fmt.Errorf("unknown model %s for provider %s", model, provider)
	}
	return &providerCaps.Models[i], nil
}

// MaxOutput returns the output token limit for model, falling back to a
// conservative default for models the catalog does not know.
func (r *Registry) MaxOutput(provider, model string) int {
	caps, err := r.GetModelCapabilities(provider, model)
	if err != nil || caps.MaxOutput <= 0 {
		return fallbackMaxOutput
	}
	return caps.MaxOutput
}

// DefaultModel returns the catalog's default model for provider
func (r *Registry) DefaultModel(provider string) string {
	if p, ok := r.providers[provider]; ok {
		return p.DefaultModel
	}
	return ""
}

// ListProviderModels returns all models for a provider (ordered as defined in YAML)
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	return slices.Clone(providerCaps.Models), nil
}

// GetAllProviders returns every registered provider, sorted by name
func (r *Registry) GetAllProviders() []string {
	providers := make([]string, 0, len(r.providers))
	for provider := range r.providers {
		providers = append(providers, provider)
	}
	slices.Sort(providers)
	return providers
}
