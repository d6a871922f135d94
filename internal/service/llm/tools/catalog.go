package tools

import (
	"embed"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"quill/internal/domain"
	"quill/internal/domain/models/generation"
)

//go:embed config/tools.yaml
var configFiles embed.FS

var toolIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// catalogFile is the on-disk layout of the tool catalog
type catalogFile struct {
	Tools []generation.Tool `yaml:"tools"`
}

// Catalog is the read-only set of generation tools. It is safe for
// concurrent use.
type Catalog struct {
	tools []generation.Tool
	byID  map[string]int
}

// LoadCatalog reads the embedded tool catalog
func LoadCatalog() (*Catalog, error) {
	data, err := configFiles.ReadFile("config/tools.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read tool catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and checks a catalog document
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool catalog: %w", err)
	}

	c := &Catalog{
		tools: file.Tools,
		byID:  make(map[string]int, len(file.Tools)),
	}
	for i := range c.tools {
		tool := &c.tools[i]
		if err := validateTool(tool); err != nil {
			return nil, fmt.Errorf("tool %q: %w", tool.ID, err)
		}
		if _, dup := c.byID[tool.ID]; dup {
			return nil, fmt.Errorf("duplicate tool id %q", tool.ID)
		}
		c.byID[tool.ID] = i
	}
	return c, nil
}

func validateTool(tool *generation.Tool) error {
	err := validation.ValidateStruct(tool,
		validation.Field(&tool.ID, validation.Required, validation.Match(toolIDPattern)),
		validation.Field(&tool.Name, validation.Required),
		validation.Field(&tool.Output, validation.Required,
			validation.In(generation.OutputHTML, generation.OutputMarkdown, generation.OutputText)),
		validation.Field(&tool.Fields, validation.Required),
	)
	if err != nil {
		return err
	}
	return validateFieldSpecs(tool.Fields)
}

func validateFieldSpecs(specs []generation.FieldSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return fmt.Errorf("field without name")
		}
		if seen[spec.Name] {
			return fmt.Errorf("duplicate field %q", spec.Name)
		}
		seen[spec.Name] = true

		switch spec.Kind {
		case generation.FieldText, generation.FieldLongText, generation.FieldNumber, generation.FieldToggle:
		case generation.FieldChoice:
			if len(spec.Options) == 0 {
				return fmt.Errorf("choice field %q has no options", spec.Name)
			}
		case generation.FieldGroup:
			if len(spec.Fields) == 0 {
				return fmt.Errorf("group field %q has no sub-fields", spec.Name)
			}
			if err := validateFieldSpecs(spec.Fields); err != nil {
				return fmt.Errorf("group %q: %w", spec.Name, err)
			}
		default:
			return fmt.Errorf("field %q has unknown kind %q", spec.Name, spec.Kind)
		}
	}
	return nil
}

// Get returns the tool with id
func (c *Catalog) Get(id string) (*generation.Tool, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("unknown tool: %s", id)}
	}
	tool := c.tools[i]
	return &tool, nil
}

// List returns every tool in catalog order
func (c *Catalog) List() []generation.Tool {
	return append([]generation.Tool(nil), c.tools...)
}

// ToolName returns the display name for id, empty when unknown
func (c *Catalog) ToolName(id string) string {
	if i, ok := c.byID[id]; ok {
		return c.tools[i].Name
	}
	return ""
}

// OutputFormat returns the content format produced by id, empty when unknown
func (c *Catalog) OutputFormat(id string) string {
	if i, ok := c.byID[id]; ok {
		return string(c.tools[i].Output)
	}
	return ""
}
