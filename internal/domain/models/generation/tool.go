package generation

import "quill/internal/domain/models"

// FieldKind tags the variant of a tool input field.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldLongText FieldKind = "long_text"
	FieldNumber   FieldKind = "number"
	FieldChoice   FieldKind = "choice"
	FieldToggle   FieldKind = "toggle"
	FieldGroup    FieldKind = "group" // Repeated group of sub-fields
)

// OutputFormat is the content format a tool produces.
type OutputFormat string

const (
	OutputHTML     OutputFormat = "html"
	OutputMarkdown OutputFormat = "markdown"
	OutputText     OutputFormat = "text"
)

// FieldSpec describes one input of a tool.
type FieldSpec struct {
	Name      string      `yaml:"name" json:"name"`
	Label     string      `yaml:"label" json:"label"`
	Kind      FieldKind   `yaml:"kind" json:"kind"`
	Required  bool        `yaml:"required" json:"required"`
	MaxLength int         `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Min       *float64    `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64    `yaml:"max,omitempty" json:"max,omitempty"`
	Options   []string    `yaml:"options,omitempty" json:"options,omitempty"`
	Fields    []FieldSpec `yaml:"fields,omitempty" json:"fields,omitempty"`
	MinItems  int         `yaml:"min_items,omitempty" json:"min_items,omitempty"`
	MaxItems  int         `yaml:"max_items,omitempty" json:"max_items,omitempty"`
}

// Tool is one generator of the suite (CV builder, translator, ...).
type Tool struct {
	ID           string       `yaml:"id" json:"id"`
	Name         string       `yaml:"name" json:"name"`
	Description  string       `yaml:"description" json:"description"`
	Output       OutputFormat `yaml:"output" json:"output"`
	Streaming    bool         `yaml:"streaming" json:"streaming"`
	Premium      bool         `yaml:"premium" json:"premium"`
	SystemPrompt string       `yaml:"system_prompt" json:"-"`
	Fields       []FieldSpec  `yaml:"fields" json:"fields"`
}

// Style carries cross-cutting style parameters merged into the payload.
type Style struct {
	AccentColor string `json:"accent_color,omitempty"`
	Template    string `json:"template,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Inputs is what a caller hands to the controller.
type Inputs struct {
	Values models.FormValues `json:"values"`
	Style  Style             `json:"style"`
}

// Payload is the assembled, validated input sent to the backend.
type Payload struct {
	ToolID    string
	Model     string
	System    string
	Prompt    string
	VoiceHint string
	Style     Style
	Output    OutputFormat
	MaxTokens int
}

// Request is an in-flight generation, held in memory only.
type Request struct {
	ID        string
	ToolID    string
	Payload   *Payload
	Streaming bool
}

// Result is the outcome of an atomic generation.
type Result struct {
	RequestID string `json:"request_id"`
	ToolID    string `json:"tool_id"`
	Content   string `json:"content"`
	Model     string `json:"model,omitempty"`
}

// StreamEvent is one incremental delivery from a streaming backend.
// Delta is the newly generated text; Done marks completion.
type StreamEvent struct {
	Delta string
	Done  bool
	Err   error
}
