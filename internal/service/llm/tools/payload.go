package tools

import (
	"context"
	"fmt"
	"strings"

	"quill/internal/capabilities"
	"quill/internal/domain/models"
	"quill/internal/domain/models/generation"
)

// ProfileDefaults supplies the user's style defaults
type ProfileDefaults interface {
	GenerationDefaults(ctx context.Context) *models.GenerationPreferences
}

// PayloadBuilder validates tool inputs and assembles the backend payload
type PayloadBuilder struct {
	catalog  *Catalog
	caps     *capabilities.Registry
	profile  ProfileDefaults
	provider string
	model    string
}

// NewPayloadBuilder creates a payload builder. profile may be nil.
func NewPayloadBuilder(catalog *Catalog, caps *capabilities.Registry, profile ProfileDefaults, provider, model string) *PayloadBuilder {
	return &PayloadBuilder{
		catalog:  catalog,
		caps:     caps,
		profile:  profile,
		provider: provider,
		model:    model,
	}
}

// Build validates inputs against the tool schema and merges style
// parameters and profile defaults into one payload. Request style wins over
// profile defaults; an explicit voiceHint wins over the profile voice.
func (b *PayloadBuilder) Build(ctx context.Context, toolID string, inputs *generation.Inputs, voiceHint string) (*generation.Tool, *generation.Payload, error) {
	tool, err := b.catalog.Get(toolID)
	if err != nil {
		return nil, nil, err
	}

	if inputs == nil {
		inputs = &generation.Inputs{}
	}
	if err := ValidateInputs(tool.Fields, inputs.Values); err != nil {
		return nil, nil, inputError(err)
	}

	style := inputs.Style
	voice := strings.TrimSpace(voiceHint)
	if b.profile != nil {
		defaults := b.profile.GenerationDefaults(ctx)
		style = mergeStyle(style, defaults)
		if voice == "" {
			voice = defaults.Voice
		}
	}

	payload := &generation.Payload{
		ToolID:    tool.ID,
		Model:     b.model,
		System:    systemPrompt(tool, style, voice),
		Prompt:    renderPrompt(tool.Fields, inputs.Values),
		VoiceHint: voice,
		Style:     style,
		Output:    tool.Output,
		MaxTokens: b.maxTokens(),
	}
	return tool, payload, nil
}

func (b *PayloadBuilder) maxTokens() int {
	if b.caps == nil {
		return 0
	}
	return b.caps.MaxOutput(b.provider, b.model)
}

func mergeStyle(style generation.Style, defaults *models.GenerationPreferences) generation.Style {
	if defaults == nil {
		return style
	}
	if style.AccentColor == "" {
		style.AccentColor = defaults.AccentColor
	}
	if style.Template == "" {
		style.Template = defaults.Template
	}
	if style.Language == "" {
		style.Language = defaults.Language
	}
	return style
}

func systemPrompt(tool *generation.Tool, style generation.Style, voice string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(tool.SystemPrompt))
	sb.WriteString("\n\n")
	sb.WriteString(formatInstruction(tool.Output))

	if style.Template != "" {
		fmt.Fprintf(&sb, "\nFollow the %q template style.", style.Template)
	}
	if style.AccentColor != "" && tool.Output == generation.OutputHTML {
		fmt.Fprintf(&sb, "\nUse %s as the accent color for headings and rules, via inline style attributes.", style.AccentColor)
	}
	if style.Language != "" {
		fmt.Fprintf(&sb, "\nWrite the output in this language: %s.", style.Language)
	}
	if voice != "" {
		fmt.Fprintf(&sb, "\nWrite in the following voice: %s", voice)
	}
	return sb.String()
}

func formatInstruction(output generation.OutputFormat) string {
	switch output {
	case generation.OutputHTML:
		return "Respond with an HTML fragment using only basic formatting tags (headings, paragraphs, lists, tables, links). Do not include scripts and do not wrap the answer in code fences."
	case generation.OutputMarkdown:
		return "Respond in Markdown. Do not wrap the answer in code fences."
	default:
		return "Respond in plain text without any markup."
	}
}

// renderPrompt lists the provided values in schema order
func renderPrompt(specs []generation.FieldSpec, values models.FormValues) string {
	var sb strings.Builder
	writeFields(&sb, specs, values, "")
	return strings.TrimRight(sb.String(), "\n")
}

func writeFields(sb *strings.Builder, specs []generation.FieldSpec, values models.FormValues, indent string) {
	for _, spec := range specs {
		v, ok := values[spec.Name]
		if !ok || v.IsZero() {
			continue
		}
		label := spec.Label
		if label == "" {
			label = spec.Name
		}

		switch {
		case spec.Kind == generation.FieldGroup:
			fmt.Fprintf(sb, "%s%s:\n", indent, label)
			for i, item := range v.Group {
				fmt.Fprintf(sb, "%s  %d.\n", indent, i+1)
				writeFields(sb, spec.Fields, item, indent+"     ")
			}
		case spec.Kind == generation.FieldToggle:
			answer := "no"
			if v.Bool {
				answer = "yes"
			}
			fmt.Fprintf(sb, "%s%s: %s\n", indent, label, answer)
		case spec.Kind == generation.FieldLongText:
			fmt.Fprintf(sb, "%s%s:\n%s%s\n", indent, label, indent, strings.TrimSpace(v.Text))
		default:
			fmt.Fprintf(sb, "%s%s: %s\n", indent, label, strings.TrimSpace(v.String()))
		}
	}
}
