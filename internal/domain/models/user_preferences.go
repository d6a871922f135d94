package models

import (
	"encoding/json"
	"time"
)

// JSONMap holds namespaced, schema-free preference data
type JSONMap map[string]interface{}

// Profile is the user profile and preference record kept in local storage.
// Preferences are namespaced: {ui, editor, generation}.
type Profile struct {
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Plan        Plan      `json:"plan"`
	Preferences JSONMap   `json:"preferences"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UIPreferences represents the ui namespace in preferences
type UIPreferences struct {
	Theme         string `json:"theme"`           // "light", "dark", "auto"
	Language      string `json:"language"`        // UI locale, e.g. "en"
	ShowWordCount *bool  `json:"show_word_count"` // Pointer to allow null
}

// EditorPreferences represents the editor namespace in preferences
type EditorPreferences struct {
	AutoSave   *bool `json:"auto_save"`
	Spellcheck *bool `json:"spellcheck"`
}

// GenerationPreferences holds cross-cutting style defaults merged into every
// generation payload unless the request overrides them.
type GenerationPreferences struct {
	Voice       string `json:"voice,omitempty"`        // Persona hint
	AccentColor string `json:"accent_color,omitempty"` // e.g. "#2563eb"
	Template    string `json:"template,omitempty"`     // Template/style choice
	Language    string `json:"language,omitempty"`     // Output language
}

// GetUI extracts the ui namespace from preferences
func (p *Profile) GetUI() (*UIPreferences, error) {
	ui := &UIPreferences{Theme: "light"}
	if err := p.getNamespace("ui", ui); err != nil {
		return nil, err
	}
	return ui, nil
}

// SetUI sets the ui namespace in preferences
func (p *Profile) SetUI(ui *UIPreferences) error {
	return p.setNamespace("ui", ui)
}

// GetEditor extracts the editor namespace from preferences
func (p *Profile) GetEditor() (*EditorPreferences, error) {
	editor := &EditorPreferences{}
	if err := p.getNamespace("editor", editor); err != nil {
		return nil, err
	}
	return editor, nil
}

// SetEditor sets the editor namespace in preferences
func (p *Profile) SetEditor(editor *EditorPreferences) error {
	return p.setNamespace("editor", editor)
}

// GetGeneration extracts the generation namespace from preferences
func (p *Profile) GetGeneration() (*GenerationPreferences, error) {
	gen := &GenerationPreferences{}
	if err := p.getNamespace("generation", gen); err != nil {
		return nil, err
	}
	return gen, nil
}

// SetGeneration sets the generation namespace in preferences
func (p *Profile) SetGeneration(gen *GenerationPreferences) error {
	return p.setNamespace("generation", gen)
}

func (p *Profile) getNamespace(name string, dest interface{}) error {
	if p.Preferences == nil {
		return nil
	}
	raw, ok := p.Preferences[name]
	if !ok || raw == nil {
		return nil
	}

	// Re-marshal to ensure type safety
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (p *Profile) setNamespace(name string, value interface{}) error {
	if p.Preferences == nil {
		p.Preferences = JSONMap{}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	p.Preferences[name] = m
	return nil
}

// UpdateProfileRequest represents a partial profile update.
// Only non-nil fields are applied.
type UpdateProfileRequest struct {
	DisplayName *string                `json:"display_name"`
	Email       *string                `json:"email"`
	UI          *UIPreferences         `json:"ui"`
	Editor      *EditorPreferences     `json:"editor"`
	Generation  *GenerationPreferences `json:"generation"`
}
