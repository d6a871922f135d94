package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ValueKind tags the variant held by a FieldValue.
type ValueKind string

const (
	ValueText   ValueKind = "text"
	ValueNumber ValueKind = "number"
	ValueBool   ValueKind = "bool"
	ValueGroup  ValueKind = "group" // Repeated group of nested field maps
)

// FieldValue is one form field value: a scalar or a repeated group.
// It marshals to plain JSON (string, number, bool, array of objects).
type FieldValue struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
	Group  []FormValues
}

// FormValues maps field names to values.
type FormValues map[string]FieldValue

func TextValue(s string) FieldValue         { return FieldValue{Kind: ValueText, Text: s} }
func NumberValue(n float64) FieldValue      { return FieldValue{Kind: ValueNumber, Number: n} }
func BoolValue(b bool) FieldValue           { return FieldValue{Kind: ValueBool, Bool: b} }
func GroupValue(g ...FormValues) FieldValue { return FieldValue{Kind: ValueGroup, Group: g} }

// IsZero reports whether the value is empty for its kind.
func (v FieldValue) IsZero() bool {
	switch v.Kind {
	case ValueText:
		return v.Text == ""
	case ValueGroup:
		return len(v.Group) == 0
	case ValueNumber, ValueBool:
		return false
	}
	return true
}

// String renders the value for prompt assembly.
func (v FieldValue) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return fmt.Sprintf("%g", v.Number)
	case ValueBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValueGroup:
		data, _ := json.Marshal(v.Group)
		return string(data)
	}
	return ""
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueText:
		return json.Marshal(v.Text)
	case ValueNumber:
		return json.Marshal(v.Number)
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueGroup:
		if v.Group == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Group)
	}
	return []byte("null"), nil
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = FieldValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '[':
		var g []FormValues
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		*v = GroupValue(g...)
	case '{':
		return fmt.Errorf("field value: nested objects must be wrapped in a group")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}

// StyleSelection is the template/style state attached to a tool view.
type StyleSelection struct {
	Template    string `json:"template,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
	Font        string `json:"font,omitempty"`
}

// Draft is the last-write-wins recovery snapshot for one tool.
type Draft struct {
	ToolID     string         `json:"tool_id"`
	FormValues FormValues     `json:"form_values"`
	Content    string         `json:"content"`
	Style      StyleSelection `json:"style"`
	SavedAt    time.Time      `json:"saved_at"`
}
