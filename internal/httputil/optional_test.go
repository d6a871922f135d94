package httputil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	type body struct {
		FolderID Optional[string] `json:"folder_id"`
	}

	tests := []struct {
		name        string
		input       string
		wantPresent bool
		wantValue   *string
	}{
		{name: "absent", input: `{}`},
		{name: "null", input: `{"folder_id": null}`, wantPresent: true},
		{name: "empty", input: `{"folder_id": ""}`, wantPresent: true, wantValue: ptr("")},
		{name: "value", input: `{"folder_id": "f-1"}`, wantPresent: true, wantValue: ptr("f-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			require.NoError(t, json.Unmarshal([]byte(tt.input), &b))
			assert.Equal(t, tt.wantPresent, b.FolderID.Present)
			assert.Equal(t, tt.wantValue, b.FolderID.Value)
		})
	}

	t.Run("wrong type", func(t *testing.T) {
		var b body
		assert.Error(t, json.Unmarshal([]byte(`{"folder_id": 7}`), &b))
	})
}

func ptr(s string) *string { return &s }
