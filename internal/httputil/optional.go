package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent JSON field from an explicit null in a
// PATCH body (RFC 7396):
//   - Present=false: leave the field unchanged
//   - Present=true, Value=nil: clear it
//   - Present=true, Value!=nil: set it
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON is only called when the key appears in the body
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
