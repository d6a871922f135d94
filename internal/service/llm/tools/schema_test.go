package tools

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain/models"
	"quill/internal/domain/models/generation"
)

func ptr(f float64) *float64 { return &f }

var invoiceSpecs = []generation.FieldSpec{
	{Name: "client", Kind: generation.FieldText, Required: true, MaxLength: 10},
	{Name: "currency", Kind: generation.FieldChoice, Required: true, Options: []string{"EUR", "USD"}},
	{Name: "paid", Kind: generation.FieldToggle},
	{Name: "items", Kind: generation.FieldGroup, MinItems: 1, MaxItems: 2, Fields: []generation.FieldSpec{
		{Name: "description", Kind: generation.FieldText, Required: true},
		{Name: "quantity", Kind: generation.FieldNumber, Required: true, Min: ptr(0), Max: ptr(100)},
	}},
}

func item(desc string, qty float64) models.FormValues {
	return models.FormValues{
		"description": models.TextValue(desc),
		"quantity":    models.NumberValue(qty),
	}
}

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name       string
		values     models.FormValues
		wantFields []string
	}{
		{
			name: "valid",
			values: models.FormValues{
				"client":   models.TextValue("Acme"),
				"currency": models.TextValue("EUR"),
				"paid":     models.BoolValue(false),
				"items":    models.GroupValue(item("Design", 2)),
			},
		},
		{
			name:       "missing required",
			values:     models.FormValues{"client": models.TextValue("")},
			wantFields: []string{"client", "currency"},
		},
		{
			name: "too long and bad option",
			values: models.FormValues{
				"client":   models.TextValue("Acme Corporation"),
				"currency": models.TextValue("JPY"),
			},
			wantFields: []string{"client", "currency"},
		},
		{
			name: "wrong type",
			values: models.FormValues{
				"client":   models.NumberValue(3),
				"currency": models.TextValue("USD"),
				"paid":     models.TextValue("yes"),
			},
			wantFields: []string{"client", "paid"},
		},
		{
			name: "nested group errors",
			values: models.FormValues{
				"client":   models.TextValue("Acme"),
				"currency": models.TextValue("USD"),
				"items":    models.GroupValue(item("Design", 2), item("", 101)),
			},
			wantFields: []string{"items[1].description", "items[1].quantity"},
		},
		{
			name: "too many group entries",
			values: models.FormValues{
				"client":   models.TextValue("Acme"),
				"currency": models.TextValue("USD"),
				"items":    models.GroupValue(item("a", 1), item("b", 1), item("c", 1)),
			},
			wantFields: []string{"items"},
		},
		{
			name: "unknown field",
			values: models.FormValues{
				"client":   models.TextValue("Acme"),
				"currency": models.TextValue("USD"),
				"discount": models.NumberValue(5),
			},
			wantFields: []string{"discount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputs(invoiceSpecs, tt.values)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			errs, ok := err.(validation.Errors)
			require.True(t, ok)
			var got []string
			for field := range errs {
				got = append(got, field)
			}
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}
