package tools

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/generation"
)

var errUnknownField = validation.NewError("validation_unknown_field", "is not a field of this tool")

func errWrongType(want string) error {
	return validation.NewError("validation_wrong_type", "must be "+want)
}

// ValidateInputs checks values against specs. The returned error, when not
// nil, is a validation.Errors keyed by field path (e.g. "items[0].quantity").
func ValidateInputs(specs []generation.FieldSpec, values models.FormValues) error {
	errs := validation.Errors{}
	validateValues(specs, values, "", errs)
	return errs.Filter()
}

func validateValues(specs []generation.FieldSpec, values models.FormValues, prefix string, errs validation.Errors) {
	known := make(map[string]bool, len(specs))
	for _, spec := range specs {
		known[spec.Name] = true
		key := prefix + spec.Name

		v, ok := values[spec.Name]
		if !ok || v.IsZero() {
			if spec.Required {
				errs[key] = validation.ErrRequired
			}
			continue
		}

		if spec.Kind == generation.FieldGroup {
			validateGroup(spec, v, key, errs)
			continue
		}
		if err := validateScalar(spec, v); err != nil {
			errs[key] = err
		}
	}

	for name := range values {
		if !known[name] {
			errs[prefix+name] = errUnknownField
		}
	}
}

func validateScalar(spec generation.FieldSpec, v models.FieldValue) error {
	switch spec.Kind {
	case generation.FieldText, generation.FieldLongText:
		if v.Kind != models.ValueText {
			return errWrongType("text")
		}
		if spec.MaxLength > 0 {
			return validation.Validate(v.Text, validation.RuneLength(0, spec.MaxLength))
		}
	case generation.FieldChoice:
		if v.Kind != models.ValueText {
			return errWrongType("one of the listed options")
		}
		options := make([]interface{}, len(spec.Options))
		for i, o := range spec.Options {
			options[i] = o
		}
		return validation.Validate(v.Text, validation.In(options...))
	case generation.FieldNumber:
		if v.Kind != models.ValueNumber {
			return errWrongType("a number")
		}
		var rules []validation.Rule
		if spec.Min != nil {
			rules = append(rules, validation.Min(*spec.Min))
		}
		if spec.Max != nil {
			rules = append(rules, validation.Max(*spec.Max))
		}
		return validation.Validate(v.Number, rules...)
	case generation.FieldToggle:
		if v.Kind != models.ValueBool {
			return errWrongType("true or false")
		}
	}
	return nil
}

func validateGroup(spec generation.FieldSpec, v models.FieldValue, key string, errs validation.Errors) {
	if v.Kind != models.ValueGroup {
		errs[key] = errWrongType("a list of entries")
		return
	}
	if err := validation.Validate(v.Group, validation.Length(spec.MinItems, spec.MaxItems)); err != nil {
		errs[key] = err
		return
	}
	for i, item := range v.Group {
		validateValues(spec.Fields, item, fmt.Sprintf("%s[%d].", key, i), errs)
	}
}

// inputError converts field errors into the user-facing validation failure.
// Field paths are listed in the message; the rule detail stays in Err.
func inputError(err error) *domain.GenerationError {
	var fields []string
	if errs, ok := err.(validation.Errors); ok {
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
	}

	genErr := domain.NewGenerationError(domain.KindValidation, err)
	if len(fields) > 0 {
		genErr.Message = fmt.Sprintf("%s Check: %s.", genErr.Message, strings.Join(fields, ", "))
	}
	return genErr
}
