package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct runs struct-tag validation (`validate:"..."`) over cfg and
// returns a readable error listing every failed field.
func ValidateStruct(cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: required field is missing", e.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s: value below minimum %s", e.Field(), e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s: value above maximum %s", e.Field(), e.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s: value must be greater than %s", e.Field(), e.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s: value must be at least %s", e.Field(), e.Param()))
		case "lt":
			msgs = append(msgs, fmt.Sprintf("%s: value must be less than %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", e.Field(), e.Tag()))
		}
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
