package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldErrors converts validator.ValidationErrors to a field -> message map.
// Any other error is reported under the "_" key.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	issues := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := issues[field]; seen {
			continue
		}
		issues[field] = formatSingleError(e)
	}
	return issues
}

func formatSingleError(e validator.FieldError) string {
	param := e.Param()

	switch e.Tag() {
	case "required", "no_blank":
		return "is required"
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		switch e.Kind().String() {
		case "string":
			return fmt.Sprintf("must be at most %s characters", param)
		case "slice":
			return fmt.Sprintf("must have at most %s entries", param)
		}
		return fmt.Sprintf("must be at most %s", param)
	case "email":
		return "must be a valid email address"
	case "slug":
		return "use lowercase letters, digits and dashes"
	case "optional_url", "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", param)
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
