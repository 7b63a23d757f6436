// Package validation wraps the shared go-playground validator and converts its
// failures into app_errors.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"KidLearn/internal/app_errors"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// report json names so field paths match what the client sent
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Var checks a single value against tag and reports it under field.
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return toValidationError(field, err)
	}
	return nil
}

// Struct checks the validate tags of s. Field paths are prefixed with prefix
// when it is not empty.
func Struct(prefix string, s any) error {
	if err := validate.Struct(s); err != nil {
		return toValidationError(prefix, err)
	}
	return nil
}

func toValidationError(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if ns := fe.Namespace(); ns != "" && fe.Field() != "" {
		// drop the struct type name that leads the namespace
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		if field != "" {
			field = field + "." + ns
		} else {
			field = ns
		}
	}
	return &app_errors.ValidationError{Field: field, Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " items"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
