package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pricewatch/pricewatch-api/internal/api/shared"
)

// collectFieldErrors converts a validator error into accumulated field-level
// errors. Every failing field is reported, not just the first: the validator
// checks the whole struct before returning, and we surface all of it in one
// 400 response.
func collectFieldErrors(err error) []shared.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fieldErrors := make([]shared.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, shared.FieldError{
			Field:   fieldName(fe),
			Message: tagMessage(fe),
		})
	}
	return fieldErrors
}

// hasFieldError reports whether the field already carries an error, so
// semantic checks do not double-report a field the tags rejected.
func hasFieldError(errs []shared.FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// fieldName prefers the json tag name over the Go field name, so clients see
// the keys they actually sent.
func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

// tagMessage maps a validation tag to a user-friendly message.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// newJSONTagValidator builds a validator that reports struct fields by their
// json tag names.
func newJSONTagValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
