package utils

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names so clients can match them to inputs
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// FieldNames returns the failing fields in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewValidationError(field, message string) *ValidationError {
	ve := &ValidationError{Message: "One or more validation errors occurred."}
	ve.Add(field, message)
	return ve
}

func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, toValidationError(err)
	}
	return value, nil
}

func ValidateValue(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{Message: "One or more validation errors occurred."}
	for _, fe := range verrs {
		ve.Add(fieldPath(fe), describe(fe))
	}
	return ve
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", fe.Field())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at most %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s field must be at most %s.", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", fe.Field(), fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s field must be a valid id.", fe.Field())
	case "datetime":
		return fmt.Sprintf("The %s field must be a date formatted as %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field failed the '%s' rule.", fe.Field(), fe.Tag())
	}
}
