// Package validation turns struct-tag rules into per-field error lists.
//
// Rules are declared with go-playground/validator tags on the submission
// structs of the domain packages. Every failing field is reported, keyed by
// its JSON name, and cross-field failures go under NonFieldErrors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key used for failures that span several fields.
const NonFieldErrors = "non_field_errors"

// Errors maps a field name to the messages of every rule it violated.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field already has at least one error.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err returns e as an error, or nil if it holds no messages.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// As extracts Errors from err.
func As(err error) (Errors, bool) {
	var verr Errors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := ParseTimeOfDay(fl.Field().String())
		return err == nil
	})

	return v
}

// Struct validates s and returns every field failure. overrides replaces the
// default message for a "field.tag" key, e.g. "name.min".
func Struct(s any, overrides map[string]string) Errors {
	out := Errors{}

	err := validate.Struct(s)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out.Add(NonFieldErrors, err.Error())
		return out
	}

	for _, fe := range fieldErrs {
		key := fe.Field() + "." + fe.Tag()
		if msg, ok := overrides[key]; ok {
			out.Add(fe.Field(), msg)
			continue
		}
		out.Add(fe.Field(), defaultMessage(fe))
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "phone":
		return "Please provide a valid phone number."
	case "datetime":
		return fmt.Sprintf("Date has wrong format. Use this format instead: %s.", dateLayoutHint(fe.Param()))
	case "timeofday":
		return "Time has wrong format. Use one of these formats instead: hh:mm, hh:mm:ss."
	case "timezone":
		return "Unknown time zone."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}

func dateLayoutHint(layout string) string {
	if layout == time.DateOnly {
		return "YYYY-MM-DD"
	}
	return layout
}
