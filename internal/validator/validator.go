package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "catalogadmin/internal/errors"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Validator wraps go-playground/validator and reports failures as
// *errors.ValidationError keyed by JSON field name. It satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used by date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New creates a Validator with the custom rules registered.
func New(opts ...Option) *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), now: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	registerRules(v)
	return v
}

// Validate checks i and returns *errors.ValidationError when any field fails.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := apperrors.NewValidationError()
	for _, fe := range fieldErrs {
		field, msg := message(fe)
		out.Add(field, msg)
	}
	return out
}

func message(fe validator.FieldError) (string, string) {
	field := fe.Field()
	label := strings.ReplaceAll(field, "_", " ")
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return field, fmt.Sprintf("The %s field is required.", label)
	case "filled":
		return field, fmt.Sprintf("The %s field must have a value.", label)
	case "email":
		return field, fmt.Sprintf("The %s must be a valid email address.", label)
	case "min", "gte":
		if numeric {
			return field, fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
		}
		return field, fmt.Sprintf("The %s must be at least %s characters.", label, fe.Param())
	case "max", "lte":
		if numeric {
			return field, fmt.Sprintf("The %s must not be greater than %s.", label, fe.Param())
		}
		return field, fmt.Sprintf("The %s must not be greater than %s characters.", label, fe.Param())
	case "gt":
		return field, fmt.Sprintf("The %s must be greater than %s.", label, fe.Param())
	case "eqfield":
		// password_confirmation mismatch is reported on the confirmed field.
		target := strings.TrimSuffix(field, "_confirmation")
		return target, fmt.Sprintf("The %s field confirmation does not match.", strings.ReplaceAll(target, "_", " "))
	case "oneof", "role":
		return field, fmt.Sprintf("The selected %s is invalid.", label)
	case "url", "http_url":
		return field, fmt.Sprintf("The %s must be a valid URL.", label)
	case "datetime", "calendar_date":
		return field, fmt.Sprintf("The %s does not match the format Y-m-d.", label)
	case "today_or_later":
		return field, fmt.Sprintf("The %s must be a date after or equal to today.", label)
	default:
		return field, fmt.Sprintf("The %s is invalid.", label)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
