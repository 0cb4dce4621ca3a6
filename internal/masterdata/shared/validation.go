package shared

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"
)

// Validator runs struct tag validation and reports failures keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator constructs a Validator that names fields after their json tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns the failures, or an empty map.
func (v *Validator) Struct(s any) httpx.FieldErrors {
	fe := httpx.FieldErrors{}
	err := v.validate.Struct(s)
	if err == nil {
		return fe
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add("non_field_errors", err.Error())
		return fe
	}
	for _, fieldErr := range verrs {
		fe.Add(fieldErr.Field(), message(fieldErr))
	}
	return fe
}

// Require records MsgRequired for each named field whose value is absent
// and that has no other error against it.
func Require(fe httpx.FieldErrors, present map[string]bool) {
	for field, ok := range present {
		if _, flagged := fe[field]; !ok && !flagged {
			fe.Add(field, MsgRequired)
		}
	}
}

// TrimPtr trims surrounding whitespace in place.
func TrimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgBlank
	case "min":
		// min=1 on a trimmed string is the blank check.
		if fe.Param() == "1" {
			return MsgBlank
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "email":
		return MsgInvalidEmail
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}
