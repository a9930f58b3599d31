package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in messages are the JSON names clients send.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &echoValidator{v: v}
}

// summarizer lets a request replace per-field messages with a single one.
type summarizer interface {
	validationMessage() string
}

// nestedLabels names the checkout blocks whose missing fields get their own prefix.
var nestedLabels = map[string]string{
	"shipping_info": "shipping",
	"payment_info":  "payment",
}

// Validate satisfies the echo.Validator interface. Only the first failing field
// is reported, as a domain validation error so the central handler renders 400.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	if s, ok := i.(summarizer); ok {
		return domain.Invalid(s.validationMessage())
	}
	return domain.Invalid(fieldError(ve[0]))
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if label := parentLabel(fe); label != "" {
			return "missing " + label + " field: " + field
		}
		return "missing field: " + field
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// parentLabel returns the nestedLabels entry for the struct holding fe, if any.
func parentLabel(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) < 3 {
		return ""
	}
	return nestedLabels[parts[len(parts)-2]]
}
