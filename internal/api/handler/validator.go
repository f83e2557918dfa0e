package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns the echo.Validator used by every handler. It adds the
// "expiry" tag for MM/YY card dates.
func NewValidator() *echoValidator {
	v := validator.New()
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return &echoValidator{v: v}
}

func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "expiry":
		return field + " must be MM/YY"
	case "number":
		return field + " must contain only digits"
	case "credit_card":
		return field + " is not a valid card number"
	case "url":
		return field + " must be a URL"
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
