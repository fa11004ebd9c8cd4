package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldMessage is a single field-level validation failure as surfaced to the
// client.
type FieldMessage struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ValidationError aggregates all field failures of one request body.
type ValidationError struct {
	Errors []FieldMessage
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Msg)
	}
	return strings.Join(msgs, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface. Struct failures come back
// as a *ValidationError so the central error handler can render the
// field-level list.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]FieldMessage, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fieldError(fe))
			}
			return &ValidationError{Errors: fields}
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a client-facing message.
func fieldError(fe validator.FieldError) FieldMessage {
	field := strings.ToLower(fe.Field())
	msg := FieldMessage{Param: field}
	switch fe.Tag() {
	case "required":
		msg.Msg = field + " is required"
	case "email":
		msg.Msg = field + " must be a valid email"
	case "min":
		msg.Msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		msg.Msg = fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	return msg
}
