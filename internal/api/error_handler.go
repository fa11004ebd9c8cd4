package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/api/handler"
	"github.com/devconnector/profile-api/internal/core/domain"
)

// msgResponse is the envelope for single-message errors: {"msg": "..."}.
type msgResponse struct {
	Msg string `json:"msg"`
}

// errorsResponse is the envelope for field-level failures and credential
// rejections: {"errors":[{"msg": "..."}]}.
type errorsResponse struct {
	Errors []handler.FieldMessage `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders validation failures as a structured field-message list.
//   - Maps known domain errors to their status codes and reference messages.
//   - Logs unexpected errors internally and returns an opaque server error,
//     never leaking store or hash details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *handler.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, errorsResponse{Errors: ve.Errors})
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, msgResponse{Msg: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors. Credential failures share one message so callers
	// cannot tell an unknown email from a wrong password; not-found paths
	// return 400 for reference-API compatibility.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, errorsResponse{Errors: []handler.FieldMessage{{Msg: "Invalid credentials"}}}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, errorsResponse{Errors: []handler.FieldMessage{{Msg: "User already exists"}}}
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusBadRequest, msgResponse{Msg: "Profile not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, msgResponse{Msg: "User not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, msgResponse{Msg: "Server Error"}
}
