// Package handler exposes the HTTP API over echo.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error envelope. The message is the full domain
// error message; this is an operator tool, so detail beats opacity.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ErrorResponse writes a JSON error response derived from a domain error.
// Internal errors are logged with the full chain before responding.
func ErrorResponse(c echo.Context, logger zerolog.Logger, err error) error {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("path", c.Request().URL.Path).
			Msg("request failed")
	}

	return c.JSON(status, errorBody{
		Error: domain.ErrorMessage(err),
		Code:  code,
	})
}
