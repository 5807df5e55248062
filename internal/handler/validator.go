package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/rthompsontouch/agencyops/internal/domain"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface. Validation failures come back as EINVALID domain errors so
// the error mapping stays uniform.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a RequestValidator with struct tag rules.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return domain.Invalid("request.validate", err.Error())
	}
	return nil
}
