package handler

import "github.com/carepoint/portal-client/internal/core/validation"

// echoValidator lets Echo call c.Validate(req) with the same rules and
// messages the client applies before sending.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
