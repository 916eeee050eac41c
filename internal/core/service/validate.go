package service

import "github.com/carepoint/portal-client/internal/core/validation"

func validateForm(form any) error {
	return validation.Struct(form)
}
