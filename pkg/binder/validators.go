package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// usernameValidator restricts handles to characters that are safe to embed in
// logs and paths. Length limits are handled by min/max tags.
func usernameValidator(fl validator.FieldLevel) bool {
	return usernameRE.MatchString(fl.Field().String())
}
