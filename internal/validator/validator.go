package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// classListPattern accepts a space separated list of CSS class names.
var classListPattern = regexp.MustCompile(`^[A-Za-z_-][A-Za-z0-9_-]*( +[A-Za-z_-][A-Za-z0-9_-]*)*$`)

// New creates a new validator instance with custom validations registered.
// Config loading, request handlers and tests all share this setup.
func New() *validator.Validate {
	v := validator.New()

	// "notblank" rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// "classlist" accepts what a page section's class attribute may hold.
	// It checks shape only; the service accepts a section only if the link was rendered in it.
	_ = v.RegisterValidation("classlist", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return classListPattern.MatchString(str)
	})

	return v
}
