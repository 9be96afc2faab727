// internal/validator/validator.go
package validator

import (
	"regexp"
	"strings"

	"baniya/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var (
	nonSpace     = regexp.MustCompile(`\S`)
	platformName = regexp.MustCompile(`^[a-z0-9][a-z0-9 _-]{0,31}$`)
)

func init() {
	Validate = validator.New()

	// at least one non-space character
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	// blinkit, instamart, zepto, ... in any case
	_ = Validate.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return IsPlatform(fl.Field().String())
	})

	_ = Validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseCategory(fl.Field().String())
		return ok
	})
}

func IsPlatform(s string) bool {
	return platformName.MatchString(strings.ToLower(strings.TrimSpace(s)))
}
