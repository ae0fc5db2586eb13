package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"language-enricher/internal/common/errors"
)

// StructValidator validates tagged structs using go-playground/validator
type StructValidator struct {
	validator *validator.Validate
}

// NewStructValidator creates a validator with the service's custom tags
// registered:
//   - serverurl: the field must pass IsValidURL
func NewStructValidator() *StructValidator {
	v := validator.New()

	_ = v.RegisterValidation("serverurl", func(fl validator.FieldLevel) bool {
		return IsValidURL(fl.Field().String())
	})

	// Report env tag names so errors name the variable to fix
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("env"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &StructValidator{validator: v}
}

// ValidateStruct validates s and returns a config error listing every failed field
func (sv *StructValidator) ValidateStruct(s interface{}) error {
	err := sv.validator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ConfigError(err.Error())
	}

	messages := make([]string, len(validationErrors))
	for i, fieldErr := range validationErrors {
		messages[i] = formatFieldError(fieldErr)
	}

	return errors.ConfigError(strings.Join(messages, "; "))
}

func formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "serverurl":
		return fmt.Sprintf("%s is not a valid URL", err.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be a host:port address", err.Field())
	default:
		return fmt.Sprintf("%s failed validation: %s", err.Field(), err.Tag())
	}
}
