package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var errInvalidJSON = errors.New("invalid json")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the validate tags of a request DTO and reports the first
// failing field.
func Validate(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid email", fe.Field())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Errorf("%s must be a uuid", fe.Field())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}
