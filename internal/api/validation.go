package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wealth-planner/internal/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report violations under the wire field name, not the Go field name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateRequest runs the validate tags on a decoded request body and
// converts the first violation into a ServiceError that respondServiceError
// renders as a 400. Cross-field and enum rules stay in the service layer;
// these tags only cover shape problems a handler can reject outright.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if errors.As(err, &violations) {
		fe := violations[0]
		return &types.ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: fieldErrorMessage(fe),
			Details: map[string]interface{}{
				"field": fe.Field(),
				"rule":  fe.Tag(),
			},
		}
	}

	return &types.ServiceError{
		Code:    ErrCodeInvalidInput,
		Message: "Invalid request body",
	}
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on rule %s", field, fe.Tag())
	}
}
