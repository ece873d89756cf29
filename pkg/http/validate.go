package http

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// decimals validate as their float value so gte/lte work on them
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// ValidateStruct applies defaults and validation tags to req.
func ValidateStruct(ctx context.Context, req interface{}) error {
	if err := defaults.Set(req); err != nil {
		return err
	}
	return validate.StructCtx(ctx, req)
}

// ValidationErrors converts a bind or validation failure into response
// details, one per rejected field.
func ValidationErrors(err error) []ValidationError {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, ValidationError{
				Code:    "ERR_" + strings.ToUpper(fe.Tag()),
				Field:   fe.Field(),
				Message: fieldMessage(fe),
				Params:  fieldParams(fe),
			})
		}
		return out
	}

	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	return []ValidationError{{Code: "ERR_UNKNOWN", Message: msg}}
}

var boundPhrases = map[string]string{
	"gt":  "greater than",
	"gte": "greater than or equal to",
	"lt":  "less than",
	"lte": "less than or equal to",
	"min": "at least",
	"max": "at most",
}

func fieldMessage(fe validator.FieldError) string {
	field, tag := fe.Field(), fe.Tag()
	if tag == "required" {
		return field + " is required"
	}
	phrase, ok := boundPhrases[tag]
	if !ok {
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
	if fe.Kind() == reflect.String && (tag == "min" || tag == "max") {
		return fmt.Sprintf("%s must be %s %s characters", field, phrase, fe.Param())
	}
	return fmt.Sprintf("%s must be %s %s", field, phrase, fe.Param())
}

func fieldParams(fe validator.FieldError) map[string]interface{} {
	switch fe.Tag() {
	case "min", "gte":
		return map[string]interface{}{"min": fe.Param()}
	case "max", "lte":
		return map[string]interface{}{"max": fe.Param()}
	case "gt", "lt":
		return map[string]interface{}{"value": fe.Param()}
	}
	return nil
}
