package usecase

import (
	"errors"
	"reflect"
	"strings"

	"admin_console/internal/domain"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// formError turns validator output into a ValidationError keyed by JSON field name.
func formError(op string, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &domain.ValidationError{Op: op, Message: "Invalid form values"}
	}

	fields := make(map[string]string, len(ve))
	names := make([]string, 0, len(ve))
	for _, fe := range ve {
		key := fe.Field()
		if _, dup := fields[key]; !dup {
			names = append(names, key)
		}
		fields[key] = messageForTag(fe.Tag(), fe.Param())
	}
	return &domain.ValidationError{
		Op:      op,
		Message: "Please check: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(param, "'", "") + "."
	case "gte":
		return "Must be at least " + param + "."
	case "max":
		return "Must be at most " + param + " characters."
	default:
		return "Invalid value."
	}
}
