package services

import (
	"errors"
	"reflect"

	"restaurant/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// validateForm runs struct tag validation and converts failures into a
// *models.ValidationError. Missing fields win over format problems so the
// user sees one message at a time.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missing, mismatched, tooLong, malformed []string
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "eqfield":
			mismatched = append(mismatched, fe.Field())
		case "max":
			tooLong = append(tooLong, fe.Field())
		default:
			malformed = append(malformed, fe.Field())
		}
	}
	switch {
	case len(missing) > 0:
		return &models.ValidationError{Fields: missing, Message: "please fill in all fields"}
	case len(mismatched) > 0:
		return &models.ValidationError{Fields: mismatched, Message: "passwords do not match"}
	case len(tooLong) > 0:
		return &models.ValidationError{Fields: tooLong, Message: "too long"}
	default:
		return &models.ValidationError{Fields: malformed, Message: "invalid value"}
	}
}
