package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"fallacyfinder/internal/models"
)

// Validator checks request structs declared with `validate` tags
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON names and knows the
// custom tags difficulty and playername
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDifficulty(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("playername", func(fl validator.FieldLevel) bool {
		return ValidPlayerName(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s and converts the first failure into a models.ValidationError
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	return models.ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "difficulty":
		return "must be one of Easy, Medium, Hard"
	case "playername":
		return "must not contain control characters"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ValidPlayerName reports whether name is free of control characters such as tabs and newlines
func ValidPlayerName(name string) bool {
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
