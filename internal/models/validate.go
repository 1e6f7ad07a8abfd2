package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Custom validation tags.
const (
	tagEmail    = "email_lite"
	tagColor    = "tag_color"
	tagPassword = "password_bytes"
)

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
)

// Field rules shared by Create and the setters.
const (
	ruleUsername    = "required,min=3,max=20"
	ruleEmail       = "required," + tagEmail
	rulePassword    = "required," + tagPassword
	ruleTitle       = "required,min=1,max=50"
	ruleDescription = "required,min=1,max=255"
	ruleTagName     = "required,min=1,max=20"
	ruleTagColor    = "required,min=1,max=20," + tagColor
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})

	mustRegister(v, tagEmail, emailPattern)
	mustRegister(v, tagColor, colorPattern)
	if err := v.RegisterValidation(tagPassword, func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	}); err != nil {
		panic(err)
	}
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// checkField validates a single value against rule and names it field in
// the returned error.
func checkField(field, value, rule string) error {
	if err := validate.Var(value, rule); err != nil {
		return validationError(field, err)
	}
	return nil
}

// checkStruct validates the struct tags of an attribute set.
func checkStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return validationError("", err)
	}
	return nil
}

// validationError converts the first validator failure into an
// ErrInvalidField with a readable message.
func validationError(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %s: %v", types.ErrInvalidField, field, err)
	}
	fe := verrs[0]
	if field == "" {
		field = fe.Field()
	}
	return fmt.Errorf("%w: %s %s", types.ErrInvalidField, field, describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case tagEmail:
		return "must be a valid email address"
	case tagColor:
		return "must be a color like #RRGGBB or #RGB"
	case tagPassword:
		return fmt.Sprintf("must not exceed %d bytes", maxPasswordBytes)
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
