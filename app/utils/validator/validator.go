package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation tags understood by this service on top of the built-in ones.
const (
	TagRequired = "required"
	TagEmail    = "email"
	TagPassword = "password"
	TagRealm    = "realm"
	TagMin      = "min"
	TagMax      = "max"
)

const (
	minPasswordLength = 8
	maxRealmLength    = 255
	passwordSymbols   = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

var realmPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Validator is the echo.Validator for request DTOs. Error keys use the
// field's json, query or param name.
type Validator struct {
	validator *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)
	_ = v.RegisterValidation(TagPassword, func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	})
	_ = v.RegisterValidation(TagRealm, func(fl validator.FieldLevel) bool {
		return isValidRealm(fl.Field().String())
	})
	return &Validator{validator: v}
}

func wireName(fld reflect.StructField) string {
	for _, key := range []string{"json", "query", "param"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return fld.Name
}

// Validate checks a struct. Field failures come back as *ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return NewValidationError(fieldErrs)
	}
	return err
}

func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validator.Var(field, tag)
}

// ValidationError maps each failing field to a readable message.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + e.Errors[field]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e ValidationError) Has(field string) bool {
	_, ok := e.Errors[field]
	return ok
}

func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = describe(fe)
	}
	return &ValidationError{Errors: out}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case TagRequired:
		return field + " is required"
	case TagEmail:
		return field + " must be a valid email address"
	case TagMin:
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case TagMax:
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case TagPassword:
		return fmt.Sprintf("%s needs %d or more characters mixing upper and lower case letters, a digit and a symbol", field, minPasswordLength)
	case TagRealm:
		return "realm must contain only letters, numbers, dots, hyphens and underscores"
	default:
		return field + " is invalid"
	}
}

// IsValidPassword reports whether password meets the strength policy
// applied to new passwords.
func IsValidPassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func isValidRealm(realm string) bool {
	return len(realm) <= maxRealmLength && realmPattern.MatchString(realm)
}
