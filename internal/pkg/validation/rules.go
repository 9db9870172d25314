package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email  *regexp.Regexp
	Letter *regexp.Regexp
	Digit  *regexp.Regexp
}{
	Email:  regexp.MustCompile(EmailPattern),
	Letter: regexp.MustCompile(`[A-Za-z]`),
	Digit:  regexp.MustCompile(`[0-9]`),
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}
	if !v.Required && v.Value == "" {
		return true
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// ValidatePassword checks the password policy: at least PasswordMinLength
// characters with at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength {
		return apperrors.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", PasswordMinLength))
	}
	if !CompiledPatterns.Letter.MatchString(password) || !CompiledPatterns.Digit.MatchString(password) {
		return apperrors.NewValidationError("password", "password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateEmail checks the email format after lower-casing
func ValidateEmail(email string) error {
	if !NewStringValidation(strings.ToLower(email)).WithRequired(true).WithPattern(CompiledPatterns.Email).Validate() {
		return apperrors.NewValidationError("email", "email format is invalid")
	}
	return nil
}

// ValidateFullName checks the trimmed name length
func ValidateFullName(name string) error {
	ok := NewStringValidation(strings.TrimSpace(name)).
		WithRequired(true).
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		Validate()
	if !ok {
		return apperrors.NewValidationError("fullName", fmt.Sprintf("full name must be between %d and %d characters", NameMinLength, NameMaxLength))
	}
	return nil
}

// RegisterRules adds the custom tags used by request DTOs and makes field
// errors report JSON field names.
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	if err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	}); err != nil {
		return err
	}

	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.RoleType(fl.Field().String()).IsValid()
	})
}

var setupOnce sync.Once

// SetupGinValidator registers the custom rules on gin's binding engine.
// Safe to call more than once.
func SetupGinValidator() error {
	var err error
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		err = RegisterRules(v)
	})
	return err
}
