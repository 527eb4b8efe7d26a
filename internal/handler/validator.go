package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rcsinavim/arena/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("answerkind", validateAnswerKind)
	_ = v.RegisterValidation("swipeoutcome", validateSwipeOutcome)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// without leaking internal struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "uuid":
			errs[field] = "Must be a valid UUID"
		case "answerkind":
			errs[field] = "Must be 'drawing' or 'swipe'"
		case "swipeoutcome":
			errs[field] = "Must be 'pass', 'hit' or 'critical'"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func validateAnswerKind(fl validator.FieldLevel) bool {
	kind := fl.Field().String()
	if kind == "" {
		return true
	}
	return domain.AnswerKind(kind) == domain.AnswerKindDrawing ||
		domain.AnswerKind(kind) == domain.AnswerKindSwipe
}

func validateSwipeOutcome(fl validator.FieldLevel) bool {
	outcome := fl.Field().String()
	if outcome == "" {
		return true
	}
	switch domain.SwipeOutcome(outcome) {
	case domain.SwipePass, domain.SwipeHit, domain.SwipeCritical:
		return true
	}
	return false
}
