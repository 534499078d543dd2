// Package validation provides request payload validation using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/clockworkapp/clockwork-server/internal/domain"
	domainerrors "github.com/clockworkapp/clockwork-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
// Violations are collected in declaration order and reported together, so
// a client fixing a bad payload sees every problem in one round trip.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	v.RegisterStructValidation(recordPayloadRules, domain.RecordPayload{})

	return &Validator{v: v}
}

// recordPayloadRules covers cross-field constraints the tag syntax cannot
// express. The ordering check only fires when both timestamps parse; a
// malformed timestamp is already reported by its datetime tag.
func recordPayloadRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(domain.RecordPayload)
	if !p.TimesOrdered() {
		sl.ReportError(p.EndTime, "EndTime", "end_time", "endafterstart", "")
	}
}

// Validate validates a struct and returns a domain error carrying the
// full ordered list of violations in its details.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Field order in the struct determines report order.
	violations := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		violations = append(violations, e.Field()+" "+v.friendlyMessage(e))
	}

	return domainerrors.ValidationWithDetails("validation failed", violations)
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		if e.Param() == domain.DateLayout {
			return "must be a valid date in YYYY-MM-DD form"
		}
		return "must be a valid RFC 3339 timestamp"
	case "endafterstart":
		return "must be after start_time"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "is invalid"
	}
}
