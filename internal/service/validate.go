package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateInput checks struct tags on a service input and reports the
// first failure as a *domain.ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating input: %w", err)
	}
	fe := verrs[0]
	field := fe.Field()
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min":
		reason = "must have at least " + fe.Param() + " entries"
	case "max":
		reason = "must be at most " + fe.Param() + " characters"
	case "gte":
		reason = "must be at least " + fe.Param()
	default:
		reason = "is invalid"
	}
	return &domain.ValidationError{Field: field, Reason: reason}
}

// validateActor checks the caller identity on mutating calls.
func validateActor(a domain.Actor) error {
	return a.Validate()
}

// checkExpectedVersion compares a caller-supplied version with the stored
// one before any write happens.
func checkExpectedVersion(entity, id string, expected *int, actual int) error {
	if expected == nil || *expected == actual {
		return nil
	}
	return &domain.ConflictError{Entity: entity, ID: id, Expected: *expected, Actual: actual}
}
