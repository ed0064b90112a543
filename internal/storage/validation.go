package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/lovetype/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDiagnosis = errors.New("invalid diagnosis")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDiagnosis checks that a diagnosis is complete enough to hand off.
func validateDiagnosis(d *model.Diagnosis) error {
	if d == nil {
		return fmt.Errorf("%w: diagnosis", ErrNilParameter)
	}
	if d.Request.Primary.IsEmpty() || d.Request.Partner.IsEmpty() {
		return fmt.Errorf("%w: request pair is incomplete", ErrInvalidDiagnosis)
	}
	return nil
}
