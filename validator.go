package flagx

import (
	"github.com/go-playground/validator/v10"

	"go.eggybyte.com/flagx/core/errors"
)

// ValidatorOption configures the validator.
type ValidatorOption func(*validator.Validate)

// NewValidator creates a validator instance for bound configuration
// structs.
func NewValidator(opts ...ValidatorOption) *validator.Validate {
	v := validator.New()
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateStruct validates a bound configuration struct using validator
// tags. Pass nil to use a fresh validator.
func ValidateStruct(v *validator.Validate, target any) error {
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(target); err != nil {
		return errors.Wrap(errors.CodeInvalidArgument, "config.validate", err)
	}
	return nil
}
