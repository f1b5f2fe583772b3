// Package validation evaluates the constraints declared on config structs.
// Field level constraints are declared with `validate` struct tags and
// cross-field rules are provided by the config struct itself through the
// Validatable interface.
package validation

import (
	"fmt"
	"strings"

	"github.com/signalfx/go-metrics-collectd/internal/utils"
	validator "gopkg.in/go-playground/validator.v9"
)

// Validatable should be implemented by config structs that want to provide
// validation when the config is loaded.
type Validatable interface {
	Validate() error
}

// FieldError is a single violated field constraint
type FieldError struct {
	// The YAML key of the field
	Field string
	// The name of the constraint that failed (e.g. "required", "max")
	Tag string
	// The constraint parameter, if any (e.g. "65535" for max=65535)
	Param string
}

func (fe FieldError) String() string {
	if fe.Param != "" {
		return fmt.Sprintf("Validation error in field '%s': %s=%s", fe.Field, fe.Tag, fe.Param)
	}
	return fmt.Sprintf("Validation error in field '%s': %s", fe.Field, fe.Tag)
}

// StructError holds all of the field errors found on a single struct
type StructError struct {
	FieldErrors []FieldError
}

func (se *StructError) Error() string {
	var msgs []string
	for _, fe := range se.FieldErrors {
		msgs = append(msgs, fe.String())
	}
	return strings.Join(msgs, "; ")
}

// HasField returns true if there is an error on the field with the given
// YAML key
func (se *StructError) HasField(field string) bool {
	for _, fe := range se.FieldErrors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ValidateCustomConfig for module-specific config ahead of time for a specific
// module configuration.  This way, the Build method of reporters will be
// guaranteed to receive valid configuration.  Config structs that don't
// implement Validatable have no custom rules and always pass.
func ValidateCustomConfig(conf interface{}) error {
	if v, ok := conf.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

var validate = validator.New()

// Violations uses the `validate` struct tags to do standard validation and
// returns every field constraint that is not satisfied.  An empty result
// means the struct is valid.
func Violations(confStruct interface{}) ([]FieldError, error) {
	err := validate.Struct(confStruct)
	if err == nil {
		return nil, nil
	}

	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	var out []FieldError
	for _, e := range ves {
		out = append(out, FieldError{
			Field: utils.FirstNonEmpty(utils.YAMLNameOfFieldInStruct(e.StructField(), confStruct), e.Field()),
			Tag:   e.Tag(),
			Param: e.Param(),
		})
	}
	return out, nil
}

// ValidateStruct is the error returning form of Violations.  The returned
// error is a *StructError if any field constraint was violated.
func ValidateStruct(confStruct interface{}) error {
	fieldErrors, err := Violations(confStruct)
	if err != nil {
		return err
	}
	if len(fieldErrors) > 0 {
		return &StructError{FieldErrors: fieldErrors}
	}
	return nil
}
