package service

import (
	"errors"
	"fmt"

	"go-color-catalog/pkg/validator"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrColorNotFound    = errors.New("color not found")
	ErrProductNameTaken = errors.New("a product with this name already exists")
)

// ValidationError reports the first request field that failed validation.
type ValidationError struct {
	Field string
	Tag   string
	Param string
}

func (e *ValidationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("validation failed: field '%s' failed on tag '%s=%s'", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", e.Field, e.Tag)
}

// RowError ties an import failure to its sheet row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return &ValidationError{Field: first.FailedField, Tag: first.Tag, Param: first.Value}
}
