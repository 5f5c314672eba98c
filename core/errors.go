package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrNotFound = errors.New("post not found")

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []string
	msg    string
}

func (e *ValidationError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func validationErrorFrom(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range errs {
		verr.Fields = append(verr.Fields, fe.Namespace())
	}
	return verr
}
