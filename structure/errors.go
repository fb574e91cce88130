package structure

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("The requested resource could not be found.")
	ErrForbidden  = errors.New("You are not allowed to access this resource.")
	ErrValidation = errors.New("The website structure is invalid.")
	ErrConflict   = errors.New("The website structure has changed since it was last read.")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field string, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}

	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))

	for k := range e.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := []string{}

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}

	return fmt.Sprintf("%s %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
