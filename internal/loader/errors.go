package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceNotFound = errors.New("no measurement source found")
	ErrMalformedInput = errors.New("malformed measurement input")
)

// MalformedInputError names the source and what is wrong with it. It
// matches ErrMalformedInput with errors.Is.
type MalformedInputError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *MalformedInputError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Path, ErrMalformedInput)
	}
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
