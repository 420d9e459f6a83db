package sqlclause

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is wrapped by every error about SQL the translator does
	// not handle.
	ErrUnsupported = errors.New("unsupported feature or query type")

	// ErrUndefined is wrapped by errors about names that do not resolve.
	ErrUndefined = errors.New("undefined object")
)

func newUnsupportedError(err error) error {
	return fmt.Errorf("%w: %w", ErrUnsupported, err)
}

func newUndefinedError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUndefined, fmt.Sprintf(format, args...))
}
