package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax indicates query parsing failures.
var ErrSyntax = errors.New("invalid query syntax")

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}
