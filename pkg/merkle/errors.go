package merkle

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a tree is requested for zero leaves.
var ErrEmptyInput = errors.New("cannot build merkle tree from empty leaf list")

// MalformedInputError reports a structurally invalid value: a hash of the wrong
// width, an out-of-range token id or leaf index, or a bad address encoding.
type MalformedInputError struct {
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s: %s", e.Field, e.Reason)
}

// NewMalformedInputError builds a MalformedInputError with a formatted reason.
func NewMalformedInputError(field string, format string, args ...interface{}) *MalformedInputError {
	return &MalformedInputError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// IsMalformedInput reports whether err wraps a MalformedInputError.
func IsMalformedInput(err error) bool {
	var target *MalformedInputError
	return errors.As(err, &target)
}
