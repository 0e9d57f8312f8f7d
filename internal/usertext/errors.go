package usertext

import (
	"errors"
	"fmt"
)

// ErrArityMismatch is returned by batch mutations whose parallel inputs
// differ in length. Nothing is applied when it is returned.
var ErrArityMismatch = errors.New("usertext: arity mismatch")

func arityError(what string, n, m int) error {
	return fmt.Errorf("%w: %d %s but %d values", ErrArityMismatch, n, what, m)
}
