package order

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	orderNumberPrefix   = "NK-"
	orderNumberAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	orderNumberLength   = 8
)

// NumberGenerator produces human-facing order numbers such as NK-7Q4M2ZKD.
type NumberGenerator func() string

// NewNumberGenerator returns a generator backed by nanoid over an unambiguous
// uppercase alphabet (no I or O).
func NewNumberGenerator() (NumberGenerator, error) {
	gen, err := nanoid.CustomASCII(orderNumberAlphabet, orderNumberLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create order number generator: %w", err)
	}
	return func() string {
		return orderNumberPrefix + gen()
	}, nil
}
