package colouring

import (
	"strings"

	"github.com/matzehuels/bicolour/pkg/errors"
)

// Colour is one of the two vertex colours.
type Colour string

const (
	Black Colour = "black"
	White Colour = "white"
)

// Relaxation weights.
const (
	SelfWeight      = 1.5
	NeighbourWeight = 1.0
)

// ParseColour accepts "black"/"white" in any case, and "b"/"w".
func ParseColour(s string) (Colour, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	}
	return "", errors.New(errors.ErrCodeInvalidColour, "invalid colour %q (must be 'black' or 'white')", s)
}

// Valid reports whether c is Black or White.
func (c Colour) Valid() bool { return c == Black || c == White }

// Opposite returns the other colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

func (c Colour) String() string { return string(c) }
