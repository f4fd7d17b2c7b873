// Package color derives lighter and darker variants of event colours for
// gradient fills.
package color

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned for anything that is not six hex
// digits with an optional leading '#'.
var ErrInvalidColorFormat = errors.New("invalid color format")

// Adjust adds amount to each RGB channel of hex, clamping every channel to
// [0, 255]. A negative amount darkens. The result is six lower-case hex
// digits and carries a '#' only if the input did.
func Adjust(hex string, amount int) (string, error) {
	digits, pound := strings.CutPrefix(hex, "#")
	if !isHex6(digits) {
		return "", fmt.Errorf("color: %q: %w", hex, ErrInvalidColorFormat)
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return "", fmt.Errorf("color: %q: %w", hex, ErrInvalidColorFormat)
	}
	r, g, b := c.RGB255()

	out := colorful.Color{
		R: float64(shift(r, amount)) / 255,
		G: float64(shift(g, amount)) / 255,
		B: float64(shift(b, amount)) / 255,
	}.Hex()

	if pound {
		return out, nil
	}
	return out[1:], nil
}

// Valid reports whether hex would be accepted by Adjust.
func Valid(hex string) bool {
	return isHex6(strings.TrimPrefix(hex, "#"))
}

func shift(ch uint8, amount int) uint8 {
	v := int(ch) + amount
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

func isHex6(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
