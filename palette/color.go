package palette

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColor = errors.New("invalid color, want #rrggbb")

// Color is a 24-bit RGB color. Its text form is "#rrggbb".
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{0xff, 0xff, 0xff}
)

// ParseColor parses a "#rrggbb" string.
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' || !isHex(s[1:]) {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case '0' <= r && r <= '9', 'a' <= r && r <= 'f', 'A' <= r && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// MustParseColor is ParseColor for literals; it panics on bad input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic("MustParseColor: " + err.Error())
	}
	return c
}

// Uint32 packs the channels as 0xrrggbb.
func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns the zero-padded "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", c.Uint32())
}

func (c Color) String() string { return c.Hex() }

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// mix blends a and b channel by channel. Results are truncated, so the
// midpoint of black and white is #7f7f7f.
func mix(a, b Color, t float64) Color {
	return Color{
		R: mixChannel(a.R, b.R, t),
		G: mixChannel(a.G, b.G, t),
		B: mixChannel(a.B, b.B, t),
	}
}

func mixChannel(c0, c1 uint8, t float64) uint8 {
	v := float64(c0)*(1-t) + float64(c1)*t
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
