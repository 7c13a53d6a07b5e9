package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// GradientType selects how values outside the stop range are mapped.
type GradientType int

const (
	Clamped   GradientType = 0
	Repeating GradientType = 1
)

var ErrBadGradientType = errors.New("gradient type must be 0 (clamped) or 1 (repeating)")

func (g GradientType) Valid() bool {
	return g == Clamped || g == Repeating
}

// ColorStop places a color at a position, nominally 0..100.
type ColorStop struct {
	Color Color   `json:"color"`
	Stop  float64 `json:"stop"`
}

// Palette is an ordered list of color stops. Stops are kept in the order the
// user arranged them; they are not required to be sorted by position.
type Palette struct {
	GradientType GradientType `json:"gradientType"`
	Stops        []ColorStop  `json:"colorstops"`
}

// Default returns black at 0 and white at 100, clamped.
func Default() Palette {
	return Palette{
		GradientType: Clamped,
		Stops: []ColorStop{
			{Color: Black, Stop: 0},
			{Color: White, Stop: 100},
		},
	}
}

// Clone returns a deep copy.
func (p Palette) Clone() Palette {
	stops := make([]ColorStop, len(p.Stops))
	copy(stops, p.Stops)
	return Palette{GradientType: p.GradientType, Stops: stops}
}

// Equal reports structural equality.
func (p Palette) Equal(o Palette) bool {
	if p.GradientType != o.GradientType || len(p.Stops) != len(o.Stops) {
		return false
	}
	for i := range p.Stops {
		if p.Stops[i] != o.Stops[i] {
			return false
		}
	}
	return true
}

// Validate checks the gradient type and stop positions.
func (p Palette) Validate() error {
	if !p.GradientType.Valid() {
		return fmt.Errorf("%w: %d", ErrBadGradientType, p.GradientType)
	}
	for i, s := range p.Stops {
		if math.IsNaN(s.Stop) || math.IsInf(s.Stop, 0) {
			return fmt.Errorf("stop %d: position is not finite", i)
		}
	}
	return nil
}

// ColorAt maps value to a color.
//
// The domain runs from the first stop to the largest stop. Below it the
// first color is returned, at or past the end the last one. Repeating
// palettes wrap value into the domain first, negative values included. A
// repeating palette whose stops all share one position does not wrap.
func (p Palette) ColorAt(value float64) Color {
	stops := p.Stops
	if len(stops) == 0 {
		return Black
	}

	minStop := stops[0].Stop
	maxStop := minStop
	for _, s := range stops[1:] {
		maxStop = math.Max(maxStop, s.Stop)
	}
	stopRange := maxStop - minStop

	if p.GradientType == Repeating && stopRange > 0 {
		value = nonNegativeMod(value-minStop, stopRange) + minStop
	}

	if value < minStop {
		return stops[0].Color
	}

	// Seeded with the first stop so domains below zero interpolate.
	rangeMin := minStop
	for i := 0; i < len(stops)-1; i++ {
		rangeMin = math.Max(rangeMin, stops[i].Stop)
		rangeMax := stops[i+1].Stop
		if rangeMin >= rangeMax {
			continue
		}
		if value < rangeMin || value > rangeMax {
			continue
		}
		t := (value - rangeMin) / (rangeMax - rangeMin)
		return mix(stops[i].Color, stops[i+1].Color, t)
	}

	return stops[len(stops)-1].Color
}

func nonNegativeMod(x, y float64) float64 {
	return math.Mod(math.Mod(x, y)+y, y)
}

// Render rasterizes the palette over values 0..100 from left to right.
func (p Palette) Render(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	for x := 0; x < width; x++ {
		value := 100 * float64(x) / float64(width)
		c := p.ColorAt(value)
		rgba := color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
		for y := 0; y < height; y++ {
			img.SetRGBA(x, y, rgba)
		}
	}
	return img
}
