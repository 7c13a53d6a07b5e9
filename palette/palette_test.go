package palette_test

import (
	"encoding/json"
	"errors"
	"testing"

	"smoothlife-panel/palette"
)

func twoStop(gt palette.GradientType) palette.Palette {
	p := palette.Default()
	p.GradientType = gt
	return p
}

func TestParseColor(t *testing.T) {
	c, err := palette.ParseColor("#158a34")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c != (palette.Color{R: 0x15, G: 0x8a, B: 0x34}) {
		t.Fatalf("unexpected channels: %+v", c)
	}
	if c.Hex() != "#158a34" {
		t.Fatalf("expected #158a34, got %s", c.Hex())
	}
}

func TestParseColorRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "#", "158a34", "#fff", "#12345", "#1234567", "#gggggg", "red"} {
		if _, err := palette.ParseColor(s); !errors.Is(err, palette.ErrInvalidColor) {
			t.Fatalf("ParseColor(%q): expected ErrInvalidColor, got %v", s, err)
		}
	}
}

func TestHexZeroPads(t *testing.T) {
	c := palette.Color{R: 0, G: 0, B: 5}
	if got := c.Hex(); got != "#000005" {
		t.Fatalf("expected #000005, got %s", got)
	}
}

func TestColorAtEmptyIsBlack(t *testing.T) {
	p := palette.Palette{}
	if got := p.ColorAt(42); got != palette.Black {
		t.Fatalf("expected black, got %s", got)
	}
}

func TestColorAtMidpointTruncates(t *testing.T) {
	p := twoStop(palette.Clamped)
	if got := p.ColorAt(50).Hex(); got != "#7f7f7f" {
		t.Fatalf("expected #7f7f7f, got %s", got)
	}
}

func TestColorAtClampsBothEnds(t *testing.T) {
	p := palette.Palette{
		Stops: []palette.ColorStop{
			{Color: palette.MustParseColor("#000000"), Stop: 3},
			{Color: palette.MustParseColor("#f5f5c1"), Stop: 12},
			{Color: palette.MustParseColor("#158a34"), Stop: 68},
			{Color: palette.MustParseColor("#89e681"), Stop: 100},
		},
	}
	for _, v := range []float64{-50, 0, 2.999} {
		if got := p.ColorAt(v); got != p.Stops[0].Color {
			t.Fatalf("ColorAt(%v): expected first color, got %s", v, got)
		}
	}
	for _, v := range []float64{100, 100.5, 1e6} {
		if got := p.ColorAt(v); got != p.Stops[3].Color {
			t.Fatalf("ColorAt(%v): expected last color, got %s", v, got)
		}
	}
}

func TestColorAtInterpolatesEachChannel(t *testing.T) {
	p := palette.Palette{
		Stops: []palette.ColorStop{
			{Color: palette.Color{R: 0, G: 100, B: 200}, Stop: 0},
			{Color: palette.Color{R: 200, G: 100, B: 0}, Stop: 10},
		},
	}
	got := p.ColorAt(2.5)
	want := palette.Color{R: 50, G: 100, B: 150}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestColorAtRepeatingWraps(t *testing.T) {
	p := twoStop(palette.Repeating)
	if a, b := p.ColorAt(150), p.ColorAt(50); a != b {
		t.Fatalf("ColorAt(150)=%s, ColorAt(50)=%s", a, b)
	}
	if a, b := p.ColorAt(-10), p.ColorAt(90); a != b {
		t.Fatalf("ColorAt(-10)=%s, ColorAt(90)=%s", a, b)
	}
	if a, b := p.ColorAt(-250), p.ColorAt(50); a != b {
		t.Fatalf("ColorAt(-250)=%s, ColorAt(50)=%s", a, b)
	}
}

func TestColorAtRepeatingZeroRange(t *testing.T) {
	p := palette.Palette{
		GradientType: palette.Repeating,
		Stops: []palette.ColorStop{
			{Color: palette.MustParseColor("#ff0000"), Stop: 20},
			{Color: palette.MustParseColor("#00ff00"), Stop: 20},
		},
	}
	if got := p.ColorAt(5); got != p.Stops[0].Color {
		t.Fatalf("below: expected first color, got %s", got)
	}
	if got := p.ColorAt(30); got != p.Stops[1].Color {
		t.Fatalf("above: expected last color, got %s", got)
	}
}

func TestColorAtSkipsOutOfOrderStops(t *testing.T) {
	// Second pair is inverted (99 -> 46); the running minimum must skip it.
	p := palette.Palette{
		Stops: []palette.ColorStop{
			{Color: palette.MustParseColor("#000000"), Stop: 0},
			{Color: palette.MustParseColor("#ffffff"), Stop: 99},
			{Color: palette.MustParseColor("#ff0000"), Stop: 46},
		},
	}
	if got := p.ColorAt(46); got == p.Stops[2].Color {
		t.Fatalf("inverted pair should not match, got %s", got)
	}
	if got := p.ColorAt(99.5); got != p.Stops[2].Color {
		t.Fatalf("past the end: expected last color, got %s", got)
	}
}

func TestColorAtNegativeDomain(t *testing.T) {
	// The running lower bound starts at the first stop, so a domain below
	// zero still interpolates.
	p := palette.Palette{
		Stops: []palette.ColorStop{
			{Color: palette.Black, Stop: -10},
			{Color: palette.MustParseColor("#ffffff"), Stop: 10},
		},
	}
	if got := p.ColorAt(-5).Hex(); got != "#3f3f3f" {
		t.Fatalf("ColorAt(-5): expected #3f3f3f, got %s", got)
	}
	if got := p.ColorAt(0).Hex(); got != "#7f7f7f" {
		t.Fatalf("ColorAt(0): expected #7f7f7f, got %s", got)
	}
}

func TestCloneIsolation(t *testing.T) {
	p := palette.Default()
	c := p.Clone()
	c.Stops[0].Color = palette.White
	if p.Stops[0].Color != palette.Black {
		t.Fatal("Clone shares stop storage with the original")
	}
	if p.Equal(c) {
		t.Fatal("expected palettes to differ after mutation")
	}
}

func TestPaletteJSON(t *testing.T) {
	data, err := json.Marshal(palette.Default())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"gradientType":0,"colorstops":[{"color":"#000000","stop":0},{"color":"#ffffff","stop":100}]}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var bad palette.Palette
	if err := json.Unmarshal([]byte(`{"colorstops":[{"color":"nope","stop":1}]}`), &bad); err == nil {
		t.Fatal("expected error for malformed color")
	}
}

func TestRender(t *testing.T) {
	img := twoStop(palette.Clamped).Render(100, 2)
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 2 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if c := img.RGBAAt(0, 1); c.R != 0 || c.A != 0xff {
		t.Fatalf("expected opaque black at x=0, got %+v", c)
	}
	if c := img.RGBAAt(50, 0); c.R != 0x7f {
		t.Fatalf("expected 0x7f at x=50, got %+v", c)
	}
}
