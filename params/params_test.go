package params_test

import (
	"errors"
	"math"
	"testing"

	"smoothlife-panel/palette"
	"smoothlife-panel/params"
)

var subdividers = params.Smoother{
	Timestep: 3, DT: 0.329, B1: 0.15, D1: 0.321, B2: 0.145, D2: 0.709,
	Mode: 3, Sigmoid: 2, Mix: 4, SN: 0.269, SM: 0.662,
}

func TestKernelCommand(t *testing.T) {
	k := params.Kernel{DiscRadius: 15.2, RingRadius: 32.1, BlendRadius: 7.6}
	if got := k.Command().String(); got != "SetKernel:15.2,32.1,7.6" {
		t.Fatalf("unexpected command %q", got)
	}
}

func TestSmootherCommand(t *testing.T) {
	want := "SetSmoother:3,0.329,0.15,0.321,0.145,0.709,3,2,4,0.269,0.662"
	if got := subdividers.Command().String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPaletteCommand(t *testing.T) {
	p := palette.Palette{
		GradientType: palette.Repeating,
		Stops: []palette.ColorStop{
			{Color: palette.MustParseColor("#000000"), Stop: 3},
			{Color: palette.MustParseColor("#f5f5c1"), Stop: 8.5},
		},
	}
	want := "SetPalette:1,#000000,3,#f5f5c1,8.5"
	if got := params.PaletteCommand(p).String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFixedCommands(t *testing.T) {
	cases := map[string]params.Command{
		"Clear:0":            params.Clear(0),
		"Splat":              params.Splat(),
		"SetFullscreen:true": params.SetFullscreen(true),
		"GetBuffer:7":        params.GetBuffer(7),
		"SetBrush:10,0.5":    params.Brush{Radius: 10, Color: 0.5}.Command(),
		"SetRunOptions:simulation,run": params.DefaultRunOptions().Command(),
		"SetRunOptions:noSimulation,pause": params.RunOptions{Paused: true}.Command(),
	}
	for want, cmd := range cases {
		if got := cmd.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestKernelRoundTrip(t *testing.T) {
	k := params.Kernel{DiscRadius: 7.26, RingRadius: 21.8, BlendRadius: 1}
	got, err := params.ParseKernel(params.ParseCommand(k.Command().String()))
	if err != nil {
		t.Fatalf("ParseKernel: %v", err)
	}
	if got != k {
		t.Fatalf("expected %+v, got %+v", k, got)
	}
}

func TestSmootherRoundTrip(t *testing.T) {
	got, err := params.ParseSmoother(params.ParseCommand(subdividers.Command().String()))
	if err != nil {
		t.Fatalf("ParseSmoother: %v", err)
	}
	want := subdividers.Values()
	for i, v := range got.Values() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], v)
		}
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	p := palette.Palette{
		GradientType: palette.Clamped,
		Stops: []palette.ColorStop{
			{Color: palette.MustParseColor("#36065e"), Stop: 0},
			{Color: palette.MustParseColor("#c24242"), Stop: 77},
			{Color: palette.MustParseColor("#f5c816"), Stop: 99.25},
		},
	}
	got, err := params.ParsePalette(params.ParseCommand(params.PaletteCommand(p).String()))
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("expected %+v, got %+v", p, got)
	}
}

func TestBrushParseClamps(t *testing.T) {
	b, err := params.ParseBrush(params.ParseCommand("SetBrush: 500 , -2"))
	if err != nil {
		t.Fatalf("ParseBrush: %v", err)
	}
	if b.Radius != params.MaxBrushRadius || b.Color != 0 {
		t.Fatalf("expected clamped brush, got %+v", b)
	}
}

func TestParseCommandTrimsWhitespace(t *testing.T) {
	cmd := params.ParseCommand("SetKernel: 1 ,2,  3 ")
	if cmd.Name != "SetKernel" || len(cmd.Args) != 3 || cmd.Args[2] != "3" {
		t.Fatalf("unexpected parse %+v", cmd)
	}
	if cmd := params.ParseCommand("Splat"); cmd.Name != "Splat" || cmd.Args != nil {
		t.Fatalf("unexpected parse %+v", cmd)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		fn   func() error
	}{
		{"kernel arity", func() error { _, err := params.ParseKernel(params.ParseCommand("SetKernel:1,2")); return err }},
		{"kernel negative", func() error { _, err := params.ParseKernel(params.ParseCommand("SetKernel:1,-2,3")); return err }},
		{"kernel name", func() error { _, err := params.ParseKernel(params.ParseCommand("SetSmoother:1,2,3")); return err }},
		{"smoother enum", func() error {
			_, err := params.ParseSmoother(params.ParseCommand("SetSmoother:9,0.1,0.1,0.1,0.1,0.1,0,0,0,0.1,0.1"))
			return err
		}},
		{"smoother fractional enum", func() error {
			_, err := params.ParseSmoother(params.ParseCommand("SetSmoother:1.5,0.1,0.1,0.1,0.1,0.1,0,0,0,0.1,0.1"))
			return err
		}},
		{"palette pairs", func() error { _, err := params.ParsePalette(params.ParseCommand("SetPalette:0,#000000")); return err }},
		{"palette color", func() error { _, err := params.ParsePalette(params.ParseCommand("SetPalette:0,black,1")); return err }},
		{"palette type", func() error { _, err := params.ParsePalette(params.ParseCommand("SetPalette:4")); return err }},
		{"brush number", func() error { _, err := params.ParseBrush(params.ParseCommand("SetBrush:x,1")); return err }},
	}
	for _, c := range cases {
		if err := c.fn(); !errors.Is(err, params.ErrBadArgs) {
			t.Fatalf("%s: expected ErrBadArgs, got %v", c.name, err)
		}
	}
}

func TestScreenshotCommand(t *testing.T) {
	cmd, err := params.Screenshot(3, params.FormatJPEG, "reduce 256", "crop 0.5 0.5 128")
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if got := cmd.String(); got != "Screenshot:3,JPEG,reduce 256,crop 0.5 0.5 128" {
		t.Fatalf("unexpected command %q", got)
	}
	if _, err := params.Screenshot(1, "GIF"); !errors.Is(err, params.ErrBadArgs) {
		t.Fatalf("expected ErrBadArgs for GIF, got %v", err)
	}
	if _, err := params.Screenshot(1, params.FormatPNG, "crop 1"); !errors.Is(err, params.ErrBadArgs) {
		t.Fatalf("expected ErrBadArgs for short crop, got %v", err)
	}
}

func TestRunOptionsParse(t *testing.T) {
	o, err := params.ParseRunOptions(params.ParseCommand("SetRunOptions:pause"), params.DefaultRunOptions())
	if err != nil {
		t.Fatalf("ParseRunOptions: %v", err)
	}
	if !o.Simulation || !o.Paused {
		t.Fatalf("unexpected options %+v", o)
	}
	if _, err := params.ParseRunOptions(params.ParseCommand("SetRunOptions:fast"), o); !errors.Is(err, params.ErrBadArgs) {
		t.Fatalf("expected ErrBadArgs, got %v", err)
	}
}

func TestDrawOptions(t *testing.T) {
	cmd, err := params.SetDrawOptions(params.DrawPalette)
	if err != nil || cmd.String() != "SetDrawOptions:palette" {
		t.Fatalf("unexpected %q, %v", cmd, err)
	}
	if _, err := params.SetDrawOptions("wireframe"); !errors.Is(err, params.ErrBadArgs) {
		t.Fatalf("expected ErrBadArgs, got %v", err)
	}
}

func TestStateRoundTrip(t *testing.T) {
	k := params.Kernel{DiscRadius: 4, RingRadius: 12, BlendRadius: 1}
	enc := params.EncodeState(k, subdividers)
	gotK, gotS, err := params.DecodeState("#" + enc)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if gotK != k || gotS != subdividers {
		t.Fatalf("round trip mismatch: %+v %+v", gotK, gotS)
	}
	if _, _, err := params.DecodeState("!!not base64"); !errors.Is(err, params.ErrBadArgs) {
		t.Fatalf("expected ErrBadArgs, got %v", err)
	}
}
