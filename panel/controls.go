package panel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"smoothlife-panel/dispatch"
	"smoothlife-panel/palette"
	"smoothlife-panel/params"
)

// WidgetKind is the kind of input a control is rendered as.
type WidgetKind int

const (
	Slider WidgetKind = iota
	ButtonSet
	ColorPicker
)

func (k WidgetKind) String() string {
	switch k {
	case Slider:
		return "slider"
	case ButtonSet:
		return "buttonset"
	case ColorPicker:
		return "color"
	}
	return "unknown"
}

func (k WidgetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Control describes one widget bound to a parameter field.
type Control struct {
	Group  dispatch.Group `json:"group"`
	Field  string         `json:"field"`
	Label  string         `json:"label"`
	Kind   WidgetKind     `json:"kind"`
	Min    float64        `json:"min,omitempty"`
	Max    float64        `json:"max,omitempty"`
	Prec   int            `json:"prec,omitempty"`
	Values []string       `json:"values,omitempty"`
	Value  any            `json:"value"`
}

func slider(g dispatch.Group, field, label string, min, max float64, prec int) Control {
	return Control{Group: g, Field: field, Label: label, Kind: Slider, Min: min, Max: max, Prec: prec}
}

func buttons(g dispatch.Group, field, label string, values []string) Control {
	return Control{Group: g, Field: field, Label: label, Kind: ButtonSet, Values: values}
}

// staticControls lists the fixed widgets in serialization order per group.
var staticControls = []Control{
	slider(dispatch.Kernel, "discRadius", "Disc radius", 0, 40, 1),
	slider(dispatch.Kernel, "ringRadius", "Ring radius", 0, 40, 1),
	slider(dispatch.Kernel, "antiAliasRadius", "Anti-alias radius", 0, 10, 1),

	buttons(dispatch.Smoother, "timestep", "Timestep", params.TimestepLabels),
	slider(dispatch.Smoother, "dt", "dt", 0, 1, 3),
	slider(dispatch.Smoother, "b1", "Birth 1", 0, 1, 3),
	slider(dispatch.Smoother, "d1", "Death 1", 0, 1, 3),
	slider(dispatch.Smoother, "b2", "Birth 2", 0, 1, 3),
	slider(dispatch.Smoother, "d2", "Death 2", 0, 1, 3),
	buttons(dispatch.Smoother, "sigmoidMode", "Sigmoid mode", params.ModeLabels),
	buttons(dispatch.Smoother, "sigmoid", "Sigmoid", params.SigmoidLabels),
	buttons(dispatch.Smoother, "mix", "Mix", params.SigmoidLabels),
	slider(dispatch.Smoother, "sn", "Alpha N", 0, 1, 3),
	slider(dispatch.Smoother, "sm", "Alpha M", 0, 1, 3),

	buttons(dispatch.Palette, "gradientType", "Gradient", []string{"clamped", "repeating"}),

	slider(dispatch.Brush, "radius", "Brush radius", 0, params.MaxBrushRadius, 0),
	slider(dispatch.Brush, "color", "Brush color", 0, 1, 2),
}

// stopControls returns the color and position widgets of stop i.
func stopControls(i int, s palette.ColorStop) []Control {
	prefix := "colorstops." + strconv.Itoa(i) + "."
	color := Control{Group: dispatch.Palette, Field: prefix + "color", Label: "Color", Kind: ColorPicker, Value: s.Color.Hex()}
	pos := slider(dispatch.Palette, prefix+"stop", "Stop", 0, 100, 0)
	pos.Value = s.Stop
	return []Control{color, pos}
}

// binding reads and writes the state field behind a static control.
type binding struct {
	get func(s *State) any
	set func(s *State, v any)
}

func floatField(ptr func(s *State) *float64) binding {
	return binding{
		get: func(s *State) any { return *ptr(s) },
		set: func(s *State, v any) { *ptr(s) = v.(float64) },
	}
}

func intField(ptr func(s *State) *int) binding {
	return binding{
		get: func(s *State) any { return *ptr(s) },
		set: func(s *State, v any) { *ptr(s) = v.(int) },
	}
}

var bindings = map[string]binding{
	"discRadius":      floatField(func(s *State) *float64 { return &s.Kernel.DiscRadius }),
	"ringRadius":      floatField(func(s *State) *float64 { return &s.Kernel.RingRadius }),
	"antiAliasRadius": floatField(func(s *State) *float64 { return &s.Kernel.BlendRadius }),
	"timestep":        intField(func(s *State) *int { return &s.Smoother.Timestep }),
	"dt":              floatField(func(s *State) *float64 { return &s.Smoother.DT }),
	"b1":              floatField(func(s *State) *float64 { return &s.Smoother.B1 }),
	"d1":              floatField(func(s *State) *float64 { return &s.Smoother.D1 }),
	"b2":              floatField(func(s *State) *float64 { return &s.Smoother.B2 }),
	"d2":              floatField(func(s *State) *float64 { return &s.Smoother.D2 }),
	"sigmoidMode":     intField(func(s *State) *int { return &s.Smoother.Mode }),
	"sigmoid":         intField(func(s *State) *int { return &s.Smoother.Sigmoid }),
	"mix":             intField(func(s *State) *int { return &s.Smoother.Mix }),
	"sn":              floatField(func(s *State) *float64 { return &s.Smoother.SN }),
	"sm":              floatField(func(s *State) *float64 { return &s.Smoother.SM }),
	"gradientType": {
		get: func(s *State) any { return int(s.Palette.GradientType) },
		set: func(s *State, v any) { s.Palette.GradientType = palette.GradientType(v.(int)) },
	},
	"radius": floatField(func(s *State) *float64 { return &s.Brush.Radius }),
	"color":  floatField(func(s *State) *float64 { return &s.Brush.Color }),
}

// quantize rounds v to prec decimals and clamps it to [c.Min, c.Max].
func (c Control) quantize(v float64) float64 {
	mult := math.Pow(10, float64(c.Prec))
	v = math.Round(v*mult) / mult
	return math.Max(c.Min, math.Min(c.Max, v))
}

// parse converts a raw widget value according to the control kind.
func (c Control) parse(raw string) (any, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	switch c.Kind {
	case Slider:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s wants a number, got %q", ErrBadValue, c.Field, raw)
		}
		return c.quantize(v), nil
	case ButtonSet:
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 || i >= len(c.Values) {
			return nil, fmt.Errorf("%w: %s wants an index in [0,%d), got %q", ErrBadValue, c.Field, len(c.Values), raw)
		}
		return i, nil
	case ColorPicker:
		col, err := palette.ParseColor(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return col, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownControl, c.Field)
}
