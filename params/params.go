package params

import (
	"fmt"
	"math"
	"strconv"

	"smoothlife-panel/palette"
)

// Kernel holds the convolution neighborhood radii, in serialization order.
type Kernel struct {
	DiscRadius  float64 `json:"discRadius"`
	RingRadius  float64 `json:"ringRadius"`
	BlendRadius float64 `json:"antiAliasRadius"`
}

func DefaultKernel() Kernel {
	return Kernel{DiscRadius: 3, RingRadius: 9, BlendRadius: 3}
}

func (k Kernel) Values() []float64 {
	return []float64{k.DiscRadius, k.RingRadius, k.BlendRadius}
}

func KernelFromValues(v []float64) (Kernel, error) {
	if len(v) != 3 {
		return Kernel{}, fmt.Errorf("%w: kernel wants 3 values, got %d", ErrBadArgs, len(v))
	}
	k := Kernel{DiscRadius: v[0], RingRadius: v[1], BlendRadius: v[2]}
	return k, k.Validate()
}

func (k Kernel) Validate() error {
	for i, v := range k.Values() {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: kernel value %d must be a non-negative number", ErrBadArgs, i)
		}
	}
	return nil
}

func (k Kernel) Command() Command {
	return Command{Name: "SetKernel", Args: formatFloats(k.Values()...)}
}

func ParseKernel(cmd Command) (Kernel, error) {
	if err := expect(cmd, "SetKernel"); err != nil {
		return Kernel{}, err
	}
	v, err := parseFloats(cmd.Name, cmd.Args, 3)
	if err != nil {
		return Kernel{}, err
	}
	return KernelFromValues(v)
}

// Smoother holds the growth-function parameters. Timestep, Mode, Sigmoid and
// Mix are small enums; the rest are coefficients.
type Smoother struct {
	Timestep int     `json:"timestep"`
	DT       float64 `json:"dt"`
	B1       float64 `json:"b1"`
	D1       float64 `json:"d1"`
	B2       float64 `json:"b2"`
	D2       float64 `json:"d2"`
	Mode     int     `json:"sigmoidMode"`
	Sigmoid  int     `json:"sigmoid"`
	Mix      int     `json:"mix"`
	SN       float64 `json:"sn"`
	SM       float64 `json:"sm"`
}

// Enum labels, indexed by value.
var (
	TimestepLabels = []string{"discrete", "smooth1", "smooth2", "smooth3"}
	ModeLabels     = []string{"mode1", "mode2", "mode3", "mode4"}
	SigmoidLabels  = []string{"hard", "linear", "hermite", "sin", "smooth"}
)

const SmootherLen = 11

func (s Smoother) Values() []float64 {
	return []float64{
		float64(s.Timestep), s.DT, s.B1, s.D1, s.B2, s.D2,
		float64(s.Mode), float64(s.Sigmoid), float64(s.Mix), s.SN, s.SM,
	}
}

func SmootherFromValues(v []float64) (Smoother, error) {
	if len(v) != SmootherLen {
		return Smoother{}, fmt.Errorf("%w: smoother wants %d values, got %d", ErrBadArgs, SmootherLen, len(v))
	}
	s := Smoother{
		Timestep: int(v[0]), DT: v[1], B1: v[2], D1: v[3], B2: v[4], D2: v[5],
		Mode: int(v[6]), Sigmoid: int(v[7]), Mix: int(v[8]), SN: v[9], SM: v[10],
	}
	for _, i := range []int{0, 6, 7, 8} {
		if v[i] != math.Trunc(v[i]) {
			return Smoother{}, fmt.Errorf("%w: smoother value %d must be an integer", ErrBadArgs, i)
		}
	}
	return s, s.Validate()
}

func (s Smoother) Validate() error {
	check := func(name string, v int, labels []string) error {
		if v < 0 || v >= len(labels) {
			return fmt.Errorf("%w: %s must be in [0,%d)", ErrBadArgs, name, len(labels))
		}
		return nil
	}
	if err := check("timestep", s.Timestep, TimestepLabels); err != nil {
		return err
	}
	if err := check("sigmoidMode", s.Mode, ModeLabels); err != nil {
		return err
	}
	if err := check("sigmoid", s.Sigmoid, SigmoidLabels); err != nil {
		return err
	}
	if err := check("mix", s.Mix, SigmoidLabels); err != nil {
		return err
	}
	for i, v := range s.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: smoother value %d is not finite", ErrBadArgs, i)
		}
	}
	return nil
}

func (s Smoother) Command() Command {
	return Command{Name: "SetSmoother", Args: formatFloats(s.Values()...)}
}

func ParseSmoother(cmd Command) (Smoother, error) {
	if err := expect(cmd, "SetSmoother"); err != nil {
		return Smoother{}, err
	}
	v, err := parseFloats(cmd.Name, cmd.Args, SmootherLen)
	if err != nil {
		return Smoother{}, err
	}
	return SmootherFromValues(v)
}

// Brush is the drawing tool used when painting onto the grid.
type Brush struct {
	Radius float64 `json:"radius"`
	Color  float64 `json:"color"`
}

const MaxBrushRadius = 100.0

func DefaultBrush() Brush {
	return Brush{Radius: 10, Color: 1}
}

// Clamped limits the radius to [0,MaxBrushRadius] and the color to [0,1].
func (b Brush) Clamped() Brush {
	return Brush{
		Radius: math.Max(math.Min(b.Radius, MaxBrushRadius), 0),
		Color:  math.Max(math.Min(b.Color, 1), 0),
	}
}

func (b Brush) Command() Command {
	return Command{Name: "SetBrush", Args: formatFloats(b.Radius, b.Color)}
}

func ParseBrush(cmd Command) (Brush, error) {
	if err := expect(cmd, "SetBrush"); err != nil {
		return Brush{}, err
	}
	v, err := parseFloats(cmd.Name, cmd.Args, 2)
	if err != nil {
		return Brush{}, err
	}
	return Brush{Radius: v[0], Color: v[1]}.Clamped(), nil
}

// PaletteCommand serializes p as SetPalette:<type>,<color1>,<stop1>,...
func PaletteCommand(p palette.Palette) Command {
	args := make([]string, 0, 1+2*len(p.Stops))
	args = append(args, strconv.Itoa(int(p.GradientType)))
	for _, s := range p.Stops {
		args = append(args, s.Color.Hex(), formatFloat(s.Stop))
	}
	return Command{Name: "SetPalette", Args: args}
}

func ParsePalette(cmd Command) (palette.Palette, error) {
	if err := expect(cmd, "SetPalette"); err != nil {
		return palette.Palette{}, err
	}
	if len(cmd.Args)%2 != 1 {
		return palette.Palette{}, fmt.Errorf("%w: SetPalette wants a type and color/stop pairs", ErrBadArgs)
	}
	gt, err := strconv.Atoi(cmd.Args[0])
	if err != nil || !palette.GradientType(gt).Valid() {
		return palette.Palette{}, fmt.Errorf("%w: gradient type %q", ErrBadArgs, cmd.Args[0])
	}
	p := palette.Palette{GradientType: palette.GradientType(gt), Stops: []palette.ColorStop{}}
	for i := 1; i < len(cmd.Args); i += 2 {
		c, err := palette.ParseColor(cmd.Args[i])
		if err != nil {
			return palette.Palette{}, fmt.Errorf("%w: %v", ErrBadArgs, err)
		}
		stop, err := strconv.ParseFloat(cmd.Args[i+1], 64)
		if err != nil {
			return palette.Palette{}, fmt.Errorf("%w: stop %q", ErrBadArgs, cmd.Args[i+1])
		}
		p.Stops = append(p.Stops, palette.ColorStop{Color: c, Stop: stop})
	}
	return p, nil
}
