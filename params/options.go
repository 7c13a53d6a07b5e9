package params

import "fmt"

// DrawMode selects what the engine renders.
type DrawMode string

const (
	DrawSimulation DrawMode = "simulation"
	DrawDisc       DrawMode = "disc"
	DrawRing       DrawMode = "ring"
	DrawSmoother   DrawMode = "smoother"
	DrawPalette    DrawMode = "palette"
)

func (m DrawMode) Valid() bool {
	switch m {
	case DrawSimulation, DrawDisc, DrawRing, DrawSmoother, DrawPalette:
		return true
	}
	return false
}

func SetDrawOptions(m DrawMode) (Command, error) {
	if !m.Valid() {
		return Command{}, fmt.Errorf("%w: unknown draw mode %q", ErrBadArgs, m)
	}
	return Command{Name: "SetDrawOptions", Args: []string{string(m)}}, nil
}

// RunOptions toggles stepping and pausing of the engine.
type RunOptions struct {
	Simulation bool `json:"simulation"`
	Paused     bool `json:"paused"`
}

// DefaultRunOptions runs the simulation continuously.
func DefaultRunOptions() RunOptions {
	return RunOptions{Simulation: true}
}

func (o RunOptions) Command() Command {
	sim := "noSimulation"
	if o.Simulation {
		sim = "simulation"
	}
	run := "run"
	if o.Paused {
		run = "pause"
	}
	return Command{Name: "SetRunOptions", Args: []string{sim, run}}
}

// ParseRunOptions applies the flags in cmd on top of base. Unknown flags are
// an error.
func ParseRunOptions(cmd Command, base RunOptions) (RunOptions, error) {
	if err := expect(cmd, "SetRunOptions"); err != nil {
		return base, err
	}
	if len(cmd.Args) > 2 {
		return base, fmt.Errorf("%w: SetRunOptions takes at most 2 values", ErrBadArgs)
	}
	o := base
	for _, a := range cmd.Args {
		switch a {
		case "simulation":
			o.Simulation = true
		case "noSimulation":
			o.Simulation = false
		case "pause":
			o.Paused = true
		case "run":
			o.Paused = false
		default:
			return base, fmt.Errorf("%w: unknown run option %q", ErrBadArgs, a)
		}
	}
	return o, nil
}
