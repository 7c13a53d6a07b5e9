package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadArgs = errors.New("bad command arguments")

// Command is one line of the engine protocol: Name or Name:arg1,arg2,...
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + ":" + strings.Join(c.Args, ",")
}

// ParseCommand splits a protocol line at the first colon and the arguments
// at commas, trimming surrounding whitespace from each argument.
func ParseCommand(line string) Command {
	name, rest, found := strings.Cut(line, ":")
	cmd := Command{Name: strings.TrimSpace(name)}
	if !found {
		return cmd
	}
	for _, a := range strings.Split(rest, ",") {
		if a = strings.TrimSpace(a); a != "" {
			cmd.Args = append(cmd.Args, a)
		}
	}
	return cmd
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(vs ...float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = formatFloat(v)
	}
	return out
}

func parseFloats(name string, args []string, want int) ([]float64, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%w: %s wants %d values, got %d", ErrBadArgs, name, want, len(args))
	}
	out := make([]float64, want)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s value %d: %q", ErrBadArgs, name, i, a)
		}
		out[i] = v
	}
	return out, nil
}

func expect(cmd Command, name string) error {
	if cmd.Name != name {
		return fmt.Errorf("%w: expected %s, got %q", ErrBadArgs, name, cmd.Name)
	}
	return nil
}

// Clear fills the grid with value (the panel always sends 0).
func Clear(value float64) Command {
	return Command{Name: "Clear", Args: []string{formatFloat(value)}}
}

// Splat reseeds the grid with random content.
func Splat() Command { return Command{Name: "Splat"} }

func SetFullscreen(on bool) Command {
	return Command{Name: "SetFullscreen", Args: []string{strconv.FormatBool(on)}}
}

func GetBuffer(requestID uint32) Command {
	return Command{Name: "GetBuffer", Args: []string{strconv.FormatUint(uint64(requestID), 10)}}
}

// Image formats accepted by Screenshot.
const (
	FormatPNG  = "PNG"
	FormatJPEG = "JPEG"
)

// Screenshot asks for an encoded image of the grid. Each op is a filter
// such as "reduce 256", "crop 0.5 0.5 128" or "brightness_contrast 10 40".
func Screenshot(requestID uint32, format string, ops ...string) (Command, error) {
	if format != FormatPNG && format != FormatJPEG {
		return Command{}, fmt.Errorf("%w: unknown screenshot format %q", ErrBadArgs, format)
	}
	for _, op := range ops {
		if err := validateImageOp(op); err != nil {
			return Command{}, err
		}
	}
	args := append([]string{strconv.FormatUint(uint64(requestID), 10), format}, ops...)
	return Command{Name: "Screenshot", Args: args}, nil
}

func validateImageOp(op string) error {
	fields := strings.Fields(op)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty image operation", ErrBadArgs)
	}
	want := map[string]int{"reduce": 1, "crop": 3, "brightness_contrast": 2}
	n, ok := want[fields[0]]
	if !ok {
		return fmt.Errorf("%w: unknown image operation %q", ErrBadArgs, fields[0])
	}
	if len(fields)-1 != n {
		return fmt.Errorf("%w: %s wants %d values", ErrBadArgs, fields[0], n)
	}
	for _, f := range fields[1:] {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return fmt.Errorf("%w: %s value %q", ErrBadArgs, fields[0], f)
		}
	}
	return nil
}
