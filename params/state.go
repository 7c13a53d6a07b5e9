package params

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncodeState packs kernel and smoother values into the base64 form used for
// shareable links.
func EncodeState(k Kernel, s Smoother) string {
	vals := append(k.Values(), s.Values()...)
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(formatFloats(vals...), ",")))
}

// DecodeState reverses EncodeState.
func DecodeState(encoded string) (Kernel, Smoother, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, "#"))
	if err != nil {
		return Kernel{}, Smoother{}, fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	fields := strings.Split(string(raw), ",")
	if len(fields) != 3+SmootherLen {
		return Kernel{}, Smoother{}, fmt.Errorf("%w: state wants %d values, got %d", ErrBadArgs, 3+SmootherLen, len(fields))
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Kernel{}, Smoother{}, fmt.Errorf("%w: state value %d: %q", ErrBadArgs, i, f)
		}
		vals[i] = v
	}
	k, err := KernelFromValues(vals[:3])
	if err != nil {
		return Kernel{}, Smoother{}, err
	}
	s, err := SmootherFromValues(vals[3:])
	if err != nil {
		return Kernel{}, Smoother{}, err
	}
	return k, s, nil
}
