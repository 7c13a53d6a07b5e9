package engine

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
	"sync"

	"smoothlife-panel/imageop"
	"smoothlife-panel/palette"
	"smoothlife-panel/params"
)

const loopbackSize = 256

// Loopback is an in-process stand-in for the engine. It records every
// command, tracks the parameter groups it was sent, and answers Screenshot
// and GetBuffer with images rendered from the current palette.
type Loopback struct {
	mu       sync.Mutex
	commands []string
	kernel   params.Kernel
	smoother params.Smoother
	palette  palette.Palette
	run      params.RunOptions

	in        chan Inbound
	done      chan struct{}
	closeOnce sync.Once
}

func NewLoopback() *Loopback {
	return &Loopback{
		palette: palette.Default(),
		run:     params.DefaultRunOptions(),
		in:      make(chan Inbound, 256),
		done:    make(chan struct{}),
	}
}

func (l *Loopback) Send(line string) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	l.mu.Lock()
	l.commands = append(l.commands, line)
	l.mu.Unlock()

	cmd := params.ParseCommand(line)
	switch cmd.Name {
	case "SetKernel":
		k, err := params.ParseKernel(cmd)
		if err != nil {
			return nil
		}
		l.mu.Lock()
		l.kernel = k
		l.mu.Unlock()
	case "SetSmoother":
		s, err := params.ParseSmoother(cmd)
		if err != nil {
			return nil
		}
		l.mu.Lock()
		l.smoother = s
		l.mu.Unlock()
	case "SetPalette":
		p, err := params.ParsePalette(cmd)
		if err != nil {
			return nil
		}
		l.mu.Lock()
		l.palette = p
		l.mu.Unlock()
	case "SetRunOptions":
		l.mu.Lock()
		if o, err := params.ParseRunOptions(cmd, l.run); err == nil {
			l.run = o
		}
		l.mu.Unlock()
	case "Screenshot":
		l.screenshot(cmd)
	case "GetBuffer":
		l.buffer(cmd)
	}
	return nil
}

func (l *Loopback) screenshot(cmd params.Command) {
	if len(cmd.Args) < 2 {
		return
	}
	id, err := strconv.ParseUint(cmd.Args[0], 10, 32)
	if err != nil {
		return
	}
	l.mu.Lock()
	pal := l.palette.Clone()
	l.mu.Unlock()

	var img image.Image = pal.Render(loopbackSize, loopbackSize)
	for _, op := range cmd.Args[2:] {
		img = applyOp(img, op)
	}
	data, err := imageop.Encode(img, cmd.Args[1])
	if err != nil {
		return
	}
	l.deliver(Inbound{Binary: EncodeReply(uint32(id), data)})
}

func applyOp(img image.Image, op string) image.Image {
	f := strings.Fields(op)
	num := func(i int) float64 {
		v, _ := strconv.ParseFloat(f[i], 64)
		return v
	}
	switch {
	case len(f) == 2 && f[0] == "reduce":
		return imageop.Reduce(img, int(num(1)))
	case len(f) == 4 && f[0] == "crop":
		return imageop.Crop(img, num(1), num(2), int(num(3)))
	}
	return img
}

// buffer replies with the grid as little-endian float32 values in [0,1].
func (l *Loopback) buffer(cmd params.Command) {
	if len(cmd.Args) != 1 {
		return
	}
	id, err := strconv.ParseUint(cmd.Args[0], 10, 32)
	if err != nil {
		return
	}
	const n = 64
	payload := make([]byte, 4*n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := float32(x+y) / float32(2*(n-1))
			binary.LittleEndian.PutUint32(payload[4*(y*n+x):], math.Float32bits(v))
		}
	}
	l.deliver(Inbound{Binary: EncodeReply(uint32(id), payload)})
}

func (l *Loopback) deliver(msg Inbound) {
	select {
	case l.in <- msg:
	case <-l.done:
	}
}

// EmitFPS sends a telemetry line as the engine would.
func (l *Loopback) EmitFPS(fps float64) {
	l.deliver(Inbound{Text: fmt.Sprintf("%s%.3f", fpsPrefix, fps)})
}

// Commands returns every line received so far.
func (l *Loopback) Commands() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.commands))
	copy(out, l.commands)
	return out
}

// State returns the parameter groups the loopback has applied.
func (l *Loopback) State() (params.Kernel, params.Smoother, palette.Palette) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kernel, l.smoother, l.palette.Clone()
}

func (l *Loopback) Inbound() <-chan Inbound { return l.in }

func (l *Loopback) Done() <-chan struct{} { return l.done }

func (l *Loopback) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}
