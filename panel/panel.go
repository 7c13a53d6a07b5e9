package panel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"smoothlife-panel/dispatch"
	"smoothlife-panel/engine"
	"smoothlife-panel/imageop"
	"smoothlife-panel/palette"
	"smoothlife-panel/params"
	"smoothlife-panel/preset"
)

var (
	ErrInitialState   = errors.New("malformed initial state")
	ErrUnknownControl = errors.New("unknown control")
	ErrBadValue       = errors.New("bad control value")
	ErrBadIndex       = errors.New("color stop index out of range")
)

// ThumbnailSize is the longer side of saved preset thumbnails.
const ThumbnailSize = 128

// State is a snapshot of the active parameters.
type State struct {
	Kernel     params.Kernel     `json:"kernel"`
	Smoother   params.Smoother   `json:"smoother"`
	Palette    palette.Palette   `json:"palette"`
	Brush      params.Brush      `json:"brush"`
	Run        params.RunOptions `json:"run"`
	Draw       params.DrawMode   `json:"draw"`
	Fullscreen bool              `json:"fullscreen"`
	Preset     string            `json:"preset,omitempty"`
}

func (s State) clone() State {
	c := s
	c.Palette = s.Palette.Clone()
	return c
}

// DefaultState starts from the first built-in preset.
func DefaultState() State {
	first := preset.Builtins()[0]
	return State{
		Kernel:   first.Kernel,
		Smoother: first.Smoother,
		Palette:  first.Palette,
		Brush:    params.DefaultBrush(),
		Run:      params.DefaultRunOptions(),
		Draw:     params.DrawSimulation,
	}
}

type Options struct {
	Delay        time.Duration
	ThumbnailDir string
}

// Panel owns the active parameters and forwards edits to the engine.
type Panel struct {
	mu       sync.Mutex
	state    State
	client   *engine.Client
	presets  *preset.Store
	disp     *dispatch.Dispatcher
	thumbDir string
}

func New(client *engine.Client, presets *preset.Store, opts Options) *Panel {
	p := &Panel{
		state:    DefaultState(),
		client:   client,
		presets:  presets,
		thumbDir: opts.ThumbnailDir,
	}
	p.disp = dispatch.New(client, p.command, opts.Delay)
	return p
}

// DecodeInitialState reads kernel and smoother values from a shared state
// string, with or without its leading '#'.
func DecodeInitialState(s string) (params.Kernel, params.Smoother, error) {
	k, sm, err := params.DecodeState(s)
	if err != nil {
		return params.Kernel{}, params.Smoother{}, fmt.Errorf("%w: %v", ErrInitialState, err)
	}
	return k, sm, nil
}

// Start sends the full parameter set, reseeds the grid and sets the run and
// draw modes. A malformed initial state is logged and the defaults are used.
func (p *Panel) Start(initial string) error {
	if initial != "" {
		k, s, err := DecodeInitialState(initial)
		if err != nil {
			log.Printf("panel: %v, using defaults", err)
		} else {
			p.mu.Lock()
			p.state.Kernel, p.state.Smoother = k, s
			p.mu.Unlock()
		}
	}

	st := p.State()
	draw, err := params.SetDrawOptions(st.Draw)
	if err != nil {
		return err
	}
	msgs := []params.Command{
		st.Kernel.Command(),
		st.Smoother.Command(),
		params.PaletteCommand(st.Palette),
		params.Clear(0),
		params.Splat(),
		st.Run.Command(),
		draw,
	}
	for _, cmd := range msgs {
		if err := p.disp.Send(cmd); err != nil {
			return fmt.Errorf("start %s: %w", cmd.Name, err)
		}
	}
	return nil
}

// Close sends any pending edits and stops the debounce timers.
func (p *Panel) Close() {
	p.disp.Flush()
	p.disp.Stop()
}

// State returns a copy of the active parameters.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// ShareState encodes the kernel and smoother for a shareable link.
func (p *Panel) ShareState() string {
	st := p.State()
	return params.EncodeState(st.Kernel, st.Smoother)
}

// Pending reports whether an edit to g is waiting for its debounce window.
func (p *Panel) Pending(g dispatch.Group) bool {
	return p.disp.Pending(g)
}

// command is the dispatcher source; it reads the state at send time.
func (p *Panel) command(g dispatch.Group) (params.Command, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch g {
	case dispatch.Kernel:
		return p.state.Kernel.Command(), true
	case dispatch.Smoother:
		return p.state.Smoother.Command(), true
	case dispatch.Palette:
		return params.PaletteCommand(p.state.Palette), true
	case dispatch.Brush:
		return p.state.Brush.Command(), true
	}
	return params.Command{}, false
}

// update applies fn to a copy of the state and commits it on success. The
// group is scheduled after the lock is released.
func (p *Panel) update(g dispatch.Group, fn func(s *State) error) error {
	p.mu.Lock()
	next := p.state.clone()
	if err := fn(&next); err != nil {
		p.mu.Unlock()
		return err
	}
	next.Preset = ""
	p.state = next
	p.mu.Unlock()

	p.disp.Schedule(g)
	return nil
}

func (p *Panel) SetKernel(k params.Kernel) error {
	if err := k.Validate(); err != nil {
		return err
	}
	return p.update(dispatch.Kernel, func(s *State) error {
		s.Kernel = k
		return nil
	})
}

func (p *Panel) SetSmoother(sm params.Smoother) error {
	if err := sm.Validate(); err != nil {
		return err
	}
	return p.update(dispatch.Smoother, func(s *State) error {
		s.Smoother = sm
		return nil
	})
}

func (p *Panel) SetPalette(pal palette.Palette) error {
	if err := pal.Validate(); err != nil {
		return err
	}
	return p.update(dispatch.Palette, func(s *State) error {
		s.Palette = pal.Clone()
		return nil
	})
}

// SetBrush clamps the brush before storing it.
func (p *Panel) SetBrush(b params.Brush) error {
	return p.update(dispatch.Brush, func(s *State) error {
		s.Brush = b.Clamped()
		return nil
	})
}

// Controls lists every widget with its current value.
func (p *Panel) Controls() []Control {
	st := p.State()
	out := make([]Control, 0, len(staticControls)+2*len(st.Palette.Stops))
	for _, c := range staticControls {
		c.Value = bindings[c.Field].get(&st)
		out = append(out, c)
	}
	for i, s := range st.Palette.Stops {
		out = append(out, stopControls(i, s)...)
	}
	return out
}

// SetControl parses raw for the named widget and applies it.
func (p *Panel) SetControl(g dispatch.Group, field, raw string) error {
	c, err := lookupControl(g, field)
	if err != nil {
		return err
	}
	v, err := c.parse(raw)
	if err != nil {
		return err
	}
	if b, ok := bindings[field]; ok {
		return p.update(g, func(s *State) error {
			b.set(s, v)
			return nil
		})
	}
	i, attr, _ := splitStopField(field)
	return p.update(g, func(s *State) error {
		if i >= len(s.Palette.Stops) {
			return fmt.Errorf("%w: %d", ErrBadIndex, i)
		}
		if attr == "color" {
			s.Palette.Stops[i].Color = v.(palette.Color)
		} else {
			s.Palette.Stops[i].Stop = v.(float64)
		}
		return nil
	})
}

func lookupControl(g dispatch.Group, field string) (Control, error) {
	for _, c := range staticControls {
		if c.Group == g && c.Field == field {
			return c, nil
		}
	}
	if g == dispatch.Palette {
		if i, _, ok := splitStopField(field); ok {
			for _, c := range stopControls(i, palette.ColorStop{}) {
				if c.Field == field {
					return c, nil
				}
			}
		}
	}
	return Control{}, fmt.Errorf("%w: %s/%s", ErrUnknownControl, g, field)
}

// splitStopField parses "colorstops.<i>.<attr>".
func splitStopField(field string) (int, string, bool) {
	parts := strings.Split(field, ".")
	if len(parts) != 3 || parts[0] != "colorstops" {
		return 0, "", false
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || i < 0 {
		return 0, "", false
	}
	if parts[2] != "color" && parts[2] != "stop" {
		return 0, "", false
	}
	return i, parts[2], true
}

// AddStop appends a white stop at 100.
func (p *Panel) AddStop() error {
	return p.update(dispatch.Palette, func(s *State) error {
		s.Palette.Stops = append(s.Palette.Stops, palette.ColorStop{Color: palette.White, Stop: 100})
		return nil
	})
}

func (p *Panel) RemoveStop(i int) error {
	return p.update(dispatch.Palette, func(s *State) error {
		if i < 0 || i >= len(s.Palette.Stops) {
			return fmt.Errorf("%w: %d", ErrBadIndex, i)
		}
		s.Palette.Stops = append(s.Palette.Stops[:i], s.Palette.Stops[i+1:]...)
		return nil
	})
}

// MoveStop moves the stop at from to position to in the list. Stop
// positions are left unchanged.
func (p *Panel) MoveStop(from, to int) error {
	return p.update(dispatch.Palette, func(s *State) error {
		n := len(s.Palette.Stops)
		if from < 0 || from >= n || to < 0 || to >= n {
			return fmt.Errorf("%w: %d -> %d", ErrBadIndex, from, to)
		}
		stop := s.Palette.Stops[from]
		stops := append(s.Palette.Stops[:from:from], s.Palette.Stops[from+1:]...)
		stops = append(stops[:to], append([]palette.ColorStop{stop}, stops[to:]...)...)
		s.Palette.Stops = stops
		return nil
	})
}

func (p *Panel) SetStop(i int, stop palette.ColorStop) error {
	return p.update(dispatch.Palette, func(s *State) error {
		if i < 0 || i >= len(s.Palette.Stops) {
			return fmt.Errorf("%w: %d", ErrBadIndex, i)
		}
		s.Palette.Stops[i] = stop
		return s.Palette.Validate()
	})
}

func (p *Panel) SetGradientType(gt palette.GradientType) error {
	if !gt.Valid() {
		return fmt.Errorf("%w: %d", palette.ErrBadGradientType, gt)
	}
	return p.update(dispatch.Palette, func(s *State) error {
		s.Palette.GradientType = gt
		return nil
	})
}

// ColorAt evaluates the active palette.
func (p *Panel) ColorAt(value float64) palette.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Palette.ColorAt(value)
}

// Preview renders the active palette as a PNG strip.
func (p *Panel) Preview(width, height int) ([]byte, error) {
	pal := p.State().Palette
	return imageop.Encode(pal.Render(width, height), params.FormatPNG)
}

// Presets lists the stored presets.
func (p *Panel) Presets() []preset.Preset {
	return p.presets.List()
}

// RecentPresets lists recently applied preset ids, newest first.
func (p *Panel) RecentPresets() []string {
	return p.presets.Recent()
}

// ApplyPreset makes a copy of the preset active, sends the three groups at
// once and reseeds the grid once the engine has taken all of them.
func (p *Panel) ApplyPreset(id string) (preset.Preset, error) {
	pr, err := p.presets.Get(id)
	if err != nil {
		return preset.Preset{}, err
	}

	p.mu.Lock()
	p.state.Kernel = pr.Kernel
	p.state.Smoother = pr.Smoother
	p.state.Palette = pr.Palette.Clone()
	p.state.Preset = pr.ID
	cmds := map[dispatch.Group]params.Command{
		dispatch.Kernel:   p.state.Kernel.Command(),
		dispatch.Smoother: p.state.Smoother.Command(),
		dispatch.Palette:  params.PaletteCommand(p.state.Palette),
	}
	p.mu.Unlock()

	p.presets.MarkUsed(pr.ID)
	if err := p.disp.ApplyNow(cmds); err != nil {
		return pr, fmt.Errorf("apply preset %q: %w", pr.Name, err)
	}
	return pr, nil
}

// Settled reports whether the last applied preset has been fully sent.
func (p *Panel) Settled() bool {
	return p.disp.Settled()
}

// SavePreset stores the active parameters under name. With thumbnail set,
// a screenshot is attached; a failed screenshot is logged and the preset is
// saved without one.
func (p *Panel) SavePreset(ctx context.Context, name string, thumbnail bool) (preset.Preset, error) {
	st := p.State()
	pr := preset.Preset{
		Name:     strings.TrimSpace(name),
		Kernel:   st.Kernel,
		Smoother: st.Smoother,
		Palette:  st.Palette,
	}
	if err := pr.Validate(); err != nil {
		return preset.Preset{}, err
	}
	if thumbnail && p.thumbDir != "" {
		file, err := p.saveThumbnail(ctx, preset.UserID(pr.Name))
		if err != nil {
			log.Printf("panel: thumbnail for %q: %v", pr.Name, err)
		} else {
			pr.Thumbnail = file
		}
	}
	return p.presets.Save(pr)
}

func (p *Panel) saveThumbnail(ctx context.Context, id string) (string, error) {
	shot, err := p.client.Screenshot(ctx, params.FormatPNG, "reduce 512")
	if err != nil {
		return "", err
	}
	data, err := imageop.Thumbnail(shot, ThumbnailSize)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p.thumbDir, 0755); err != nil {
		return "", err
	}
	file := id + ".jpg"
	if err := os.WriteFile(filepath.Join(p.thumbDir, file), data, 0644); err != nil {
		return "", err
	}
	return file, nil
}

// RemovePreset deletes a user preset and its thumbnail.
func (p *Panel) RemovePreset(id string) error {
	pr, err := p.presets.Get(id)
	if err != nil {
		return err
	}
	if err := p.presets.Remove(id); err != nil {
		return err
	}
	if pr.Thumbnail != "" && p.thumbDir != "" {
		if err := os.Remove(filepath.Join(p.thumbDir, filepath.Base(pr.Thumbnail))); err != nil && !os.IsNotExist(err) {
			log.Printf("panel: remove thumbnail %s: %v", pr.Thumbnail, err)
		}
	}
	return nil
}

// ThumbnailPath returns the file holding the preset's thumbnail.
func (p *Panel) ThumbnailPath(id string) (string, error) {
	pr, err := p.presets.Get(id)
	if err != nil {
		return "", err
	}
	if pr.Thumbnail == "" || p.thumbDir == "" {
		return "", fmt.Errorf("%w: %s has no thumbnail", preset.ErrNotFound, pr.Name)
	}
	return filepath.Join(p.thumbDir, filepath.Base(pr.Thumbnail)), nil
}

// Clear fills the grid with value.
func (p *Panel) Clear(value float64) error {
	return p.disp.Send(params.Clear(value))
}

func (p *Panel) Splat() error {
	return p.disp.Send(params.Splat())
}

func (p *Panel) SetFullscreen(on bool) error {
	if err := p.disp.Send(params.SetFullscreen(on)); err != nil {
		return err
	}
	p.mu.Lock()
	p.state.Fullscreen = on
	p.mu.Unlock()
	return nil
}

func (p *Panel) SetRunOptions(o params.RunOptions) error {
	if err := p.disp.Send(o.Command()); err != nil {
		return err
	}
	p.mu.Lock()
	p.state.Run = o
	p.mu.Unlock()
	return nil
}

func (p *Panel) SetDrawOptions(m params.DrawMode) error {
	cmd, err := params.SetDrawOptions(m)
	if err != nil {
		return err
	}
	if err := p.disp.Send(cmd); err != nil {
		return err
	}
	p.mu.Lock()
	p.state.Draw = m
	p.mu.Unlock()
	return nil
}
