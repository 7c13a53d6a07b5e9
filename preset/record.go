package preset

import (
	"encoding/json"
	"fmt"

	"smoothlife-panel/palette"
	"smoothlife-panel/params"
)

// The persisted form of a preset is a JSON array:
//
//	[name, [disc, ring, blend], [11 smoother values], [gradientType, color1, stop1, ...]]
//
// An optional fifth element names the thumbnail image.

// MarshalRecords encodes presets in the persisted layout.
func MarshalRecords(presets []Preset) ([]byte, error) {
	records := make([][]any, 0, len(presets))
	for _, p := range presets {
		flat := make([]any, 0, 1+2*len(p.Palette.Stops))
		flat = append(flat, int(p.Palette.GradientType))
		for _, s := range p.Palette.Stops {
			flat = append(flat, s.Color.Hex(), s.Stop)
		}
		rec := []any{p.Name, p.Kernel.Values(), p.Smoother.Values(), flat}
		if p.Thumbnail != "" {
			rec = append(rec, p.Thumbnail)
		}
		records = append(records, rec)
	}
	return json.MarshalIndent(records, "", "  ")
}

// UnmarshalRecords decodes the persisted layout. Decoded presets are
// removable user presets.
func UnmarshalRecords(data []byte) ([]Preset, error) {
	var records [][]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	presets := make([]Preset, 0, len(records))
	for i, rec := range records {
		p, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		p.ID = UserID(p.Name)
		p.Removable = true
		presets = append(presets, p)
	}
	return presets, nil
}

func decodeRecord(rec []json.RawMessage) (Preset, error) {
	if len(rec) != 4 && len(rec) != 5 {
		return Preset{}, fmt.Errorf("%w: want 4 or 5 elements, got %d", ErrBadRecord, len(rec))
	}
	var (
		p        Preset
		kernel   []float64
		smoother []float64
		flat     []json.RawMessage
	)
	if err := json.Unmarshal(rec[0], &p.Name); err != nil {
		return Preset{}, fmt.Errorf("%w: name: %v", ErrBadRecord, err)
	}
	if err := json.Unmarshal(rec[1], &kernel); err != nil {
		return Preset{}, fmt.Errorf("%w: kernel: %v", ErrBadRecord, err)
	}
	if err := json.Unmarshal(rec[2], &smoother); err != nil {
		return Preset{}, fmt.Errorf("%w: smoother: %v", ErrBadRecord, err)
	}
	if err := json.Unmarshal(rec[3], &flat); err != nil {
		return Preset{}, fmt.Errorf("%w: palette: %v", ErrBadRecord, err)
	}
	if len(rec) == 5 {
		if err := json.Unmarshal(rec[4], &p.Thumbnail); err != nil {
			return Preset{}, fmt.Errorf("%w: thumbnail: %v", ErrBadRecord, err)
		}
	}

	var err error
	if p.Kernel, err = params.KernelFromValues(kernel); err != nil {
		return Preset{}, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	if p.Smoother, err = params.SmootherFromValues(smoother); err != nil {
		return Preset{}, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	if p.Palette, err = decodePalette(flat); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func decodePalette(flat []json.RawMessage) (palette.Palette, error) {
	if len(flat)%2 != 1 {
		return palette.Palette{}, fmt.Errorf("%w: palette wants a type and color/stop pairs", ErrBadRecord)
	}
	var gt int
	if err := json.Unmarshal(flat[0], &gt); err != nil || !palette.GradientType(gt).Valid() {
		return palette.Palette{}, fmt.Errorf("%w: gradient type %s", ErrBadRecord, flat[0])
	}
	p := palette.Palette{GradientType: palette.GradientType(gt), Stops: []palette.ColorStop{}}
	for i := 1; i < len(flat); i += 2 {
		var s palette.ColorStop
		if err := json.Unmarshal(flat[i], &s.Color); err != nil {
			return palette.Palette{}, fmt.Errorf("%w: color %s: %v", ErrBadRecord, flat[i], err)
		}
		if err := json.Unmarshal(flat[i+1], &s.Stop); err != nil {
			return palette.Palette{}, fmt.Errorf("%w: stop %s: %v", ErrBadRecord, flat[i+1], err)
		}
		p.Stops = append(p.Stops, s)
	}
	return p, nil
}
