package preset

import (
	"errors"

	"github.com/google/uuid"

	"smoothlife-panel/palette"
	"smoothlife-panel/params"
)

// Preset is a named snapshot of the three parameter groups.
type Preset struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Kernel    params.Kernel   `json:"kernel"`
	Smoother  params.Smoother `json:"smoother"`
	Palette   palette.Palette `json:"palette"`
	Removable bool            `json:"canRemove"`
	Thumbnail string          `json:"imgSrc,omitempty"`
}

// Clone returns a copy that shares no storage with p.
func (p Preset) Clone() Preset {
	c := p
	c.Palette = p.Palette.Clone()
	return c
}

// Equal compares the parameter groups only.
func (p Preset) Equal(o Preset) bool {
	return p.Kernel == o.Kernel && p.Smoother == o.Smoother && p.Palette.Equal(o.Palette)
}

func (p Preset) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if err := p.Kernel.Validate(); err != nil {
		return err
	}
	if err := p.Smoother.Validate(); err != nil {
		return err
	}
	return p.Palette.Validate()
}

var (
	ErrNotFound     = errors.New("preset not found")
	ErrNotRemovable = errors.New("built-in presets cannot be removed")
	ErrEmptyName    = errors.New("preset name is empty")
	ErrBadRecord    = errors.New("malformed preset record")
)

var (
	builtinSpace = uuid.MustParse("6f1d2c54-8e0b-4f43-9a57-3b1c8a0e2d11")
	userSpace    = uuid.MustParse("0c9e7b3a-51f4-4d8e-b2a6-7e4f9d1c6a20")
)

// IDs are derived from names so they stay stable across restarts; saving a
// user preset under an existing name replaces it.
func builtinID(name string) string {
	return uuid.NewSHA1(builtinSpace, []byte(name)).String()
}

// UserID is the id a user preset named name is stored under.
func UserID(name string) string {
	return uuid.NewSHA1(userSpace, []byte(name)).String()
}
