package preset

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Storage persists user presets.
type Storage interface {
	Get() ([]Preset, error)
	Set(presets []Preset) error
}

// FileStorage keeps user presets in a JSON file.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Get loads the file. A missing file is an empty collection.
func (f *FileStorage) Get() ([]Preset, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return UnmarshalRecords(data)
}

// Set writes to a temp file then renames it over the target.
func (f *FileStorage) Set(presets []Preset) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := MarshalRecords(presets)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// MemoryStorage is used when nothing is configured; presets last until the
// process exits.
type MemoryStorage struct {
	mu      sync.Mutex
	presets []Preset
}

func (m *MemoryStorage) Get() ([]Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clonePresets(m.presets), nil
}

func (m *MemoryStorage) Set(presets []Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = clonePresets(presets)
	return nil
}

func clonePresets(ps []Preset) []Preset {
	out := make([]Preset, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
