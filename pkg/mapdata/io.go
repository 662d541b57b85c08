package mapdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is a map file encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor picks the encoding from a file name. Anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Load decodes a JSON map and validates it.
func Load(r io.Reader) (*Map, error) {
	return Decode(r, JSON)
}

// Decode reads a map in format f and validates it.
func Decode(r io.Reader, f Format) (*Map, error) {
	var m Map
	switch f {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&m); err != nil {
			return nil, fmt.Errorf("decode yaml map: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode json map: %w", err)
		}
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads and validates the map at path.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Save writes m as indented JSON.
func (m *Map) Save(w io.Writer) error {
	return m.Encode(w, JSON)
}

// Encode writes m in format f.
func (m *Map) Encode(w io.Writer, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode yaml map: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode json map: %w", err)
		}
		return nil
	}
}

// SaveFile writes m to path, picking the format from the extension.
func (m *Map) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	if err := m.Encode(f, FormatFor(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
