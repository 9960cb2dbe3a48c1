package filter

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresetsYAML []byte

// presetDoc is the YAML layout of a preset file.
//
//	presets:
//	  - id: vintage
//	    name: Vintage
//	    category: retro
//	    filters:
//	      - {type: sepia, value: 0.4}
//	      - {type: vignette, value: 0.3, enabled: false}
type presetDoc struct {
	Presets []presetEntry `yaml:"presets"`
}

type presetEntry struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Category string        `yaml:"category"`
	Filters  []filterEntry `yaml:"filters"`
}

// filterEntry defaults Enabled to true when the key is absent.
type filterEntry struct {
	Type    Type    `yaml:"type"`
	Value   float64 `yaml:"value"`
	Enabled *bool   `yaml:"enabled"`
}

var builtinPresets = sync.OnceValue(func() []Preset {
	ps, err := ParsePresets(bytes.NewReader(builtinPresetsYAML))
	if err != nil {
		panic(fmt.Sprintf("filter: embedded presets: %v", err))
	}
	return ps
})

// BuiltinPresets returns the presets every registry starts with.
func BuiltinPresets() []Preset {
	ps := builtinPresets()
	out := make([]Preset, len(ps))
	copy(out, ps)
	return out
}

// ParsePresets decodes a YAML preset document. Filter types are not checked
// against any registry.
func ParsePresets(r io.Reader) ([]Preset, error) {
	var doc presetDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("filter: parse presets: %w", err)
	}

	out := make([]Preset, 0, len(doc.Presets))
	for i, e := range doc.Presets {
		if e.ID == "" {
			return nil, fmt.Errorf("filter: parse presets: entry %d: %w: missing id", i, ErrInvalidPreset)
		}
		p := Preset{ID: e.ID, Name: e.Name, Category: e.Category}
		if p.Name == "" {
			p.Name = e.ID
		}
		for _, f := range e.Filters {
			enabled := f.Enabled == nil || *f.Enabled
			p.Filters = append(p.Filters, Descriptor{Type: f.Type, Value: f.Value, Enabled: enabled})
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadPresets parses a YAML preset document and registers every preset in
// it. Nothing is registered when any preset is invalid. It returns the
// number of presets loaded.
func (r *Registry) LoadPresets(src io.Reader) (int, error) {
	ps, err := ParsePresets(src)
	if err != nil {
		return 0, err
	}
	for _, p := range ps {
		if err := r.validate(p); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range ps {
		r.putPreset(p)
	}
	r.logger.Debug("filter: presets loaded", "count", len(ps))
	return len(ps), nil
}

// LoadPresetsFile is LoadPresets on the file at path.
func (r *Registry) LoadPresetsFile(path string) (int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("filter: open presets: %w", err)
	}
	defer f.Close()
	return r.LoadPresets(f)
}

func (r *Registry) validate(p Preset) error {
	if p.ID == "" {
		return fmt.Errorf("filter: preset %q: %w: missing id", p.Name, ErrInvalidPreset)
	}
	for _, d := range p.Filters {
		if !r.Has(d.Type) {
			return fmt.Errorf("filter: preset %q: %w %q", p.ID, ErrUnknownFilter, d.Type)
		}
	}
	return nil
}
