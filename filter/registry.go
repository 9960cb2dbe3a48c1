package filter

import (
	"image"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/ggedit/internal/logx"
)

// DefaultSeed seeds the noise source of registries created without WithSeed.
const DefaultSeed = 0x67676564

// Registry maps filter types to implementations and holds the preset
// catalogue. It is safe for concurrent use; preset reloads from a Watcher
// may run alongside Apply calls.
type Registry struct {
	mu      sync.RWMutex
	filters map[Type]Func
	presets map[string]Preset
	order   []string

	rng    *lockedRand
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithSeed seeds the random source used by noise and grain.
func WithSeed(seed uint64) Option {
	return func(r *Registry) {
		r.rng.reseed(seed)
	}
}

// WithLogger sets the logger used for lookup warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logx.OrNop(l)
	}
}

// WithoutBuiltinPresets starts the registry with an empty preset catalogue.
func WithoutBuiltinPresets() Option {
	return func(r *Registry) {
		r.presets = make(map[string]Preset)
		r.order = nil
	}
}

// NewRegistry returns a registry with every built-in filter and preset.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		filters: make(map[Type]Func),
		presets: make(map[string]Preset),
		rng:     newLockedRand(DefaultSeed),
		logger:  logx.Nop(),
	}
	r.filters[Brightness] = brightness
	r.filters[Contrast] = contrast
	r.filters[Saturation] = saturation
	r.filters[Hue] = hue
	r.filters[Exposure] = exposure
	r.filters[Temperature] = temperature
	r.filters[Tint] = tint
	r.filters[Vibrance] = vibrance
	r.filters[Sharpen] = sharpen
	r.filters[Blur] = blur
	r.filters[Grayscale] = grayscale
	r.filters[Sepia] = sepia
	r.filters[Invert] = invert
	r.filters[Vignette] = vignette
	r.filters[Noise] = noiseFunc(r.rng)
	r.filters[Grain] = grainFunc(r.rng)

	for _, p := range BuiltinPresets() {
		r.putPreset(p)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces the implementation of t.
func (r *Registry) Register(t Type, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[t] = fn
}

// Has reports whether t is registered.
func (r *Registry) Has(t Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.filters[t]
	return ok
}

// Types returns the registered filter types, sorted.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Type, 0, len(r.filters))
	for t := range r.filters {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Apply runs one filter. It returns src itself when d is disabled, its
// value is zero or its type is unknown.
func (r *Registry) Apply(src *image.NRGBA, d Descriptor) *image.NRGBA {
	if src == nil || d.IsNoop() {
		return src
	}
	r.mu.RLock()
	fn, ok := r.filters[d.Type]
	r.mu.RUnlock()
	if !ok {
		r.logger.Warn("filter: unknown filter type", "type", d.Type)
		return src
	}
	return fn(src, d.Value)
}

// ApplyAll folds ds over src from first to last.
func (r *Registry) ApplyAll(src *image.NRGBA, ds []Descriptor) *image.NRGBA {
	out := src
	for _, d := range ds {
		out = r.Apply(out, d)
	}
	return out
}

// ApplyPreset applies the filters of preset id. An unknown id is logged and
// src is returned unchanged.
func (r *Registry) ApplyPreset(src *image.NRGBA, id string) *image.NRGBA {
	p, ok := r.Preset(id)
	if !ok {
		r.logger.Warn("filter: unknown preset", "preset", id)
		return src
	}
	return r.ApplyAll(src, p.Filters)
}

// Preset returns the preset registered under id.
func (r *Registry) Preset(id string) (Preset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[id]
	if !ok {
		return Preset{}, false
	}
	p.Filters = slices.Clone(p.Filters)
	return p, true
}

// Presets returns every preset in registration order.
func (r *Registry) Presets() []Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Preset, 0, len(r.order))
	for _, id := range r.order {
		p := r.presets[id]
		p.Filters = slices.Clone(p.Filters)
		out = append(out, p)
	}
	return out
}

// PresetsByCategory groups the presets by category, each group in
// registration order.
func (r *Registry) PresetsByCategory() map[string][]Preset {
	out := make(map[string][]Preset)
	for _, p := range r.Presets() {
		out[p.Category] = append(out[p.Category], p)
	}
	return out
}

// AddPreset registers p, replacing any preset with the same id. Every filter
// type in p must be registered.
func (r *Registry) AddPreset(p Preset) error {
	if err := r.validate(p); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putPreset(p)
	return nil
}

// RemovePreset deletes a preset. Unknown ids are ignored.
func (r *Registry) RemovePreset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presets[id]; !ok {
		return
	}
	delete(r.presets, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
}

func (r *Registry) putPreset(p Preset) {
	p.Filters = slices.Clone(p.Filters)
	if _, exists := r.presets[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.presets[p.ID] = p
}
