package surface

import "fmt"

// Mode describes one selectable video mode: a letter key (matching the
// -video CLI flag in §6), a resolution, and the bit depth it renders at.
type Mode struct {
	Key    byte
	Name   string
	Width  int
	Height int
	BPP    int
}

// Factory creates a Surface for a Mode.
type Factory func(m Mode) Surface

type registryEntry struct {
	mode    Mode
	factory Factory
}

// Registry maps video-mode keys to surface factories, the way a DOS build
// would enumerate CGA/EGA/Hercules/VGA-4bpp display adapters.
type Registry struct {
	entries map[byte]registryEntry
	order   []byte
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[byte]registryEntry)}
}

// Register adds a video mode under its key. Registering the same key
// twice overwrites the previous entry but keeps its original position.
func (r *Registry) Register(m Mode, f Factory) {
	if _, exists := r.entries[m.Key]; !exists {
		r.order = append(r.order, m.Key)
	}
	r.entries[m.Key] = registryEntry{mode: m, factory: f}
}

// Create builds a Surface for the mode registered under key.
func (r *Registry) Create(key byte) (Surface, Mode, error) {
	e, ok := r.entries[key]
	if !ok {
		return nil, Mode{}, fmt.Errorf("surface: no video mode registered for %q", string(key))
	}
	return e.factory(e.mode), e.mode, nil
}

// Modes returns the registered modes in registration order.
func (r *Registry) Modes() []Mode {
	modes := make([]Mode, 0, len(r.order))
	for _, k := range r.order {
		modes = append(modes, r.entries[k].mode)
	}
	return modes
}

// DefaultRegistry returns the registry of built-in video modes: CGA
// (2bpp, 320x200), EGA (4bpp, 640x350), Hercules (1bpp, 720x348), and a
// VGA-like 4bpp mode at 320x200, matching the adapter variety the
// original DOS build targeted.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Mode{Key: 'c', Name: "cga", Width: 320, Height: 200, BPP: 2}, func(m Mode) Surface {
		return New2bpp(m.Width, m.Height)
	})
	r.Register(Mode{Key: 'e', Name: "ega", Width: 640, Height: 350, BPP: 4}, func(m Mode) Surface {
		return New4bpp(m.Width, m.Height)
	})
	r.Register(Mode{Key: 'h', Name: "hercules", Width: 720, Height: 348, BPP: 1}, func(m Mode) Surface {
		return New1bpp(m.Width, m.Height)
	})
	r.Register(Mode{Key: 'v', Name: "vga4", Width: 320, Height: 200, BPP: 4}, func(m Mode) Surface {
		return New4bpp(m.Width, m.Height)
	})
	return r
}
