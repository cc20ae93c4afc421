package node

// StyleBit is the font-style bitset an ElementStyle carries.
type StyleBit uint8

const (
	Bold StyleBit = 1 << iota
	Italic
	Underline
	Monospace
)

// Align is a paragraph/cell alignment.
type Align uint8

const (
	Left Align = iota
	Center
	Right
)

// ElementStyle is the pooled, value-comparable style record §3
// describes: font size index, style bitset, foreground color index,
// and alignment. Two ElementStyle values with the same fields are
// interchangeable, which is what makes pooling by value correct.
type ElementStyle struct {
	FontSize int
	Bits     StyleBit
	Color    byte
	Align    Align
}

// Has reports whether bit is set.
func (s ElementStyle) Has(bit StyleBit) bool { return s.Bits&bit != 0 }

// With returns a copy of s with bit set.
func (s ElementStyle) With(bit StyleBit) ElementStyle {
	s.Bits |= bit
	return s
}

// Without returns a copy of s with bit cleared.
func (s ElementStyle) Without(bit StyleBit) ElementStyle {
	s.Bits &^= bit
	return s
}

// StyleHandle is a stable reference into a StylePool, valid for the
// lifetime of the page that created it.
type StyleHandle int

// StylePool deduplicates ElementStyle values behind small integer
// handles, per §3's "styles are pooled and referenced by a small
// integer handle; identical styles share a slot."
type StylePool struct {
	styles []ElementStyle
	lookup map[ElementStyle]StyleHandle
}

// NewStylePool creates a pool pre-seeded with the zero-value
// ElementStyle at handle 0, so a Node left with its zero-value Style
// field (e.g. one built directly rather than through Builder) resolves
// to a real, if plain, style instead of indexing an empty pool.
func NewStylePool() *StylePool {
	p := &StylePool{lookup: make(map[ElementStyle]StyleHandle)}
	p.Intern(ElementStyle{})
	return p
}

// Intern returns the handle for s, allocating a new slot only if an
// identical style has not been interned before.
func (p *StylePool) Intern(s ElementStyle) StyleHandle {
	if h, ok := p.lookup[s]; ok {
		return h
	}
	h := StyleHandle(len(p.styles))
	p.styles = append(p.styles, s)
	p.lookup[s] = h
	return h
}

// Resolve returns the style stored under h.
func (p *StylePool) Resolve(h StyleHandle) ElementStyle {
	return p.styles[h]
}

// Reset clears the pool, invalidating every previously issued handle,
// and re-seeds handle 0 with the zero-value style so the same
// zero-Style-field invariant holds for the next navigation. Called
// alongside the arena reset at the start of a new navigation.
func (p *StylePool) Reset() {
	p.styles = p.styles[:0]
	for k := range p.lookup {
		delete(p.lookup, k)
	}
	p.Intern(ElementStyle{})
}
