package microweb

import "github.com/jhhoward/microweb-go/surface"

// fallbackFont is a degenerate bitmap font used only when Engine is
// constructed without a data pack (§6): every printable character is a
// fixed 6x8 solid block so pagination and word-wrap still have real
// advances to work with, and text is visibly present even without the
// bundled glyph set.
type fallbackFont struct {
	bold bool
}

const (
	fallbackGlyphWidth  = 6
	fallbackGlyphHeight = 8
)

func (f fallbackFont) Height() int { return fallbackGlyphHeight }

func (f fallbackFont) GlyphWidth(r rune) int {
	if r == ' ' {
		return fallbackGlyphWidth
	}
	return fallbackGlyphWidth
}

func (f fallbackFont) Glyph(r rune) (*surface.Image, int, bool) {
	if r == ' ' {
		return &surface.Image{Width: fallbackGlyphWidth, Height: fallbackGlyphHeight}, fallbackGlyphWidth, true
	}
	pixels := make([]byte, fallbackGlyphWidth*fallbackGlyphHeight)
	for y := 1; y < fallbackGlyphHeight-1; y++ {
		for x := 1; x < fallbackGlyphWidth-1; x++ {
			pixels[y*fallbackGlyphWidth+x] = 1
		}
	}
	return &surface.Image{Width: fallbackGlyphWidth, Height: fallbackGlyphHeight, Pixels: pixels}, fallbackGlyphWidth, true
}
