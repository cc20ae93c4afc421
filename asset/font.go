// Package asset decodes the bundled data pack: bitmap fonts, mouse
// cursors, and UI icons, per §4.3/§6. Fonts and icons all trace back to
// a single packed byte slice read at startup; nothing here touches the
// filesystem beyond the one read the caller performs before calling
// Load.
package asset

import (
	"fmt"

	"golang.org/x/image/math/fixed"

	"github.com/jhhoward/microweb-go/surface"
)

// GlyphCount is the number of printable ASCII glyphs a Font covers:
// codepoints 32 (space) through 127 inclusive.
const GlyphCount = 96

// Style mirrors the font-style bitset in the ElementStyle data model.
type Style uint8

const (
	StyleRegular   Style = 0
	StyleBold      Style = 1 << 0
	StyleItalic    Style = 1 << 1
	StyleUnderline Style = 1 << 2
	StyleMonospace Style = 1 << 3
)

// Font is a fixed-height bitmap font: a 96-entry glyph-width table plus a
// packed 1bpp glyph bitmap, all glyphs sharing the same cell height and
// row stride.
type Font struct {
	Widths      [GlyphCount]uint8
	GlyphHeight uint8
	Stride      uint8 // bytes per glyph row
	Data        []byte
}

// glyphBytes returns the number of bytes one glyph's bitmap occupies.
func (f *Font) glyphBytes() int {
	return int(f.Stride) * int(f.GlyphHeight)
}

// Height implements surface.Font: the font's fixed line height in pixels.
func (f *Font) Height() int { return int(f.GlyphHeight) }

// GlyphWidth returns r's advance width in pixels, or 0 if r is outside
// the font's coverage. Used by layout's word-wrap, which only needs
// the advance, not the glyph bitmap itself.
func (f *Font) GlyphWidth(r rune) int {
	if r < 32 || r >= 32+GlyphCount {
		return 0
	}
	return int(f.Widths[r-32])
}

// Glyph implements surface.Font: it slices the packed bitmap for the
// requested rune into a surface.Image mask and reports its advance
// width from the glyph-width table.
func (f *Font) Glyph(r rune) (*surface.Image, int, bool) {
	if r < 32 || r >= 32+GlyphCount {
		return nil, 0, false
	}
	index := int(r) - 32
	width := int(f.Widths[index])
	if width == 0 {
		return &surface.Image{Width: 0, Height: int(f.GlyphHeight)}, 0, true
	}

	glyphBytes := f.glyphBytes()
	start := index * glyphBytes
	end := start + glyphBytes
	if end > len(f.Data) {
		return nil, 0, false
	}
	packed := f.Data[start:end]

	pixels := make([]byte, width*int(f.GlyphHeight))
	stride := int(f.Stride)
	for row := 0; row < int(f.GlyphHeight); row++ {
		rowBytes := packed[row*stride : (row+1)*stride]
		for col := 0; col < width; col++ {
			byteIdx := col / 8
			bitIdx := uint(7 - col%8)
			if rowBytes[byteIdx]&(1<<bitIdx) != 0 {
				pixels[row*width+col] = 1
			}
		}
	}

	return &surface.Image{Width: width, Height: int(f.GlyphHeight), Pixels: pixels}, width, true
}

// CalculateWidth sums the advance width of text under style, adding one
// pixel per glyph when Bold is set — the same per-character surcharge
// §4.2's draw_string bold handling applies, expressed here as
// fixed.Int26_6 pixel math to mirror how the teacher's text-layout code
// accumulates glyph advances.
func (f *Font) CalculateWidth(text string, style Style) int {
	var total fixed.Int26_6
	for _, r := range text {
		if r < 32 || r >= 32+GlyphCount {
			continue
		}
		total += fixed.I(int(f.Widths[r-32]))
		if style&StyleBold != 0 {
			total += fixed.I(1)
		}
	}
	return total.Round()
}

// Parse decodes a Font from its packed representation: 96 glyph-width
// bytes, then height, then stride, then stride*height*96 bytes of packed
// glyph bitmap.
func Parse(data []byte) (*Font, error) {
	if len(data) < GlyphCount+2 {
		return nil, fmt.Errorf("asset: font data too short: %d bytes", len(data))
	}
	f := &Font{}
	copy(f.Widths[:], data[:GlyphCount])
	f.GlyphHeight = data[GlyphCount]
	f.Stride = data[GlyphCount+1]

	bitmapStart := GlyphCount + 2
	need := f.glyphBytes() * GlyphCount
	if len(data) < bitmapStart+need {
		return nil, fmt.Errorf("asset: font bitmap truncated: need %d, have %d", need, len(data)-bitmapStart)
	}
	f.Data = data[bitmapStart : bitmapStart+need]
	return f, nil
}
