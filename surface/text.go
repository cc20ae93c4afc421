package surface

// Style flags control the synthetic emphasis DrawString applies to a
// bundled bitmap font: the engine carries one regular and one bold glyph
// set per family (§6), and derives italic/underline rather than storing
// dedicated glyph sets for them.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleUnderline
)

// Font is the minimal glyph source DrawString needs. Implementations
// (asset.Font) own the actual packed glyph bitmaps and width table.
type Font interface {
	// Glyph returns the 1bpp mask for r and its advance width in pixels.
	// ok is false for glyphs outside the font's coverage.
	Glyph(r rune) (mask *Image, advance int, ok bool)

	// Height returns the font's fixed line height in pixels.
	Height() int
}

// DrawString draws text starting at (x, y) using font and color, applying
// the requested style bits. Per §4.2:
//   - Bold ORs each glyph row with itself shifted right by one pixel and
//     advances one extra pixel per glyph.
//   - Italic shifts the top half of the glyph one pixel to the right.
//   - Underline draws a horizontal line across the glyph baseline after
//     the last character.
func (c DrawContext) DrawString(font Font, text string, x, y int, color byte, style Style) int {
	cursor := x
	for _, r := range text {
		mask, advance, ok := font.Glyph(r)
		if !ok {
			mask, advance, ok = font.Glyph(' ')
			if !ok {
				continue
			}
		}

		glyph := mask
		if style&StyleBold != 0 {
			glyph = boldGlyph(glyph)
		}
		if style&StyleItalic != 0 {
			glyph = italicGlyph(glyph)
		}

		c.BlitMask(glyph, cursor, y, color)

		cursor += advance
		if style&StyleBold != 0 {
			cursor++
		}
	}

	if style&StyleUnderline != 0 {
		c.HLine(x, y+font.Height()-1, cursor-x, color)
	}

	return cursor - x
}

// boldGlyph ORs each row of mask with itself shifted right one pixel,
// widening strokes by a pixel without a second glyph set.
func boldGlyph(mask *Image) *Image {
	out := &Image{Width: mask.Width + 1, Height: mask.Height, Pixels: make([]byte, (mask.Width+1)*mask.Height)}
	for row := 0; row < mask.Height; row++ {
		for col := 0; col < mask.Width; col++ {
			v := mask.At(col, row)
			if v != 0 {
				out.Pixels[row*out.Width+col] = 1
				out.Pixels[row*out.Width+col+1] = 1
			}
		}
	}
	return out
}

// italicGlyph shifts the top half of the glyph one pixel to the right,
// producing a cheap slant without a dedicated italic glyph set.
func italicGlyph(mask *Image) *Image {
	out := &Image{Width: mask.Width + 1, Height: mask.Height, Pixels: make([]byte, (mask.Width+1)*mask.Height)}
	half := mask.Height / 2
	for row := 0; row < mask.Height; row++ {
		shift := 0
		if row < half {
			shift = 1
		}
		for col := 0; col < mask.Width; col++ {
			if mask.At(col, row) != 0 {
				out.Pixels[row*out.Width+col+shift] = 1
			}
		}
	}
	return out
}

// VerticalScrollbar draws a scrollbar track of height h at (x, y) with a
// thumb sized and positioned proportionally: size and pos are both
// fractions expressed as thumbSize/total and thumbPos/total content units.
func (c DrawContext) VerticalScrollbar(x, y, h int, contentHeight, viewportHeight, scrollPos int, trackColor, thumbColor byte) {
	c.FillRect(x, y, 1, h, trackColor)
	if contentHeight <= viewportHeight || contentHeight == 0 {
		c.FillRect(x-1, y, 3, h, thumbColor)
		return
	}

	thumbH := h * viewportHeight / contentHeight
	if thumbH < 2 {
		thumbH = 2
	}
	if thumbH > h {
		thumbH = h
	}

	maxScroll := contentHeight - viewportHeight
	thumbY := y
	if maxScroll > 0 {
		thumbY = y + (h-thumbH)*scrollPos/maxScroll
	}

	c.FillRect(x-1, thumbY, 3, thumbH, thumbColor)
}
