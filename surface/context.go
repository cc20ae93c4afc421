package surface

// DrawContext bundles a Surface with a clip rectangle and a translation
// offset, exactly the contract in §4.2: all primitives are clipped by an
// externally supplied clip rectangle and translated by draw-offset.
// Out-of-clip primitives are no-ops, never errors.
type DrawContext struct {
	Surface Surface

	ClipLeft, ClipTop, ClipRight, ClipBottom int
	DrawOffsetX, DrawOffsetY                 int
}

// NewDrawContext creates a DrawContext clipped to the full surface extent
// with no translation.
func NewDrawContext(s Surface) DrawContext {
	return DrawContext{
		Surface:     s,
		ClipLeft:    0,
		ClipTop:     0,
		ClipRight:   s.Width(),
		ClipBottom:  s.Height(),
		DrawOffsetX: 0,
		DrawOffsetY: 0,
	}
}

// Restrict returns a new DrawContext whose clip rectangle is the
// intersection of the receiver's clip rect and the given rectangle
// (expressed in the same translated coordinate space the receiver uses).
// It never widens the clip.
func (c DrawContext) Restrict(left, top, right, bottom int) DrawContext {
	n := c
	if left > n.ClipLeft {
		n.ClipLeft = left
	}
	if top > n.ClipTop {
		n.ClipTop = top
	}
	if right < n.ClipRight {
		n.ClipRight = right
	}
	if bottom < n.ClipBottom {
		n.ClipBottom = bottom
	}
	return n
}

// Translate returns a new DrawContext with dx, dy added to the draw
// offset. The clip rectangle is unchanged: clipping happens in device
// space, translation happens to the coordinates primitives receive.
func (c DrawContext) Translate(dx, dy int) DrawContext {
	n := c
	n.DrawOffsetX += dx
	n.DrawOffsetY += dy
	return n
}

func (c DrawContext) toDevice(x, y int) (int, int) {
	return x + c.DrawOffsetX, y + c.DrawOffsetY
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HLine draws a single-pixel-thick horizontal line of len pixels starting
// at (x, y), clipped to the context's clip rectangle.
func (c DrawContext) HLine(x, y, length int, color byte) {
	dx, dy := c.toDevice(x, y)
	if dy < c.ClipTop || dy >= c.ClipBottom {
		return
	}
	x0 := clampInt(dx, c.ClipLeft, c.ClipRight)
	x1 := clampInt(dx+length, c.ClipLeft, c.ClipRight)
	for px := x0; px < x1; px++ {
		c.Surface.SetPixel(px, dy, color)
	}
}

// VLine draws a single-pixel-thick vertical line of len pixels starting
// at (x, y), clipped to the context's clip rectangle.
func (c DrawContext) VLine(x, y, length int, color byte) {
	dx, dy := c.toDevice(x, y)
	if dx < c.ClipLeft || dx >= c.ClipRight {
		return
	}
	y0 := clampInt(dy, c.ClipTop, c.ClipBottom)
	y1 := clampInt(dy+length, c.ClipTop, c.ClipBottom)
	for py := y0; py < y1; py++ {
		c.Surface.SetPixel(dx, py, color)
	}
}

// FillRect fills a w x h rectangle at (x, y) with color, clipped.
func (c DrawContext) FillRect(x, y, w, h int, color byte) {
	dx, dy := c.toDevice(x, y)
	x0 := clampInt(dx, c.ClipLeft, c.ClipRight)
	x1 := clampInt(dx+w, c.ClipLeft, c.ClipRight)
	y0 := clampInt(dy, c.ClipTop, c.ClipBottom)
	y1 := clampInt(dy+h, c.ClipTop, c.ClipBottom)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Surface.SetPixel(px, py, color)
		}
	}
}

// InvertRect inverts the pixels in a w x h rectangle at (x, y), clipped.
// Inversion is defined against the surface's maximum palette index for
// its bit depth, e.g. 1 for 1bpp, 3 for 2bpp, 15 for 4bpp, 255 for 8bpp.
func (c DrawContext) InvertRect(x, y, w, h int) {
	maxIndex := byte(1<<uint(c.Surface.BPP()) - 1)
	dx, dy := c.toDevice(x, y)
	x0 := clampInt(dx, c.ClipLeft, c.ClipRight)
	x1 := clampInt(dx+w, c.ClipLeft, c.ClipRight)
	y0 := clampInt(dy, c.ClipTop, c.ClipBottom)
	y1 := clampInt(dy+h, c.ClipTop, c.ClipBottom)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Surface.SetPixel(px, py, maxIndex-c.Surface.GetPixel(px, py))
		}
	}
}

// ScrollScreen bit-copies rows between top and bottom (exclusive) of the
// given width, shifting by delta rows. A positive delta scrolls content
// up (rows move toward smaller y). After scrolling, the band exposed by
// the shift is left untouched by design — per §4.2, the renderer is
// responsible for repainting it.
func (c DrawContext) ScrollScreen(top, bottom, width, delta int) {
	if delta == 0 {
		return
	}
	dx, dyTop := c.toDevice(0, top)
	_, dyBottom := c.toDevice(0, bottom)
	_ = dx
	if delta > 0 {
		for y := dyTop; y < dyBottom-delta; y++ {
			c.Surface.CopyRow(y, y+delta, 0, 0, width)
		}
	} else {
		for y := dyBottom - 1; y >= dyTop-delta; y-- {
			c.Surface.CopyRow(y, y+delta, 0, 0, width)
		}
	}
}
