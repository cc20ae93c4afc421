// Package pagerender implements the repaint loop of §4.6: scroll
// banding, dirty-rect tracking, hit testing, and the per-kind paint
// dispatch that walks the document and interface node trees onto a
// draw surface. Paint dispatch is a switch on node.Kind, the same
// tagged-variant match the layout package uses for begin/generate/
// end_layout_context (§9) — nothing here is a method on node.Node.
//
// The dirty-rect ring is grounded on the retained-mode scene's damage
// tracking (accumulate rects, fall back once a threshold is crossed);
// adapted here to coalesce overflow into one bounding rect rather than
// a whole-scene redraw flag, matching the "ring... coalesced into a
// bounding rect when overflowing" contract.
package pagerender

import (
	"github.com/jhhoward/microweb-go/asset"
	"github.com/jhhoward/microweb-go/layout"
	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
	"github.com/jhhoward/microweb-go/surface"
)

// Renderer owns one draw surface and paints the document root (scrolled,
// clipped to the viewport below the interface chrome) and the interface
// root (fixed, never scrolled).
type Renderer struct {
	Surface surface.Surface
	Fonts   layout.FontProvider
	Styles  *node.StylePool
	Blocks  *memtier.BlockAllocator
	Assets  *asset.Pack // optional; nil falls back to primitive shapes

	// InterfaceStyles/InterfaceBlocks resolve style handles and text
	// buffers for InterfaceRoot. The interface chrome owns its own
	// style pool and block allocator (ui.Shell) so it survives the
	// arena reset a navigation performs on the document's Styles/
	// Blocks; nil falls back to Styles/Blocks, for callers that paint
	// both trees from one shared pool (e.g. tests).
	InterfaceStyles *node.StylePool
	InterfaceBlocks *memtier.BlockAllocator

	WindowWidth  int
	WindowHeight int

	// DocumentTop is the y offset, in screen pixels, at which the
	// document viewport begins, below the interface chrome.
	DocumentTop int

	InterfaceRoot *node.Node
	DocumentRoot  *node.Node

	ScrollY int
	Paused  bool
	Focused *node.Node

	Dirty          DirtyTracker
	InterfaceDirty bool

	// Invert flips every region's palette indices immediately after
	// painting it (the `-i` CLI flag's end-to-end color scheme
	// inversion, §6), rather than re-inverting the whole surface each
	// tick, which would flip already-inverted static regions back.
	Invert bool

	// FocusedInDocument selects whether Focused's geometry needs the
	// scroll-adjusted document translate or the fixed interface one.
	FocusedInDocument bool

	lastScrollY int
}

// NewRenderer creates a Renderer sized to s's full extent.
func NewRenderer(s surface.Surface, fonts layout.FontProvider, styles *node.StylePool, blocks *memtier.BlockAllocator) *Renderer {
	return &Renderer{
		Surface:      s,
		Fonts:        fonts,
		Styles:       styles,
		Blocks:       blocks,
		WindowWidth:  s.Width(),
		WindowHeight: s.Height(),
	}
}

// MarkNodeDirty records n's current screen-space box as needing
// repaint. inDocument selects whether n's geometry is scroll-adjusted
// (document tree) or fixed (interface tree).
func (r *Renderer) MarkNodeDirty(n *node.Node, inDocument bool) {
	if n == nil {
		return
	}
	if !inDocument {
		r.InterfaceDirty = true
		return
	}
	r.Dirty.Invalidate(r.nodeScreenRect(n))
}

func (r *Renderer) nodeScreenRect(n *node.Node) Rect {
	return Rect{X: n.AnchorX, Y: n.AnchorY - r.ScrollY + r.DocumentTop, W: n.SizeW, H: n.SizeH}
}

// Tick runs one repaint pass: scroll banding (step 1), then painting
// whatever is dirty (steps 2-3), per §4.6.
func (r *Renderer) Tick() {
	if r.Paused {
		return
	}

	if delta := r.ScrollY - r.lastScrollY; delta != 0 {
		r.handleScroll(delta)
		r.lastScrollY = r.ScrollY
	}

	r.paintDocumentDirty()
	r.Dirty.Clear()

	if r.InterfaceDirty {
		r.paintInterface()
		r.InterfaceDirty = false
	}
}

// handleScroll implements §4.6 step 1: a bit-blit scroll for a small
// delta, marking only the exposed band dirty, or a full-window
// invalidate for a jump larger than one screenful.
func (r *Renderer) handleScroll(delta int) {
	if abs(delta) < r.WindowHeight {
		ctx := surface.NewDrawContext(r.Surface)
		r.Dirty.Invalidate(r.scrollBand(ctx, delta))
		return
	}
	r.Dirty.InvalidateAll(r.WindowWidth, r.WindowHeight-r.DocumentTop)
}

// scrollBand bit-copies the document viewport by delta rows and returns
// the band the shift exposed.
func (r *Renderer) scrollBand(ctx surface.DrawContext, delta int) Rect {
	top, bottom := r.DocumentTop, r.WindowHeight
	ctx.ScrollScreen(top, bottom, r.WindowWidth, delta)
	if delta > 0 {
		return Rect{X: 0, Y: bottom - delta, W: r.WindowWidth, H: delta}
	}
	return Rect{X: 0, Y: top, W: r.WindowWidth, H: -delta}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// paintDocumentDirty walks the document tree once per pending dirty
// region, clipped to that region and translated from page coordinates
// into scrolled screen coordinates.
func (r *Renderer) paintDocumentDirty() {
	for _, region := range r.Dirty.Regions() {
		clip := surface.NewDrawContext(r.Surface).
			Restrict(region.X, region.Y, region.X+region.W, region.Y+region.H)
		paintSubtree(r, clip.Translate(0, r.DocumentTop-r.ScrollY), r.DocumentRoot, r.Styles, r.Blocks)
		if r.Invert {
			clip.InvertRect(region.X, region.Y, region.W, region.H)
		}
	}
}

// paintInterface repaints the fixed interface chrome in full; it is
// thin enough that partial tracking isn't worth the complexity.
func (r *Renderer) paintInterface() {
	ctx := surface.NewDrawContext(r.Surface)
	paintSubtree(r, ctx, r.InterfaceRoot, r.interfaceStyles(), r.interfaceBlocks())
	if r.Invert {
		ctx.InvertRect(0, 0, r.WindowWidth, r.DocumentTop)
	}
}

// interfaceStyles returns InterfaceStyles, falling back to Styles when
// the caller paints both trees from one shared pool.
func (r *Renderer) interfaceStyles() *node.StylePool {
	if r.InterfaceStyles != nil {
		return r.InterfaceStyles
	}
	return r.Styles
}

// interfaceBlocks returns InterfaceBlocks, falling back to Blocks when
// the caller paints both trees from one shared allocator.
func (r *Renderer) interfaceBlocks() *memtier.BlockAllocator {
	if r.InterfaceBlocks != nil {
		return r.InterfaceBlocks
	}
	return r.Blocks
}

func paintSubtree(r *Renderer, ctx surface.DrawContext, n *node.Node, styles *node.StylePool, blocks *memtier.BlockAllocator) {
	if n == nil {
		return
	}
	paintNode(r, ctx, n, styles, blocks)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		paintSubtree(r, ctx, c, styles, blocks)
	}
}

// PaintFocusHighlight inverts the focused node's box, the "invert_rect
// over the focused node's box" §4.6 describes.
func (r *Renderer) PaintFocusHighlight() {
	if r.Focused == nil {
		return
	}
	ctx := surface.NewDrawContext(r.Surface)
	if r.FocusedInDocument {
		ctx = ctx.Translate(0, r.DocumentTop-r.ScrollY)
	}
	ctx.InvertRect(r.Focused.AnchorX, r.Focused.AnchorY, r.Focused.SizeW, r.Focused.SizeH)
}
