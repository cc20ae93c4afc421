// Package layout implements the stack-based layout engine of §4.5: a
// cursor stack (pen position and current line height) and a parameter
// stack (left/right margins), walked over a document tree in document
// order, producing the Anchor/Size geometry §3 treats as authoritative.
package layout

import (
	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
	"github.com/jhhoward/microweb-go/surface"
)

// Font is the glyph source layout needs: the advance-measuring surface
// used during word-wrap, draw_string height queries, and the glyph
// bitmaps surface.Font exposes for painting.
type Font interface {
	surface.Font
	GlyphWidth(r rune) int
}

// FontProvider resolves a style into the bitmap font that measures and
// renders it.
type FontProvider interface {
	Font(sizeIndex int, bits node.StyleBit) Font
}

type cursorFrame struct {
	x, y      int
	lineStart *node.Node // leftmost node on the current line
	lineY     int        // y at which the current line began
}

type marginFrame struct {
	left, right int
}

// tableRowFrame tracks which column a TableRow is currently placing
// cells into, and the Table node whose ColumnWidths/CellSpacing/
// CellPadding govern them (§4.3's two-pass table layout).
type tableRowFrame struct {
	table *node.Node
	col   int
}

// Engine drives layout over a document tree. It is stateless between
// calls to Run except for the per-run stacks, which are reset at the
// start of each Run.
type Engine struct {
	Fonts  FontProvider
	Styles *node.StylePool
	Blocks *memtier.BlockAllocator
	Pool   *node.Pool

	AvailableWidth int

	cursors []cursorFrame
	margins []marginFrame

	lineHeight int

	// tableRows, cellWidths, and cellLineHeights back the table-cell
	// side-by-side placement: each TableCell push saves the row's
	// lineHeight-so-far (so the cell's own wrapped lines don't clobber
	// the row's running max height) and its allocated column width,
	// both popped when the cell ends.
	tableRows       []tableRowFrame
	cellWidths      []int
	cellLineHeights []int

	// Suspended is set by Run when it stops early because it reached an
	// Image node with unknown dimensions and no fetch in flight; the
	// caller starts the fetch and calls Run again once dimensions are
	// known (§5 suspension point (b)).
	Suspended     bool
	SuspendedNode *node.Node
}

// NeedsDimensions reports whether an Image node requires a sub-resource
// fetch before layout can proceed.
func NeedsDimensions(n *node.Node) bool {
	p, ok := n.Payload.(*node.ImagePayload)
	if !ok {
		return false
	}
	return p.State == node.ImageUnloaded
}

// Run performs a full layout pass over root, per the "full recalculation
// path": reset all stacks and walk the tree calling the three layout
// hooks, regenerating every anchor and size without re-parsing.
func (e *Engine) Run(root *node.Node) {
	e.cursors = e.cursors[:0]
	e.margins = e.margins[:0]
	e.tableRows = e.tableRows[:0]
	e.cellWidths = e.cellWidths[:0]
	e.cellLineHeights = e.cellLineHeights[:0]
	e.lineHeight = 0
	e.Suspended = false
	e.SuspendedNode = nil

	e.pushCursor(0, 0)
	e.pushMargin(0, 0)
	e.walk(root)
}

func (e *Engine) pushCursor(x, y int) {
	e.cursors = append(e.cursors, cursorFrame{x: x, y: y, lineY: y})
}

func (e *Engine) popCursor() cursorFrame {
	f := e.cursors[len(e.cursors)-1]
	e.cursors = e.cursors[:len(e.cursors)-1]
	return f
}

func (e *Engine) top() *cursorFrame {
	return &e.cursors[len(e.cursors)-1]
}

func (e *Engine) pushMargin(left, right int) {
	e.margins = append(e.margins, marginFrame{left: left, right: right})
}

func (e *Engine) popMargin() {
	if len(e.margins) > 1 {
		e.margins = e.margins[:len(e.margins)-1]
	}
}

func (e *Engine) margin() marginFrame {
	return e.margins[len(e.margins)-1]
}

func (e *Engine) pushTableRow(table *node.Node) {
	e.tableRows = append(e.tableRows, tableRowFrame{table: table})
}

func (e *Engine) popTableRow() {
	e.tableRows = e.tableRows[:len(e.tableRows)-1]
}

// topTableRow returns the innermost TableRow frame, or nil when a
// TableCell is reached outside of any TableRow (malformed markup).
func (e *Engine) topTableRow() *tableRowFrame {
	if len(e.tableRows) == 0 {
		return nil
	}
	return &e.tableRows[len(e.tableRows)-1]
}

// availableLineWidth returns the remaining pixels on the current line
// within the active margin frame.
func (e *Engine) availableLineWidth() int {
	m := e.margin()
	c := e.top()
	w := (e.AvailableWidth - m.right) - c.x
	if w < 0 {
		return 0
	}
	return w
}

// BreakLine starts a new line: advances y by the tallest node seen on
// the current line, resets x to the left margin, and applies
// alignment-aware translation to everything laid out on the
// now-finished line (§4.5).
func (e *Engine) BreakLine(align node.Align) {
	c := e.top()
	m := e.margin()

	if c.lineStart != nil {
		used := c.x - m.left
		avail := e.AvailableWidth - m.left - m.right
		shift := 0
		switch align {
		case node.Center:
			shift = (avail - used) / 2
		case node.Right:
			shift = avail - used
		}
		if shift > 0 {
			translateLine(c.lineStart, shift, 0)
		}
	}

	c.y += e.lineHeight
	c.x = m.left
	c.lineY = c.y
	c.lineStart = nil
	e.lineHeight = 0
}

// translateLine shifts from and every node after it (in document order,
// as linked by NextSibling chains reachable from `from` at the same
// nesting level) by (dx, dy), the "alignment-aware translation" §4.5
// describes.
func translateLine(from *node.Node, dx, dy int) {
	for n := from; n != nil; n = n.NextSibling {
		n.AnchorX += dx
		n.AnchorY += dy
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			translateLine(c, dx, dy)
		}
	}
}

func (e *Engine) walk(n *node.Node) {
	if n == nil {
		return
	}

	if NeedsDimensions(n) {
		e.Suspended = true
		e.SuspendedNode = n
		return
	}
	if n.Kind == node.SubText {
		return // already placed by its Text parent's layoutText
	}

	style := e.Styles.Resolve(n.Style)

	c := e.top()
	n.AnchorX = c.x
	n.AnchorY = c.y
	if c.lineStart == nil {
		c.lineStart = n
	}

	beginLayoutContext(e, n, style)
	generateLayout(e, n, style)

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		e.walk(child)
		if e.Suspended {
			return
		}
	}

	endLayoutContext(e, n, style)
}
