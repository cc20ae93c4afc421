package layout

import "github.com/jhhoward/microweb-go/node"

// beginLayoutContext implements §4.3's begin_layout_context per kind:
// pushing margins/cursor or breaking the line before descending into
// children. Dispatch is a switch on Kind, not a per-kind handler type —
// a tagged variant matched, not virtually dispatched (§9).
func beginLayoutContext(e *Engine, n *node.Node, style node.ElementStyle) {
	switch n.Kind {
	case node.Block:
		e.BreakLine(style.Align)
		c := e.top()
		e.pushMargin(c.x+4, e.margin().right+4)
		e.pushCursor(e.margin().left, c.y)
	case node.Style:
		if payload, ok := n.Payload.(*node.StylePayload); ok && payload.ChangesAlign {
			e.BreakLine(style.Align)
		}
	case node.List, node.Form:
		e.BreakLine(style.Align)
		c := e.top()
		e.pushMargin(c.x+8, e.margin().right)
		e.pushCursor(e.margin().left, c.y)
	case node.Table:
		e.BreakLine(style.Align)
		measureTableColumns(e, n)
		c := e.top()
		e.pushMargin(c.x+8, e.margin().right)
		e.pushCursor(e.margin().left, c.y)
	case node.ListItem:
		e.BreakLine(style.Align)
	case node.TableRow:
		e.BreakLine(style.Align)
		e.pushTableRow(n.Parent)
	case node.TableCell:
		beginTableCell(e, n)
	}
}

// generateLayout implements §4.3's generate_layout per kind: advances
// the cursor by the node's own contribution.
func generateLayout(e *Engine, n *node.Node, style node.ElementStyle) {
	switch n.Kind {
	case node.Text:
		layoutText(e, n, style)
	case node.Break:
		e.BreakLine(style.Align)
		growLine(e, 4)
	case node.Image:
		layoutImage(e, n)
	case node.Button:
		placeBox(e, n, 40, e.fontHeight(style)+4)
	case node.TextField:
		placeBox(e, n, fieldWidth(n), e.fontHeight(style)+2)
	case node.ScrollBar:
		placeBox(e, n, 16, e.top().y)
	case node.ListItem:
		c := e.top()
		c.x += 8 // bullet gutter
	}
}

// endLayoutContext implements §4.3's end_layout_context per kind: pops
// what begin pushed and computes the node's size from its children's
// accumulated extent.
func endLayoutContext(e *Engine, n *node.Node, style node.ElementStyle) {
	switch n.Kind {
	case node.Block, node.List, node.Table, node.Form:
		e.BreakLine(style.Align)
		c := e.popCursor()
		e.popMargin()
		n.SizeW = e.AvailableWidth - n.AnchorX
		n.SizeH = c.y - n.AnchorY
		growLine(e, n.SizeH)
	case node.TableRow:
		e.popTableRow()
		e.BreakLine(style.Align)
		encapsulateChildren(n)
	case node.TableCell:
		endTableCell(e, n, style.Align)
	default:
		encapsulateChildren(n)
	}
}

// encapsulateChildren sets n's size to the bounding box of its
// children, the default end_layout_context behavior for container
// kinds that didn't push their own cursor frame.
func encapsulateChildren(n *node.Node) {
	if n.FirstChild == nil {
		return
	}
	minX, minY := n.FirstChild.AnchorX, n.FirstChild.AnchorY
	maxX, maxY := minX, minY
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.AnchorX < minX {
			minX = c.AnchorX
		}
		if c.AnchorY < minY {
			minY = c.AnchorY
		}
		if c.AnchorX+c.SizeW > maxX {
			maxX = c.AnchorX + c.SizeW
		}
		if c.AnchorY+c.SizeH > maxY {
			maxY = c.AnchorY + c.SizeH
		}
	}
	n.AnchorX, n.AnchorY = minX, minY
	n.SizeW = maxX - minX
	n.SizeH = maxY - minY
}

func placeBox(e *Engine, n *node.Node, w, h int) {
	c := e.top()
	n.AnchorX, n.AnchorY = c.x, c.y
	n.SizeW, n.SizeH = w, h
	c.x += w
	growLine(e, h)
}

func fieldWidth(n *node.Node) int {
	if p, ok := n.Payload.(*node.TextFieldPayload); ok && p.MaxWidth > 0 {
		return p.MaxWidth
	}
	return 100
}

func (e *Engine) fontHeight(style node.ElementStyle) int {
	if e.Fonts == nil {
		return 12
	}
	return e.Fonts.Font(style.FontSize, style.Bits).Height()
}

// growLine widens the current line's height to h if h is taller,
// sliding every node already placed on the line down by the delta
// (§4.5: "when a line's height grows because a taller node joins it,
// every node on the line gets (0, delta_y) added").
func growLine(e *Engine, h int) {
	if h <= e.lineHeight {
		return
	}
	delta := h - e.lineHeight
	e.lineHeight = h
	if c := e.top(); c.lineStart != nil {
		translateLine(c.lineStart, 0, delta)
	}
}

func layoutImage(e *Engine, n *node.Node) {
	payload := n.Payload.(*node.ImagePayload)
	w, h := payload.NaturalWidth, payload.NaturalHeight
	if payload.ExplicitWidth > 0 {
		if payload.ExplicitHeight > 0 {
			w, h = payload.ExplicitWidth, payload.ExplicitHeight
		} else if w > 0 {
			h = payload.ExplicitWidth * h / w
			w = payload.ExplicitWidth
		} else {
			w = payload.ExplicitWidth
		}
	} else if payload.ExplicitHeight > 0 {
		if h > 0 {
			w = payload.ExplicitHeight * w / h
		}
		h = payload.ExplicitHeight
	}
	if w == 0 {
		w = 32
	}
	if h == 0 {
		h = 32
	}
	placeBox(e, n, w, h)
}
