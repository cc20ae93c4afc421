package layout

import "github.com/jhhoward/microweb-go/node"

// defaultCellWidth is the fallback column width for a cell whose
// column index falls outside a table's measured ColumnWidths (a
// malformed row with more cells than any other row saw).
const defaultCellWidth = 80

// measureTableColumns implements §4.3's two-pass table layout, pass
// one: walk table's rows, recording each cell's unwrapped preferred
// text width into TableCellPayload.PreferredWidth and taking the
// per-column maximum, then proportionally shrinking every column if
// the natural total would overflow the available width. The result is
// cached on TablePayload.ColumnWidths for pass two (beginTableCell) to
// place cells against.
func measureTableColumns(e *Engine, table *node.Node) {
	payload, ok := table.Payload.(*node.TablePayload)
	if !ok {
		return
	}

	var widths []int
	for row := table.FirstChild; row != nil; row = row.NextSibling {
		if row.Kind != node.TableRow {
			continue
		}
		col := 0
		for cell := row.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Kind != node.TableCell {
				continue
			}
			cp, _ := cell.Payload.(*node.TableCellPayload)
			pref := measureCellPreferredWidth(e, cell)
			if cp != nil {
				cp.PreferredWidth = pref
			}
			span := 1
			if cp != nil && cp.ColSpan > 1 {
				span = cp.ColSpan
			}
			for len(widths) < col+span {
				widths = append(widths, 0)
			}
			per := pref / span
			for i := 0; i < span; i++ {
				if per > widths[col+i] {
					widths[col+i] = per
				}
			}
			col += span
		}
	}

	avail := e.AvailableWidth
	if payload.ExplicitWidth > 0 && payload.ExplicitWidth < avail {
		avail = payload.ExplicitWidth
	}
	budget := avail - payload.CellSpacing*(len(widths)+1) - 2*payload.CellPadding*len(widths)

	total := 0
	for _, w := range widths {
		total += w
	}
	if total > budget && budget > 0 {
		for i, w := range widths {
			widths[i] = w * budget / total
		}
	}

	payload.ColumnWidths = widths
}

// measureCellPreferredWidth sums the unwrapped width of a cell's text
// content, the "preferred width" pass one measures before any
// wrapping is attempted.
func measureCellPreferredWidth(e *Engine, cell *node.Node) int {
	width := 0
	var walk func(n *node.Node)
	walk = func(n *node.Node) {
		if n == nil {
			return
		}
		if tp, ok := n.Payload.(*node.TextPayload); ok {
			style := e.Styles.Resolve(n.Style)
			font := e.Fonts.Font(style.FontSize, style.Bits)
			width += measureString(font, style.Has(node.Bold), textBytes(e, tp))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(cell)
	if width == 0 {
		width = defaultCellWidth / 2
	}
	return width
}

// beginTableCell implements pass two: place this cell at its row's
// next column, sized to TablePayload.ColumnWidths[col] (spanning
// ColSpan columns plus their spacing when set), and push a cursor/
// margin frame so the cell's own content wraps against that column's
// content width rather than the table's full width. ColumnWidths
// holds content width (matching what measureCellPreferredWidth
// measured, which never accounts for padding); the cell's outer box
// adds CellPadding on both sides on top of that. A cell with no
// enclosing TableRow (malformed markup) still pushes a frame, at
// defaultCellWidth and zero spacing/padding, so endTableCell can pop
// unconditionally.
func beginTableCell(e *Engine, n *node.Node) {
	content := defaultCellWidth
	var spacing, padding int

	if row := e.topTableRow(); row != nil {
		if table, ok := row.table.Payload.(*node.TablePayload); ok {
			col := row.col
			if col < len(table.ColumnWidths) {
				content = table.ColumnWidths[col]
			}
			span := 1
			if cp, ok := n.Payload.(*node.TableCellPayload); ok && cp.ColSpan > 1 {
				span = cp.ColSpan
				for i := 1; i < span && col+i < len(table.ColumnWidths); i++ {
					content += table.ColumnWidths[col+i] + table.CellSpacing
				}
			}
			row.col += span
			spacing, padding = table.CellSpacing, table.CellPadding
		}
	}

	outer := content + 2*padding
	c := e.top()
	left := c.x + padding
	right := e.AvailableWidth - left - content
	if right < 0 {
		right = 0
	}

	e.cellWidths = append(e.cellWidths, outer)
	e.cellLineHeights = append(e.cellLineHeights, e.lineHeight)
	e.lineHeight = 0

	c.x += outer + spacing
	e.pushMargin(left, right)
	e.pushCursor(left, c.y)
}

// endTableCell pops the cell's cursor/margin frame, sizes the cell
// from its content, then restores the row's running line height and
// grows it by the cell's total height — so the row's height becomes
// the tallest cell, matching a Block reporting its height to the line
// it sits on.
func endTableCell(e *Engine, n *node.Node, align node.Align) {
	e.BreakLine(align) // flush the cell's last wrapped line
	cell := e.popCursor()
	e.popMargin()

	width := e.cellWidths[len(e.cellWidths)-1]
	e.cellWidths = e.cellWidths[:len(e.cellWidths)-1]
	rowLineHeight := e.cellLineHeights[len(e.cellLineHeights)-1]
	e.cellLineHeights = e.cellLineHeights[:len(e.cellLineHeights)-1]

	n.SizeW = width
	n.SizeH = cell.y - n.AnchorY

	e.lineHeight = rowLineHeight
	growLine(e, n.SizeH)
}
