package pagerender

import (
	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
	"github.com/jhhoward/microweb-go/surface"
)

// paintNode implements §4.3's paint per kind: a switch on n.Kind, not a
// per-kind handler type, matching the same tagged-variant dispatch the
// layout package uses. styles/blocks resolve n's style handle and (for
// SubText) its text buffer, from whichever tree n belongs to.
func paintNode(r *Renderer, ctx surface.DrawContext, n *node.Node, styles *node.StylePool, blocks *memtier.BlockAllocator) {
	if n == nil {
		return
	}
	style := styles.Resolve(n.Style)

	switch n.Kind {
	case node.SubText:
		paintSubText(r, ctx, n, style, blocks)
	case node.Image:
		paintImage(r, ctx, n)
	case node.Button:
		paintButton(r, ctx, n, style)
	case node.TextField:
		paintTextField(r, ctx, n, style)
	case node.ScrollBar:
		paintScrollBar(ctx, n)
	case node.ListItem:
		paintBullet(r, ctx, n)
	case node.StatusBar:
		paintStatusBar(r, ctx, n, style)
	}
}

func paintSubText(r *Renderer, ctx surface.DrawContext, n *node.Node, style node.ElementStyle, blocks *memtier.BlockAllocator) {
	parent := n.Parent
	if parent == nil || blocks == nil {
		return
	}
	textPayload, ok := parent.Payload.(*node.TextPayload)
	if !ok {
		return
	}
	sub, ok := n.Payload.(*node.SubTextPayload)
	if !ok {
		return
	}
	buf, err := blocks.Get(textPayload.Handle)
	if err != nil {
		return
	}
	end := sub.Start + sub.Length
	if end > len(buf) {
		end = len(buf)
	}
	if sub.Start > end || sub.Start < 0 {
		return
	}
	text := string(buf[sub.Start:end])

	font := r.Fonts.Font(style.FontSize, style.Bits)
	var drawStyle surface.Style
	if style.Has(node.Bold) {
		drawStyle |= surface.StyleBold
	}
	if style.Has(node.Italic) {
		drawStyle |= surface.StyleItalic
	}
	if style.Has(node.Underline) {
		drawStyle |= surface.StyleUnderline
	}
	ctx.DrawString(font, text, n.AnchorX, n.AnchorY, style.Color, drawStyle)
}

func paintImage(r *Renderer, ctx surface.DrawContext, n *node.Node) {
	p, ok := n.Payload.(*node.ImagePayload)
	if !ok {
		return
	}
	if p.State != node.ImageFinishedDownloadingContent || len(p.Pixels) == 0 {
		if r.Assets != nil && r.Assets.ImageIcon != nil {
			ctx.BlitImage(r.Assets.ImageIcon, n.AnchorX, n.AnchorY)
			return
		}
		ctx.FillRect(n.AnchorX, n.AnchorY, n.SizeW, n.SizeH, placeholderColor)
		return
	}
	img := &surface.Image{Width: n.SizeW, Height: n.SizeH, Pixels: p.Pixels}
	ctx.BlitImage(img, n.AnchorX, n.AnchorY)
}

func paintButton(r *Renderer, ctx surface.DrawContext, n *node.Node, style node.ElementStyle) {
	p, ok := n.Payload.(*node.ButtonPayload)
	if !ok {
		return
	}
	paintBevelBox(ctx, n.AnchorX, n.AnchorY, n.SizeW, n.SizeH, buttonFaceColor)
	font := r.Fonts.Font(style.FontSize, style.Bits)
	ctx.DrawString(font, p.Label, n.AnchorX+2, n.AnchorY+2, style.Color, 0)
}

func paintTextField(r *Renderer, ctx surface.DrawContext, n *node.Node, style node.ElementStyle) {
	p, ok := n.Payload.(*node.TextFieldPayload)
	if !ok {
		return
	}
	paintBevelBox(ctx, n.AnchorX, n.AnchorY, n.SizeW, n.SizeH, fieldFaceColor)

	if p.IsCheckbox {
		if p.Checked {
			ctx.FillRect(n.AnchorX+2, n.AnchorY+2, n.SizeW-4, n.SizeH-4, borderColor)
		}
		return
	}

	visible := p.Value
	if p.ShiftOffset > 0 && p.ShiftOffset < len(visible) {
		visible = visible[p.ShiftOffset:]
	}
	font := r.Fonts.Font(style.FontSize, style.Bits)
	ctx.DrawString(font, string(visible), n.AnchorX+2, n.AnchorY+2, style.Color, 0)
}

func paintScrollBar(ctx surface.DrawContext, n *node.Node) {
	p, ok := n.Payload.(*node.ScrollBarPayload)
	if !ok {
		return
	}
	contentHeight := p.MaxScroll + n.SizeH
	ctx.VerticalScrollbar(n.AnchorX, n.AnchorY, n.SizeH, contentHeight, n.SizeH, p.ScrollPosition, trackColor, thumbColor)
}

func paintBullet(r *Renderer, ctx surface.DrawContext, n *node.Node) {
	const gutter = 8
	cy := n.AnchorY
	if n.FirstChild != nil {
		cy = n.FirstChild.AnchorY
	}
	if r.Assets != nil && r.Assets.Bullet != nil {
		ctx.BlitImage(r.Assets.Bullet, n.AnchorX-gutter, cy)
		return
	}
	ctx.FillRect(n.AnchorX-gutter+1, cy+3, 3, 3, bulletColor)
}

func paintStatusBar(r *Renderer, ctx surface.DrawContext, n *node.Node, style node.ElementStyle) {
	p, ok := n.Payload.(*node.StatusBarPayload)
	if !ok {
		return
	}
	ctx.FillRect(n.AnchorX, n.AnchorY, n.SizeW, n.SizeH, statusBarColor)
	font := r.Fonts.Font(style.FontSize, style.Bits)
	ctx.DrawString(font, p.Message(), n.AnchorX+2, n.AnchorY, style.Color, 0)
}

// paintBevelBox draws a filled rectangle with a one-pixel border, the
// shared look of buttons and text fields.
func paintBevelBox(ctx surface.DrawContext, x, y, w, h int, face byte) {
	ctx.FillRect(x, y, w, h, face)
	ctx.HLine(x, y, w, borderColor)
	ctx.HLine(x, y+h-1, w, borderColor)
	ctx.VLine(x, y, h, borderColor)
	ctx.VLine(x+w-1, y, h, borderColor)
}
