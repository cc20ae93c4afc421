package layout

import (
	"unicode/utf8"

	"github.com/jhhoward/microweb-go/node"
)

// layoutText implements the Text node's generate_layout: word-wrap
// against the current line's remaining width, emitting SubText
// children — one per line segment — each recording (start, length)
// into the parent's buffer (§4.3, §4.5).
//
// If the cached lastAvailableWidth matches the current available
// width, existing SubText children are reused and only repositioned,
// skipping regeneration entirely.
func layoutText(e *Engine, n *node.Node, style node.ElementStyle) {
	payload, ok := n.Payload.(*node.TextPayload)
	if !ok {
		return
	}

	avail := e.availableLineWidth()

	if payload.LastAvailableWidth == avail && n.FirstChild != nil {
		repositionSubText(e, n)
		return
	}

	text := textBytes(e, payload)
	n.FirstChild = nil
	payload.LastAvailableWidth = avail

	font := e.Fonts.Font(style.FontSize, style.Bits)
	bold := style.Has(node.Bold)

	var last *node.Node
	pos := 0
	lineStart := 0
	lineWidth := 0
	lastBreak := -1 // byte index of the most recent break opportunity in the current line

	emit := func(end int) {
		sub := e.Pool.New(node.SubText)
		sub.Style = n.Style
		sub.Payload = &node.SubTextPayload{Start: lineStart, Length: end - lineStart}
		if last == nil {
			n.FirstChild = sub
		} else {
			last.NextSibling = sub
		}
		last = sub
	}

	for pos < len(text) {
		r, size := utf8.DecodeRune(text[pos:])
		w := font.GlyphWidth(r)
		if bold {
			w++
		}

		// No progress fits on a non-empty line: break before this rune.
		if lineWidth > 0 && lineWidth+w > avail {
			if lastBreak > lineStart {
				emit(lastBreak)
				lineStart = skipBreakWhitespace(text, lastBreak)
				lineWidth = measureFrom(font, bold, text, lineStart, pos)
			} else {
				emit(pos)
				lineStart = pos
				lineWidth = 0
			}
			lastBreak = -1
			continue
		}

		if r == ' ' || r == '\t' {
			lastBreak = pos
		}
		lineWidth += w
		pos += size
	}
	emit(len(text))

	repositionSubText(e, n)
}

// placeSubText advances the cursor by one SubText segment's measured
// width and assigns its anchor.
func placeSubText(e *Engine, parent *node.Node, sub *node.Node) {
	c := e.top()
	sub.AnchorX, sub.AnchorY = c.x, c.y
	if c.lineStart == nil {
		c.lineStart = sub
	}
	style := e.Styles.Resolve(parent.Style)
	font := e.Fonts.Font(style.FontSize, style.Bits)

	payload := sub.Payload.(*node.SubTextPayload)
	text := textBytes(e, parent.Payload.(*node.TextPayload))
	seg := text[payload.Start : payload.Start+payload.Length]

	w := measureString(font, style.Has(node.Bold), seg)
	sub.SizeW = w
	sub.SizeH = font.Height()
	c.x += w
	growLine(e, sub.SizeH)
}

// repositionSubText places n's SubText children, one line each: every
// segment after the first starts a new line.
func repositionSubText(e *Engine, n *node.Node) {
	align := e.Styles.Resolve(n.Style).Align
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c != n.FirstChild {
			e.BreakLine(align)
		}
		placeSubText(e, n, c)
	}
}

func textBytes(e *Engine, p *node.TextPayload) []byte {
	if !p.Handle.IsValid() {
		return nil
	}
	buf, err := e.Blocks.Get(p.Handle)
	if err != nil {
		return nil
	}
	return buf[:p.Length]
}

func skipBreakWhitespace(text []byte, i int) int {
	if i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		return i + 1
	}
	return i
}

func measureFrom(font Font, bold bool, text []byte, from, to int) int {
	return measureString(font, bold, text[from:to])
}

func measureString(font Font, bold bool, text []byte) int {
	w := 0
	for _, r := range string(text) {
		w += font.GlyphWidth(r)
		if bold {
			w++
		}
	}
	return w
}
