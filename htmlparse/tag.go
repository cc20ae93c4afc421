package htmlparse

import (
	"strconv"
	"strings"

	"github.com/jhhoward/microweb-go/node"
)

// TagHandler reacts to an open or close tag. open is true for the
// opening form of the tag, false for "/name". attrString is the raw
// text between the tag name and '>', meaningful only on open.
type TagHandler func(p *Parser, open bool, attrString string)

// tagRegistry maps case-folded tag names to handlers. An unknown tag
// falls through to noopTagHandler (§7: "DetermineTag returns a generic
// no-op handler; content is still emitted as text").
var tagRegistry = map[string]TagHandler{
	"html": noopTagHandler,
	"head": func(p *Parser, open bool, _ string) {
		if open {
			p.sections.Push(SectionHead)
		} else {
			p.sections.Pop(SectionHead)
		}
	},
	"body": func(p *Parser, open bool, _ string) {
		if open {
			p.sections.Push(SectionBody)
		} else {
			p.sections.Pop(SectionBody)
		}
	},
	"title": func(p *Parser, open bool, _ string) {
		if open {
			p.sections.Push(SectionTitle)
		} else {
			p.sections.Pop(SectionTitle)
		}
	},
	"script": func(p *Parser, open bool, _ string) {
		if open {
			p.sections.Push(SectionScript)
		} else {
			p.sections.Pop(SectionScript)
		}
	},
	"style": func(p *Parser, open bool, _ string) {
		if open {
			p.sections.Push(SectionStyle)
		} else {
			p.sections.Pop(SectionStyle)
		}
	},
	"meta": func(p *Parser, open bool, attr string) {
		if !open {
			return
		}
		if v, ok := Lookup(attr, "charset"); ok {
			p.dec.SetEncoding(ParseEncoding(v))
			return
		}
		if v, ok := Lookup(attr, "content"); ok {
			if idx := strings.Index(strings.ToLower(v), "charset="); idx >= 0 {
				p.dec.SetEncoding(ParseEncoding(v[idx+len("charset="):]))
			}
		}
	},

	"p": blockTag,
	"div": blockTag,
	"section": blockTag,
	"center": func(p *Parser, open bool, attr string) {
		styleTag(node.Center, p, open, attr)
	},

	"b":      styleBitTag(node.Bold),
	"strong": styleBitTag(node.Bold),
	"i":      styleBitTag(node.Italic),
	"em":     styleBitTag(node.Italic),
	"u":      styleBitTag(node.Underline),
	"tt":     styleBitTag(node.Monospace),
	"code":   styleBitTag(node.Monospace),

	"h1": headingTag(0),
	"h2": headingTag(1),
	"h3": headingTag(2),
	"h4": headingTag(3),
	"h5": headingTag(4),
	"h6": headingTag(4),

	"br": func(p *Parser, open bool, attr string) {
		if !open {
			return
		}
		p.builder.EmitLeaf(node.Break)
	},
	"hr": func(p *Parser, open bool, attr string) {
		if !open {
			return
		}
		p.builder.EmitLeaf(node.Break)
	},
	"pre": func(p *Parser, open bool, _ string) {
		if open {
			p.builder.EnterPreformatted()
		} else {
			p.builder.LeavePreformatted()
		}
	},

	"a": func(p *Parser, open bool, attr string) {
		if open {
			n := p.builder.Pool.New(node.Link)
			url, _ := Lookup(attr, "href")
			n.Payload = &node.LinkPayload{URL: url}
			style := p.builder.CurrentStyle().With(node.Underline)
			p.builder.PushContext(n, style)
		} else {
			p.builder.PopContext()
		}
	},

	"img": func(p *Parser, open bool, attr string) {
		if !open {
			return
		}
		n := p.builder.EmitLeaf(node.Image)
		payload := &node.ImagePayload{}
		payload.URL, _ = Lookup(attr, "src")
		payload.Alt, _ = Lookup(attr, "alt")
		if w, ok := Lookup(attr, "width"); ok {
			payload.ExplicitWidth, _ = strconv.Atoi(w)
		}
		if h, ok := Lookup(attr, "height"); ok {
			payload.ExplicitHeight, _ = strconv.Atoi(h)
		}
		if _, ok := Lookup(attr, "ismap"); ok {
			payload.IsMap = true
		}
		n.Payload = payload
	},

	"ul": containerTag(node.List),
	"ol": containerTag(node.List),
	"li": func(p *Parser, open bool, attr string) {
		if open {
			n := p.builder.Pool.New(node.ListItem)
			p.builder.PushContext(n, p.builder.CurrentStyle())
		} else {
			p.builder.PopContext()
		}
	},

	"table": func(p *Parser, open bool, attr string) {
		if open {
			n := p.builder.Pool.New(node.Table)
			n.Payload = &node.TablePayload{CellSpacing: 2, CellPadding: 2}
			p.builder.PushContext(n, p.builder.CurrentStyle())
		} else {
			p.builder.PopContext()
		}
	},
	"tr": containerTag(node.TableRow),
	"td": tableCellTag,
	"th": tableCellTag,

	"form": func(p *Parser, open bool, attr string) {
		if open {
			n := p.builder.Pool.New(node.Form)
			action, _ := Lookup(attr, "action")
			n.Payload = &node.FormPayload{Action: action, Method: "GET"}
			p.builder.PushContext(n, p.builder.CurrentStyle())
		} else {
			p.builder.PopContext()
		}
	},
	"input": func(p *Parser, open bool, attr string) {
		if !open {
			return
		}
		typ, _ := Lookup(attr, "type")
		switch strings.ToLower(typ) {
		case "submit", "button":
			n := p.builder.EmitLeaf(node.Button)
			label, _ := Lookup(attr, "value")
			n.Payload = &node.ButtonPayload{Label: label, Submit: true}
		case "checkbox":
			n := p.builder.EmitLeaf(node.TextField)
			name, _ := Lookup(attr, "name")
			_, checked := Lookup(attr, "checked")
			n.Payload = &node.TextFieldPayload{Name: name, IsCheckbox: true, Checked: checked}
		default:
			n := p.builder.EmitLeaf(node.TextField)
			name, _ := Lookup(attr, "name")
			value, _ := Lookup(attr, "value")
			n.Payload = &node.TextFieldPayload{Name: name, Value: []rune(value), MaxWidth: 100}
		}
	},
	"select": func(p *Parser, open bool, attr string) {
		if open {
			n := p.builder.Pool.New(node.Select)
			name, _ := Lookup(attr, "name")
			n.Payload = &node.SelectPayload{Name: name, Selected: -1}
			p.builder.PushContext(n, p.builder.CurrentStyle())
		} else {
			p.builder.PopContext()
		}
	},
	"option": func(p *Parser, open bool, attr string) {
		if !open {
			return
		}
		n := p.builder.EmitLeaf(node.Option)
		value, _ := Lookup(attr, "value")
		n.Payload = &node.OptionPayload{Value: value}
	},
}

// noopTagHandler implements §7's "unknown tag" disposition: neither
// blocks nor pushes context, content continues to flow as text.
func noopTagHandler(*Parser, bool, string) {}

func blockTag(p *Parser, open bool, _ string) {
	if open {
		n := p.builder.Pool.New(node.Block)
		p.builder.PushContext(n, p.builder.CurrentStyle())
	} else {
		p.builder.PopContext()
	}
}

func containerTag(kind node.Kind) TagHandler {
	return func(p *Parser, open bool, _ string) {
		if open {
			n := p.builder.Pool.New(kind)
			p.builder.PushContext(n, p.builder.CurrentStyle())
		} else {
			p.builder.PopContext()
		}
	}
}

func tableCellTag(p *Parser, open bool, attr string) {
	if open {
		n := p.builder.Pool.New(node.TableCell)
		n.Payload = &node.TableCellPayload{ColSpan: 1}
		if span, ok := Lookup(attr, "colspan"); ok {
			if v, err := strconv.Atoi(span); err == nil {
				n.Payload.(*node.TableCellPayload).ColSpan = v
			}
		}
		p.builder.PushContext(n, p.builder.CurrentStyle())
	} else {
		p.builder.PopContext()
	}
}

func headingTag(sizeIndex int) TagHandler {
	return func(p *Parser, open bool, _ string) {
		if open {
			n := p.builder.Pool.New(node.Block)
			style := p.builder.CurrentStyle()
			style.FontSize = sizeIndex
			style.Bits |= node.Bold
			p.builder.PushContext(n, style)
		} else {
			p.builder.PopContext()
		}
	}
}

func styleBitTag(bit node.StyleBit) TagHandler {
	return func(p *Parser, open bool, _ string) {
		if open {
			n := p.builder.Pool.New(node.Style)
			style := p.builder.CurrentStyle().With(bit)
			n.Payload = &node.StylePayload{Override: style, OverrideFields: bit}
			p.builder.PushContext(n, style)
		} else {
			p.builder.PopContext()
		}
	}
}

func styleTag(align node.Align, p *Parser, open bool, _ string) {
	if open {
		n := p.builder.Pool.New(node.Style)
		style := p.builder.CurrentStyle()
		style.Align = align
		n.Payload = &node.StylePayload{Override: style, ChangesAlign: true}
		p.builder.PushContext(n, style)
	} else {
		p.builder.PopContext()
	}
}
