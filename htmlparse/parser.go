package htmlparse

import (
	"strings"

	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
)

// textBufferCap bounds the accumulating text buffer, matching the
// original parser's fixed 2.5 KiB buffer; an accumulation longer than
// this is flushed mid-token rather than grown (§4.4).
const textBufferCap = 2560

// state is the streaming tokenizer's state machine (§4.4).
type state int

const (
	stateText state = iota
	statePossibleTag
	stateTag
	stateAmpersandEscape
	stateComment
)

// Parser is a streaming, non-blocking HTML tokenizer and tree builder.
// Feed never blocks and never errors on malformed input; a half-tag or
// half-entity at the end of a call is retained and completed on the
// next Feed call.
type Parser struct {
	builder  *Builder
	sections *sectionStack
	dec      *decoder

	st  state
	buf []byte // accumulating text/tag/entity buffer

	commentTail string // last 3 chars seen, for matching "-->"
}

// New creates a Parser that builds its tree into builder.
func New(builder *Builder) *Parser {
	return &Parser{
		builder:  builder,
		sections: newSectionStack(),
		dec:      newDecoder(UTF8),
		st:       stateText,
	}
}

// NewBuilderAndParser is a convenience constructor wiring a fresh
// Builder (and the node pool/style pool/block allocator it needs) to a
// new Parser in one call.
func NewBuilderAndParser(pool *node.Pool, styles *node.StylePool, blocks *memtier.BlockAllocator) (*Builder, *Parser) {
	b := NewBuilder(pool, styles, blocks)
	return b, New(b)
}

// Feed parses as much of data as forms complete tokens. Safe to call
// repeatedly with successive chunks of a streamed document.
func (p *Parser) Feed(data []byte) {
	p.dec.Feed(data, p.step)
}

func (p *Parser) step(r rune) {
	switch p.st {
	case stateText:
		p.stepText(r)
	case statePossibleTag:
		p.stepPossibleTag(r)
	case stateTag:
		p.stepTag(r)
	case stateAmpersandEscape:
		p.stepAmpersandEscape(r)
	case stateComment:
		p.stepComment(r)
	}
}

func (p *Parser) appendBuf(r rune) {
	if len(p.buf) >= textBufferCap-1 {
		p.flushText()
	}
	p.buf = append(p.buf, string(r)...)
}

func isHTMLSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

func (p *Parser) stepText(r rune) {
	switch {
	case r == '<':
		p.flushText()
		p.st = statePossibleTag
	case r == '&':
		p.flushText()
		p.st = stateAmpersandEscape
	case r == '\n' && p.builder.Preformatted():
		p.appendBuf(r)
	case r == '\r' && p.builder.Preformatted():
		// collapsed, matching §8's "<pre> preserves \n but collapses \r"
	case isHTMLSpace(r):
		if len(p.buf) == 0 || p.buf[len(p.buf)-1] != ' ' {
			p.buf = append(p.buf, ' ')
		}
	default:
		p.appendBuf(r)
	}
}

func (p *Parser) stepPossibleTag(r rune) {
	if r == '/' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '!' {
		p.st = stateTag
		p.buf = p.buf[:0]
		p.stepTagStart(r)
		return
	}
	// Non-alpha after '<' cancels back to text, emitting the '<' itself.
	p.st = stateText
	p.buf = append(p.buf, '<')
	p.stepText(r)
}

// commentPrefix is the exact lookahead needed to distinguish <!-- from
// any other '<!' construct (e.g. <!DOCTYPE>).
const commentPrefix = "!--"

func (p *Parser) stepTagStart(r rune) {
	p.buf = append(p.buf, string(r)...)
	if string(p.buf) == commentPrefix {
		p.st = stateComment
		p.buf = p.buf[:0]
		p.commentTail = ""
	}
}

func (p *Parser) stepTag(r rune) {
	if p.st != stateTag {
		return // switched to stateComment mid-accumulation
	}
	if r == '>' {
		p.dispatchTag(string(p.buf))
		p.buf = p.buf[:0]
		p.st = stateText
		return
	}
	p.buf = append(p.buf, string(r)...)
	if string(p.buf) == commentPrefix {
		p.st = stateComment
		p.buf = p.buf[:0]
		p.commentTail = ""
	}
}

func (p *Parser) stepComment(r rune) {
	p.commentTail += string(r)
	if len(p.commentTail) > 3 {
		p.commentTail = p.commentTail[len(p.commentTail)-3:]
	}
	if p.commentTail == "-->" {
		p.st = stateText
		p.commentTail = ""
	}
}

func (p *Parser) stepAmpersandEscape(r rune) {
	if r == ';' || isHTMLSpace(r) {
		p.flushAmpersand(r == ';')
		p.st = stateText
		if isHTMLSpace(r) {
			p.stepText(r)
		}
		return
	}
	if len(p.buf) >= 16 {
		// No real entity name is this long; treat as a bare '&'.
		p.flushAmpersand(false)
		p.st = stateText
		p.stepText(r)
		return
	}
	p.buf = append(p.buf, string(r)...)
}

func (p *Parser) flushAmpersand(hadSemicolon bool) {
	original := string(p.buf)
	name := strings.ToLower(original)
	p.buf = p.buf[:0]
	if replacement, ok := entities[name]; ok {
		p.emitText(replacement)
		return
	}
	// Unknown escape: tolerated, emitted verbatim (§7).
	raw := "&" + original
	if hadSemicolon {
		raw += ";"
	}
	p.emitText(raw)
}

// flushText routes the accumulated text buffer to the current section,
// per §4.4: body text joins the tree, title text becomes the document
// title, script/style text is discarded.
func (p *Parser) flushText() {
	if len(p.buf) == 0 {
		return
	}
	text := string(p.buf)
	p.buf = p.buf[:0]
	p.emitText(text)
}

func (p *Parser) emitText(text string) {
	switch p.sections.Current() {
	case SectionBody:
		p.builder.AppendText(text)
	case SectionTitle:
		p.builder.SetTitle(text)
	default:
		// Head/Script/Style/Document: discarded.
	}
}

// dispatchTag parses a complete "name attrs" or "/name attrs" tag body
// and routes it to the registered handler, or the no-op handler for an
// unrecognized name (§7).
func (p *Parser) dispatchTag(raw string) {
	open := true
	if strings.HasPrefix(raw, "/") {
		open = false
		raw = raw[1:]
	}

	i := 0
	for i < len(raw) && !isHTMLSpace(rune(raw[i])) {
		i++
	}
	name := strings.ToLower(raw[:i])
	attrString := ""
	if i < len(raw) {
		attrString = raw[i+1:]
	}

	if strings.HasPrefix(name, "!") {
		return // doctype and other bang-declarations are ignored
	}

	// While in the Script section, tag parsing is degenerate until an
	// exact "/script" close appears (§4.4).
	if p.sections.Current() == SectionScript && !(name == "script" && !open) {
		return
	}

	if h, ok := tagRegistry[name]; ok {
		h(p, open, attrString)
		return
	}
	noopTagHandler(p, open, attrString)
}

// Title returns the accumulated document title.
func (p *Parser) Title() string {
	return p.builder.Title()
}

// Root returns the document tree's root node.
func (p *Parser) Root() *node.Node {
	return p.builder.Root
}
