package htmlparse

import (
	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
)

// Builder accumulates parsed tags and text into a document tree, owning
// the arena-backed node pool, the pooled style table, and the
// block-allocated text buffers §3 assigns to text content.
type Builder struct {
	Pool   *node.Pool
	Styles *node.StylePool
	Blocks *memtier.BlockAllocator

	Root *node.Node

	parentStack []*node.Node
	styleStack  []node.ElementStyle

	title        strBuilder
	preformatted int
}

type strBuilder struct {
	buf []byte
}

func (s *strBuilder) WriteString(v string) { s.buf = append(s.buf, v...) }
func (s *strBuilder) String() string       { return string(s.buf) }
func (s *strBuilder) Reset()               { s.buf = s.buf[:0] }

// NewBuilder creates a Builder rooted at a fresh Section node, the
// document root §3 describes.
func NewBuilder(pool *node.Pool, styles *node.StylePool, blocks *memtier.BlockAllocator) *Builder {
	root := pool.New(node.Section)
	b := &Builder{
		Pool:   pool,
		Styles: styles,
		Blocks: blocks,
		Root:   root,
	}
	b.parentStack = append(b.parentStack, root)
	b.styleStack = append(b.styleStack, node.ElementStyle{FontSize: 2})
	return b
}

// Parent returns the node new content is currently appended under.
func (b *Builder) Parent() *node.Node {
	return b.parentStack[len(b.parentStack)-1]
}

// CurrentStyle returns the style new content inherits.
func (b *Builder) CurrentStyle() node.ElementStyle {
	return b.styleStack[len(b.styleStack)-1]
}

// PushContext makes n the new parent for subsequently appended content,
// applying style to it first (apply_style, §4.3).
func (b *Builder) PushContext(n *node.Node, style node.ElementStyle) {
	n.Style = b.Styles.Intern(style)
	b.Parent().AppendChild(n)
	b.parentStack = append(b.parentStack, n)
	b.styleStack = append(b.styleStack, style)
}

// PopContext pops the most recently pushed context, tolerating an
// unbalanced close tag by refusing to pop past the document root.
func (b *Builder) PopContext() {
	if len(b.parentStack) > 1 {
		b.parentStack = b.parentStack[:len(b.parentStack)-1]
		b.styleStack = b.styleStack[:len(b.styleStack)-1]
	}
}

// EmitLeaf appends a new leaf node of kind under the current parent
// with the current style, returning it for kind-specific payload setup.
func (b *Builder) EmitLeaf(kind node.Kind) *node.Node {
	n := b.Pool.New(kind)
	n.Style = b.Styles.Intern(b.CurrentStyle())
	b.Parent().AppendChild(n)
	return n
}

// AppendText stores text in a fresh block-allocated buffer and appends
// a Text leaf referencing it.
func (b *Builder) AppendText(text string) *node.Node {
	if len(text) == 0 {
		return nil
	}
	h, err := b.Blocks.Alloc(len(text))
	if err != nil {
		// Arena/swap exhaustion is reported as a sticky allocator flag
		// (§7); the page is still shown best-effort, so emit a node
		// with a zero-length buffer rather than aborting the parse.
		n := b.EmitLeaf(node.Text)
		n.Payload = &node.TextPayload{}
		return n
	}
	buf, _ := b.Blocks.Get(h)
	copy(buf, text)

	n := b.EmitLeaf(node.Text)
	n.Payload = &node.TextPayload{Handle: h, Length: len(text)}
	return n
}

// SetTitle appends text to the accumulating document title.
func (b *Builder) SetTitle(text string) {
	b.title.WriteString(text)
}

// Title returns the accumulated document title.
func (b *Builder) Title() string {
	return b.title.String()
}

// EnterPreformatted/LeavePreformatted track nested <pre> depth; while
// the counter is positive, ParseText treats '\n' as a forced line break
// instead of collapsing whitespace (§4.4).
func (b *Builder) EnterPreformatted() { b.preformatted++ }
func (b *Builder) LeavePreformatted() {
	if b.preformatted > 0 {
		b.preformatted--
	}
}
func (b *Builder) Preformatted() bool { return b.preformatted > 0 }
