package ui

import (
	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
)

// Shell is the interface root §4.7 describes: title, back/forward
// buttons, an address bar, a scrollbar, and a status bar, all built
// over the node package's ordinary kinds rather than a bespoke UI
// type. It owns a node pool, style pool, and block allocator entirely
// separate from the document's, since the chrome must survive the
// arena reset a new navigation performs on the document tree (§5).
type Shell struct {
	Pool   *node.Pool
	Styles *node.StylePool
	Blocks *memtier.BlockAllocator

	Root *node.Node

	TitleNode   *node.Node
	BackNode    *node.Node
	ForwardNode *node.Node
	AddressNode *node.Node
	ScrollNode  *node.Node
	StatusNode  *node.Node

	History History
}

// NewShell builds a fresh interface root with its own backing arena.
func NewShell() *Shell {
	pool := node.NewPool()
	styles := node.NewStylePool()
	blocks := memtier.NewBlockAllocator(memtier.New(nil), nil)

	s := &Shell{Pool: pool, Styles: styles, Blocks: blocks}

	style := node.ElementStyle{FontSize: 1}
	root := pool.New(node.Block)
	root.Style = styles.Intern(style)
	s.Root = root

	s.TitleNode = s.writeText("")
	root.AppendChild(s.TitleNode)

	s.BackNode = pool.New(node.Button)
	s.BackNode.Style = styles.Intern(style)
	s.BackNode.Payload = &node.ButtonPayload{Label: "<"}
	root.AppendChild(s.BackNode)

	s.ForwardNode = pool.New(node.Button)
	s.ForwardNode.Style = styles.Intern(style)
	s.ForwardNode.Payload = &node.ButtonPayload{Label: ">"}
	root.AppendChild(s.ForwardNode)

	s.AddressNode = pool.New(node.TextField)
	s.AddressNode.Style = styles.Intern(style)
	s.AddressNode.Payload = &node.TextFieldPayload{Name: "address", MaxWidth: 200}
	root.AppendChild(s.AddressNode)

	s.ScrollNode = pool.New(node.ScrollBar)
	s.ScrollNode.Style = styles.Intern(style)
	s.ScrollNode.Payload = &node.ScrollBarPayload{}
	root.AppendChild(s.ScrollNode)

	s.StatusNode = pool.New(node.StatusBar)
	s.StatusNode.Style = styles.Intern(style)
	s.StatusNode.Payload = &node.StatusBarPayload{}
	root.AppendChild(s.StatusNode)

	return s
}

// writeText block-allocates text and returns a Text leaf referencing
// it, mirroring htmlparse.Builder.AppendText's arena-backed text
// storage so title/address content flows through the same layout path
// as document text.
func (s *Shell) writeText(text string) *node.Node {
	n := s.Pool.New(node.Text)
	n.Style = s.Styles.Intern(node.ElementStyle{FontSize: 1})
	if len(text) == 0 {
		n.Payload = &node.TextPayload{}
		return n
	}
	h, err := s.Blocks.Alloc(len(text))
	if err != nil {
		n.Payload = &node.TextPayload{}
		return n
	}
	buf, _ := s.Blocks.Get(h)
	copy(buf, text)
	n.Payload = &node.TextPayload{Handle: h, Length: len(text)}
	return n
}

// SetTitle replaces the title bar's text.
func (s *Shell) SetTitle(text string) {
	s.replaceText(s.TitleNode, text)
}

// replaceText overwrites n's TextPayload with freshly block-allocated
// content. The old allocation is simply abandoned (the block allocator
// has no free(); it reclaims only on Reset), which is acceptable here
// since chrome text updates are rare compared to a full page's text.
func (s *Shell) replaceText(n *node.Node, text string) {
	if len(text) == 0 {
		n.Payload = &node.TextPayload{}
		return
	}
	h, err := s.Blocks.Alloc(len(text))
	if err != nil {
		n.Payload = &node.TextPayload{}
		return
	}
	buf, _ := s.Blocks.Get(h)
	copy(buf, text)
	n.Payload = &node.TextPayload{Handle: h, Length: len(text)}
}

// SetAddress replaces the address bar's editable text, resetting
// cursor and selection the way loading a new page does.
func (s *Shell) SetAddress(url string) {
	p := s.AddressNode.Payload.(*node.TextFieldPayload)
	p.Value = []rune(url)
	p.CursorPos = len(p.Value)
	p.ShiftOffset = 0
	p.SelStart = 0
	p.SelLength = 0
}

// Address returns the address bar's current text.
func (s *Shell) Address() string {
	p := s.AddressNode.Payload.(*node.TextFieldPayload)
	return string(p.Value)
}

// SetStatus sets the status bar's general (load-progress/default)
// message.
func (s *Shell) SetStatus(text string) {
	s.StatusNode.Payload.(*node.StatusBarPayload).General = text
}

// SetHoverStatus sets the status bar's hover message, shown in
// preference to the general message while non-empty (§4.7).
func (s *Shell) SetHoverStatus(text string) {
	s.StatusNode.Payload.(*node.StatusBarPayload).Hover = text
}

// SetScrollBar updates the scrollbar's position/extent payload; the
// engine calls it on every Tick.
func (s *Shell) SetScrollBar(position, maxScroll, thumbSize int) {
	p := s.ScrollNode.Payload.(*node.ScrollBarPayload)
	p.ScrollPosition = position
	p.MaxScroll = maxScroll
	p.ThumbSize = thumbSize
}

// Navigate records url as the new current history entry and updates
// the address bar to match. It returns nothing; History.CanBack and
// History.CanForward report whether Back/Forward are available.
func (s *Shell) Navigate(url string) {
	s.History.Push(url)
	s.SetAddress(url)
}
