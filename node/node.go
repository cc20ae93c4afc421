package node

// Node is a tagged record in the document or interface tree: a kind
// tag, tree relation, authoritative geometry, a pooled style handle,
// and a kind-specific payload. Anchor/Size are the sole authoritative
// geometry (§3); nothing paints from any other source.
//
// Nodes are allocated bump-style by the parser (arena-owned) and
// mutated only by the layout engine and the event handling of their
// own kind; they are destroyed en bloc by an arena reset, never
// individually freed.
type Node struct {
	Kind Kind

	Parent      *Node
	FirstChild  *Node
	NextSibling *Node

	AnchorX, AnchorY int
	SizeW, SizeH     int

	Style StyleHandle

	// Payload holds one of the *Payload types declared in payload.go,
	// selected by Kind. It is nil for kinds that carry no extra state
	// (Break, StatusBar placeholders before text is set).
	Payload any
}

// AppendChild links child as the new last child of n, preserving
// document order.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	if n.FirstChild == nil {
		n.FirstChild = child
		return
	}
	last := n.FirstChild
	for last.NextSibling != nil {
		last = last.NextSibling
	}
	last.NextSibling = child
}

// Children returns n's children as a slice, for callers that want
// random access or a length; tree walks that only need forward
// iteration should follow FirstChild/NextSibling directly to avoid the
// allocation.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Walk calls fn for n and every descendant in document (pre-)order,
// stopping early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(fn)
	}
}

// ContainsPoint reports whether (x, y) in page-local coordinates falls
// within n's anchor+size box.
func (n *Node) ContainsPoint(x, y int) bool {
	return x >= n.AnchorX && x < n.AnchorX+n.SizeW &&
		y >= n.AnchorY && y < n.AnchorY+n.SizeH
}
