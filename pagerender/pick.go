package pagerender

import "github.com/jhhoward/microweb-go/node"

// Pick performs hit testing against (x, y): it tries the interface root
// first, then the document root, returning the deepest descendant whose
// anchor+size box contains the point and that opts in via CanPick
// (§4.6). Children are tested before their parent, since children paint
// in front of their parent and so should win a hit test.
func Pick(interfaceRoot, documentRoot *node.Node, x, y int) *node.Node {
	if hit := pickWithin(interfaceRoot, x, y); hit != nil {
		return hit
	}
	return pickWithin(documentRoot, x, y)
}

func pickWithin(n *node.Node, x, y int) *node.Node {
	if n == nil || !n.ContainsPoint(x, y) {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hit := pickWithin(c, x, y); hit != nil {
			return hit
		}
	}
	if n.Kind.CanPick() {
		return n
	}
	return nil
}
