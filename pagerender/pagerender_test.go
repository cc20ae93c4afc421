package pagerender

import (
	"testing"

	"github.com/jhhoward/microweb-go/layout"
	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
	"github.com/jhhoward/microweb-go/surface"
)

type stubFont struct{ advance, height int }

func (f stubFont) Glyph(r rune) (*surface.Image, int, bool) {
	return &surface.Image{Width: f.advance, Height: f.height, Pixels: make([]byte, f.advance*f.height)}, f.advance, true
}
func (f stubFont) Height() int           { return f.height }
func (f stubFont) GlyphWidth(r rune) int { return f.advance }

type stubFontProvider struct{ font stubFont }

func (p stubFontProvider) Font(sizeIndex int, bits node.StyleBit) layout.Font { return p.font }

func newTestRenderer(w, h int) (*Renderer, *node.Pool, *node.StylePool, *memtier.BlockAllocator) {
	s := surface.New8bpp(w, h)
	pool := node.NewPool()
	styles := node.NewStylePool()
	blocks := memtier.NewBlockAllocator(memtier.New(nil), nil)
	r := NewRenderer(s, stubFontProvider{font: stubFont{advance: 6, height: 8}}, styles, blocks)
	return r, pool, styles, blocks
}

func TestDirtyTrackerCoalescesOnOverflow(t *testing.T) {
	var d DirtyTracker
	for i := 0; i < maxDirtyRects+1; i++ {
		d.Invalidate(Rect{X: i, Y: 0, W: 1, H: 1})
	}
	regions := d.Regions()
	if len(regions) != 1 {
		t.Fatalf("expected coalesced tracker to report one region, got %d", len(regions))
	}
	if regions[0].W != maxDirtyRects+1 {
		t.Fatalf("coalesced region width = %d, want %d", regions[0].W, maxDirtyRects+1)
	}
}

func TestDirtyTrackerClear(t *testing.T) {
	var d DirtyTracker
	d.Invalidate(Rect{X: 0, Y: 0, W: 10, H: 10})
	d.Clear()
	if d.HasPending() {
		t.Fatal("expected no pending regions after Clear")
	}
}

func TestRectIntersectAndUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 5, W: 10, H: 10}
	got := a.Intersect(b)
	want := Rect{X: 5, Y: 5, W: 5, H: 5}
	if got != want {
		t.Fatalf("Intersect = %+v, want %+v", got, want)
	}
	union := a.Union(b)
	wantUnion := Rect{X: 0, Y: 0, W: 15, H: 15}
	if union != wantUnion {
		t.Fatalf("Union = %+v, want %+v", union, wantUnion)
	}
}

func TestPickFindsPickableDescendant(t *testing.T) {
	pool := node.NewPool()
	root := pool.New(node.Block)
	root.SizeW, root.SizeH = 100, 100

	link := pool.New(node.Link)
	link.AnchorX, link.AnchorY = 10, 10
	link.SizeW, link.SizeH = 20, 10
	root.AppendChild(link)

	got := Pick(nil, root, 15, 12)
	if got != link {
		t.Fatal("expected Pick to find the Link node")
	}

	miss := Pick(nil, root, 90, 90)
	if miss != nil {
		t.Fatal("expected Pick to miss outside any pickable node's box")
	}
}

func TestPickPrefersInterfaceRoot(t *testing.T) {
	pool := node.NewPool()
	doc := pool.New(node.Block)
	doc.SizeW, doc.SizeH = 100, 100
	docLink := pool.New(node.Link)
	docLink.SizeW, docLink.SizeH = 100, 100
	doc.AppendChild(docLink)

	ui := pool.New(node.Block)
	ui.SizeW, ui.SizeH = 100, 100
	uiButton := pool.New(node.Button)
	uiButton.SizeW, uiButton.SizeH = 100, 100
	ui.AppendChild(uiButton)

	got := Pick(ui, doc, 5, 5)
	if got != uiButton {
		t.Fatal("expected the interface root to win hit testing over the document root")
	}
}

func TestMarkNodeDirtyAppliesScrollOffset(t *testing.T) {
	r, pool, styles, _ := newTestRenderer(100, 100)
	r.DocumentTop = 10
	r.ScrollY = 20
	styles.Intern(node.ElementStyle{})

	n := pool.New(node.Block)
	n.AnchorX, n.AnchorY = 5, 50
	n.SizeW, n.SizeH = 30, 10

	r.MarkNodeDirty(n, true)
	regions := r.Dirty.Regions()
	if len(regions) != 1 {
		t.Fatalf("expected one dirty region, got %d", len(regions))
	}
	want := Rect{X: 5, Y: 50 - 20 + 10, W: 30, H: 10}
	if regions[0] != want {
		t.Fatalf("dirty rect = %+v, want %+v", regions[0], want)
	}
}

func TestMarkNodeDirtyInterfaceSetsFlag(t *testing.T) {
	r, pool, _, _ := newTestRenderer(100, 100)
	n := pool.New(node.Button)
	r.MarkNodeDirty(n, false)
	if !r.InterfaceDirty {
		t.Fatal("expected InterfaceDirty to be set for a non-document node")
	}
	if r.Dirty.HasPending() {
		t.Fatal("expected no document dirty region for an interface node")
	}
}

func TestTickPaintsSubTextWithoutPanicking(t *testing.T) {
	r, pool, styles, blocks := newTestRenderer(100, 100)

	root := pool.New(node.Block)
	root.SizeW, root.SizeH = 100, 40
	txt := pool.New(node.Text)
	h, _ := blocks.Alloc(5)
	buf, _ := blocks.Get(h)
	copy(buf, "hello")
	txt.Payload = &node.TextPayload{Handle: h, Length: 5}
	txt.Style = styles.Intern(node.ElementStyle{})
	root.AppendChild(txt)

	sub := pool.New(node.SubText)
	sub.AnchorX, sub.AnchorY = 0, 0
	sub.SizeW, sub.SizeH = 30, 8
	sub.Style = txt.Style
	sub.Payload = &node.SubTextPayload{Start: 0, Length: 5}
	txt.AppendChild(sub)

	r.DocumentRoot = root
	r.InterfaceRoot = pool.New(node.Block)
	r.MarkNodeDirty(sub, true)
	r.Tick()

	if r.Dirty.HasPending() {
		t.Fatal("expected Tick to clear the dirty tracker")
	}
}

func TestTickScrollSmallDeltaMarksExposedBand(t *testing.T) {
	r, pool, _, _ := newTestRenderer(100, 100)
	r.DocumentRoot = pool.New(node.Block)
	r.InterfaceRoot = pool.New(node.Block)
	r.WindowHeight = 100
	r.DocumentTop = 10

	r.ScrollY = 5
	r.Tick()
	// handleScroll ran and cleared itself via Tick's paint+Clear; verify
	// no panic and that lastScrollY tracks the new position by scrolling
	// again and checking delta-based dispatch doesn't reuse a stale band.
	r.ScrollY = 8
	r.Tick()
	if r.lastScrollY != 8 {
		t.Fatalf("lastScrollY = %d, want 8", r.lastScrollY)
	}
}

func TestTickFullInvalidateOnLargeJump(t *testing.T) {
	r, pool, _, _ := newTestRenderer(100, 100)
	r.DocumentRoot = pool.New(node.Block)
	r.InterfaceRoot = pool.New(node.Block)
	r.WindowHeight = 50

	r.ScrollY = 1000
	r.handleScroll(r.ScrollY - r.lastScrollY)
	regions := r.Dirty.Regions()
	if len(regions) != 1 || regions[0].H != r.WindowHeight-r.DocumentTop {
		t.Fatalf("expected a full-window invalidate, got %+v", regions)
	}
}
