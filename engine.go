package microweb

import (
	"fmt"
	"io"
	"net/url"

	"github.com/jhhoward/microweb-go/asset"
	"github.com/jhhoward/microweb-go/htmlparse"
	"github.com/jhhoward/microweb-go/layout"
	"github.com/jhhoward/microweb-go/loadtask"
	"github.com/jhhoward/microweb-go/memtier"
	"github.com/jhhoward/microweb-go/node"
	"github.com/jhhoward/microweb-go/pagerender"
	"github.com/jhhoward/microweb-go/surface"
	"github.com/jhhoward/microweb-go/ui"
)

// chromeHeight is the fixed pixel height given to the interface root
// (title, back/forward, address bar, status bar) above the scrolled
// document viewport. The scrollbar and status bar share this band
// rather than getting their own rows, matching a bundled chrome no
// wider than a few text lines (§4.7).
const chromeHeight = 28

// Engine is the single explicit context the pipeline (§ package doc)
// runs through: one draw surface, one document tree with its own
// memory tier, one interface shell with its own, a layout engine for
// each of the two trees, a renderer, and a load-task coordinator.
// There are no package-level singletons; every piece of state a host
// cares about hangs off an *Engine.
type Engine struct {
	opts engineOptions

	surf   surface.Surface
	fonts  *fontProvider
	decode asset.ImageDecoder

	docArena  *memtier.Arena
	docBlocks *memtier.BlockAllocator
	docPool   *node.Pool
	docStyles *node.StylePool

	builder *htmlparse.Builder
	parser  *htmlparse.Parser
	layout  *layout.Engine

	shell        *ui.Shell
	chromeLayout *layout.Engine

	renderer *pagerender.Renderer
	loader   *loadtask.Coordinator

	currentURL string
	contentURL string
	lastTitle  string
}

// New creates an Engine with a w x h pixel draw surface and the given
// options applied over the defaults (§6).
func New(w, h int, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}

	surf, err := surface.New(w, h, o.bpp)
	if err != nil {
		// An invalid bpp is a caller bug, not a recoverable runtime
		// condition; fall back to the default surviving depth rather
		// than propagating an error out of a constructor that returns
		// no error.
		surf, _ = surface.New(w, h, 4)
	}

	var pack *asset.Pack
	if len(o.dataPack) > 0 {
		if p, perr := asset.Load(o.dataPack); perr == nil {
			pack = p
		} else {
			log.Warn("microweb: data pack load failed, using fallback font", "error", perr)
		}
	}

	docArena := memtier.New(log)
	docBlocks := memtier.NewBlockAllocator(docArena, log)
	if o.emsCapacity > 0 {
		docBlocks.EnableExpandedMemory(o.emsCapacity)
	}
	if o.swapCapacity > 0 {
		docBlocks.EnableSwap(o.swapCapacity)
	}
	docPool := node.NewPool()
	docStyles := node.NewStylePool()
	builder, parser := htmlparse.NewBuilderAndParser(docPool, docStyles, docBlocks)

	fonts := &fontProvider{pack: pack}

	docLayout := &layout.Engine{
		Fonts:          fonts,
		Styles:         docStyles,
		Blocks:         docBlocks,
		Pool:           docPool,
		AvailableWidth: w,
	}

	shell := ui.NewShell()
	chromeLayout := &layout.Engine{
		Fonts:          fonts,
		Styles:         shell.Styles,
		Blocks:         shell.Blocks,
		Pool:           shell.Pool,
		AvailableWidth: w,
	}

	renderer := pagerender.NewRenderer(surf, fonts, docStyles, docBlocks)
	renderer.Assets = pack
	renderer.InterfaceStyles = shell.Styles
	renderer.InterfaceBlocks = shell.Blocks
	renderer.DocumentRoot = builder.Root
	renderer.InterfaceRoot = shell.Root
	renderer.WindowWidth = w
	renderer.WindowHeight = h
	renderer.DocumentTop = chromeHeight
	renderer.InterfaceDirty = true
	renderer.Invert = o.invertColors

	e := &Engine{
		opts:         o,
		surf:         surf,
		fonts:        fonts,
		decode:       asset.RawDecoder{Depth: 8},
		docArena:     docArena,
		docBlocks:    docBlocks,
		docPool:      docPool,
		docStyles:    docStyles,
		builder:      builder,
		parser:       parser,
		layout:       docLayout,
		shell:        shell,
		chromeLayout: chromeLayout,
		renderer:     renderer,
		loader:       loadtask.NewCoordinator(),
	}

	if o.proxyURL != nil {
		e.loader.Page.ProxyURL = *o.proxyURL
		e.loader.Content.ProxyURL = *o.proxyURL
	}

	chromeLayout.Run(shell.Root)
	e.layoutAndPaint()
	return e
}

// Surface returns the draw surface the host should present each frame.
func (e *Engine) Surface() surface.Surface {
	return e.surf
}

// Shell returns the interface chrome, for hosts that need direct access
// to address-bar/history state beyond what HandleClick/HandleEnter
// cover.
func (e *Engine) Shell() *ui.Shell {
	return e.shell
}

// OpenURL starts loading url as the new page: resets the document's
// memory tier and layout state, resets the renderer's dirty tracking
// and scroll position, and records the navigation in history (§5's
// "exactly one reset point per navigation").
func (e *Engine) OpenURL(rawURL string) error {
	if err := e.resetDocumentAndLoad(rawURL); err != nil {
		return err
	}
	e.shell.Navigate(rawURL)
	e.chromeLayout.Run(e.shell.Root)
	e.renderer.InterfaceDirty = true
	e.shell.SetStatus("Loading...")
	return nil
}

// Tick runs one iteration of the cooperative main loop (§5): drains
// whatever new page bytes arrived, reruns layout when content changed
// or a suspended image resolved, starts/finishes the one in-flight
// sub-resource fetch, repaints, and reports whether the page is still
// loading (so a host can decide whether to keep polling quickly or can
// idle).
func (e *Engine) Tick() bool {
	changed := e.drainPage()
	changed = e.driveImageFetch() || changed

	if changed || e.layout.Suspended {
		e.runLayout()
	}

	e.syncChrome()
	e.chromeLayout.Run(e.shell.Root)
	e.renderer.Tick()

	return !e.loader.Page.Done()
}

// drainPage feeds newly arrived page bytes to the parser and reports
// whether any bytes were consumed.
func (e *Engine) drainPage() bool {
	buf := make([]byte, 4096)
	got := false
	for e.loader.Page.HasContent() {
		n := e.loader.Page.GetContent(buf)
		if n == 0 {
			break
		}
		if e.opts.pageDump != nil {
			e.opts.pageDump.Write(buf[:n])
		}
		e.parser.Feed(buf[:n])
		got = true
	}
	if e.loader.Page.Done() && e.loader.Page.Err() != nil {
		e.shell.SetStatus(e.loader.Page.Err().Error())
	}
	return got
}

// runLayout performs a full layout pass and marks both trees fully
// dirty; incremental repaint of a reflowed tree isn't worth the
// bookkeeping on top of the arena's own all-or-nothing reset model.
func (e *Engine) runLayout() {
	e.layout.AvailableWidth = e.renderer.WindowWidth
	e.layout.Run(e.builder.Root)
	e.renderer.Dirty.InvalidateAll(e.renderer.WindowWidth, e.renderer.WindowHeight-e.renderer.DocumentTop)
}

// driveImageFetch starts the single in-flight sub-resource fetch when
// layout suspended on an unloaded image, and finishes it once the
// content task completes, decoding pixels and clearing the suspension
// (§5 suspension point (b)).
func (e *Engine) driveImageFetch() bool {
	if e.opts.noImages {
		// No fetch will ever resolve the image, so lay it out as a
		// placeholder instead of leaving layout suspended on it.
		if e.layout.Suspended && e.layout.SuspendedNode != nil {
			if p, ok := e.layout.SuspendedNode.Payload.(*node.ImagePayload); ok && p.State == node.ImageUnloaded {
				p.State = node.ImageErrorDownloading
				return true
			}
		}
		return false
	}

	if e.layout.Suspended && e.layout.SuspendedNode != nil {
		payload, ok := e.layout.SuspendedNode.Payload.(*node.ImagePayload)
		if ok && payload.State == node.ImageUnloaded && e.loader.Content.State() == loadtask.Stopped {
			resolved := resolveURL(e.currentURL, payload.URL)
			if err := e.loader.Content.Load(resolved); err == nil {
				payload.State = node.ImageDownloadingContent
				e.contentURL = resolved
			} else {
				payload.State = node.ImageErrorDownloading
			}
			return true
		}
	}

	if !e.loader.Content.Done() || e.loader.Content.State() != loadtask.Finished {
		return false
	}

	n := e.findImageLoading()
	if n == nil {
		return false
	}
	payload := n.Payload.(*node.ImagePayload)

	var body []byte
	buf := make([]byte, 4096)
	for e.loader.Content.HasContent() {
		r := e.loader.Content.GetContent(buf)
		if r == 0 {
			break
		}
		body = append(body, buf[:r]...)
	}

	w, h, pixels, err := e.decode.Decode(body)
	if err != nil {
		payload.State = node.ImageErrorDownloading
		e.loader.Content.Stop()
		return true
	}
	payload.NaturalWidth = w
	payload.NaturalHeight = h
	payload.Pixels = pixels
	payload.State = node.ImageFinishedDownloadingContent
	e.loader.Content.Stop()
	return true
}

// findImageLoading returns the Image node currently waiting on the
// content task, by URL match against contentURL.
func (e *Engine) findImageLoading() *node.Node {
	var found *node.Node
	e.builder.Root.Walk(func(n *node.Node) bool {
		if n.Kind != node.Image {
			return true
		}
		p, ok := n.Payload.(*node.ImagePayload)
		if ok && p.State == node.ImageDownloadingContent && resolveURL(e.currentURL, p.URL) == e.contentURL {
			found = n
			return false
		}
		return true
	})
	return found
}

// syncChrome mirrors load state and layout geometry into the interface
// shell: the title (polled from the builder rather than pushed through
// a dedicated hook, since the title accumulates correctly from section
// parsing on its own), the status line, and the scrollbar extent.
func (e *Engine) syncChrome() {
	if title := e.builder.Title(); title != e.lastTitle {
		e.shell.SetTitle(title)
		e.lastTitle = title
		e.renderer.InterfaceDirty = true
	}

	if e.loader.Page.Done() && e.loader.Page.Err() == nil {
		e.shell.SetStatus("Done")
	}

	viewportH := e.renderer.WindowHeight - e.renderer.DocumentTop
	docH := e.builder.Root.SizeH
	maxScroll := docH - viewportH
	if maxScroll < 0 {
		maxScroll = 0
	}
	thumbSize := viewportH
	if docH > 0 && viewportH < docH {
		thumbSize = viewportH * viewportH / docH
	}
	e.shell.SetScrollBar(e.renderer.ScrollY, maxScroll, thumbSize)
}

// layoutAndPaint runs an initial layout/paint pass over the (empty)
// document tree so a freshly constructed Engine already has a
// consistent frame before the first OpenURL.
func (e *Engine) layoutAndPaint() {
	e.runLayout()
	e.renderer.Tick()
}

// resolveURL resolves ref against base the way link and image URLs are
// resolved throughout the document (relative hrefs, protocol-relative
// and absolute URLs all pass through unchanged when already absolute).
func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// HandleClick dispatches a click at surface coordinates (x, y) to the
// interface shell or document link/focus handling, and starts a
// navigation when the result is one (§4.7). Link clicks haven't
// touched history yet (Shell.HandleClick only records history for
// Back/Forward, which move the existing cursor), so this is the path
// that pushes a new entry; Back/Forward reload without pushing again.
func (e *Engine) HandleClick(x, y int) (ui.Event, error) {
	hit := pagerender.Pick(e.shell.Root, nil, x, y)
	if hit == nil && y >= e.renderer.DocumentTop {
		hit = pagerender.Pick(nil, e.builder.Root, x, e.docHitTestY(y))
	}
	ev := e.shell.HandleClick(hit)

	switch ev.Action {
	case ui.ActionBack, ui.ActionForward:
		return ev, e.reopen(ev.URL)
	case ui.ActionNavigate:
		ev.URL = resolveURL(e.currentURL, ev.URL)
		return ev, e.OpenURL(ev.URL)
	case ui.ActionFocus:
		e.renderer.Focused = ev.Target
		e.renderer.FocusedInDocument = hit != nil && e.isInDocument(hit)
		if hit == e.shell.ScrollNode {
			e.beginScrollDrag(y)
		}
	}
	return ev, nil
}

// beginScrollDrag implements §4.3's ScrollBar Focus: capture
// startDragOffset = clickY - node.y - thumbTop, the offset between
// where the pointer landed and the thumb's current top, preserved for
// the drag to track instead of snapping the thumb under the pointer.
func (e *Engine) beginScrollDrag(clickY int) {
	n := e.shell.ScrollNode
	p, ok := n.Payload.(*node.ScrollBarPayload)
	if !ok {
		return
	}
	p.StartDragOffset = clickY - n.AnchorY - thumbTop(p, n.SizeH)
	p.Dragging = true
}

// HandleDrag implements §4.3's ScrollBar Drag: while a drag begun by
// HandleClick is in progress, converts the pointer's new y into a
// candidate scroll position and applies it via Scroll. A no-op if no
// drag is active.
func (e *Engine) HandleDrag(y int) {
	n := e.shell.ScrollNode
	p, ok := n.Payload.(*node.ScrollBarPayload)
	if !ok || !p.Dragging {
		return
	}
	track := n.SizeH - p.ThumbSize
	if track <= 0 {
		return
	}
	candidate := (y - n.AnchorY - p.StartDragOffset) * p.MaxScroll / track
	e.Scroll(candidate - e.renderer.ScrollY)
}

// HandleRelease implements §4.3's ScrollBar Release: ends a drag in
// progress, if any.
func (e *Engine) HandleRelease() {
	if p, ok := e.shell.ScrollNode.Payload.(*node.ScrollBarPayload); ok {
		p.Dragging = false
	}
}

// thumbTop is the thumb's current pixel offset within a track trackH
// pixels tall, per §4.3's ScrollBar geometry.
func thumbTop(p *node.ScrollBarPayload, trackH int) int {
	track := trackH - p.ThumbSize
	if p.MaxScroll <= 0 || track <= 0 {
		return 0
	}
	return p.ScrollPosition * track / p.MaxScroll
}

// HandleEnter submits the address bar's content when focused is it, or
// submits the enclosing Form when focused is a document TextField
// (§4.3's "TextField Enter-submits"), the Enter-key counterpart to
// HandleClick (§4.7). For the address bar, Shell.HandleEnter has
// already pushed the new entry onto history by the time it returns, so
// this reloads without pushing a second one; its text is used verbatim
// (it may be a bare host the load coordinator resolves itself). A
// form's action is resolved against the current page URL and opened
// through OpenURL, which records it in history, same as a Link or
// submit Button click.
func (e *Engine) HandleEnter(focused *node.Node) (ui.Event, bool, error) {
	ev, ok := e.shell.HandleEnter(focused)
	if !ok {
		return ev, false, nil
	}
	if focused != e.shell.AddressNode {
		ev.URL = resolveURL(e.currentURL, ev.URL)
		return ev, true, e.OpenURL(ev.URL)
	}
	return ev, true, e.reopen(ev.URL)
}

// reopen loads url without pushing a new history entry, for Back/
// Forward and address-bar-Enter navigation where Shell has already
// updated history itself.
func (e *Engine) reopen(rawURL string) error {
	if err := e.resetDocumentAndLoad(rawURL); err != nil {
		return err
	}
	e.shell.SetAddress(rawURL)
	e.renderer.InterfaceDirty = true
	e.shell.SetStatus("Loading...")
	return nil
}

// resetDocumentAndLoad performs the document-side half of a navigation
// (§5's "exactly one reset point"): fresh memory tier and node/style
// pools, a fresh builder/parser pair, and a new page load started on
// the coordinator. History/address-bar bookkeeping is the caller's,
// since OpenURL and reopen differ on whether it already happened.
func (e *Engine) resetDocumentAndLoad(rawURL string) error {
	e.docArena.Reset()
	e.docBlocks.Reset()
	e.docPool.Reset()
	e.docStyles.Reset()

	e.builder, e.parser = htmlparse.NewBuilderAndParser(e.docPool, e.docStyles, e.docBlocks)
	e.renderer.DocumentRoot = e.builder.Root
	e.renderer.ScrollY = 0
	e.renderer.Focused = nil
	e.renderer.Dirty.Clear()
	e.lastTitle = ""

	if err := e.loader.OpenURL(rawURL); err != nil {
		return err
	}
	e.currentURL = rawURL
	return nil
}

// docHitTestY converts a surface y coordinate into document-space y,
// undoing the chrome offset and current scroll.
func (e *Engine) docHitTestY(y int) int {
	return y - e.renderer.DocumentTop + e.renderer.ScrollY
}

// isInDocument reports whether n is reachable from the document root,
// to pick the right focus-highlight translation.
func (e *Engine) isInDocument(n *node.Node) bool {
	found := false
	e.builder.Root.Walk(func(c *node.Node) bool {
		if c == n {
			found = true
			return false
		}
		return true
	})
	return found
}

// Scroll adjusts the document scroll position by delta pixels, clamped
// to [0, maxScroll].
func (e *Engine) Scroll(delta int) {
	viewportH := e.renderer.WindowHeight - e.renderer.DocumentTop
	maxScroll := e.builder.Root.SizeH - viewportH
	if maxScroll < 0 {
		maxScroll = 0
	}
	next := e.renderer.ScrollY + delta
	if next < 0 {
		next = 0
	}
	if next > maxScroll {
		next = maxScroll
	}
	e.renderer.ScrollY = next
}

// TypeRune inserts r at the focused text field's cursor, the keyboard
// counterpart to HandleClick for the address bar and any document
// TextField (§4.7).
func (e *Engine) TypeRune(r rune) {
	p := e.focusedTextField()
	if p == nil {
		return
	}
	p.Value = append(p.Value[:p.CursorPos:p.CursorPos], append([]rune{r}, p.Value[p.CursorPos:]...)...)
	p.CursorPos++
	e.markFocusedDirty()
}

// Backspace deletes the rune before the focused text field's cursor.
func (e *Engine) Backspace() {
	p := e.focusedTextField()
	if p == nil || p.CursorPos == 0 {
		return
	}
	p.Value = append(p.Value[:p.CursorPos-1], p.Value[p.CursorPos:]...)
	p.CursorPos--
	e.markFocusedDirty()
}

// focusedTextField returns the currently focused node's TextFieldPayload,
// or nil if nothing editable is focused.
func (e *Engine) focusedTextField() *node.TextFieldPayload {
	if e.renderer.Focused == nil || e.renderer.Focused.Kind != node.TextField {
		return nil
	}
	p, _ := e.renderer.Focused.Payload.(*node.TextFieldPayload)
	return p
}

// markFocusedDirty marks the focused node for repaint in whichever
// tree it belongs to.
func (e *Engine) markFocusedDirty() {
	if e.renderer.FocusedInDocument {
		e.renderer.MarkNodeDirty(e.renderer.Focused, true)
		return
	}
	e.renderer.InterfaceDirty = true
}

// DumpLayout renders the current document tree as plain indented text
// (kind, anchor, and size per node), a layout-debugging aid distinct
// from the raw-bytes `-dumppage` flag (§6), which WithPageDump covers.
func (e *Engine) DumpLayout() string {
	var out []byte
	var walk func(n *node.Node, depth int)
	walk = func(n *node.Node, depth int) {
		if n == nil {
			return
		}
		for i := 0; i < depth; i++ {
			out = append(out, ' ', ' ')
		}
		out = append(out, fmt.Sprintf("%s (%d,%d %dx%d)\n", n.Kind, n.AnchorX, n.AnchorY, n.SizeW, n.SizeH)...)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, depth+1)
		}
	}
	walk(e.builder.Root, 0)
	return string(out)
}
