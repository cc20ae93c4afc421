package microweb

import (
	"io"
	"log/slog"
)

// Option configures an Engine during construction.
//
// Example:
//
//	eng := microweb.New(640, 480,
//	    microweb.WithDataPack(packBytes),
//	    microweb.WithSwap(1<<20),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	bpp          int
	dataPack     []byte
	noImages     bool
	invertColors bool
	swapCapacity int
	emsCapacity  int
	logger       *slog.Logger
	pageDump     io.Writer
	// proxyURL overrides the rewriting-proxy prefix; nil means "use
	// the Task default", distinguishing unset from explicitly cleared.
	proxyURL *string
}

// defaultOptions returns the default engine options: 4bpp (16-color
// VGA-like), no swap or expanded memory, images enabled.
func defaultOptions() engineOptions {
	return engineOptions{bpp: 4}
}

// WithBPP selects the draw surface's bit depth: 1, 2, 4, or 8. The
// video driver contract (§6) treats this as the "video mode" choice;
// New defaults to 4 (16-color).
func WithBPP(bpp int) Option {
	return func(o *engineOptions) { o.bpp = bpp }
}

// WithDataPack supplies the binary asset pack (§6) fonts, cursors, and
// icons are loaded from. Without it, Engine falls back to a minimal
// built-in monospace font and primitive-shape icons so it still runs,
// just without the bundled look.
func WithDataPack(data []byte) Option {
	return func(o *engineOptions) { o.dataPack = data }
}

// WithNoImages suppresses image loading entirely (the `-noimages` CLI
// flag, §6): no content load task is ever started for an Image node;
// each one is laid out and painted as a placeholder box (32x32 unless
// the tag gives a size). Its alt text is not shown.
func WithNoImages() Option {
	return func(o *engineOptions) { o.noImages = true }
}

// WithInvertColors inverts the page's color scheme end to end (the
// `-i` CLI flag, §6).
func WithInvertColors() Option {
	return func(o *engineOptions) { o.invertColors = true }
}

// WithSwap enables the disk swap tier (the `-useswap` CLI flag, §6),
// capped at capacity bytes.
func WithSwap(capacity int) Option {
	return func(o *engineOptions) { o.swapCapacity = capacity }
}

// WithProxyURL overrides the rewriting-proxy prefix an HTTPS request
// is rewritten through (§4.8, §7) when this browser refuses to speak
// TLS itself, replacing the default FrogFind proxy. An empty prefix
// falls back to linking the same URL with its scheme swapped to
// http://, rather than going through any proxy.
func WithProxyURL(prefix string) Option {
	return func(o *engineOptions) { o.proxyURL = &prefix }
}

// WithExpandedMemory enables the EMS-page tier for the block allocator,
// capped at capacity bytes. The `-noems` CLI flag (§6) is the absence
// of this option, not a separate negative one.
func WithExpandedMemory(capacity int) Option {
	return func(o *engineOptions) { o.emsCapacity = capacity }
}

// WithLogger sets the logger passed to the engine's sub-packages,
// equivalent to calling SetLogger before New.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithPageDump mirrors every raw byte the page load task receives to w
// as it arrives, the `-dumppage` CLI flag's (§6) "dump.htm" behavior,
// generalized to any writer instead of a hardcoded file.
func WithPageDump(w io.Writer) Option {
	return func(o *engineOptions) { o.pageDump = w }
}
