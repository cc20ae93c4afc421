// Package surface implements the engine's draw surface abstraction: a
// framebuffer facade with four concrete pixel formats (1, 2, 4, and 8 bits
// per pixel) exposing the same primitive set, per §4.2.
//
// A Surface is (width, height, bits-per-pixel, lines). Interlaced VRAM
// page banking is hidden behind the per-format implementation; callers
// only see SetPixel/GetPixel and the higher-level primitives on
// DrawContext.
package surface

import "fmt"

// Surface is the core rendering target abstraction. Implementations hold
// one row-major byte buffer per the format's packing and translate
// (x, y, colorIndex) into bit or nibble writes.
//
// Surfaces are NOT safe for concurrent use; the engine is single-threaded
// by design (§5) and never shares a Surface across goroutines.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// BPP returns the bits-per-pixel of this surface: 1, 2, 4, or 8.
	BPP() int

	// SetPixel writes a palette index at (x, y). Out-of-bounds
	// coordinates are a no-op, matching the "clipped, not an error"
	// primitive contract.
	SetPixel(x, y int, colorIndex byte)

	// GetPixel reads the palette index at (x, y). Returns 0 if
	// out-of-bounds.
	GetPixel(x, y int) byte

	// CopyRow copies width pixels starting at srcX on row srcY to dstX on
	// row dstY, used by ScrollScreen for the bit-blit scroll path.
	CopyRow(dstY, srcY, dstX, srcX, width int)

	// Clear fills the entire surface with colorIndex.
	Clear(colorIndex byte)
}

// planarSurface is the shared implementation behind all four bit depths.
// Each concrete constructor (New1bpp, New2bpp, New4bpp, New8bpp) supplies
// a packing that knows how many pixels fit in a byte and how to read/
// write one of them.
type planarSurface struct {
	width, height int
	bpp           int
	stride        int // bytes per row
	pixels        []byte
	pack          packing
}

// packing captures the only thing that differs between the four pixel
// formats: how a palette index is packed into (or unpacked from) a byte
// of the row buffer.
type packing interface {
	bpp() int
	strideFor(width int) int
	get(row []byte, x int) byte
	set(row []byte, x int, v byte)
}

func newPlanarSurface(width, height int, pack packing) *planarSurface {
	stride := pack.strideFor(width)
	return &planarSurface{
		width:  width,
		height: height,
		bpp:    pack.bpp(),
		stride: stride,
		pixels: make([]byte, stride*height),
		pack:   pack,
	}
}

func (s *planarSurface) Width() int  { return s.width }
func (s *planarSurface) Height() int { return s.height }
func (s *planarSurface) BPP() int    { return s.bpp }

func (s *planarSurface) row(y int) []byte {
	return s.pixels[y*s.stride : (y+1)*s.stride]
}

func (s *planarSurface) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

func (s *planarSurface) SetPixel(x, y int, colorIndex byte) {
	if !s.inBounds(x, y) {
		return
	}
	s.pack.set(s.row(y), x, colorIndex)
}

func (s *planarSurface) GetPixel(x, y int) byte {
	if !s.inBounds(x, y) {
		return 0
	}
	return s.pack.get(s.row(y), x)
}

func (s *planarSurface) CopyRow(dstY, srcY, dstX, srcX, width int) {
	if srcY < 0 || srcY >= s.height || dstY < 0 || dstY >= s.height {
		return
	}
	// Packed formats (1/2/4 bpp) cannot byte-copy arbitrary bit offsets
	// portably, so copy pixel-by-pixel; 8bpp is byte-aligned and this
	// degrades to a tight loop the compiler can still vectorize well.
	src := s.row(srcY)
	dst := s.row(dstY)
	if srcX == dstX && s.bpp == 8 {
		copy(dst[dstX:dstX+width], src[srcX:srcX+width])
		return
	}
	for i := 0; i < width; i++ {
		v := s.pack.get(src, srcX+i)
		s.pack.set(dst, dstX+i, v)
	}
}

func (s *planarSurface) Clear(colorIndex byte) {
	for y := 0; y < s.height; y++ {
		row := s.row(y)
		for x := 0; x < s.width; x++ {
			s.pack.set(row, x, colorIndex)
		}
	}
}

// New creates a Surface with the given bit depth. It returns an error for
// any depth outside {1, 2, 4, 8}.
func New(width, height, bpp int) (Surface, error) {
	switch bpp {
	case 1:
		return New1bpp(width, height), nil
	case 2:
		return New2bpp(width, height), nil
	case 4:
		return New4bpp(width, height), nil
	case 8:
		return New8bpp(width, height), nil
	default:
		return nil, fmt.Errorf("surface: unsupported bit depth %d", bpp)
	}
}
