package asset

import "fmt"

// ImageDecoder decodes a downloaded image resource's raw bytes into
// pixel dimensions and an 8bpp pixel buffer. GIF/PNG/JPEG decoding is
// an external collaborator (§1's scope line); Engine wires in whatever
// implementation the host provides. RawDecoder below is the only
// built-in implementation, covering the 1bpp/8bpp-palette raw formats
// the data pack itself can carry.
type ImageDecoder interface {
	// Decode returns the image's natural dimensions and its pixels in
	// row-major 8bpp palette-index form (TransparentIndex marks any
	// transparent pixels), or an error if data isn't a format the
	// decoder recognizes.
	Decode(data []byte) (width, height int, pixels []byte, err error)
}

// RawDecoder decodes the bundled raw image format: a 2-byte width,
// 2-byte height (little-endian), then either packed 1bpp rows (depth
// 1) or one byte per pixel (depth 8), matching parseIcon's header
// convention extended to full 8bpp palette images.
type RawDecoder struct {
	// Depth selects 1bpp (packed mask) or 8bpp (one palette index per
	// pixel) decoding. Any other value is an error.
	Depth int
}

func (d RawDecoder) Decode(data []byte) (int, int, []byte, error) {
	if len(data) < 4 {
		return 0, 0, nil, fmt.Errorf("asset: image data too short: %d bytes", len(data))
	}
	width := int(le16(data))
	height := int(le16(data[2:]))
	body := data[4:]

	switch d.Depth {
	case 1:
		stride := (width + 7) / 8
		need := stride * height
		if len(body) < need {
			return 0, 0, nil, fmt.Errorf("asset: 1bpp image truncated: need %d, have %d", need, len(body))
		}
		pixels := make([]byte, width*height)
		for y := 0; y < height; y++ {
			row := body[y*stride : (y+1)*stride]
			for x := 0; x < width; x++ {
				if row[x/8]&(1<<uint(7-x%8)) != 0 {
					pixels[y*width+x] = 1
				}
			}
		}
		return width, height, pixels, nil
	case 8:
		need := width * height
		if len(body) < need {
			return 0, 0, nil, fmt.Errorf("asset: 8bpp image truncated: need %d, have %d", need, len(body))
		}
		pixels := make([]byte, need)
		copy(pixels, body[:need])
		return width, height, pixels, nil
	default:
		return 0, 0, nil, fmt.Errorf("asset: unsupported raw image depth %d", d.Depth)
	}
}
