package asset

import (
	"fmt"

	"github.com/jhhoward/microweb-go/surface"
)

// parseIcon decodes a small 1bpp mask image: a 2-byte width, 2-byte
// height (both little-endian), then packed rows, MSB first, matching
// the bundled placeholder-image icon and list bullet glyph.
func parseIcon(data []byte) (*surface.Image, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("asset: icon data too short: %d bytes", len(data))
	}
	width := int(le16(data))
	height := int(le16(data[2:]))
	stride := (width + 7) / 8
	need := 4 + stride*height
	if len(data) < need {
		return nil, fmt.Errorf("asset: icon bitmap truncated: need %d, have %d", need, len(data))
	}

	img := &surface.Image{Width: width, Height: height, Pixels: make([]byte, width*height)}
	packed := data[4:need]
	for y := 0; y < height; y++ {
		row := packed[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			byteIdx := x / 8
			bitIdx := uint(7 - x%8)
			if row[byteIdx]&(1<<bitIdx) != 0 {
				img.Pixels[y*width+x] = 1
			}
		}
	}
	return img, nil
}
