package microweb

import (
	"github.com/jhhoward/microweb-go/asset"
	"github.com/jhhoward/microweb-go/layout"
	"github.com/jhhoward/microweb-go/node"
)

// fontProvider adapts an asset.Pack (or, absent one, the built-in
// fallback font) into layout.FontProvider.
type fontProvider struct {
	pack *asset.Pack
}

// fontSizeToSlot maps ElementStyle's 0-4 font size index down to the
// data pack's 3 bundled sizes (small/medium/large), exactly as the
// original DataPack::FontSizeToIndex does: 0 stays small, 2-4 collapse
// to large, everything else (1, and any other value) is medium.
func fontSizeToSlot(size int) int {
	switch size {
	case 0:
		return 0
	case 2, 3, 4:
		return 2
	default:
		return 1
	}
}

func (p *fontProvider) Font(sizeIndex int, bits node.StyleBit) layout.Font {
	if p.pack == nil {
		return fallbackFont{bold: bits&node.Bold != 0}
	}
	slot := fontSizeToSlot(sizeIndex)
	if bits&node.Monospace != 0 {
		return p.pack.MonoFonts[slot]
	}
	return p.pack.Fonts[slot]
}
