package asset

import (
	"fmt"

	"github.com/jhhoward/microweb-go/surface"
)

// fontSlots is the number of font sizes bundled per family (§6: "fonts
// 0..n"). The bundled packs carry three sizes, small/medium/large.
const fontSlots = 3

// headerFieldCount is the number of uint32 offset fields in the pack
// header, in file order: fontOffsets[3], monoFontOffsets[3],
// pointerCursorOffset, linkCursorOffset, textSelectCursorOffset,
// imageIconOffset, bulletOffset.
const headerFieldCount = fontSlots + fontSlots + 5

const headerSize = headerFieldCount * 4

// Pack is the decoded contents of a data pack file: the proportional
// and monospace font families at three sizes, the three cursor shapes,
// the inline-image placeholder icon, and the list-item bullet glyph.
type Pack struct {
	Fonts     [fontSlots]*Font
	MonoFonts [fontSlots]*Font

	Pointer    *Cursor
	Link       *Cursor
	TextSelect *Cursor

	ImageIcon *surface.Image
	Bullet    *surface.Image
}

// Load parses a data pack per §6: a header of asset-offset fields
// followed by the assets concatenated at those offsets.
func Load(data []byte) (*Pack, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("asset: pack header truncated: need %d bytes, have %d", headerSize, len(data))
	}

	offsets := make([]uint32, headerFieldCount)
	for i := range offsets {
		offsets[i] = le32(data[i*4:])
	}

	p := &Pack{}
	idx := 0

	for i := 0; i < fontSlots; i++ {
		f, err := Parse(sliceAt(data, offsets[idx]))
		if err != nil {
			return nil, fmt.Errorf("asset: font slot %d: %w", i, err)
		}
		p.Fonts[i] = f
		idx++
	}
	for i := 0; i < fontSlots; i++ {
		f, err := Parse(sliceAt(data, offsets[idx]))
		if err != nil {
			return nil, fmt.Errorf("asset: mono font slot %d: %w", i, err)
		}
		p.MonoFonts[i] = f
		idx++
	}

	var err error
	if p.Pointer, err = parseCursor(sliceAt(data, offsets[idx])); err != nil {
		return nil, fmt.Errorf("asset: pointer cursor: %w", err)
	}
	idx++
	if p.Link, err = parseCursor(sliceAt(data, offsets[idx])); err != nil {
		return nil, fmt.Errorf("asset: link cursor: %w", err)
	}
	idx++
	if p.TextSelect, err = parseCursor(sliceAt(data, offsets[idx])); err != nil {
		return nil, fmt.Errorf("asset: text-select cursor: %w", err)
	}
	idx++

	if p.ImageIcon, err = parseIcon(sliceAt(data, offsets[idx])); err != nil {
		return nil, fmt.Errorf("asset: image icon: %w", err)
	}
	idx++
	if p.Bullet, err = parseIcon(sliceAt(data, offsets[idx])); err != nil {
		return nil, fmt.Errorf("asset: bullet: %w", err)
	}

	return p, nil
}

// sliceAt returns the tail of data starting at offset off, or an empty
// slice if off is beyond the end of data.
func sliceAt(data []byte, off uint32) []byte {
	if int(off) >= len(data) {
		return nil
	}
	return data[off:]
}
