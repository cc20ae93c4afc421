package asset

import "testing"

func putLE32At(data []byte, off int, v uint32) {
	data[off] = byte(v)
	data[off+1] = byte(v >> 8)
	data[off+2] = byte(v >> 16)
	data[off+3] = byte(v >> 24)
}

func buildIconData(width, height int) []byte {
	stride := (width + 7) / 8
	data := make([]byte, 4+stride*height)
	data[0] = byte(width)
	data[1] = byte(width >> 8)
	data[2] = byte(height)
	data[3] = byte(height >> 8)
	return data
}

// buildPackData assembles a minimal but complete data pack: tiny fonts,
// zeroed cursors, and 1x1 icons, concatenated after a fully populated
// offset header.
func buildPackData(t *testing.T) []byte {
	t.Helper()

	font := buildFontData()
	cursor := buildCursorData(0, 0)
	icon := buildIconData(1, 1)

	assets := [][]byte{
		font, font, font, // proportional sizes
		font, font, font, // monospace sizes
		cursor, cursor, cursor,
		icon, icon,
	}

	offsets := make([]uint32, len(assets))
	cursorOff := uint32(headerSize)
	for i, a := range assets {
		offsets[i] = cursorOff
		cursorOff += uint32(len(a))
	}

	header := make([]byte, headerSize)
	for i, off := range offsets {
		putLE32At(header, i*4, off)
	}

	out := append([]byte{}, header...)
	for _, a := range assets {
		out = append(out, a...)
	}
	return out
}

func TestLoadPack(t *testing.T) {
	p, err := Load(buildPackData(t))
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range p.Fonts {
		if f == nil {
			t.Fatalf("font slot %d is nil", i)
		}
	}
	for i, f := range p.MonoFonts {
		if f == nil {
			t.Fatalf("mono font slot %d is nil", i)
		}
	}
	if p.Pointer == nil || p.Link == nil || p.TextSelect == nil {
		t.Fatal("expected all three cursors to be populated")
	}
	if p.ImageIcon == nil || p.Bullet == nil {
		t.Fatal("expected image icon and bullet to be populated")
	}
}

func TestLoadPackRejectsTruncatedHeader(t *testing.T) {
	if _, err := Load(make([]byte, 4)); err == nil {
		t.Fatal("expected error for truncated pack header")
	}
}
