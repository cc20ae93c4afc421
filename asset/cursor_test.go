package asset

import "testing"

func buildCursorData(hotX, hotY int) []byte {
	data := make([]byte, cursorDim*2*2+8)
	// Leave AND/XOR masks zero (fully opaque, XOR=0 everywhere means
	// "background toggle point" per At's contract).
	off := cursorDim * 2 * 2
	putLE32 := func(v int32) {
		data[off] = byte(v)
		data[off+1] = byte(v >> 8)
		data[off+2] = byte(v >> 16)
		data[off+3] = byte(v >> 24)
		off += 4
	}
	putLE32(int32(hotX))
	putLE32(int32(hotY))
	return data
}

func TestParseCursorHotspot(t *testing.T) {
	c, err := parseCursor(buildCursorData(3, 5))
	if err != nil {
		t.Fatal(err)
	}
	if c.HotSpotX != 3 || c.HotSpotY != 5 {
		t.Fatalf("hotspot = (%d,%d), want (3,5)", c.HotSpotX, c.HotSpotY)
	}
}

func TestCursorAtOutOfBoundsIsTransparent(t *testing.T) {
	c, err := parseCursor(buildCursorData(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if _, transparent := c.At(-1, 0); !transparent {
		t.Fatal("expected out-of-bounds to be transparent")
	}
	if _, transparent := c.At(16, 0); !transparent {
		t.Fatal("expected out-of-bounds to be transparent")
	}
}

func TestParseCursorRejectsTruncatedData(t *testing.T) {
	if _, err := parseCursor(make([]byte, 4)); err == nil {
		t.Fatal("expected error for truncated cursor data")
	}
}
