package asset

import (
	"bytes"
	"testing"
)

func putLE16(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

func TestRawDecoder8bppRoundTrips(t *testing.T) {
	data := make([]byte, 4+2*3)
	putLE16(data, 0, 2)
	putLE16(data, 2, 3)
	copy(data[4:], []byte{1, 2, 3, 4, 5, 6})

	d := RawDecoder{Depth: 8}
	w, h, pixels, err := d.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if w != 2 || h != 3 {
		t.Fatalf("dims = (%d,%d), want (2,3)", w, h)
	}
	if !bytes.Equal(pixels, []byte{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("pixels = %v", pixels)
	}
}

func TestRawDecoder1bppUnpacksMask(t *testing.T) {
	data := make([]byte, 4+1*2) // 4x2 image, 1 byte per row
	putLE16(data, 0, 4)
	putLE16(data, 2, 2)
	data[4] = 0b10100000 // row 0: x=0,2 set
	data[5] = 0b01000000 // row 1: x=1 set

	d := RawDecoder{Depth: 1}
	w, h, pixels, err := d.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if w != 4 || h != 2 {
		t.Fatalf("dims = (%d,%d), want (4,2)", w, h)
	}
	want := []byte{1, 0, 1, 0, 0, 1, 0, 0}
	if !bytes.Equal(pixels, want) {
		t.Fatalf("pixels = %v, want %v", pixels, want)
	}
}

func TestRawDecoderTruncatedDataIsError(t *testing.T) {
	d := RawDecoder{Depth: 8}
	if _, _, _, err := d.Decode([]byte{1, 2}); err == nil {
		t.Fatal("expected error on truncated header")
	}

	data := make([]byte, 4)
	putLE16(data, 0, 10)
	putLE16(data, 2, 10)
	if _, _, _, err := d.Decode(data); err == nil {
		t.Fatal("expected error on truncated pixel body")
	}
}

func TestRawDecoderUnsupportedDepthIsError(t *testing.T) {
	d := RawDecoder{Depth: 4}
	data := make([]byte, 4)
	if _, _, _, err := d.Decode(data); err == nil {
		t.Fatal("expected error for unsupported depth")
	}
}
