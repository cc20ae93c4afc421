package htmlparse

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding selects how bytes ≥ 128 are interpreted (§4.4).
type Encoding int

const (
	UTF8 Encoding = iota
	ISO88591
	ISO88592
)

// ParseEncoding maps a charset name (as seen in <meta charset=…> or
// <meta content="text/html; charset=…">) to an Encoding, defaulting to
// UTF-8 for anything unrecognized.
func ParseEncoding(name string) Encoding {
	switch normalizeCharsetName(name) {
	case "iso-8859-1", "latin1", "windows-1252":
		return ISO88591
	case "iso-8859-2", "latin2":
		return ISO88592
	default:
		return UTF8
	}
}

func normalizeCharsetName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

var iso88591Decoder = charmap.ISO8859_1.NewDecoder()
var iso88592Decoder = charmap.ISO8859_2.NewDecoder()

// asciiReplacements maps non-ASCII codepoints to an ASCII-best-effort
// replacement string (§4.4), grounded on Parser.cpp's
// UTF8_Latin1Supplement/UTF8_LatinExtendedA block tables and the
// ISO_8859_1/2_Encoding.replacement tables: each matched codepoint's
// replacement string is emitted character by character in place of
// the original rune, so the font pack — which only carries glyphs for
// ASCII 32-127 — never has to render it. A codepoint absent from the
// table falls back to "?", matching ParseChar('?') for anything
// outside the original's block ranges. The exact replacement strings
// in Unicode.inc weren't present in the pack, so this table is a
// fresh ASCII transliteration of the same two Unicode blocks
// (Latin-1 Supplement, Latin Extended-A) rather than a verbatim copy.
var asciiReplacements = map[rune]string{
	// Latin-1 Supplement (U+00A0-U+00FF)
	0x00A0: " ",
	0x00A9: "(c)",
	0x00AB: "<<",
	0x00AE: "(r)",
	0x00BB: ">>",
	0x00BC: "1/4",
	0x00BD: "1/2",
	0x00BE: "3/4",
	0x00C0: "A", 0x00C1: "A", 0x00C2: "A", 0x00C3: "A", 0x00C4: "A", 0x00C5: "A",
	0x00C6: "AE",
	0x00C7: "C",
	0x00C8: "E", 0x00C9: "E", 0x00CA: "E", 0x00CB: "E",
	0x00CC: "I", 0x00CD: "I", 0x00CE: "I", 0x00CF: "I",
	0x00D0: "D",
	0x00D1: "N",
	0x00D2: "O", 0x00D3: "O", 0x00D4: "O", 0x00D5: "O", 0x00D6: "O", 0x00D8: "O",
	0x00D7: "x",
	0x00D9: "U", 0x00DA: "U", 0x00DB: "U", 0x00DC: "U",
	0x00DD: "Y",
	0x00DE: "Th",
	0x00DF: "ss",
	0x00E0: "a", 0x00E1: "a", 0x00E2: "a", 0x00E3: "a", 0x00E4: "a", 0x00E5: "a",
	0x00E6: "ae",
	0x00E7: "c",
	0x00E8: "e", 0x00E9: "e", 0x00EA: "e", 0x00EB: "e",
	0x00EC: "i", 0x00ED: "i", 0x00EE: "i", 0x00EF: "i",
	0x00F0: "d",
	0x00F1: "n",
	0x00F2: "o", 0x00F3: "o", 0x00F4: "o", 0x00F5: "o", 0x00F6: "o", 0x00F8: "o",
	0x00F7: "/",
	0x00F9: "u", 0x00FA: "u", 0x00FB: "u", 0x00FC: "u",
	0x00FD: "y", 0x00FF: "y",
	0x00FE: "th",

	// Latin Extended-A (U+0100-U+017F): the diacritic letters
	// ISO-8859-2 and the occasional UTF-8 page use for Central and
	// Eastern European text.
	0x0100: "A", 0x0101: "a", 0x0102: "A", 0x0103: "a", 0x0104: "A", 0x0105: "a",
	0x0106: "C", 0x0107: "c", 0x0108: "C", 0x0109: "c", 0x010A: "C", 0x010B: "c",
	0x010C: "C", 0x010D: "c",
	0x010E: "D", 0x010F: "d", 0x0110: "D", 0x0111: "d",
	0x0112: "E", 0x0113: "e", 0x0114: "E", 0x0115: "e", 0x0116: "E", 0x0117: "e",
	0x0118: "E", 0x0119: "e", 0x011A: "E", 0x011B: "e",
	0x011C: "G", 0x011D: "g", 0x011E: "G", 0x011F: "g", 0x0120: "G", 0x0121: "g",
	0x0122: "G", 0x0123: "g",
	0x0124: "H", 0x0125: "h", 0x0126: "H", 0x0127: "h",
	0x0128: "I", 0x0129: "i", 0x012A: "I", 0x012B: "i", 0x012C: "I", 0x012D: "i",
	0x012E: "I", 0x012F: "i", 0x0130: "I", 0x0131: "i",
	0x0132: "IJ", 0x0133: "ij",
	0x0134: "J", 0x0135: "j",
	0x0136: "K", 0x0137: "k",
	0x0139: "L", 0x013A: "l", 0x013B: "L", 0x013C: "l", 0x013D: "L", 0x013E: "l",
	0x013F: "L", 0x0140: "l", 0x0141: "L", 0x0142: "l",
	0x0143: "N", 0x0144: "n", 0x0145: "N", 0x0146: "n", 0x0147: "N", 0x0148: "n",
	0x014C: "O", 0x014D: "o", 0x014E: "O", 0x014F: "o", 0x0150: "O", 0x0151: "o",
	0x0152: "OE", 0x0153: "oe",
	0x0154: "R", 0x0155: "r", 0x0156: "R", 0x0157: "r", 0x0158: "R", 0x0159: "r",
	0x015A: "S", 0x015B: "s", 0x015C: "S", 0x015D: "s", 0x015E: "S", 0x015F: "s",
	0x0160: "S", 0x0161: "s",
	0x0162: "T", 0x0163: "t", 0x0164: "T", 0x0165: "t", 0x0166: "T", 0x0167: "t",
	0x0168: "U", 0x0169: "u", 0x016A: "U", 0x016B: "u", 0x016C: "U", 0x016D: "u",
	0x016E: "U", 0x016F: "u", 0x0170: "U", 0x0171: "u", 0x0172: "U", 0x0173: "u",
	0x0174: "W", 0x0175: "w",
	0x0176: "Y", 0x0177: "y", 0x0178: "Y",
	0x0179: "Z", 0x017A: "z", 0x017B: "Z", 0x017C: "z", 0x017D: "Z", 0x017E: "z",
}

// replaceASCII returns r unchanged (as a one-rune string) when it's
// already ASCII, its table replacement when it has one, or "?" for
// anything else the font pack has no glyph for.
func replaceASCII(r rune) string {
	if r < 0x80 {
		return string(r)
	}
	if s, ok := asciiReplacements[r]; ok {
		return s
	}
	return "?"
}

// decoder decodes a byte stream into ASCII-best-effort codepoints per
// the active Encoding (§4.4). Single-byte code pages go through
// golang.org/x/text/encoding/charmap to recover the real Unicode
// codepoint, which is then run through replaceASCII rather than
// passed downstream as-is. UTF-8 uses the standard library's
// incremental unicode/utf8 rune decoder, retaining a short pending
// buffer so a multi-byte sequence split across two Feed calls decodes
// correctly; an encoding switch mid-stream discards any pending bytes
// per §4.4.
type decoder struct {
	encoding    Encoding
	utf8Pending []byte
}

func newDecoder(enc Encoding) *decoder {
	return &decoder{encoding: enc}
}

// SetEncoding switches the active encoding, discarding any partially
// decoded UTF-8 state.
func (d *decoder) SetEncoding(enc Encoding) {
	d.encoding = enc
	d.utf8Pending = d.utf8Pending[:0]
}

// Feed consumes as many bytes of b as decode to complete codepoints,
// calling emit for each resulting ASCII character, and returns the
// number of bytes consumed. A trailing incomplete UTF-8 sequence is
// retained for the next call.
func (d *decoder) Feed(b []byte, emit func(rune)) int {
	consumed := 0
	for consumed < len(b) {
		c := b[consumed]

		if d.encoding != UTF8 {
			consumed++
			if c < 0x80 {
				emit(rune(c))
				continue
			}
			dec := iso88591Decoder
			if d.encoding == ISO88592 {
				dec = iso88592Decoder
			}
			out, err := dec.Bytes([]byte{c})
			if err != nil || len(out) == 0 {
				emit('?')
				continue
			}
			r, _ := utf8.DecodeRune(out)
			for _, ar := range replaceASCII(r) {
				emit(ar)
			}
			continue
		}

		d.utf8Pending = append(d.utf8Pending, c)
		consumed++

		for len(d.utf8Pending) > 0 {
			r, size := utf8.DecodeRune(d.utf8Pending)
			if r == utf8.RuneError && size == 1 {
				if !utf8.FullRune(d.utf8Pending) {
					break // may complete with more bytes
				}
				emit('?')
				d.utf8Pending = d.utf8Pending[1:]
				continue
			}
			for _, ar := range replaceASCII(r) {
				emit(ar)
			}
			d.utf8Pending = d.utf8Pending[size:]
		}
	}
	return consumed
}
