package memtier

import "fmt"

// swapFile is the in-memory stand-in for the on-disk swap file described
// in §6 (microweb.swp: a bump-grown sequence of (uint16 size, bytes[size])
// records; positions are used as handles, truncated on startup). The
// engine's platform layer is responsible for actually persisting this to
// disk; this type only needs to behave like one for the block allocator.
type swapFile struct {
	data     []byte
	capacity int
}

func newSwapFile(capacity int) *swapFile {
	return &swapFile{capacity: capacity}
}

// append reserves size zero-filled bytes at the end of the file and
// returns their offset. It fails once the file would exceed capacity,
// matching the CLI's -useswap cap (default 1 MiB).
func (s *swapFile) append(size int) (int64, error) {
	if len(s.data)+size > s.capacity {
		return 0, ErrSwapFull
	}
	off := int64(len(s.data))
	s.data = append(s.data, make([]byte, size)...)
	return off, nil
}

func (s *swapFile) readInto(off int64, dst []byte) error {
	if off < 0 || int(off)+len(dst) > len(s.data) {
		return fmt.Errorf("memtier: swap read out of range at offset %d", off)
	}
	copy(dst, s.data[off:int(off)+len(dst)])
	return nil
}

func (s *swapFile) writeFrom(off int64, src []byte) error {
	if off < 0 || int(off)+len(src) > len(s.data) {
		return fmt.Errorf("memtier: swap write out of range at offset %d", off)
	}
	copy(s.data[off:int(off)+len(src)], src)
	return nil
}

// truncate drops all swap contents, mirroring the "not persisted across
// runs (truncated on startup)" contract in §6.
func (s *swapFile) truncate() {
	s.data = s.data[:0]
}
