// Package memtier implements the engine's memory tier: a linear arena for
// parse/layout structures, and a block allocator that transparently places
// text buffers in conventional RAM, an expanded-memory bank, or a disk
// swap file.
//
// There is exactly one reset point per navigation: Arena.Reset keeps the
// first chunk for reuse and drops the rest, and BlockAllocator.Reset
// truncates the swap file and drops expanded-memory bookkeeping.
package memtier

import (
	"fmt"
	"log/slog"
)

// ChunkSize is the size in bytes of each arena chunk. The arena grows by
// appending whole chunks; a single allocation never spans two chunks, so
// ChunkSize is also the largest single allocation the arena accepts.
const ChunkSize = 16 * 1024

// Arena is a bump-pointer linear allocator over a list of fixed-size
// chunks. It never frees individual allocations: Reset is the only way to
// reclaim memory, and it reclaims everything at once.
//
// Arena reports overflow as a sticky error flag rather than a returned
// error on every call: per the engine's error-handling design, an arena
// overflow must not abort an in-progress parse. Callers check Overflowed
// once, at the end of a page load.
type Arena struct {
	chunks     [][]byte
	chunkAt    int // index of the chunk currently being filled
	offset     int // bump offset within chunks[chunkAt]
	overflowed bool
	log        *slog.Logger
}

// New creates an empty Arena. The first chunk is allocated lazily, on the
// first call to Alloc.
func New(log *slog.Logger) *Arena {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Arena{log: log}
}

// Alloc returns size bytes of zeroed storage. It returns nil if size
// exceeds ChunkSize or if a new chunk could not be grown (the caller is
// expected to treat a nil return as "this allocation failed" and the
// arena as a whole sets Overflowed so the failure is visible later).
func (a *Arena) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	if size > ChunkSize {
		a.markOverflow("allocation of %d bytes exceeds chunk size %d", size, ChunkSize)
		return nil
	}

	if len(a.chunks) == 0 || a.offset+size > len(a.chunks[a.chunkAt]) {
		if !a.growChunk() {
			return nil
		}
	}

	chunk := a.chunks[a.chunkAt]
	buf := chunk[a.offset : a.offset+size : a.offset+size]
	clear(buf) // the chunk may hold bytes from before the last Reset
	a.offset += size
	return buf
}

// growChunk appends a new chunk and makes it the current fill target.
// It always succeeds under Go's memory model (allocation failure there is
// a fatal OOM, not a recoverable error), but the method keeps a bool
// return so a future bounded-chunk-count policy can fail gracefully
// without changing Alloc's contract.
func (a *Arena) growChunk() bool {
	// If the current chunk still has unused trailing space that is too
	// small for this request, that space is abandoned — this is the
	// documented bump-allocator tradeoff: no splitting, no free list.
	if len(a.chunks) > 0 {
		a.chunkAt++
	}
	a.chunks = append(a.chunks, make([]byte, ChunkSize))
	a.offset = 0
	a.log.Debug("arena: grew chunk", "chunk_count", len(a.chunks))
	return true
}

func (a *Arena) markOverflow(format string, args ...any) {
	if !a.overflowed {
		a.log.Warn("arena: overflow", "reason", fmt.Sprintf(format, args...))
	}
	a.overflowed = true
}

// Overflowed reports whether any allocation has failed since the last
// Reset. Callers surface this as a status-bar message at page-load end;
// it is never fatal.
func (a *Arena) Overflowed() bool {
	return a.overflowed
}

// Reset keeps the first chunk for reuse and clears the overflow flag.
// Chunks after the first are dropped from the arena rather than kept,
// so they are grown again when needed. This is the arena's single reset
// point, called once per navigation.
func (a *Arena) Reset() {
	a.chunkAt = 0
	a.offset = 0
	a.overflowed = false
	// The first chunk is reused; Alloc clears the bytes it hands out, so
	// its old contents never leak into new allocations.
	if len(a.chunks) > 1 {
		a.chunks = a.chunks[:1]
	}
}

// ChunkCount returns the number of chunks currently held. Exposed for
// tests and diagnostics, not part of the allocation contract.
func (a *Arena) ChunkCount() int {
	return len(a.chunks)
}
