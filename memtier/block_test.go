package memtier

import "testing"

func TestBlockAllocatorPrefersArenaByDefault(t *testing.T) {
	a := New(nil)
	b := NewBlockAllocator(a, nil)

	h, err := b.Alloc(10)
	if err != nil {
		t.Fatal(err)
	}
	if h.kind.backing != backingConventional {
		t.Fatalf("backing = %v, want conventional", h.kind.backing)
	}
}

func TestBlockAllocatorPrefersExpandedMemory(t *testing.T) {
	a := New(nil)
	b := NewBlockAllocator(a, nil)
	b.EnableExpandedMemory(PageSize * 2)

	h, err := b.Alloc(100)
	if err != nil {
		t.Fatal(err)
	}
	if h.kind.backing != backingExpanded {
		t.Fatalf("backing = %v, want expanded", h.kind.backing)
	}

	buf, err := b.Get(h)
	if err != nil {
		t.Fatal(err)
	}
	copy(buf, []byte("hello"))

	buf2, err := b.Get(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf2[:5]) != "hello" {
		t.Fatalf("got %q, want hello", buf2[:5])
	}
}

func TestBlockAllocatorFallsBackToSwapUnderLowMemory(t *testing.T) {
	a := New(nil)
	b := NewBlockAllocator(a, nil)
	b.EnableSwap(64 * 1024)
	b.SetConventionalRemaining(LowWaterMark - 1)

	h, err := b.Alloc(100)
	if err != nil {
		t.Fatal(err)
	}
	if h.kind.backing != backingSwap {
		t.Fatalf("backing = %v, want swap", h.kind.backing)
	}
}

func TestBlockAllocatorSwapRequiresCommit(t *testing.T) {
	a := New(nil)
	b := NewBlockAllocator(a, nil)
	b.EnableSwap(64 * 1024)
	b.SetConventionalRemaining(0)

	h1, err := b.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := b.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}

	buf, err := b.Get(h1)
	if err != nil {
		t.Fatal(err)
	}
	copy(buf, []byte("abcdefgh"))
	if err := b.Commit(h1); err != nil {
		t.Fatal(err)
	}

	// Resolving a different swap handle evicts h1 from scratch.
	if _, err := b.Get(h2); err != nil {
		t.Fatal(err)
	}

	buf1again, err := b.Get(h1)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf1again[:8]) != "abcdefgh" {
		t.Fatalf("got %q, want committed bytes to survive a swap-back", buf1again[:8])
	}
}

func TestBlockAllocatorSwapOversizeRejected(t *testing.T) {
	a := New(nil)
	b := NewBlockAllocator(a, nil)
	b.EnableSwap(64 * 1024)
	b.SetConventionalRemaining(0)

	h, err := b.Alloc(ScratchSize + 1)
	if err != nil {
		t.Fatal(err)
	}
	// Larger than the scratch window falls through to the arena, not swap.
	if h.kind.backing != backingConventional {
		t.Fatalf("backing = %v, want conventional (oversize for swap)", h.kind.backing)
	}
}

func TestBlockAllocatorResetDropsSwapAndEMS(t *testing.T) {
	a := New(nil)
	b := NewBlockAllocator(a, nil)
	b.EnableSwap(1024)
	b.EnableExpandedMemory(PageSize)
	b.SetConventionalRemaining(0)

	// Fill the bank's single EMS page so the next small request goes to swap.
	if _, err := b.Alloc(PageSize); err != nil {
		t.Fatal(err)
	}
	h, err := b.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	if h.kind.backing != backingSwap {
		t.Fatalf("expected swap-backed alloc before reset, got %v", h.kind.backing)
	}

	b.Reset()

	fill, err := b.Alloc(PageSize)
	if err != nil {
		t.Fatal(err)
	}
	if fill.kind.backing != backingExpanded {
		t.Fatalf("expected the EMS page to be free again after Reset, got %v", fill.kind.backing)
	}
	h2, err := b.Alloc(16)
	if err != nil {
		t.Fatal(err)
	}
	if h2.kind.fileOff != 0 {
		t.Fatalf("expected swap offsets to restart at 0 after Reset, got %d", h2.kind.fileOff)
	}
}

func TestExpandedMemoryBankEvictsLeastRecentlyUsedWindow(t *testing.T) {
	bank := newExpandedMemoryBank(PageSize * (emsWindowCount + 1))
	var pages []int
	for i := 0; i < emsWindowCount+1; i++ {
		p, _, ok := bank.alloc(PageSize) // a full page each, so every alloc starts a new page
		if !ok {
			t.Fatalf("alloc %d failed", i)
		}
		pages = append(pages, p)
	}

	// Map the first emsWindowCount pages, filling all windows.
	for i := 0; i < emsWindowCount; i++ {
		if _, err := bank.mapPage(pages[i], 0, 8); err != nil {
			t.Fatal(err)
		}
	}
	// Touch page 0 again so it is not the LRU victim.
	if _, err := bank.mapPage(pages[0], 0, 8); err != nil {
		t.Fatal(err)
	}
	// Map one more page, evicting the least recently used (page 1).
	if _, err := bank.mapPage(pages[emsWindowCount], 0, 8); err != nil {
		t.Fatal(err)
	}

	if bank.findWindow(pages[1]) != -1 {
		t.Error("expected page 1 to have been evicted as least recently used")
	}
	if bank.findWindow(pages[0]) == -1 {
		t.Error("expected recently touched page 0 to remain mapped")
	}
}
