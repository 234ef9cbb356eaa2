package nbbuddy

import (
	"sync"
	"testing"

	"golang.org/x/exp/rand"
)

// TestConcurrentRandomizedAllocFreeInterleavings drives a reproducible
// mixed alloc/free workload across goroutines, each with its own seeded
// source so a failing interleaving can be reproduced by fixing the seed.
// Checks only the invariants that must hold regardless of interleaving:
// no two live blocks overlap, and every block this goroutine frees was one
// it actually holds.
func TestConcurrentRandomizedAllocFreeInterleavings(t *testing.T) {
	const (
		workers    = 8
		iterations = 150
	)
	a := newTestAllocatorLevels(t, 8, WithMinAllocableBytes(8), WithMaxAllocableByte(1024), WithNumberOfProcesses(workers))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		// live tracks every currently-outstanding block, keyed by offset,
		// shared across all workers so overlap can be detected globally.
		live = map[uint64]uint64{} // offset -> size
	)

	checkNoOverlap := func(offset, size uint64) {
		mu.Lock()
		defer mu.Unlock()
		for off, sz := range live {
			if offset < off+sz && off < offset+size {
				t.Errorf("new block [%d,%d) overlaps existing block [%d,%d)", offset, offset+size, off, off+sz)
			}
		}
		live[offset] = size
	}

	forgetBlock := func(offset uint64) {
		mu.Lock()
		defer mu.Unlock()
		delete(live, offset)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(myid int) {
			defer wg.Done()
			src := rand.NewSource(uint64(1000 + myid))
			rng := rand.New(src)

			var held []*Node
			for i := 0; i < iterations; i++ {
				if len(held) == 0 || rng.Intn(2) == 0 {
					size := 8 << uint(rng.Intn(5))
					n, err := a.Request(myid, size)
					if err != nil {
						continue
					}
					checkNoOverlap(n.Offset(), n.Size())
					held = append(held, n)
				} else {
					idx := rng.Intn(len(held))
					n := held[idx]
					held[idx] = held[len(held)-1]
					held = held[:len(held)-1]
					forgetBlock(n.Offset())
					if err := a.Free(n); err != nil {
						t.Errorf("Free: %v", err)
					}
				}
			}

			for _, n := range held {
				forgetBlock(n.Offset())
				if err := a.Free(n); err != nil {
					t.Errorf("Free: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	if len(live) != 0 {
		t.Fatalf("expected every block freed by end of test, %d still live", len(live))
	}
	for i := 1; i < len(a.tree.nodes); i++ {
		if v := a.tree.nodes[i].val.Load(); v != 0 {
			t.Fatalf("node %d left at %#x after full churn, want 0", i, v)
		}
	}
}
