package container

import "testing"

func TestFreeListAllocateRelease(t *testing.T) {
	fl := NewFreeList[int](4)
	if fl.FreeCount() != 4 {
		t.Fatalf("expected 4 free, got %d", fl.FreeCount())
	}
	idx, ptr := fl.Allocate()
	*ptr = 42
	if fl.FreeCount() != 3 {
		t.Fatalf("expected 3 free after allocate, got %d", fl.FreeCount())
	}
	if *fl.At(idx) != 42 {
		t.Fatalf("expected 42, got %d", *fl.At(idx))
	}
	fl.Release(idx)
	if fl.FreeCount() != 4 {
		t.Fatalf("expected 4 free after release, got %d", fl.FreeCount())
	}
}

func TestFreeListExhaustionPanics(t *testing.T) {
	fl := NewFreeList[int](1)
	fl.Allocate()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on exhausted free list")
		}
	}()
	fl.Allocate()
}

func TestHashTableInsertGetRemove(t *testing.T) {
	ht := NewHashTable[string](16)
	a := ChunkCoord{X: 1, Z: 2}
	b := ChunkCoord{X: -5, Z: 3}
	ht.Insert(a, "chunk-a")
	ht.Insert(b, "chunk-b")
	if ht.Count() != 2 {
		t.Fatalf("expected count 2, got %d", ht.Count())
	}
	if v, ok := ht.Get(a); !ok || v != "chunk-a" {
		t.Fatalf("expected chunk-a, got %q ok=%v", v, ok)
	}
	if !ht.Remove(a) {
		t.Fatal("expected remove to find a")
	}
	if _, ok := ht.Get(a); ok {
		t.Fatal("expected a to be gone after remove")
	}
	if v, ok := ht.Get(b); !ok || v != "chunk-b" {
		t.Fatalf("expected chunk-b still present, got %q ok=%v", v, ok)
	}
}

func TestHashTableProbesPastTombstone(t *testing.T) {
	ht := NewHashTable[int](1)
	// Force collisions onto the single slot by reusing it after removal.
	ht.Insert(ChunkCoord{X: 0, Z: 0}, 1)
	ht.Remove(ChunkCoord{X: 0, Z: 0})
	ht.Insert(ChunkCoord{X: 0, Z: 0}, 2)
	if v, ok := ht.Get(ChunkCoord{X: 0, Z: 0}); !ok || v != 2 {
		t.Fatalf("expected 2, got %d ok=%v", v, ok)
	}
}

func TestRingFIFOOrder(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 4; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d should succeed", i)
		}
	}
	if r.Push(99) {
		t.Fatal("push into full ring should fail")
	}
	for i := 0; i < 4; i++ {
		v, ok := r.Pop()
		if !ok || v != i {
			t.Fatalf("expected %d, got %d ok=%v", i, v, ok)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("pop from empty ring should fail")
	}
}

func TestRingRoundsCapacityToPowerOfTwo(t *testing.T) {
	r := NewRing[int](5)
	if r.Capacity() != 8 {
		t.Fatalf("expected capacity rounded to 8, got %d", r.Capacity())
	}
}
