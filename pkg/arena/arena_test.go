package arena

import "testing"

func TestAllocateAdvancesCursor(t *testing.T) {
	a := New(64)
	buf := a.Allocate(16)
	if len(buf) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(buf))
	}
	if a.Allocated() != 16 {
		t.Fatalf("expected 16 bytes allocated, got %d", a.Allocated())
	}
}

func TestAllocateZeroesMemory(t *testing.T) {
	a := New(16)
	buf := a.Allocate(8)
	for i := range buf {
		buf[i] = 0xFF
	}
	a.Reset()
	buf2 := a.Allocate(8)
	for i, b := range buf2 {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %x", i, b)
		}
	}
}

func TestAllocateOverflowPanics(t *testing.T) {
	a := New(8)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on overflow")
		}
	}()
	a.Allocate(9)
}

func TestTemporaryMarkRewinds(t *testing.T) {
	a := New(32)
	a.Allocate(8)
	mark := a.Begin()
	a.Allocate(16)
	if a.Allocated() != 24 {
		t.Fatalf("expected 24 allocated, got %d", a.Allocated())
	}
	mark.End()
	if a.Allocated() != 8 {
		t.Fatalf("expected rewind to 8, got %d", a.Allocated())
	}
}

func TestNestedMarksLIFO(t *testing.T) {
	a := New(64)
	m1 := a.Begin()
	a.Allocate(8)
	m2 := a.Begin()
	a.Allocate(8)
	m2.End()
	if a.Allocated() != 8 {
		t.Fatalf("expected 8 after inner end, got %d", a.Allocated())
	}
	m1.End()
	if a.Allocated() != 0 {
		t.Fatalf("expected 0 after outer end, got %d", a.Allocated())
	}
}
