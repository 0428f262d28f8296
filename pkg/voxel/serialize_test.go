package voxel

import (
	"bytes"
	"os"
	"testing"
)

func TestSerializeRoundTripUnedited(t *testing.T) {
	const seed = 42
	c := New(Coord{X: 1, Z: -1})
	Generate(c, seed)

	var buf bytes.Buffer
	if err := Serialize(&buf, c, seed); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	got, err := Deserialize(&buf, c.Coord, seed)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	for i := range c.Blocks {
		if c.Blocks[i] != got.Blocks[i] {
			t.Fatalf("block %d mismatch after round trip: %v vs %v", i, c.Blocks[i], got.Blocks[i])
		}
	}
}

func TestSerializeStoresOnlyEditedBlocks(t *testing.T) {
	const seed = 7
	c := New(Coord{X: 0, Z: 0})
	Generate(c, seed)
	c.SetBlock(3, 100, 3, DiamondBlock)

	var buf bytes.Buffer
	if err := Serialize(&buf, c, seed); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	restored, err := Deserialize(bytes.NewReader(buf.Bytes()), c.Coord, seed)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if restored.GetBlock(3, 100, 3).ID != DiamondBlock {
		t.Fatalf("expected edited block to round trip as DiamondBlock, got %v", restored.GetBlock(3, 100, 3).ID)
	}
}

func TestChunkFilePathUsesPkgExtension(t *testing.T) {
	path := ChunkFilePath("world", Coord{X: 2, Z: -3})
	if path != "world/chunk_2_-3.pkg" {
		t.Fatalf("expected .pkg extension, got %q", path)
	}
}

func TestSaveToFileRemovesStaleFileWhenUnedited(t *testing.T) {
	const seed = 13
	dir := t.TempDir()
	coord := Coord{X: 0, Z: 0}
	c := New(coord)
	Generate(c, seed)

	path := ChunkFilePath(dir, coord)
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	if err := SaveToFile(dir, c, seed); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected unedited chunk's file to be removed, stat err = %v", err)
	}
}

func TestSaveToFileWritesEditedChunk(t *testing.T) {
	const seed = 14
	dir := t.TempDir()
	coord := Coord{X: 1, Z: 1}
	c := New(coord)
	Generate(c, seed)
	c.SetBlock(0, 150, 0, DiamondBlock)

	if err := SaveToFile(dir, c, seed); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	path := ChunkFilePath(dir, coord)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected edited chunk's file to exist: %v", err)
	}

	restored, err := LoadFromFile(dir, coord, seed)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if restored.GetBlock(0, 150, 0).ID != DiamondBlock {
		t.Fatalf("expected round-tripped edit, got %v", restored.GetBlock(0, 150, 0).ID)
	}
}

func TestDeserializeMissingDataFallsBackToGenerated(t *testing.T) {
	const seed = 99
	coord := Coord{X: 5, Z: 5}
	restored, err := Deserialize(bytes.NewReader(nil), coord, seed)
	if err != nil {
		t.Fatalf("deserialize of empty reader should not error: %v", err)
	}
	expected := New(coord)
	Generate(expected, seed)
	for i := range expected.Blocks {
		if restored.Blocks[i] != expected.Blocks[i] {
			t.Fatalf("expected fallback to match fresh generation at %d", i)
		}
	}
}
