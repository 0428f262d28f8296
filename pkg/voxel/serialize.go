package voxel

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// On-disk delta format: only blocks that differ from what Generate would
// produce from the chunk's coordinate and the world seed are stored. A
// chunk that was never edited serializes to a bare, all-zero header and
// an empty file is never written at all (SaveToFile removes the file
// instead).
//
// header (20 bytes, little-endian):
//
//	blockCount       uint32
//	frontEdgeCount   uint32
//	backEdgeCount    uint32
//	leftEdgeCount    uint32
//	rightEdgeCount   uint32
//
// followed by blockCount, then each edge count's worth of delta records:
//
//	index uint16
//	id    uint16
type deltaHeader struct {
	BlockCount     uint32
	FrontEdgeCount uint32
	BackEdgeCount  uint32
	LeftEdgeCount  uint32
	RightEdgeCount uint32
}

type deltaRecord struct {
	Index uint16
	ID    uint16
}

func diffBlocks(generated, current []Block) []deltaRecord {
	var out []deltaRecord
	for i := range current {
		if current[i].ID != generated[i].ID {
			out = append(out, deltaRecord{Index: uint16(i), ID: uint16(current[i].ID)})
		}
	}
	return out
}

// computeDelta diffs c against a fresh regeneration from seed and returns
// the header plus the five record groups in on-disk order.
func computeDelta(c *Chunk, seed int64) (deltaHeader, [][]deltaRecord) {
	scratch := New(c.Coord)
	Generate(scratch, seed)

	blocks := diffBlocks(scratch.Blocks, c.Blocks)
	front := diffBlocks(scratch.FrontBlocks, c.FrontBlocks)
	back := diffBlocks(scratch.BackBlocks, c.BackBlocks)
	left := diffBlocks(scratch.LeftBlocks, c.LeftBlocks)
	right := diffBlocks(scratch.RightBlocks, c.RightBlocks)

	hdr := deltaHeader{
		BlockCount:     uint32(len(blocks)),
		FrontEdgeCount: uint32(len(front)),
		BackEdgeCount:  uint32(len(back)),
		LeftEdgeCount:  uint32(len(left)),
		RightEdgeCount: uint32(len(right)),
	}
	return hdr, [][]deltaRecord{blocks, front, back, left, right}
}

func (h deltaHeader) empty() bool {
	return h.BlockCount == 0 && h.FrontEdgeCount == 0 && h.BackEdgeCount == 0 &&
		h.LeftEdgeCount == 0 && h.RightEdgeCount == 0
}

func writeDelta(w io.Writer, hdr deltaHeader, groups [][]deltaRecord) error {
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("voxel: serialize header: %w", err)
	}
	for _, group := range groups {
		for _, r := range group {
			if err := binary.Write(w, binary.LittleEndian, r); err != nil {
				return fmt.Errorf("voxel: serialize record: %w", err)
			}
		}
	}
	return nil
}

// Serialize writes chunk's delta against a fresh regeneration from seed to
// w. The chunk must be at least ChunkLoaded.
func Serialize(w io.Writer, c *Chunk, seed int64) error {
	if c.State() < ChunkLoaded {
		return fmt.Errorf("voxel: serialize: chunk %v not loaded", c.Coord)
	}
	hdr, groups := computeDelta(c, seed)
	return writeDelta(w, hdr, groups)
}

// Deserialize regenerates a chunk at coord from seed and then patches in
// the delta records read from r, returning the reconstructed chunk.
// An empty reader yields the freshly regenerated chunk. A truncated or
// malformed header or record returns an error together with the chunk as
// patched up to that point; pkg/world logs the error and regenerates the
// chunk, so a corrupt delta file is never fatal.
func Deserialize(r io.Reader, coord Coord, seed int64) (*Chunk, error) {
	c := New(coord)
	Generate(c, seed)

	var hdr deltaHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		if err == io.EOF {
			return c, nil
		}
		return c, fmt.Errorf("voxel: deserialize header: %w", err)
	}

	groups := []struct {
		count  uint32
		blocks []Block
	}{
		{hdr.BlockCount, c.Blocks},
		{hdr.FrontEdgeCount, c.FrontBlocks},
		{hdr.BackEdgeCount, c.BackBlocks},
		{hdr.LeftEdgeCount, c.LeftBlocks},
		{hdr.RightEdgeCount, c.RightBlocks},
	}
	for _, g := range groups {
		for i := uint32(0); i < g.count; i++ {
			var rec deltaRecord
			if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
				return c, fmt.Errorf("voxel: deserialize record: %w", err)
			}
			if int(rec.Index) < len(g.blocks) {
				g.blocks[rec.Index] = Block{ID: BlockID(rec.ID)}
			}
		}
	}
	return c, nil
}

// ChunkFilePath returns the on-disk path for a chunk at coord under
// worldDir, matching the external interface layout spec.md §6 describes
// (one file per chunk column, named by its coordinates).
func ChunkFilePath(worldDir string, coord Coord) string {
	return fmt.Sprintf("%s/chunk_%d_%d.pkg", worldDir, coord.X, coord.Z)
}

// SaveToFile serializes c to its on-disk path under worldDir. If the chunk
// has no delta to store (every count is zero — it's identical to what
// Generate would produce fresh), any existing file is removed instead of
// writing an empty-delta file, so file-absence alone means "matches
// regeneration" the way LoadFromFile already assumes.
func SaveToFile(worldDir string, c *Chunk, seed int64) error {
	path := ChunkFilePath(worldDir, c.Coord)
	if c.State() < ChunkLoaded {
		return fmt.Errorf("voxel: serialize: chunk %v not loaded", c.Coord)
	}
	hdr, groups := computeDelta(c, seed)
	if hdr.empty() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("voxel: remove %s: %w", path, err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("voxel: create %s: %w", path, err)
	}
	defer f.Close()
	return writeDelta(f, hdr, groups)
}

// LoadFromFile loads a chunk at coord from worldDir if a delta file
// exists, otherwise generates it fresh.
func LoadFromFile(worldDir string, coord Coord, seed int64) (*Chunk, error) {
	path := ChunkFilePath(worldDir, coord)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		c := New(coord)
		Generate(c, seed)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("voxel: open %s: %w", path, err)
	}
	defer f.Close()
	return Deserialize(f, coord, seed)
}
