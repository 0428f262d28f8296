package world

import (
	"fmt"

	"github.com/leterax/voxelcore/pkg/voxel"
)

// SetBlock implements world_set_block(): it writes the block at an
// absolute world position, mirrors the change into a neighbour chunk's
// skirt if the edit lands on a chunk edge, flags the chunk dirty for
// save, and schedules a remesh of every sub-chunk the edit could affect.
func (w *World) SetBlock(worldX, worldY, worldZ int32, id voxel.BlockID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	coord := voxel.WorldToChunkCoord(worldX, worldZ)
	c, ok := w.chunkAt(coord)
	if !ok {
		return fmt.Errorf("world: set block: chunk %v not resident", coord)
	}

	lx, ly, lz := voxel.WorldToLocalCoord(worldX, worldY, worldZ)
	x, y, z := int(lx), int(ly), int(lz)

	c.SetBlock(x, y, z, id)
	c.Dirty = true
	w.markMeshDirtyForY(c, y)

	block := voxel.Block{ID: id}
	if x == 0 {
		w.mirrorSkirtLocked(coord, voxel.NeighbourLeft, y, func(n *voxel.Chunk) {
			n.RightBlocks[voxel.EdgeSkirtIndex(z, y)] = block
		})
	}
	if x == voxel.ChunkWidth-1 {
		w.mirrorSkirtLocked(coord, voxel.NeighbourRight, y, func(n *voxel.Chunk) {
			n.LeftBlocks[voxel.EdgeSkirtIndex(z, y)] = block
		})
	}
	if z == 0 {
		w.mirrorSkirtLocked(coord, voxel.NeighbourBack, y, func(n *voxel.Chunk) {
			n.FrontBlocks[voxel.EdgeSkirtIndex(x, y)] = block
		})
	}
	if z == voxel.ChunkDepth-1 {
		w.mirrorSkirtLocked(coord, voxel.NeighbourFront, y, func(n *voxel.Chunk) {
			n.BackBlocks[voxel.EdgeSkirtIndex(x, y)] = block
		})
	}
	return nil
}

// mirrorSkirtLocked writes the edit into the named neighbour's skirt and
// marks its bordering sub-chunk dirty, if that neighbour is resident. A
// non-resident neighbour will regenerate its own skirt from scratch when
// it loads — matching §7's NeighbourMissing policy, this is a non-error,
// not a condition the edit path waits on.
func (w *World) mirrorSkirtLocked(coord voxel.Coord, dir voxel.ChunkNeighbour, y int, write func(*voxel.Chunk)) {
	n, ok := w.chunkAt(coord.Neighbour(dir))
	if !ok {
		return
	}
	write(n)
	w.markMeshDirtyForY(n, y)
}
