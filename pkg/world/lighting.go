package world

import (
	"github.com/leterax/voxelcore/pkg/arena"
	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// scheduleLightingLocked advances every resident chunk through the two
// light stages: a NeighboursLoaded chunk gets a propagation job, and a
// LightPropagated chunk gets a calculation job. Both transitions are
// claimed with a CAS on the chunk's own state so a chunk is never queued
// twice across successive ticks.
func (w *World) scheduleLightingLocked() {
	w.index.Each(func(key container.ChunkCoord, idx int32) {
		c := w.pool.At(idx)
		coord := voxel.Coord{X: key.X, Z: key.Z}
		switch c.State() {
		case voxel.ChunkNeighboursLoaded:
			if c.CompareAndSwapState(voxel.ChunkNeighboursLoaded, voxel.ChunkPendingLightPropagation) {
				w.schedulePropagation(coord, idx)
			}
		case voxel.ChunkLightPropagated:
			if c.CompareAndSwapState(voxel.ChunkLightPropagated, voxel.ChunkPendingLightCalculation) {
				w.scheduleCalculation(coord, idx)
			}
		}
	})
}

// schedulePropagation runs lighting stage 1 for one chunk on the dedicated
// light thread, then queues every light-emitting block it found onto the
// flood-fill queue so emissive light starts spreading immediately.
func (w *World) schedulePropagation(coord voxel.Coord, idx int32) {
	w.jobs.Light().SchedulePropagation(func(scratch *arena.Arena) {
		w.mu.Lock()
		c := w.pool.At(idx)
		if c.Coord != coord || c.State() != voxel.ChunkPendingLightPropagation {
			w.mu.Unlock()
			return // chunk was freed/reused since this job was queued
		}
		sources := voxel.PropagateSkyLight(c)
		w.mu.Unlock()

		for _, pos := range sources {
			w.scheduleFlood(coord, pos)
		}
	})
}

// scheduleCalculation runs lighting stage 2 for one chunk, then queues the
// resulting sky-light frontier onto the flood-fill queue.
func (w *World) scheduleCalculation(coord voxel.Coord, idx int32) {
	w.jobs.Light().ScheduleCalculation(func(scratch *arena.Arena) {
		w.mu.Lock()
		c := w.pool.At(idx)
		if c.Coord != coord || c.State() != voxel.ChunkPendingLightCalculation {
			w.mu.Unlock()
			return
		}
		frontier := voxel.CalculateLighting(c)
		w.mu.Unlock()

		for _, pos := range frontier {
			w.scheduleFlood(coord, pos)
		}
	})
}

// scheduleFlood queues one BFS relaxation step at (coord, pos). The step
// itself re-queues same-chunk neighbours it changed and, when pos sits on
// a chunk edge, relaxes across into the resident neighbour chunk directly
// — the one piece of cross-chunk light work voxel.FloodFillStep leaves to
// its caller, since only pkg/world holds the chunk pool needed to reach an
// actual neighbouring Chunk.
func (w *World) scheduleFlood(coord voxel.Coord, pos voxel.BlockPos) {
	w.jobs.Light().ScheduleFlood(func(scratch *arena.Arena) {
		w.mu.Lock()
		defer w.mu.Unlock()

		c, ok := w.chunkAt(coord)
		if !ok || c.State() >= voxel.ChunkFreed {
			return // NeighbourMissing: chunk no longer resident, drop silently
		}

		changed := voxel.FloodFillStep(c, pos)
		for _, cp := range changed {
			w.markMeshDirtyForY(c, cp.Y)
		}
		w.crossBoundaryFloodLocked(coord, c, pos)

		for _, cp := range changed {
			w.scheduleFlood(coord, cp)
		}
	})
}

// crossBoundaryFloodLocked relaxes light from (coord, pos) into whichever
// resident neighbour chunk lies across the edge pos sits on, mirroring the
// +2<= decay rule voxel.FloodFillStep applies within a single chunk.
func (w *World) crossBoundaryFloodLocked(coord voxel.Coord, c *voxel.Chunk, pos voxel.BlockPos) {
	self := c.GetLight(pos.X, pos.Y, pos.Z)
	selfSky, selfSrc := self.SkyLight(), self.SourceLight()

	type edge struct {
		neighbour  voxel.ChunkNeighbour
		lx, ly, lz int
	}
	var edges []edge
	if pos.X == 0 {
		edges = append(edges, edge{voxel.NeighbourLeft, voxel.ChunkWidth - 1, pos.Y, pos.Z})
	}
	if pos.X == voxel.ChunkWidth-1 {
		edges = append(edges, edge{voxel.NeighbourRight, 0, pos.Y, pos.Z})
	}
	if pos.Z == 0 {
		edges = append(edges, edge{voxel.NeighbourBack, pos.X, pos.Y, voxel.ChunkDepth - 1})
	}
	if pos.Z == voxel.ChunkDepth-1 {
		edges = append(edges, edge{voxel.NeighbourFront, pos.X, pos.Y, 0})
	}

	for _, e := range edges {
		nCoord := coord.Neighbour(e.neighbour)
		nc, ok := w.chunkAt(nCoord)
		if !ok {
			continue // NeighbourMissing: non-error, state machine will retry once resident
		}
		block := nc.GetBlock(e.lx, e.ly, e.lz)
		if !voxel.IsTransparent(block.ID) {
			continue
		}
		nl := nc.GetLight(e.lx, e.ly, e.lz)
		updated := false
		if nl.SkyLight()+2 <= selfSky {
			nl.SetSkyLight(selfSky - 1)
			updated = true
		}
		if nl.SourceLight()+2 <= selfSrc {
			nl.SetSourceLight(selfSrc - 1)
			updated = true
		}
		if !updated {
			continue
		}
		nc.SetLight(e.lx, e.ly, e.lz, nl)
		w.markMeshDirtyForY(nc, e.ly)
		w.scheduleFlood(nCoord, voxel.BlockPos{X: e.lx, Y: e.ly, Z: e.lz})
	}
}

// markMeshDirtyForY flags the sub-chunk containing local y (and its
// vertical neighbours, since a light change at a sub-chunk boundary can
// alter AO/light averaging in the sub-chunk on the other side) for remesh.
func (w *World) markMeshDirtyForY(c *voxel.Chunk, y int) {
	idx := voxel.SubChunkIndexForY(y)
	c.SubChunks[idx].SetState(voxel.TessellationPending)
	if y%voxel.SubChunkHeight == 0 && idx > 0 {
		c.SubChunks[idx-1].SetState(voxel.TessellationPending)
	}
	if y%voxel.SubChunkHeight == voxel.SubChunkHeight-1 && idx < voxel.SubChunkCount-1 {
		c.SubChunks[idx+1].SetState(voxel.TessellationPending)
	}
}
