package world

import (
	"log"

	"github.com/leterax/voxelcore/pkg/arena"
	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// evictOutOfRangeLocked implements the pending-free band: chunks beyond
// Radius but within Radius+PendingFreeChunkRadius are saved if dirty and
// otherwise left alone; chunks beyond that outer band are freed back to
// the pool once any in-flight save has settled.
func (w *World) evictOutOfRangeLocked() {
	outer := int32(w.cfg.Radius) + PendingFreeChunkRadius
	var toFree []voxel.Coord

	w.index.Each(func(key container.ChunkCoord, idx int32) {
		coord := voxel.Coord{X: key.X, Z: key.Z}
		c := w.pool.At(idx)
		dist := chebyshevDistance(coord, w.playerChunk)

		switch {
		case dist <= int32(w.cfg.Radius):
			delete(w.pendingFree, coord)
		case dist <= outer:
			w.pendingFree[coord] = idx
			w.maybeScheduleSaveLocked(coord, idx, c)
		default:
			delete(w.pendingFree, coord)
			if w.readyToFreeLocked(c) {
				toFree = append(toFree, coord)
			} else {
				w.maybeScheduleSaveLocked(coord, idx, c)
			}
		}
	})

	for _, coord := range toFree {
		w.freeChunkLocked(coord)
	}
}

func chebyshevDistance(a, b voxel.Coord) int32 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// maybeScheduleSaveLocked schedules a save job for a dirty, fully-settled
// chunk (lighting done, no mesh job pending or in flight), including one
// edited again after an earlier save, claiming the transition with a CAS
// so repeated ticks don't queue it twice.
func (w *World) maybeScheduleSaveLocked(coord voxel.Coord, idx int32, c *voxel.Chunk) {
	state := c.State()
	if !c.Dirty || (state != voxel.ChunkLightCalculated && state != voxel.ChunkSaved) {
		return
	}
	if !w.subChunksSettledLocked(c) {
		return
	}
	if !c.CompareAndSwapState(state, voxel.ChunkPendingSave) {
		return
	}
	w.scheduleSave(coord, idx)
}

func (w *World) subChunksSettledLocked(c *voxel.Chunk) bool {
	for i := range c.SubChunks {
		switch c.SubChunks[i].State() {
		case voxel.TessellationPending, voxel.TessellationScheduled:
			return false
		}
	}
	return true
}

func (w *World) scheduleSave(coord voxel.Coord, idx int32) {
	seed := w.cfg.Seed
	worldDir := w.cfg.WorldDir
	w.jobs.Schedule(func(scratch *arena.Arena) {
		w.mu.Lock()
		c := w.pool.At(idx)
		if c.Coord != coord || c.State() != voxel.ChunkPendingSave {
			w.mu.Unlock()
			return
		}
		err := voxel.SaveToFile(worldDir, c, seed)
		if err != nil {
			log.Printf("world: save %v: %v", coord, err)
			c.SetState(voxel.ChunkLightCalculated) // retry once re-flagged dirty
			w.mu.Unlock()
			return
		}
		c.Dirty = false
		c.SetState(voxel.ChunkSaved)
		w.mu.Unlock()
	})
}

// readyToFreeLocked reports whether a chunk outside the pending-free band
// can be torn down immediately: it must have no unsaved edits and must
// not have a save job currently in flight.
func (w *World) readyToFreeLocked(c *voxel.Chunk) bool {
	if c.Dirty {
		return false
	}
	return c.State() != voxel.ChunkPendingSave
}

// freeChunkLocked tears down one resident chunk: releases its GPU
// buckets/instance slot, clears neighbours' pointers back to it, and
// returns its pool slot to the free list.
func (w *World) freeChunkLocked(coord voxel.Coord) {
	key := toHashKey(coord)
	idx, ok := w.index.Get(key)
	if !ok {
		return
	}
	c := w.pool.At(idx)
	c.SetState(voxel.ChunkFreed)

	if w.cfg.Slab != nil {
		for i := range c.SubChunks {
			sc := &c.SubChunks[i]
			for _, gen := range sc.OpaqueBuckets {
				for _, b := range gen {
					w.cfg.Slab.FreeBucket(b)
				}
			}
			for _, gen := range sc.TransparentBuckets {
				for _, b := range gen {
					w.cfg.Slab.FreeBucket(b)
				}
			}
			if sc.InstanceID != -1 {
				w.cfg.Slab.FreeInstance(sc.InstanceID)
			}
		}
	}

	for n := voxel.ChunkNeighbour(0); n < voxel.NeighbourCount; n++ {
		if nIdx, ok2 := w.index.Get(toHashKey(coord.Neighbour(n))); ok2 {
			w.pool.At(nIdx).ClearNeighbour(oppositeNeighbour(n))
		}
	}

	w.index.Remove(key)
	w.pool.Release(idx)
	delete(w.pendingFree, coord)
}

func oppositeNeighbour(n voxel.ChunkNeighbour) voxel.ChunkNeighbour {
	switch n {
	case voxel.NeighbourFront:
		return voxel.NeighbourBack
	case voxel.NeighbourBack:
		return voxel.NeighbourFront
	case voxel.NeighbourLeft:
		return voxel.NeighbourRight
	case voxel.NeighbourRight:
		return voxel.NeighbourLeft
	case voxel.NeighbourFrontRight:
		return voxel.NeighbourBackLeft
	case voxel.NeighbourFrontLeft:
		return voxel.NeighbourBackRight
	case voxel.NeighbourBackRight:
		return voxel.NeighbourFrontLeft
	case voxel.NeighbourBackLeft:
		return voxel.NeighbourFrontRight
	default:
		return n
	}
}
