package world

import (
	"log"

	"github.com/leterax/voxelcore/pkg/arena"
	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// spiralOffsets returns (dx, dz) offsets for every column within radius of
// the origin, nearest ring first, so chunks directly around the player
// load before distant ones. Grounded on the ring-by-ring outward spiral
// used for streaming chunks around a moving player.
func spiralOffsets(radius int32) [][2]int32 {
	var out [][2]int32
	out = append(out, [2]int32{0, 0})
	for r := int32(1); r <= radius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if dx == 0 && dz == 0 {
					continue
				}
				// Only the current ring's boundary, not its interior
				// (already emitted by smaller r).
				if dx != -r && dx != r && dz != -r && dz != r {
					continue
				}
				out = append(out, [2]int32{dx, dz})
			}
		}
	}
	return out
}

// Tick advances the world by one frame: it recomputes the active region
// around playerWorldX/Z, schedules generation/lighting/meshing/eviction
// jobs, and returns once scheduling is done (the jobs themselves finish
// asynchronously on the job system's workers).
func (w *World) Tick(playerWorldX, playerWorldZ float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	playerChunk := voxel.WorldToChunkCoord(int32(playerWorldX), int32(playerWorldZ))
	w.playerChunk = playerChunk
	w.bounds = boundsForRadius(playerChunk, int32(w.cfg.Radius))

	w.loadMissingChunksLocked()
	w.linkNeighboursLocked()
	w.scheduleLightingLocked()
	w.scheduleMeshingLocked()
	w.evictOutOfRangeLocked()
}

// loadMissingChunksLocked schedules a generation/deserialization job for
// every column in range that isn't resident yet, nearest-first.
func (w *World) loadMissingChunksLocked() {
	for _, off := range spiralOffsets(int32(w.cfg.Radius)) {
		coord := w.playerChunk.Add(off[0], off[1])
		if _, ok := w.chunkAt(coord); ok {
			continue
		}
		if w.index.Count() >= w.pool.Capacity() {
			w.logf("chunk pool exhausted, deferring load of %v", coord)
			return
		}
		w.scheduleLoad(coord)
	}
}

func (w *World) scheduleLoad(coord voxel.Coord) {
	idx, slot := w.pool.Allocate()
	*slot = *voxel.New(coord)
	slot.PoolIndex = idx
	w.index.Insert(toHashKey(coord), idx)

	seed := w.cfg.Seed
	worldDir := w.cfg.WorldDir
	w.jobs.Schedule(func(scratch *arena.Arena) {
		loaded, err := voxel.LoadFromFile(worldDir, coord, seed)
		if err != nil {
			log.Printf("world: load %v: %v", coord, err)
			loaded = voxel.New(coord)
			voxel.Generate(loaded, seed)
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if cur, ok := w.chunkAt(coord); ok && cur.PoolIndex == idx {
			loaded.PoolIndex = idx
			*cur = *loaded
		}
	})
}

// linkNeighboursLocked wires up pool-index neighbour pointers between
// resident chunks whose neighbour has also finished loading, and advances
// their state once all neighbours they need for lighting are present.
func (w *World) linkNeighboursLocked() {
	w.index.Each(func(coord container.ChunkCoord, idx int32) {
		c := w.pool.At(idx)
		if c.State() < voxel.ChunkLoaded {
			return
		}
		self := voxel.Coord{X: coord.X, Z: coord.Z}
		allEdgesLinked := true
		for n := voxel.ChunkNeighbour(0); n < voxel.NeighbourCount; n++ {
			nCoord := self.Neighbour(n)
			if nIdx, ok := w.index.Get(toHashKey(nCoord)); ok {
				c.SetNeighbour(n, nIdx)
			} else if n == voxel.NeighbourFront || n == voxel.NeighbourBack ||
				n == voxel.NeighbourLeft || n == voxel.NeighbourRight {
				allEdgesLinked = false
			}
		}
		if allEdgesLinked && c.State() == voxel.ChunkLoaded {
			c.SetState(voxel.ChunkNeighboursLoaded)
		}
	})
}
