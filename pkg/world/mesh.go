package world

import (
	"github.com/leterax/voxelcore/pkg/arena"
	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/gpu"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// scheduleMeshingLocked finds every sub-chunk pending remesh in a chunk
// that has at least reached LightCalculated and schedules a high-priority
// mesh job for it — high priority because an un-meshed sub-chunk is
// directly visible to the player, unlike routine load/save work.
func (w *World) scheduleMeshingLocked() {
	w.index.Each(func(key container.ChunkCoord, idx int32) {
		c := w.pool.At(idx)
		if c.State() < voxel.ChunkLightCalculated {
			return
		}
		coord := voxel.Coord{X: key.X, Z: key.Z}
		for i := range c.SubChunks {
			sc := &c.SubChunks[i]
			if !sc.CompareAndSwapState(voxel.TessellationPending, voxel.TessellationScheduled) {
				continue
			}
			w.scheduleMesh(coord, idx, i)
		}
	})
}

// scheduleMesh meshes one sub-chunk and, if a GPU slab is configured,
// uploads it into a freshly allocated bucket pair and flips the
// double-buffered bucket index so the renderer picks it up next frame.
func (w *World) scheduleMesh(coord voxel.Coord, idx int32, subIdx int) {
	w.jobs.ScheduleHighPriority(func(scratch *arena.Arena) {
		w.mu.Lock()
		c := w.pool.At(idx)
		if c.Coord != coord || c.State() >= voxel.ChunkFreed {
			w.mu.Unlock()
			return
		}
		sc := &c.SubChunks[subIdx]
		if sc.State() != voxel.TessellationScheduled {
			w.mu.Unlock()
			return // re-dirtied by an edit after this job was queued; next tick reschedules
		}

		var opaque, transparent []voxel.Vertex
		voxel.MeshSubChunk(c, subIdx, &opaque, &transparent)

		if w.cfg.Slab != nil {
			w.uploadSubChunkLocked(coord, c, sc, opaque, transparent)
		}

		// A second edit could have arrived while meshing ran; only settle
		// to Done if nothing re-dirtied it in the meantime.
		sc.CompareAndSwapState(voxel.TessellationScheduled, voxel.TessellationDone)
		w.mu.Unlock()
	})
}

// uploadSubChunkLocked writes opaque/transparent vertices into the slab's
// persistent-mapped buffers and flips the sub-chunk's active bucket
// index, freeing whichever buffer was previously inactive (not the one
// the renderer may still be reading this frame).
func (w *World) uploadSubChunkLocked(coord voxel.Coord, c *voxel.Chunk, sc *voxel.SubChunkRenderData, opaque, transparent []voxel.Vertex) {
	slab := w.cfg.Slab
	active := sc.ActiveBucket.Load()
	next := 1 - active

	if sc.InstanceID == -1 {
		sc.InstanceID = slab.AllocInstance()
	}
	if sc.InstanceID != gpu.NoInstance {
		slab.WriteInstance(sc.InstanceID, gpu.ChunkInstance{
			X: coord.X * voxel.ChunkWidth,
			Z: coord.Z * voxel.ChunkDepth,
			Y: int32(subIndexBaseY(c, sc)),
		})
	}

	oldOpaque := sc.OpaqueBuckets[next]
	oldTransparent := sc.TransparentBuckets[next]

	opaqueIDs, opaqueCounts := uploadBucketPair(slab, opaque)
	transparentIDs, transparentCounts := uploadBucketPair(slab, transparent)

	sc.OpaqueBuckets[next] = opaqueIDs
	sc.TransparentBuckets[next] = transparentIDs
	sc.OpaqueFaceCounts[next] = opaqueCounts
	sc.TransparentFaceCounts[next] = transparentCounts
	sc.ActiveBucket.Store(next)

	slab.FreeBucket(oldOpaque[0])
	slab.FreeBucket(oldOpaque[1])
	slab.FreeBucket(oldTransparent[0])
	slab.FreeBucket(oldTransparent[1])
}

// uploadBucketPair writes verts into one or two buckets, splitting at the
// slab's per-bucket vertex capacity: index 0 is the primary bucket, index
// 1 is the overflow bucket used only when verts alone exceeds one
// bucket's capacity. Unused slots stay gpu.NoBucket.
func uploadBucketPair(slab *gpu.Slab, verts []voxel.Vertex) (ids [2]gpu.BucketID, faceCounts [2]int32) {
	ids = [2]gpu.BucketID{gpu.NoBucket, gpu.NoBucket}
	if len(verts) == 0 {
		return ids, faceCounts
	}

	primary, overflow := verts, []voxel.Vertex(nil)
	if len(primary) > gpu.VerticesPerBucket {
		primary, overflow = verts[:gpu.VerticesPerBucket], verts[gpu.VerticesPerBucket:]
	}

	ids[0] = slab.AllocBucket()
	slab.WriteBucket(ids[0], primary)
	faceCounts[0] = int32(len(primary) / 4)

	if len(overflow) > 0 {
		ids[1] = slab.AllocBucket()
		slab.WriteBucket(ids[1], overflow)
		faceCounts[1] = int32(len(overflow) / 4)
	}
	return ids, faceCounts
}

func subIndexBaseY(c *voxel.Chunk, sc *voxel.SubChunkRenderData) int {
	for i := range c.SubChunks {
		if &c.SubChunks[i] == sc {
			return i * voxel.SubChunkHeight
		}
	}
	return 0
}
