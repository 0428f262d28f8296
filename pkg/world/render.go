package world

import (
	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/gpu"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// SubChunkDraw is one drawable unit handed to the renderer: a sub-chunk's
// instance id plus one of its currently active generation's bucket/
// face-count pairs (primary or overflow). A dense sub-chunk yields two
// SubChunkDraws per kind; BucketID is gpu.NoBucket when that pass has
// nothing to draw (e.g. a sub-chunk with no transparent faces).
type SubChunkDraw struct {
	InstanceID gpu.InstanceID
	BucketID   gpu.BucketID
	FaceCount  int32
}

// AABBTest reports whether the box [min,max] (world-space) should be
// drawn. pkg/render supplies a frustum test; pkg/world never needs to
// know what a frustum is.
type AABBTest func(minX, minY, minZ, maxX, maxY, maxZ float32) bool

// CollectDrawBatches walks every resident, meshed sub-chunk and splits it
// into an opaque and a transparent batch list, skipping any sub-chunk
// whose world-space AABB the caller's test rejects and any bucket with no
// faces to draw. It mirrors the original engine's per-frame "gather
// visible chunks" step except it operates at sub-chunk granularity, since
// that's the meshing/upload unit this engine uses.
func (w *World) CollectDrawBatches(test AABBTest) (opaque, transparent []SubChunkDraw) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.index.Each(func(key container.ChunkCoord, idx int32) {
		c := w.pool.At(idx)
		if c.State() < voxel.ChunkLightCalculated {
			return
		}
		baseX := float32(key.X * voxel.ChunkWidth)
		baseZ := float32(key.Z * voxel.ChunkDepth)

		for i := range c.SubChunks {
			sc := &c.SubChunks[i]
			if sc.InstanceID == gpu.NoInstance {
				continue
			}
			minY := float32(i * voxel.SubChunkHeight)
			maxY := minY + float32(voxel.SubChunkHeight)
			if test != nil && !test(baseX, minY, baseZ, baseX+voxel.ChunkWidth, maxY, baseZ+voxel.ChunkDepth) {
				continue
			}

			active := sc.ActiveBucket.Load()
			for slot := 0; slot < 2; slot++ {
				if sc.OpaqueBuckets[active][slot] != gpu.NoBucket && sc.OpaqueFaceCounts[active][slot] > 0 {
					opaque = append(opaque, SubChunkDraw{
						InstanceID: sc.InstanceID,
						BucketID:   sc.OpaqueBuckets[active][slot],
						FaceCount:  sc.OpaqueFaceCounts[active][slot],
					})
				}
				if sc.TransparentBuckets[active][slot] != gpu.NoBucket && sc.TransparentFaceCounts[active][slot] > 0 {
					transparent = append(transparent, SubChunkDraw{
						InstanceID: sc.InstanceID,
						BucketID:   sc.TransparentBuckets[active][slot],
						FaceCount:  sc.TransparentFaceCounts[active][slot],
					})
				}
			}
		}
	})

	var faces int
	for _, b := range opaque {
		faces += int(b.FaceCount)
	}
	for _, b := range transparent {
		faces += int(b.FaceCount)
	}
	w.stats.FacesDrawn = faces

	return opaque, transparent
}
