// Package gpu implements the GPU-side slab allocator: a fixed pool of
// fixed-size vertex "buckets" and instance slots, both backed by
// persistent-mapped coherent OpenGL buffers so the mesher can write
// straight into GPU-visible memory with no intermediate copy or driver
// validation per upload.
package gpu

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/leterax/voxelcore/internal/openglhelper"
	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// BucketFaces is the fixed face count of one vertex bucket: 1024 faces,
// 4 vertices per face, 8 bytes per packed vertex — 32 KiB per bucket.
const (
	BucketFaces       = 1024
	VerticesPerBucket = BucketFaces * 4
	vertexSizeBytes   = 8 // two uint32 words
	BucketSizeBytes   = VerticesPerBucket * vertexSizeBytes
)

// BucketID and InstanceID are opaque handles into the slab's two
// free-lists. -1 denotes "unallocated".
type BucketID = int32
type InstanceID = int32

const NoBucket BucketID = -1
const NoInstance InstanceID = -1

// ChunkInstance is the per-sub-chunk instance record uploaded to the
// instance SSBO: the world-space column offset (X, Z) the vertex shader
// adds to every packed vertex's chunk-local x and z.
type ChunkInstance struct {
	X, Z int32
	Y    int32 // sub-chunk base Y (subChunkIndex * SubChunkHeight); not added by chunk.vert, since block_y is already chunk-local
	_pad int32
}

const instanceSizeBytes = int(unsafe.Sizeof(ChunkInstance{}))

// Slab owns the two fixed-capacity GPU-backed pools: vertex buckets and
// instance slots. Both free-lists only ever hand out ids; actual bytes
// live in the persistent-mapped buffers below.
type Slab struct {
	bucketFree   *container.FreeList[struct{}]
	instanceFree *container.FreeList[struct{}]

	VertexBuffer   *openglhelper.BufferObject // persistent, BucketCapacity * BucketSizeBytes
	InstanceBuffer *openglhelper.BufferObject // persistent, InstanceCapacity * instanceSizeBytes

	bucketCapacity   int
	instanceCapacity int
}

// New allocates a slab sized for bucketCapacity buckets and
// instanceCapacity instance slots. Capacities are chosen by the caller;
// cmd/voxels derives them from world.ChunkCapacity(radius): one instance
// slot per sub-chunk, and eight buckets per sub-chunk (opaque and
// transparent, two generations, primary plus overflow).
func New(bucketCapacity, instanceCapacity int) (*Slab, error) {
	vertexBuf, err := openglhelper.NewPersistentBuffer(gl.ARRAY_BUFFER, bucketCapacity*BucketSizeBytes, false, true)
	if err != nil {
		return nil, fmt.Errorf("gpu: allocate vertex slab: %w", err)
	}
	instanceBuf, err := openglhelper.NewPersistentBuffer(gl.SHADER_STORAGE_BUFFER, instanceCapacity*instanceSizeBytes, false, true)
	if err != nil {
		vertexBuf.Delete()
		return nil, fmt.Errorf("gpu: allocate instance slab: %w", err)
	}

	return &Slab{
		bucketFree:       container.NewFreeList[struct{}](bucketCapacity),
		instanceFree:     container.NewFreeList[struct{}](instanceCapacity),
		VertexBuffer:     vertexBuf,
		InstanceBuffer:   instanceBuf,
		bucketCapacity:   bucketCapacity,
		instanceCapacity: instanceCapacity,
	}, nil
}

// AllocBucket reserves one vertex bucket. Capacity is sized from the
// world's active-region radius specifically so this never runs dry in
// practice; exhaustion means the sizing math or the caller's bookkeeping
// is wrong, so it panics the same way container.FreeList.Allocate does
// rather than letting a sub-chunk silently render with no faces.
func (s *Slab) AllocBucket() (id BucketID) {
	idx, _ := s.bucketFree.Allocate()
	return idx
}

func (s *Slab) FreeBucket(id BucketID) {
	if id == NoBucket {
		return
	}
	s.bucketFree.Release(id)
}

// AllocInstance reserves one instance slot. See AllocBucket: exhaustion
// is a programming-contract violation, not a recoverable condition.
func (s *Slab) AllocInstance() (id InstanceID) {
	idx, _ := s.instanceFree.Allocate()
	return idx
}

func (s *Slab) FreeInstance(id InstanceID) {
	if id == NoInstance {
		return
	}
	s.instanceFree.Release(id)
}

// WriteBucket copies verts (must be <= VerticesPerBucket) into bucket id's
// region of the persistent-mapped vertex buffer. Because the buffer is
// coherent, no flush or fence is required before the GPU can see the
// write — only a fence after issuing draws referencing this bucket, to
// know when it's safe to reuse the slot.
func (s *Slab) WriteBucket(id BucketID, verts []voxel.Vertex) {
	if len(verts) > VerticesPerBucket {
		panic(fmt.Sprintf("gpu: bucket overflow: %d vertices > capacity %d", len(verts), VerticesPerBucket))
	}
	if len(verts) == 0 {
		return
	}
	dstOffset := uintptr(id) * uintptr(BucketSizeBytes)
	dst := unsafe.Pointer(uintptr(s.VertexBuffer.MappedPtr) + dstOffset)
	src := unsafe.Pointer(&verts[0])
	copy(unsafe.Slice((*voxel.Vertex)(dst), len(verts)), unsafe.Slice((*voxel.Vertex)(src), len(verts)))
}

// WriteInstance writes one instance record into the instance SSBO.
func (s *Slab) WriteInstance(id InstanceID, inst ChunkInstance) {
	dstOffset := uintptr(id) * uintptr(instanceSizeBytes)
	dst := (*ChunkInstance)(unsafe.Pointer(uintptr(s.InstanceBuffer.MappedPtr) + dstOffset))
	*dst = inst
}

// Stats reports live free-list occupancy for world_stats().
type Stats struct {
	BucketCapacity, BucketsFree     int
	InstanceCapacity, InstancesFree int
}

func (s *Slab) Stats() Stats {
	return Stats{
		BucketCapacity:   s.bucketCapacity,
		BucketsFree:      s.bucketFree.FreeCount(),
		InstanceCapacity: s.instanceCapacity,
		InstancesFree:    s.instanceFree.FreeCount(),
	}
}

// Cleanup releases the underlying GPU buffers.
func (s *Slab) Cleanup() {
	s.VertexBuffer.Delete()
	s.InstanceBuffer.Delete()
}
