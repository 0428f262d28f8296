package voxel

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// noNeighbour marks an empty neighbour/pool-index slot.
const noNeighbour = -1

// SubChunkRenderData is the per-sub-chunk tessellation bookkeeping a chunk
// carries: whether its mesh is current, and the GPU bucket/instance ids
// its faces live in. Bucket/instance ids are opaque handles into the
// gpu package's slab allocator; this package never dereferences them.
type SubChunkRenderData struct {
	state atomic.Int32 // TessellationState

	// Double-buffered bucket ids: index 0/1 alternate so the renderer can
	// keep drawing last frame's bucket while a remesh writes into the
	// other one. Within a generation slot, a sub-chunk gets up to two
	// buckets per kind ([bucket 0]=primary, [bucket 1]=overflow) so a
	// dense sub-chunk whose face count exceeds one bucket's capacity
	// still uploads in full instead of truncating. Face counts are
	// double-buffered and per-bucket alongside the ids they describe,
	// since the renderer reads ActiveBucket and the matching face counts
	// together.
	OpaqueBuckets         [2][2]int32
	TransparentBuckets    [2][2]int32
	OpaqueFaceCounts      [2][2]int32
	TransparentFaceCounts [2][2]int32
	ActiveBucket          atomic.Int32 // which of the two generations is current (0 or 1)

	InstanceID int32
}

func newSubChunkRenderData() SubChunkRenderData {
	d := SubChunkRenderData{
		OpaqueBuckets:      [2][2]int32{{noNeighbour, noNeighbour}, {noNeighbour, noNeighbour}},
		TransparentBuckets: [2][2]int32{{noNeighbour, noNeighbour}, {noNeighbour, noNeighbour}},
		InstanceID:         noNeighbour,
	}
	return d
}

func (d *SubChunkRenderData) State() TessellationState {
	return TessellationState(d.state.Load())
}

func (d *SubChunkRenderData) SetState(s TessellationState) {
	d.state.Store(int32(s))
}

func (d *SubChunkRenderData) CompareAndSwapState(old, new TessellationState) bool {
	return d.state.CompareAndSwap(int32(old), int32(new))
}

// Chunk is one 16x256x16 column of the world plus the four one-block-deep
// edge "skirts" that hold a copy of each horizontal neighbour's facing
// edge column, letting a chunk be meshed correctly before its neighbour is
// resident.
type Chunk struct {
	Coord Coord

	Blocks []Block      // blocksPerChunk, see BlockIndex
	Light  []BlockLight // parallel to Blocks

	// Skirts: one block-deep strips copied from the facing neighbour,
	// indexed by EdgeSkirtIndex(alongEdge, y). FrontBlocks/BackBlocks run
	// along X (width ChunkWidth); LeftBlocks/RightBlocks run along Z
	// (depth ChunkDepth).
	FrontBlocks, BackBlocks, LeftBlocks, RightBlocks []Block
	FrontLight, BackLight, LeftLight, RightLight     []BlockLight

	// neighbours holds chunk-pool indices (see pkg/world), noNeighbour
	// when that neighbour isn't resident.
	neighbours [NeighbourCount]int32

	state atomic.Int32 // ChunkState

	SubChunks [SubChunkCount]SubChunkRenderData

	// PoolIndex is this chunk's own slot in the world's chunk pool, used
	// so neighbours can be linked by index rather than pointer.
	PoolIndex int32

	// Dirty marks a chunk with edits not yet reflected in its on-disk
	// delta file. Set by the world region manager's edit path, cleared
	// once a save completes. All access is serialized by the world's own
	// mutex, so this is a plain bool rather than an atomic.
	Dirty bool
}

// New allocates and zero-initializes a chunk at the given column
// coordinate. Blocks start as Air; callers run a generator or deserializer
// afterwards to populate it.
func New(coord Coord) *Chunk {
	c := &Chunk{
		Coord:       coord,
		Blocks:      make([]Block, blocksPerChunk),
		Light:       make([]BlockLight, blocksPerChunk),
		FrontBlocks: make([]Block, ChunkWidth*ChunkHeight),
		BackBlocks:  make([]Block, ChunkWidth*ChunkHeight),
		LeftBlocks:  make([]Block, ChunkDepth*ChunkHeight),
		RightBlocks: make([]Block, ChunkDepth*ChunkHeight),
		FrontLight:  make([]BlockLight, ChunkWidth*ChunkHeight),
		BackLight:   make([]BlockLight, ChunkWidth*ChunkHeight),
		LeftLight:   make([]BlockLight, ChunkDepth*ChunkHeight),
		RightLight:  make([]BlockLight, ChunkDepth*ChunkHeight),
		PoolIndex:   noNeighbour,
	}
	for i := range c.neighbours {
		c.neighbours[i] = noNeighbour
	}
	for i := range c.SubChunks {
		c.SubChunks[i] = newSubChunkRenderData()
	}
	return c
}

func (c *Chunk) State() ChunkState       { return ChunkState(c.state.Load()) }
func (c *Chunk) SetState(s ChunkState)   { c.state.Store(int32(s)) }
func (c *Chunk) CompareAndSwapState(old, new ChunkState) bool {
	return c.state.CompareAndSwap(int32(old), int32(new))
}

// Neighbour returns the chunk-pool index of the neighbour in direction n,
// or (-1, false) if that neighbour isn't linked.
func (c *Chunk) Neighbour(n ChunkNeighbour) (int32, bool) {
	idx := c.neighbours[n]
	return idx, idx != noNeighbour
}

func (c *Chunk) SetNeighbour(n ChunkNeighbour, poolIndex int32) {
	c.neighbours[n] = poolIndex
}

func (c *Chunk) ClearNeighbour(n ChunkNeighbour) {
	c.neighbours[n] = noNeighbour
}

// GetBlock returns the block at local coordinates, or Air if out of
// bounds.
func (c *Chunk) GetBlock(x, y, z int) Block {
	if !InBounds(x, y, z) {
		return Block{ID: Air}
	}
	return c.Blocks[BlockIndex(x, y, z)]
}

// SetBlock writes the block at local coordinates and marks the sub-chunk
// containing y pending remesh. Vertically adjacent sub-chunks and
// neighbouring chunks are not marked here.
func (c *Chunk) SetBlock(x, y, z int, id BlockID) {
	if !InBounds(x, y, z) {
		return
	}
	c.Blocks[BlockIndex(x, y, z)] = Block{ID: id}
	c.markSubChunkDirty(y)
}

func (c *Chunk) markSubChunkDirty(y int) {
	c.SubChunks[SubChunkIndexForY(y)].SetState(TessellationPending)
}

func (c *Chunk) GetLight(x, y, z int) BlockLight {
	if !InBounds(x, y, z) {
		return 0
	}
	return c.Light[BlockIndex(x, y, z)]
}

func (c *Chunk) SetLight(x, y, z int, l BlockLight) {
	if !InBounds(x, y, z) {
		return
	}
	c.Light[BlockIndex(x, y, z)] = l
}

// WorldPosition returns the world-space corner of this chunk.
func (c *Chunk) WorldPosition() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.Coord.X * ChunkWidth), 0, float32(c.Coord.Z * ChunkDepth)}
}

// frontEdgeBlockAt/backEdgeBlockAt/leftEdgeBlockAt/rightEdgeBlockAt read a
// skirt by (x or z, y); see EdgeSkirtIndex.
func (c *Chunk) frontEdgeBlockAt(x, y int) Block { return c.FrontBlocks[EdgeSkirtIndex(x, y)] }
func (c *Chunk) backEdgeBlockAt(x, y int) Block  { return c.BackBlocks[EdgeSkirtIndex(x, y)] }
func (c *Chunk) leftEdgeBlockAt(z, y int) Block  { return c.LeftBlocks[EdgeSkirtIndex(z, y)] }
func (c *Chunk) rightEdgeBlockAt(z, y int) Block { return c.RightBlocks[EdgeSkirtIndex(z, y)] }
