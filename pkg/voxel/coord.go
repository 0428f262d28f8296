package voxel

// Fixed chunk dimensions. Spec.md names these as fixed constants, not
// configuration — world height never varies at runtime (a stated
// Non-goal is "dynamic world height").
const (
	ChunkWidth     = 16
	ChunkHeight    = 256
	ChunkDepth     = 16
	SubChunkHeight = 8
	SubChunkCount  = ChunkHeight / SubChunkHeight // 32
	blocksPerChunk = ChunkWidth * ChunkHeight * ChunkDepth
)

// Coord identifies a chunk by its column coordinates (x, z). The world is
// unbounded horizontally but a single chunk spans the entire fixed height.
type Coord struct {
	X, Z int32
}

// Add returns c shifted by the given chunk-coordinate offset.
func (c Coord) Add(dx, dz int32) Coord {
	return Coord{X: c.X + dx, Z: c.Z + dz}
}

// Neighbour returns the coordinate of c's neighbour in direction n.
func (c Coord) Neighbour(n ChunkNeighbour) Coord {
	off := NeighbourOffsets[n]
	return c.Add(off[0], off[1])
}

// WorldToChunkCoord floor-divides a world block x/z position down to the
// chunk it falls in. Unlike Go's truncating integer division this rounds
// towards negative infinity so negative world coordinates map correctly.
func WorldToChunkCoord(worldX, worldZ int32) Coord {
	return Coord{X: floorDiv(worldX, ChunkWidth), Z: floorDiv(worldZ, ChunkDepth)}
}

// WorldToLocalCoord returns the block position local to its containing
// chunk, handling negative world coordinates the same way
// WorldToChunkCoord does. Y passes through unchanged: the chunk spans the
// entire world height, so there is no vertical wraparound.
func WorldToLocalCoord(worldX, worldY, worldZ int32) (lx, ly, lz int32) {
	lx = floorMod(worldX, ChunkWidth)
	ly = worldY
	lz = floorMod(worldZ, ChunkDepth)
	return
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int32) int32 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// BlockIndex maps a local (x, y, z) position within a chunk to its index
// into the flat Blocks/LightMap arrays. Layout is y-major, then z, then x,
// so a full horizontal slice (one y level) is contiguous — the layout the
// lighting column-walk and skirt generation rely on.
func BlockIndex(x, y, z int) int {
	return y*ChunkDepth*ChunkWidth + z*ChunkWidth + x
}

// EdgeSkirtIndex maps a (alongEdge, y) pair to an index into a
// front/back/left/right skirt array, each of which stores one
// block-wide, full-height column strip of the neighbouring chunk's edge.
func EdgeSkirtIndex(alongEdge int, y int) int {
	return y*ChunkWidth + alongEdge
}

// SubChunkIndexForY returns which of the 32 fixed-height sub-chunks a
// local y coordinate belongs to.
func SubChunkIndexForY(y int) int {
	return y / SubChunkHeight
}

// InBounds reports whether a local coordinate triple addresses a real
// block in the chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkWidth && y >= 0 && y < ChunkHeight && z >= 0 && z < ChunkDepth
}
