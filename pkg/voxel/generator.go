package voxel

const (
	minTerrainHeight = 100
	maxTerrainHeight = 250
	waterLevel       = minTerrainHeight + 50
)

// sampleXZ reproduces the original engine's get_sample: the noise
// function is sampled at the block's absolute world x/z position, offset
// by half a block and by the seed, so neighbouring chunks (and a chunk's
// skirts, which sample the neighbour's own coordinate) agree exactly at
// shared edges.
func sampleXZ(seed int64, coord Coord, localX, localZ int) (float64, float64) {
	sx := float64(seed) + float64(coord.X)*ChunkWidth + float64(localX) + 0.5
	sz := float64(seed) + float64(coord.Z)*ChunkDepth + float64(localZ) + 0.5
	return sx, sz
}

func heightFromNoise01(n float64) int {
	h := minTerrainHeight + (maxTerrainHeight-minTerrainHeight)*n
	return int(h)
}

// heightAt returns the generated terrain height for the world column at
// local (localX, localZ) within chunk coord.
func heightAt(seed int64, coord Coord, localX, localZ int) int {
	sx, sz := sampleXZ(seed, coord, localX, localZ)
	return heightFromNoise01(noise01(sx, sz, seed))
}

// blockForHeight decides the block id at vertical position y given the
// column's terrain height: Grass caps the surface (biome tinting is the
// only thing distinguishing it from a flat green block, left to the
// renderer), everything below is Dirt down to bedrock, and a column below
// the fixed water level floods with Water above the terrain height.
func blockForHeight(y, height int) BlockID {
	switch {
	case y == 0:
		return Bedrock
	case y > height:
		if y <= waterLevel {
			return Water
		}
		return Air
	case y == height:
		return Grass
	default:
		return Dirt
	}
}

// Generate fills c deterministically from seed: the interior 16x256x16
// block volume, then all four skirts by resampling the same noise
// function at the neighbouring chunk's edge column — so a chunk's skirts
// always agree with what the actual neighbour chunk will generate for
// that column, even if the neighbour hasn't been generated yet.
func Generate(c *Chunk, seed int64) {
	var heightMap [ChunkWidth][ChunkDepth]int
	for x := 0; x < ChunkWidth; x++ {
		for z := 0; z < ChunkDepth; z++ {
			heightMap[x][z] = heightAt(seed, c.Coord, x, z)
		}
	}
	for x := 0; x < ChunkWidth; x++ {
		for z := 0; z < ChunkDepth; z++ {
			h := heightMap[x][z]
			for y := 0; y < ChunkHeight; y++ {
				c.Blocks[BlockIndex(x, y, z)] = Block{ID: blockForHeight(y, h)}
			}
		}
	}

	generateSkirt(c, seed, NeighbourFront)
	generateSkirt(c, seed, NeighbourBack)
	generateSkirt(c, seed, NeighbourLeft)
	generateSkirt(c, seed, NeighbourRight)

	c.SetState(ChunkLoaded)
}

// generateSkirt fills one of the four one-block skirts by sampling the
// facing neighbour chunk's nearest edge column directly, without needing
// that neighbour chunk to exist yet.
func generateSkirt(c *Chunk, seed int64, dir ChunkNeighbour) {
	neighbourCoord := c.Coord.Neighbour(dir)
	switch dir {
	case NeighbourFront: // neighbour is at z+1; its edge column is its own z=0
		for x := 0; x < ChunkWidth; x++ {
			h := heightAt(seed, neighbourCoord, x, 0)
			for y := 0; y < ChunkHeight; y++ {
				c.FrontBlocks[EdgeSkirtIndex(x, y)] = Block{ID: blockForHeight(y, h)}
			}
		}
	case NeighbourBack: // neighbour's edge column is its own z=ChunkDepth-1
		for x := 0; x < ChunkWidth; x++ {
			h := heightAt(seed, neighbourCoord, x, ChunkDepth-1)
			for y := 0; y < ChunkHeight; y++ {
				c.BackBlocks[EdgeSkirtIndex(x, y)] = Block{ID: blockForHeight(y, h)}
			}
		}
	case NeighbourLeft: // neighbour's edge column is its own x=ChunkWidth-1
		for z := 0; z < ChunkDepth; z++ {
			h := heightAt(seed, neighbourCoord, ChunkWidth-1, z)
			for y := 0; y < ChunkHeight; y++ {
				c.LeftBlocks[EdgeSkirtIndex(z, y)] = Block{ID: blockForHeight(y, h)}
			}
		}
	case NeighbourRight: // neighbour's edge column is its own x=0
		for z := 0; z < ChunkDepth; z++ {
			h := heightAt(seed, neighbourCoord, 0, z)
			for y := 0; y < ChunkHeight; y++ {
				c.RightBlocks[EdgeSkirtIndex(z, y)] = Block{ID: blockForHeight(y, h)}
			}
		}
	}
}
