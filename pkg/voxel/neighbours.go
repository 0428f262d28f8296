package voxel

// NullBlock is returned for a vertical neighbour query that falls outside
// the chunk's fixed height (above y=255 or below y=0). It is an Air block,
// so callers see it as transparent: the mesher draws faces that point out
// of the top or bottom of the chunk.
var NullBlock = Block{ID: Air}

// NeighbourBlock returns the block immediately adjacent to local
// coordinate (x, y, z) in direction n, resolving across the chunk's own
// skirts when the query crosses a horizontal chunk boundary. This is the
// query the mesher and stage-2 lighting use; it never needs a pointer to
// the actual neighbouring Chunk because the skirts already hold a synced
// copy of that data.
func (c *Chunk) NeighbourBlock(x, y, z int, n BlockNeighbour) Block {
	switch n {
	case BlockUp:
		if y+1 >= ChunkHeight {
			return NullBlock
		}
		return c.GetBlock(x, y+1, z)
	case BlockDown:
		if y-1 < 0 {
			return NullBlock
		}
		return c.GetBlock(x, y-1, z)
	case BlockRight:
		if x+1 >= ChunkWidth {
			return c.rightEdgeBlockAt(z, y)
		}
		return c.GetBlock(x+1, y, z)
	case BlockLeft:
		if x-1 < 0 {
			return c.leftEdgeBlockAt(z, y)
		}
		return c.GetBlock(x-1, y, z)
	case BlockFront:
		if z+1 >= ChunkDepth {
			return c.frontEdgeBlockAt(x, y)
		}
		return c.GetBlock(x, y, z+1)
	case BlockBack:
		if z-1 < 0 {
			return c.backEdgeBlockAt(x, y)
		}
		return c.GetBlock(x, y, z-1)
	default:
		return NullBlock
	}
}

// NeighbourLight mirrors NeighbourBlock but for the light map.
func (c *Chunk) NeighbourLight(x, y, z int, n BlockNeighbour) BlockLight {
	switch n {
	case BlockUp:
		if y+1 >= ChunkHeight {
			return 0
		}
		return c.GetLight(x, y+1, z)
	case BlockDown:
		if y-1 < 0 {
			return 0
		}
		return c.GetLight(x, y-1, z)
	case BlockRight:
		if x+1 >= ChunkWidth {
			return c.RightLight[EdgeSkirtIndex(z, y)]
		}
		return c.GetLight(x+1, y, z)
	case BlockLeft:
		if x-1 < 0 {
			return c.LeftLight[EdgeSkirtIndex(z, y)]
		}
		return c.GetLight(x-1, y, z)
	case BlockFront:
		if z+1 >= ChunkDepth {
			return c.FrontLight[EdgeSkirtIndex(x, y)]
		}
		return c.GetLight(x, y, z+1)
	case BlockBack:
		if z-1 < 0 {
			return c.BackLight[EdgeSkirtIndex(x, y)]
		}
		return c.GetLight(x, y, z-1)
	default:
		return 0
	}
}

// AllNeighbours returns the six face-adjacent blocks of (x, y, z) in
// BlockNeighbour order.
func (c *Chunk) AllNeighbours(x, y, z int) [BlockNeighbourCount]Block {
	var out [BlockNeighbourCount]Block
	for n := BlockNeighbour(0); n < BlockNeighbourCount; n++ {
		out[n] = c.NeighbourBlock(x, y, z, n)
	}
	return out
}
