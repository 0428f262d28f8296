package voxel

// BlockPos is a local block coordinate used to hand lighting work between
// stages and across the cross-chunk BFS queue.
type BlockPos struct {
	X, Y, Z int
}

// PropagateSkyLight is lighting stage 1: walk every column top-down,
// seeding full sky light (15) until the first non-transparent block is
// hit, and a minimum ambient level (1) below that. Light-emitting blocks
// seed their own source light and are returned so the caller can push
// them onto the cross-chunk flood-fill queue. Must run before
// CalculateLighting.
func PropagateSkyLight(c *Chunk) []BlockPos {
	var sources []BlockPos
	for x := 0; x < ChunkWidth; x++ {
		for z := 0; z < ChunkDepth; z++ {
			canPropagate := true
			for y := ChunkHeight - 1; y >= 0; y-- {
				block := c.GetBlock(x, y, z)
				if !IsTransparent(block.ID) {
					canPropagate = false
				}

				l := c.GetLight(x, y, z)
				if IsLightSource(block.ID) {
					l.SetSourceLight(Info(block.ID).LightEmission)
					sources = append(sources, BlockPos{X: x, Y: y, Z: z})
				} else {
					l.SetSourceLight(1)
				}

				if canPropagate {
					l.SetSkyLight(maxLightLevel)
				} else {
					l.SetSkyLight(1)
				}
				c.SetLight(x, y, z, l)
			}
		}
	}
	c.SetState(ChunkLightPropagated)
	return sources
}

// CalculateLighting is lighting stage 2: find every block whose sky light
// is full (15) but whose horizontal neighbour is transparent and not yet
// full, and return it so the caller can push it onto the cross-chunk
// flood-fill queue. Unlike the original's early-exit-per-y-level
// optimization, this always walks every y level once — correctness over
// the micro-optimization, since a Go slice scan at this size is cheap
// compared to the BFS flood it feeds.
func CalculateLighting(c *Chunk) []BlockPos {
	var frontier []BlockPos
	for y := ChunkHeight - 1; y >= 0; y-- {
		for z := 0; z < ChunkDepth; z++ {
			for x := 0; x < ChunkWidth; x++ {
				block := c.GetBlock(x, y, z)
				if !IsTransparent(block.ID) {
					continue
				}
				if c.GetLight(x, y, z).SkyLight() != maxLightLevel {
					continue
				}
				for n := BlockLeft; n <= BlockBack; n++ {
					neighbour := c.NeighbourBlock(x, y, z, n)
					if !IsTransparent(neighbour.ID) {
						continue
					}
					if c.NeighbourLight(x, y, z, n).SkyLight() != maxLightLevel {
						frontier = append(frontier, BlockPos{X: x, Y: y, Z: z})
						break
					}
				}
			}
		}
	}
	c.SetState(ChunkLightCalculated)
	return frontier
}

// FloodFillStep applies one BFS relaxation step from (x, y, z) to its six
// neighbours that live inside this same chunk (neighbours across a chunk
// boundary are the caller's responsibility — see pkg/world, which owns
// the chunk pool needed to reach an actual neighbouring Chunk). It returns
// the local positions whose light changed and should themselves be
// re-queued.
func FloodFillStep(c *Chunk, pos BlockPos) []BlockPos {
	var changed []BlockPos
	self := c.GetLight(pos.X, pos.Y, pos.Z)
	selfSky := self.SkyLight()
	selfSrc := self.SourceLight()

	type localNeighbour struct {
		n    BlockNeighbour
		x, y, z int
	}
	candidates := []localNeighbour{
		{BlockUp, pos.X, pos.Y + 1, pos.Z},
		{BlockDown, pos.X, pos.Y - 1, pos.Z},
		{BlockLeft, pos.X - 1, pos.Y, pos.Z},
		{BlockRight, pos.X + 1, pos.Y, pos.Z},
		{BlockFront, pos.X, pos.Y, pos.Z + 1},
		{BlockBack, pos.X, pos.Y, pos.Z - 1},
	}
	for _, cand := range candidates {
		if !InBounds(cand.x, cand.y, cand.z) {
			continue // crosses a chunk boundary; pkg/world handles that case
		}
		block := c.GetBlock(cand.x, cand.y, cand.z)
		if !IsTransparent(block.ID) {
			continue
		}
		nl := c.GetLight(cand.x, cand.y, cand.z)
		updated := false
		if nl.SkyLight()+2 <= selfSky {
			nl.SetSkyLight(selfSky - 1)
			updated = true
		}
		if nl.SourceLight()+2 <= selfSrc {
			nl.SetSourceLight(selfSrc - 1)
			updated = true
		}
		if updated {
			c.SetLight(cand.x, cand.y, cand.z, nl)
			changed = append(changed, BlockPos{X: cand.x, Y: cand.y, Z: cand.z})
		}
	}
	return changed
}
