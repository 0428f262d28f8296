package voxel

// Packed vertex format: two 32-bit words, 64 bits total.
//
// word0: block_x[0:4) block_y[4:12) block_z[12:16) local_corner_id[16:19)
//        face_id[19:22) face_corner_id[22:24) flags[24:32)
// word1: sky_light[0:4) source_light[4:8) ao[8:10) texture_uv_id[10:32)
//
// block_x/y/z are the block's own integer coordinates (0-15/0-255/0-15),
// never the corner-offset vertex position. local_corner_id packs that
// offset directly as three bits (bit0=x, bit1=y, bit2=z, each 0 or 1), so
// the vertex shader reconstructs the actual corner position with three
// bit tests instead of indexing a per-face lookup table. face_corner_id
// is the vertex's position within its face's quad (the same 0-3 winding
// index used to emit the two triangles) and, together with the block's
// texture id, composes texture_uv_id: an index into a texel buffer of
// packed per-texture UV rects (4 corners each) the renderer uploads once
// at startup, replacing a texture id baked directly into the vertex.
// flags carries the block's raw BlockFlags byte (biome tint, solid,
// transparent, light source) for the shader to test directly.

func packWord0(x, y, z int, off [3]int, face Face, corner int, flags uint8) uint32 {
	localCorner := uint32(off[0]&1) | uint32(off[1]&1)<<1 | uint32(off[2]&1)<<2
	return uint32(x&0xF) |
		uint32(y&0xFF)<<4 |
		uint32(z&0xF)<<12 |
		localCorner<<16 |
		uint32(face&0x7)<<19 |
		uint32(corner&0x3)<<22 |
		uint32(flags)<<24
}

func packWord1(skyLight, sourceLight, ao uint8, textureUVID uint32) uint32 {
	return uint32(skyLight&0xF) |
		uint32(sourceLight&0xF)<<4 |
		uint32(ao&0x3)<<8 |
		(textureUVID&0x3FFFFF)<<10
}

// textureUVID returns the texel-buffer index of texture id's corner-th UV
// rect entry (one of four corners packed per texture, matching the
// renderer's upload layout).
func textureUVID(textureID uint16, corner int) uint32 {
	return uint32(textureID)*4 + uint32(corner&0x3)
}

// Vertex is one packed 64-bit vertex as two words, matching the GPU-side
// layout exactly so it can be written straight into a mapped buffer.
type Vertex struct {
	Word0, Word1 uint32
}

// faceCorners lists, for each face, the four corner offsets in
// (x, y, z) winding order (two triangles, 0-1-2 and 0-2-3).
var faceCorners = [FaceCount][4][3]int{
	FaceTop:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	FaceBottom: {{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {1, 0, 1}},
	FaceLeft:   {{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}},
	FaceRight:  {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	FaceFront:  {{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}},
	FaceBack:   {{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
}

func faceToBlockNeighbour(f Face) BlockNeighbour {
	switch f {
	case FaceTop:
		return BlockUp
	case FaceBottom:
		return BlockDown
	case FaceLeft:
		return BlockLeft
	case FaceRight:
		return BlockRight
	case FaceFront:
		return BlockFront
	case FaceBack:
		return BlockBack
	default:
		return BlockUp
	}
}

// shouldEmitFace decides whether the face of `self` pointing at `facing`
// should be drawn: a solid block shows a face against a transparent
// neighbour, and a transparent block (e.g. glass) shows a face only
// against true air, so two panes of glass touching don't draw an internal
// face between them.
func shouldEmitFace(self, facing BlockID) bool {
	if self == Air {
		return false
	}
	selfInfo := Info(self)
	if selfInfo.Flags&FlagTransparent != 0 {
		return facing == Air
	}
	if selfInfo.Flags&FlagSolid != 0 && IsTransparent(facing) {
		return true
	}
	return false
}

// vertexAO computes ambient occlusion and averaged light for one corner of
// a face. side0/side1 are the two blocks orthogonally adjacent to the
// corner along the face plane, and diag is the diagonal block; ao is 3
// minus how many of those are solid and non-emissive (0 whenever both
// sides are opaque), and light is the average
// of every transparent neighbour's sky/source light (including the
// diagonal's, but only when at least one side is also transparent — an
// opaque corner flanked by an opaque side should not leak light around a
// solid edge).
func vertexAO(c *Chunk, x, y, z int, side0Off, side1Off, diagOff [3]int) (ao uint8, sky uint8, source uint8) {
	get := func(off [3]int) (Block, BlockLight, bool) {
		nx, ny, nz := x+off[0], y+off[1], z+off[2]
		if !InBounds(nx, ny, nz) {
			return NullBlock, 0, false
		}
		return c.GetBlock(nx, ny, nz), c.GetLight(nx, ny, nz), true
	}

	side0, side0Light, side0ok := get(side0Off)
	side1, side1Light, side1ok := get(side1Off)
	diag, diagLight, diagOk := get(diagOff)

	hasSide0 := side0ok && !IsTransparent(side0.ID)
	hasSide1 := side1ok && !IsTransparent(side1.ID)
	diagTransparent := !diagOk || IsTransparent(diag.ID)

	var skySum, srcSum, count int
	if side0ok && IsTransparent(side0.ID) {
		skySum += int(side0Light.SkyLight())
		srcSum += int(side0Light.SourceLight())
		count++
	}
	if side1ok && IsTransparent(side1.ID) {
		skySum += int(side1Light.SkyLight())
		srcSum += int(side1Light.SourceLight())
		count++
	}
	if diagTransparent && (!hasSide0 || !hasSide1) {
		if diagOk {
			skySum += int(diagLight.SkyLight())
			srcSum += int(diagLight.SourceLight())
		} else {
			skySum += maxLightLevel
		}
		count++
	}
	if count > 0 {
		sky = uint8(skySum / count)
		source = uint8(srcSum / count)
	} else {
		sky = maxLightLevel
	}

	if !hasSide0 || !hasSide1 {
		side0AO, side1AO, diagAO := 0, 0, 0
		if hasSide0 && !IsLightSource(side0.ID) {
			side0AO = 1
		}
		if hasSide1 && !IsLightSource(side1.ID) {
			side1AO = 1
		}
		if !diagTransparent && diagOk && !IsLightSource(diag.ID) {
			diagAO = 1
		}
		ao = uint8(3 - (side0AO + side1AO + diagAO))
	}
	return
}

// cornerOffsetsForFace returns, for corner index 0-3 of face, the two side
// neighbour offsets and the diagonal neighbour offset used for AO — all
// relative to the block being meshed.
func cornerOffsetsForFace(face Face, corner int) (side0, side1, diag [3]int) {
	cc := faceCorners[face][corner]
	nx, ny, nz := FaceNormal(face)
	signed := func(v int) int {
		if v == 0 {
			return -1
		}
		return 1
	}
	switch face {
	case FaceTop, FaceBottom:
		side0 = [3]int{signed(cc[0]), ny, 0}
		side1 = [3]int{0, ny, signed(cc[2])}
		diag = [3]int{signed(cc[0]), ny, signed(cc[2])}
	case FaceLeft, FaceRight:
		side0 = [3]int{nx, signed(cc[1]), 0}
		side1 = [3]int{nx, 0, signed(cc[2])}
		diag = [3]int{nx, signed(cc[1]), signed(cc[2])}
	case FaceFront, FaceBack:
		side0 = [3]int{signed(cc[0]), 0, nz}
		side1 = [3]int{0, signed(cc[1]), nz}
		diag = [3]int{signed(cc[0]), signed(cc[1]), nz}
	}
	return
}

// MeshSubChunk emits packed vertices for every visible face of every block
// in sub-chunk index subChunkIdx of c, appending quads (4 vertices each,
// drawn as two triangles by a repeating index buffer) into opaqueOut or
// transparentOut depending on the block's transparency flag, since each
// group renders into a separate bucket. It returns the number of faces
// emitted.
func MeshSubChunk(c *Chunk, subChunkIdx int, opaqueOut, transparentOut *[]Vertex) int {
	yStart := subChunkIdx * SubChunkHeight
	yEnd := yStart + SubChunkHeight
	faceCount := 0

	for y := yStart; y < yEnd; y++ {
		for z := 0; z < ChunkDepth; z++ {
			for x := 0; x < ChunkWidth; x++ {
				block := c.GetBlock(x, y, z)
				if block.ID == Air {
					continue
				}
				info := Info(block.ID)
				for face := Face(0); face < FaceCount; face++ {
					neighbour := c.NeighbourBlock(x, y, z, faceToBlockNeighbour(face))
					if !shouldEmitFace(block.ID, neighbour.ID) {
						continue
					}
					textureID := TextureID(block.ID, face)

					var quad [4]Vertex
					for corner := 0; corner < 4; corner++ {
						off := faceCorners[face][corner]
						side0, side1, diag := cornerOffsetsForFace(face, corner)
						ao, sky, src := vertexAO(c, x, y, z, side0, side1, diag)
						quad[corner] = Vertex{
							Word0: packWord0(x, y, z, off, face, corner, uint8(info.Flags)),
							Word1: packWord1(sky, src, ao, textureUVID(textureID, corner)),
						}
					}

					if info.Flags&FlagTransparent != 0 {
						*transparentOut = append(*transparentOut, quad[:]...)
					} else {
						*opaqueOut = append(*opaqueOut, quad[:]...)
					}
					faceCount++
				}
			}
		}
	}
	return faceCount
}
