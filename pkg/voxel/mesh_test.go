package voxel

import "testing"

func TestMeshSubChunkEmitsNoFacesForEmptySubChunk(t *testing.T) {
	c := New(Coord{X: 0, Z: 0}) // all air
	var opaque, transparent []Vertex
	count := MeshSubChunk(c, 0, &opaque, &transparent)
	if count != 0 || len(opaque) != 0 || len(transparent) != 0 {
		t.Fatalf("expected no faces for an all-air sub-chunk, got %d faces", count)
	}
}

func TestMeshSubChunkSingleBlockEmitsSixFaces(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	c.SetBlock(5, 3, 5, Stone)
	var opaque, transparent []Vertex
	count := MeshSubChunk(c, 0, &opaque, &transparent)
	if count != 6 {
		t.Fatalf("expected 6 faces for an isolated block, got %d", count)
	}
	if len(opaque) != 6*4 {
		t.Fatalf("expected %d opaque vertices, got %d", 6*4, len(opaque))
	}
	if len(transparent) != 0 {
		t.Fatalf("expected no transparent vertices, got %d", len(transparent))
	}
}

func TestMeshSubChunkHidesInteriorFace(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	c.SetBlock(5, 3, 5, Stone)
	c.SetBlock(6, 3, 5, Stone) // touching neighbour hides the shared face on both sides
	var opaque, transparent []Vertex
	count := MeshSubChunk(c, 0, &opaque, &transparent)
	if count != 10 {
		t.Fatalf("expected 10 faces for two touching blocks (12 - 2 hidden), got %d", count)
	}
}

func TestMeshSubChunkGlassAgainstGlassHidesSharedFace(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	c.SetBlock(5, 3, 5, Glass)
	c.SetBlock(6, 3, 5, Glass)
	var opaque, transparent []Vertex
	count := MeshSubChunk(c, 0, &opaque, &transparent)
	if count != 10 {
		t.Fatalf("expected 10 faces for two touching glass blocks, got %d", count)
	}
	if len(opaque) != 0 {
		t.Fatalf("expected all glass faces to be transparent, got %d opaque vertices", len(opaque))
	}
}

func TestPackWord0RoundTripsFields(t *testing.T) {
	w := packWord0(3, 200, 9, [3]int{1, 0, 1}, FaceFront, 2, 0x12)
	if x := w & 0xF; x != 3 {
		t.Fatalf("expected block_x=3, got %d", x)
	}
	if y := (w >> 4) & 0xFF; y != 200 {
		t.Fatalf("expected block_y=200, got %d", y)
	}
	if z := (w >> 12) & 0xF; z != 9 {
		t.Fatalf("expected block_z=9, got %d", z)
	}
	if localCorner := (w >> 16) & 0x7; localCorner != 0x5 { // bit0=1, bit1=0, bit2=1
		t.Fatalf("expected local_corner_id=5, got %d", localCorner)
	}
	if face := (w >> 19) & 0x7; face != uint32(FaceFront) {
		t.Fatalf("expected face_id=%d, got %d", FaceFront, face)
	}
	if faceCorner := (w >> 22) & 0x3; faceCorner != 2 {
		t.Fatalf("expected face_corner_id=2, got %d", faceCorner)
	}
	if flags := w >> 24; flags != 0x12 {
		t.Fatalf("expected flags=0x12, got %#x", flags)
	}
}

func TestPackWord1RoundTripsFields(t *testing.T) {
	w := packWord1(12, 4, 2, textureUVID(35, 3))
	if sky := w & 0xF; sky != 12 {
		t.Fatalf("expected sky_light=12, got %d", sky)
	}
	if src := (w >> 4) & 0xF; src != 4 {
		t.Fatalf("expected source_light=4, got %d", src)
	}
	if ao := (w >> 8) & 0x3; ao != 2 {
		t.Fatalf("expected ao=2, got %d", ao)
	}
	if uv := w >> 10; uv != 35*4+3 {
		t.Fatalf("expected texture_uv_id=%d, got %d", 35*4+3, uv)
	}
}

func TestTextureUVIDPacksTextureAndCorner(t *testing.T) {
	for textureID := uint16(0); textureID < 3; textureID++ {
		for corner := 0; corner < 4; corner++ {
			got := textureUVID(textureID, corner)
			want := uint32(textureID)*4 + uint32(corner)
			if got != want {
				t.Fatalf("textureUVID(%d, %d) = %d, want %d", textureID, corner, got, want)
			}
		}
	}
}
