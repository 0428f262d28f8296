package voxel

import "testing"

func TestGenerateIsDeterministic(t *testing.T) {
	a := New(Coord{X: 3, Z: -2})
	b := New(Coord{X: 3, Z: -2})
	Generate(a, 1234)
	Generate(b, 1234)
	for i := range a.Blocks {
		if a.Blocks[i] != b.Blocks[i] {
			t.Fatalf("block %d differs between identical generations: %v vs %v", i, a.Blocks[i], b.Blocks[i])
		}
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	a := New(Coord{X: 0, Z: 0})
	b := New(Coord{X: 0, Z: 0})
	Generate(a, 1)
	Generate(b, 2)
	same := true
	for i := range a.Blocks {
		if a.Blocks[i] != b.Blocks[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different terrain")
	}
}

func TestSkirtAgreesWithNeighbourInterior(t *testing.T) {
	const seed = 777
	origin := New(Coord{X: 0, Z: 0})
	Generate(origin, seed)

	frontNeighbour := New(Coord{X: 0, Z: 1})
	Generate(frontNeighbour, seed)

	for x := 0; x < ChunkWidth; x++ {
		for y := 0; y < ChunkHeight; y++ {
			got := origin.FrontBlocks[EdgeSkirtIndex(x, y)]
			want := frontNeighbour.GetBlock(x, y, 0)
			if got != want {
				t.Fatalf("front skirt mismatch at x=%d y=%d: skirt=%v neighbour=%v", x, y, got, want)
			}
		}
	}
}

func TestGenerateSetsLoadedState(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	Generate(c, 1)
	if c.State() != ChunkLoaded {
		t.Fatalf("expected ChunkLoaded, got %v", c.State())
	}
}

func TestBlockForHeightGrassWinsAtSurface(t *testing.T) {
	if blockForHeight(50, 50) != Grass {
		t.Fatal("expected grass at exact surface height")
	}
	if blockForHeight(10, 50) != Dirt {
		t.Fatal("expected dirt below surface")
	}
	if blockForHeight(0, 50) != Bedrock {
		t.Fatal("expected bedrock at y=0")
	}
}

func TestBlockForHeightWaterIsInclusiveOfWaterLevel(t *testing.T) {
	const height = waterLevel - 10
	if blockForHeight(waterLevel, height) != Water {
		t.Fatalf("expected water at the water level itself, got %v", blockForHeight(waterLevel, height))
	}
	if blockForHeight(waterLevel+1, height) != Air {
		t.Fatalf("expected air just above the water level, got %v", blockForHeight(waterLevel+1, height))
	}
}

func TestHeightFromNoiseSpansConfiguredRange(t *testing.T) {
	if got := heightFromNoise01(0); got != minTerrainHeight {
		t.Fatalf("noise=0 should floor at minTerrainHeight(%d), got %d", minTerrainHeight, got)
	}
	if got := heightFromNoise01(1); got != maxTerrainHeight {
		t.Fatalf("noise=1 should cap at maxTerrainHeight(%d), got %d", maxTerrainHeight, got)
	}
}
