package voxel

import "testing"

func TestPropagateSkyLightFullAboveSurface(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	Generate(c, 1)
	PropagateSkyLight(c)
	if c.State() != ChunkLightPropagated {
		t.Fatalf("expected ChunkLightPropagated, got %v", c.State())
	}
	// Sky above the world is always air; light should be full there.
	if got := c.GetLight(0, ChunkHeight-1, 0).SkyLight(); got != maxLightLevel {
		t.Fatalf("expected full sky light at top of world, got %d", got)
	}
}

func TestPropagateSkyLightDimBelowSolid(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	c.SetBlock(0, 50, 0, Stone)
	PropagateSkyLight(c)
	if got := c.GetLight(0, 10, 0).SkyLight(); got != 1 {
		t.Fatalf("expected dim light below a solid block, got %d", got)
	}
}

func TestLightSourceSeedsSourceLight(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	c.SetBlock(5, 100, 5, GlowStone)
	sources := PropagateSkyLight(c)
	found := false
	for _, s := range sources {
		if s == (BlockPos{X: 5, Y: 100, Z: 5}) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected glow stone position to be returned as a light source")
	}
	if got := c.GetLight(5, 100, 5).SourceLight(); got != 15 {
		t.Fatalf("expected source light 15 at emitter, got %d", got)
	}
}

func TestFloodFillStepSpreadsAndDecays(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	l := BlockLight(0)
	l.SetSourceLight(15)
	c.SetLight(5, 5, 5, l)

	changed := FloodFillStep(c, BlockPos{X: 5, Y: 5, Z: 5})
	if len(changed) == 0 {
		t.Fatal("expected flood fill to propagate to at least one neighbour")
	}
	for _, p := range changed {
		got := c.GetLight(p.X, p.Y, p.Z).SourceLight()
		if got != 14 {
			t.Fatalf("expected decayed source light 14 at %v, got %d", p, got)
		}
	}
}

func TestFloodFillStepDoesNotRegressBrighterNeighbour(t *testing.T) {
	c := New(Coord{X: 0, Z: 0})
	dim := BlockLight(0)
	dim.SetSourceLight(5)
	c.SetLight(5, 5, 5, dim)

	bright := BlockLight(0)
	bright.SetSourceLight(15)
	c.SetLight(6, 5, 5, bright)

	changed := FloodFillStep(c, BlockPos{X: 5, Y: 5, Z: 5})
	for _, p := range changed {
		if p == (BlockPos{X: 6, Y: 5, Z: 5}) {
			t.Fatal("flood fill should not dim an already-brighter neighbour")
		}
	}
}
