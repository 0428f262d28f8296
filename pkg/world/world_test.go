package world

import (
	"os"
	"testing"

	"github.com/leterax/voxelcore/pkg/job"
	"github.com/leterax/voxelcore/pkg/voxel"
)

func newTestWorld(t *testing.T, radius int) *World {
	t.Helper()
	dir := t.TempDir()
	w, err := Init(Config{Radius: radius, Seed: 42, WorldDir: dir, Workers: 2})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() {
		if err := w.Shutdown(); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})
	return w
}

func TestInitRejectsOutOfRangeRadius(t *testing.T) {
	if _, err := Init(Config{Radius: 0, WorldDir: t.TempDir()}); err == nil {
		t.Fatal("expected an error for radius below MinChunkRadius")
	}
	if _, err := Init(Config{Radius: MaxChunkRadius + 1, WorldDir: t.TempDir()}); err == nil {
		t.Fatal("expected an error for radius above MaxChunkRadius")
	}
}

func TestChunkCapacityMatchesOriginalSizingFormula(t *testing.T) {
	if got := ChunkCapacity(8); got != 4*(8+2)*(8+2) {
		t.Fatalf("ChunkCapacity(8) = %d, want %d", got, 4*10*10)
	}
}

func TestSetBlockFailsWhenChunkNotResident(t *testing.T) {
	w := newTestWorld(t, MinChunkRadius)
	if err := w.SetBlock(0, 10, 0, voxel.Stone); err == nil {
		t.Fatal("expected an error setting a block in a chunk that was never loaded")
	}
}

func TestTickLoadsChunksAroundPlayer(t *testing.T) {
	w := newTestWorld(t, MinChunkRadius)
	w.Tick(0, 0)

	w.mu.Lock()
	n := w.index.Count()
	w.mu.Unlock()
	if n == 0 {
		t.Fatal("expected Tick to schedule at least one chunk load")
	}

	if err := w.jobsDrainForTest(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	w.mu.Lock()
	c, ok := w.chunkAt(voxel.Coord{X: 0, Z: 0})
	w.mu.Unlock()
	if !ok {
		t.Fatal("expected chunk (0,0) to be resident after Tick")
	}
	if c.State() < voxel.ChunkLoaded {
		t.Fatalf("expected chunk (0,0) to have finished loading, got state %v", c.State())
	}

	// Bedrock always caps the bottom regardless of terrain height.
	if block := w.QueryBlock(0, 0, 0); block.ID != voxel.Bedrock {
		t.Fatalf("expected Bedrock at y=0, got %v", voxel.Info(block.ID).Name)
	}
}

func TestTickThenSetBlockRoundTripsThroughQueryBlock(t *testing.T) {
	w := newTestWorld(t, MinChunkRadius)
	w.Tick(0, 0)
	if err := w.jobsDrainForTest(); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if err := w.SetBlock(5, 100, 5, voxel.DiamondBlock); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if block := w.QueryBlock(5, 100, 5); block.ID != voxel.DiamondBlock {
		t.Fatalf("expected DiamondBlock after edit, got %v", voxel.Info(block.ID).Name)
	}

	w.mu.Lock()
	c, _ := w.chunkAt(voxel.Coord{X: 0, Z: 0})
	dirty := c.Dirty
	w.mu.Unlock()
	if !dirty {
		t.Fatal("expected chunk to be marked dirty after an edit")
	}
}

func TestEvictionFreesChunksFarFromPlayer(t *testing.T) {
	w := newTestWorld(t, MinChunkRadius)
	w.Tick(0, 0)
	if err := w.jobsDrainForTest(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	before := w.index.Count()
	if before == 0 {
		t.Fatal("expected chunks resident before moving the player")
	}

	// Move far enough that every previous chunk falls outside the
	// pending-free band and should eventually be torn down.
	for i := 0; i < 4; i++ {
		w.Tick(float64((200+i)*voxel.ChunkWidth), 0)
		if err := w.jobsDrainForTest(); err != nil {
			t.Fatalf("drain: %v", err)
		}
	}

	w.mu.Lock()
	_, stillResident := w.chunkAt(voxel.Coord{X: 0, Z: 0})
	w.mu.Unlock()
	if stillResident {
		t.Fatal("expected chunk (0,0) to have been evicted after the player moved far away")
	}
}

func TestSaveAllWritesOnlyDirtyChunks(t *testing.T) {
	w := newTestWorld(t, MinChunkRadius)
	w.Tick(0, 0)
	if err := w.jobsDrainForTest(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if err := w.SetBlock(0, 100, 0, voxel.Obsidian); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if err := w.SaveAll(); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	path := voxel.ChunkFilePath(w.cfg.WorldDir, voxel.Coord{X: 0, Z: 0})
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected a delta file for the edited chunk: %v", err)
	}
}

func TestSpiralOffsetsCoversEveryColumnOnceNearestFirst(t *testing.T) {
	offsets := spiralOffsets(2)
	seen := make(map[[2]int32]bool)
	for _, o := range offsets {
		if seen[o] {
			t.Fatalf("duplicate offset %v", o)
		}
		seen[o] = true
	}
	want := (2*2 + 1) * (2*2 + 1)
	if len(offsets) != want {
		t.Fatalf("expected %d offsets for radius 2, got %d", want, len(offsets))
	}
	if offsets[0] != [2]int32{0, 0} {
		t.Fatalf("expected the first offset to be the origin, got %v", offsets[0])
	}
}

func TestChebyshevDistance(t *testing.T) {
	d := chebyshevDistance(voxel.Coord{X: 3, Z: -5}, voxel.Coord{X: 0, Z: 0})
	if d != 5 {
		t.Fatalf("expected chebyshev distance 5, got %d", d)
	}
}

// jobsDrainForTest waits for all currently-scheduled jobs to finish by
// replacing the job system with a fresh one after a full shutdown-drain,
// since the job system offers no other synchronous wait primitive.
func (w *World) jobsDrainForTest() error {
	w.mu.Lock()
	jobs := w.jobs
	w.mu.Unlock()
	jobs.Shutdown()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs = job.New(w.cfg.Workers)
	return nil
}
