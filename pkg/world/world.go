// Package world implements the chunk region manager: the per-frame tick
// that loads, lights, meshes, uploads, and evicts chunks around the
// player, plus the block edit and selection (raycast) interfaces the host
// application drives.
package world

import (
	"fmt"
	"log"
	"sync"

	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/gpu"
	"github.com/leterax/voxelcore/pkg/job"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// MaxChunkRadius and PendingFreeChunkRadius fix the world's capacity
// constants: chunks within Radius of the player are active; chunks
// between Radius and Radius+PendingFreeChunkRadius are kept resident two
// extra rings to let in-flight saves/GPU fences settle before the slot is
// actually reused.
const (
	MaxChunkRadius         = 30
	MinChunkRadius         = 8
	PendingFreeChunkRadius = 2
	DefaultSkyLightLevel   = 15
)

// ChunkCapacity returns the fixed chunk-pool size for an active region of
// the given radius: 4*(radius+PendingFreeChunkRadius)^2, matching the
// original engine's World::chunk_capacity.
func ChunkCapacity(radius int) int {
	r := radius + PendingFreeChunkRadius
	return 4 * r * r
}

func toHashKey(c voxel.Coord) container.ChunkCoord {
	return container.ChunkCoord{X: c.X, Z: c.Z}
}

// Bounds is an inclusive min/max chunk-coordinate rectangle.
type Bounds struct {
	Min, Max voxel.Coord
}

func (b Bounds) Contains(c voxel.Coord) bool {
	return c.X >= b.Min.X && c.X <= b.Max.X && c.Z >= b.Min.Z && c.Z <= b.Max.Z
}

func boundsForRadius(center voxel.Coord, radius int32) Bounds {
	return Bounds{
		Min: voxel.Coord{X: center.X - radius, Z: center.Z - radius},
		Max: voxel.Coord{X: center.X + radius, Z: center.Z + radius},
	}
}

// Config controls a World's fixed capacity and behavior.
type Config struct {
	Radius         int    // 8-30; Init rejects values outside that range (cmd/voxels defaults to 8)
	Seed           int64
	WorldDir       string // directory chunk delta files are read from/written to
	SkyLightLevel  uint8  // 0-15, default 15 (full daylight)
	Workers        int    // job system worker count; 0 = auto
	Slab           *gpu.Slab // optional; nil skips GPU upload (useful for headless tests)
}

// World owns the active region's chunk pool, coordinate index, job
// system, and (optionally) the GPU slab chunks upload their meshes into.
type World struct {
	mu sync.Mutex

	cfg Config

	pool    *container.FreeList[voxel.Chunk]
	index   *container.HashTable[int32] // coord -> pool index
	jobs    *job.System

	playerChunk voxel.Coord
	bounds      Bounds

	pendingFree map[voxel.Coord]int32 // coord -> pool index, awaiting save+free

	stats Stats
}

// Stats mirrors world_stats(): live counters for diagnostics/HUD.
type Stats struct {
	ResidentChunks int
	PendingFree    int
	FacesDrawn     int
	GPU            gpu.Stats
}

// Init constructs a World ready to Tick. It does not load any chunks —
// the first Tick does that once given the player's starting position.
func Init(cfg Config) (*World, error) {
	if cfg.Radius < MinChunkRadius || cfg.Radius > MaxChunkRadius {
		return nil, fmt.Errorf("world: radius %d out of range [%d,%d]", cfg.Radius, MinChunkRadius, MaxChunkRadius)
	}
	if cfg.SkyLightLevel == 0 {
		cfg.SkyLightLevel = DefaultSkyLightLevel
	}
	capacity := ChunkCapacity(cfg.Radius)
	w := &World{
		cfg:         cfg,
		pool:        container.NewFreeList[voxel.Chunk](capacity),
		index:       container.NewHashTable[int32](capacity),
		jobs:        job.New(cfg.Workers),
		pendingFree: make(map[voxel.Coord]int32),
	}
	return w, nil
}

// Shutdown saves every resident chunk and stops the job system. No job is
// cancelled — pending work finishes first.
func (w *World) Shutdown() error {
	err := w.SaveAll()
	w.jobs.Shutdown()
	return err
}

func (w *World) chunkAt(coord voxel.Coord) (*voxel.Chunk, bool) {
	idx, ok := w.index.Get(toHashKey(coord))
	if !ok {
		return nil, false
	}
	return w.pool.At(idx), true
}

// QueryBlock returns the block at an absolute world position, or Air if
// the containing chunk isn't resident.
func (w *World) QueryBlock(worldX, worldY, worldZ int32) voxel.Block {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queryBlockLocked(worldX, worldY, worldZ)
}

func (w *World) queryBlockLocked(worldX, worldY, worldZ int32) voxel.Block {
	coord := voxel.WorldToChunkCoord(worldX, worldZ)
	c, ok := w.chunkAt(coord)
	if !ok {
		return voxel.Block{ID: voxel.Air}
	}
	lx, ly, lz := voxel.WorldToLocalCoord(worldX, worldY, worldZ)
	return c.GetBlock(int(lx), int(ly), int(lz))
}

// Stats returns a snapshot of live world_stats() counters.
func (w *World) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.ResidentChunks = w.index.Count()
	s.PendingFree = len(w.pendingFree)
	if w.cfg.Slab != nil {
		s.GPU = w.cfg.Slab.Stats()
	}
	return s
}

func (w *World) logf(format string, args ...any) {
	log.Printf("world: "+format, args...)
}
