package world

import (
	"github.com/leterax/voxelcore/pkg/container"
	"github.com/leterax/voxelcore/pkg/voxel"
)

// SaveAll implements world_save_all(): it synchronously writes every
// dirty resident chunk's delta file, used both by the public API and by
// Shutdown to guarantee nothing is lost before the process exits.
func (w *World) SaveAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	w.index.Each(func(key container.ChunkCoord, idx int32) {
		c := w.pool.At(idx)
		if !c.Dirty {
			return
		}
		if err := voxel.SaveToFile(w.cfg.WorldDir, c, w.cfg.Seed); err != nil {
			w.logf("save %v: %v", c.Coord, err)
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		c.Dirty = false
		if c.State() == voxel.ChunkLightCalculated || c.State() == voxel.ChunkPendingSave {
			c.SetState(voxel.ChunkSaved)
		}
	})
	return firstErr
}
