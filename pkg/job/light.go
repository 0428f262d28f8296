package job

import (
	"sync"
	"sync/atomic"

	"github.com/leterax/voxelcore/pkg/arena"
	"github.com/leterax/voxelcore/pkg/container"
)

// lightQueueCapacity bounds each of the light thread's three internal
// queues. The flood-fill queue in particular can see bursts when a large
// region loads at once, so it is sized generously.
const lightQueueCapacity = 4096

// lightScratchBytes is smaller than a worker's general scratch budget:
// light jobs only ever touch a handful of blocks per call.
const lightScratchBytes = 256 << 10

// LightThread is the single goroutine that owns the lighting pipeline.
// Stage 1 (propagation) and stage 2 (BFS flood-fill calculation) both run
// here so that no chunk's light data is ever touched by two goroutines at
// once, matching the single-light-thread ownership model.
type LightThread struct {
	propagation *container.Ring[Func]
	calculate   *container.Ring[Func]
	flood       *container.Ring[Func]

	mu      sync.Mutex
	cond    *sync.Cond
	pending atomic.Int64
	closed  atomic.Bool
}

func newLightThread() *LightThread {
	l := &LightThread{
		propagation: container.NewRing[Func](lightQueueCapacity),
		calculate:   container.NewRing[Func](lightQueueCapacity),
		flood:       container.NewRing[Func](lightQueueCapacity),
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// SchedulePropagation queues a stage-1 sky-light propagation job (run once
// per chunk, after its four edge neighbours are loaded).
func (l *LightThread) SchedulePropagation(f Func) { l.push(l.propagation, f) }

// ScheduleCalculation queues a stage-2 lighting calculation job (run once
// per chunk, after its stage-1 propagation has finished).
func (l *LightThread) ScheduleCalculation(f Func) { l.push(l.calculate, f) }

// ScheduleFlood queues a single BFS flood-fill step. Flood-fill jobs
// re-queue themselves onto this same queue as light spreads to neighbours,
// so this is also called from inside a running flood job.
func (l *LightThread) ScheduleFlood(f Func) { l.push(l.flood, f) }

func (l *LightThread) push(r *container.Ring[Func], f Func) {
	if !r.Push(f) {
		panic("job: light queue full")
	}
	l.pending.Add(1)
	l.cond.Broadcast()
}

func (l *LightThread) run() {
	scratch := arena.New(lightScratchBytes)
	for {
		l.mu.Lock()
		for l.pending.Load() == 0 && !l.closed.Load() {
			l.cond.Wait()
		}
		done := l.closed.Load() && l.pending.Load() == 0
		l.mu.Unlock()
		if done {
			return
		}

		// Propagation before calculation before flood: a chunk must
		// finish stage 1 before stage 2 reads its sky light, and flood
		// steps only make sense once at least one chunk has reached
		// stage 2.
		if f, ok := l.propagation.Pop(); ok {
			f(scratch)
			l.pending.Add(-1)
			continue
		}
		if f, ok := l.calculate.Pop(); ok {
			f(scratch)
			l.pending.Add(-1)
			continue
		}
		if f, ok := l.flood.Pop(); ok {
			f(scratch)
			l.pending.Add(-1)
			continue
		}
	}
}

func (l *LightThread) close() {
	l.closed.Store(true)
	l.cond.Broadcast()
}
