// Package job implements the two-priority job system the world region
// manager schedules chunk work onto: a pool of generic worker goroutines
// draining high- and low-priority queues, plus one dedicated light thread
// that owns the lighting pipeline's propagation/calculation/flood-fill
// queues. There is no job cancellation; once scheduled, a job always runs
// to completion, including during shutdown drain.
package job

import (
	"runtime"
	"sync"

	"github.com/leterax/voxelcore/pkg/arena"
)

// queueCapacity bounds how many pending jobs may sit in a single priority
// queue at once, mirroring MC_MAX_JOB_COUNT_PER_QUEUE from the original
// job system. Scheduling beyond this blocks the caller (back-pressure)
// rather than growing unbounded.
const queueCapacity = 512

// scratchBytes sizes each worker's per-job arena. Jobs that need scratch
// memory (chunk serialization's throwaway regenerated chunk) get it from
// here instead of the garbage collector.
const scratchBytes = 2 << 20 // 2 MiB

// Func is a unit of work. It receives the calling worker's scratch arena,
// valid only for the duration of the call — the arena is rewound to empty
// immediately after Func returns.
type Func func(scratch *arena.Arena)

// System owns the worker pool and the dedicated light thread.
type System struct {
	high chan Func
	low  chan Func

	light *LightThread

	scratch *arena.Arena // parent arena; each worker holds a sub-arena of it

	wg      sync.WaitGroup
	started bool
}

// New creates a job system with workers worker goroutines. If workers <= 0
// it defaults to runtime.NumCPU()-2, clamped to at least 1, leaving one
// core for the main/render thread and one for the dedicated light thread.
func New(workers int) *System {
	if workers <= 0 {
		workers = runtime.NumCPU() - 2
		if workers < 1 {
			workers = 1
		}
	}
	s := &System{
		high:    make(chan Func, queueCapacity),
		low:     make(chan Func, queueCapacity),
		light:   newLightThread(),
		scratch: arena.New(workers * scratchBytes),
	}
	s.start(workers)
	return s
}

func (s *System) start(workers int) {
	if s.started {
		return
	}
	s.started = true
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.workerLoop(s.scratch.SubArena(scratchBytes))
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.light.run()
	}()
}

func (s *System) workerLoop(scratch *arena.Arena) {
	defer s.wg.Done()
	for {
		// High priority is always preferred; only fall back to low
		// priority (or block on either) when nothing high-priority is
		// immediately ready.
		select {
		case f, ok := <-s.high:
			if !ok {
				s.drainLow(scratch)
				return
			}
			runJob(f, scratch)
			continue
		default:
		}

		select {
		case f, ok := <-s.high:
			if !ok {
				s.drainLow(scratch)
				return
			}
			runJob(f, scratch)
		case f, ok := <-s.low:
			if !ok {
				s.drainHigh(scratch)
				return
			}
			runJob(f, scratch)
		}
	}
}

// drainLow runs every job still buffered in the low queue after the high
// queue has been closed and emptied, satisfying the "no job is ever
// dropped on shutdown" guarantee.
func (s *System) drainLow(scratch *arena.Arena) {
	for f := range s.low {
		runJob(f, scratch)
	}
}

func (s *System) drainHigh(scratch *arena.Arena) {
	for f := range s.high {
		runJob(f, scratch)
	}
}

func runJob(f Func, scratch *arena.Arena) {
	mark := scratch.Begin()
	defer mark.End()
	f(scratch)
}

// Schedule enqueues f on the low-priority queue (chunk loading/generation
// and saving — routine per-frame work).
func (s *System) Schedule(f Func) {
	s.low <- f
}

// ScheduleHighPriority enqueues f on the high-priority queue (work the
// player sees directly; pkg/world schedules sub-chunk meshing here).
func (s *System) ScheduleHighPriority(f Func) {
	s.high <- f
}

// Light returns the dedicated light thread's scheduling surface.
func (s *System) Light() *LightThread { return s.light }

// Shutdown closes both queues so workers drain whatever is already queued
// and exit, then waits for every worker and the light thread to finish. No
// job is cancelled; Shutdown only stops accepting new work.
func (s *System) Shutdown() {
	close(s.high)
	close(s.low)
	s.light.close()
	s.wg.Wait()
}
