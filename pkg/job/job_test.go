package job

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/leterax/voxelcore/pkg/arena"
)

func TestScheduleRunsJob(t *testing.T) {
	s := New(2)
	var ran atomic.Bool
	done := make(chan struct{})
	s.Schedule(func(scratch *arena.Arena) {
		ran.Store(true)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}
	if !ran.Load() {
		t.Fatal("expected job to have run")
	}
	s.Shutdown()
}

func TestHighPriorityPreferred(t *testing.T) {
	s := New(1)
	var order []int
	results := make(chan int, 2)
	// Block the single worker first so both jobs queue up before either runs.
	started := make(chan struct{})
	block := make(chan struct{})
	s.ScheduleHighPriority(func(scratch *arena.Arena) {
		close(started)
		<-block
		results <- 1
	})
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("blocking job never started")
	}
	s.Schedule(func(scratch *arena.Arena) { results <- 2 })
	s.ScheduleHighPriority(func(scratch *arena.Arena) { results <- 3 })
	close(block)
	for i := 0; i < 3; i++ {
		select {
		case v := <-results:
			order = append(order, v)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 results, got %d", len(order))
	}
	if order[1] != 3 || order[2] != 2 {
		t.Fatalf("expected queued high-priority job 3 before low-priority job 2, got order %v", order)
	}
	s.Shutdown()
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	s := New(2)
	const n = 50
	var count atomic.Int32
	for i := 0; i < n; i++ {
		s.Schedule(func(scratch *arena.Arena) { count.Add(1) })
	}
	s.Shutdown()
	if count.Load() != n {
		t.Fatalf("expected all %d jobs to run, got %d", n, count.Load())
	}
}

func TestLightThreadStagesAndFlood(t *testing.T) {
	s := New(1)
	done := make(chan struct{})
	var floodCount atomic.Int32
	s.Light().SchedulePropagation(func(scratch *arena.Arena) {
		s.Light().ScheduleCalculation(func(scratch *arena.Arena) {
			s.Light().ScheduleFlood(func(scratch *arena.Arena) {
				if floodCount.Add(1) < 2 {
					s.Light().ScheduleFlood(func(scratch *arena.Arena) {
						if floodCount.Add(1) >= 2 {
							close(done)
						}
					})
				} else {
					close(done)
				}
			})
		})
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("light pipeline never completed")
	}
	s.Shutdown()
}
