package executor

import (
	"sync"
	"testing"
)

func TestPoolRunsAllSubmittedTasks(t *testing.T) {
	p := NewPool(4, 16)
	var mu sync.Mutex
	seen := make(map[int]bool)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		i := i
		p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		})
	}
	wg.Wait()
	p.Close()

	if len(seen) != 20 {
		t.Fatalf("expected 20 tasks run, got %d", len(seen))
	}
}

func TestPoolRecoversPanickingTask(t *testing.T) {
	p := NewPool(1, 4)
	done := make(chan struct{})

	p.Submit(func() { panic("boom") })
	p.Submit(func() { close(done) })

	<-done
	p.Close()
}

func TestNewPoolDefaultsZeroSize(t *testing.T) {
	p := NewPool(0, 0)
	done := make(chan struct{})
	p.Submit(func() { close(done) })
	<-done
	p.Close()
}
