package plays

import (
	"context"
	"sync"
)

// semaphore limits how many tasks execute at once. A limit of 0 means
// unlimited: Acquire always succeeds immediately. Dependency waiting
// happens before acquisition, so a blocked dependent never holds a slot
// its dependency needs.
type semaphore struct {
	mu       sync.Mutex
	cond     *sync.Cond
	limit    int // 0 = unlimited
	acquired int
}

// newSemaphore creates a semaphore with the given limit. Negative values
// are clamped to 0.
func newSemaphore(limit int) *semaphore {
	if limit < 0 {
		limit = 0
	}
	s := &semaphore{limit: limit}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Acquire blocks until a slot is available or the context is canceled.
// A helper goroutine broadcasts on cancellation so blocked waiters wake
// up and return the context error instead of sleeping forever.
func (s *semaphore) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit == 0 {
		s.acquired++
		return nil
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.cond.Broadcast()
		case <-done:
		}
	}()

	for s.acquired >= s.limit {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.cond.Wait()
	}

	// Re-check after waking; the wake may have been from cancellation.
	if err := ctx.Err(); err != nil {
		return err
	}

	s.acquired++
	return nil
}

// Release frees a slot and signals one waiting goroutine.
func (s *semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.acquired > 0 {
		s.acquired--
	}
	s.cond.Signal()
}
