package semaphore

import "context"

// Semaphore bounds the number of requests in flight against a shared upstream.
type Semaphore struct {
	ch chan struct{}
}

func New(max int) *Semaphore {
	if max < 1 {
		max = 1
	}
	sema := &Semaphore{
		ch: make(chan struct{}, max),
	}
	for i := 0; i < max; i++ {
		sema.ch <- struct{}{}
	}

	return sema
}

func (sema *Semaphore) Acquire(ctx context.Context) error {
	select {
	case <-sema.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (sema *Semaphore) Release() {
	sema.ch <- struct{}{}
}
