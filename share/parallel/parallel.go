package parallel

import (
	"context"
	"sync"
	"time"
)

const idleTimeout = 5 * time.Second

type Task func(ctx context.Context) error

type Pool interface {
	Reset(ctx context.Context)
	Add(f Task)
	Stop()
	Wait() error
}

// pool runs tasks on at most workersMax goroutines. The first task error cancels the
// pool context and is returned by Wait; later errors are dropped.
type pool struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	wg sync.WaitGroup

	queue     []Task
	queueLock sync.Mutex
	queueWake chan struct{}

	errLock   sync.Mutex
	lastError error

	workersLock sync.Mutex
	workers     int
	workersMax  int
}

func New(workers int) Pool {
	if workers < 1 {
		workers = 1
	}
	p := &pool{
		queue:      make([]Task, 0, workers),
		queueWake:  make(chan struct{}, 1),
		workersMax: workers,
	}
	p.Reset(context.Background())

	return p
}

// Reset binds the pool to ctx and clears the previous error. Call it between batches.
func (p *pool) Reset(ctx context.Context) {
	p.errLock.Lock()
	defer p.errLock.Unlock()

	if p.ctxCancel != nil {
		p.ctxCancel()
	}
	p.lastError = nil
	p.ctx, p.ctxCancel = context.WithCancel(ctx)
}

func (p *pool) current() (context.Context, context.CancelFunc) {
	p.errLock.Lock()
	defer p.errLock.Unlock()

	return p.ctx, p.ctxCancel
}

func (p *pool) Add(f Task) {
	p.wg.Add(1)

	p.queueLock.Lock()
	p.queue = append(p.queue, f)
	p.queueLock.Unlock()

	p.workersLock.Lock()
	if p.workers < p.workersMax {
		p.workers++
		go p.work()
	}
	p.workersLock.Unlock()

	select {
	case p.queueWake <- struct{}{}:
	default:
	}
}

func (p *pool) Stop() {
	_, cancel := p.current()
	cancel()
}

func (p *pool) Wait() error {
	p.wg.Wait()

	p.errLock.Lock()
	defer p.errLock.Unlock()
	return p.lastError
}

func (p *pool) next() Task {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	if len(p.queue) == 0 {
		return nil
	}
	f := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue[len(p.queue)-1] = nil
	p.queue = p.queue[:len(p.queue)-1]
	return f
}

func (p *pool) work() {
	for {
		f := p.next()
		if f == nil {
			select {
			case <-time.After(idleTimeout):
			case <-p.queueWake:
				continue
			}

			p.workersLock.Lock()
			p.queueLock.Lock()
			pending := len(p.queue)
			p.queueLock.Unlock()
			if pending == 0 {
				p.workers--
				p.workersLock.Unlock()
				return
			}
			p.workersLock.Unlock()
			continue
		}

		ctx, cancel := p.current()
		err := f(ctx)
		if err != nil {
			p.errLock.Lock()
			if p.lastError == nil {
				p.lastError = err
				cancel()
			}
			p.errLock.Unlock()
		}
		p.wg.Done()
	}
}
