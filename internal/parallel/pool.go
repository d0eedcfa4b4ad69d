package parallel

import (
	"context"
	"sync"
	"time"
)

// Pool runs queued jobs on at most workersMax goroutines. The first job to
// fail cancels the context handed to the rest.
type Pool interface {
	Reset(ctx context.Context)
	Add(f func(ctx context.Context) error)
	Stop()
	Wait() error
}

const idleTimeout = 5 * time.Second

type pool struct {
	ctx       context.Context
	ctxCancel func()

	wg sync.WaitGroup

	queue     []func(ctx context.Context) error
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
		queue:      make([]func(ctx context.Context) error, 0, workers),
		queueWake:  make(chan struct{}),
		workersMax: workers,
	}
	p.Reset(context.Background())

	return p
}

func (p *pool) Reset(ctx context.Context) {
	p.ctx, p.ctxCancel = context.WithCancel(ctx)
}

func (p *pool) Add(f func(ctx context.Context) error) {
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

// Stop cancels the context handed to jobs and lets idle workers exit.
func (p *pool) Stop() {
	p.ctxCancel()
}

// Wait blocks until every queued job returned and reports the first error.
func (p *pool) Wait() error {
	p.wg.Wait()

	p.errLock.Lock()
	defer p.errLock.Unlock()
	return p.lastError
}

func (p *pool) next() func(ctx context.Context) error {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	if len(p.queue) == 0 {
		return nil
	}
	f := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue = p.queue[:len(p.queue)-1]
	return f
}

func (p *pool) work() {
	for {
		f := p.next()
		if f == nil {
			select {
			case <-time.After(idleTimeout):
				p.workersLock.Lock()
				// A job queued while the timer ran still needs a worker.
				if p.pending() {
					p.workersLock.Unlock()
					continue
				}
				p.workers--
				p.workersLock.Unlock()
				return

			case <-p.queueWake:

			case <-p.ctx.Done():
				p.workersLock.Lock()
				// Queued jobs still run so Wait can return; they see the
				// cancelled context.
				if p.pending() {
					p.workersLock.Unlock()
					continue
				}
				p.workers--
				p.workersLock.Unlock()
				return
			}

			continue
		}

		err := f(p.ctx)
		if err != nil {
			p.errLock.Lock()
			if p.lastError == nil {
				p.lastError = err
				p.ctxCancel()
			}
			p.errLock.Unlock()
		}
		p.wg.Done()
	}
}

func (p *pool) pending() bool {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()
	return len(p.queue) > 0
}
