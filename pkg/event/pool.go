package event

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// ErrPoolFull is returned by submit when every worker is busy and the
// queue is at capacity.
var ErrPoolFull = errors.New("event: worker pool is full")

// ErrPoolClosed is returned by submit after shutdown.
var ErrPoolClosed = errors.New("event: worker pool is closed")

// pool is a bounded goroutine pool. submit never blocks.
type pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	closeMu sync.Once
}

func newPool(workers, queue int) *pool {
	if workers <= 0 {
		workers = 1
	}
	if queue < workers {
		queue = workers * 2
	}

	p := &pool{tasks: make(chan func(), queue)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *pool) submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// shutdown stops accepting tasks and waits for queued ones to finish.
func (p *pool) shutdown() {
	p.closeMu.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event: listener panicked", "panic", fmt.Sprintf("%v", r))
		}
	}()
	task()
}
