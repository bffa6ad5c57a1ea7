package fanout

import (
	"context"
	"log"
	"sync"
)

// pool is a bounded worker pool. Each fan-out path owns one so a stalled
// downstream on one path cannot starve the others.
type pool struct {
	name  string
	tasks chan func(ctx context.Context)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newPool(name string, workers, buffer int) *pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{
		name:   name,
		tasks:  make(chan func(ctx context.Context), buffer),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}

	return p
}

func (p *pool) run() {
	defer p.wg.Done()

	for {
		select {
		case task := <-p.tasks:
			task(p.ctx)
		case <-p.ctx.Done():
			return
		}
	}
}

// submit enqueues without blocking. A full queue drops the task: every
// path is best-effort beyond the durable persist that already happened.
func (p *pool) submit(task func(ctx context.Context)) {
	select {
	case p.tasks <- task:
	case <-p.ctx.Done():
	default:
		log.Printf("%s queue full, dropping task", p.name)
	}
}

func (p *pool) shutdown() {
	p.cancel()
	p.wg.Wait()
}
