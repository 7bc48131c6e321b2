package workers

import (
	"context"
	"sync"
)

type Workers struct {
	workers []Worker

	wg sync.WaitGroup
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run launches every worker on its own goroutine and returns immediately.
// Workers stop when ctx is cancelled; Wait blocks until they have.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func(worker Worker) {
			defer w.wg.Done()
			worker.Run(ctx)
		}(worker)
	}
}

// Wait blocks until every launched worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}
