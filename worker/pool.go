package worker // import "github.com/jimui/biblioteca/worker"

import (
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/store"
)

// WorkPool accepts jobs for background execution.
type WorkPool interface {
	Push(job model.Job)
}

// DownloadPool runs the offline-download workers.
type DownloadPool struct {
	queue chan model.Job
}

// NewDownloadPool creates a pool of background download workers.
func NewDownloadPool(store *store.Store, size int) *DownloadPool {
	pool := &DownloadPool{
		queue: make(chan model.Job),
	}

	for i := 0; i < size; i++ {
		worker := &DownloadWorker{id: i, store: store}
		go worker.Run(pool.queue)
	}
	return pool
}

func (p *DownloadPool) Push(job model.Job) {
	p.queue <- job
}
