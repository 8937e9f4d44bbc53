package dispatch

import (
	"context"
	"sync"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

// job is one pending deployment for a target.
type job struct {
	target  domain.RepoTarget
	commit  domain.Commit
	devMode bool
}

// queue serializes deployments per (repository, branch) key. While a run
// is in flight the newest push waits in a single pending slot; a later
// push for the same key replaces it, so the eventual run always uses the
// freshest commit metadata. Distinct keys run fully in parallel.
type queue struct {
	execute func(context.Context, domain.RepoTarget, domain.Commit, bool)

	mu      sync.Mutex
	workers map[string]*worker
	wg      sync.WaitGroup
}

type worker struct {
	running bool
	pending *job
}

func newQueue(execute func(context.Context, domain.RepoTarget, domain.Commit, bool)) *queue {
	return &queue{execute: execute, workers: make(map[string]*worker)}
}

// enqueue schedules a job for its key, coalescing with any queued push.
func (q *queue) enqueue(ctx context.Context, j job) {
	key := j.target.Key()

	q.mu.Lock()
	w, ok := q.workers[key]
	if !ok {
		w = &worker{}
		q.workers[key] = w
	}
	if w.running {
		w.pending = &j
		q.mu.Unlock()
		return
	}
	w.running = true
	q.mu.Unlock()

	q.wg.Add(1)
	go q.drain(ctx, w, j)
}

// drain runs jobs for one key until the pending slot is empty.
func (q *queue) drain(ctx context.Context, w *worker, first job) {
	defer q.wg.Done()

	current := first
	for {
		q.execute(ctx, current.target, current.commit, current.devMode)

		q.mu.Lock()
		if w.pending == nil {
			w.running = false
			q.mu.Unlock()
			return
		}
		current = *w.pending
		w.pending = nil
		q.mu.Unlock()
	}
}

// wait blocks until all in-flight deployments finish.
func (q *queue) wait() {
	q.wg.Wait()
}
