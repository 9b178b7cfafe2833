package deco

import "sync"

// IdleQueue is a Scheduler whose jobs run when the host calls Drain, usually
// once per event batch.
type IdleQueue struct {
	mu   sync.Mutex
	jobs []func()
}

// Schedule queues fn for the next Drain.
func (q *IdleQueue) Schedule(fn func()) {
	q.mu.Lock()
	q.jobs = append(q.jobs, fn)
	q.mu.Unlock()
}

// Pending returns the number of queued jobs.
func (q *IdleQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Drain runs every job queued so far. Jobs scheduled while draining run on
// the next call.
func (q *IdleQueue) Drain() int {
	q.mu.Lock()
	jobs := q.jobs
	q.jobs = nil
	q.mu.Unlock()

	for _, fn := range jobs {
		fn()
	}
	return len(jobs)
}

// immediate runs jobs synchronously. It is used when no scheduler is given.
type immediate struct{}

func (immediate) Schedule(fn func()) { fn() }
