// Background detail-enrichment worker
// One consumer goroutine drains the work queue and publishes enriched jobs

package scraper

import (
	"log"
	"sync"
	"time"
)

// pollInterval bounds how long the consumer blocks on an empty queue, so a
// stop request is observed within one interval.
const pollInterval = 1 * time.Second

// DetailFetcher enriches a job with its full description. Pipeline
// implements it; tests substitute stubs.
type DetailFetcher interface {
	JobDetails(job Job) Job
}

// Worker owns the unbounded work queue and the results queue. The work queue
// accepts multiple concurrent producers; exactly one consumer goroutine
// drains it, so results come out in submission order.
type Worker struct {
	fetcher DetailFetcher
	queue   *fifo[QueueItem]
	results *fifo[Job]

	mu      sync.Mutex
	running bool
	stopc   chan struct{}
	done    chan struct{}
}

func NewWorker(fetcher DetailFetcher) *Worker {
	return &Worker{
		fetcher: fetcher,
		queue:   newFifo[QueueItem](),
		results: newFifo[Job](),
	}
}

// Start launches the consumer loop. Calling Start on a running worker is a
// no-op.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopc = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(w.stopc, w.done)
	log.Println("▶️ Background worker started")
}

// Stop asks the consumer loop to exit and waits up to timeout. On timeout
// the loop is abandoned; it will still notice the stop flag on its next poll.
// Returns false when the wait timed out.
func (w *Worker) Stop(timeout time.Duration) bool {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return true
	}
	w.running = false
	close(w.stopc)
	done := w.done
	w.mu.Unlock()

	select {
	case <-done:
		log.Println("⏹️ Background worker stopped")
		return true
	case <-time.After(timeout):
		log.Println("⚠️ Background worker did not stop in time, abandoning")
		return false
	}
}

// Enqueue submits a job for detail enrichment. Never blocks, never fails.
func (w *Worker) Enqueue(job Job, params SearchRequest) {
	w.queue.push(QueueItem{Job: job, Params: params})
}

// PollResult blocks up to timeout for the next enriched job; a timeout <= 0
// blocks indefinitely. Returns nil when no result arrived in time.
func (w *Worker) PollResult(timeout time.Duration) *Job {
	job, ok := w.results.pop(timeout)
	if !ok {
		return nil
	}
	return &job
}

func (w *Worker) loop(stopc, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stopc:
			return
		default:
		}

		item, ok := w.queue.pop(pollInterval)
		if !ok {
			continue
		}
		w.processItem(item)
	}
}

// processItem isolates per-item failures so one bad job never kills the loop.
func (w *Worker) processItem(item QueueItem) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Error processing job %q: %v", item.Job.Title, r)
		}
	}()
	enriched := w.fetcher.JobDetails(item.Job)
	w.results.push(enriched)
}

// fifo is an unbounded FIFO safe for concurrent producers and consumers.
// push never blocks; pop blocks with a bounded (or absent) timeout.
type fifo[T any] struct {
	mu    sync.Mutex
	items []T
	wake  chan struct{}
}

func newFifo[T any]() *fifo[T] {
	return &fifo[T]{wake: make(chan struct{}, 1)}
}

func (q *fifo[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *fifo[T]) tryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

// pop returns the oldest item, waiting up to timeout for one to arrive.
// timeout <= 0 waits indefinitely.
func (q *fifo[T]) pop(timeout time.Duration) (T, bool) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		if v, ok := q.tryPop(); ok {
			return v, true
		}

		if timeout <= 0 {
			<-q.wake
			continue
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, false
		}
		select {
		case <-q.wake:
		case <-time.After(remaining):
		}
	}
}
