// Package output provides the concrete Output sinks: a colorized terminal,
// a CSV file, and a plain-text file. Each sink serializes its own writes
// through a single background goroutine (adapted from the recon-suite
// scanner's utils.WorkerPool, narrowed from its interface{} job/result
// channels down to a single typed job closure per sink) so a slow file
// sink does not hold up the terminal sink or the dispatcher goroutine that
// calls into the listener while its job queue has room; once a sink's
// queue is full, submitting to it blocks the caller.
package output

// job is one unit of sink work, queued from the listener's goroutine and
// run on the sink's own worker goroutine.
type job func()

// worker runs queued jobs one at a time in submission order and reports
// completion once its queue is closed and drained.
type worker struct {
	jobs chan job
	done chan struct{}
}

func newWorker(buffer int) *worker {
	if buffer <= 0 {
		buffer = 64
	}
	w := &worker{
		jobs: make(chan job, buffer),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *worker) run() {
	for j := range w.jobs {
		j()
	}
	close(w.done)
}

// submit queues a job, blocking while the queue is full. Calling it after
// closeAndWait panics, as any send on a closed channel does.
func (w *worker) submit(j job) {
	w.jobs <- j
}

// closeAndWait closes the queue and blocks until every queued job has run.
func (w *worker) closeAndWait() {
	close(w.jobs)
	<-w.done
}

// barrier returns a channel that closes once every job submitted before
// this call has run, without shutting the worker down.
func (w *worker) barrier() <-chan struct{} {
	reached := make(chan struct{})
	w.submit(func() { close(reached) })
	return reached
}
