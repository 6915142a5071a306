// Package subdomain implements the concurrent scan dispatcher: the
// coordinator that owns the pending-subdomain queue and the resolver pool,
// drives a fixed-size pool of scanner goroutines, and carries the scan
// through to completion or failure.
//
// The dispatcher is architected as a single-consumer state machine: one
// goroutine (Run) owns all mutable state and processes commands off cmdCh
// one at a time, giving a total order on state transitions without a
// mutex. Scanner goroutines never touch dispatcher state directly; they
// only exchange typed commands over channels, mirroring the
// actor-per-worker design of the system this was distilled from.
package subdomain

import (
	"context"
	"fmt"
	"time"
)

// ScanState is the dispatcher's externally visible state.
type ScanState int

const (
	StateRunning ScanState = iota
	StatePaused
	StateCompleted
	StateFailed
	StateCancelled
)

func (s ScanState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// scanTask is what the dispatcher hands a scanner goroutine.
type scanTask struct {
	stop      bool
	subdomain string
	resolver  string
	timeout   time.Duration
}

type scannerHandle struct {
	id     int
	taskCh chan scanTask
}

// command is the dispatcher's single inbound protocol; every mutation to
// dispatcher state arrives as one of these, processed in Run's loop.
type command interface{ isCommand() }

type cmdAvailableForScan struct{ id int }
type cmdCompletedScan struct {
	id        int
	subdomain string
	resolver  string
	records   []Record
}
type cmdTimedOut struct {
	id         int
	subdomain  string
	resolver   string
	newTimeout time.Duration
}
type cmdFatalError struct {
	id        int
	subdomain string
	resolver  string
	reason    error
}
type cmdTerminated struct{ id int }
type cmdPause struct{ reply chan struct{} }
type cmdResume struct{}
type cmdPriorityScan struct{ label string }
type cmdNotifyOnCompletion struct{ reply chan ScanState }
type cmdDiscoveredResolver struct{ addr string }

func (cmdAvailableForScan) isCommand()   {}
func (cmdCompletedScan) isCommand()      {}
func (cmdTimedOut) isCommand()           {}
func (cmdFatalError) isCommand()         {}
func (cmdTerminated) isCommand()         {}
func (cmdPause) isCommand()              {}
func (cmdResume) isCommand()             {}
func (cmdPriorityScan) isCommand()       {}
func (cmdNotifyOnCompletion) isCommand() {}
func (cmdDiscoveredResolver) isCommand() {}

// Dispatcher coordinates a brute-force subdomain scan against hostname.
type Dispatcher struct {
	hostname string
	threads  int
	listener Listener
	scanner  Scanner

	pending   *SubdomainQueue
	resolvers *ResolverPool
	inFlight  map[string]struct{}
	timeouts  map[string]time.Duration

	scanners      map[int]*scannerHandle
	nextScannerID int

	paused      bool
	pausedCount int
	pauseReply  chan struct{}

	scansIssued int
	scansTotal  int

	completionSubscribers []chan ScanState

	state ScanState
	cmdCh chan command
	ctx   context.Context
}

// NewDispatcher constructs a dispatcher for one scan. subdomains and
// resolvers are the initial wordlist and resolver seed list; duplicates in
// subdomains are preserved.
func NewDispatcher(hostname string, threads int, subdomains, resolvers []string, listener Listener, scanner Scanner) *Dispatcher {
	return &Dispatcher{
		hostname:  hostname,
		threads:   threads,
		listener:  listener,
		scanner:   scanner,
		pending:   NewSubdomainQueue(subdomains),
		resolvers: NewResolverPool(resolvers),
		inFlight:  make(map[string]struct{}),
		timeouts:  make(map[string]time.Duration),
		scanners:  make(map[int]*scannerHandle),
		scansTotal: len(subdomains),
		cmdCh:     make(chan command, 64),
		state:     StateRunning,
	}
}

// Run drives the scan to completion, blocking until the dispatcher reaches
// a terminal state (Completed, Failed) or ctx is cancelled (Cancelled).
func (d *Dispatcher) Run(ctx context.Context) ScanState {
	d.ctx = ctx

	if d.threads <= 0 || d.pending.Remaining() == 0 {
		d.state = StateCompleted
		return d.state
	}
	if d.resolvers.Remaining() == 0 {
		d.listener.PrintTaskFailed("Scan aborted as all resolvers are dead.")
		d.state = StateFailed
		return d.state
	}

	for i := 0; i < d.threads; i++ {
		d.spawnScanner()
	}

	for {
		select {
		case cmd := <-d.cmdCh:
			d.handle(cmd)
			if d.state == StateCompleted || d.state == StateFailed {
				return d.state
			}
		case <-ctx.Done():
			d.stopAll()
			d.state = StateCancelled
			return d.state
		}
	}
}

// Pause requests a cooperative pause; the returned channel fires once every
// live scanner has finished its current task and gone idle.
func (d *Dispatcher) Pause() <-chan struct{} {
	reply := make(chan struct{}, 1)
	d.cmdCh <- cmdPause{reply: reply}
	return reply
}

// Resume restarts dispatch after a Pause.
func (d *Dispatcher) Resume() {
	d.cmdCh <- cmdResume{}
}

// PriorityScan jumps label to the front of the pending queue.
func (d *Dispatcher) PriorityScan(label string) {
	d.cmdCh <- cmdPriorityScan{label: label}
}

// NotifyOnCompletion registers a subscriber fired exactly once when the
// dispatcher reaches Completed or Failed from its command loop. A run that
// ends in Run's up-front checks (no threads, empty wordlist, no resolvers)
// never processes the registration, and the channel is not fired.
func (d *Dispatcher) NotifyOnCompletion() <-chan ScanState {
	reply := make(chan ScanState, 1)
	d.cmdCh <- cmdNotifyOnCompletion{reply: reply}
	return reply
}

// DiscoverResolver absorbs a resolver found after construction (typically
// by the prelude) into the pool, topping the scanner pool back up if it had
// previously shrunk for lack of resolvers.
func (d *Dispatcher) DiscoverResolver(addr string) {
	d.cmdCh <- cmdDiscoveredResolver{addr: addr}
}

func (d *Dispatcher) handle(cmd command) {
	switch c := cmd.(type) {
	case cmdAvailableForScan:
		d.assign(c.id)
	case cmdCompletedScan:
		d.onCompletedScan(c)
	case cmdTimedOut:
		d.onTimedOut(c)
	case cmdFatalError:
		d.onFatalError(c)
	case cmdTerminated:
		d.onTerminated(c.id)
	case cmdPause:
		d.onPause(c.reply)
	case cmdResume:
		d.onResume()
	case cmdPriorityScan:
		d.pending.EnqueuePriority(c.label)
	case cmdNotifyOnCompletion:
		d.completionSubscribers = append(d.completionSubscribers, c.reply)
	case cmdDiscoveredResolver:
		d.onDiscoveredResolver(c.addr)
	}
}

// assign implements the assignment policy: called whenever a scanner
// reports ready, whether for the first time or after completing/timing out
// a task.
func (d *Dispatcher) assign(id int) {
	if d.paused {
		d.pausedCount++
		if d.pauseReply != nil && d.pausedCount >= len(d.scanners) {
			d.pauseReply <- struct{}{}
			close(d.pauseReply)
			d.pauseReply = nil
		}
		return
	}

	h, ok := d.scanners[id]
	if !ok {
		return
	}

	if d.pending.Remaining() == 0 {
		h.taskCh <- scanTask{stop: true}
		return
	}

	if d.resolvers.Remaining() == 0 {
		d.listener.PrintWarning("There aren't enough resolvers for each thread. Reducing thread count by 1.")
		h.taskCh <- scanTask{stop: true}
		return
	}

	label, _ := d.pending.Dequeue()
	resolver, _ := d.resolvers.Dequeue()
	d.inFlight[label] = struct{}{}
	d.scansIssued++
	d.listener.PrintLastRequest(label, d.scansIssued, d.scansTotal)

	h.taskCh <- scanTask{subdomain: label, resolver: resolver, timeout: d.timeoutFor(label)}
}

func (d *Dispatcher) onCompletedScan(c cmdCompletedScan) {
	delete(d.inFlight, c.subdomain)
	delete(d.timeouts, c.subdomain)
	d.resolvers.Recycle(c.resolver)
	if len(c.records) > 0 {
		d.listener.PrintRecords(c.records)
	}
	d.assign(c.id)
}

func (d *Dispatcher) onTimedOut(c cmdTimedOut) {
	delete(d.inFlight, c.subdomain)
	d.timeouts[c.subdomain] = c.newTimeout
	d.pending.EnqueuePriority(c.subdomain)

	outcome, _ := d.resolvers.ReportTimeout(c.resolver)
	if outcome == ResolverBlacklisted {
		d.listener.PrintInfoDuringScan(fmt.Sprintf(
			"Lookup using %s timed out three times. Blacklisting resolver.", c.resolver))
	} else {
		d.listener.PrintInfoDuringScan(fmt.Sprintf(
			"Lookup of %s using %s timed out. Increasing timeout to %d seconds.",
			c.subdomain, c.resolver, int(c.newTimeout/time.Second)))
	}

	d.assign(c.id)
}

func (d *Dispatcher) onFatalError(c cmdFatalError) {
	// The subdomain stays in inFlight; it is swept back onto the pending
	// queue by onTerminated's respawn path along with every other
	// in-flight subdomain once the scanner pool empties out. This mirrors
	// the evident (if oddly expressed) intent of the source dispatcher.
	d.resolvers.Recycle(c.resolver)
	d.listener.PrintWarning(fmt.Sprintf("Scanner failed: %v", c.reason))
}

func (d *Dispatcher) onTerminated(id int) {
	delete(d.scanners, id)

	if d.paused && d.pausedCount > len(d.scanners) {
		d.pausedCount = len(d.scanners)
	}
	if d.paused && d.pauseReply != nil && d.pausedCount >= len(d.scanners) {
		d.pauseReply <- struct{}{}
		close(d.pauseReply)
		d.pauseReply = nil
	}

	if len(d.scanners) > 0 {
		return
	}

	if d.pending.Remaining() == 0 && len(d.inFlight) == 0 {
		if len(d.completionSubscribers) == 0 {
			d.listener.PrintError("The dispatcher doesn't know who to notify of completion! Terminating anyway.")
		}
		d.complete(StateCompleted)
		return
	}

	// Work remains but every scanner is gone: requeue everything in
	// flight and try to respawn.
	for s := range d.inFlight {
		d.pending.Requeue(s)
	}
	d.inFlight = make(map[string]struct{})

	k := min3(d.pending.Remaining(), d.resolvers.Remaining(), d.threads)
	if k <= 0 {
		d.listener.PrintTaskFailed("Scan aborted as all resolvers are dead.")
		d.complete(StateFailed)
		return
	}
	for i := 0; i < k; i++ {
		d.spawnScanner()
	}
}

func (d *Dispatcher) onPause(reply chan struct{}) {
	d.paused = true
	d.pausedCount = 0
	d.pauseReply = reply
	d.listener.PrintPausingThreads(len(d.scanners))

	if len(d.scanners) == 0 && d.pauseReply != nil {
		d.pauseReply <- struct{}{}
		close(d.pauseReply)
		d.pauseReply = nil
	}
}

func (d *Dispatcher) onResume() {
	d.paused = false
	d.pausedCount = 0
	d.pauseReply = nil
	d.listener.PrintInfo("Resumed scanning.")
	for id := range d.scanners {
		d.assign(id)
	}
}

func (d *Dispatcher) onDiscoveredResolver(addr string) {
	d.resolvers.Absorb(addr)
	target := min3(d.pending.Remaining(), d.resolvers.Remaining(), d.threads)
	for len(d.scanners) < target {
		d.spawnScanner()
	}
}

func (d *Dispatcher) complete(state ScanState) {
	d.state = state
	for _, sub := range d.completionSubscribers {
		sub <- state
		close(sub)
	}
	d.completionSubscribers = nil
}

func (d *Dispatcher) timeoutFor(label string) time.Duration {
	if t, ok := d.timeouts[label]; ok {
		return t
	}
	return initialTimeout
}

func (d *Dispatcher) spawnScanner() {
	id := d.nextScannerID
	d.nextScannerID++
	h := &scannerHandle{id: id, taskCh: make(chan scanTask, 1)}
	d.scanners[id] = h
	go d.runScanner(h)
}

func (d *Dispatcher) stopAll() {
	for _, h := range d.scanners {
		select {
		case h.taskCh <- scanTask{stop: true}:
		default:
		}
	}
}

// runScanner is the body of one scanner goroutine: it reports ready, waits
// for a task, performs the lookup, reports the outcome, and loops until
// told to stop. A panic is treated as a fatal termination so the
// dispatcher always learns the scanner is gone.
func (d *Dispatcher) runScanner(h *scannerHandle) {
	defer func() {
		recover()
		d.cmdCh <- cmdTerminated{id: h.id}
	}()

	d.cmdCh <- cmdAvailableForScan{id: h.id}

	for task := range h.taskCh {
		if task.stop {
			return
		}

		fqdn := task.subdomain + "." + d.hostname
		result := d.scanner.Scan(d.ctx, fqdn, task.resolver, task.timeout)

		switch result.Outcome {
		case OutcomeSuccess:
			d.cmdCh <- cmdCompletedScan{id: h.id, subdomain: task.subdomain, resolver: task.resolver, records: result.Records}
		case OutcomeTimeout:
			d.cmdCh <- cmdTimedOut{id: h.id, subdomain: task.subdomain, resolver: task.resolver, newTimeout: result.NewTimeout}
		case OutcomeFatal:
			d.cmdCh <- cmdFatalError{id: h.id, subdomain: task.subdomain, resolver: task.resolver, reason: result.Err}
			return
		}
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
