package subdomain

import (
	"fmt"
	"sync"
)

// Output is the narrow contract a sink (terminal, CSV file, plain-text
// file, ...) implements. The Listener fans every event out to each
// configured Output.
type Output interface {
	PrintHeader(title string)
	PrintConfig(cfg map[string]string)
	PrintTarget(hostname string)
	PrintStatus(msg string)
	PrintSuccess(msg string)
	PrintInfo(msg string)
	PrintInfoDuringScan(msg string)
	PrintWarning(msg string)
	PrintError(msg string)
	PrintErrorWithoutTime(msg string)
	PrintTaskCompleted(msg string)
	PrintTaskFailed(msg string)
	PrintLastRequest(formatted string)
	PrintRecords(records []Record)
	PrintRecordsDuringScan(records []Record)
	PrintPausingThreads(n int)
	PrintPauseOptions()
	PrintInvalidPauseOptions()

	// Flushed closes once every write submitted to this output before the
	// call has been written to its destination.
	Flushed() <-chan struct{}
}

// Listener is the event sink the dispatcher drives. It owns record
// filtering/de-duplication and fans surviving events out to every
// configured Output.
type Listener interface {
	PrintHeader(title string)
	PrintConfig(cfg map[string]string)
	PrintTarget(hostname string)
	PrintStatus(msg string)
	PrintSuccess(msg string)
	PrintInfo(msg string)
	PrintInfoDuringScan(msg string)
	PrintWarning(msg string)
	PrintError(msg string)
	PrintErrorWithoutTime(msg string)
	PrintTaskCompleted(msg string)
	PrintTaskFailed(msg string)
	PrintLastRequest(subdomain string, issued, total int)
	PrintRecords(records []Record)
	PrintRecordsDuringScan(records []Record)
	PrintPausingThreads(n int)
	PrintPauseOptions()
	PrintInvalidPauseOptions()

	// Flushed closes once every configured Output has flushed.
	Flushed() <-chan struct{}
}

// FanoutListener is the default Listener: it filters suppressed record
// types, de-duplicates by value across the whole scan, and forwards
// survivors (in order) to every configured Output.
type FanoutListener struct {
	mu      sync.Mutex
	outputs []Output
	seen    map[Record]struct{}
}

// NewFanoutListener builds a listener driving the given outputs.
func NewFanoutListener(outputs ...Output) *FanoutListener {
	return &FanoutListener{
		outputs: outputs,
		seen:    make(map[Record]struct{}),
	}
}

func (l *FanoutListener) PrintHeader(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintHeader(title)
	}
}

func (l *FanoutListener) PrintConfig(cfg map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintConfig(cfg)
	}
}

func (l *FanoutListener) PrintTarget(hostname string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintTarget(hostname)
	}
}

func (l *FanoutListener) PrintStatus(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintStatus(msg)
	}
}

func (l *FanoutListener) PrintSuccess(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintSuccess(msg)
	}
}

func (l *FanoutListener) PrintInfo(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintInfo(msg)
	}
}

func (l *FanoutListener) PrintInfoDuringScan(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintInfoDuringScan(msg)
	}
}

func (l *FanoutListener) PrintWarning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintWarning(msg)
	}
}

func (l *FanoutListener) PrintError(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintError(msg)
	}
}

func (l *FanoutListener) PrintErrorWithoutTime(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintErrorWithoutTime(msg)
	}
}

func (l *FanoutListener) PrintTaskCompleted(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintTaskCompleted(msg)
	}
}

func (l *FanoutListener) PrintTaskFailed(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintTaskFailed(msg)
	}
}

// PrintLastRequest renders "{pct:.2f}% - Last request to: {s}", clamping
// the percentage at 100.00 since scansIssued counts retries too and can
// exceed scansTotal.
func (l *FanoutListener) PrintLastRequest(subdomain string, issued, total int) {
	pct := 0.0
	if total > 0 {
		pct = (float64(issued) / float64(total)) * 100
	}
	if pct > 100 {
		pct = 100
	}
	formatted := fmt.Sprintf("%.2f%% - Last request to: %s", pct, subdomain)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintLastRequest(formatted)
	}
}

// PrintRecords filters and de-duplicates records, then forwards the
// survivors to every output.
func (l *FanoutListener) PrintRecords(records []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	survivors := l.filter(records)
	if len(survivors) == 0 {
		return
	}
	for _, o := range l.outputs {
		o.PrintRecords(survivors)
	}
}

// PrintRecordsDuringScan is the mid-scan equivalent of PrintRecords,
// sharing the same filter/de-dup pass so a record is never double-counted
// between the two.
func (l *FanoutListener) PrintRecordsDuringScan(records []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	survivors := l.filter(records)
	if len(survivors) == 0 {
		return
	}
	for _, o := range l.outputs {
		o.PrintRecordsDuringScan(survivors)
	}
}

// filter must be called with l.mu held.
func (l *FanoutListener) filter(records []Record) []Record {
	survivors := make([]Record, 0, len(records))
	for _, r := range records {
		if r.suppressed() {
			continue
		}
		if _, dup := l.seen[r]; dup {
			continue
		}
		l.seen[r] = struct{}{}
		survivors = append(survivors, r)
	}
	return survivors
}

func (l *FanoutListener) PrintPausingThreads(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintPausingThreads(n)
	}
}

func (l *FanoutListener) PrintPauseOptions() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintPauseOptions()
	}
}

func (l *FanoutListener) PrintInvalidPauseOptions() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outputs {
		o.PrintInvalidPauseOptions()
	}
}

// Flushed closes once every configured output has flushed.
func (l *FanoutListener) Flushed() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		for _, o := range l.outputs {
			<-o.Flushed()
		}
		close(done)
	}()
	return done
}
