package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/reconsuite/subscan/subdomain"
)

// flushGrace is how long anyStillFlushing waits for a file sink's queued
// writes to drain before treating it as still flushing.
const flushGrace = 50 * time.Millisecond

// installSignalHandler wires SIGINT to the dispatcher's pause/resume
// protocol: the first interrupt pauses the scan and prompts for
// resume-or-quit; a second interrupt while paused (or a 'q' answer)
// cancels the run outright. fileOutputs are the configured file sinks
// (CSV/text), checked on cancellation so an incomplete-report warning can
// be emitted if one is still flushing. Returns a func that stops listening.
func installSignalHandler(ctx context.Context, cancel context.CancelFunc, d *subdomain.Dispatcher, listener subdomain.Listener, fileOutputs []subdomain.Output) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				handleInterrupt(ctx, cancel, d, listener, sigCh, fileOutputs)
			}
		}
	}()

	return func() { signal.Stop(sigCh) }
}

func handleInterrupt(ctx context.Context, cancel context.CancelFunc, d *subdomain.Dispatcher, listener subdomain.Listener, sigCh <-chan os.Signal, fileOutputs []subdomain.Output) {
	reply := d.Pause()
	select {
	case <-reply:
	case <-ctx.Done():
		return
	}

	listener.PrintPauseOptions()

	answer := make(chan byte, 1)
	go func() {
		var b [1]byte
		if _, err := os.Stdin.Read(b[:]); err == nil {
			answer <- b[0]
		}
	}()

	select {
	case b := <-answer:
		switch b {
		case 'r', 'R':
			d.Resume()
		case 'q', 'Q':
			cancelByUser(cancel, listener, fileOutputs)
		default:
			listener.PrintInvalidPauseOptions()
			d.Resume()
		}
	case <-sigCh:
		cancelByUser(cancel, listener, fileOutputs)
	case <-ctx.Done():
	}
}

func cancelByUser(cancel context.CancelFunc, listener subdomain.Listener, fileOutputs []subdomain.Output) {
	fmt.Println()
	fmt.Println()
	listener.PrintErrorWithoutTime("Cancelled by the user")
	if anyStillFlushing(fileOutputs) {
		listener.PrintErrorWithoutTime("WARNING: Reports may not be complete due to unexpected exit.")
	}
	cancel()
}

// anyStillFlushing reports whether any of outputs still has writes queued
// from before this call, giving each sink a short grace period to drain
// before treating it as still flushing.
func anyStillFlushing(outputs []subdomain.Output) bool {
	for _, o := range outputs {
		select {
		case <-o.Flushed():
		case <-time.After(flushGrace):
			return true
		}
	}
	return false
}
