package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/reconsuite/subscan/subdomain"
)

// Terminal is the colorized console sink (grounded on fatih/color, used the
// same way by OWASP/Amass and fkr00t/subcollector to color a recon tool's
// console output).
type Terminal struct {
	w   *worker
	out io.Writer

	info, warn, fail, success, title *color.Color
	recordColors                     map[subdomain.RecordType]*color.Color
}

// NewTerminal builds a Terminal writing to out. When enableColor is false,
// every write is plain text.
func NewTerminal(out io.Writer, enableColor bool) *Terminal {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		c.EnableColor()
		if !enableColor {
			c.DisableColor()
		}
		return c
	}

	return &Terminal{
		w:       newWorker(256),
		out:     out,
		info:    mk(color.FgCyan),
		warn:    mk(color.FgYellow),
		fail:    mk(color.FgRed),
		success: mk(color.FgGreen),
		title:   mk(color.FgHiWhite, color.Bold),
		recordColors: map[subdomain.RecordType]*color.Color{
			subdomain.RecordA:     mk(color.FgGreen),
			subdomain.RecordAAAA:  mk(color.FgGreen),
			subdomain.RecordCNAME: mk(color.FgMagenta),
			subdomain.RecordMX:    mk(color.FgBlue),
			subdomain.RecordNS:    mk(color.FgCyan),
			subdomain.RecordTXT:   mk(color.FgWhite),
		},
	}
}

func (t *Terminal) PrintHeader(title string) {
	t.w.submit(func() { t.title.Fprintln(t.out, title) })
}

func (t *Terminal) PrintConfig(cfg map[string]string) {
	t.w.submit(func() {
		for k, v := range cfg {
			fmt.Fprintf(t.out, "  %s: %s\n", k, v)
		}
	})
}

func (t *Terminal) PrintTarget(hostname string) {
	t.w.submit(func() { t.title.Fprintf(t.out, "Target: %s\n", hostname) })
}

func (t *Terminal) PrintStatus(msg string) {
	t.w.submit(func() { fmt.Fprintln(t.out, msg) })
}

func (t *Terminal) PrintSuccess(msg string) {
	t.w.submit(func() { t.success.Fprintf(t.out, "[+] %s\n", msg) })
}

func (t *Terminal) PrintInfo(msg string) {
	t.w.submit(func() { t.info.Fprintf(t.out, "[*] %s\n", msg) })
}

func (t *Terminal) PrintInfoDuringScan(msg string) {
	t.PrintInfo(msg)
}

func (t *Terminal) PrintWarning(msg string) {
	t.w.submit(func() { t.warn.Fprintf(t.out, "[!] %s\n", msg) })
}

func (t *Terminal) PrintError(msg string) {
	t.w.submit(func() {
		t.fail.Fprintf(t.out, "[%s] [ERROR] %s\n", time.Now().Format(time.RFC3339), msg)
	})
}

func (t *Terminal) PrintErrorWithoutTime(msg string) {
	t.w.submit(func() { t.fail.Fprintf(t.out, "[ERROR] %s\n", msg) })
}

func (t *Terminal) PrintTaskCompleted(msg string) {
	t.PrintSuccess(msg)
}

func (t *Terminal) PrintTaskFailed(msg string) {
	t.PrintError(msg)
}

func (t *Terminal) PrintLastRequest(formatted string) {
	t.w.submit(func() { fmt.Fprintf(t.out, "\r%s", formatted) })
}

func (t *Terminal) PrintRecords(records []subdomain.Record) {
	t.w.submit(func() {
		for _, r := range records {
			c, ok := t.recordColors[r.Type]
			if !ok {
				c = t.info
			}
			c.Fprintf(t.out, "%s\t%s\t%s\n", r.Name, r.Type, r.Data)
		}
	})
}

func (t *Terminal) PrintRecordsDuringScan(records []subdomain.Record) {
	t.PrintRecords(records)
}

func (t *Terminal) PrintPausingThreads(n int) {
	t.w.submit(func() { t.warn.Fprintf(t.out, "Pausing %d thread(s)...\n", n) })
}

func (t *Terminal) PrintPauseOptions() {
	t.w.submit(func() { fmt.Fprintln(t.out, "Paused. Press 'r' to resume, 'q' to quit.") })
}

func (t *Terminal) PrintInvalidPauseOptions() {
	t.w.submit(func() { t.warn.Fprintln(t.out, "Unrecognized option; press 'r' to resume, 'q' to quit.") })
}

func (t *Terminal) Flushed() <-chan struct{} {
	return t.w.barrier()
}
