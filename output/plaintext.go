package output

import (
	"fmt"
	"io"

	"github.com/reconsuite/subscan/subdomain"
)

// PlainText is the tab-separated record sink: one "name\ttype\tdata" line
// per discovered record, with no color codes or timestamps, suitable for
// piping into other tools.
type PlainText struct {
	w   *worker
	out io.Writer
}

// NewPlainText builds a PlainText writing to out. The caller owns closing out.
func NewPlainText(out io.Writer) *PlainText {
	return &PlainText{w: newWorker(256), out: out}
}

func (p *PlainText) PrintHeader(string)            {}
func (p *PlainText) PrintConfig(map[string]string) {}
func (p *PlainText) PrintTarget(string)            {}
func (p *PlainText) PrintStatus(string)            {}
func (p *PlainText) PrintSuccess(string)           {}
func (p *PlainText) PrintInfo(string)              {}
func (p *PlainText) PrintInfoDuringScan(string)    {}
func (p *PlainText) PrintWarning(string)           {}
func (p *PlainText) PrintError(string)             {}
func (p *PlainText) PrintErrorWithoutTime(string)  {}
func (p *PlainText) PrintTaskCompleted(string)     {}
func (p *PlainText) PrintTaskFailed(string)        {}
func (p *PlainText) PrintLastRequest(string)       {}
func (p *PlainText) PrintPausingThreads(int)       {}
func (p *PlainText) PrintPauseOptions()            {}
func (p *PlainText) PrintInvalidPauseOptions()     {}

func (p *PlainText) PrintRecords(records []subdomain.Record) {
	p.w.submit(func() {
		for _, r := range records {
			fmt.Fprintf(p.out, "%s\t%s\t%s\n", r.Name, r.Type, r.Data)
		}
	})
}

func (p *PlainText) PrintRecordsDuringScan(records []subdomain.Record) {
	p.PrintRecords(records)
}

func (p *PlainText) Flushed() <-chan struct{} {
	return p.w.barrier()
}
