package output

import (
	"encoding/csv"
	"io"

	"github.com/reconsuite/subscan/subdomain"
)

// CSVFile is the CSV record sink: one row per discovered record, RFC 4180
// via the standard library's encoding/csv (no third-party CSV library
// appears anywhere in the retrieved pack, so this one concern stays on the
// standard library; see DESIGN.md).
type CSVFile struct {
	w      *worker
	writer *csv.Writer

	wroteHeader bool
}

// NewCSVFile builds a CSVFile writing to out. The caller owns closing out.
func NewCSVFile(out io.Writer) *CSVFile {
	return &CSVFile{
		w:      newWorker(256),
		writer: csv.NewWriter(out),
	}
}

func (c *CSVFile) ensureHeader() {
	if c.wroteHeader {
		return
	}
	c.wroteHeader = true
	c.writer.Write([]string{"Subdomain", "Type", "Data"})
}

// PrintHeader, PrintConfig, PrintTarget, and the status/progress methods
// carry no row data for a CSV sink and are no-ops.
func (c *CSVFile) PrintHeader(string)            {}
func (c *CSVFile) PrintConfig(map[string]string) {}
func (c *CSVFile) PrintTarget(string)            {}
func (c *CSVFile) PrintStatus(string)            {}
func (c *CSVFile) PrintSuccess(string)           {}
func (c *CSVFile) PrintInfo(string)              {}
func (c *CSVFile) PrintInfoDuringScan(string)    {}
func (c *CSVFile) PrintWarning(string)           {}
func (c *CSVFile) PrintError(string)             {}
func (c *CSVFile) PrintErrorWithoutTime(string)  {}
func (c *CSVFile) PrintTaskCompleted(string)     {}
func (c *CSVFile) PrintTaskFailed(string)        {}
func (c *CSVFile) PrintLastRequest(string)       {}
func (c *CSVFile) PrintPausingThreads(int)       {}
func (c *CSVFile) PrintPauseOptions()            {}
func (c *CSVFile) PrintInvalidPauseOptions()     {}

func (c *CSVFile) PrintRecords(records []subdomain.Record) {
	c.w.submit(func() {
		c.ensureHeader()
		for _, r := range records {
			c.writer.Write([]string{r.Name, string(r.Type), r.Data})
		}
		c.writer.Flush()
	})
}

func (c *CSVFile) PrintRecordsDuringScan(records []subdomain.Record) {
	c.PrintRecords(records)
}

func (c *CSVFile) Flushed() <-chan struct{} {
	return c.w.barrier()
}
