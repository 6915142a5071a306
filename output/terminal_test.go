package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reconsuite/subscan/subdomain"
)

func TestTerminalPrintRecordsIncludesEveryField(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.PrintRecords([]subdomain.Record{{Name: "www.example.com", Type: subdomain.RecordA, Data: "1.2.3.4"}})
	<-term.Flushed()

	assert.Contains(t, buf.String(), "www.example.com")
	assert.Contains(t, buf.String(), "\tA\t")
	assert.Contains(t, buf.String(), "1.2.3.4")
}

func TestTerminalInfoAndWarningPrefixes(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.PrintInfo("discovered a new nameserver")
	term.PrintWarning("resolver looking slow")
	<-term.Flushed()

	out := buf.String()
	assert.Contains(t, out, "[*] discovered a new nameserver")
	assert.Contains(t, out, "[!] resolver looking slow")
}

func TestTerminalFlushedDoesNotShutDownTheSink(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	<-term.Flushed()
	term.PrintSuccess("still alive")
	<-term.Flushed()

	assert.Contains(t, buf.String(), "[+] still alive")
}
