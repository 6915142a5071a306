package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reconsuite/subscan/subdomain"
)

func TestCSVFileWritesHeaderOnceAndRows(t *testing.T) {
	var buf bytes.Buffer
	c := NewCSVFile(&buf)

	c.PrintRecords([]subdomain.Record{{Name: "www.example.com", Type: subdomain.RecordA, Data: "1.2.3.4"}})
	c.PrintRecordsDuringScan([]subdomain.Record{{Name: "mail.example.com", Type: subdomain.RecordMX, Data: "10 mx.example.com."}})

	<-c.Flushed()

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Subdomain,Type,Data"))
	assert.Contains(t, out, "www.example.com,A,1.2.3.4")
	assert.Contains(t, out, "mail.example.com,MX,10 mx.example.com.")
}

func TestCSVFileNoOpMethodsNeverPanic(t *testing.T) {
	var buf bytes.Buffer
	c := NewCSVFile(&buf)

	c.PrintHeader("title")
	c.PrintConfig(map[string]string{"k": "v"})
	c.PrintTarget("example.com")
	c.PrintStatus("status")
	c.PrintSuccess("ok")
	c.PrintInfo("info")
	c.PrintInfoDuringScan("info")
	c.PrintWarning("warn")
	c.PrintError("err")
	c.PrintErrorWithoutTime("err")
	c.PrintTaskCompleted("done")
	c.PrintTaskFailed("failed")
	c.PrintLastRequest("50%")
	c.PrintPausingThreads(1)
	c.PrintPauseOptions()
	c.PrintInvalidPauseOptions()

	<-c.Flushed()
	assert.Empty(t, buf.String())
}
