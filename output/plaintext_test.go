package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reconsuite/subscan/subdomain"
)

func TestPlainTextWritesTabSeparatedRows(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainText(&buf)

	p.PrintRecords([]subdomain.Record{{Name: "www.example.com", Type: subdomain.RecordA, Data: "1.2.3.4"}})
	<-p.Flushed()

	assert.Equal(t, "www.example.com\tA\t1.2.3.4\n", buf.String())
}

func TestPlainTextFlushedIsRepeatable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainText(&buf)

	<-p.Flushed()
	p.PrintRecords([]subdomain.Record{{Name: "a", Type: subdomain.RecordA, Data: "1.1.1.1"}})
	<-p.Flushed()

	assert.Equal(t, "a\tA\t1.1.1.1\n", buf.String())
}
