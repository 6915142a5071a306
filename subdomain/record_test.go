package subdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordLessOrdersByNameThenTypeThenData(t *testing.T) {
	a := Record{Name: "a.example.com", Type: RecordA, Data: "1.1.1.1"}
	b := Record{Name: "b.example.com", Type: RecordA, Data: "1.1.1.1"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))

	aaaa := Record{Name: "a.example.com", Type: RecordAAAA, Data: "::1"}
	assert.True(t, a.Less(aaaa))

	first := Record{Name: "a.example.com", Type: RecordA, Data: "1.1.1.1"}
	second := Record{Name: "a.example.com", Type: RecordA, Data: "2.2.2.2"}
	assert.True(t, first.Less(second))
}

func TestRecordSuppressedTypes(t *testing.T) {
	for _, rt := range []RecordType{RecordNSEC, RecordRRSIG, RecordSOA} {
		r := Record{Type: rt}
		assert.True(t, r.suppressed(), "%s should be suppressed", rt)
	}
	for _, rt := range []RecordType{RecordA, RecordAAAA, RecordCNAME, RecordMX, RecordNS, RecordTXT} {
		r := Record{Type: rt}
		assert.False(t, r.suppressed(), "%s should not be suppressed", rt)
	}
}
