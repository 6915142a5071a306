package subdomain

import (
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverAddrDefaultsPort(t *testing.T) {
	addr, err := resolverAddr("8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8:53", addr)
}

func TestResolverAddrPreservesExplicitPort(t *testing.T) {
	addr, err := resolverAddr("8.8.8.8:5353")
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8:5353", addr)
}

func TestResolverAddrRejectsGarbage(t *testing.T) {
	_, err := resolverAddr("not-an-ip")
	assert.Error(t, err)
}

func TestNextTimeoutCapsAtMax(t *testing.T) {
	assert.Equal(t, 6*time.Second, nextTimeout(5*time.Second))
	assert.Equal(t, maxTimeout, nextTimeout(maxTimeout))
	assert.Equal(t, maxTimeout, nextTimeout(maxTimeout+time.Second))
}

func TestIsTimeoutErr(t *testing.T) {
	assert.True(t, isTimeoutErr(&net.DNSError{IsTimeout: true}))
	assert.False(t, isTimeoutErr(&net.DNSError{IsTimeout: false}))
	assert.False(t, isTimeoutErr(nil))
}

func TestTrimTrailingDot(t *testing.T) {
	assert.Equal(t, "example.com", trimTrailingDot("example.com."))
	assert.Equal(t, "example.com", trimTrailingDot("example.com"))
	assert.Equal(t, ".", trimTrailingDot("."))
}

func TestRRToRecordStripsHeader(t *testing.T) {
	rr := &dns.A{
		Hdr: dns.RR_Header{Name: "www.example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
		A:   net.ParseIP("1.2.3.4"),
	}

	rec := rrToRecord(rr)
	assert.Equal(t, "www.example.com", rec.Name)
	assert.Equal(t, RecordA, rec.Type)
	assert.Equal(t, "1.2.3.4", rec.Data)
}
