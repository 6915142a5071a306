package prelude

import (
	"net"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func mustParseIP(s string) net.IP  { return net.ParseIP(s) }
func mustParseIP6(s string) net.IP { return net.ParseIP(s) }

func TestDedupePreservesFirstOccurrenceOrder(t *testing.T) {
	got := dedupe([]string{"1.1.1.1", "2.2.2.2", "1.1.1.1", "3.3.3.3", "2.2.2.2"})
	assert.Equal(t, []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"}, got)
}

func TestDedupeEmpty(t *testing.T) {
	got := dedupe(nil)
	assert.Empty(t, got)
}

func TestResolveGluePrefersAdditionalSectionOverForwardLookup(t *testing.T) {
	p := New("example.com", "8.8.8.8:53", nil)

	extra := []dns.RR{
		&dns.A{Hdr: dns.RR_Header{Name: "ns1.example.com.", Rrtype: dns.TypeA}, A: mustParseIP("203.0.113.10")},
		&dns.AAAA{Hdr: dns.RR_Header{Name: "ns1.example.com.", Rrtype: dns.TypeAAAA}, AAAA: mustParseIP6("2001:db8::1")},
		&dns.A{Hdr: dns.RR_Header{Name: "ns2.example.com.", Rrtype: dns.TypeA}, A: mustParseIP("203.0.113.20")},
	}

	addrs := p.resolveGlue(nil, nil, "ns1.example.com.", extra)

	assert.ElementsMatch(t, []string{"203.0.113.10", "2001:db8::1"}, addrs)
}
