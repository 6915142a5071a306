package subdomain

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Outcome classifies the result of one Scan call.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTimeout
	OutcomeFatal
)

// ScanResult is what a Scanner reports back after Scan returns.
type ScanResult struct {
	Outcome    Outcome
	Records    []Record
	NewTimeout time.Duration
	Err        error
}

// Scanner performs a single DNS lookup of fqdn against resolver, bounded by
// timeout. Implementations are stateless between calls aside from their own
// client handle; the dispatcher holds all authoritative state.
type Scanner interface {
	Scan(ctx context.Context, fqdn, resolver string, timeout time.Duration) ScanResult
}

// initialTimeout and maxTimeout bound the adaptive timeout: it starts at
// initialTimeout and grows by one second per timeout event, capped at
// maxTimeout. The dispatcher tracks it per subdomain, not per
// (subdomain, resolver) pair, so a retry on another resolver keeps the
// raised value.
const (
	initialTimeout = 5 * time.Second
	maxTimeout     = 30 * time.Second
)

var lookupTypes = []uint16{
	dns.TypeA,
	dns.TypeAAAA,
	dns.TypeCNAME,
	dns.TypeMX,
	dns.TypeNS,
	dns.TypeTXT,
}

// DNSScanner is the default Scanner, issuing recursive queries over
// github.com/miekg/dns. It queries a fixed set of record types per
// subdomain, falling back to TCP when a UDP response is truncated.
type DNSScanner struct{}

// NewDNSScanner builds the default Scanner.
func NewDNSScanner() *DNSScanner {
	return &DNSScanner{}
}

func (s *DNSScanner) Scan(ctx context.Context, fqdn, resolver string, timeout time.Duration) ScanResult {
	addr, err := resolverAddr(resolver)
	if err != nil {
		return ScanResult{Outcome: OutcomeFatal, Err: err}
	}

	udp := &dns.Client{Net: "udp", Timeout: timeout}
	tcp := &dns.Client{Net: "tcp", Timeout: timeout}

	var records []Record
	for _, qtype := range lookupTypes {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(fqdn), qtype)
		msg.RecursionDesired = true

		resp, _, err := udp.ExchangeContext(ctx, msg, addr)
		if err != nil {
			if isTimeoutErr(err) {
				return ScanResult{Outcome: OutcomeTimeout, NewTimeout: nextTimeout(timeout)}
			}
			// NXDOMAIN, REFUSED, and similar per-type failures are treated
			// as "no records of this type", not a scan failure.
			continue
		}

		if resp.Truncated {
			resp, _, err = tcp.ExchangeContext(ctx, msg, addr)
			if err != nil {
				if isTimeoutErr(err) {
					return ScanResult{Outcome: OutcomeTimeout, NewTimeout: nextTimeout(timeout)}
				}
				continue
			}
		}

		for _, rr := range resp.Answer {
			records = append(records, rrToRecord(rr))
		}
	}

	return ScanResult{Outcome: OutcomeSuccess, Records: records}
}

func nextTimeout(current time.Duration) time.Duration {
	next := current + time.Second
	if next > maxTimeout {
		return maxTimeout
	}
	return next
}

func isTimeoutErr(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// resolverAddr ensures addr carries a port, defaulting to the standard DNS
// port when the caller only supplied an IP.
func resolverAddr(addr string) (string, error) {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr, nil
	}
	if net.ParseIP(addr) == nil {
		return "", &net.AddrError{Err: "not an IP address", Addr: addr}
	}
	return net.JoinHostPort(addr, strconv.Itoa(53)), nil
}

// rrToRecord converts a parsed resource record into our Record shape,
// trimming the header so Data holds only the record-specific fields.
func rrToRecord(rr dns.RR) Record {
	hdr := rr.Header()
	return Record{
		Name: trimTrailingDot(hdr.Name),
		Type: RecordType(dns.TypeToString[hdr.Rrtype]),
		Data: strings.TrimPrefix(rr.String(), hdr.String()),
	}
}

func trimTrailingDot(s string) string {
	if s == "." {
		return s
	}
	return strings.TrimSuffix(s, ".")
}
