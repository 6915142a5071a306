// Package prelude runs the cheap reconnaissance pass that happens before
// the brute-force dispatcher starts: authoritative name-server discovery
// and best-effort zone-transfer (AXFR) attempts against those
// nameservers. Any records an AXFR yields are forwarded to the listener
// exactly like dispatcher-sourced records; any nameserver address found
// along the way is returned so the caller can fold it into the resolver
// pool.
//
// Grounded on classmarkets/go-dns-resolver's ns.go (mapping NS targets to
// IPs via the response's additional section) and OWASP/Amass's
// attemptZoneXFR (zone transfer is always best-effort: failures are
// logged and swallowed, never fatal to the run).
package prelude

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/time/rate"

	"github.com/reconsuite/subscan/internal/concurrent"
	"github.com/reconsuite/subscan/internal/retry"
	"github.com/reconsuite/subscan/subdomain"
)

const (
	maxConcurrentNameservers = 4
	nameserverRatePerSecond  = 2
	breakerFailureThreshold  = 2
	breakerResetAfter        = 30 * time.Second
	queryTimeout             = 5 * time.Second
)

// Prelude runs NS discovery and zone-transfer attempts for one hostname.
type Prelude struct {
	hostname       string
	listener       subdomain.Listener
	systemResolver string

	limiter    *rate.Limiter
	breakersMu sync.Mutex
	breakers   map[string]*retry.CircuitBreaker
}

// New builds a Prelude. systemResolver is the resolver used for the
// initial NS lookup (e.g. a known-good public resolver); it does not need
// to be authoritative for hostname.
func New(hostname, systemResolver string, listener subdomain.Listener) *Prelude {
	return &Prelude{
		hostname:       hostname,
		listener:       listener,
		systemResolver: systemResolver,
		limiter:        rate.NewLimiter(rate.Limit(nameserverRatePerSecond), maxConcurrentNameservers),
		breakers:       make(map[string]*retry.CircuitBreaker),
	}
}

// Run discovers hostname's authoritative nameservers, attempts a zone
// transfer against each, and returns every nameserver address found (AXFR
// success or not) so the caller can seed the resolver pool with them. It
// never returns an error: every failure along the way is logged via the
// listener at info level and treated as "nothing found here".
func (p *Prelude) Run(ctx context.Context) []string {
	nameservers := p.discoverNameservers(ctx)
	if len(nameservers) == 0 {
		p.listener.PrintInfo("No authoritative nameservers discovered; skipping zone transfer attempts.")
		return nil
	}

	concurrent.ParallelMap(ctx, nameservers, maxConcurrentNameservers, func(ctx context.Context, ns string) struct{} {
		p.attemptZoneTransfer(ctx, ns)
		return struct{}{}
	})

	return dedupe(nameservers)
}

// discoverNameservers queries hostname's NS records and resolves each
// target name to an address, preferring glue records in the response's
// additional section before falling back to a forward lookup.
func (p *Prelude) discoverNameservers(ctx context.Context) []string {
	client := &dns.Client{Timeout: queryTimeout}
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(p.hostname), dns.TypeNS)
	msg.RecursionDesired = true

	resp, _, err := client.ExchangeContext(ctx, msg, p.systemResolver)
	if err != nil {
		p.listener.PrintInfo(fmt.Sprintf("NS discovery for %s failed: %v", p.hostname, err))
		return nil
	}

	var addrs []string
	for _, rr := range append(append([]dns.RR{}, resp.Answer...), resp.Ns...) {
		ns, ok := rr.(*dns.NS)
		if !ok {
			continue
		}
		addrs = append(addrs, p.resolveGlue(ctx, client, ns.Ns, resp.Extra)...)
	}
	return dedupe(addrs)
}

// resolveGlue maps a nameserver name to its address using glue records in
// extra first, falling back to a forward A lookup.
func (p *Prelude) resolveGlue(ctx context.Context, client *dns.Client, name string, extra []dns.RR) []string {
	var addrs []string
	for _, rr := range extra {
		if rr.Header().Name != name {
			continue
		}
		switch rec := rr.(type) {
		case *dns.A:
			addrs = append(addrs, rec.A.String())
		case *dns.AAAA:
			addrs = append(addrs, rec.AAAA.String())
		}
	}
	if len(addrs) > 0 {
		return addrs
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeA)
	msg.RecursionDesired = true
	resp, _, err := client.ExchangeContext(ctx, msg, p.systemResolver)
	if err != nil {
		return nil
	}
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	return addrs
}

// attemptZoneTransfer performs a best-effort AXFR against ns. Records
// found are forwarded to the listener; every failure is logged and
// swallowed. A per-nameserver circuit breaker stops retrying a nameserver
// that has already refused the transfer repeatedly this run.
func (p *Prelude) attemptZoneTransfer(ctx context.Context, ns string) {
	if err := p.limiter.Wait(ctx); err != nil {
		return
	}

	breaker := p.breakerFor(ns)

	var records []subdomain.Record
	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		return breaker.Execute(func() error {
			rrs, err := transfer(ns, p.hostname)
			if err != nil {
				return err
			}
			records = rrs
			return nil
		})
	})
	if err != nil {
		p.listener.PrintInfo(fmt.Sprintf("Zone transfer against %s for %s failed: %v", ns, p.hostname, err))
		return
	}

	if len(records) > 0 {
		p.listener.PrintRecordsDuringScan(records)
	}
}

// breakerFor returns ns's circuit breaker, creating one on first use.
// Guarded by breakersMu since attemptZoneTransfer runs concurrently across
// nameservers under concurrent.ParallelMap.
func (p *Prelude) breakerFor(ns string) *retry.CircuitBreaker {
	p.breakersMu.Lock()
	defer p.breakersMu.Unlock()
	breaker, ok := p.breakers[ns]
	if !ok {
		breaker = retry.NewCircuitBreaker(breakerFailureThreshold, breakerResetAfter)
		p.breakers[ns] = breaker
	}
	return breaker
}

// transfer performs one AXFR attempt against ns for zone.
func transfer(ns, zone string) ([]subdomain.Record, error) {
	msg := new(dns.Msg)
	msg.SetAxfr(dns.Fqdn(zone))

	t := &dns.Transfer{DialTimeout: queryTimeout, ReadTimeout: queryTimeout}
	addr := ns
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}

	envelopes, err := t.In(msg, addr)
	if err != nil {
		return nil, err
	}

	var records []subdomain.Record
	for env := range envelopes {
		if env.Error != nil {
			return nil, env.Error
		}
		for _, rr := range env.RR {
			hdr := rr.Header()
			records = append(records, subdomain.Record{
				Name: hdr.Name,
				Type: subdomain.RecordType(dns.TypeToString[hdr.Rrtype]),
				Data: rr.String(),
			})
		}
	}
	return records, nil
}

func dedupe(addrs []string) []string {
	seen := make(map[string]struct{}, len(addrs))
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
