package subdomain

import "container/list"

// blacklistThreshold is the timeout count at which a resolver is dropped
// permanently.
const blacklistThreshold = 3

// ReportOutcome is the result of reporting a timeout against a resolver.
type ReportOutcome int

const (
	ResolverRecycled ReportOutcome = iota
	ResolverBlacklisted
)

// ResolverPool is a rotating multiset of resolver endpoints with a
// per-endpoint timeout counter.
//
// Not safe for concurrent use; the dispatcher is its single owner.
type ResolverPool struct {
	idle        *list.List
	counts      map[string]int
	blacklisted map[string]bool
}

// NewResolverPool builds a pool pre-loaded with resolver addresses, in order.
func NewResolverPool(addrs []string) *ResolverPool {
	p := &ResolverPool{
		idle:        list.New(),
		counts:      make(map[string]int),
		blacklisted: make(map[string]bool),
	}
	for _, addr := range addrs {
		p.idle.PushBack(addr)
		p.counts[addr] = 0
	}
	return p
}

// Dequeue removes one resolver for immediate use, round-robin (FIFO) order.
func (p *ResolverPool) Dequeue() (string, bool) {
	front := p.idle.Front()
	if front == nil {
		return "", false
	}
	p.idle.Remove(front)
	return front.Value.(string), true
}

// Recycle returns a resolver to the pool after a successful scan. The
// timeout counter is left unchanged. A blacklisted resolver is never
// re-admitted.
func (p *ResolverPool) Recycle(addr string) {
	if p.blacklisted[addr] {
		return
	}
	p.idle.PushBack(addr)
}

// ReportTimeout increments addr's timeout count. At blacklistThreshold the
// resolver is dropped permanently instead of recycled.
func (p *ResolverPool) ReportTimeout(addr string) (ReportOutcome, int) {
	p.counts[addr]++
	count := p.counts[addr]
	if count >= blacklistThreshold {
		p.blacklisted[addr] = true
		delete(p.counts, addr)
		return ResolverBlacklisted, count
	}
	p.idle.PushBack(addr)
	return ResolverRecycled, count
}

// Absorb adds a discovered resolver to the pool as an idle entry. An address
// not seen before starts with a zero timeout count; an address already known
// keeps its count and is added as one more idle entry. A previously
// blacklisted address is never re-admitted.
func (p *ResolverPool) Absorb(addr string) {
	if p.blacklisted[addr] {
		return
	}
	if _, known := p.counts[addr]; !known {
		p.counts[addr] = 0
	}
	p.idle.PushBack(addr)
}

// Remaining reports the number of currently idle resolvers.
func (p *ResolverPool) Remaining() int {
	return p.idle.Len()
}
