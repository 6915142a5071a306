package subdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverPoolDequeueRecycle(t *testing.T) {
	p := NewResolverPool([]string{"8.8.8.8:53", "1.1.1.1:53"})
	assert.Equal(t, 2, p.Remaining())

	addr, ok := p.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "8.8.8.8:53", addr)
	assert.Equal(t, 1, p.Remaining())

	p.Recycle(addr)
	assert.Equal(t, 2, p.Remaining())
}

func TestResolverPoolBlacklistsAfterThreeTimeouts(t *testing.T) {
	p := NewResolverPool([]string{"8.8.8.8:53"})
	addr, _ := p.Dequeue()

	outcome, count := p.ReportTimeout(addr)
	assert.Equal(t, ResolverRecycled, outcome)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, p.Remaining())

	addr, _ = p.Dequeue()
	outcome, count = p.ReportTimeout(addr)
	assert.Equal(t, ResolverRecycled, outcome)
	assert.Equal(t, 2, count)

	addr, _ = p.Dequeue()
	outcome, count = p.ReportTimeout(addr)
	assert.Equal(t, ResolverBlacklisted, outcome)
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, p.Remaining())

	p.Recycle("8.8.8.8:53")
	assert.Equal(t, 0, p.Remaining(), "a blacklisted resolver must never be re-admitted")
}

func TestResolverPoolAbsorbSkipsBlacklisted(t *testing.T) {
	p := NewResolverPool([]string{"8.8.8.8:53"})
	addr, _ := p.Dequeue()
	p.ReportTimeout(addr)
	p.ReportTimeout(addr)
	p.ReportTimeout(addr)
	require.Equal(t, 0, p.Remaining())

	p.Absorb("8.8.8.8:53")
	assert.Equal(t, 0, p.Remaining())

	p.Absorb("9.9.9.9:53")
	assert.Equal(t, 1, p.Remaining())
}
