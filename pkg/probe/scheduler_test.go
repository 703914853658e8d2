package probe

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withChecker(t *testing.T, p Protocol, c Checker) {
	t.Helper()
	prev, existed := CheckerMap[p]
	CheckerMap[p] = c
	t.Cleanup(func() {
		if existed {
			CheckerMap[p] = prev
		} else {
			delete(CheckerMap, p)
		}
	})
}

func descriptors(n int) []Descriptor {
	out := make([]Descriptor, n)
	for i := range out {
		out[i] = Descriptor{
			Endpoint:   Endpoint{Host: "h", Port: 1000 + i, Protocol: FTP},
			Credential: Credential{Username: "u", Password: "p"},
		}
	}
	return out
}

func TestPoolOneResultPerDescriptor(t *testing.T) {
	withChecker(t, FTP, func(d Descriptor, _ time.Duration) *Result {
		r := NewResult(d)
		r.Connection = true
		r.Authentication = true
		return r
	})

	var (
		mu     sync.Mutex
		events []Event
	)
	pool := &Pool{Workers: 4, OnResult: func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}}
	results := pool.Run(StreamList(descriptors(20)), 20)

	require.Len(t, results, 20)
	require.Len(t, events, 20)

	seenIdx := map[int]bool{}
	seenPort := map[int]bool{}
	for _, e := range events {
		assert.Equal(t, 20, e.Total)
		assert.False(t, seenIdx[e.Index], "duplicate index %d", e.Index)
		seenIdx[e.Index] = true
		assert.False(t, seenPort[e.Descriptor.Port], "descriptor dispatched twice")
		seenPort[e.Descriptor.Port] = true
		assert.Equal(t, e.Descriptor.Port, e.Result.Port)
	}
}

func TestPoolPanicBecomesSyntheticResult(t *testing.T) {
	withChecker(t, FTP, func(d Descriptor, _ time.Duration) *Result {
		if d.Port%2 == 1 {
			panic("checker blew up")
		}
		r := NewResult(d)
		r.Connection = true
		r.Authentication = true
		return r
	})

	pool := &Pool{Workers: 3}
	results := pool.Run(StreamList(descriptors(10)), 10)

	require.Len(t, results, 10)
	var synthetic int
	for _, r := range results {
		if r.Port%2 == 1 {
			synthetic++
			assert.False(t, r.Connection)
			assert.False(t, r.Authentication)
			require.NotEmpty(t, r.Errors)
			assert.Contains(t, r.Errors[0], "Check failed")
		}
		// authentication implies connection, always
		if r.Authentication {
			assert.True(t, r.Connection)
		}
	}
	assert.Equal(t, 5, synthetic)
}

func TestPoolUnknownProtocol(t *testing.T) {
	pool := &Pool{Workers: 1}
	d := Descriptor{Endpoint: Endpoint{Host: "h", Port: 1, Protocol: Protocol(9)}}
	results := pool.Run(StreamList([]Descriptor{d}), 1)

	require.Len(t, results, 1)
	assert.False(t, results[0].Connection)
	assert.False(t, results[0].Authentication)
	require.NotEmpty(t, results[0].Errors)
	assert.Contains(t, results[0].Errors[0], "no checker for protocol")
}

func TestPoolConcurrencyBound(t *testing.T) {
	var inflight, peak int32
	withChecker(t, FTP, func(d Descriptor, _ time.Duration) *Result {
		cur := atomic.AddInt32(&inflight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		return NewResult(d)
	})

	pool := &Pool{Workers: 3}
	results := pool.Run(StreamList(descriptors(12)), 12)

	require.Len(t, results, 12)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestPoolDefaultWorkers(t *testing.T) {
	withChecker(t, FTP, func(d Descriptor, _ time.Duration) *Result {
		return NewResult(d)
	})
	pool := &Pool{} // zero value falls back to DefaultWorkers
	results := pool.Run(StreamList(descriptors(7)), 7)
	assert.Len(t, results, 7)
}
