package probe

import (
	"sync"
	"time"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 5

// Event is delivered to OnResult once per completed probe. Index is the
// running completion count starting at 1; completion order is unrelated
// to submission order, so consumers needing "first attempted" semantics
// must correlate on the descriptor, not on Index.
type Event struct {
	Descriptor Descriptor
	Result     *Result
	Index      int
	Total      int
}

// Pool is a fixed-size worker pool draining a descriptor stream. Every
// descriptor yields exactly one Result, even when a checker misbehaves:
// an escaped panic becomes a synthetic failed Result instead of killing
// the worker or the batch.
type Pool struct {
	Workers  int
	Timeout  time.Duration
	OnResult func(Event) // called from worker goroutines as results complete
}

// Run drains the task channel and returns all results in completion
// order. The result slice is the single synchronized accumulation point;
// workers only hand results in, they never mutate them afterwards.
func (p *Pool) Run(tasks <-chan Descriptor, total int) []*Result {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu      sync.Mutex
		results []*Result
	)
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				res := p.check(task)
				mu.Lock()
				results = append(results, res)
				index := len(results)
				mu.Unlock()
				if p.OnResult != nil {
					p.OnResult(Event{Descriptor: task, Result: res, Index: index, Total: total})
				}
			}
		}()
	}
	wg.Wait()
	return results
}

// check dispatches one descriptor to its protocol checker and shields the
// pool from anything that escapes the checker contract.
func (p *Pool) check(d Descriptor) (res *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = NewResult(d)
			res.addError("Check failed: %v", rec)
		}
	}()
	checker, ok := CheckerMap[d.Endpoint.Protocol]
	if !ok {
		res = NewResult(d)
		res.addError("Check failed: no checker for protocol %d", int(d.Endpoint.Protocol))
		return res
	}
	return checker(d, p.Timeout)
}
