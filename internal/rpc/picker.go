package rpc

import (
	"sync"
	"time"
)

// Winners of a fastest pick are reused for this long.
const cacheTTL = 5 * time.Minute

// Picker chooses one endpoint from a probed set.
type Picker struct {
	algo Algorithm

	mu       sync.Mutex
	next     int
	cached   string
	cachedAt time.Time
	now      func() time.Time
}

// NewPicker creates a Picker using algo.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo, now: time.Now}
}

// Algorithm returns the selection algorithm.
func (p *Picker) Algorithm() Algorithm { return p.algo }

// Pick selects an endpoint.
func (p *Picker) Pick(endpoints []Endpoint) (Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.algo {
	case AlgorithmRoundRobin:
		return p.roundRobin(endpoints)
	case AlgorithmFailover:
		return failover(endpoints)
	default:
		return p.fastest(endpoints)
	}
}

func (p *Picker) fastest(endpoints []Endpoint) (Endpoint, error) {
	if p.cached != "" && p.now().Sub(p.cachedAt) < cacheTTL {
		for _, e := range endpoints {
			if e.URL == p.cached && e.Usable() {
				return e, nil
			}
		}
	}

	best := highestBlock(endpoints)
	var (
		winner Endpoint
		found  bool
		top    float64
	)
	for _, e := range endpoints {
		if !e.Usable() || e.stale(best) {
			continue
		}
		if s := score(e, best); !found || s > top {
			winner, top, found = e, s, true
		}
	}
	if !found {
		return Endpoint{}, ErrNoHealthyRPC
	}
	p.cached, p.cachedAt = winner.URL, p.now()
	return winner, nil
}

func (p *Picker) roundRobin(endpoints []Endpoint) (Endpoint, error) {
	var usable []Endpoint
	for _, e := range endpoints {
		if e.Usable() {
			usable = append(usable, e)
		}
	}
	if len(usable) == 0 {
		return Endpoint{}, ErrNoHealthyRPC
	}
	e := usable[p.next%len(usable)]
	p.next = (p.next + 1) % len(usable)
	return e, nil
}

// failover returns the first usable endpoint in configured order.
func failover(endpoints []Endpoint) (Endpoint, error) {
	for _, e := range endpoints {
		if e.Usable() {
			return e, nil
		}
	}
	return Endpoint{}, ErrNoHealthyRPC
}

func highestBlock(endpoints []Endpoint) uint64 {
	var best uint64
	for _, e := range endpoints {
		if e.Usable() && e.BlockNumber > best {
			best = e.BlockNumber
		}
	}
	return best
}

// score favours low latency, then recency: one point lost per block behind.
func score(e Endpoint, best uint64) float64 {
	var s float64
	if ms := e.Latency.Milliseconds(); ms > 0 {
		s += 1000.0 / float64(ms)
	} else if e.Latency > 0 {
		s += 1000.0
	}
	if best > 0 {
		s += 10 - float64(best-e.BlockNumber)
	}
	return s
}
