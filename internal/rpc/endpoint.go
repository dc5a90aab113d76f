package rpc

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"
)

// ParseAlgorithm maps a config value to an Algorithm. Empty means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return AlgorithmFastest, nil
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
		return a, nil
	default:
		return "", fmt.Errorf("unknown RPC algorithm %q", s)
	}
}

// Endpoints more than this many blocks behind the best are skipped.
const staleBlockThreshold = 3

// Endpoint is an RPC URL with what a probe measured about it.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
	Probed      bool
}

// Usable reports whether the endpoint may be picked. Unprobed endpoints are
// given the benefit of the doubt.
func (e Endpoint) Usable() bool {
	return !e.Probed || e.Err == nil
}

// stale reports whether e lags best by more than the threshold.
func (e Endpoint) stale(best uint64) bool {
	return best > 0 && e.BlockNumber < best && best-e.BlockNumber > staleBlockThreshold
}
