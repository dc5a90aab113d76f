package rpc

import (
	"context"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/txforge/internal/chain"
)

// Selector probes a chain's RPC list and picks one endpoint.
type Selector struct {
	picker *Picker
	log    *zap.Logger
}

// NewSelector returns a Selector. A nil logger disables logging.
func NewSelector(algo Algorithm, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{picker: NewPicker(algo), log: log}
}

// Select returns the URL to use. A single URL is returned without probing.
// Failover walks urls in order without probing either.
func (s *Selector) Select(ctx context.Context, urls []string) (string, error) {
	switch {
	case len(urls) == 0:
		return "", ErrNoHealthyRPC
	case len(urls) == 1:
		return urls[0], nil
	}

	var endpoints []Endpoint
	if s.picker.Algorithm() == AlgorithmFailover {
		endpoints = unprobed(urls)
	} else {
		endpoints = ProbeAll(ctx, urls)
		for _, e := range endpoints {
			s.log.Debug("rpc probe",
				zap.String("url", e.URL),
				zap.Duration("latency", e.Latency),
				zap.Uint64("block", e.BlockNumber),
				zap.Error(e.Err),
			)
		}
	}

	e, err := s.picker.Pick(endpoints)
	if err != nil {
		return "", err
	}
	s.log.Debug("rpc selected", zap.String("url", e.URL), zap.String("algorithm", string(s.picker.Algorithm())))
	return e.URL, nil
}

// Dial selects an endpoint from urls and connects to it.
func (s *Selector) Dial(ctx context.Context, urls []string) (*chain.EVMClient, error) {
	url, err := s.Select(ctx, urls)
	if err != nil {
		return nil, err
	}
	return chain.NewEVMClient(url)
}

func unprobed(urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	for i, u := range urls {
		out[i] = Endpoint{URL: u}
	}
	return out
}
