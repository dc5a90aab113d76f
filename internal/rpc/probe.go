package rpc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/txforge/internal/chain"
)

const (
	probeTimeout     = 5 * time.Second
	probeConcurrency = 8
)

// Probe dials url and measures eth_blockNumber latency.
func Probe(ctx context.Context, url string) Endpoint {
	ep := Endpoint{URL: url, Probed: true}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	c, err := chain.NewEVMClient(url)
	if err != nil {
		ep.Err = err
		return ep
	}
	defer c.Close()

	ep.Latency, ep.BlockNumber, ep.Err = c.Ping(ctx)
	return ep
}

// ProbeAll probes urls concurrently. Results keep the order of urls.
func ProbeAll(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	var g errgroup.Group
	g.SetLimit(probeConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			out[i] = Probe(ctx, u)
			return nil
		})
	}
	g.Wait() //nolint:errcheck
	return out
}
