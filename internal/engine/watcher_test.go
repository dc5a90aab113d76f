package engine

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type seqPricer struct {
	mu     sync.Mutex
	prices []*big.Int
	errs   []error
	n      int
}

func (p *seqPricer) GasPrice(context.Context) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.n
	p.n++
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.prices) {
		return p.prices[len(p.prices)-1], nil
	}
	return p.prices[i], nil
}

func (p *seqPricer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func TestGasWatcherImmediateFetch(t *testing.T) {
	src := &seqPricer{prices: []*big.Int{gwei(30)}}
	w := NewGasWatcher(src, time.Hour, zaptest.NewLogger(t))

	w.Start(context.Background())
	defer w.Stop()

	select {
	case p := <-w.Updates():
		assert.Equal(t, gwei(30), p)
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate fetch")
	}
	latest, at := w.Latest()
	assert.Equal(t, gwei(30), latest)
	assert.False(t, at.IsZero())
}

func TestGasWatcherRefreshes(t *testing.T) {
	src := &seqPricer{prices: []*big.Int{gwei(1), gwei(2), gwei(3)}}
	w := NewGasWatcher(src, 10*time.Millisecond, nil)
	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		latest, _ := w.Latest()
		return latest != nil && latest.Cmp(gwei(3)) == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestGasWatcherIgnoresErrors(t *testing.T) {
	src := &seqPricer{
		prices: []*big.Int{nil, gwei(7)},
		errs:   []error{errors.New("timeout")},
	}
	w := NewGasWatcher(src, 10*time.Millisecond, zaptest.NewLogger(t))
	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		latest, _ := w.Latest()
		return latest != nil
	}, 2*time.Second, 5*time.Millisecond)

	latest, _ := w.Latest()
	assert.Equal(t, gwei(7), latest)
}

func TestGasWatcherStop(t *testing.T) {
	src := &seqPricer{prices: []*big.Int{gwei(1)}}
	w := NewGasWatcher(src, 5*time.Millisecond, nil)
	w.Start(context.Background())

	require.Eventually(t, func() bool { return src.count() > 0 }, 2*time.Second, time.Millisecond)
	w.Stop()

	n := src.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, src.count(), "no fetches after Stop")

	// Stopping twice or stopping an unstarted watcher is harmless.
	w.Stop()
	NewGasWatcher(src, 0, nil).Stop()
}

func TestGasWatcherContextCancel(t *testing.T) {
	src := &seqPricer{prices: []*big.Int{gwei(1)}}
	w := NewGasWatcher(src, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not exit after cancel")
	}
}

func TestGasWatcherDefaultInterval(t *testing.T) {
	w := NewGasWatcher(&seqPricer{}, 0, nil)
	assert.Equal(t, DefaultGasRefresh, w.interval)
	assert.Equal(t, 30*time.Second, DefaultGasRefresh)
}
