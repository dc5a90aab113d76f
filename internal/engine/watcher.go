package engine

import (
	"context"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultGasRefresh is how often the gas watcher polls.
const DefaultGasRefresh = 30 * time.Second

// GasPricer returns the current gas price in wei.
type GasPricer interface {
	GasPrice(ctx context.Context) (*big.Int, error)
}

// GasWatcher keeps the latest gas price fresh in the background. It is
// independent of invocations; fetch errors are logged and skipped.
type GasWatcher struct {
	src      GasPricer
	interval time.Duration
	log      *zap.Logger

	mu      sync.RWMutex
	latest  *big.Int
	updated time.Time

	updates chan *big.Int
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewGasWatcher creates a watcher polling src every interval. A zero
// interval means DefaultGasRefresh.
func NewGasWatcher(src GasPricer, interval time.Duration, log *zap.Logger) *GasWatcher {
	if interval <= 0 {
		interval = DefaultGasRefresh
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GasWatcher{
		src:      src,
		interval: interval,
		log:      log,
		updates:  make(chan *big.Int, 1),
	}
}

// Start fetches immediately and then on every tick until ctx is done or
// Stop is called. Calling Start on a running watcher is a no-op.
func (w *GasWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.done != nil {
		w.mu.Unlock()
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.fetch(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.fetch(ctx)
			}
		}
	}()
}

func (w *GasWatcher) fetch(ctx context.Context) {
	price, err := w.src.GasPrice(ctx)
	if err != nil {
		w.log.Debug("gas price refresh failed", zap.Error(err))
		return
	}
	w.mu.Lock()
	w.latest = price
	w.updated = time.Now()
	w.mu.Unlock()

	// Keep only the newest price for slow readers.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- price:
	default:
	}
}

// Latest returns the last fetched price and when it was fetched. The price
// is nil until the first successful fetch.
func (w *GasWatcher) Latest() (*big.Int, time.Time) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest, w.updated
}

// Updates delivers each newly fetched price. Prices not consumed before the
// next fetch are replaced.
func (w *GasWatcher) Updates() <-chan *big.Int {
	return w.updates
}

// Stop ends polling and waits for the background goroutine to exit.
func (w *GasWatcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
