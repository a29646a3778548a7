// internal/app/system/workers/backendwatch.go
package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Pinger is the part of apiclient.Client the watcher needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendWatch is a background worker that pings the REST backend and
// logs when it goes away or comes back.
type BackendWatch struct {
	api      Pinger
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	up      atomic.Bool
	checked atomic.Bool
}

// NewBackendWatch creates a new watcher.
//
// Parameters:
//   - api: the backend client
//   - logger: zap logger for logging
//   - interval: how often to ping (e.g., 1 minute)
//   - timeout: how long a single ping may take
func NewBackendWatch(api Pinger, logger *zap.Logger, interval, timeout time.Duration) *BackendWatch {
	return &BackendWatch{
		api:      api,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one check right away and then begins the background loop.
func (w *BackendWatch) Start() {
	w.Check()
	w.wg.Add(1)
	go w.run()
	w.log.Info("backend watch started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *BackendWatch) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("backend watch stopped")
}

// Up reports the result of the most recent check.
func (w *BackendWatch) Up() bool { return w.up.Load() }

func (w *BackendWatch) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check pings once and records the outcome. Only changes are logged.
func (w *BackendWatch) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	err := w.api.Ping(ctx)
	up := err == nil
	was := w.up.Swap(up)
	first := !w.checked.Swap(true)

	if up {
		metrics.BackendUp.Set(1)
	} else {
		metrics.BackendUp.Set(0)
	}

	switch {
	case !up && (first || was):
		w.log.Warn("backend unreachable", zap.Error(err))
	case up && !first && !was:
		w.log.Info("backend reachable again")
	}
}
