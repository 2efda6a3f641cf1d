// Package events runs side effects decoupled from the request/response
// cycle: customer-aggregate updates, notification mail, and optional
// broker publishes. Each task carries its own failure log; a failed task
// never surfaces to the request that queued it.
package events

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// Dispatcher executes queued tasks on background goroutines.
type Dispatcher struct {
	logger  *log.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher builds a Dispatcher. Each task gets its own context with
// the given timeout.
func NewDispatcher(logger *log.Logger, timeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{logger: logger, timeout: timeout}
}

// Go schedules fn on a background goroutine. Errors are logged under name
// and otherwise dropped.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.logger.Printf("events: %s failed: %v", name, err)
		}
	}()
}

// Wait blocks until all scheduled tasks finish. Used on shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
