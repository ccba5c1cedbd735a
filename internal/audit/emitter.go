package audit

import (
	"context"
	"sync"
	"time"

	"github.com/clausewise-ai/clausewise/internal/redact"
)

// Sink consumes audit events (file, webhook, etc.).
type Sink interface {
	Name() string
	Deliver(context.Context, *Event) error
	Close(context.Context) error
}

// Counters tracks emitter throughput for observation and tests.
type Counters struct {
	Enqueued    uint64
	Dropped     uint64
	SinkSuccess map[string]uint64
	SinkFailure map[string]uint64
}

// EmitterConfig controls queue and worker sizing. Zero values select the
// defaults.
type EmitterConfig struct {
	QueueSize       int
	Workers         int
	ShutdownTimeout time.Duration
}

// Emitter buffers events and delivers them to sinks from background
// workers, so a slow sink never stalls an analysis request.
type Emitter struct {
	queue           chan *Event
	sinks           []Sink
	shutdownTimeout time.Duration

	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
	countsMu sync.Mutex
	counts   Counters
}

// NewEmitter starts delivery workers over the given sinks.
func NewEmitter(cfg EmitterConfig, sinks []Sink) *Emitter {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 2 * time.Second
	}

	e := &Emitter{
		queue:           make(chan *Event, queueSize),
		sinks:           sinks,
		shutdownTimeout: shutdownTimeout,
		counts: Counters{
			SinkSuccess: make(map[string]uint64, len(sinks)),
			SinkFailure: make(map[string]uint64, len(sinks)),
		},
	}

	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	return e
}

// Emit enqueues the event without blocking; when the queue is full the
// event is counted as dropped.
func (e *Emitter) Emit(ev *Event) {
	if e == nil || ev == nil {
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		e.count(func(c *Counters) { c.Dropped++ })
		return
	}

	select {
	case e.queue <- ev:
		e.count(func(c *Counters) { c.Enqueued++ })
	default:
		e.count(func(c *Counters) { c.Dropped++ })
	}
}

// Close stops accepting events and waits briefly for the queue to drain.
func (e *Emitter) Close(ctx context.Context) {
	if e == nil {
		return
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	waitCtx, cancel := context.WithTimeout(ctx, e.shutdownTimeout)
	defer cancel()

	select {
	case <-done:
	case <-waitCtx.Done():
	}

	for _, s := range e.sinks {
		if err := s.Close(waitCtx); err != nil {
			redact.Logf("audit: sink %s close error: %v", s.Name(), err)
		}
	}
}

// Snapshot copies the current counters.
func (e *Emitter) Snapshot() Counters {
	if e == nil {
		return Counters{}
	}
	e.countsMu.Lock()
	defer e.countsMu.Unlock()

	out := Counters{
		Enqueued:    e.counts.Enqueued,
		Dropped:     e.counts.Dropped,
		SinkSuccess: make(map[string]uint64, len(e.counts.SinkSuccess)),
		SinkFailure: make(map[string]uint64, len(e.counts.SinkFailure)),
	}
	for k, v := range e.counts.SinkSuccess {
		out.SinkSuccess[k] = v
	}
	for k, v := range e.counts.SinkFailure {
		out.SinkFailure[k] = v
	}
	return out
}

func (e *Emitter) count(fn func(*Counters)) {
	e.countsMu.Lock()
	fn(&e.counts)
	e.countsMu.Unlock()
}

func (e *Emitter) worker() {
	defer e.wg.Done()
	for ev := range e.queue {
		for _, s := range e.sinks {
			if err := s.Deliver(context.Background(), ev); err != nil {
				redact.Logf("audit: sink %s failed: %v", s.Name(), err)
				e.count(func(c *Counters) { c.SinkFailure[s.Name()]++ })
				continue
			}
			e.count(func(c *Counters) { c.SinkSuccess[s.Name()]++ })
		}
	}
}
