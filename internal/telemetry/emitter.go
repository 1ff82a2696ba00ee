package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"curvesandbox/internal/shared/logger"
	"curvesandbox/internal/shared/types"
)

// DefaultQueueSize bounds the events waiting to be sent.
const DefaultQueueSize = 256

// Emitter queues events and sends them one at a time from Run. When the
// queue is full new events are dropped and counted. A nil Emitter drops
// everything.
type Emitter struct {
	client  *Client
	log     *logger.Logger
	queue   chan types.TelemetryEvent
	dropped atomic.Int64
	timeout time.Duration
}

// NewEmitter returns nil when client is nil.
func NewEmitter(client *Client, log *logger.Logger, size int) *Emitter {
	if client == nil {
		return nil
	}
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Emitter{
		client:  client,
		log:     log,
		queue:   make(chan types.TelemetryEvent, size),
		timeout: 2 * time.Second,
	}
}

// Emit queues ev without blocking. It reports whether ev was queued.
func (e *Emitter) Emit(ev types.TelemetryEvent) bool {
	if e == nil {
		return false
	}
	stamp(&ev, time.Now().UTC())
	select {
	case e.queue <- ev:
		return true
	default:
		if n := e.dropped.Add(1); n == 1 || n%100 == 0 {
			e.log.Printf("telemetry queue full dropped=%d", n)
		}
		return false
	}
}

// Dropped returns how many events were discarded on a full queue.
func (e *Emitter) Dropped() int64 {
	if e == nil {
		return 0
	}
	return e.dropped.Load()
}

// Run sends queued events until ctx is done.
func (e *Emitter) Run(ctx context.Context) {
	if e == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.queue:
			sendCtx, cancel := context.WithTimeout(ctx, e.timeout)
			if err := e.client.Send(sendCtx, ev); err != nil {
				e.log.Printf("telemetry send failed event=%s session=%s err=%v", ev.EventType, ev.SessionID, err)
			}
			cancel()
		}
	}
}
