// Package emit dispatches mapped events to their destinations: the
// shared data-layer queue for the analytics suite, platform pixel hooks
// on the client side, and server relays for the ad platforms.
package emit

import (
	"log/slog"
	"sync"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/consent"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/platform"
)

// Queue is the shared, append-only event queue consumed by an external
// tag-manager runtime.
type Queue interface {
	// Push appends one entry. Implementations must not mutate it.
	Push(entry map[string]any)
}

// MemoryQueue is an in-process Queue. It is the default and doubles as
// a test double.
type MemoryQueue struct {
	mu      sync.Mutex
	entries []map[string]any
}

// NewMemoryQueue creates an empty queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Push implements Queue.
func (q *MemoryQueue) Push(entry map[string]any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry)
}

// Entries returns a snapshot of everything pushed so far.
func (q *MemoryQueue) Entries() []map[string]any {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]map[string]any, len(q.entries))
	copy(out, q.entries)
	return out
}

// QueueEmitter pushes analytics-suite events onto the shared queue.
// Sends are consent-gated; a blocked send is a logged no-op. No
// identity fields are ever forwarded through the queue.
type QueueEmitter struct {
	queue  Queue
	gate   *consent.Gate
	logger *slog.Logger
}

// NewQueueEmitter creates the analytics-suite client emitter.
func NewQueueEmitter(queue Queue, gate *consent.Gate, logger *slog.Logger) *QueueEmitter {
	return &QueueEmitter{queue: queue, gate: gate, logger: logger}
}

// Emit pushes {event: name, ...params} when analytics consent is granted.
func (e *QueueEmitter) Emit(pe platform.Event) {
	if !e.gate.CanSendAnalytics() {
		e.gate.LogBlocked(platform.GA4, pe.Name)
		return
	}
	entry := make(map[string]any, len(pe.Params)+1)
	entry["event"] = pe.Name
	for k, v := range pe.Params {
		entry[k] = v
	}
	e.queue.Push(entry)
}
