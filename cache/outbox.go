package cache

import (
	"sync"
	"time"

	"hoa-server/entities"
)

type OutboxItem struct {
	Notification entities.Notification
	QueuedAt     time.Time
	Attempts     int
}

// Outbox buffers notifications between the request that triggers them and
// the background worker that delivers them.
type Outbox struct {
	mu        sync.RWMutex
	items     []OutboxItem
	delivered int
	failed    int
	dropped   int
}

func NewOutbox() *Outbox {
	return &Outbox{items: make([]OutboxItem, 0)}
}

// Add queues notifications for delivery
func (o *Outbox) Add(ns ...entities.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now()
	for _, n := range ns {
		o.items = append(o.items, OutboxItem{Notification: n, QueuedAt: now})
	}
}

// Drain removes and returns everything queued so far.
func (o *Outbox) Drain() []OutboxItem {
	o.mu.Lock()
	defer o.mu.Unlock()

	drained := o.items
	o.items = make([]OutboxItem, 0)
	return drained
}

// Requeue puts failed items back at the front of the queue.
func (o *Outbox) Requeue(items []OutboxItem) {
	if len(items) == 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	o.items = append(append(make([]OutboxItem, 0, len(items)+len(o.items)), items...), o.items...)
}

// Record adds the outcome of one delivery round to the running totals.
func (o *Outbox) Record(delivered, failed, dropped int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.delivered += delivered
	o.failed += failed
	o.dropped += dropped
}

func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.items)
}

// Pending returns a copy of the queued items
func (o *Outbox) Pending() []OutboxItem {
	o.mu.RLock()
	defer o.mu.RUnlock()

	pending := make([]OutboxItem, len(o.items))
	copy(pending, o.items)
	return pending
}

// Stats returns statistics about the outbox
func (o *Outbox) Stats() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	byChannel := make(map[entities.Channel]int)
	for _, item := range o.items {
		byChannel[item.Notification.Channel]++
	}

	return map[string]interface{}{
		"pending":            len(o.items),
		"pending_by_channel": byChannel,
		"delivered":          o.delivered,
		"failed_attempts":    o.failed,
		"dropped":            o.dropped,
	}
}
