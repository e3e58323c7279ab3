package services

import (
	"context"
	"log"
	"sync"
	"time"

	"hoa-server/cache"
	"hoa-server/entities"
)

const maxDeliveryAttempts = 3

// Sender delivers one notification over a single channel.
type Sender interface {
	Send(ctx context.Context, n entities.Notification) error
}

// Dispatcher queues notifications in an outbox and delivers them from a
// background worker, so callers never wait on email or SMS.
type Dispatcher struct {
	outbox   *cache.Outbox
	senders  map[entities.Channel]Sender
	interval time.Duration
	wake     chan struct{}
	flushMu  sync.Mutex
}

func NewDispatcher(outbox *cache.Outbox, interval time.Duration, senders map[entities.Channel]Sender) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Dispatcher{
		outbox:   outbox,
		senders:  senders,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Enqueue queues notifications and nudges the worker. It never blocks.
func (d *Dispatcher) Enqueue(ns ...entities.Notification) {
	if len(ns) == 0 {
		return
	}
	d.outbox.Add(ns...)
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Start runs the delivery worker until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				d.Flush(context.Background())
				return
			case <-ticker.C:
				d.Flush(ctx)
			case <-d.wake:
				d.Flush(ctx)
			}
		}
	}()
}

// Flush delivers everything queued and returns how many were sent.
// Failures are logged and retried on a later round.
func (d *Dispatcher) Flush(ctx context.Context) int {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	items := d.outbox.Drain()
	if len(items) == 0 {
		return 0
	}

	var retry []cache.OutboxItem
	delivered, failed, dropped := 0, 0, 0
	for _, item := range items {
		sender, ok := d.senders[item.Notification.Channel]
		if !ok {
			log.Printf("no sender for channel %q, dropping notification to %s", item.Notification.Channel, item.Notification.To)
			dropped++
			continue
		}
		if err := sender.Send(ctx, item.Notification); err != nil {
			failed++
			item.Attempts++
			if item.Attempts >= maxDeliveryAttempts {
				log.Printf("giving up on %s notification to %s after %d attempts: %v",
					item.Notification.Channel, item.Notification.To, item.Attempts, err)
				dropped++
				continue
			}
			log.Printf("error sending %s notification to %s: %v", item.Notification.Channel, item.Notification.To, err)
			retry = append(retry, item)
			continue
		}
		delivered++
	}
	d.outbox.Requeue(retry)
	d.outbox.Record(delivered, failed, dropped)
	log.Printf("Delivered %d notifications (%d failed, %d dropped)", delivered, failed, dropped)
	return delivered
}

func (d *Dispatcher) Stats() map[string]interface{} {
	stats := d.outbox.Stats()
	stats["flush_interval"] = d.interval.String()
	return stats
}

// Pending returns a snapshot of the notifications still waiting for delivery.
func (d *Dispatcher) Pending() []cache.OutboxItem {
	return d.outbox.Pending()
}
