package services

import (
	"context"
	"log"
	"time"

	"hoa-server/repositories"
)

// OverdueJob periodically flags pending payments that are past due.
type OverdueJob struct {
	payments repositories.PaymentRepository
	interval time.Duration
	now      func() time.Time
}

func NewOverdueJob(payments repositories.PaymentRepository, interval time.Duration) *OverdueJob {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &OverdueJob{payments: payments, interval: interval, now: time.Now}
}

// Start runs the job once immediately and then on every tick until ctx ends.
func (j *OverdueJob) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		j.Run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.Run(ctx)
			}
		}
	}()
}

func (j *OverdueJob) Run(ctx context.Context) int64 {
	n, err := j.payments.MarkOverdue(ctx, j.now())
	if err != nil {
		log.Printf("Error marking overdue payments: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Marked %d payments as overdue", n)
	}
	return n
}
