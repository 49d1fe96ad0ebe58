// Package notify fans admin notifications out to a message sink. Delivery is
// best effort: every recipient is attempted independently and a failure is
// logged, never propagated to the action that produced the notification.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Notifier delivers one message to one recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID int64, text string) error
}

type Dispatcher struct {
	sink Notifier
	log  *zap.Logger
	wg   sync.WaitGroup
}

func NewDispatcher(sink Notifier, log *zap.Logger) *Dispatcher {
	return &Dispatcher{sink: sink, log: log}
}

// Announce sends text to every recipient, one goroutine per recipient, and
// returns without waiting. The originating action has already committed by
// the time Announce runs, so its outcome never depends on delivery.
func (d *Dispatcher) Announce(ctx context.Context, recipientIDs []int64, text string) {
	// The join that produced this announcement has already committed;
	// delivery must not be cut short when the request scope ends.
	ctx = context.WithoutCancel(ctx)
	for _, id := range recipientIDs {
		d.wg.Add(1)
		go func(id int64) {
			defer d.wg.Done()
			if err := d.sink.Notify(ctx, id, text); err != nil {
				d.log.Warn("notification delivery failed",
					zap.Int64("recipient_id", id),
					zap.Error(err),
				)
			}
		}(id)
	}
}

// Wait blocks until all in-flight deliveries finish. Used at shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
