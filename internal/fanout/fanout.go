// Package fanout delivers one message to many recipients, collecting
// per-recipient results instead of aborting on the first failure.
package fanout

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"gourmetbot/core/logger"
)

// Payload is a single broadcast message. PhotoFileID takes precedence
// over Text when set; Caption rides along with the photo.
type Payload struct {
	Text        string
	PhotoFileID string
	Caption     string
	Markup      *tele.ReplyMarkup
}

// Sender abstracts the gateway so broadcasts are testable offline.
type Sender interface {
	Send(ctx context.Context, recipient int64, p Payload) error
}

// Delivery is the outcome for one recipient.
type Delivery struct {
	Recipient int64
	Err       error
}

// Result aggregates a finished broadcast.
type Result struct {
	Deliveries []Delivery
}

// Sent counts successful deliveries.
func (r Result) Sent() int {
	n := 0
	for _, d := range r.Deliveries {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts failed deliveries.
func (r Result) Failed() int {
	return len(r.Deliveries) - r.Sent()
}

// Broadcast sends the payload to every recipient in order. A failed
// send is logged and recorded; the remaining recipients still get the
// message. Cancellation of ctx stops the loop early.
func Broadcast(ctx context.Context, s Sender, recipients []int64, p Payload) Result {
	res := Result{Deliveries: make([]Delivery, 0, len(recipients))}
	for _, rcpt := range recipients {
		if ctx.Err() != nil {
			res.Deliveries = append(res.Deliveries, Delivery{Recipient: rcpt, Err: ctx.Err()})
			continue
		}
		err := s.Send(ctx, rcpt, p)
		if err != nil {
			logger.SVCBroadcast.Warn("delivery failed",
				slog.String("event", "send.failed"),
				slog.Int64("user_id", rcpt),
				slog.String("err", err.Error()),
			)
		}
		res.Deliveries = append(res.Deliveries, Delivery{Recipient: rcpt, Err: err})
	}
	logger.SVCBroadcast.Info("broadcast finished",
		slog.String("event", "broadcast.done"),
		slog.String("status", "ok"),
		slog.Int("recipients", len(recipients)),
		slog.Int("sent", res.Sent()),
		slog.Int("failed", res.Failed()),
	)
	return res
}
