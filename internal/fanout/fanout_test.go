package fanout

import (
	"context"
	"errors"
	"os"
	"testing"

	"gourmetbot/core/logger"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type recordingSender struct {
	failFor map[int64]error
	sent    []int64
}

func (s *recordingSender) Send(_ context.Context, recipient int64, _ Payload) error {
	if err, ok := s.failFor[recipient]; ok {
		return err
	}
	s.sent = append(s.sent, recipient)
	return nil
}

func TestBroadcastContinuesPastFailures(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]error{
		2: errors.New("blocked by user"),
	}}

	res := Broadcast(context.Background(), sender, []int64{1, 2, 3}, Payload{Text: "анонс"})

	if got := res.Sent(); got != 2 {
		t.Fatalf("sent = %d, expected 2", got)
	}
	if got := res.Failed(); got != 1 {
		t.Fatalf("failed = %d, expected 1", got)
	}
	if len(sender.sent) != 2 || sender.sent[0] != 1 || sender.sent[1] != 3 {
		t.Fatalf("recipients after the failure must still get the message, got %v", sender.sent)
	}
	if res.Deliveries[1].Recipient != 2 || res.Deliveries[1].Err == nil {
		t.Fatalf("delivery record for the failed recipient is wrong: %+v", res.Deliveries[1])
	}
}

func TestBroadcastEmptyRecipientList(t *testing.T) {
	sender := &recordingSender{}
	res := Broadcast(context.Background(), sender, nil, Payload{Text: "анонс"})
	if res.Sent() != 0 || res.Failed() != 0 || len(res.Deliveries) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBroadcastStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := &recordingSender{}
	res := Broadcast(ctx, sender, []int64{1, 2}, Payload{Text: "анонс"})

	if len(sender.sent) != 0 {
		t.Fatalf("no sends after cancellation, got %v", sender.sent)
	}
	if res.Failed() != 2 {
		t.Fatalf("failed = %d, expected 2", res.Failed())
	}
}
