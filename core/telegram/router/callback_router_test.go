package router

import (
	"errors"
	"os"
	"testing"

	"gourmetbot/core/logger"
	tg "gourmetbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// cbContext fakes the slice of tele.Context the callback route uses.
// Methods the route never reaches stay on the nil embedded interface.
type cbContext struct {
	tele.Context
	callback *tele.Callback
	values   map[string]any
	responds []*tele.CallbackResponse
	events   *[]string
}

func newCBContext(unique string, events *[]string) *cbContext {
	return &cbContext{
		callback: &tele.Callback{Unique: unique},
		values:   map[string]any{},
		events:   events,
	}
}

func (c *cbContext) Update() tele.Update {
	return tele.Update{ID: 7, Callback: c.callback}
}

func (c *cbContext) Callback() *tele.Callback { return c.callback }

func (c *cbContext) Sender() *tele.User { return &tele.User{ID: 42} }

func (c *cbContext) Chat() *tele.Chat {
	return &tele.Chat{ID: 42, Type: tele.ChatPrivate}
}

func (c *cbContext) Set(key string, val any) { c.values[key] = val }

func (c *cbContext) Get(key string) any { return c.values[key] }

func (c *cbContext) Respond(resp ...*tele.CallbackResponse) error {
	var r *tele.CallbackResponse
	if len(resp) > 0 {
		r = resp[0]
	}
	c.responds = append(c.responds, r)
	*c.events = append(*c.events, "ack")
	return nil
}

func TestCallbackRouteAcksOnceAfterSilentHandler(t *testing.T) {
	var events []string
	reg := tg.NewRegistry()
	_ = reg.RegisterCallback("noop", func(c tele.Context) error {
		events = append(events, "handler")
		return nil
	})
	c := newCBContext("noop", &events)

	if err := CallbackRoute(reg, CallbackOptions{}).Handler(c); err != nil {
		t.Fatalf("route: %v", err)
	}
	if len(events) != 2 || events[0] != "handler" || events[1] != "ack" {
		t.Fatalf("events = %v, the ack must come after the handler", events)
	}
	if len(c.responds) != 1 || c.responds[0] != nil {
		t.Fatalf("responds = %+v, expected a single bare ack", c.responds)
	}
}

func TestCallbackRouteDoesNotDoubleAnswerAlerts(t *testing.T) {
	var events []string
	reg := tg.NewRegistry()
	_ = reg.RegisterCallback("busy", func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Заказ уже обработан", ShowAlert: true})
	})
	c := newCBContext("busy", &events)

	if err := CallbackRoute(reg, CallbackOptions{}).Handler(c); err != nil {
		t.Fatalf("route: %v", err)
	}
	if len(c.responds) != 1 {
		t.Fatalf("query answered %d times, a callback query takes one answer", len(c.responds))
	}
	if c.responds[0] == nil || !c.responds[0].ShowAlert || c.responds[0].Text != "Заказ уже обработан" {
		t.Fatalf("the handler's alert must be the answer, got %+v", c.responds[0])
	}
}

func TestCallbackRouteAcksFailedHandler(t *testing.T) {
	var events []string
	reg := tg.NewRegistry()
	_ = reg.RegisterCallback("boom", func(c tele.Context) error {
		return errors.New("store offline")
	})
	c := newCBContext("boom", &events)

	if err := CallbackRoute(reg, CallbackOptions{}).Handler(c); err == nil {
		t.Fatal("handler error must surface")
	}
	if len(c.responds) != 1 || c.responds[0] != nil {
		t.Fatalf("responds = %+v, the query still needs its ack", c.responds)
	}
}

func TestCallbackRouteUnknownKeyAnsweredByFallback(t *testing.T) {
	var events []string
	reg := tg.NewRegistry()
	c := newCBContext("vanished", &events)

	if err := CallbackRoute(reg, CallbackOptions{}).Handler(c); err != nil {
		t.Fatalf("route: %v", err)
	}
	if len(c.responds) != 1 {
		t.Fatalf("query answered %d times, expected one", len(c.responds))
	}
	if c.responds[0] == nil || c.responds[0].Text != "Unsupported action" {
		t.Fatalf("fallback answer = %+v", c.responds[0])
	}
}
