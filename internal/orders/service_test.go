package orders

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"gourmetbot/core/logger"
	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
	"gourmetbot/internal/store"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeOrders struct {
	orders map[string]*model.Order
	langs  map[int64]model.Lang
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[string]*model.Order), langs: make(map[int64]model.Lang)}
}

func (f *fakeOrders) FindOrder(_ context.Context, orderID string) (model.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return model.Order{}, store.ErrNotFound
	}
	return *o, nil
}

func (f *fakeOrders) FindLastOrderForUser(_ context.Context, userID int64) (model.Order, error) {
	var (
		found bool
		last  model.Order
	)
	for _, o := range f.orders {
		if o.UserID != userID {
			continue
		}
		if !found || o.CreatedAt >= last.CreatedAt {
			found = true
			last = *o
		}
	}
	if !found {
		return model.Order{}, store.ErrNotFound
	}
	return last, nil
}

func (f *fakeOrders) FindUserLanguage(_ context.Context, userID int64) (model.Lang, error) {
	if lang, ok := f.langs[userID]; ok {
		return lang, nil
	}
	return model.DefaultLang, nil
}

func (f *fakeOrders) UpdateOrderStatusIf(_ context.Context, orderID string, from, to model.OrderStatus) error {
	o, ok := f.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	if o.Status != from {
		return store.ErrConflict
	}
	o.Status = to
	return nil
}

func pendingOrder(id string, userID int64) *model.Order {
	return &model.Order{
		UserID: userID, Username: "resident", Room: "804a", Portions: 2,
		CreatedAt: "2026-09-01 12:00:00", Dish: "Плов", ID: id,
		Status: model.StatusPending,
	}
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFakeOrders()
	f.orders["100"] = pendingOrder("100", 7)
	f.langs[7] = model.LangEN
	svc := NewService(f)

	out, err := svc.Confirm(ctx, "100")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if f.orders["100"].Status != model.StatusConfirmed {
		t.Fatalf("status = %s", f.orders["100"].Status)
	}
	if out.UserNotice != locale.T(model.LangEN, locale.OrderConfirmed, "Плов", "804a", 2) {
		t.Fatalf("notice must use the user's language, got %q", out.UserNotice)
	}
	if out.AdminNotice != "" {
		t.Fatal("confirm sends no admin notice")
	}
	if out.Alert == "" {
		t.Fatal("the pressing admin gets an alert")
	}
}

func TestRejectNotifiesAdmins(t *testing.T) {
	ctx := context.Background()
	f := newFakeOrders()
	f.orders["100"] = pendingOrder("100", 7)
	svc := NewService(f)

	out, err := svc.Reject(ctx, "100")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if f.orders["100"].Status != model.StatusRejected {
		t.Fatalf("status = %s", f.orders["100"].Status)
	}
	if out.AdminNotice == "" || !strings.Contains(out.AdminNotice, "Плов") {
		t.Fatalf("expected admin notice, got %q", out.AdminNotice)
	}
	if out.UserNotice == "" {
		t.Fatal("rejected user must be notified")
	}
}

func TestDecideAlreadyHandled(t *testing.T) {
	ctx := context.Background()
	f := newFakeOrders()
	o := pendingOrder("100", 7)
	o.Status = model.StatusConfirmed
	f.orders["100"] = o
	svc := NewService(f)

	out, err := svc.Reject(ctx, "100")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if f.orders["100"].Status != model.StatusConfirmed {
		t.Fatal("a handled order must keep its status")
	}
	if out.UserNotice != "" || out.AdminNotice != "" {
		t.Fatal("no notices for a stale decision")
	}
	if out.Alert == "" {
		t.Fatal("stale decision must alert the admin")
	}
}

func TestDecideUnknownOrder(t *testing.T) {
	svc := NewService(newFakeOrders())
	out, err := svc.Confirm(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unknown order must not surface an error: %v", err)
	}
	if out.Alert == "" {
		t.Fatal("expected an alert")
	}
}

func TestSelfCancel(t *testing.T) {
	ctx := context.Background()
	f := newFakeOrders()
	f.orders["100"] = pendingOrder("100", 7)
	svc := NewService(f)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC) }

	out, err := svc.SelfCancel(ctx, 7)
	if err != nil {
		t.Fatalf("self cancel: %v", err)
	}
	got := f.orders["100"].Status
	if !got.IsCanceledByUser() {
		t.Fatalf("status = %s", got)
	}
	if !strings.Contains(string(got), "2026-09-01 14:30:00") {
		t.Fatalf("cancel status must carry the timestamp, got %s", got)
	}
	if out.AdminNotice == "" {
		t.Fatal("admins must learn about the withdrawal")
	}
}

func TestSelfCancelNoOrders(t *testing.T) {
	svc := NewService(newFakeOrders())
	out, err := svc.SelfCancel(context.Background(), 7)
	if err != nil {
		t.Fatalf("self cancel: %v", err)
	}
	if out.UserNotice != locale.T(model.DefaultLang, locale.CancelNoOrder) {
		t.Fatalf("unexpected notice %q", out.UserNotice)
	}
	if out.AdminNotice != "" {
		t.Fatal("nothing to tell the admins")
	}
}

func TestSelfCancelHandledOrder(t *testing.T) {
	f := newFakeOrders()
	o := pendingOrder("100", 7)
	o.Status = model.StatusRejected
	f.orders["100"] = o
	svc := NewService(f)

	out, err := svc.SelfCancel(context.Background(), 7)
	if err != nil {
		t.Fatalf("self cancel: %v", err)
	}
	if f.orders["100"].Status != model.StatusRejected {
		t.Fatal("handled order must keep its status")
	}
	if out.UserNotice != locale.T(model.DefaultLang, locale.CancelHandled) {
		t.Fatalf("unexpected notice %q", out.UserNotice)
	}
}
