package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
	"gourmetbot/internal/session"
	"gourmetbot/internal/store"
)

// fakeRecords is an in-memory RecordStore.
type fakeRecords struct {
	langs         map[int64]model.Lang
	announcements map[int]model.Announcement
	orders        []model.Order
	appendErr     error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		langs:         make(map[int64]model.Lang),
		announcements: make(map[int]model.Announcement),
	}
}

func (f *fakeRecords) FindUserLanguage(_ context.Context, userID int64) (model.Lang, error) {
	if lang, ok := f.langs[userID]; ok {
		return lang, nil
	}
	return model.DefaultLang, nil
}

func (f *fakeRecords) UpsertUser(_ context.Context, userID int64, lang model.Lang) error {
	f.langs[userID] = lang
	return nil
}

func (f *fakeRecords) GetAnnouncementByRef(_ context.Context, ref int) (model.Announcement, error) {
	ann, ok := f.announcements[ref]
	if !ok {
		return model.Announcement{}, store.ErrNotFound
	}
	return ann, nil
}

func (f *fakeRecords) AppendOrder(_ context.Context, o model.Order) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.orders = append(f.orders, o)
	return nil
}

func newTestReservation(t *testing.T, records *fakeRecords) (*Reservation, *session.Memory) {
	t.Helper()
	sessions := session.NewMemory(time.Hour)
	t.Cleanup(sessions.Close)
	r := NewReservation(sessions, records)
	r.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return r, sessions
}

func TestReservationFullDialogue(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	records.announcements[5] = model.Announcement{Ref: 5, Dish: "Плов", Price: 200}
	r, _ := newTestReservation(t, records)

	reply, err := r.Reserve(ctx, 7, 5)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !strings.Contains(reply.Text, "Плов") || reply.Keyboard != KbCancel {
		t.Fatalf("unexpected portions prompt: %+v", reply)
	}
	if !r.InProgress(ctx, 7) {
		t.Fatal("dialogue must be in progress after reserve")
	}

	reply, handled, err := r.Text(ctx, 7, "3")
	if err != nil || !handled {
		t.Fatalf("portions step: handled=%v err=%v", handled, err)
	}
	if !strings.Contains(reply.Text, "804a") && !strings.Contains(reply.Text, "блок") {
		t.Fatalf("expected room prompt, got %q", reply.Text)
	}

	reply, handled, err = r.Text(ctx, 7, "  804a  ")
	if err != nil || !handled {
		t.Fatalf("room step: handled=%v err=%v", handled, err)
	}
	// 3 portions at 200 each.
	if !strings.Contains(reply.Text, "600") {
		t.Fatalf("payment summary must carry the total, got %q", reply.Text)
	}

	reply, notice, err := r.Photo(ctx, 7, "resident", 4242, []Photo{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "big", Width: 800, Height: 600},
	})
	if err != nil {
		t.Fatalf("photo: %v", err)
	}
	if notice == nil {
		t.Fatal("expected an order notice")
	}
	if notice.PhotoFileID != "big" {
		t.Fatalf("notice photo = %s, expected the largest variant", notice.PhotoFileID)
	}
	o := notice.Order
	if o.ID != "4242" || o.Status != model.StatusPending || o.Room != "804a" || o.Portions != 3 || o.Dish != "Плов" {
		t.Fatalf("unexpected order %+v", o)
	}
	if o.CreatedAt != "2026-09-01 12:00:00" {
		t.Fatalf("created_at = %s", o.CreatedAt)
	}
	if len(records.orders) != 1 {
		t.Fatalf("expected 1 appended order, got %d", len(records.orders))
	}
	if reply.Text == "" || reply.Keyboard != KbNone {
		t.Fatalf("unexpected confirmation reply: %+v", reply)
	}
	if r.InProgress(ctx, 7) {
		t.Fatal("dialogue must be closed after the receipt")
	}
}

func TestReservationInvalidPortionsKeepsState(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	records.announcements[5] = model.Announcement{Ref: 5, Dish: "Плов", Price: 200}
	r, sessions := newTestReservation(t, records)

	if _, err := r.Reserve(ctx, 7, 5); err != nil {
		t.Fatal(err)
	}
	for _, input := range []string{"abc", "-2", "0", "1.5", ""} {
		reply, handled, err := r.Text(ctx, 7, input)
		if err != nil || !handled {
			t.Fatalf("input %q: handled=%v err=%v", input, handled, err)
		}
		if reply.Text != locale.T(model.LangRU, locale.PortionsInvalid) {
			t.Fatalf("input %q: expected re-prompt, got %q", input, reply.Text)
		}
	}
	s, ok, _ := sessions.Get(ctx, session.Key{UserID: 7, Scope: session.ScopeReserve})
	if !ok || s.State != StatePortions {
		t.Fatalf("state after invalid input = %v, expected %s", s.State, StatePortions)
	}
	if s.Bag.Portions != 0 {
		t.Fatalf("bag must stay untouched, got portions=%d", s.Bag.Portions)
	}
}

func TestReserveVanishedAnnouncement(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestReservation(t, newFakeRecords())

	reply, err := r.Reserve(ctx, 7, 5)
	if err != nil {
		t.Fatalf("vanished announcement must not surface an error: %v", err)
	}
	if !reply.Alert {
		t.Fatal("expected an alert reply")
	}
	if r.InProgress(ctx, 7) {
		t.Fatal("no dialogue must start for a vanished announcement")
	}
}

func TestReservationCancel(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	records.announcements[5] = model.Announcement{Ref: 5, Dish: "Плов", Price: 200}
	r, _ := newTestReservation(t, records)

	reply, err := r.Cancel(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !reply.Alert {
		t.Fatal("cancel with no dialogue must alert")
	}

	_, _ = r.Reserve(ctx, 7, 5)
	_, _, _ = r.Text(ctx, 7, "2")

	reply, err = r.Cancel(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Alert || reply.Text != locale.T(model.LangRU, locale.ReserveCanceled) {
		t.Fatalf("unexpected cancel reply: %+v", reply)
	}
	if r.InProgress(ctx, 7) {
		t.Fatal("cancel must close the dialogue")
	}
}

func TestPhotoStoreFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	records.announcements[5] = model.Announcement{Ref: 5, Dish: "Плов", Price: 200}
	r, _ := newTestReservation(t, records)

	_, _ = r.Reserve(ctx, 7, 5)
	_, _, _ = r.Text(ctx, 7, "2")
	_, _, _ = r.Text(ctx, 7, "804a")

	records.appendErr = errors.New("quota exceeded")
	reply, notice, err := r.Photo(ctx, 7, "resident", 1, []Photo{{FileID: "f", Width: 1, Height: 1}})
	if err == nil {
		t.Fatal("expected the store error to surface")
	}
	if notice != nil {
		t.Fatal("no notice on failure")
	}
	if reply.Text != locale.T(model.LangRU, locale.GenericError) {
		t.Fatalf("expected generic error text, got %q", reply.Text)
	}
	if !r.InProgress(ctx, 7) {
		t.Fatal("session must survive a store failure so the user can retry")
	}

	records.appendErr = nil
	if _, notice, err = r.Photo(ctx, 7, "resident", 2, []Photo{{FileID: "f", Width: 1, Height: 1}}); err != nil || notice == nil {
		t.Fatalf("retry must succeed: notice=%v err=%v", notice, err)
	}
}

func TestPhotoOutsideReceiptStateReprompts(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	records.announcements[5] = model.Announcement{Ref: 5, Dish: "Плов", Price: 200}
	r, _ := newTestReservation(t, records)

	_, _ = r.Reserve(ctx, 7, 5)

	reply, notice, err := r.Photo(ctx, 7, "resident", 1, []Photo{{FileID: "f", Width: 1, Height: 1}})
	if err != nil || notice != nil {
		t.Fatalf("premature photo: notice=%v err=%v", notice, err)
	}
	if reply.Text != locale.T(model.LangRU, locale.PortionsInvalid) {
		t.Fatalf("expected portions re-prompt, got %q", reply.Text)
	}
	if len(records.orders) != 0 {
		t.Fatal("no order may be created before the receipt step")
	}
}
