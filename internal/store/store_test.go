package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"gourmetbot/core/logger"
	"gourmetbot/internal/model"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeRows is an in-memory RowStore: tables of rows with row 1 being
// the header, mirroring the spreadsheet layout.
type fakeRows struct {
	tables map[string][][]string
}

func newFakeRows() *fakeRows {
	return &fakeRows{tables: map[string][][]string{
		TableUsers:         {{"user_id", "language"}},
		TableAnnouncements: {{"dish", "description", "price", "time", "broadcast", "sent"}},
		TableOrders:        {{"user_id", "username", "room", "portions", "created_at", "dish", "order_id", "status"}},
	}}
}

func (f *fakeRows) Rows(_ context.Context, table string) ([][]string, error) {
	return f.tables[table], nil
}

func (f *fakeRows) Row(_ context.Context, table string, index int) ([]string, error) {
	rows := f.tables[table]
	if index < 1 || index > len(rows) {
		return nil, nil
	}
	return rows[index-1], nil
}

func (f *fakeRows) Append(_ context.Context, table string, row []string) error {
	f.tables[table] = append(f.tables[table], row)
	return nil
}

func (f *fakeRows) UpdateCell(_ context.Context, table string, row, col int, value string) error {
	r := f.tables[table][row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	f.tables[table][row-1] = r
	return nil
}

func (f *fakeRows) FindRow(_ context.Context, table string, col int, value string) (int, []string, error) {
	for i, row := range f.tables[table] {
		if i == 0 {
			continue
		}
		if col <= len(row) && row[col-1] == value {
			return i + 1, row, nil
		}
	}
	return 0, nil, nil
}

func TestUpsertUserCreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	rs := newFakeRows()
	s := New(rs)

	if err := s.UpsertUser(ctx, 42, model.LangRU); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.UpsertUser(ctx, 42, model.LangEN); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := len(rs.tables[TableUsers]); got != 2 {
		t.Fatalf("expected a single user row, got %d", got-1)
	}
	lang, err := s.FindUserLanguage(ctx, 42)
	if err != nil {
		t.Fatalf("find language: %v", err)
	}
	if lang != model.LangEN {
		t.Fatalf("language = %s, expected en", lang)
	}
}

func TestFindUserLanguageDefaultsForUnknownUser(t *testing.T) {
	s := New(newFakeRows())
	lang, err := s.FindUserLanguage(context.Background(), 999)
	if err != nil {
		t.Fatalf("find language: %v", err)
	}
	if lang != model.DefaultLang {
		t.Fatalf("language = %s, expected default", lang)
	}
}

func TestMarkAnnouncementSent(t *testing.T) {
	ctx := context.Background()
	rs := newFakeRows()
	s := New(rs)
	if err := rs.Append(ctx, TableAnnouncements, []string{"Плов", "С бараниной", "200", "18:00", "", ""}); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkAnnouncementSent(ctx, 2); err != nil {
		t.Fatalf("mark: %v", err)
	}
	ann, err := s.GetAnnouncementByRef(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ann.Sent {
		t.Fatal("announcement not marked sent")
	}

	// Marking again rewrites the same value.
	if err := s.MarkAnnouncementSent(ctx, 2); err != nil {
		t.Fatalf("re-mark: %v", err)
	}

	if err := s.MarkAnnouncementSent(ctx, 17); err == nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing ref, got %v", err)
	}

	unsent, err := s.ListUnsentAnnouncements(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unsent) != 0 {
		t.Fatalf("a marked announcement must not re-broadcast, got %d", len(unsent))
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	s := New(newFakeRows())
	err := s.UpdateOrderStatus(context.Background(), "missing", model.StatusConfirmed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAnnouncementByRefRejectsHeader(t *testing.T) {
	s := New(newFakeRows())
	for _, ref := range []int{0, 1, -3} {
		if _, err := s.GetAnnouncementByRef(context.Background(), ref); !errors.Is(err, ErrNotFound) {
			t.Fatalf("ref %d: expected ErrNotFound, got %v", ref, err)
		}
	}
}

func TestListUnsentAnnouncements(t *testing.T) {
	ctx := context.Background()
	rs := newFakeRows()
	s := New(rs)
	_ = rs.Append(ctx, TableAnnouncements, []string{"Плов", "", "200", "18:00", "", "TRUE"})
	_ = rs.Append(ctx, TableAnnouncements, []string{"Борщ", "", "150", "19:00", "", ""})

	unsent, err := s.ListUnsentAnnouncements(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unsent) != 1 {
		t.Fatalf("expected 1 unsent announcement, got %d", len(unsent))
	}
	if unsent[0].Dish != "Борщ" || unsent[0].Ref != 3 {
		t.Fatalf("unexpected announcement %+v", unsent[0])
	}
}

func TestUpdateOrderStatusIf(t *testing.T) {
	ctx := context.Background()
	rs := newFakeRows()
	s := New(rs)
	order := model.Order{
		UserID: 7, Username: "resident", Room: "804a", Portions: 2,
		CreatedAt: "2026-09-01 12:00:00", Dish: "Плов", ID: "100",
		Status: model.StatusPending,
	}
	if err := s.AppendOrder(ctx, order); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.UpdateOrderStatusIf(ctx, "100", model.StatusPending, model.StatusConfirmed); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	err := s.UpdateOrderStatusIf(ctx, "100", model.StatusPending, model.StatusRejected)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second transition, got %v", err)
	}
	got, err := s.FindOrder(ctx, "100")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.StatusConfirmed {
		t.Fatalf("status = %s, first decision must stand", got.Status)
	}

	err = s.UpdateOrderStatusIf(ctx, "missing", model.StatusPending, model.StatusConfirmed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindLastOrderForUser(t *testing.T) {
	ctx := context.Background()
	rs := newFakeRows()
	s := New(rs)
	for _, o := range []model.Order{
		{UserID: 7, CreatedAt: "2026-09-01 10:00:00", Dish: "Борщ", ID: "1", Status: model.StatusConfirmed},
		{UserID: 8, CreatedAt: "2026-09-01 13:00:00", Dish: "Плов", ID: "2", Status: model.StatusPending},
		{UserID: 7, CreatedAt: "2026-09-01 12:30:00", Dish: "Плов", ID: "3", Status: model.StatusPending},
	} {
		if err := s.AppendOrder(ctx, o); err != nil {
			t.Fatal(err)
		}
	}

	last, err := s.FindLastOrderForUser(ctx, 7)
	if err != nil {
		t.Fatalf("find last: %v", err)
	}
	if last.ID != "3" {
		t.Fatalf("last order ID = %s, expected 3", last.ID)
	}

	if _, err := s.FindLastOrderForUser(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
