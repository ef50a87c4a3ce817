package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"gourmetbot/core/logger"
	"gourmetbot/internal/fanout"
	"gourmetbot/internal/store"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeRows is an in-memory spreadsheet with row 1 as the header. Every
// write lands in the shared journal so tests can assert ordering
// against the fan-out.
type fakeRows struct {
	tables  map[string][][]string
	journal *[]string
	markErr error
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
	if table == store.TableAnnouncements && f.markErr != nil {
		return f.markErr
	}
	cells := f.tables[table][row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	f.tables[table][row-1] = cells
	if table == store.TableAnnouncements {
		*f.journal = append(*f.journal, fmt.Sprintf("mark:%d", row))
	}
	return nil
}

func (f *fakeRows) FindRow(_ context.Context, table string, col int, value string) (int, []string, error) {
	for i, row := range f.tables[table] {
		if col <= len(row) && row[col-1] == value {
			return i + 1, row, nil
		}
	}
	return 0, nil, nil
}

// journalSender records broadcast deliveries in the shared journal.
type journalSender struct {
	journal *[]string
	byUser  map[int64]fanout.Payload
}

func (s *journalSender) Send(_ context.Context, recipient int64, p fanout.Payload) error {
	*s.journal = append(*s.journal, fmt.Sprintf("send:%d", recipient))
	s.byUser[recipient] = p
	return nil
}

// adminChat fakes the gateway context of the admin issuing the
// command. Only the methods the broadcast path reaches are real.
type adminChat struct {
	tele.Context
	values  map[string]any
	texts   []string
	markups []*tele.ReplyMarkup
}

func newAdminChat() *adminChat {
	return &adminChat{values: map[string]any{}}
}

func (c *adminChat) Update() tele.Update { return tele.Update{ID: 1} }

func (c *adminChat) Sender() *tele.User { return &tele.User{ID: 1} }

func (c *adminChat) Chat() *tele.Chat {
	return &tele.Chat{ID: 1, Type: tele.ChatPrivate}
}

func (c *adminChat) Set(key string, val any) { c.values[key] = val }

func (c *adminChat) Get(key string) any { return c.values[key] }

func (c *adminChat) Send(what any, opts ...any) error {
	if text, ok := what.(string); ok {
		c.texts = append(c.texts, text)
	}
	var markup *tele.ReplyMarkup
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok && so != nil {
			markup = so.ReplyMarkup
		}
	}
	c.markups = append(c.markups, markup)
	return nil
}

func newMenuFixture(markErr error) (*Handlers, *fakeRows, *journalSender) {
	journal := &[]string{}
	rows := &fakeRows{
		journal: journal,
		markErr: markErr,
		tables: map[string][][]string{
			store.TableUsers: {
				{"user_id", "language"},
				{"1", "ru"},
				{"2", "ru"},
				{"3", "en"},
			},
			store.TableAnnouncements: {
				{"dish", "description", "price", "time", "broadcast", "sent"},
				{"Борщ", "Со сметаной", "200", "12:00", "Приходите к полудню!", ""},
			},
			store.TableOrders: {
				{"user_id", "username", "room", "portions", "created_at", "dish", "order_id", "status"},
			},
		},
	}
	sender := &journalSender{journal: journal, byUser: map[int64]fanout.Payload{}}
	h := NewHandlers(store.New(rows), nil, nil, nil, sender, []int64{1})
	return h, rows, sender
}

func TestSendMenuMarksSentAfterFanout(t *testing.T) {
	h, rows, sender := newMenuFixture(nil)
	c := newAdminChat()

	if err := h.SendMenu(c); err != nil {
		t.Fatalf("send_menu: %v", err)
	}

	journal := *rows.journal
	if len(journal) != 3 || journal[len(journal)-1] != "mark:2" {
		t.Fatalf("journal = %v, the sent flag must flip only after every delivery", journal)
	}
	if _, ok := sender.byUser[1]; ok {
		t.Fatal("the issuing admin must not be in the fan-out, the preview covers them")
	}
	if cell := rows.tables[store.TableAnnouncements][1][5]; cell != "TRUE" {
		t.Fatalf("sent cell = %q, expected TRUE", cell)
	}

	ru, en := sender.byUser[2], sender.byUser[3]
	if ru.Markup == nil || ru.Markup.InlineKeyboard[0][0].Data != "2" {
		t.Fatalf("ru copy misses the reserve button for row 2: %+v", ru.Markup)
	}
	if en.Markup == nil || en.Markup.InlineKeyboard[0][0].Text != "Reserve" {
		t.Fatalf("en copy must carry the English button: %+v", en.Markup)
	}
	if strings.Contains(ru.Text, "Приходите") {
		t.Fatalf("user copy must not carry the broadcast note: %q", ru.Text)
	}

	if len(c.texts) != 2 {
		t.Fatalf("admin got %d messages, expected preview and report: %v", len(c.texts), c.texts)
	}
	if !strings.Contains(c.texts[0], "Приходите к полудню!") {
		t.Fatalf("preview must include the broadcast note: %q", c.texts[0])
	}
	if c.markups[0] == nil || c.markups[0].InlineKeyboard[0][0].Unique != actReserve {
		t.Fatalf("preview misses the reserve button: %+v", c.markups[0])
	}
	if !strings.Contains(c.texts[1], "Доставлено: 2, ошибок: 0") {
		t.Fatalf("report = %q", c.texts[1])
	}
}

func TestSendMenuMarkFailureNotifiesAdmin(t *testing.T) {
	h, rows, sender := newMenuFixture(errors.New("sheet quota exceeded"))
	c := newAdminChat()

	err := h.SendMenu(c)
	if err == nil {
		t.Fatal("marking failure must surface as an error")
	}
	if len(sender.byUser) != 2 {
		t.Fatalf("fan-out still happens before marking, got %d deliveries", len(sender.byUser))
	}
	if cell := rows.tables[store.TableAnnouncements][1][5]; cell != "" {
		t.Fatalf("sent cell = %q, expected it untouched", cell)
	}
	last := c.texts[len(c.texts)-1]
	if !strings.Contains(last, "не помечен") {
		t.Fatalf("admin notice = %q", last)
	}
}

func TestSendMenuSecondRunResendsNothing(t *testing.T) {
	h, rows, sender := newMenuFixture(nil)
	if err := h.SendMenu(newAdminChat()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	delivered := len(*rows.journal)

	c := newAdminChat()
	if err := h.SendMenu(c); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(*rows.journal) != delivered {
		t.Fatalf("journal grew on the second run: %v", *rows.journal)
	}
	if len(sender.byUser) != 2 {
		t.Fatalf("second run must not deliver anything new, got %d recipients", len(sender.byUser))
	}
	if len(c.texts) != 1 || c.texts[0] != "Новых анонсов нет." {
		t.Fatalf("second run reply = %v", c.texts)
	}
}
