// Package store composes domain operations on top of a spreadsheet-like
// row store. The backend exposes no transactions and no indexes, only
// whole-row reads, appends, single-cell updates, and first-match
// search by value; every operation here is built from those primitives.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gourmetbot/core/logger"
	"gourmetbot/internal/model"

	"log/slog"
)

// Table names inside the backing spreadsheet.
const (
	TableUsers         = "Users"
	TableAnnouncements = "Announcements"
	TableOrders        = "Orders"
)

// Users sheet columns (1-based).
const (
	userColID = iota + 1
	userColLanguage
)

// Announcements sheet columns (1-based).
const (
	annColDish = iota + 1
	annColDescription
	annColPrice
	annColTime
	annColBroadcast
	annColSent
)

// Orders sheet columns (1-based).
const (
	orderColUserID = iota + 1
	orderColUsername
	orderColRoom
	orderColPortions
	orderColCreatedAt
	orderColDish
	orderColID
	orderColStatus
)

// RowStore is the raw spreadsheet surface the adapter is built on.
// Row indexes are 1-based and include the header row at index 1.
// FindRow returns index 0 when no row matches.
type RowStore interface {
	Rows(ctx context.Context, table string) ([][]string, error)
	Row(ctx context.Context, table string, index int) ([]string, error)
	Append(ctx context.Context, table string, row []string) error
	UpdateCell(ctx context.Context, table string, row, col int, value string) error
	FindRow(ctx context.Context, table string, col int, value string) (int, []string, error)
}

// Store translates domain operations into row store calls.
type Store struct {
	rs RowStore
}

// New wraps a RowStore with the domain adapter.
func New(rs RowStore) *Store {
	return &Store{rs: rs}
}

// FindUserLanguage returns the stored language of a user, defaulting
// to ru when the user has no row yet.
func (s *Store) FindUserLanguage(ctx context.Context, userID int64) (model.Lang, error) {
	row, values, err := s.rs.FindRow(ctx, TableUsers, userColID, formatID(userID))
	if err != nil {
		return model.DefaultLang, fmt.Errorf("find user %d: %w", userID, err)
	}
	if row == 0 {
		return model.DefaultLang, nil
	}
	return model.ParseLang(cell(values, userColLanguage)), nil
}

// UpsertUser creates the user row or updates its language in place.
func (s *Store) UpsertUser(ctx context.Context, userID int64, lang model.Lang) error {
	row, _, err := s.rs.FindRow(ctx, TableUsers, userColID, formatID(userID))
	if err != nil {
		return fmt.Errorf("find user %d: %w", userID, err)
	}
	if row == 0 {
		if err := s.rs.Append(ctx, TableUsers, []string{formatID(userID), string(lang)}); err != nil {
			return fmt.Errorf("append user %d: %w", userID, err)
		}
		logger.SVCUsers.Info("user created",
			slog.String("event", "user.create"),
			slog.Int64("user_id", userID),
			slog.String("lang", string(lang)),
		)
		return nil
	}
	if err := s.rs.UpdateCell(ctx, TableUsers, row, userColLanguage, string(lang)); err != nil {
		return fmt.Errorf("update user %d language: %w", userID, err)
	}
	return nil
}

// ListUsers returns every known user with a resolved language.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.rs.Rows(ctx, TableUsers)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]model.User, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			logger.Sheets.Warn("skipping malformed user row",
				slog.String("event", "users.skip"),
				slog.Int("row", i+1),
				slog.String("err", err.Error()),
			)
			continue
		}
		users = append(users, model.User{ID: id, Language: model.ParseLang(cell(row, userColLanguage))})
	}
	return users, nil
}

// ListUnsentAnnouncements returns announcements whose sent flag is not yet true.
func (s *Store) ListUnsentAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	rows, err := s.rs.Rows(ctx, TableAnnouncements)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	var unsent []model.Announcement
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		ann := announcementFromRow(i+1, row)
		if ann.Sent {
			continue
		}
		unsent = append(unsent, ann)
	}
	return unsent, nil
}

// GetAnnouncementByRef resolves an announcement by its row reference.
func (s *Store) GetAnnouncementByRef(ctx context.Context, ref int) (model.Announcement, error) {
	if ref <= 1 {
		return model.Announcement{}, fmt.Errorf("announcement ref %d: %w", ref, ErrNotFound)
	}
	row, err := s.rs.Row(ctx, TableAnnouncements, ref)
	if err != nil {
		return model.Announcement{}, fmt.Errorf("read announcement %d: %w", ref, err)
	}
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return model.Announcement{}, fmt.Errorf("announcement ref %d: %w", ref, ErrNotFound)
	}
	return announcementFromRow(ref, row), nil
}

// MarkAnnouncementSent flips the sent flag. Re-marking an already sent
// announcement rewrites the same value and is a deliberate no-op.
func (s *Store) MarkAnnouncementSent(ctx context.Context, ref int) error {
	if _, err := s.GetAnnouncementByRef(ctx, ref); err != nil {
		return err
	}
	if err := s.rs.UpdateCell(ctx, TableAnnouncements, ref, annColSent, "TRUE"); err != nil {
		return fmt.Errorf("mark announcement %d sent: %w", ref, err)
	}
	return nil
}

// AppendOrder writes a new order row.
func (s *Store) AppendOrder(ctx context.Context, o model.Order) error {
	row := []string{
		formatID(o.UserID),
		o.Username,
		o.Room,
		strconv.Itoa(o.Portions),
		o.CreatedAt,
		o.Dish,
		o.ID,
		string(o.Status),
	}
	if err := s.rs.Append(ctx, TableOrders, row); err != nil {
		return fmt.Errorf("append order %s: %w", o.ID, err)
	}
	logger.SVCOrders.Info("order appended",
		slog.String("event", "order.append"),
		slog.String("order_id", o.ID),
		slog.Int64("user_id", o.UserID),
		slog.String("dish", o.Dish),
		slog.Int("portions", o.Portions),
	)
	return nil
}

// UpdateOrderStatus sets the status of an order unconditionally.
// Returns ErrNotFound when the order identifier does not resolve.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	row, _, err := s.rs.FindRow(ctx, TableOrders, orderColID, orderID)
	if err != nil {
		return fmt.Errorf("find order %s: %w", orderID, err)
	}
	if row == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err := s.rs.UpdateCell(ctx, TableOrders, row, orderColStatus, string(status)); err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	return nil
}

// UpdateOrderStatusIf emulates compare-and-swap over the store's
// non-transactional cells: the status is written only when it still
// equals from. A concurrent writer wins the race and the loser gets
// ErrConflict. The read and write are not atomic, which narrows the
// race window rather than closing it; the store offers nothing better.
func (s *Store) UpdateOrderStatusIf(ctx context.Context, orderID string, from, to model.OrderStatus) error {
	row, values, err := s.rs.FindRow(ctx, TableOrders, orderColID, orderID)
	if err != nil {
		return fmt.Errorf("find order %s: %w", orderID, err)
	}
	if row == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	current := model.OrderStatus(cell(values, orderColStatus))
	if current != from {
		return fmt.Errorf("order %s is %q: %w", orderID, current, ErrConflict)
	}
	if err := s.rs.UpdateCell(ctx, TableOrders, row, orderColStatus, string(to)); err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	logger.SVCOrders.Info("order status updated",
		slog.String("event", "order.status"),
		slog.String("order_id", orderID),
		slog.String("order_status", string(to)),
	)
	return nil
}

// FindOrder resolves an order by its identifier.
func (s *Store) FindOrder(ctx context.Context, orderID string) (model.Order, error) {
	row, values, err := s.rs.FindRow(ctx, TableOrders, orderColID, orderID)
	if err != nil {
		return model.Order{}, fmt.Errorf("find order %s: %w", orderID, err)
	}
	if row == 0 {
		return model.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return orderFromRow(values), nil
}

// FindLastOrderForUser returns the newest order of a user by creation
// timestamp. Timestamps are second-granular strings in a sortable
// layout; ties are broken arbitrarily, which is acceptable here.
func (s *Store) FindLastOrderForUser(ctx context.Context, userID int64) (model.Order, error) {
	rows, err := s.rs.Rows(ctx, TableOrders)
	if err != nil {
		return model.Order{}, fmt.Errorf("list orders: %w", err)
	}
	id := formatID(userID)
	var (
		found bool
		last  model.Order
	)
	for i, row := range rows {
		if i == 0 || cell(row, orderColUserID) != id {
			continue
		}
		o := orderFromRow(row)
		if !found || o.CreatedAt >= last.CreatedAt {
			found = true
			last = o
		}
	}
	if !found {
		return model.Order{}, fmt.Errorf("last order of user %d: %w", userID, ErrNotFound)
	}
	return last, nil
}

func announcementFromRow(ref int, row []string) model.Announcement {
	price, _ := strconv.Atoi(strings.TrimSpace(cell(row, annColPrice)))
	return model.Announcement{
		Ref:         ref,
		Dish:        cell(row, annColDish),
		Description: cell(row, annColDescription),
		Price:       price,
		Time:        cell(row, annColTime),
		Broadcast:   cell(row, annColBroadcast),
		Sent:        strings.EqualFold(strings.TrimSpace(cell(row, annColSent)), "true"),
	}
}

func orderFromRow(row []string) model.Order {
	userID, _ := strconv.ParseInt(strings.TrimSpace(cell(row, orderColUserID)), 10, 64)
	portions, _ := strconv.Atoi(strings.TrimSpace(cell(row, orderColPortions)))
	return model.Order{
		UserID:    userID,
		Username:  cell(row, orderColUsername),
		Room:      cell(row, orderColRoom),
		Portions:  portions,
		CreatedAt: cell(row, orderColCreatedAt),
		Dish:      cell(row, orderColDish),
		ID:        cell(row, orderColID),
		Status:    model.OrderStatus(cell(row, orderColStatus)),
	}
}

func cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
