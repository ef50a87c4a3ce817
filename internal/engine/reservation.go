package engine

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gourmetbot/core/logger"
	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
	"gourmetbot/internal/session"
	"gourmetbot/internal/store"

	"log/slog"
)

// Reservation dialogue states.
const (
	StatePortions session.State = "awaiting_portions"
	StateRoom     session.State = "awaiting_room"
	StateReceipt  session.State = "awaiting_receipt"
)

// CreatedAtLayout is the sortable timestamp written into order rows.
const CreatedAtLayout = "2006-01-02 15:04:05"

// Reservation is the portion reservation state machine.
type Reservation struct {
	sessions session.Store
	store    RecordStore

	now   func() time.Time
	newID func() string
}

// NewReservation wires the reservation dialogue to its collaborators.
func NewReservation(sessions session.Store, rs RecordStore) *Reservation {
	return &Reservation{
		sessions: sessions,
		store:    rs,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (r *Reservation) key(userID int64) session.Key {
	return session.Key{UserID: userID, Scope: session.ScopeReserve}
}

// InProgress reports whether the user is mid-reservation.
func (r *Reservation) InProgress(ctx context.Context, userID int64) bool {
	s, ok, err := r.sessions.Get(ctx, r.key(userID))
	return err == nil && ok && s.State != session.StateIdle
}

func (r *Reservation) lang(ctx context.Context, userID int64) model.Lang {
	lang, err := r.store.FindUserLanguage(ctx, userID)
	if err != nil {
		return model.DefaultLang
	}
	return lang
}

// Reserve handles the reserve button on an announcement: it resolves
// the reference, seeds the session with dish and price, and asks for
// the portion count. A vanished announcement yields an alert and no
// state change.
func (r *Reservation) Reserve(ctx context.Context, userID int64, ref int) (Reply, error) {
	lang := r.lang(ctx, userID)

	ann, err := r.store.GetAnnouncementByRef(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return Reply{Text: locale.T(lang, locale.AnnouncementGone), Alert: true}, nil
	}
	if err != nil {
		return Reply{Text: locale.T(lang, locale.GenericError), Alert: true}, err
	}

	s := session.Session{
		State: StatePortions,
		Bag: session.Bag{
			AnnouncementRef: ann.Ref,
			Dish:            ann.Dish,
			Price:           ann.Price,
		},
	}
	if err := r.sessions.Put(ctx, r.key(userID), s); err != nil {
		return Reply{Text: locale.T(lang, locale.GenericError), Alert: true}, err
	}

	logger.Debug(ctx, "engine", "reserve.start",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int("announcement_ref", ann.Ref),
		slog.String("dish", ann.Dish),
	)
	return Reply{
		Text:     locale.T(lang, locale.PortionsPrompt, ann.Dish, ann.Price),
		Keyboard: KbCancel,
	}, nil
}

// Text advances the dialogue on free-text input. The second return
// value reports whether the input belonged to an active reservation.
// Invalid input re-prompts and leaves both state and bag untouched.
func (r *Reservation) Text(ctx context.Context, userID int64, text string) (Reply, bool, error) {
	key := r.key(userID)
	s, ok, err := r.sessions.Get(ctx, key)
	if err != nil {
		return Reply{Text: locale.T(model.DefaultLang, locale.GenericError)}, true, err
	}
	if !ok || s.State == session.StateIdle {
		return Reply{}, false, nil
	}
	lang := r.lang(ctx, userID)

	switch s.State {
	case StatePortions:
		portions, perr := strconv.Atoi(strings.TrimSpace(text))
		if perr != nil || portions <= 0 {
			return Reply{Text: locale.T(lang, locale.PortionsInvalid), Keyboard: KbCancel}, true, nil
		}
		s.Bag.Portions = portions
		s.State = StateRoom
		if err := r.sessions.Put(ctx, key, s); err != nil {
			return Reply{Text: locale.T(lang, locale.GenericError)}, true, err
		}
		return Reply{Text: locale.T(lang, locale.RoomPrompt), Keyboard: KbCancel}, true, nil

	case StateRoom:
		room := strings.TrimSpace(text)
		if room == "" {
			return Reply{Text: locale.T(lang, locale.RoomPrompt), Keyboard: KbCancel}, true, nil
		}
		s.Bag.Room = room
		s.State = StateReceipt
		if err := r.sessions.Put(ctx, key, s); err != nil {
			return Reply{Text: locale.T(lang, locale.GenericError)}, true, err
		}
		total := model.Total(s.Bag.Price, s.Bag.Portions)
		return Reply{
			Text:     locale.T(lang, locale.PaymentSummary, s.Bag.Dish, room, s.Bag.Portions, total, total),
			Keyboard: KbCancel,
		}, true, nil

	case StateReceipt:
		return Reply{Text: locale.T(lang, locale.ReceiptExpected), Keyboard: KbCancel}, true, nil
	}

	return Reply{}, false, nil
}

// Photo completes the reservation with a payment receipt. The order is
// appended with pending status and the returned notice carries what the
// handler must fan out to the admins. On store failure the session is
// kept so the user can retry or cancel explicitly.
func (r *Reservation) Photo(ctx context.Context, userID int64, username string, messageID int, photos []Photo) (Reply, *OrderNotice, error) {
	key := r.key(userID)
	s, ok, err := r.sessions.Get(ctx, key)
	if err != nil {
		return Reply{Text: locale.T(model.DefaultLang, locale.GenericError)}, nil, err
	}
	if !ok || s.State == session.StateIdle {
		return Reply{}, nil, nil
	}
	lang := r.lang(ctx, userID)

	if s.State != StateReceipt {
		// A photo mid-dialogue is just malformed input for the current step.
		switch s.State {
		case StatePortions:
			return Reply{Text: locale.T(lang, locale.PortionsInvalid), Keyboard: KbCancel}, nil, nil
		default:
			return Reply{Text: locale.T(lang, locale.RoomPrompt), Keyboard: KbCancel}, nil, nil
		}
	}

	photo, found := BestPhoto(photos)
	if !found {
		return Reply{Text: locale.T(lang, locale.ReceiptExpected), Keyboard: KbCancel}, nil, nil
	}

	orderID := strconv.Itoa(messageID)
	if messageID == 0 {
		orderID = r.newID()
	}
	order := model.Order{
		UserID:    userID,
		Username:  username,
		Room:      s.Bag.Room,
		Portions:  s.Bag.Portions,
		CreatedAt: r.now().Format(CreatedAtLayout),
		Dish:      s.Bag.Dish,
		ID:        orderID,
		Status:    model.StatusPending,
	}
	if err := r.store.AppendOrder(ctx, order); err != nil {
		return Reply{Text: locale.T(lang, locale.GenericError)}, nil, err
	}

	if err := r.sessions.Clear(ctx, key); err != nil {
		logger.Warn(ctx, "engine", "session.clear_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}

	return Reply{
		Text: locale.T(lang, locale.OrderCreated, order.Dish, order.Room, order.Portions),
	}, &OrderNotice{Order: order, PhotoFileID: photo.FileID}, nil
}

// Cancel is the global escape hatch: it clears the session from any
// state. Canceling with no active dialogue is answered with an alert.
func (r *Reservation) Cancel(ctx context.Context, userID int64) (Reply, error) {
	key := r.key(userID)
	lang := r.lang(ctx, userID)

	s, ok, err := r.sessions.Get(ctx, key)
	if err != nil {
		return Reply{Text: locale.T(lang, locale.GenericError), Alert: true}, err
	}
	if !ok || s.State == session.StateIdle {
		return Reply{Text: locale.T(lang, locale.NothingToCancel), Alert: true}, nil
	}
	if err := r.sessions.Clear(ctx, key); err != nil {
		return Reply{Text: locale.T(lang, locale.GenericError), Alert: true}, err
	}
	logger.Debug(ctx, "engine", "reserve.cancel",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(s.State)),
	)
	return Reply{Text: locale.T(lang, locale.ReserveCanceled)}, nil
}
