// Package orders holds the order lifecycle decisions shared by the
// admin callbacks and the self-cancel command.
package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gourmetbot/core/logger"
	"gourmetbot/internal/engine"
	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
	"gourmetbot/internal/store"
)

// OrderStore is the slice of the record store the service operates on.
type OrderStore interface {
	FindOrder(ctx context.Context, orderID string) (model.Order, error)
	FindLastOrderForUser(ctx context.Context, userID int64) (model.Order, error)
	FindUserLanguage(ctx context.Context, userID int64) (model.Lang, error)
	UpdateOrderStatusIf(ctx context.Context, orderID string, from, to model.OrderStatus) error
}

// Outcome is the result of an admin decision. UserNotice and
// AdminNotice are empty when nothing should be sent.
type Outcome struct {
	Order       model.Order
	UserNotice  string
	AdminNotice string
	Alert       string
}

// CancelOutcome is the result of a user withdrawing their last order.
type CancelOutcome struct {
	Order       model.Order
	UserNotice  string
	AdminNotice string
}

// Service applies order status transitions with compare-and-set
// semantics so concurrent admin decisions cannot double-apply.
type Service struct {
	store OrderStore
	now   func() time.Time
}

func NewService(s OrderStore) *Service {
	return &Service{store: s, now: time.Now}
}

// Confirm moves a pending order to confirmed.
func (s *Service) Confirm(ctx context.Context, orderID string) (Outcome, error) {
	return s.decide(ctx, orderID, model.StatusConfirmed)
}

// Reject moves a pending order to rejected.
func (s *Service) Reject(ctx context.Context, orderID string) (Outcome, error) {
	return s.decide(ctx, orderID, model.StatusRejected)
}

func (s *Service) decide(ctx context.Context, orderID string, to model.OrderStatus) (Outcome, error) {
	o, err := s.store.FindOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{Alert: "Заказ не найден"}, nil
	}
	if err != nil {
		return Outcome{Alert: "Ошибка, попробуйте ещё раз"}, err
	}
	if o.Status != model.StatusPending {
		return Outcome{Order: o, Alert: "Заказ уже обработан"}, nil
	}

	err = s.store.UpdateOrderStatusIf(ctx, orderID, model.StatusPending, to)
	if errors.Is(err, store.ErrConflict) {
		// Another admin got there first.
		return Outcome{Order: o, Alert: "Заказ уже обработан"}, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{Alert: "Заказ не найден"}, nil
	}
	if err != nil {
		return Outcome{Alert: "Ошибка, попробуйте ещё раз"}, err
	}
	o.Status = to

	lang, lerr := s.store.FindUserLanguage(ctx, o.UserID)
	if lerr != nil {
		lang = model.DefaultLang
	}

	out := Outcome{Order: o}
	switch to {
	case model.StatusConfirmed:
		out.UserNotice = locale.T(lang, locale.OrderConfirmed, o.Dish, o.Room, o.Portions)
		out.Alert = "Заказ подтверждён"
	case model.StatusRejected:
		out.UserNotice = locale.T(lang, locale.OrderRejected, o.Dish, o.Room, o.Portions)
		out.AdminNotice = locale.AdminOrderRejected(o)
		out.Alert = "Заказ отклонён"
	}

	logger.SVCOrders.Info("order decided",
		slog.String("order_id", o.ID),
		slog.String("order_status", string(to)),
		slog.Int64("user_id", o.UserID),
	)
	return out, nil
}

// SelfCancel withdraws the caller's most recent order. Only pending
// orders can be withdrawn; handled ones stay as decided.
func (s *Service) SelfCancel(ctx context.Context, userID int64) (CancelOutcome, error) {
	lang, lerr := s.store.FindUserLanguage(ctx, userID)
	if lerr != nil {
		lang = model.DefaultLang
	}

	o, err := s.store.FindLastOrderForUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return CancelOutcome{UserNotice: locale.T(lang, locale.CancelNoOrder)}, nil
	}
	if err != nil {
		return CancelOutcome{UserNotice: locale.T(lang, locale.GenericError)}, err
	}
	if o.Status != model.StatusPending {
		return CancelOutcome{Order: o, UserNotice: locale.T(lang, locale.CancelHandled)}, nil
	}

	ts := s.now().Format(engine.CreatedAtLayout)
	err = s.store.UpdateOrderStatusIf(ctx, o.ID, model.StatusPending, model.CanceledByUser(ts))
	if errors.Is(err, store.ErrConflict) {
		return CancelOutcome{Order: o, UserNotice: locale.T(lang, locale.CancelHandled)}, nil
	}
	if err != nil {
		return CancelOutcome{Order: o, UserNotice: locale.T(lang, locale.GenericError)}, err
	}
	o.Status = model.CanceledByUser(ts)

	logger.SVCOrders.Info("order canceled by user",
		slog.String("order_id", o.ID),
		slog.Int64("user_id", userID),
	)
	return CancelOutcome{
		Order:       o,
		UserNotice:  locale.T(lang, locale.CancelDone, o.Dish, o.Room, o.Portions),
		AdminNotice: locale.AdminOrderSelfCanceled(o, ts),
	}, nil
}
