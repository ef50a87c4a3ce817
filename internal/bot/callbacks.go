package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "gourmetbot/core/telegram/helpers"
	"gourmetbot/internal/fanout"
	"gourmetbot/internal/orders"
)

func (h *Handlers) isAdmin(userID int64) bool {
	for _, id := range h.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Reserve handles the reserve button on an announcement.
func (h *Handlers) Reserve(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	act := DecodeAction(c)
	if act.Kind != ActionReserve {
		return payloadError(actReserve, c)
	}
	r, err := h.reserve.Reserve(ctx, userID, act.Ref)
	rerr := h.reply(c, h.lang(ctx, userID), r)
	if err != nil {
		return err
	}
	return rerr
}

// ReserveCancel handles the cancel button inside the dialogue.
func (h *Handlers) ReserveCancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	r, err := h.reserve.Cancel(ctx, userID)
	rerr := h.reply(c, h.lang(ctx, userID), r)
	if err != nil {
		return err
	}
	return rerr
}

// Lang handles a language choice button.
func (h *Handlers) Lang(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	act := DecodeAction(c)
	if act.Kind != ActionLang {
		return payloadError(actLang, c)
	}
	r, err := h.language.Choose(ctx, userID, string(act.Lang))
	rerr := h.reply(c, act.Lang, r)
	if err != nil {
		return err
	}
	return rerr
}

// Confirm handles an admin confirming an order.
func (h *Handlers) Confirm(c tele.Context) error {
	return h.decide(c, ActionConfirm)
}

// Reject handles an admin rejecting an order.
func (h *Handlers) Reject(c tele.Context) error {
	return h.decide(c, ActionReject)
}

// decide applies an admin decision. The inline keyboard is removed
// from the order message whenever the order is no longer pending, so
// stale buttons disappear even for the admin who lost the race.
func (h *Handlers) decide(c tele.Context, kind ActionKind) error {
	ctx := tghelpers.BuildContext(c)
	adminID := c.Sender().ID

	if !h.isAdmin(adminID) {
		return c.Respond(alertResponse("Недостаточно прав"))
	}

	act := DecodeAction(c)
	if act.Kind != kind {
		key := actConfirm
		if kind == ActionReject {
			key = actReject
		}
		return payloadError(key, c)
	}

	var (
		out orders.Outcome
		err error
	)
	if kind == ActionConfirm {
		out, err = h.orders.Confirm(ctx, act.OrderID)
	} else {
		out, err = h.orders.Reject(ctx, act.OrderID)
	}

	// Remove the buttons regardless of outcome: a stale or dangling
	// keyboard invites duplicate actioning. The CAS is the real guard.
	_ = c.Edit(&tele.ReplyMarkup{})
	if out.UserNotice != "" {
		if serr := h.sender.Send(ctx, out.Order.UserID, fanout.Payload{Text: out.UserNotice}); serr != nil && err == nil {
			err = serr
		}
	}
	if out.AdminNotice != "" {
		h.notifyAdmins(ctx, fanout.Payload{Text: out.AdminNotice}, adminID)
	}
	if out.Alert != "" {
		if rerr := c.Respond(alertResponse(out.Alert)); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}
