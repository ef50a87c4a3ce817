// Package bot binds the dialogue engines and order service to the
// Telegram gateway.
package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	tghelpers "gourmetbot/core/telegram/helpers"
	"gourmetbot/internal/engine"
	"gourmetbot/internal/fanout"
	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
	"gourmetbot/internal/orders"
	"gourmetbot/internal/store"
)

// Handlers owns every command and callback of the bot.
type Handlers struct {
	store    *store.Store
	reserve  *engine.Reservation
	language *engine.Language
	orders   *orders.Service
	sender   fanout.Sender
	adminIDs []int64
}

// NewHandlers wires the handler set.
func NewHandlers(
	st *store.Store,
	reserve *engine.Reservation,
	language *engine.Language,
	svc *orders.Service,
	sender fanout.Sender,
	adminIDs []int64,
) *Handlers {
	return &Handlers{
		store:    st,
		reserve:  reserve,
		language: language,
		orders:   svc,
		sender:   sender,
		adminIDs: adminIDs,
	}
}

func (h *Handlers) lang(ctx context.Context, userID int64) model.Lang {
	lang, err := h.store.FindUserLanguage(ctx, userID)
	if err != nil {
		return model.DefaultLang
	}
	return lang
}

// reply renders an engine reply back to the user. Alerts answer the
// pressed button; everything else goes out as a Markdown message.
func (h *Handlers) reply(c tele.Context, lang model.Lang, r engine.Reply) error {
	if r.Text == "" {
		return nil
	}
	if r.Alert && c.Callback() != nil {
		return c.Respond(alertResponse(r.Text))
	}
	switch r.Keyboard {
	case engine.KbCancel:
		return tghelpers.SendMD(c, r.Text, cancelMarkup(lang))
	case engine.KbLanguage:
		return tghelpers.SendMD(c, r.Text, languageMarkup())
	default:
		return tghelpers.SendMD(c, r.Text)
	}
}

// notifyAdmins delivers a service notice to every admin, optionally
// skipping one of them (the admin who triggered the event).
func (h *Handlers) notifyAdmins(ctx context.Context, p fanout.Payload, skip int64) fanout.Result {
	recipients := make([]int64, 0, len(h.adminIDs))
	for _, id := range h.adminIDs {
		if id != skip {
			recipients = append(recipients, id)
		}
	}
	return fanout.Broadcast(ctx, h.sender, recipients, p)
}

// Start greets the user and records them in the user table.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	lang := h.lang(ctx, userID)
	if err := h.store.UpsertUser(ctx, userID, lang); err != nil {
		return tghelpers.SendText(c, locale.T(lang, locale.GenericError))
	}
	return tghelpers.SendMD(c, locale.T(lang, locale.Greeting, string(lang)), languageMarkup())
}

// Help prints the command reference.
func (h *Handlers) Help(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	lang := h.lang(ctx, c.Sender().ID)
	return tghelpers.SendMD(c, locale.T(lang, locale.Help))
}

// Language opens the language selection dialogue.
func (h *Handlers) Language(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	r, err := h.language.Start(ctx, userID)
	rerr := h.reply(c, h.lang(ctx, userID), r)
	if err != nil {
		return err
	}
	return rerr
}

// Cancel withdraws the caller's most recent pending order.
func (h *Handlers) Cancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	out, err := h.orders.SelfCancel(ctx, userID)
	if out.AdminNotice != "" {
		h.notifyAdmins(ctx, fanout.Payload{Text: out.AdminNotice}, 0)
	}
	if out.UserNotice != "" {
		if serr := tghelpers.SendMD(c, out.UserNotice); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
