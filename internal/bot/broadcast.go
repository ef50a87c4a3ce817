package bot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	tghelpers "gourmetbot/core/telegram/helpers"
	"gourmetbot/internal/fanout"
	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
)

// TelegramSender delivers fanout payloads through the bot API. The bot
// instance is built by the runtime after wiring, so the sender starts
// unbound and is attached in the start hook.
type TelegramSender struct {
	bot atomic.Pointer[tele.Bot]
}

func NewTelegramSender() *TelegramSender {
	return &TelegramSender{}
}

// Bind attaches the live bot instance.
func (s *TelegramSender) Bind(b *tele.Bot) {
	s.bot.Store(b)
}

func (s *TelegramSender) Send(_ context.Context, recipient int64, p fanout.Payload) error {
	b := s.bot.Load()
	if b == nil {
		return errors.New("telegram sender not bound")
	}
	to := &tele.User{ID: recipient}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: p.Markup}
	if p.PhotoFileID != "" {
		photo := &tele.Photo{File: tele.File{FileID: p.PhotoFileID}, Caption: p.Caption}
		_, err := b.Send(to, photo, opts)
		return err
	}
	_, err := b.Send(to, p.Text, opts)
	return err
}

// byLanguage buckets users so each group can get a localized payload.
func byLanguage(users []model.User) map[model.Lang][]int64 {
	groups := make(map[model.Lang][]int64)
	for _, u := range users {
		lang := u.Language
		if lang != model.LangEN {
			lang = model.LangRU
		}
		groups[lang] = append(groups[lang], u.ID)
	}
	return groups
}

// SendMenu broadcasts every unsent announcement to all users with a
// reserve button attached, then marks the announcement as sent. The
// calling admin gets a preview copy including the broadcast note.
func (h *Handlers) SendMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	adminID := c.Sender().ID

	anns, err := h.store.ListUnsentAnnouncements(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Не удалось загрузить анонсы, попробуйте позже.")
	}
	if len(anns) == 0 {
		return tghelpers.SendText(c, "Новых анонсов нет.")
	}

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Не удалось загрузить пользователей, попробуйте позже.")
	}

	for _, ann := range anns {
		if err := tghelpers.SendMD(c, locale.AnnouncementCard(ann, true), reserveMarkup(h.lang(ctx, adminID), ann.Ref)); err != nil {
			return err
		}

		sent, failed := 0, 0
		for lang, recipients := range byLanguage(users) {
			withoutAdmin := recipients[:0:0]
			for _, id := range recipients {
				if id != adminID {
					withoutAdmin = append(withoutAdmin, id)
				}
			}
			res := fanout.Broadcast(ctx, h.sender, withoutAdmin, fanout.Payload{
				Text:   locale.AnnouncementCard(ann, false),
				Markup: reserveMarkup(lang, ann.Ref),
			})
			sent += res.Sent()
			failed += res.Failed()
		}

		if err := h.store.MarkAnnouncementSent(ctx, ann.Ref); err != nil {
			_ = tghelpers.SendText(c, fmt.Sprintf("Анонс «%s» разослан, но не помечен отправленным.", ann.Dish))
			return err
		}
		if err := tghelpers.SendText(c,
			fmt.Sprintf("Анонс «%s» разослан. Доставлено: %d, ошибок: %d.", ann.Dish, sent, failed),
		); err != nil {
			return err
		}
	}
	return nil
}

// NoFood broadcasts the no-food-today notice to every user in their
// own language.
func (h *Handlers) NoFood(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Не удалось загрузить пользователей, попробуйте позже.")
	}

	sent, failed := 0, 0
	for lang, recipients := range byLanguage(users) {
		res := fanout.Broadcast(ctx, h.sender, recipients, fanout.Payload{
			Text: locale.T(lang, locale.NoFoodAlert),
		})
		sent += res.Sent()
		failed += res.Failed()
	}
	return tghelpers.SendText(c,
		fmt.Sprintf("Уведомление разослано. Доставлено: %d, ошибок: %d.", sent, failed),
	)
}
