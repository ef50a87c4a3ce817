package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	tg "gourmetbot/core/telegram"
	"gourmetbot/core/telegram/commands"
	tghelpers "gourmetbot/core/telegram/helpers"
	"gourmetbot/core/telegram/router"
	"gourmetbot/internal/engine"
	"gourmetbot/internal/fanout"
	"gourmetbot/internal/locale"
)

// Wire registers every command and callback on the registry.
func (h *Handlers) Wire(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Начать работу с ботом",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.Help,
		Description: "Справка по командам",
	})
	reg.RegisterCommand("/language", commands.Command{
		Handler:     h.Language,
		Description: "Изменить язык",
		Aliases:     []string{"lang"},
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.Cancel,
		Description: "Отменить последний заказ",
	})
	reg.RegisterCommand("/send_menu", commands.Command{
		Handler:     h.SendMenu,
		Description: "Разослать новые анонсы",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/nofood", commands.Command{
		Handler:     h.NoFood,
		Description: "Сообщить, что еды сегодня нет",
		AdminOnly:   true,
	})

	_ = reg.RegisterCallback(actReserve, h.Reserve)
	_ = reg.RegisterCallback(actReserveCancel, h.ReserveCancel)
	_ = reg.RegisterCallback(actLang, h.Lang)
	_ = reg.RegisterCallback(actConfirm, h.Confirm)
	_ = reg.RegisterCallback(actReject, h.Reject)
}

// Routes composes the full route table: commands, the callback
// dispatcher, and the FSM-aware text and photo routes.
func (h *Handlers) Routes(reg *tg.Registry, adminIDs []int64) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminIDs: adminIDs})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(h.FSM(), reg, router.TextOptions{})...)
	return routes
}

// FSM exposes the reservation dialogue to the text router.
func (h *Handlers) FSM() router.FSM {
	return &dialogue{h: h}
}

// dialogue adapts the reservation engine to the router's FSM contract.
type dialogue struct {
	h *Handlers
}

func (d *dialogue) InProgress(userID int64) bool {
	return d.h.reserve.InProgress(context.Background(), userID)
}

// ManagerHandler routes a mid-dialogue update to the engine: photos
// feed the receipt step, everything else is treated as text input.
func (d *dialogue) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	msg := c.Message()

	if msg != nil && msg.Photo != nil {
		username := sender.Username
		if username == "" {
			username = sender.FirstName
		}
		photos := []engine.Photo{{
			FileID: msg.Photo.FileID,
			Width:  msg.Photo.Width,
			Height: msg.Photo.Height,
		}}
		r, notice, err := d.h.reserve.Photo(ctx, sender.ID, username, msg.ID, photos)
		rerr := d.h.reply(c, d.h.lang(ctx, sender.ID), r)
		if notice != nil {
			d.h.notifyAdmins(ctx, fanout.Payload{
				PhotoFileID: notice.PhotoFileID,
				Caption:     locale.AdminNewOrder(notice.Order),
				Markup:      decisionMarkup(notice.Order.ID),
			}, 0)
		}
		if err != nil {
			return err
		}
		return rerr
	}

	r, handled, err := d.h.reserve.Text(ctx, sender.ID, c.Text())
	if !handled {
		return err
	}
	rerr := d.h.reply(c, d.h.lang(ctx, sender.ID), r)
	if err != nil {
		return err
	}
	return rerr
}
