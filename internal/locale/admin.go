package locale

import (
	"fmt"

	"gourmetbot/core/telegram/format"
	"gourmetbot/internal/model"
)

// Admin-facing messages are not localized: admins run the bot in Russian.

// mdUsername escapes a user-controlled username so it cannot break the
// Markdown markup of the surrounding notice.
func mdUsername(name string) string {
	escaped, err := format.EscapeMarkdown(name, format.MarkdownV1, "")
	if err != nil {
		return name
	}
	return escaped
}

// AdminNewOrder renders the caption attached to a payment receipt
// forwarded to the admins.
func AdminNewOrder(o model.Order) string {
	return fmt.Sprintf(
		"🆕 Новый заказ!\n\n"+
			"👤 Пользователь: @%s (ID: %d)\n"+
			"🍽 Блюдо: %s\n"+
			"🏢 Блок: %s\n"+
			"🍽 Порций: %d\n"+
			"🕐 Время: %s",
		mdUsername(o.Username), o.UserID, o.Dish, o.Room, o.Portions, o.CreatedAt,
	)
}

// AdminOrderRejected notifies the remaining admins after one of them
// rejected an order.
func AdminOrderRejected(o model.Order) string {
	return fmt.Sprintf(
		"❌ Заказ отклонён\n\n"+
			"👤 Пользователь: @%s (ID: %d)\n"+
			"🍽 Блюдо: %s\n"+
			"🏢 Блок: %s\n"+
			"🍽 Порций: %d",
		mdUsername(o.Username), o.UserID, o.Dish, o.Room, o.Portions,
	)
}

// AdminOrderSelfCanceled notifies the admins that a user withdrew an
// order before it was handled.
func AdminOrderSelfCanceled(o model.Order, ts string) string {
	return fmt.Sprintf(
		"🚫 Пользователь отменил заказ\n\n"+
			"👤 Пользователь: @%s (ID: %d)\n"+
			"🍽 Блюдо: %s\n"+
			"🏢 Блок: %s\n"+
			"🍽 Порций: %d\n"+
			"🕐 Отменён: %s",
		mdUsername(o.Username), o.UserID, o.Dish, o.Room, o.Portions, ts,
	)
}

// AnnouncementCard renders a dish announcement for broadcast. The
// broadcast note is included only on the admin preview copy.
func AnnouncementCard(a model.Announcement, withBroadcast bool) string {
	card := fmt.Sprintf(
		"🍽 *%s*\n\n%s\n\n💰 Цена: %d\n🕐 Время: %s",
		a.Dish, a.Description, a.Price, a.Time,
	)
	if withBroadcast && a.Broadcast != "" {
		card += "\n\n📢 " + a.Broadcast
	}
	return card
}
