// Package locale holds the ru/en message catalogs. Every user-facing
// text goes through T; admin notices stay Russian, as the operators are.
package locale

import (
	"fmt"

	"gourmetbot/internal/model"
)

// Key identifies a message in the catalogs.
type Key string

const (
	Greeting         Key = "greeting"
	Help             Key = "help"
	LanguagePrompt   Key = "language_prompt"
	LanguageChanged  Key = "language_changed"
	PortionsPrompt   Key = "portions_prompt"
	PortionsInvalid  Key = "portions_invalid"
	RoomPrompt       Key = "room_prompt"
	PaymentSummary   Key = "payment_summary"
	ReceiptExpected  Key = "receipt_expected"
	OrderCreated     Key = "order_created"
	ReserveCanceled  Key = "reserve_canceled"
	NothingToCancel  Key = "nothing_to_cancel"
	AnnouncementGone Key = "announcement_gone"
	GenericError     Key = "generic_error"
	OrderConfirmed   Key = "order_confirmed"
	OrderRejected    Key = "order_rejected"
	CancelNoOrder    Key = "cancel_no_order"
	CancelHandled    Key = "cancel_handled"
	CancelDone       Key = "cancel_done"
	NoFoodAlert      Key = "no_food_alert"
	BtnReserve       Key = "btn_reserve"
	BtnCancel        Key = "btn_cancel"
	BtnConfirm       Key = "btn_confirm"
	BtnReject        Key = "btn_reject"
)

var ru = map[Key]string{
	Greeting: "Привет! Я бот для заказа еды в общежитии.\n" +
		"Текущий язык: %s\n" +
		"Используйте /language для смены языка.",
	Help: "🤖 *Dormitory Gourmet Bot*\n\n" +
		"Бот помогает организовать заказы еды в общежитии.\n\n" +
		"*Команды:*\n" +
		"• /start — начать работу с ботом\n" +
		"• /language — изменить язык\n" +
		"• /cancel — отменить последний заказ\n" +
		"• /help — показать это сообщение\n\n" +
		"*Как заказать:*\n" +
		"1. Дождитесь анонса блюда\n" +
		"2. Нажмите «Забронировать»\n" +
		"3. Укажите количество порций и блок\n" +
		"4. Оплатите и отправьте скриншот чека\n" +
		"5. Дождитесь подтверждения администратора",
	LanguagePrompt:  "Выберите язык / Choose language:",
	LanguageChanged: "Язык успешно изменён!",
	PortionsPrompt: "🍽 *%s*\n\n💰 Цена за порцию: %d\n\n" +
		"Пожалуйста, введите количество порций:",
	PortionsInvalid: "Пожалуйста, введите корректное количество порций (целое положительное число):",
	RoomPrompt:      "Укажите ваш блок (например: 804a):",
	PaymentSummary: "🍽 *%s*\nБлок: %s\nКоличество порций: %d\n💰 Общая сумма: %d\n\n" +
		"💳 Реквизиты для оплаты:\nТинькофф: +777777777777\n\n" +
		"Пожалуйста, переведите %d рублей и отправьте скриншот чека:",
	ReceiptExpected: "Пожалуйста, отправьте скриншот чека фотографией, либо отмените бронирование.",
	OrderCreated: "✅ Заказ успешно создан!\n\n🍽 Блюдо: %s\n🏢 Блок: %s\n🍽 Количество порций: %d\n\n" +
		"Спасибо за заказ! Мы проверим оплату и подтвердим ваш заказ.",
	ReserveCanceled:  "❌ Бронирование отменено.",
	NothingToCancel:  "Сейчас нечего отменять.",
	AnnouncementGone: "Анонс не найден",
	GenericError:     "Произошла ошибка. Попробуйте позже.",
	OrderConfirmed: "✅ Ваш заказ подтверждён!\n\n🍽 Блюдо: %s\n🏢 Блок: %s\n🍽 Количество порций: %d\n\n" +
		"Приятного аппетита! 🍽",
	OrderRejected: "❌ Ваш заказ был отменён администратором.\n\n🍽 Блюдо: %s\n🏢 Блок: %s\n🍽 Количество порций: %d\n\n" +
		"Если у вас есть вопросы, пожалуйста, свяжитесь с администратором.",
	CancelNoOrder: "У вас нет активных заказов для отмены.",
	CancelHandled: "Этот заказ уже обработан и не может быть отменён.",
	CancelDone: "✅ Ваш последний заказ отменён:\n\n🍽 Блюдо: %s\n🏢 Блок: %s\n🍽 Количество порций: %d\n\n" +
		"Администраторы уведомлены об отмене.",
	NoFoodAlert: "⚠️ *Важное объявление*\n\nСегодня еды не будет.\nПриносим извинения за неудобства.",
	BtnReserve:  "Забронировать",
	BtnCancel:   "❌ Отменить",
	BtnConfirm:  "✅ Подтвердить",
	BtnReject:   "❌ Отклонить",
}

var en = map[Key]string{
	Greeting: "Hi! I am the dormitory food ordering bot.\n" +
		"Current language: %s\n" +
		"Use /language to switch languages.",
	Help: "🤖 *Dormitory Gourmet Bot*\n\n" +
		"The bot organizes food orders in the dormitory.\n\n" +
		"*Commands:*\n" +
		"• /start — start the bot\n" +
		"• /language — change language\n" +
		"• /cancel — cancel your last order\n" +
		"• /help — show this message\n\n" +
		"*How to order:*\n" +
		"1. Wait for a dish announcement\n" +
		"2. Press \"Reserve\"\n" +
		"3. Enter the portion count and your block\n" +
		"4. Pay and send a receipt screenshot\n" +
		"5. Wait for admin confirmation",
	LanguagePrompt:  "Выберите язык / Choose language:",
	LanguageChanged: "Language successfully changed!",
	PortionsPrompt: "🍽 *%s*\n\n💰 Price per portion: %d\n\n" +
		"Please enter the number of portions:",
	PortionsInvalid: "Please enter a valid portion count (a positive whole number):",
	RoomPrompt:      "Enter your block (for example: 804a):",
	PaymentSummary: "🍽 *%s*\nBlock: %s\nPortions: %d\n💰 Total: %d\n\n" +
		"💳 Payment details:\nTinkoff: +777777777777\n\n" +
		"Please transfer %d and send a receipt screenshot:",
	ReceiptExpected: "Please send the receipt screenshot as a photo, or cancel the reservation.",
	OrderCreated: "✅ Order created!\n\n🍽 Dish: %s\n🏢 Block: %s\n🍽 Portions: %d\n\n" +
		"Thank you! We will verify the payment and confirm your order.",
	ReserveCanceled:  "❌ Reservation canceled.",
	NothingToCancel:  "Nothing to cancel right now.",
	AnnouncementGone: "Announcement not found",
	GenericError:     "Something went wrong. Please try again later.",
	OrderConfirmed: "✅ Your order is confirmed!\n\n🍽 Dish: %s\n🏢 Block: %s\n🍽 Portions: %d\n\n" +
		"Enjoy your meal! 🍽",
	OrderRejected: "❌ Your order was rejected by the administrator.\n\n🍽 Dish: %s\n🏢 Block: %s\n🍽 Portions: %d\n\n" +
		"If you have questions, please contact the administrator.",
	CancelNoOrder: "You have no active orders to cancel.",
	CancelHandled: "This order is already handled and cannot be canceled.",
	CancelDone: "✅ Your last order is canceled:\n\n🍽 Dish: %s\n🏢 Block: %s\n🍽 Portions: %d\n\n" +
		"The administrators have been notified.",
	NoFoodAlert: "⚠️ *Important announcement*\n\nThere will be no food today.\nWe apologize for the inconvenience.",
	BtnReserve:  "Reserve",
	BtnCancel:   "❌ Cancel",
	BtnConfirm:  "✅ Confirm",
	BtnReject:   "❌ Reject",
}

// T renders a catalog message for the given language.
func T(lang model.Lang, key Key, args ...any) string {
	catalog := ru
	if lang == model.LangEN {
		catalog = en
	}
	msg, ok := catalog[key]
	if !ok {
		msg, ok = ru[key]
		if !ok {
			return string(key)
		}
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
