package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"gourmetbot/core/telegram/callbacks"
	"gourmetbot/core/telegram/keyboard"
	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
)

// Callback keys. The payload format is fixed per key: reserve carries
// the announcement reference, lang the language token, confirm and
// reject the order ID. Cancel carries nothing.
const (
	actReserve       = "reserve"
	actReserveCancel = "reserve_cancel"
	actLang          = "lang"
	actConfirm       = "confirm"
	actReject        = "reject"
)

// ActionKind discriminates decoded callback actions.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionReserve
	ActionReserveCancel
	ActionLang
	ActionConfirm
	ActionReject
)

// Action is a callback press decoded at the gateway boundary. Only the
// field matching Kind is meaningful.
type Action struct {
	Kind    ActionKind
	Ref     int
	Lang    model.Lang
	OrderID string
}

// DecodeAction parses the pressed button into a typed action. A payload
// that does not fit the key's format yields ActionUnknown.
func DecodeAction(c tele.Context) Action {
	key := callbacks.CallbackKey(c)
	switch key {
	case actReserve:
		ref, err := callbacks.PayloadInt(c)
		if err != nil || ref <= 1 {
			return Action{Kind: ActionUnknown}
		}
		return Action{Kind: ActionReserve, Ref: ref}
	case actReserveCancel:
		return Action{Kind: ActionReserveCancel}
	case actLang:
		return Action{Kind: ActionLang, Lang: model.ParseLang(callbacks.CallbackPayload(c))}
	case actConfirm, actReject:
		id := callbacks.CallbackPayload(c)
		if id == "" {
			return Action{Kind: ActionUnknown}
		}
		kind := ActionConfirm
		if key == actReject {
			kind = ActionReject
		}
		return Action{Kind: kind, OrderID: id}
	}
	return Action{Kind: ActionUnknown}
}

func reserveMarkup(lang model.Lang, ref int) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{{
		Text:   locale.T(lang, locale.BtnReserve),
		Unique: actReserve,
		Data:   strconv.Itoa(ref),
	}})
}

func cancelMarkup(lang model.Lang) *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(actReserveCancel, "cancel", locale.T(lang, locale.BtnCancel))
}

func languageMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "🇷🇺 Русский", Unique: actLang, Data: string(model.LangRU)},
		{Text: "🇬🇧 English", Unique: actLang, Data: string(model.LangEN)},
	})
}

func decisionMarkup(orderID string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: locale.T(model.LangRU, locale.BtnConfirm), Unique: actConfirm, Data: orderID},
		{Text: locale.T(model.LangRU, locale.BtnReject), Unique: actReject, Data: orderID},
	})
}

// alertResponse builds a popup response for the pressed button.
func alertResponse(text string) *tele.CallbackResponse {
	return &tele.CallbackResponse{Text: text, ShowAlert: true}
}

func payloadError(key string, c tele.Context) error {
	return fmt.Errorf("callback %s: bad payload %q", key, callbacks.CallbackPayload(c))
}
