// Package model defines the domain entities stored in the record store.
package model

import "strings"

// Lang is a user interface language.
type Lang string

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"

	// DefaultLang is assumed for users that never picked a language.
	DefaultLang = LangRU
)

// ParseLang maps a raw token to a supported language, falling back to the default.
func ParseLang(raw string) Lang {
	switch Lang(strings.ToLower(strings.TrimSpace(raw))) {
	case LangEN:
		return LangEN
	case LangRU:
		return LangRU
	}
	return DefaultLang
}

// User is a bot user. Created on first contact, never deleted.
type User struct {
	ID       int64
	Language Lang
}

// Announcement is a dish announcement authored outside the bot.
// Ref is the sheet row index and serves as the external reference ID.
type Announcement struct {
	Ref         int
	Dish        string
	Description string
	Price       int
	Time        string
	Broadcast   string
	Sent        bool
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending-confirmation"
	StatusConfirmed OrderStatus = "confirmed"
	StatusRejected  OrderStatus = "rejected"

	canceledByUserPrefix = "canceled-by-user-"
)

// CanceledByUser builds the self-cancel status carrying the cancellation timestamp.
func CanceledByUser(ts string) OrderStatus {
	return OrderStatus(canceledByUserPrefix + ts)
}

// IsCanceledByUser reports whether the status belongs to the self-cancel family.
func (s OrderStatus) IsCanceledByUser() bool {
	return strings.HasPrefix(string(s), canceledByUserPrefix)
}

// Terminal reports whether the status permits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusRejected || s.IsCanceledByUser()
}

// Order is a portion reservation awaiting admin judgement.
type Order struct {
	UserID    int64
	Username  string
	Room      string
	Portions  int
	CreatedAt string
	Dish      string
	ID        string
	Status    OrderStatus
}

// Total returns the amount due for the order at the given per-portion price.
func Total(price, portions int) int {
	return price * portions
}
