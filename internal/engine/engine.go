// Package engine drives the multi-step dialogues as explicit state
// machines over the session store. The engine never touches the
// messaging gateway: handlers feed it decoded events and render the
// replies it returns, so every transition is testable in isolation.
package engine

import (
	"context"

	"gourmetbot/internal/model"
)

// RecordStore is the slice of the record store adapter the dialogues need.
type RecordStore interface {
	FindUserLanguage(ctx context.Context, userID int64) (model.Lang, error)
	UpsertUser(ctx context.Context, userID int64, lang model.Lang) error
	GetAnnouncementByRef(ctx context.Context, ref int) (model.Announcement, error)
	AppendOrder(ctx context.Context, o model.Order) error
}

// Keyboard tells the handler which inline keyboard to attach to a reply.
type Keyboard int

const (
	KbNone Keyboard = iota
	KbCancel
	KbLanguage
)

// Reply is the outbound half of a transition. Alert replies answer a
// callback with a dismissible popup instead of sending a message.
type Reply struct {
	Text     string
	Keyboard Keyboard
	Alert    bool
}

// Photo is one resolution variant of an uploaded photo.
type Photo struct {
	FileID string
	Width  int
	Height int
}

// BestPhoto selects the highest-resolution variant.
func BestPhoto(photos []Photo) (Photo, bool) {
	var (
		best  Photo
		found bool
	)
	for _, p := range photos {
		if !found || p.Width*p.Height > best.Width*best.Height {
			best = p
			found = true
		}
	}
	return best, found
}

// OrderNotice asks the handler to fan a new-order notification with the
// receipt photo and a confirm/reject keyboard out to every admin.
type OrderNotice struct {
	Order       model.Order
	PhotoFileID string
}
