// Package session stores per-user, per-dialogue conversation state.
// The memory backend loses sessions on restart; the Postgres backend
// is an optional durable cache that keeps them.
package session

import (
	"context"
	"time"
)

// Scope names an independent dialogue a user can be in.
type Scope string

const (
	ScopeReserve  Scope = "reserve"
	ScopeLanguage Scope = "language"
)

// State is a dialogue step tag.
type State string

// StateIdle indicates there is no active dialogue for the key.
const StateIdle State = "idle"

// Key addresses one session.
type Key struct {
	UserID int64
	Scope  Scope
}

// Bag accumulates fields collected across dialogue steps. A field is
// only set once the step that collects it has completed.
type Bag struct {
	AnnouncementRef int
	Dish            string
	Price           int
	Portions        int
	Room            string
}

// Session is the current step plus the accumulated field bag.
type Session struct {
	State     State
	Bag       Bag
	UpdatedAt time.Time
}

// Store is the session backend. Get reports ok=false for keys with no
// active session; Put overwrites unconditionally; Clear is idempotent.
type Store interface {
	Get(ctx context.Context, key Key) (Session, bool, error)
	Put(ctx context.Context, key Key, s Session) error
	Clear(ctx context.Context, key Key) error
}
