package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Postgres stores sessions in a table so dialogues survive restarts.
// It implements the same idle-TTL semantics as Memory: rows older than
// the TTL read as absent and are removed lazily on the next write.
type Postgres struct {
	db  *sqlx.DB
	ttl time.Duration
}

type sessionRow struct {
	UserID          int64     `db:"user_id"`
	Scope           string    `db:"scope"`
	State           string    `db:"state"`
	AnnouncementRef int       `db:"announcement_ref"`
	Dish            string    `db:"dish"`
	Price           int       `db:"price"`
	Portions        int       `db:"portions"`
	Room            string    `db:"room"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// NewPostgres wraps an open sqlx handle as a session Store.
func NewPostgres(db *sqlx.DB, ttl time.Duration) *Postgres {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Postgres{db: db, ttl: ttl}
}

// Get reads a session row, treating expired rows as absent.
func (p *Postgres) Get(ctx context.Context, key Key) (Session, bool, error) {
	var row sessionRow
	err := p.db.GetContext(ctx, &row,
		`SELECT user_id, scope, state, announcement_ref, dish, price, portions, room, updated_at
		 FROM sessions WHERE user_id = $1 AND scope = $2`,
		key.UserID, string(key.Scope),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("session get: %w", err)
	}
	if time.Since(row.UpdatedAt) > p.ttl {
		return Session{}, false, nil
	}
	return Session{
		State: State(row.State),
		Bag: Bag{
			AnnouncementRef: row.AnnouncementRef,
			Dish:            row.Dish,
			Price:           row.Price,
			Portions:        row.Portions,
			Room:            row.Room,
		},
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

// Put upserts the session row and sweeps expired rows opportunistically.
func (p *Postgres) Put(ctx context.Context, key Key, s Session) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, scope, state, announcement_ref, dish, price, portions, room, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (user_id, scope) DO UPDATE SET
		   state = EXCLUDED.state,
		   announcement_ref = EXCLUDED.announcement_ref,
		   dish = EXCLUDED.dish,
		   price = EXCLUDED.price,
		   portions = EXCLUDED.portions,
		   room = EXCLUDED.room,
		   updated_at = now()`,
		key.UserID, string(key.Scope), string(s.State),
		s.Bag.AnnouncementRef, s.Bag.Dish, s.Bag.Price, s.Bag.Portions, s.Bag.Room,
	)
	if err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	_, _ = p.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE updated_at < $1`, time.Now().Add(-p.ttl))
	return nil
}

// Clear removes the session row.
func (p *Postgres) Clear(ctx context.Context, key Key) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND scope = $2`,
		key.UserID, string(key.Scope),
	)
	if err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
