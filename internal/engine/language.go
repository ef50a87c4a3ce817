package engine

import (
	"context"
	"log/slog"

	"gourmetbot/core/logger"
	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
	"gourmetbot/internal/session"
)

// StateLanguage marks a pending language choice.
const StateLanguage session.State = "awaiting_language"

// LanguageStore is the slice of the record store the language dialogue needs.
type LanguageStore interface {
	FindUserLanguage(ctx context.Context, userID int64) (model.Lang, error)
	UpsertUser(ctx context.Context, userID int64, lang model.Lang) error
}

// Language is the two-step language selection dialogue.
type Language struct {
	sessions session.Store
	store    LanguageStore
}

func NewLanguage(sessions session.Store, ls LanguageStore) *Language {
	return &Language{sessions: sessions, store: ls}
}

func (l *Language) key(userID int64) session.Key {
	return session.Key{UserID: userID, Scope: session.ScopeLanguage}
}

// Start opens the selection: the prompt is shown in the user's current
// language with the inline choice keyboard attached.
func (l *Language) Start(ctx context.Context, userID int64) (Reply, error) {
	lang, err := l.store.FindUserLanguage(ctx, userID)
	if err != nil {
		lang = model.DefaultLang
	}
	if err := l.sessions.Put(ctx, l.key(userID), session.Session{State: StateLanguage}); err != nil {
		return Reply{Text: locale.T(lang, locale.GenericError)}, err
	}
	return Reply{Text: locale.T(lang, locale.LanguagePrompt), Keyboard: KbLanguage}, nil
}

// Choose persists the picked language and closes the dialogue. The
// confirmation is rendered in the language just chosen. Choosing works
// even without Start: the buttons may outlive the session.
func (l *Language) Choose(ctx context.Context, userID int64, raw string) (Reply, error) {
	lang := model.ParseLang(raw)
	if err := l.store.UpsertUser(ctx, userID, lang); err != nil {
		return Reply{Text: locale.T(lang, locale.GenericError), Alert: true}, err
	}
	if err := l.sessions.Clear(ctx, l.key(userID)); err != nil {
		logger.Warn(ctx, "engine", "session.clear_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
	logger.Info(ctx, "engine", "language.changed",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("lang", string(lang)),
	)
	return Reply{Text: locale.T(lang, locale.LanguageChanged)}, nil
}
