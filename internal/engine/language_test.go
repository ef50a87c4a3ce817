package engine

import (
	"context"
	"testing"
	"time"

	"gourmetbot/internal/locale"
	"gourmetbot/internal/model"
	"gourmetbot/internal/session"
)

func TestLanguageChoose(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	sessions := session.NewMemory(time.Hour)
	defer sessions.Close()
	l := NewLanguage(sessions, records)

	reply, err := l.Start(ctx, 7)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if reply.Keyboard != KbLanguage {
		t.Fatal("prompt must carry the language keyboard")
	}

	reply, err = l.Choose(ctx, 7, "en")
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if records.langs[7] != model.LangEN {
		t.Fatalf("stored language = %s, expected en", records.langs[7])
	}
	// Confirmation comes in the freshly chosen language.
	if reply.Text != locale.T(model.LangEN, locale.LanguageChanged) {
		t.Fatalf("unexpected confirmation %q", reply.Text)
	}

	key := session.Key{UserID: 7, Scope: session.ScopeLanguage}
	if _, ok, _ := sessions.Get(ctx, key); ok {
		t.Fatal("choose must close the dialogue")
	}
}

func TestLanguageChooseWithoutStart(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	sessions := session.NewMemory(time.Hour)
	defer sessions.Close()
	l := NewLanguage(sessions, records)

	// Buttons may outlive the session; the choice still applies.
	if _, err := l.Choose(ctx, 7, "ru"); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if records.langs[7] != model.LangRU {
		t.Fatalf("stored language = %s, expected ru", records.langs[7])
	}
}
