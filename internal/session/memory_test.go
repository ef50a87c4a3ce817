package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryPutGetClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)
	defer m.Close()

	key := Key{UserID: 7, Scope: ScopeReserve}
	if _, ok, _ := m.Get(ctx, key); ok {
		t.Fatal("expected no session before Put")
	}

	want := Session{State: "awaiting_portions", Bag: Bag{Dish: "Плов", Price: 200}}
	if err := m.Put(ctx, key, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := m.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.State != want.State || got.Bag != want.Bag {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := m.Clear(ctx, key); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := m.Get(ctx, key); ok {
		t.Fatal("expected no session after Clear")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)
	defer m.Close()

	base := time.Now()
	m.now = func() time.Time { return base }

	key := Key{UserID: 7, Scope: ScopeReserve}
	if err := m.Put(ctx, key, Session{State: "awaiting_room"}); err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return base.Add(30 * time.Minute) }
	if _, ok, _ := m.Get(ctx, key); !ok {
		t.Fatal("session expired too early")
	}

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, ok, _ := m.Get(ctx, key); ok {
		t.Fatal("session survived past its TTL")
	}

	m.expire()
	m.mu.RLock()
	_, present := m.sessions[key]
	m.mu.RUnlock()
	if present {
		t.Fatal("janitor left an expired session behind")
	}
}

func TestMemoryScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour)
	defer m.Close()

	reserve := Key{UserID: 7, Scope: ScopeReserve}
	language := Key{UserID: 7, Scope: ScopeLanguage}
	_ = m.Put(ctx, reserve, Session{State: "awaiting_receipt"})
	_ = m.Put(ctx, language, Session{State: "awaiting_language"})

	if err := m.Clear(ctx, language); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, reserve); !ok {
		t.Fatal("clearing one scope must not touch the other")
	}
}
