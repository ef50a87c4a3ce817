package session

import (
	"context"
	"sync"
	"time"

	"gourmetbot/core/logger"

	"log/slog"
)

const defaultTTL = 24 * time.Hour

// Memory is the in-process Store. A janitor goroutine expires sessions
// idle longer than the TTL so abandoned dialogues release their memory.
type Memory struct {
	mu       sync.RWMutex
	sessions map[Key]Session
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory constructs a memory Store with the given idle TTL.
// A non-positive ttl falls back to the default of one day.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	m := &Memory{
		sessions: make(map[Key]Session),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Get returns the session for a key when it exists and has not expired.
func (m *Memory) Get(_ context.Context, key Key) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	if !ok {
		return Session{}, false, nil
	}
	if m.now().Sub(s.UpdatedAt) > m.ttl {
		return Session{}, false, nil
	}
	return s, true, nil
}

// Put stores the session and refreshes its idle timestamp.
func (m *Memory) Put(_ context.Context, key Key, s Session) error {
	s.UpdatedAt = m.now()
	m.mu.Lock()
	m.sessions[key] = s
	m.mu.Unlock()
	return nil
}

// Clear removes the session for a key.
func (m *Memory) Clear(_ context.Context, key Key) error {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
	return nil
}

// Close stops the janitor goroutine.
func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Memory) janitor() {
	interval := m.ttl / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.expire()
		}
	}
}

func (m *Memory) expire() {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	expired := 0
	for key, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, key)
			expired++
		}
	}
	m.mu.Unlock()
	if expired > 0 {
		logger.Debug(context.Background(), "session", "session.expired",
			slog.String("status", "ok"),
			slog.Int("count", expired),
		)
	}
}
