// Package app assembles the bot from its parts: record store, session
// backend, dialogue engines, order service, and the gateway wiring.
package app

import (
	"context"
	"fmt"
	"time"

	coredatabase "gourmetbot/core/database"
	coretelegram "gourmetbot/core/telegram"
	"gourmetbot/internal/bot"
	"gourmetbot/internal/config"
	"gourmetbot/internal/engine"
	"gourmetbot/internal/orders"
	"gourmetbot/internal/session"
	"gourmetbot/internal/sheets"
	"gourmetbot/internal/store"
)

// App holds the assembled application.
type App struct {
	cfg      *config.Config
	handlers *bot.Handlers
	sender   *bot.TelegramSender
	memory   *session.Memory
}

// Bootstrap builds every component against the loaded configuration.
// The spreadsheet is opened and verified here so a bad credential or
// missing sheet fails startup instead of the first order.
func Bootstrap(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		return nil, fmt.Errorf("app: sheets client: %w", err)
	}
	if err := client.EnsureSheet(ctx, store.TableUsers, []string{"user_id", "language"}); err != nil {
		return nil, fmt.Errorf("app: ensure users sheet: %w", err)
	}
	st := store.New(client)

	a := &App{cfg: cfg, sender: bot.NewTelegramSender()}

	var sessions session.Store
	switch cfg.Session.Backend {
	case config.SessionBackendPostgres:
		if err := coredatabase.RunMigrations(cfg.Database); err != nil {
			return nil, fmt.Errorf("app: migrations: %w", err)
		}
		db, err := coredatabase.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("app: database: %w", err)
		}
		sessions = session.NewPostgres(db, cfg.Session.TTL())
	default:
		mem := session.NewMemory(cfg.Session.TTL())
		a.memory = mem
		sessions = mem
	}

	reservation := engine.NewReservation(sessions, st)
	language := engine.NewLanguage(sessions, st)
	svc := orders.NewService(st)

	a.handlers = bot.NewHandlers(st, reservation, language, svc, a.sender, cfg.Core.Telegram.AdminIDs)
	return a, nil
}

// TelegramRunOptions wires registry, routes, and middleware for the runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Wire(reg)

	routes := a.handlers.Routes(reg, a.cfg.Core.Telegram.AdminIDs)

	opts := coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.sender.Bind(rt.Bot)
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			if a.memory != nil {
				a.memory.Close()
			}
			return nil
		},
	}
	return opts, nil
}
