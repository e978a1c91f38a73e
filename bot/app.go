// Package bot assembles the support relay application: configuration,
// session store, optional journal database, and the Telegram wiring.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"log/slog"

	coreconfig "github.com/haileylsn-oss/telegram-support-bot/core/config"
	coredatabase "github.com/haileylsn-oss/telegram-support-bot/core/database"
	"github.com/haileylsn-oss/telegram-support-bot/core/logger"
	coretelegram "github.com/haileylsn-oss/telegram-support-bot/core/telegram"
	"github.com/haileylsn-oss/telegram-support-bot/core/telegram/commands"
	"github.com/haileylsn-oss/telegram-support-bot/core/telegram/router"
	"github.com/haileylsn-oss/telegram-support-bot/journal"
	"github.com/haileylsn-oss/telegram-support-bot/relay"
	"github.com/haileylsn-oss/telegram-support-bot/session"
)

// App owns the long-lived components of the support bot.
type App struct {
	cfg       *coreconfig.Config
	db        *sqlx.DB
	sessions  *session.Store
	journal   journal.Recorder
	transport *teleTransport
	engine    *relay.Engine
}

// New initializes logging, the optional journal database, and the relay
// engine. The database is skipped entirely when no host is configured.
func New(cfg *coreconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}
	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("bot: logger init failed: %w", err)
	}

	app := &App{
		cfg:       cfg,
		journal:   journal.Nop{},
		sessions:  session.NewStore(cfg.Session.Timeout()),
		transport: &teleTransport{},
	}

	if cfg.Database.Enabled() {
		db, err := coredatabase.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("bot: database initialization failed: %w", err)
		}
		if err := coredatabase.RunMigrations(cfg.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bot: migrations failed: %w", err)
		}
		app.db = db
		app.journal = journal.NewStore(db)
	}

	app.engine = relay.New(relay.Options{
		OperatorID: cfg.Telegram.AdminID,
		Sessions:   app.sessions,
		Transport:  app.transport,
		Journal:    app.journal,
	})

	return app, nil
}

// Close releases resources held by the application.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// TelegramRunOptions wires commands, callbacks, and the text fallback into
// run options for the shared Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Start or restart the conversation",
	})
	reg.RegisterCommand("/recent", commands.Command{
		Handler:     a.handleRecent,
		Description: "Show recent relayed messages",
		AdminOnly:   true,
		Hidden:      true,
	})

	for _, cat := range session.Categories() {
		if err := reg.RegisterCallback(string(cat), a.handleCategory); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}

	reg.SetTextFallback(a.handleText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{
		UnknownDocument: a.handleUnsupported,
	})...)

	opts := coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.transport.bind(rt.Bot)
			logger.Info(ctx, "relay", "ready",
				slog.Int64("target_id", a.cfg.Telegram.AdminID),
				slog.Duration("session_timeout", a.cfg.Session.Timeout()),
			)
			return nil
		},
	}
	return opts, nil
}
