// Package app wires the wizards, stateless commands and the Telegram chassis
// together: it owns the registry, renders Reply values into messages and runs
// the bot lifecycle.
package app

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/nofx-ai/tradebot/bot/api"
	"github.com/nofx-ai/tradebot/bot/flows"
	"github.com/nofx-ai/tradebot/bot/handlers"
	"github.com/nofx-ai/tradebot/bot/session"
	"github.com/nofx-ai/tradebot/core/config"
	"github.com/nofx-ai/tradebot/core/logger"
	tg "github.com/nofx-ai/tradebot/core/telegram"
	tghelpers "github.com/nofx-ai/tradebot/core/telegram/helpers"
	"github.com/nofx-ai/tradebot/core/telegram/keyboard"
	"github.com/nofx-ai/tradebot/core/telegram/middleware"
	"github.com/nofx-ai/tradebot/core/telegram/router"
)

// App owns the bot's domain components and their Telegram wiring.
type App struct {
	cfg     *config.Config
	store   *session.Store
	backend *api.Client
	model   *flows.ModelFlow
	trader  *flows.TraderFlow
	cmds    *handlers.Handlers
	reg     *tg.Registry
}

// New assembles the application from configuration.
func New(cfg *config.Config) *App {
	backend := api.NewClient(cfg.Backend)
	store := session.NewStore()

	a := &App{
		cfg:     cfg,
		store:   store,
		backend: backend,
		model:   flows.NewModelFlow(store, backend),
		trader:  flows.NewTraderFlow(store, backend, flows.NewFallbackCatalog(backend)),
		reg:     tg.NewRegistry(),
	}
	a.cmds = handlers.New(store, backend, a.model, a.trader)
	a.registerCommands()
	a.registerCallbacks()
	return a
}

// Run starts the bot and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	var middlewares []tg.Middleware
	if a.cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(a.cfg.RateLimit.ExcludeUpdates))
		for _, kind := range a.cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		middlewares = append(middlewares, tg.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(a.cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			}),
		})
	}

	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a, a.reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))

	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			go a.sweepLoop(ctx)
			return nil
		},
	})
}

// sweepLoop drops expired wizard sessions periodically. Expiry is lazy on
// read, so this only keeps the map small and surfaces abandoned flows in logs.
func (a *App) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := a.store.SweepExpired(); dropped > 0 {
				logger.FLOW.LogAttrs(ctx, slog.LevelInfo, "session.sweep",
					slog.Int("dropped", dropped),
				)
			}
		}
	}
}

// Registry exposes the populated registry (tests, diagnostics).
func (a *App) Registry() *tg.Registry {
	return a.reg
}

// send renders a Reply into a Telegram message with an inline keyboard.
func (a *App) send(c tele.Context, r flows.Reply) error {
	var markup *tele.ReplyMarkup
	if len(r.Buttons) > 0 {
		rows := make([][]keyboard.InlineBtn, len(r.Buttons))
		for i, btnRow := range r.Buttons {
			row := make([]keyboard.InlineBtn, len(btnRow))
			for j, b := range btnRow {
				row[j] = keyboard.InlineBtn{Text: b.Text, Unique: b.Token}
			}
			rows[i] = row
		}
		markup = keyboard.InlineButtonsRows(rows...)
	}
	if r.Markdown {
		// Button-triggered screens replace the menu they came from, like the
		// original in-place navigation; plain re-prompts stay as new messages.
		if c.Callback() != nil {
			return tghelpers.EditOrSendMD(c, r.Text, markup)
		}
		return tghelpers.SendMD(c, r.Text, markup)
	}
	if markup != nil {
		return c.Send(r.Text, markup)
	}
	return tghelpers.SendText(c, r.Text)
}

// reply adapts a Reply-producing function into a tele.HandlerFunc.
func (a *App) reply(fn func(c tele.Context) flows.Reply) tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.send(c, fn(c))
	}
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func requestCtx(c tele.Context) context.Context {
	return tghelpers.BuildContext(c)
}
