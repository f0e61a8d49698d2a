package app

import (
	tele "gopkg.in/telebot.v4"

	"github.com/nofx-ai/tradebot/bot/flows"
	"github.com/nofx-ai/tradebot/bot/session"
	"github.com/nofx-ai/tradebot/core/telegram/commands"
)

func commandArg(c tele.Context) string {
	if m := c.Message(); m != nil {
		return m.Payload
	}
	return ""
}

func (a *App) registerCommands() {
	a.reg.RegisterCommand("/start", commands.Command{
		Description: "Main menu",
		Handler:     a.reply(func(tele.Context) flows.Reply { return a.cmds.Welcome() }),
	})
	a.reg.RegisterCommand("/help", commands.Command{
		Description: "How to use the bot",
		Handler:     a.reply(func(tele.Context) flows.Reply { return a.cmds.Help() }),
	})
	a.reg.RegisterCommand("/create", commands.Command{
		Description: "Create a trader",
		Handler:     a.reply(func(c tele.Context) flows.Reply { return a.trader.Start(senderID(c)) }),
	})
	a.reg.RegisterCommand("/create_ai_model", commands.Command{
		Description: "Create an AI model",
		Handler:     a.reply(func(c tele.Context) flows.Reply { return a.model.Start(senderID(c)) }),
	})
	a.reg.RegisterCommand("/status", commands.Command{
		Description: "Platform and trader status",
		Handler: a.reply(func(c tele.Context) flows.Reply {
			return a.cmds.Status(requestCtx(c), senderID(c))
		}),
	})
	a.reg.RegisterCommand("/list", commands.Command{
		Description: "List your traders",
		Handler: a.reply(func(c tele.Context) flows.Reply {
			return a.cmds.ListTraders(requestCtx(c), senderID(c))
		}),
	})
	a.reg.RegisterCommand("/start_trader", commands.Command{
		Description: "Start a trader by ID",
		Handler: a.reply(func(c tele.Context) flows.Reply {
			return a.cmds.StartTrader(requestCtx(c), senderID(c), commandArg(c))
		}),
	})
	a.reg.RegisterCommand("/stop_trader", commands.Command{
		Description: "Stop a trader by ID",
		Handler: a.reply(func(c tele.Context) flows.Reply {
			return a.cmds.StopTrader(requestCtx(c), senderID(c), commandArg(c))
		}),
	})
	a.reg.RegisterCommand("/cancel", commands.Command{
		Description: "Abort the current wizard",
		Handler:     a.reply(func(c tele.Context) flows.Reply { return a.cmds.Cancel(senderID(c)) }),
	})

	a.reg.SetTextFallback(a.reply(func(tele.Context) flows.Reply { return a.cmds.Welcome() }))
}

func (a *App) registerCallbacks() {
	exact := map[string]func(c tele.Context) flows.Reply{
		// AI-model flow.
		flows.TokenSkipAPIKey:         func(c tele.Context) flows.Reply { return a.model.SkipCredential(senderID(c)) },
		flows.TokenSkipDescription:    func(c tele.Context) flows.Reply { return a.model.SkipDescription(senderID(c)) },
		flows.TokenConfirmCreateModel: func(c tele.Context) flows.Reply { return a.model.Confirm(requestCtx(c), senderID(c)) },
		flows.TokenCancelCreateModel:  func(c tele.Context) flows.Reply { return a.model.Cancel(senderID(c)) },

		// Trader flow.
		flows.TokenCustomBalance:       func(c tele.Context) flows.Reply { return a.trader.CustomBalance(senderID(c)) },
		flows.TokenConfirmCreateTrader: func(c tele.Context) flows.Reply { return a.trader.Confirm(requestCtx(c), senderID(c)) },
		flows.TokenCancelCreateTrader:  func(c tele.Context) flows.Reply { return a.trader.Cancel(senderID(c)) },

		// Navigation.
		flows.TokenCreateTrader:    func(c tele.Context) flows.Reply { return a.trader.Start(senderID(c)) },
		flows.TokenCreateAIModel:   func(c tele.Context) flows.Reply { return a.model.Start(senderID(c)) },
		flows.TokenCreateExchange:  func(tele.Context) flows.Reply { return a.cmds.ExchangeInfo() },
		flows.TokenRefreshStatus:   func(c tele.Context) flows.Reply { return a.cmds.Status(requestCtx(c), senderID(c)) },
		flows.TokenListTraders:     func(c tele.Context) flows.Reply { return a.cmds.ListTraders(requestCtx(c), senderID(c)) },
		flows.TokenListDemoTraders: func(c tele.Context) flows.Reply { return a.cmds.ListDemoTraders(senderID(c)) },
		flows.TokenHelp:            func(tele.Context) flows.Reply { return a.cmds.Help() },
		flows.TokenBackToHome:      func(tele.Context) flows.Reply { return a.cmds.Welcome() },
	}
	for key, fn := range exact {
		_ = a.reg.RegisterCallback(key, a.reply(fn))
	}

	// Prefix routes. Demo prefixes must precede their generic counterparts:
	// matching runs in registration order and select_model_demo_* would
	// otherwise be swallowed by select_model_*.
	prefixes := []struct {
		prefix  string
		handler func(c tele.Context, payload string) flows.Reply
	}{
		{flows.TokenSelectProviderPrefix, func(c tele.Context, payload string) flows.Reply {
			return a.model.HandleProvider(senderID(c), payload)
		}},
		{flows.TokenSelectModelDemoPrefix, func(c tele.Context, payload string) flows.Reply {
			return a.trader.HandleModel(requestCtx(c), senderID(c), "demo_"+payload)
		}},
		{flows.TokenSelectModelPrefix, func(c tele.Context, payload string) flows.Reply {
			return a.trader.HandleModel(requestCtx(c), senderID(c), payload)
		}},
		{flows.TokenSelectExchangeDemoPrefix, func(c tele.Context, payload string) flows.Reply {
			return a.trader.HandleExchange(requestCtx(c), senderID(c), "demo_"+payload)
		}},
		{flows.TokenSelectExchangePrefix, func(c tele.Context, payload string) flows.Reply {
			return a.trader.HandleExchange(requestCtx(c), senderID(c), payload)
		}},
		{flows.TokenSetBalancePrefix, func(c tele.Context, payload string) flows.Reply {
			return a.trader.HandleBalance(senderID(c), payload)
		}},
	}
	for _, p := range prefixes {
		fn := p.handler
		_ = a.reg.RegisterCallbackPrefix(p.prefix, func(c tele.Context, payload string) error {
			return a.send(c, fn(c, payload))
		})
	}
}

// InProgress reports whether the user has an active wizard session. Part of
// the router.FSM contract.
func (a *App) InProgress(userID int64) bool {
	return a.store.IsInFlow(userID)
}

// ManagerHandler routes free text to the active session's step handler. Part
// of the router.FSM contract.
func (a *App) ManagerHandler(c tele.Context) error {
	userID := senderID(c)
	sess, ok := a.store.Get(userID)
	if !ok {
		return a.send(c, a.cmds.Welcome())
	}

	text := c.Text()
	switch sess.Step {
	case session.StepModelName:
		return a.send(c, a.model.HandleName(userID, text))
	case session.StepModelCredential:
		return a.send(c, a.model.HandleCredential(userID, text))
	case session.StepModelDescription:
		return a.send(c, a.model.HandleDescription(userID, text))
	case session.StepTraderName:
		return a.send(c, a.trader.HandleName(requestCtx(c), userID, text))
	case session.StepTraderBalance:
		return a.send(c, a.trader.HandleBalance(userID, text))
	default:
		// Steps waiting on a button press.
		return a.send(c, flows.Reply{Text: "👆 Please use the buttons above, or /cancel to abort."})
	}
}
