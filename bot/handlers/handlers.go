// Package handlers implements the stateless commands and navigation screens.
// Like the flow engines, handlers return renderable Reply values; the app
// layer turns them into Telegram messages.
package handlers

import (
	"context"
	"strings"

	"github.com/nofx-ai/tradebot/bot/api"
	"github.com/nofx-ai/tradebot/bot/flows"
	"github.com/nofx-ai/tradebot/bot/session"
)

// Backend is the subset of the trading API the stateless commands call.
type Backend interface {
	Traders(ctx context.Context, userID int64) ([]api.Trader, error)
	StartTrader(ctx context.Context, userID int64, traderID string) error
	StopTrader(ctx context.Context, userID int64, traderID string) error
	Health(ctx context.Context) (string, error)
}

// Handlers bundles the dependencies of the stateless commands.
type Handlers struct {
	store   *session.Store
	backend Backend
	model   *flows.ModelFlow
	trader  *flows.TraderFlow
}

// New wires the handler set.
func New(store *session.Store, backend Backend, model *flows.ModelFlow, trader *flows.TraderFlow) *Handlers {
	return &Handlers{store: store, backend: backend, model: model, trader: trader}
}

func mainMenuRows() [][]flows.Btn {
	return [][]flows.Btn{
		{
			{Text: "🚀 Create trader", Token: flows.TokenCreateTrader},
			{Text: "🤖 Create AI model", Token: flows.TokenCreateAIModel},
		},
		{
			{Text: "🏦 Exchanges", Token: flows.TokenCreateExchange},
			{Text: "📊 Status", Token: flows.TokenRefreshStatus},
		},
		{
			{Text: "📋 Traders", Token: flows.TokenListTraders},
			{Text: "📖 Help", Token: flows.TokenHelp},
		},
	}
}

// Welcome renders the /start greeting with the main menu.
func (h *Handlers) Welcome() flows.Reply {
	return flows.Reply{
		Text: "👋 *Welcome to the trading bot!*\n\n" +
			"This bot drives AI-powered traders on the trading platform:\n" +
			"• create AI models that make the decisions\n" +
			"• create traders that pair a model with an exchange\n" +
			"• start, stop and monitor them from chat\n\n" +
			"Pick an action:",
		Markdown: true,
		Buttons:  mainMenuRows(),
	}
}

// Help renders the /help screen.
func (h *Handlers) Help() flows.Reply {
	return flows.Reply{
		Text: "📖 *Commands*\n\n" +
			"/start - main menu\n" +
			"/create - create a trader\n" +
			"/create\\_ai\\_model - create an AI model\n" +
			"/status - platform and trader status\n" +
			"/list - list your traders\n" +
			"/start\\_trader <id> - start a trader\n" +
			"/stop\\_trader <id> - stop a trader\n" +
			"/cancel - abort the current wizard\n\n" +
			"Wizards time out after 30 minutes.",
		Markdown: true,
		Buttons:  [][]flows.Btn{{{Text: "🏠 Home", Token: flows.TokenBackToHome}}},
	}
}

// ExchangeInfo renders the informational exchange screen. Exchange accounts
// are provisioned on the platform side, so the bot only explains the options.
func (h *Handlers) ExchangeInfo() flows.Reply {
	return flows.Reply{
		Text: "🏦 *Exchange accounts*\n\n" +
			"Exchange credentials are configured on the trading platform, not in chat.\n\n" +
			"Supported: Hyperliquid, Binance Futures, OKX (testnet and mainnet).\n\n" +
			"Once an account is connected it shows up in the trader wizard.",
		Markdown: true,
		Buttons:  [][]flows.Btn{{{Text: "🏠 Home", Token: flows.TokenBackToHome}}},
	}
}

// Cancel aborts whichever wizard is active; with no active session it says so.
func (h *Handlers) Cancel(userID int64) flows.Reply {
	sess, ok := h.store.Get(userID)
	if !ok {
		return flows.Reply{Text: "ℹ️ Nothing to cancel."}
	}
	if strings.HasPrefix(string(sess.Step), "trader:") {
		return h.trader.Cancel(userID)
	}
	return h.model.Cancel(userID)
}
