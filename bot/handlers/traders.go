package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/nofx-ai/tradebot/bot/flows"
)

// Status renders the /status screen: backend health plus a trader summary.
func (h *Handlers) Status(ctx context.Context, userID int64) flows.Reply {
	health, err := h.backend.Health(ctx)
	if err != nil {
		health = "unreachable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Status*\n\nPlatform: %s\n", health)

	traders, err := h.backend.Traders(ctx, userID)
	if err != nil {
		fmt.Fprintf(&b, "\n❌ Could not load traders: %s\n", err.Error())
	} else {
		running := 0
		for _, t := range traders {
			if t.IsRunning {
				running++
			}
		}
		fmt.Fprintf(&b, "Traders: %d (%d running)\n", len(traders), running)
	}

	if demos := h.store.DemoTraders(userID); len(demos) > 0 {
		fmt.Fprintf(&b, "Demo traders: %d\n", len(demos))
	}

	return flows.Reply{
		Text:     b.String(),
		Markdown: true,
		Buttons: [][]flows.Btn{
			{
				{Text: "🔄 Refresh", Token: flows.TokenRefreshStatus},
				{Text: "📋 Traders", Token: flows.TokenListTraders},
			},
			{{Text: "🏠 Home", Token: flows.TokenBackToHome}},
		},
	}
}

// ListTraders renders the /list screen with per-trader lines.
func (h *Handlers) ListTraders(ctx context.Context, userID int64) flows.Reply {
	traders, err := h.backend.Traders(ctx, userID)
	if err != nil {
		return flows.Reply{Text: "❌ Could not load traders: " + err.Error()}
	}
	if len(traders) == 0 {
		return flows.Reply{
			Text:     "📋 You have no traders yet.\n\nCreate one with /create.",
			Markdown: false,
			Buttons: [][]flows.Btn{{
				{Text: "🚀 Create trader", Token: flows.TokenCreateTrader},
				{Text: "📋 Demo traders", Token: flows.TokenListDemoTraders},
			}},
		}
	}

	var b strings.Builder
	b.WriteString("📋 *Your traders*\n\n")
	for _, t := range traders {
		state := "⏹ stopped"
		if t.IsRunning {
			state = "▶️ running"
		}
		name := t.DisplayName
		if name == "" {
			name = t.TraderName
		}
		fmt.Fprintf(&b, "• %s (`%s`)\n  %s | model: %s | equity: %.2f | PnL: %+.2f (%+.2f%%)\n",
			name, t.TraderID, state, t.AIModel, t.TotalEquity, t.TotalPnL, t.TotalPnLPct)
	}
	b.WriteString("\nControl: /start\\_trader <id>, /stop\\_trader <id>")

	return flows.Reply{
		Text:     b.String(),
		Markdown: true,
		Buttons: [][]flows.Btn{
			{
				{Text: "🔄 Refresh", Token: flows.TokenListTraders},
				{Text: "📋 Demo traders", Token: flows.TokenListDemoTraders},
			},
			{{Text: "🏠 Home", Token: flows.TokenBackToHome}},
		},
	}
}

// ListDemoTraders renders the locally synthesized demo traders.
func (h *Handlers) ListDemoTraders(userID int64) flows.Reply {
	demos := h.store.DemoTraders(userID)
	if len(demos) == 0 {
		return flows.Reply{
			Text: "📋 No demo traders yet.\n\nRun /create and pick a demo model or exchange.",
			Buttons: [][]flows.Btn{{
				{Text: "🚀 Create demo trader", Token: flows.TokenCreateTrader},
				{Text: "📖 Help", Token: flows.TokenHelp},
			}},
		}
	}

	var b strings.Builder
	b.WriteString("📋 *Demo traders*\n\n")
	for _, d := range demos {
		fmt.Fprintf(&b, "• %s (`%s`)\n  ⏹ %s | model: %s | exchange: %s | balance: %s USDT\n",
			d.Name, d.ID, d.Status, d.ModelName, d.ExchangeName, d.InitialBalance.String())
	}
	b.WriteString("\nDemo traders live only in this bot and never place orders.")

	return flows.Reply{
		Text:     b.String(),
		Markdown: true,
		Buttons: [][]flows.Btn{
			{
				{Text: "🔄 Refresh", Token: flows.TokenListDemoTraders},
				{Text: "📋 Real traders", Token: flows.TokenListTraders},
			},
			{{Text: "🏠 Home", Token: flows.TokenBackToHome}},
		},
	}
}

// StartTrader handles "/start_trader <id>".
func (h *Handlers) StartTrader(ctx context.Context, userID int64, arg string) flows.Reply {
	id := strings.TrimSpace(arg)
	if id == "" {
		return flows.Reply{Text: "Usage: /start_trader <trader-id>\n\nFind IDs with /list."}
	}
	if err := h.backend.StartTrader(ctx, userID, id); err != nil {
		return flows.Reply{Text: "❌ Could not start trader: " + err.Error()}
	}
	return flows.Reply{
		Text: "▶️ Trader " + id + " started.",
		Buttons: [][]flows.Btn{{
			{Text: "📊 Status", Token: flows.TokenRefreshStatus},
			{Text: "📋 Traders", Token: flows.TokenListTraders},
		}},
	}
}

// StopTrader handles "/stop_trader <id>".
func (h *Handlers) StopTrader(ctx context.Context, userID int64, arg string) flows.Reply {
	id := strings.TrimSpace(arg)
	if id == "" {
		return flows.Reply{Text: "Usage: /stop_trader <trader-id>\n\nFind IDs with /list."}
	}
	if err := h.backend.StopTrader(ctx, userID, id); err != nil {
		return flows.Reply{Text: "❌ Could not stop trader: " + err.Error()}
	}
	return flows.Reply{
		Text: "⏹ Trader " + id + " stopped.",
		Buttons: [][]flows.Btn{{
			{Text: "📊 Status", Token: flows.TokenRefreshStatus},
			{Text: "📋 Traders", Token: flows.TokenListTraders},
		}},
	}
}
