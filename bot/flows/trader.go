package flows

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nofx-ai/tradebot/bot/api"
	"github.com/nofx-ai/tradebot/bot/session"
	"github.com/nofx-ai/tradebot/core/logger"
	"log/slog"
)

// Trader wizard defaults and balance bounds (USDT).
var (
	balanceFloor = decimal.NewFromInt(10)
	balanceCap   = decimal.NewFromInt(100000)
)

const (
	defaultScanIntervalMinutes = 5
	defaultIsCrossMargin       = true
)

// TraderFlow drives the trader creation wizard:
// enter_name -> select_ai_model -> select_exchange -> enter_initial_balance -> confirm.
//
// Model and exchange selection go through the catalog: when the live backend
// has nothing to offer, the fixed demo catalog substitutes so the wizard stays
// completable. Confirming with a demo model or exchange synthesizes a local
// demo trader instead of calling the backend.
type TraderFlow struct {
	store   *session.Store
	backend Backend
	catalog *FallbackCatalog
	now     func() time.Time
}

// NewTraderFlow builds the wizard over the given store, backend and catalog.
func NewTraderFlow(store *session.Store, backend Backend, catalog *FallbackCatalog) *TraderFlow {
	return &TraderFlow{store: store, backend: backend, catalog: catalog, now: time.Now}
}

func cancelTraderRow() []Btn {
	return row(Btn{Text: "❌ Cancel", Token: TokenCancelCreateTrader})
}

// Start begins a fresh flow, replacing any session in progress.
func (f *TraderFlow) Start(userID int64) Reply {
	f.store.Set(userID, session.Session{
		Step:   session.StepTraderName,
		Trader: &session.TraderDraft{},
	})
	return md("🚀 *Create Trader*\n\n"+
		"A trader pairs an AI model with an exchange account and trades on its own schedule.\n\n"+
		"📝 *Enter a name for the trader:*\n\n"+
		"• 3-50 characters, e.g. \"BTC Bot\"",
		cancelTraderRow(),
	)
}

// HandleName validates the name and advances to model selection, querying the
// catalog for the available AI models.
func (f *TraderFlow) HandleName(ctx context.Context, userID int64, input string) Reply {
	draft, ok := f.draft(userID, session.StepTraderName)
	if !ok {
		return f.expire(userID)
	}
	name := strings.TrimSpace(input)
	if utf8.RuneCountInString(name) < 3 {
		return text("❌ The trader name needs at least 3 characters. Try again:")
	}
	if utf8.RuneCountInString(name) > 50 {
		return text("❌ The trader name must not exceed 50 characters. Try again:")
	}

	draft.Name = name
	f.store.Update(userID, func(s *session.Session) {
		s.Trader = draft
		s.Step = session.StepTraderModel
	})

	entries, demo := f.catalog.Models(ctx, userID)
	return f.modelMenu(name, entries, demo)
}

func (f *TraderFlow) modelMenu(traderName string, entries []Entry, demo bool) Reply {
	rows := make([][]Btn, 0, len(entries)+1)
	for _, e := range entries {
		token := TokenSelectModelPrefix + e.ID
		if e.Demo {
			// demo IDs are "demo_<x>"; the token becomes select_model_demo_<x>
			token = TokenSelectModelDemoPrefix + strings.TrimPrefix(e.ID, "demo_")
		}
		rows = append(rows, row(Btn{
			Text:  fmt.Sprintf("%s (%s)", e.Name, e.Detail),
			Token: token,
		}))
	}
	rows = append(rows, cancelTraderRow())

	header := fmt.Sprintf("🤖 *Select AI model*\n\nPick the model for \"%s\":", traderName)
	if demo {
		header = fmt.Sprintf("🤖 *Select AI model*\n\n"+
			"No AI models configured yet, offering demo models.\n"+
			"Pick the model for \"%s\":", traderName)
	}
	return md(header, rows...)
}

// HandleModel resolves the selected model against the catalog and advances to
// exchange selection.
func (f *TraderFlow) HandleModel(ctx context.Context, userID int64, modelID string) Reply {
	draft, ok := f.draft(userID, session.StepTraderModel)
	if !ok {
		return f.expire(userID)
	}

	entries, _ := f.catalog.Models(ctx, userID)
	entry, found := findEntry(entries, modelID)
	if !found {
		return text("❌ Unknown AI model. Pick one from the menu.")
	}

	draft.ModelID = entry.ID
	draft.ModelName = entry.Name
	draft.ModelIsDemo = entry.Demo
	f.store.Update(userID, func(s *session.Session) {
		s.Trader = draft
		s.Step = session.StepTraderExchange
	})

	exchanges, demo := f.catalog.Exchanges(ctx, userID)
	return f.exchangeMenu(entry.Name, exchanges, demo)
}

func (f *TraderFlow) exchangeMenu(modelName string, entries []Entry, demo bool) Reply {
	rows := make([][]Btn, 0, len(entries)+1)
	for _, e := range entries {
		token := TokenSelectExchangePrefix + e.ID
		if e.Demo {
			token = TokenSelectExchangeDemoPrefix + strings.TrimPrefix(e.ID, "demo_")
		}
		rows = append(rows, row(Btn{
			Text:  fmt.Sprintf("%s (%s)", e.Name, e.Detail),
			Token: token,
		}))
	}
	rows = append(rows, cancelTraderRow())

	header := fmt.Sprintf("🏦 *Select exchange*\n\nModel: %s\nPick the exchange to trade on:", modelName)
	if demo {
		header = fmt.Sprintf("🏦 *Select exchange*\n\n"+
			"No exchange accounts configured yet, offering demo exchanges.\n"+
			"Model: %s\nPick the exchange to trade on:", modelName)
	}
	return md(header, rows...)
}

// HandleExchange resolves the selected exchange and advances to balance entry.
func (f *TraderFlow) HandleExchange(ctx context.Context, userID int64, exchangeID string) Reply {
	draft, ok := f.draft(userID, session.StepTraderExchange)
	if !ok {
		return f.expire(userID)
	}

	entries, _ := f.catalog.Exchanges(ctx, userID)
	entry, found := findEntry(entries, exchangeID)
	if !found {
		return text("❌ Unknown exchange. Pick one from the menu.")
	}

	draft.ExchangeID = entry.ID
	draft.ExchangeName = entry.Name
	draft.ExchangeIsDemo = entry.Demo
	f.store.Update(userID, func(s *session.Session) {
		s.Trader = draft
		s.Step = session.StepTraderBalance
	})
	return f.balancePrompt(entry.Name)
}

func (f *TraderFlow) balancePrompt(exchangeName string) Reply {
	return md(fmt.Sprintf("💰 *Initial balance*\n\n"+
		"Exchange: %s\n\n"+
		"Pick a preset or type an amount in USDT (min 10, max 100000):", exchangeName),
		row(
			Btn{Text: "100 USDT", Token: TokenSetBalancePrefix + "100"},
			Btn{Text: "500 USDT", Token: TokenSetBalancePrefix + "500"},
		),
		row(
			Btn{Text: "1000 USDT", Token: TokenSetBalancePrefix + "1000"},
			Btn{Text: "Custom amount", Token: TokenCustomBalance},
		),
		cancelTraderRow(),
	)
}

// HandleBalance parses and validates the balance (typed or preset) and
// advances to confirmation. Amounts above the cap warn and re-prompt; the cap
// is never raised.
func (f *TraderFlow) HandleBalance(userID int64, input string) Reply {
	draft, ok := f.draft(userID, session.StepTraderBalance)
	if !ok {
		return f.expire(userID)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil || !amount.IsPositive() {
		return text("❌ Enter a positive number, e.g. 500:")
	}
	if amount.LessThan(balanceFloor) {
		return text("❌ The minimum initial balance is 10 USDT. Try again:")
	}
	if amount.GreaterThan(balanceCap) {
		return text("⚠️ The maximum initial balance is 100000 USDT. Enter a smaller amount:")
	}

	draft.InitialBalance = amount
	draft.ScanIntervalMinutes = defaultScanIntervalMinutes
	draft.IsCrossMargin = defaultIsCrossMargin
	f.store.Update(userID, func(s *session.Session) {
		s.Trader = draft
		s.Step = session.StepTraderConfirm
	})
	return f.confirmation(draft)
}

// CustomBalance re-prompts for a typed amount. The session stays at the
// balance step.
func (f *TraderFlow) CustomBalance(userID int64) Reply {
	if _, ok := f.draft(userID, session.StepTraderBalance); !ok {
		return f.expire(userID)
	}
	return text("💰 Type the initial balance in USDT (min 10, max 100000):")
}

func (f *TraderFlow) confirmation(draft *session.TraderDraft) Reply {
	mode := "isolated"
	if draft.IsCrossMargin {
		mode = "cross"
	}
	demoNote := ""
	if draft.ModelIsDemo || draft.ExchangeIsDemo {
		demoNote = "\n⚠️ Demo selection: the trader will be created locally for demonstration and will not trade.\n"
	}
	msg := fmt.Sprintf("✅ *Confirm trader*\n\n"+
		"• Name: %s\n"+
		"• AI model: %s\n"+
		"• Exchange: %s\n"+
		"• Initial balance: %s USDT\n"+
		"• Scan interval: %d minutes\n"+
		"• Margin mode: %s\n%s\n"+
		"Create this trader?",
		draft.Name, draft.ModelName, draft.ExchangeName,
		draft.InitialBalance.String(), draft.ScanIntervalMinutes, mode, demoNote,
	)
	return md(msg, row(
		Btn{Text: "✅ Create", Token: TokenConfirmCreateTrader},
		Btn{Text: "❌ Cancel", Token: TokenCancelCreateTrader},
	))
}

// Confirm finishes the flow. Demo selections synthesize a local trader; live
// selections call the backend. The session is cleared either way.
func (f *TraderFlow) Confirm(ctx context.Context, userID int64) Reply {
	draft, ok := f.draft(userID, session.StepTraderConfirm)
	if !ok {
		return f.expire(userID)
	}
	defer f.store.Clear(userID)

	if draft.ModelIsDemo || draft.ExchangeIsDemo {
		demo := session.DemoTrader{
			ID:             fmt.Sprintf("demo_%d_%s", f.now().UnixMilli(), uuid.NewString()[:8]),
			Name:           draft.Name,
			ModelName:      draft.ModelName,
			ExchangeName:   draft.ExchangeName,
			InitialBalance: draft.InitialBalance,
			Status:         "stopped",
			CreatedAt:      f.now(),
		}
		f.store.AppendDemoTrader(userID, demo)

		logger.FLOW.LogAttrs(ctx, slog.LevelInfo, "trader.created.demo",
			slog.Int64("user_id", userID),
			slog.String("trader_id", demo.ID),
		)
		return md("🎉 *Demo trader created!*\n\n"+
			"• ID: `"+demo.ID+"`\n"+
			"• Name: "+demo.Name+"\n"+
			"• Status: ⏹ stopped\n\n"+
			"Demo traders live only in this bot and do not place orders.",
			row(
				Btn{Text: "📋 Demo traders", Token: TokenListDemoTraders},
				Btn{Text: "🚀 Create another", Token: TokenCreateTrader},
			),
		)
	}

	bal, _ := draft.InitialBalance.Float64()
	created, err := f.backend.CreateTrader(ctx, userID, api.CreateTraderRequest{
		Name:                draft.Name,
		AIModelID:           draft.ModelID,
		ExchangeID:          draft.ExchangeID,
		InitialBalance:      bal,
		ScanIntervalMinutes: draft.ScanIntervalMinutes,
		IsCrossMargin:       draft.IsCrossMargin,
	})
	if err != nil {
		logger.FLOW.LogAttrs(ctx, slog.LevelWarn, "trader.create.failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return md("❌ *Creation failed*\n\nError: " + err.Error() + "\n\nStart over with /create.")
	}

	logger.FLOW.LogAttrs(ctx, slog.LevelInfo, "trader.created",
		slog.Int64("user_id", userID),
		slog.String("trader_id", created.TraderID),
	)
	return md("🎉 *Trader created!*\n\n"+
		"• ID: `"+created.TraderID+"`\n"+
		"• Name: "+draft.Name+"\n\n"+
		"Start it with /start_trader "+created.TraderID,
		row(
			Btn{Text: "📊 Status", Token: TokenRefreshStatus},
			Btn{Text: "📋 Traders", Token: TokenListTraders},
		),
	)
}

// Cancel aborts the flow at any step.
func (f *TraderFlow) Cancel(userID int64) Reply {
	f.store.Clear(userID)
	return md("❌ Trader creation cancelled.\n\nUse /create to start again.",
		row(
			Btn{Text: "📊 Status", Token: TokenRefreshStatus},
			Btn{Text: "📖 Help", Token: TokenHelp},
		),
	)
}

// draft fetches the live session's trader draft if the flow is at the
// expected step with its prerequisites intact.
func (f *TraderFlow) draft(userID int64, step session.Step) (*session.TraderDraft, bool) {
	sess, ok := f.store.Get(userID)
	if !ok || sess.Step != step || sess.Trader == nil {
		return nil, false
	}
	if step != session.StepTraderName && sess.Trader.Name == "" {
		return nil, false
	}
	d := *sess.Trader
	return &d, true
}

func (f *TraderFlow) expire(userID int64) Reply {
	f.store.Clear(userID)
	return expiredReply()
}
