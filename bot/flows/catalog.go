package flows

import (
	"context"

	"github.com/nofx-ai/tradebot/bot/api"
)

// Backend is the subset of the trading API the flows call.
type Backend interface {
	AIModels(ctx context.Context, userID int64) ([]api.AIModel, error)
	Exchanges(ctx context.Context, userID int64) ([]api.Exchange, error)
	CreateAIModel(ctx context.Context, userID int64, req api.CreateAIModelRequest) (*api.AIModel, error)
	CreateTrader(ctx context.Context, userID int64, req api.CreateTraderRequest) (*api.Trader, error)
}

// Entry is one selectable catalog item (AI model or exchange).
type Entry struct {
	ID     string
	Name   string
	Detail string
	Demo   bool
}

// Catalog supplies the selectable models and exchanges for the trader wizard.
type Catalog interface {
	Models(ctx context.Context, userID int64) ([]Entry, error)
	Exchanges(ctx context.Context, userID int64) ([]Entry, error)
}

type liveCatalog struct {
	backend Backend
}

// NewLiveCatalog returns a Catalog backed by the trading API. Disabled
// entries are filtered out.
func NewLiveCatalog(backend Backend) Catalog {
	return &liveCatalog{backend: backend}
}

func (l *liveCatalog) Models(ctx context.Context, userID int64) ([]Entry, error) {
	models, err := l.backend.AIModels(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, m := range models {
		if !m.Enabled {
			continue
		}
		out = append(out, Entry{ID: m.ID, Name: m.Name, Detail: m.Provider})
	}
	return out, nil
}

func (l *liveCatalog) Exchanges(ctx context.Context, userID int64) ([]Entry, error) {
	exchanges, err := l.backend.Exchanges(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range exchanges {
		if !e.Enabled {
			continue
		}
		detail := e.ExchangeType
		if e.Testnet {
			detail += " (testnet)"
		}
		out = append(out, Entry{ID: e.ID, Name: e.Name, Detail: detail})
	}
	return out, nil
}

type demoCatalog struct{}

// NewDemoCatalog returns the fixed demo catalog used when the live one has
// nothing to offer. It never fails and never returns an empty list.
func NewDemoCatalog() Catalog {
	return demoCatalog{}
}

func (demoCatalog) Models(context.Context, int64) ([]Entry, error) {
	return []Entry{
		{ID: "demo_deepseek", Name: "DeepSeek Trader", Detail: "DeepSeek", Demo: true},
		{ID: "demo_qwen", Name: "Qwen Master", Detail: "Alibaba", Demo: true},
		{ID: "demo_gpt", Name: "GPT Trader Pro", Detail: "OpenAI", Demo: true},
	}, nil
}

func (demoCatalog) Exchanges(context.Context, int64) ([]Entry, error) {
	return []Entry{
		{ID: "demo_hyperliquid_testnet", Name: "Hyperliquid", Detail: "testnet", Demo: true},
		{ID: "demo_binance_testnet", Name: "Binance Futures", Detail: "testnet", Demo: true},
		{ID: "demo_okx_testnet", Name: "OKX", Detail: "testnet", Demo: true},
	}, nil
}

// FallbackCatalog serves the live catalog and switches to the demo catalog
// when a live query fails or comes back empty, keeping the wizard completable
// end-to-end on an unprovisioned backend.
type FallbackCatalog struct {
	Live Catalog
	Demo Catalog
}

// NewFallbackCatalog wires the standard live-then-demo pair.
func NewFallbackCatalog(backend Backend) *FallbackCatalog {
	return &FallbackCatalog{Live: NewLiveCatalog(backend), Demo: NewDemoCatalog()}
}

// Models returns the selectable models. The boolean reports whether the demo
// catalog was substituted.
func (f *FallbackCatalog) Models(ctx context.Context, userID int64) ([]Entry, bool) {
	if f.Live != nil {
		entries, err := f.Live.Models(ctx, userID)
		if err == nil && len(entries) > 0 {
			return entries, false
		}
	}
	entries, _ := f.Demo.Models(ctx, userID)
	return entries, true
}

// Exchanges mirrors Models for the exchange step.
func (f *FallbackCatalog) Exchanges(ctx context.Context, userID int64) ([]Entry, bool) {
	if f.Live != nil {
		entries, err := f.Live.Exchanges(ctx, userID)
		if err == nil && len(entries) > 0 {
			return entries, false
		}
	}
	entries, _ := f.Demo.Exchanges(ctx, userID)
	return entries, true
}

func findEntry(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
