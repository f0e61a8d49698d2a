package flows

import (
	"context"
	"errors"

	"github.com/nofx-ai/tradebot/bot/api"
	"github.com/nofx-ai/tradebot/bot/session"
)

// fakeBackend records create calls and serves canned catalogs.
type fakeBackend struct {
	models       []api.AIModel
	modelsErr    error
	exchanges    []api.Exchange
	exchangesErr error

	createModelReq  *api.CreateAIModelRequest
	createModelErr  error
	createTraderReq *api.CreateTraderRequest
	createTraderErr error
}

func (f *fakeBackend) AIModels(ctx context.Context, userID int64) ([]api.AIModel, error) {
	return f.models, f.modelsErr
}

func (f *fakeBackend) Exchanges(ctx context.Context, userID int64) ([]api.Exchange, error) {
	return f.exchanges, f.exchangesErr
}

func (f *fakeBackend) CreateAIModel(ctx context.Context, userID int64, req api.CreateAIModelRequest) (*api.AIModel, error) {
	req.TelegramUserID = userID
	f.createModelReq = &req
	if f.createModelErr != nil {
		return nil, f.createModelErr
	}
	return &api.AIModel{ID: "model_1", Name: req.Name, Provider: req.Provider, Enabled: true}, nil
}

func (f *fakeBackend) CreateTrader(ctx context.Context, userID int64, req api.CreateTraderRequest) (*api.Trader, error) {
	req.TelegramUserID = userID
	f.createTraderReq = &req
	if f.createTraderErr != nil {
		return nil, f.createTraderErr
	}
	return &api.Trader{TraderID: "trader_1", TraderName: req.Name}, nil
}

var errBackendDown = errors.New("backend unavailable")

func newModelFixture() (*ModelFlow, *fakeBackend, *session.Store) {
	backend := &fakeBackend{}
	store := session.NewStore()
	return NewModelFlow(store, backend), backend, store
}

func newTraderFixture() (*TraderFlow, *fakeBackend, *session.Store) {
	backend := &fakeBackend{}
	store := session.NewStore()
	return NewTraderFlow(store, backend, NewFallbackCatalog(backend)), backend, store
}

// tokens flattens a reply's keyboard into its callback tokens.
func tokens(r Reply) []string {
	var out []string
	for _, row := range r.Buttons {
		for _, b := range row {
			out = append(out, b.Token)
		}
	}
	return out
}
