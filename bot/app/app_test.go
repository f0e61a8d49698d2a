package app

import (
	"testing"

	"github.com/nofx-ai/tradebot/bot/flows"
	"github.com/nofx-ai/tradebot/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *App {
	return New(&config.Config{
		Telegram: config.TelegramConfig{Token: "test-token", RunMode: config.RunModeLongpoll},
		Backend:  config.BackendConfig{BaseURL: "http://localhost:8080"},
	})
}

func TestCommandsRegistered(t *testing.T) {
	a := newTestApp()
	for _, cmd := range []string{
		"/start", "/help", "/create", "/create_ai_model", "/status",
		"/list", "/start_trader", "/stop_trader", "/cancel",
	} {
		_, _, ok := a.Registry().LookupCommand(cmd)
		assert.True(t, ok, "command %s must be registered", cmd)
	}
}

func TestCommandLookupWithArgument(t *testing.T) {
	a := newTestApp()
	key, _, ok := a.Registry().LookupCommand("/start_trader tr_42")
	require.True(t, ok)
	assert.Equal(t, "/start_trader", key)
}

func TestExactCallbacksRegistered(t *testing.T) {
	a := newTestApp()
	for _, token := range []string{
		flows.TokenSkipAPIKey, flows.TokenSkipDescription,
		flows.TokenConfirmCreateModel, flows.TokenCancelCreateModel,
		flows.TokenCustomBalance, flows.TokenConfirmCreateTrader, flows.TokenCancelCreateTrader,
		flows.TokenCreateTrader, flows.TokenCreateAIModel, flows.TokenCreateExchange,
		flows.TokenRefreshStatus, flows.TokenListTraders, flows.TokenListDemoTraders,
		flows.TokenHelp, flows.TokenBackToHome,
	} {
		_, ok := a.Registry().GetCallback(token)
		assert.True(t, ok, "callback %s must be registered", token)
	}
}

// Demo prefixes are registered before their generic counterparts, so a demo
// token must strip the longer prefix.
func TestDemoPrefixesWinOverGeneric(t *testing.T) {
	a := newTestApp()

	_, payload, ok := a.Registry().MatchCallbackPrefix("select_model_demo_qwen")
	require.True(t, ok)
	assert.Equal(t, "qwen", payload)

	_, payload, ok = a.Registry().MatchCallbackPrefix("select_model_M1")
	require.True(t, ok)
	assert.Equal(t, "M1", payload)

	_, payload, ok = a.Registry().MatchCallbackPrefix("select_exchange_demo_okx_testnet")
	require.True(t, ok)
	assert.Equal(t, "okx_testnet", payload)

	_, payload, ok = a.Registry().MatchCallbackPrefix("set_balance_500")
	require.True(t, ok)
	assert.Equal(t, "500", payload)
}

func TestInProgressReflectsStore(t *testing.T) {
	a := newTestApp()
	assert.False(t, a.InProgress(1))
	a.trader.Start(1)
	assert.True(t, a.InProgress(1))
}
