package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nofx-ai/tradebot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func nopHandler(c tele.Context) error { return nil }

func TestMatchCallbackPrefixOrder(t *testing.T) {
	reg := NewRegistry()

	var hit string
	mk := func(name string) PrefixHandler {
		return func(c tele.Context, payload string) error {
			hit = name + ":" + payload
			return nil
		}
	}

	// Longer demo prefixes registered first win over their generic counterparts.
	require.NoError(t, reg.RegisterCallbackPrefix("select_model_demo_", mk("demo")))
	require.NoError(t, reg.RegisterCallbackPrefix("select_model_", mk("live")))

	h, payload, ok := reg.MatchCallbackPrefix("select_model_demo_qwen")
	require.True(t, ok)
	require.NoError(t, h(nil, payload))
	assert.Equal(t, "demo:qwen", hit)

	h, payload, ok = reg.MatchCallbackPrefix("select_model_m1")
	require.True(t, ok)
	require.NoError(t, h(nil, payload))
	assert.Equal(t, "live:m1", hit)

	_, _, ok = reg.MatchCallbackPrefix("refresh_status")
	assert.False(t, ok)
}

func TestRegisterCallbackPrefixDuplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallbackPrefix("set_balance_", func(c tele.Context, payload string) error { return nil }))
	assert.Error(t, reg.RegisterCallbackPrefix("set_balance_", func(c tele.Context, payload string) error { return nil }))
}

func TestLookupCommandStripsArguments(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start_trader", commands.Command{Handler: nopHandler, Description: "start a trader"})

	key, _, ok := reg.LookupCommand("/start_trader abc123")
	require.True(t, ok)
	assert.Equal(t, "/start_trader", key)

	_, _, ok = reg.LookupCommand("/unknown")
	assert.False(t, ok)
}
