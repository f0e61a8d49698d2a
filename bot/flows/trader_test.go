package flows

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nofx-ai/tradebot/bot/api"
	"github.com/nofx-ai/tradebot/bot/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	liveModel    = api.AIModel{ID: "M1", Name: "Deep Analyst", Provider: "deepseek", Enabled: true}
	liveExchange = api.Exchange{ID: "E1", Name: "Hyperliquid", ExchangeType: "hyperliquid", Enabled: true, Testnet: true}
)

func TestTraderNameBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		advance bool
	}{
		{"two chars rejected", "AB", false},
		{"three chars accepted", "ABC", true},
		{"fifty chars accepted", strings.Repeat("x", 50), true},
		{"fifty-one chars rejected", strings.Repeat("x", 51), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow, backend, store := newTraderFixture()
			backend.models = []api.AIModel{liveModel}
			flow.Start(userID)

			flow.HandleName(context.Background(), userID, tc.input)

			sess, ok := store.Get(userID)
			require.True(t, ok)
			if tc.advance {
				assert.Equal(t, session.StepTraderModel, sess.Step)
			} else {
				assert.Equal(t, session.StepTraderName, sess.Step)
			}
		})
	}
}

func TestTraderDemoFallbackOnEmptyModelList(t *testing.T) {
	flow, _, _ := newTraderFixture()
	flow.Start(userID)

	reply := flow.HandleName(context.Background(), userID, "BTC Bot")

	got := tokens(reply)
	assert.Equal(t, []string{
		TokenSelectModelDemoPrefix + "deepseek",
		TokenSelectModelDemoPrefix + "qwen",
		TokenSelectModelDemoPrefix + "gpt",
		TokenCancelCreateTrader,
	}, got, "exactly the three demo models plus cancel")
	assert.Contains(t, reply.Text, "demo")
}

func TestTraderDemoFallbackOnModelQueryError(t *testing.T) {
	flow, backend, _ := newTraderFixture()
	backend.modelsErr = errBackendDown
	flow.Start(userID)

	reply := flow.HandleName(context.Background(), userID, "BTC Bot")
	assert.Len(t, tokens(reply), 4, "three demo models plus cancel")
}

func TestTraderSelectDemoModel(t *testing.T) {
	flow, _, store := newTraderFixture()
	flow.Start(userID)
	flow.HandleName(context.Background(), userID, "BTC Bot")

	reply := flow.HandleModel(context.Background(), userID, "demo_qwen")
	assert.NotContains(t, reply.Text, "Unknown")

	sess, _ := store.Get(userID)
	assert.Equal(t, session.StepTraderExchange, sess.Step)
	assert.Equal(t, "demo_qwen", sess.Trader.ModelID)
	assert.True(t, sess.Trader.ModelIsDemo)
}

func TestTraderRejectsUnknownModel(t *testing.T) {
	flow, backend, store := newTraderFixture()
	backend.models = []api.AIModel{liveModel}
	flow.Start(userID)
	flow.HandleName(context.Background(), userID, "BTC Bot")

	reply := flow.HandleModel(context.Background(), userID, "bogus")
	assert.Contains(t, reply.Text, "Unknown AI model")
	sess, _ := store.Get(userID)
	assert.Equal(t, session.StepTraderModel, sess.Step)
}

func TestTraderDisabledModelsAreInvisible(t *testing.T) {
	flow, backend, _ := newTraderFixture()
	backend.models = []api.AIModel{{ID: "M9", Name: "Off", Provider: "gpt4", Enabled: false}}
	flow.Start(userID)

	reply := flow.HandleName(context.Background(), userID, "BTC Bot")
	// All entries disabled -> demo fallback.
	assert.Contains(t, tokens(reply), TokenSelectModelDemoPrefix+"deepseek")

	reply = flow.HandleModel(context.Background(), userID, "M9")
	assert.Contains(t, reply.Text, "Unknown AI model")
}

func TestTraderBalanceBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		advance bool
	}{
		{"below floor rejected", "9", false},
		{"floor accepted", "10", true},
		{"cap accepted", "100000", true},
		{"above cap warns and stays", "100001", false},
		{"non-numeric rejected", "lots", false},
		{"negative rejected", "-50", false},
		{"zero rejected", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow, backend, store := newTraderFixture()
			backend.models = []api.AIModel{liveModel}
			backend.exchanges = []api.Exchange{liveExchange}
			flow.Start(userID)
			flow.HandleName(context.Background(), userID, "BTC Bot")
			flow.HandleModel(context.Background(), userID, "M1")
			flow.HandleExchange(context.Background(), userID, "E1")

			flow.HandleBalance(userID, tc.input)

			sess, ok := store.Get(userID)
			require.True(t, ok)
			if tc.advance {
				assert.Equal(t, session.StepTraderConfirm, sess.Step)
			} else {
				assert.Equal(t, session.StepTraderBalance, sess.Step, "must re-prompt, not advance")
			}
		})
	}
}

func TestTraderEndToEnd(t *testing.T) {
	flow, backend, store := newTraderFixture()
	backend.models = []api.AIModel{liveModel}
	backend.exchanges = []api.Exchange{liveExchange}

	flow.Start(userID)
	flow.HandleName(context.Background(), userID, "BTC Bot")
	flow.HandleModel(context.Background(), userID, "M1")
	flow.HandleExchange(context.Background(), userID, "E1")
	flow.HandleBalance(userID, "250")
	reply := flow.Confirm(context.Background(), userID)

	assert.Contains(t, reply.Text, "Trader created")

	require.NotNil(t, backend.createTraderReq)
	assert.Equal(t, "BTC Bot", backend.createTraderReq.Name)
	assert.Equal(t, "M1", backend.createTraderReq.AIModelID)
	assert.Equal(t, "E1", backend.createTraderReq.ExchangeID)
	assert.Equal(t, float64(250), backend.createTraderReq.InitialBalance)
	assert.Equal(t, 5, backend.createTraderReq.ScanIntervalMinutes)
	assert.True(t, backend.createTraderReq.IsCrossMargin)

	assert.False(t, store.IsInFlow(userID), "session cleared after reply")
}

func TestTraderDemoConfirmSkipsBackend(t *testing.T) {
	flow, backend, store := newTraderFixture()

	flow.Start(userID)
	flow.HandleName(context.Background(), userID, "BTC Bot")
	flow.HandleModel(context.Background(), userID, "demo_deepseek")
	flow.HandleExchange(context.Background(), userID, "demo_binance_testnet")
	flow.HandleBalance(userID, "500")
	reply := flow.Confirm(context.Background(), userID)

	assert.Contains(t, reply.Text, "Demo trader created")
	assert.Nil(t, backend.createTraderReq, "demo confirm never calls the backend")
	assert.False(t, store.IsInFlow(userID))

	demos := store.DemoTraders(userID)
	require.Len(t, demos, 1)
	assert.Equal(t, "BTC Bot", demos[0].Name)
	assert.Equal(t, "stopped", demos[0].Status)
	assert.True(t, strings.HasPrefix(demos[0].ID, "demo_"))
	assert.True(t, demos[0].InitialBalance.Equal(decimal.NewFromInt(500)))
}

func TestTraderMixedDemoSelectionSkipsBackend(t *testing.T) {
	t.Run("live model with demo exchange", func(t *testing.T) {
		flow, backend, store := newTraderFixture()
		backend.models = []api.AIModel{liveModel}

		flow.Start(userID)
		flow.HandleName(context.Background(), userID, "BTC Bot")
		flow.HandleModel(context.Background(), userID, "M1")
		flow.HandleExchange(context.Background(), userID, "demo_okx_testnet")
		flow.HandleBalance(userID, "500")
		reply := flow.Confirm(context.Background(), userID)

		assert.Contains(t, reply.Text, "Demo trader created")
		assert.Nil(t, backend.createTraderReq, "one demo leg is enough to skip the backend")
		assert.False(t, store.IsInFlow(userID))
		require.Len(t, store.DemoTraders(userID), 1)
	})

	t.Run("demo model with live exchange", func(t *testing.T) {
		flow, backend, store := newTraderFixture()
		backend.exchanges = []api.Exchange{liveExchange}

		flow.Start(userID)
		flow.HandleName(context.Background(), userID, "BTC Bot")
		flow.HandleModel(context.Background(), userID, "demo_qwen")
		flow.HandleExchange(context.Background(), userID, "E1")
		flow.HandleBalance(userID, "500")
		reply := flow.Confirm(context.Background(), userID)

		assert.Contains(t, reply.Text, "Demo trader created")
		assert.Nil(t, backend.createTraderReq, "one demo leg is enough to skip the backend")
		assert.False(t, store.IsInFlow(userID))
		require.Len(t, store.DemoTraders(userID), 1)
	})
}

func TestTraderBackendFailureVerbatim(t *testing.T) {
	flow, backend, store := newTraderFixture()
	backend.models = []api.AIModel{liveModel}
	backend.exchanges = []api.Exchange{liveExchange}
	backend.createTraderErr = errBackendDown

	flow.Start(userID)
	flow.HandleName(context.Background(), userID, "BTC Bot")
	flow.HandleModel(context.Background(), userID, "M1")
	flow.HandleExchange(context.Background(), userID, "E1")
	flow.HandleBalance(userID, "250")
	reply := flow.Confirm(context.Background(), userID)

	assert.Contains(t, reply.Text, errBackendDown.Error())
	assert.False(t, store.IsInFlow(userID))
}

func TestTraderCancelClearsAtAnyStep(t *testing.T) {
	flow, backend, store := newTraderFixture()
	backend.models = []api.AIModel{liveModel}

	flow.Start(userID)
	flow.HandleName(context.Background(), userID, "BTC Bot")
	flow.HandleModel(context.Background(), userID, "M1")

	reply := flow.Cancel(userID)
	assert.Contains(t, reply.Text, "cancelled")
	assert.False(t, store.IsInFlow(userID))
}

func TestTraderExpiredPrerequisites(t *testing.T) {
	flow, _, store := newTraderFixture()

	reply := flow.HandleBalance(userID, "250")
	assert.Contains(t, reply.Text, "expired")
	assert.False(t, store.IsInFlow(userID))
}
