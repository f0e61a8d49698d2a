package flows

import (
	"context"
	"strings"
	"testing"

	"github.com/nofx-ai/tradebot/bot/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = int64(42)

func TestModelNameBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		advance bool
	}{
		{"one char rejected", "A", false},
		{"two chars accepted", "AB", true},
		{"thirty chars accepted", strings.Repeat("x", 30), true},
		{"thirty-one chars rejected", strings.Repeat("x", 31), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow, _, store := newModelFixture()
			flow.Start(userID)

			flow.HandleName(userID, tc.input)

			sess, ok := store.Get(userID)
			require.True(t, ok)
			if tc.advance {
				assert.Equal(t, session.StepModelProvider, sess.Step)
				assert.Equal(t, strings.TrimSpace(tc.input), sess.Model.Name)
			} else {
				assert.Equal(t, session.StepModelName, sess.Step, "rejected input must not advance")
			}
		})
	}
}

func TestModelProviderValidation(t *testing.T) {
	flow, _, store := newModelFixture()
	flow.Start(userID)
	flow.HandleName(userID, "Deep Analyst")

	reply := flow.HandleProvider(userID, "nonsense")
	assert.Contains(t, reply.Text, "Unsupported provider")
	sess, _ := store.Get(userID)
	assert.Equal(t, session.StepModelProvider, sess.Step)

	flow.HandleProvider(userID, "deepseek")
	sess, _ = store.Get(userID)
	assert.Equal(t, session.StepModelCredential, sess.Step)
	assert.Equal(t, "deepseek", sess.Model.Provider)
}

func TestModelProviderMenuListsAllProviders(t *testing.T) {
	flow, _, _ := newModelFixture()
	flow.Start(userID)
	reply := flow.HandleName(userID, "Deep Analyst")

	got := tokens(reply)
	for _, p := range Providers {
		assert.Contains(t, got, TokenSelectProviderPrefix+p.ID)
	}
	assert.Contains(t, got, TokenCancelCreateModel)
}

func TestModelCredentialRules(t *testing.T) {
	flow, _, store := newModelFixture()
	flow.Start(userID)
	flow.HandleName(userID, "Deep Analyst")
	flow.HandleProvider(userID, "claude")

	reply := flow.HandleCredential(userID, "short")
	assert.Contains(t, reply.Text, "API key")
	sess, _ := store.Get(userID)
	assert.Equal(t, session.StepModelCredential, sess.Step)

	flow.HandleCredential(userID, "sk-0123456789abcdef")
	sess, _ = store.Get(userID)
	assert.Equal(t, session.StepModelDescription, sess.Step)
	assert.Equal(t, "sk-0123456789abcdef", sess.Model.APIKey)
}

func TestModelSkipCredentialMeansDemo(t *testing.T) {
	flow, _, store := newModelFixture()
	flow.Start(userID)
	flow.HandleName(userID, "Deep Analyst")
	flow.HandleProvider(userID, "qwen")

	flow.SkipCredential(userID)
	sess, _ := store.Get(userID)
	assert.Equal(t, session.StepModelDescription, sess.Step)
	assert.Empty(t, sess.Model.APIKey)
}

func TestModelDescriptionLimit(t *testing.T) {
	flow, _, store := newModelFixture()
	flow.Start(userID)
	flow.HandleName(userID, "Deep Analyst")
	flow.HandleProvider(userID, "gpt4")
	flow.SkipCredential(userID)

	reply := flow.HandleDescription(userID, strings.Repeat("x", 201))
	assert.Contains(t, reply.Text, "too long")
	sess, _ := store.Get(userID)
	assert.Equal(t, session.StepModelDescription, sess.Step)

	flow.HandleDescription(userID, strings.Repeat("x", 200))
	sess, _ = store.Get(userID)
	assert.Equal(t, session.StepModelConfirm, sess.Step)
}

func TestModelConfirmCallsBackendAndClears(t *testing.T) {
	flow, backend, store := newModelFixture()
	flow.Start(userID)
	flow.HandleName(userID, "Deep Analyst")
	flow.HandleProvider(userID, "deepseek")
	flow.HandleCredential(userID, "sk-0123456789abcdef")
	flow.HandleDescription(userID, "momentum scalper")

	reply := flow.Confirm(context.Background(), userID)
	assert.Contains(t, reply.Text, "created")

	require.NotNil(t, backend.createModelReq)
	assert.Equal(t, "Deep Analyst", backend.createModelReq.Name)
	assert.Equal(t, "deepseek", backend.createModelReq.Provider)
	assert.Equal(t, "sk-0123456789abcdef", backend.createModelReq.APIKey)
	assert.Equal(t, "momentum scalper", backend.createModelReq.Description)
	assert.True(t, backend.createModelReq.Enabled)

	assert.False(t, store.IsInFlow(userID), "session cleared after confirm")
}

func TestModelConfirmBackendFailure(t *testing.T) {
	flow, backend, store := newModelFixture()
	backend.createModelErr = errBackendDown

	flow.Start(userID)
	flow.HandleName(userID, "Deep Analyst")
	flow.HandleProvider(userID, "deepseek")
	flow.SkipCredential(userID)
	flow.SkipDescription(userID)

	reply := flow.Confirm(context.Background(), userID)
	assert.Contains(t, reply.Text, errBackendDown.Error(), "backend error surfaced verbatim")
	assert.False(t, store.IsInFlow(userID), "session cleared on failure too")
}

func TestModelExpiredPrerequisites(t *testing.T) {
	flow, _, store := newModelFixture()

	reply := flow.HandleProvider(userID, "deepseek")
	assert.Contains(t, reply.Text, "expired")
	assert.False(t, store.IsInFlow(userID))

	// Wrong step: provider selection while waiting for a name.
	flow.Start(userID)
	reply = flow.HandleCredential(userID, "sk-0123456789abcdef")
	assert.Contains(t, reply.Text, "expired")
	assert.False(t, store.IsInFlow(userID))
}

func TestModelCancelClears(t *testing.T) {
	flow, _, store := newModelFixture()
	flow.Start(userID)
	flow.HandleName(userID, "Deep Analyst")

	reply := flow.Cancel(userID)
	assert.Contains(t, reply.Text, "cancelled")
	assert.False(t, store.IsInFlow(userID))
}
