package flows

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nofx-ai/tradebot/bot/api"
	"github.com/nofx-ai/tradebot/bot/session"
	"github.com/nofx-ai/tradebot/core/logger"
	"log/slog"
)

// Provider is a supported AI model provider.
type Provider struct {
	ID     string
	Name   string
	Detail string
}

// Providers is the fixed set of supported providers, in menu order.
var Providers = []Provider{
	{ID: "deepseek", Name: "DeepSeek", Detail: "strong analytical model"},
	{ID: "qwen", Name: "Qwen", Detail: "Alibaba model, beginner friendly"},
	{ID: "claude", Name: "Claude", Detail: "advanced reasoning model"},
	{ID: "gpt4", Name: "GPT-4", Detail: "general-purpose model"},
}

func providerByID(id string) (Provider, bool) {
	for _, p := range Providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// ModelFlow drives the AI-model creation wizard:
// enter_name -> select_provider -> enter_credential -> enter_description -> confirm.
type ModelFlow struct {
	store   *session.Store
	backend Backend
}

// NewModelFlow builds the wizard over the given store and backend.
func NewModelFlow(store *session.Store, backend Backend) *ModelFlow {
	return &ModelFlow{store: store, backend: backend}
}

func cancelModelRow() []Btn {
	return row(Btn{Text: "❌ Cancel", Token: TokenCancelCreateModel})
}

// Start begins a fresh flow, replacing any session in progress.
func (f *ModelFlow) Start(userID int64) Reply {
	f.store.Set(userID, session.Session{
		Step:  session.StepModelName,
		Model: &session.ModelDraft{},
	})
	return md("🤖 *Create AI Model*\n\n"+
		"An AI model is the decision engine behind a trader: it analyses the market and makes the trading calls.\n\n"+
		"📝 *Enter a name for the model:*\n\n"+
		"• 2-30 characters\n"+
		"• descriptive names work best, e.g. \"Deep Analyst\"",
		cancelModelRow(),
	)
}

// HandleName validates the name input and advances to provider selection.
func (f *ModelFlow) HandleName(userID int64, input string) Reply {
	draft, ok := f.draft(userID, session.StepModelName)
	if !ok {
		return f.expire(userID)
	}
	name := strings.TrimSpace(input)
	if utf8.RuneCountInString(name) < 2 {
		return text("❌ The model name needs at least 2 characters. Try again:")
	}
	if utf8.RuneCountInString(name) > 30 {
		return text("❌ The model name must not exceed 30 characters. Try again:")
	}

	draft.Name = name
	f.store.Update(userID, func(s *session.Session) {
		s.Model = draft
		s.Step = session.StepModelProvider
	})
	return f.providerMenu(name)
}

func (f *ModelFlow) providerMenu(modelName string) Reply {
	rows := make([][]Btn, 0, len(Providers)+1)
	for _, p := range Providers {
		rows = append(rows, row(Btn{
			Text:  fmt.Sprintf("%s - %s", p.Name, p.Detail),
			Token: TokenSelectProviderPrefix + p.ID,
		}))
	}
	rows = append(rows, cancelModelRow())
	return md(fmt.Sprintf("🤖 *Select a provider*\n\nPick a provider for \"%s\":", modelName), rows...)
}

// HandleProvider validates the chosen provider and advances to the credential step.
func (f *ModelFlow) HandleProvider(userID int64, providerID string) Reply {
	draft, ok := f.draft(userID, session.StepModelProvider)
	if !ok {
		return f.expire(userID)
	}
	p, supported := providerByID(providerID)
	if !supported {
		return text("❌ Unsupported provider. Pick one from the menu.")
	}

	draft.Provider = p.ID
	f.store.Update(userID, func(s *session.Session) {
		s.Model = draft
		s.Step = session.StepModelCredential
	})
	return md(fmt.Sprintf("🔑 *Enter your %s API key*\n\n"+
		"%s\n\n"+
		"🔒 The key is only used to call the %s API.\n\n"+
		"Send the key, or skip it to create a demo model.",
		p.Name, p.Detail, p.Name),
		row(Btn{Text: "Skip (demo mode)", Token: TokenSkipAPIKey}),
		cancelModelRow(),
	)
}

// HandleCredential validates a typed API key and advances to the description step.
func (f *ModelFlow) HandleCredential(userID int64, input string) Reply {
	draft, ok := f.draft(userID, session.StepModelCredential)
	if !ok {
		return f.expire(userID)
	}
	key := strings.TrimSpace(input)
	if key != "" && len(key) < 10 {
		return text("❌ That does not look like a valid API key. Try again:")
	}

	draft.APIKey = key
	f.store.Update(userID, func(s *session.Session) {
		s.Model = draft
		s.Step = session.StepModelDescription
	})
	return f.descriptionPrompt(draft.Name)
}

// SkipCredential records an empty key (demo model) and advances.
func (f *ModelFlow) SkipCredential(userID int64) Reply {
	draft, ok := f.draft(userID, session.StepModelCredential)
	if !ok {
		return f.expire(userID)
	}
	draft.APIKey = ""
	f.store.Update(userID, func(s *session.Session) {
		s.Model = draft
		s.Step = session.StepModelDescription
	})
	return f.descriptionPrompt(draft.Name)
}

func (f *ModelFlow) descriptionPrompt(modelName string) Reply {
	return md(fmt.Sprintf("📝 *Add a description (optional)*\n\n"+
		"Describe \"%s\": strategy style, risk appetite, preferred instruments.\n\n"+
		"💡 Up to 200 characters, or skip.", modelName),
		row(Btn{Text: "Skip description", Token: TokenSkipDescription}),
		cancelModelRow(),
	)
}

// HandleDescription validates the description and advances to confirmation.
func (f *ModelFlow) HandleDescription(userID int64, input string) Reply {
	draft, ok := f.draft(userID, session.StepModelDescription)
	if !ok {
		return f.expire(userID)
	}
	desc := strings.TrimSpace(input)
	if utf8.RuneCountInString(desc) > 200 {
		return text("❌ Description too long, keep it under 200 characters:")
	}

	draft.Description = desc
	f.store.Update(userID, func(s *session.Session) {
		s.Model = draft
		s.Step = session.StepModelConfirm
	})
	return f.confirmation(draft)
}

// SkipDescription records no description and advances to confirmation.
func (f *ModelFlow) SkipDescription(userID int64) Reply {
	draft, ok := f.draft(userID, session.StepModelDescription)
	if !ok {
		return f.expire(userID)
	}
	draft.Description = ""
	f.store.Update(userID, func(s *session.Session) {
		s.Model = draft
		s.Step = session.StepModelConfirm
	})
	return f.confirmation(draft)
}

func (f *ModelFlow) confirmation(draft *session.ModelDraft) Reply {
	providerName := draft.Provider
	if p, ok := providerByID(draft.Provider); ok {
		providerName = p.Name
	}
	keyLine := "not set ⚠️ (demo model)"
	if draft.APIKey != "" {
		keyLine = "set ✓"
	}
	descLine := draft.Description
	if descLine == "" {
		descLine = "none"
	}
	msg := "✅ *Confirm AI model*\n\n" +
		"• Name: " + draft.Name + "\n" +
		"• Provider: " + providerName + "\n" +
		"• API key: " + keyLine + "\n" +
		"• Description: " + descLine + "\n\n" +
		"Create this model?"
	return md(msg, row(
		Btn{Text: "✅ Create", Token: TokenConfirmCreateModel},
		Btn{Text: "❌ Cancel", Token: TokenCancelCreateModel},
	))
}

// Confirm submits the draft to the backend. The session is cleared whether the
// call succeeds or fails; a failed creation is restarted from scratch.
func (f *ModelFlow) Confirm(ctx context.Context, userID int64) Reply {
	draft, ok := f.draft(userID, session.StepModelConfirm)
	if !ok {
		return f.expire(userID)
	}
	defer f.store.Clear(userID)

	created, err := f.backend.CreateAIModel(ctx, userID, api.CreateAIModelRequest{
		Name:        draft.Name,
		Provider:    draft.Provider,
		APIKey:      draft.APIKey,
		Description: draft.Description,
		Enabled:     true,
	})
	if err != nil {
		logger.FLOW.LogAttrs(ctx, slog.LevelWarn, "model.create.failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return md("❌ *Creation failed*\n\nError: " + err.Error() + "\n\nStart over with /create_ai_model.")
	}

	logger.FLOW.LogAttrs(ctx, slog.LevelInfo, "model.created",
		slog.Int64("user_id", userID),
		slog.String("model_id", created.ID),
	)
	return md("🎉 *AI model created!*\n\n"+
		"• ID: `"+created.ID+"`\n"+
		"• Name: "+created.Name+"\n"+
		"• Provider: "+created.Provider+"\n\n"+
		"You can pick this model when creating a trader.",
		row(
			Btn{Text: "🚀 Create trader", Token: TokenCreateTrader},
			Btn{Text: "📊 Status", Token: TokenRefreshStatus},
		),
	)
}

// Cancel aborts the flow at any step.
func (f *ModelFlow) Cancel(userID int64) Reply {
	f.store.Clear(userID)
	return md("❌ AI model creation cancelled.\n\nUse /create_ai_model to start again.",
		row(
			Btn{Text: "📊 Status", Token: TokenRefreshStatus},
			Btn{Text: "📖 Help", Token: TokenHelp},
		),
	)
}

// draft fetches the live session's model draft if the flow is at the expected
// step with its prerequisites intact.
func (f *ModelFlow) draft(userID int64, step session.Step) (*session.ModelDraft, bool) {
	sess, ok := f.store.Get(userID)
	if !ok || sess.Step != step || sess.Model == nil {
		return nil, false
	}
	if step != session.StepModelName && sess.Model.Name == "" {
		return nil, false
	}
	d := *sess.Model
	return &d, true
}

func (f *ModelFlow) expire(userID int64) Reply {
	f.store.Clear(userID)
	return expiredReply()
}
