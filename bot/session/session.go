package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// Step identifies the wizard step a session is waiting on.
type Step string

const (
	// AI-model creation flow.
	StepModelName        Step = "model:enter_name"
	StepModelProvider    Step = "model:select_provider"
	StepModelCredential  Step = "model:enter_credential"
	StepModelDescription Step = "model:enter_description"
	StepModelConfirm     Step = "model:confirm"

	// Trader creation flow.
	StepTraderName     Step = "trader:enter_name"
	StepTraderModel    Step = "trader:select_ai_model"
	StepTraderExchange Step = "trader:select_exchange"
	StepTraderBalance  Step = "trader:enter_initial_balance"
	StepTraderConfirm  Step = "trader:confirm"
)

// ModelDraft accumulates the AI-model creation flow's answers.
type ModelDraft struct {
	Name        string
	Provider    string
	APIKey      string
	Description string
}

// TraderDraft accumulates the trader creation flow's answers.
type TraderDraft struct {
	Name                string
	ModelID             string
	ModelName           string
	ModelIsDemo         bool
	ExchangeID          string
	ExchangeName        string
	ExchangeIsDemo      bool
	InitialBalance      decimal.Decimal
	ScanIntervalMinutes int
	IsCrossMargin       bool
}

// Session is a user's in-flight wizard state. At most one session exists per
// user; starting a new flow replaces any previous one.
type Session struct {
	UserID    int64
	Step      Step
	Model     *ModelDraft
	Trader    *TraderDraft
	CreatedAt time.Time
}

// DemoTrader is a locally synthesized trader, created when the trader wizard
// is confirmed with demo catalog entries. It never reaches the backend.
type DemoTrader struct {
	ID             string
	Name           string
	ModelName      string
	ExchangeName   string
	InitialBalance decimal.Decimal
	Status         string
	CreatedAt      time.Time
}
