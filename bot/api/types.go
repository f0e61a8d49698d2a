package api

import "encoding/json"

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// AIModel is a configured AI model on the trading backend.
type AIModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

// Exchange is a connectable exchange account on the trading backend.
type Exchange struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ExchangeType string `json:"exchange_type"`
	Enabled      bool   `json:"enabled"`
	Testnet      bool   `json:"testnet,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Trader is a running or stopped trader instance.
type Trader struct {
	TraderID      string  `json:"trader_id"`
	TraderName    string  `json:"trader_name"`
	DisplayName   string  `json:"display_name,omitempty"`
	AIModel       string  `json:"ai_model"`
	ExchangeType  string  `json:"exchange_type,omitempty"`
	TotalEquity   float64 `json:"total_equity"`
	TotalPnL      float64 `json:"total_pnl"`
	TotalPnLPct   float64 `json:"total_pnl_pct"`
	PositionCount int     `json:"position_count"`
	MarginUsedPct float64 `json:"margin_used_pct"`
	IsRunning     bool    `json:"is_running"`
	CreatedAt     string  `json:"created_at"`
}

// CreateAIModelRequest is the create-model payload.
type CreateAIModelRequest struct {
	Name           string `json:"name"`
	Provider       string `json:"provider"`
	APIKey         string `json:"api_key,omitempty"`
	Description    string `json:"description,omitempty"`
	Enabled        bool   `json:"enabled"`
	TelegramUserID int64  `json:"telegram_user_id"`
}

// CreateTraderRequest is the create-trader payload.
type CreateTraderRequest struct {
	Name                string  `json:"name"`
	AIModelID           string  `json:"ai_model_id"`
	ExchangeID          string  `json:"exchange_id"`
	InitialBalance      float64 `json:"initial_balance"`
	ScanIntervalMinutes int     `json:"scan_interval_minutes"`
	IsCrossMargin       bool    `json:"is_cross_margin"`
	TelegramUserID      int64   `json:"telegram_user_id"`
}
