// Package api implements the signed REST client for the trading backend.
//
// Every request carries an HMAC-SHA256 signature over "<timestamp><body>" so
// the backend can verify the bot without per-user credentials. Responses use a
// {success, data, error} envelope; list payloads arrive either as a bare array
// or wrapped in an object ({"models": [...]}) and are normalized to slices,
// with malformed payloads degrading to empty lists.
package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nofx-ai/tradebot/core/config"
	"github.com/nofx-ai/tradebot/core/logger"
	"github.com/nofx-ai/tradebot/core/telegram/netutil"
	"log/slog"
)

// Client talks to the trading backend.
type Client struct {
	baseURL  string
	botToken string
	secret   string
	http     *http.Client
	now      func() time.Time
}

// NewClient builds a Client from backend configuration, reusing the pooled
// retrying transport shared with the Telegram side.
func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		botToken: cfg.BotToken,
		secret:   cfg.APISecret,
		http:     netutil.NewClient(cfg.Timeout()),
		now:      time.Now,
	}
}

// AIModels lists the AI models available to the user.
func (c *Client) AIModels(ctx context.Context, userID int64) ([]AIModel, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/bot/ai-models", userID, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[AIModel](raw, "models"), nil
}

// Exchanges lists the exchange accounts available to the user.
func (c *Client) Exchanges(ctx context.Context, userID int64) ([]Exchange, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/bot/exchanges", userID, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Exchange](raw, "exchanges"), nil
}

// Traders lists the user's traders.
func (c *Client) Traders(ctx context.Context, userID int64) ([]Trader, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/bot/traders", userID, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Trader](raw, "traders"), nil
}

// CreateAIModel registers a new AI model for the user.
func (c *Client) CreateAIModel(ctx context.Context, userID int64, req CreateAIModelRequest) (*AIModel, error) {
	req.TelegramUserID = userID
	raw, err := c.do(ctx, http.MethodPost, "/api/bot/ai-models", userID, req)
	if err != nil {
		return nil, err
	}
	var m AIModel
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &m)
	}
	return &m, nil
}

// CreateTrader creates a new trader for the user.
func (c *Client) CreateTrader(ctx context.Context, userID int64, req CreateTraderRequest) (*Trader, error) {
	req.TelegramUserID = userID
	raw, err := c.do(ctx, http.MethodPost, "/api/bot/traders", userID, req)
	if err != nil {
		return nil, err
	}
	var t Trader
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &t)
	}
	return &t, nil
}

// StartTrader asks the backend to start a trader.
func (c *Client) StartTrader(ctx context.Context, userID int64, traderID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/bot/traders/"+traderID+"/start", userID, nil)
	return err
}

// StopTrader asks the backend to stop a trader.
func (c *Client) StopTrader(ctx context.Context, userID int64, traderID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/bot/traders/"+traderID+"/stop", userID, nil)
	return err
}

// Health probes the backend health endpoint and returns the reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/bot/health", 0, nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		Status string `json:"status"`
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	if payload.Status == "" {
		payload.Status = "ok"
	}
	return payload.Status, nil
}

func (c *Client) sign(timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, userID int64, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode request: %w", err)
		}
	}

	timestamp := c.now().Unix()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Bot-Token", c.botToken)
	req.Header.Set("X-Bot-Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("X-Bot-Signature", c.sign(timestamp, payload))
	if userID > 0 {
		req.Header.Set("X-Telegram-User-ID", strconv.FormatInt(userID, 10))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}

	logger.API.LogAttrs(ctx, slog.LevelDebug, "api.request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("api: decode response: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return env.Data, nil
}

// decodeList normalizes a list payload: a bare JSON array or an object with
// the given key both decode to a slice; anything else becomes empty.
func decodeList[T any](raw json.RawMessage, key string) []T {
	if len(raw) == 0 {
		return nil
	}
	var direct []T
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}
	inner, ok := wrapped[key]
	if !ok {
		return nil
	}
	var list []T
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil
	}
	return list
}
