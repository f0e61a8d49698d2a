package telegram

import (
	"net/http"
	"time"

	"github.com/nofx-ai/tradebot/core/telegram/netutil"
)

const defaultClientTimeout = 30 * time.Second

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
func BuildHTTPClient() *http.Client {
	return netutil.NewClient(defaultClientTimeout)
}
