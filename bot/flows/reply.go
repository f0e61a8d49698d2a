// Package flows implements the guided creation wizards: the AI-model flow and
// the trader flow. Engines validate input, advance the per-user session and
// return renderable Reply values; they never touch the Telegram transport, so
// the state machines are testable without a bot instance.
package flows

// Btn is an inline button: visible label plus the callback token it emits.
type Btn struct {
	Text  string
	Token string
}

// Reply is a message for the user, optionally with an inline keyboard.
type Reply struct {
	Text     string
	Markdown bool
	Buttons  [][]Btn
}

func text(msg string) Reply {
	return Reply{Text: msg}
}

func md(msg string, rows ...[]Btn) Reply {
	return Reply{Text: msg, Markdown: true, Buttons: rows}
}

func row(btns ...Btn) []Btn { return btns }

func expiredReply() Reply {
	return text("❌ Session expired, please start over.")
}
