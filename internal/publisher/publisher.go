// Package publisher sends the latest completed assistant response to the
// chat channel, once per turn and deduplicated against the last publish.
package publisher

import (
	"log/slog"
	"strings"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/bridgestate"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/transcript"
)

// maxMessageLen keeps published responses under the transport's
// message-size limit.
const maxMessageLen = 4000

// Messenger is the transport surface the publisher needs.
type Messenger interface {
	SendMarkdown(text string) (int, error)
	DeleteMessage(messageID int) error
}

// Publisher relays one completed assistant turn.
type Publisher struct {
	store *bridgestate.Store
	msgr  Messenger
}

// New creates a publisher.
func New(store *bridgestate.Store, msgr Messenger) *Publisher {
	return &Publisher{store: store, msgr: msgr}
}

// Publish reads the transcript and sends the latest assistant text. It is
// a no-op when no relay is listening, when there is no text, or when the
// same response was already published.
func (p *Publisher) Publish(transcriptPath string) error {
	if !p.store.Running() {
		return nil
	}

	text := transcript.LatestAssistantText(transcriptPath)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	key := bridgestate.ResponseKey(text)
	if p.store.LastSentKey() == key {
		slog.Debug("response already published", "key_len", len(key))
		return nil
	}

	if messageID, ok := p.store.TakeThinking(); ok {
		if err := p.msgr.DeleteMessage(messageID); err != nil {
			slog.Debug("failed to delete thinking message", "message_id", messageID, "error", err)
		}
	}

	if runes := []rune(text); len(runes) > maxMessageLen {
		text = string(runes[:maxMessageLen]) + "\n\n... (truncated)"
	}

	if _, err := p.msgr.SendMarkdown("🤖 Claude:\n\n" + text); err != nil {
		return err
	}
	return p.store.SetLastSentKey(key)
}
