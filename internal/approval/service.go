// Package approval implements the permission hook: it publishes a tool
// invocation to the chat channel and blocks until the user's button press
// lands in the shared state store, or the timeout elapses.
package approval

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/bridgestate"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/transcript"
)

const (
	defaultPollInterval = 500 * time.Millisecond

	// commentaryPreviewLen bounds the assistant commentary relayed ahead
	// of the prompt.
	commentaryPreviewLen = 2000
)

// Messenger is the transport surface the service needs.
type Messenger interface {
	SendText(text string) (int, error)
	SendHTML(html string) (int, error)
	SendApprovalPrompt(html, allowData, denyData string) (int, error)
	DeleteMessage(messageID int) error
}

// Service runs the decision flow for one hook invocation.
type Service struct {
	cfg   *config.Config
	store *bridgestate.Store
	msgr  Messenger

	timeout      time.Duration
	pollInterval time.Duration
	newID        func() string
}

// NewService creates a service. msgr may be nil when the transport could
// not be reached; the flow then degrades to static rules plus a safe deny.
func NewService(cfg *config.Config, store *bridgestate.Store, msgr Messenger) *Service {
	return &Service{
		cfg:          cfg,
		store:        store,
		msgr:         msgr,
		timeout:      time.Duration(cfg.Approvals.TimeoutSeconds) * time.Second,
		pollInterval: defaultPollInterval,
		newID:        newRequestID,
	}
}

func newRequestID() string {
	return uuid.NewString()[:8]
}

// Decide produces the final decision for a tool invocation. The boolean
// reports whether a decision was produced at all: with no bridge running
// and no static rule the hook stays silent so the CLI falls back to its
// own interactive prompt.
func (s *Service) Decide(input HookInput) (Decision, bool) {
	toolName := strings.TrimSpace(input.ToolName)
	if toolName == "" {
		toolName = "Unknown"
	}

	// No relay listening: never wait for a decision that cannot arrive.
	if !s.store.Running() {
		if decision, ok := s.staticDecision(toolName); ok {
			return decision, true
		}
		return Decision{}, false
	}

	s.clearThinking()
	s.relayCommentary(input.TranscriptPath)

	if decision, ok := s.staticDecision(toolName); ok {
		return decision, true
	}

	return s.promptAndWait(toolName, input.ToolInput), true
}

func (s *Service) staticDecision(toolName string) (Decision, bool) {
	for _, name := range s.cfg.Approvals.AutoApprove {
		if name == toolName {
			return Decision{Behavior: BehaviorAllow}, true
		}
	}
	for _, name := range s.cfg.Approvals.AutoDeny {
		if name == toolName {
			return Decision{Behavior: BehaviorDeny, Message: toolName + " is blocked"}, true
		}
	}
	return Decision{}, false
}

func (s *Service) promptAndWait(toolName string, toolInput map[string]any) Decision {
	requestID := s.newID()
	prompt := fmt.Sprintf("🔔 <b>Permission Request</b>\n\n<b>Tool:</b> %s\n\n%s",
		escapeHTML(toolName), FormatToolDetails(toolName, toolInput))

	// A prompt the user never saw must never silently allow.
	if s.msgr == nil {
		return Decision{Behavior: BehaviorDeny, Message: "Failed to send Telegram notification"}
	}
	messageID, err := s.msgr.SendApprovalPrompt(prompt, requestID+":"+BehaviorAllow, requestID+":"+BehaviorDeny)
	if err != nil || messageID == 0 {
		slog.Warn("failed to send approval prompt", "tool", toolName, "error", err)
		return Decision{Behavior: BehaviorDeny, Message: "Failed to send Telegram notification"}
	}

	decision, ok := s.waitForDecision(requestID)
	switch {
	case ok && decision == BehaviorAllow:
		_, _ = s.msgr.SendText("✅ Allowed")
		return Decision{Behavior: BehaviorAllow}
	case ok:
		// Anything but an exact allow is a refusal.
		_, _ = s.msgr.SendText("❌ Denied by user")
		return Decision{Behavior: BehaviorDeny, Message: "Denied by user"}
	default:
		reason := fmt.Sprintf("No response within %ds", s.cfg.Approvals.TimeoutSeconds)
		_, _ = s.msgr.SendText("❌ " + reason)
		return Decision{Behavior: BehaviorDeny, Message: reason}
	}
}

// waitForDecision polls the callback file at a fixed interval. Human-scale
// latency; no backoff on purpose.
func (s *Service) waitForDecision(requestID string) (string, bool) {
	deadline := time.Now().Add(s.timeout)
	for time.Now().Before(deadline) {
		if decision, ok := s.store.TakeDecision(requestID); ok {
			return decision, true
		}
		time.Sleep(s.pollInterval)
	}
	return "", false
}

// relayCommentary publishes any new assistant text so narration lands in
// the channel ahead of the prompt that follows it.
func (s *Service) relayCommentary(transcriptPath string) {
	if s.msgr == nil {
		return
	}
	text := transcript.LatestAssistantText(transcriptPath)
	if strings.TrimSpace(text) == "" {
		return
	}

	key := bridgestate.ResponseKey(text)
	if s.store.LastSentKey() == key {
		return
	}

	preview := text
	if runes := []rune(preview); len(runes) > commentaryPreviewLen {
		preview = string(runes[:commentaryPreviewLen])
	}
	if _, err := s.msgr.SendHTML("🤖 Claude:\n\n" + escapeHTML(preview)); err != nil {
		slog.Debug("failed to relay commentary", "error", err)
		return
	}
	if err := s.store.SetLastSentKey(key); err != nil {
		slog.Debug("failed to record last-sent key", "error", err)
	}
}

// clearThinking consumes the pending thinking notice and best-effort
// deletes the remote message before a new prompt appears.
func (s *Service) clearThinking() {
	messageID, ok := s.store.TakeThinking()
	if !ok || s.msgr == nil {
		return
	}
	if err := s.msgr.DeleteMessage(messageID); err != nil {
		slog.Debug("failed to delete thinking message", "message_id", messageID, "error", err)
	}
}
