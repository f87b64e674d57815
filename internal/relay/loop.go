// Package relay runs the long-lived bridge loop: it polls the chat
// transport for button presses and messages, records decisions for the
// hook processes, and forwards text into the focused terminal.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/bridgestate"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/telegram"
)

const startupNotice = "🌉 Bridge started!\n\nCommands:\n/help - Show help\n/plan - Toggle plan mode\n/stop - Stop bridge"

const helpText = `🤖 <b>Claude Telegram Bridge</b>

<b>Commands:</b>
/help - Show this help
/plan - Toggle plan mode on/off
/stop - Stop the bridge

<b>How to use:</b>
• Send any text → types into Claude Code
• Tap Allow/Deny buttons → responds to permission requests

<b>Limitations:</b>
• Claude Code terminal must be focused
• Plan mode may desync if toggled via keyboard
• One chat controls whichever terminal is focused`

// Messenger is the transport surface the loop needs.
type Messenger interface {
	SendText(text string) (int, error)
	SendHTML(html string) (int, error)
	Updates(offset int) ([]telegram.Event, error)
	AckCallback(callbackID string) error
}

// Injector places text or key gestures into the focused terminal.
type Injector interface {
	Type(text string)
	TogglePlanMode()
}

// Loop is the single-threaded relay cycle. All remote I/O is synchronous
// inside one cooperative loop; there is no internal concurrency.
type Loop struct {
	cfg      *config.Config
	store    *bridgestate.Store
	msgr     Messenger
	injector Injector

	pollInterval time.Duration
	errorBackoff time.Duration
	offset       int
}

// New creates a relay loop.
func New(cfg *config.Config, store *bridgestate.Store, msgr Messenger, injector Injector) *Loop {
	return &Loop{
		cfg:          cfg,
		store:        store,
		msgr:         msgr,
		injector:     injector,
		pollInterval: 500 * time.Millisecond,
		errorBackoff: 5 * time.Second,
	}
}

// Run polls until /stop or context cancellation. The liveness marker is
// removed on every exit path.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.store.MarkRunning(); err != nil {
		return fmt.Errorf("failed to mark bridge running: %w", err)
	}

	_, _ = l.msgr.SendText(startupNotice)
	slog.Info("bridge started", "data_dir", l.store.Dir())

	for {
		select {
		case <-ctx.Done():
			l.store.ClearRunning()
			_, _ = l.msgr.SendText("🛑 Bridge stopped (interrupted)")
			slog.Info("bridge interrupted")
			return nil
		default:
		}

		events, err := l.msgr.Updates(l.offset)
		if err != nil {
			// Transient transport errors never kill the loop.
			slog.Warn("polling failed", "error", err)
			l.sleep(ctx, l.errorBackoff)
			continue
		}

		for _, ev := range events {
			l.offset = ev.UpdateID + 1
			if stop := l.handleEvent(ev); stop {
				l.store.ClearRunning()
				_, _ = l.msgr.SendText("🛑 Bridge stopped")
				slog.Info("bridge stopped")
				return nil
			}
		}

		l.sleep(ctx, l.pollInterval)
	}
}

// handleEvent processes one event; it reports whether the loop must stop.
// The cursor has already advanced, so nothing here is ever retried.
func (l *Loop) handleEvent(ev telegram.Event) bool {
	if ev.CallbackID != "" || ev.CallbackData != "" {
		if err := l.msgr.AckCallback(ev.CallbackID); err != nil {
			slog.Debug("callback ack failed", "error", err)
		}
		l.recordDecision(ev.CallbackData)
		return false
	}

	if ev.Text == "" {
		return false
	}
	if ev.SenderID != l.cfg.Telegram.ChatID {
		slog.Debug("ignoring unauthorized sender", "sender_id", ev.SenderID)
		return false
	}

	switch {
	case ev.Text == "/stop":
		return true
	case ev.Text == "/plan":
		l.togglePlanMode()
		return false
	case ev.Text == "/help":
		_, _ = l.msgr.SendHTML(helpText)
		return false
	case strings.HasPrefix(ev.Text, "/"):
		slog.Debug("ignoring unrecognized command", "text", ev.Text)
		return false
	}

	l.forward(ev.Text)
	return false
}

// recordDecision writes the pressed button's payload as a decision record.
// Malformed payloads are dropped silently; the cursor moved on regardless.
func (l *Loop) recordDecision(payload string) {
	requestID, decision, ok := strings.Cut(payload, ":")
	if !ok || requestID == "" {
		slog.Debug("dropping malformed callback payload", "payload", payload)
		return
	}
	if err := l.store.WriteDecision(requestID, decision); err != nil {
		slog.Warn("failed to write decision", "request_id", requestID, "error", err)
		return
	}
	slog.Info("decision recorded", "request_id", requestID, "decision", decision)
}

func (l *Loop) togglePlanMode() {
	on := !l.store.PlanMode()

	l.injector.TogglePlanMode()
	if err := l.store.SetPlanMode(on); err != nil {
		slog.Warn("failed to persist plan mode", "error", err)
	}

	notice := "⚡ Plan mode: OFF"
	if on {
		notice = "📋 Plan mode: ON"
	}
	_, _ = l.msgr.SendText(notice)
	slog.Info("plan mode toggled", "on", on)
}

// forward publishes a thinking notice, then types the text into the
// focused terminal.
func (l *Loop) forward(text string) {
	if messageID, err := l.msgr.SendText("💭 Thinking..."); err == nil && messageID != 0 {
		if err := l.store.SetThinking(messageID); err != nil {
			slog.Warn("failed to record thinking message", "error", err)
		}
	}
	slog.Info("forwarding message", "length", len(text))
	l.injector.Type(text)
}

func (l *Loop) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
