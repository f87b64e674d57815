// Package telegram wraps the bot API behind the small surface the bridge
// needs: sends with HTML fallback, approval prompts with inline actions,
// message deletion, and cursor-based update polling.
package telegram

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/TayMcQuaya/Claude-Telegram-Bridge/internal/config"
)

var (
	boldStarRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__(.+?)__`)
	codeInlineRe = regexp.MustCompile("`([^`]+)`")
)

// Event is one update from the chat transport, flattened to the fields
// the relay loop acts on. Exactly one of CallbackData/Text carries the
// payload; an Event with neither still advances the cursor.
type Event struct {
	UpdateID     int
	CallbackID   string
	CallbackData string
	SenderID     int64
	Text         string
}

// Client is a Telegram transport bound to a single chat.
type Client struct {
	bot         *tgbotapi.BotAPI
	chatID      int64
	pollTimeout int
}

// New connects to the bot API with the configured token.
func New(cfg *config.TelegramConfig) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram init failed: %w", err)
	}

	slog.Debug("telegram bot connected", "username", bot.Self.UserName)

	return &Client{
		bot:         bot,
		chatID:      cfg.ChatID,
		pollTimeout: 5,
	}, nil
}

// SendText sends a plain text message and returns its message id.
func (c *Client) SendText(text string) (int, error) {
	sent, err := c.bot.Send(tgbotapi.NewMessage(c.chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendHTML sends pre-rendered HTML, falling back to plain text when the
// markup is rejected.
func (c *Client) SendHTML(html string) (int, error) {
	msg := tgbotapi.NewMessage(c.chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := c.bot.Send(msg)
	if err != nil {
		msg.ParseMode = ""
		sent, err = c.bot.Send(msg)
	}
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendMarkdown converts lightweight markdown to HTML and sends it.
func (c *Client) SendMarkdown(text string) (int, error) {
	return c.SendHTML(markdownToHTML(text))
}

// SendApprovalPrompt sends an HTML message with Allow/Deny inline actions
// carrying the given callback payloads.
func (c *Client) SendApprovalPrompt(html, allowData, denyData string) (int, error) {
	msg := tgbotapi.NewMessage(c.chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Allow", allowData),
			tgbotapi.NewInlineKeyboardButtonData("❌ Deny", denyData),
		),
	)

	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// DeleteMessage removes a previously sent message.
func (c *Client) DeleteMessage(messageID int) error {
	_, err := c.bot.Request(tgbotapi.NewDeleteMessage(c.chatID, messageID))
	return err
}

// AckCallback acknowledges a button press so the client stops showing a
// spinner. Best effort; correctness does not depend on it.
func (c *Client) AckCallback(callbackID string) error {
	_, err := c.bot.Request(tgbotapi.NewCallback(callbackID, "Received"))
	return err
}

// Updates long-polls for updates at the given cursor and flattens them.
func (c *Client) Updates(offset int) ([]Event, error) {
	u := tgbotapi.NewUpdate(offset)
	u.Timeout = c.pollTimeout

	updates, err := c.bot.GetUpdates(u)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(updates))
	for _, update := range updates {
		ev := Event{UpdateID: update.UpdateID}
		switch {
		case update.CallbackQuery != nil:
			ev.CallbackID = update.CallbackQuery.ID
			ev.CallbackData = update.CallbackQuery.Data
			if update.CallbackQuery.From != nil {
				ev.SenderID = update.CallbackQuery.From.ID
			}
		case update.Message != nil:
			if update.Message.From != nil {
				ev.SenderID = update.Message.From.ID
			}
			ev.Text = update.Message.Text
			if ev.Text == "" {
				ev.Text = update.Message.Caption
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

func markdownToHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = boldStarRe.ReplaceAllString(text, "<b>$1</b>")
	text = boldUnderRe.ReplaceAllString(text, "<b>$1</b>")
	text = codeInlineRe.ReplaceAllString(text, "<code>$1</code>")
	return text
}
