// Package telegram connects the command dispatcher to the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/bot"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher handles one incoming chat message
type Dispatcher interface {
	Dispatch(ctx context.Context, req bot.Request) error
}

// Bot sends replies through the Telegram Bot API and receives updates over a webhook
type Bot struct {
	api    *tgbotapi.BotAPI
	logger logger.Logger
}

// NewBot authenticates token against the public Telegram Bot API
func NewBot(token string, log logger.Logger) (*Bot, error) {
	return NewBotWithEndpoint(token, tgbotapi.APIEndpoint, http.DefaultClient, log)
}

// NewBotWithEndpoint authenticates token against a Bot API server at endpoint, a
// format string taking the token and the method name
func NewBotWithEndpoint(token, endpoint string, client *http.Client, log logger.Logger) (*Bot, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	log.Info("Connected to telegram", map[string]interface{}{
		"username": api.Self.UserName,
	})

	return &Bot{api: api, logger: log}, nil
}

// SetWebhook tells Telegram to deliver updates to url
func (b *Bot) SetWebhook(url string) error {
	webhook, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	if _, err := b.api.Request(webhook); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	b.logger.Info("Webhook registered", map[string]interface{}{
		"host": webhook.URL.Host,
	})
	return nil
}

// SendText sends a plain text message to chatID
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendPhoto uploads png as a photo named name to chatID
func (b *Bot) SendPhoto(ctx context.Context, chatID int64, name string, png []byte) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: png})
	if _, err := b.api.Send(photo); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

// UpdatesHandler decodes webhook updates and passes their messages to dispatcher.
// Updates are always acknowledged once decoded so Telegram does not redeliver them.
func (b *Bot) UpdatesHandler(dispatcher Dispatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())

		// Decode the update
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			b.logger.Warn("Rejected webhook update", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid update"})
			return
		}

		// Only new messages carry commands
		message := update.Message
		if message == nil || message.Chat == nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		req := bot.Request{ChatID: message.Chat.ID, Text: message.Text}
		if err := dispatcher.Dispatch(r.Context(), req); err != nil {
			b.logger.Error("Failed to handle update", map[string]interface{}{
				"request_id": requestID,
				"update_id":  update.UpdateID,
				"error":      err.Error(),
			})
		}
		// Acknowledge even on failure so Telegram does not redeliver
		w.WriteHeader(http.StatusOK)
	})
}
