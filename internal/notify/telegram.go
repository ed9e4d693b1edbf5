package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/BrunoTulio/logr"
)

const telegramAPI = "https://api.telegram.org"

type TelegramNotifier struct {
	botToken string
	chatID   string
	client   *http.Client
	log      logr.Logger
}

func NewTelegram(botToken, chatID string, log logr.Logger) Notifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

func (t *TelegramNotifier) Success(ctx context.Context, msg string) error {
	return t.sendMessage(ctx, fmt.Sprintf("✅ MongoDB backup succeeded\n\n%s", msg))
}

func (t *TelegramNotifier) Error(ctx context.Context, errMsg string) error {
	return t.sendMessage(ctx, fmt.Sprintf("❌ MongoDB backup failed\n\nError details:\n%s", errMsg))
}

func (t *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPI, t.botToken)

	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		t.log.Errorf("Telegram failed: %d", resp.StatusCode)
		return fmt.Errorf("telegram API returned status %s", resp.Status)
	}

	return nil
}
