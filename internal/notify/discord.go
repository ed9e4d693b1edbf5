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

type DiscordNotifier struct {
	webhookURL string
	log        logr.Logger
	client     *http.Client
}

func NewDiscord(webhookURL string, log logr.Logger) Notifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		log:        log,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *DiscordNotifier) Success(ctx context.Context, msg string) error {
	return d.send(ctx, fmt.Sprintf("✅ **MongoDB backup succeeded**\n```\n%s\n```", msg))
}

func (d *DiscordNotifier) Error(ctx context.Context, errMsg string) error {
	return d.send(ctx, fmt.Sprintf("❌ **MongoDB backup failed**\n```\n%s\n```", errMsg))
}

func (d *DiscordNotifier) send(ctx context.Context, msg string) error {
	payload, err := json.Marshal(map[string]string{"content": msg})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		d.log.Errorf("Discord webhook failed: %d", resp.StatusCode)
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}
