package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/config"
)

type MultiNotifier struct {
	notifiers      []Notifier
	successEnabled bool
	errorEnabled   bool
	log            logr.Logger
}

func NewMultiNotifier(
	successEnabled bool,
	errorEnabled bool,
	log logr.Logger,
) *MultiNotifier {
	return &MultiNotifier{
		successEnabled: successEnabled,
		errorEnabled:   errorEnabled,
		log:            log,
	}
}

// NewFromConfig registers every channel that has credentials configured.
func NewFromConfig(cfg *config.Config, log logr.Logger) *MultiNotifier {
	n := NewMultiNotifier(cfg.Notification.SuccessEnabled, cfg.Notification.ErrorEnabled, log)

	if cfg.IsNotifyMail() {
		n.AddNotifier(NewMail(cfg.Notification, log))
	}

	if cfg.IsNotifyDiscord() {
		n.AddNotifier(NewDiscord(cfg.Notification.DiscordWebhookURL, log))
	}

	if cfg.IsNotifyTelegram() {
		n.AddNotifier(NewTelegram(
			cfg.Notification.TelegramBotToken,
			cfg.Notification.TelegramChatID,
			log,
		))
	}

	return n
}

func (m *MultiNotifier) AddNotifier(notifier Notifier) {
	m.notifiers = append(m.notifiers, notifier)
}

func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

func (m *MultiNotifier) Success(ctx context.Context, msg string) error {
	if !m.successEnabled {
		return nil
	}

	return m.fanOut("success", func(n Notifier) error {
		return n.Success(ctx, msg)
	})
}

func (m *MultiNotifier) Error(ctx context.Context, errMsg string) error {
	if !m.errorEnabled {
		return nil
	}

	return m.fanOut("error", func(n Notifier) error {
		return n.Error(ctx, errMsg)
	})
}

// fanOut only fails when every notifier failed.
func (m *MultiNotifier) fanOut(kind string, send func(Notifier) error) error {
	var errs []error

	for _, n := range m.notifiers {
		if err := send(n); err != nil {
			errs = append(errs, err)
			m.log.Warnf("Notifier %s failed: %v", kind, err)
		}
	}

	if len(errs) > 0 && len(errs) == len(m.notifiers) {
		return fmt.Errorf("all notifiers failed: %w", errors.Join(errs...))
	}
	return nil
}
