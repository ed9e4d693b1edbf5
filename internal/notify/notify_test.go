package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"testing"

	"github.com/BrunoTulio/logr/adapters/zap.v1"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

var testLog = zap.New(zap.WithConsole(true), zap.WithConsoleLevel("ERROR"))

type recorder struct {
	success []string
	errors  []string
	fail    bool
}

func (r *recorder) Success(_ context.Context, msg string) error {
	r.success = append(r.success, msg)
	if r.fail {
		return errors.New("down")
	}
	return nil
}

func (r *recorder) Error(_ context.Context, msg string) error {
	r.errors = append(r.errors, msg)
	if r.fail {
		return errors.New("down")
	}
	return nil
}

func TestMultiNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("fans out", func(t *testing.T) {
		a, b := &recorder{}, &recorder{}
		m := NewMultiNotifier(true, true, testLog)
		m.AddNotifier(a)
		m.AddNotifier(b)

		require.NoError(t, m.Success(ctx, "ok"))
		require.NoError(t, m.Error(ctx, "boom"))

		assert.Equal(t, []string{"ok"}, a.success)
		assert.Equal(t, []string{"boom"}, b.errors)
	})

	t.Run("disabled kinds are skipped", func(t *testing.T) {
		a := &recorder{}
		m := NewMultiNotifier(false, true, testLog)
		m.AddNotifier(a)

		require.NoError(t, m.Success(ctx, "ok"))
		assert.Empty(t, a.success)
	})

	t.Run("partial failure is tolerated", func(t *testing.T) {
		m := NewMultiNotifier(true, true, testLog)
		m.AddNotifier(&recorder{fail: true})
		m.AddNotifier(&recorder{})

		assert.NoError(t, m.Error(ctx, "boom"))
	})

	t.Run("all failing returns error", func(t *testing.T) {
		m := NewMultiNotifier(true, true, testLog)
		m.AddNotifier(&recorder{fail: true})
		m.AddNotifier(&recorder{fail: true})

		assert.ErrorContains(t, m.Error(ctx, "boom"), "all notifiers failed")
	})

	t.Run("no notifiers is not an error", func(t *testing.T) {
		m := NewMultiNotifier(true, true, testLog)
		assert.NoError(t, m.Success(ctx, "ok"))
	})
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Notification.DiscordWebhookURL = "https://discord.example/webhook"
	cfg.Notification.TelegramBotToken = "token"
	cfg.Notification.TelegramChatID = "42"

	assert.Equal(t, 2, NewFromConfig(cfg, testLog).Len())

	cfg.Notification.Emails = []string{"ops@example.com"}
	assert.Equal(t, 3, NewFromConfig(cfg, testLog).Len())
}

func TestDiscordNotifier(t *testing.T) {
	mock := httpmock.NewMockTransport()
	n := NewDiscord("https://discord.example/webhook", testLog).(*DiscordNotifier)
	n.client = &http.Client{Transport: mock}

	var content string
	mock.RegisterResponder(http.MethodPost, "https://discord.example/webhook", func(req *http.Request) (*http.Response, error) {
		var body map[string]string
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, err
		}
		content = body["content"]
		return httpmock.NewStringResponse(204, ""), nil
	})

	require.NoError(t, n.Success(context.Background(), "7/8 collections"))
	assert.Contains(t, content, "succeeded")
	assert.Contains(t, content, "7/8 collections")

	mock.RegisterResponder(http.MethodPost, "https://discord.example/webhook", httpmock.NewStringResponder(429, ""))
	assert.ErrorContains(t, n.Error(context.Background(), "boom"), "429")
}

func TestTelegramNotifier(t *testing.T) {
	mock := httpmock.NewMockTransport()
	n := NewTelegram("abc", "99", testLog).(*TelegramNotifier)
	n.client = &http.Client{Transport: mock}

	var body map[string]string
	mock.RegisterResponder(http.MethodPost, "https://api.telegram.org/botabc/sendMessage", func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, err
		}
		return httpmock.NewStringResponse(200, `{"ok":true}`), nil
	})

	require.NoError(t, n.Error(context.Background(), "drive quota"))
	assert.Equal(t, "99", body["chat_id"])
	assert.Contains(t, body["text"], "drive quota")
	assert.Equal(t, 1, mock.GetTotalCallCount())
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.NoError(t, n.Success(context.Background(), ""))
	assert.NoError(t, n.Error(context.Background(), ""))
}

func TestMailMessage(t *testing.T) {
	n := NewMail(config.NotificationConfig{
		EmailFrom: "backup@example.com",
		Emails:    []string{"ops@example.com", "admin@example.com"},
	}, testLog).(*MailNotifier)
	n.host = "db-1"

	msg, err := n.message("❌ MongoDB backup failed", "cron backup failed: <timeout>")
	require.NoError(t, err)

	subject := msg.GetGenHeader(mail.HeaderSubject)
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, "[mongopher] ❌ MongoDB backup failed on db-1", decoded)
	assert.Len(t, msg.GetToString(), 2)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cron backup failed: &lt;timeout&gt;")
}

func TestMailRejectsBadAddress(t *testing.T) {
	n := NewMail(config.NotificationConfig{EmailFrom: "not an address"}, testLog).(*MailNotifier)

	_, err := n.message("x", "y")
	assert.ErrorContains(t, err, "from")
}

func TestSMTPAuthType(t *testing.T) {
	tests := map[string]mail.SMTPAuthType{
		"login":          mail.SMTPAuthLogin,
		" PLAIN ":        mail.SMTPAuthPlain,
		"crammd5":        mail.SMTPAuthCramMD5,
		"scram-sha-256":  mail.SMTPAuthSCRAMSHA256,
		"oauth2":         mail.SMTPAuthXOAUTH2,
		"":               mail.SMTPAuthNoAuth,
		"something-else": mail.SMTPAuthNoAuth,
	}
	for in, want := range tests {
		assert.Equal(t, want, smtpAuthType(in), in)
	}
	assert.Equal(t, mail.TLSMandatory, tlsPolicy(true))
	assert.Equal(t, mail.NoTLS, tlsPolicy(false))
}
