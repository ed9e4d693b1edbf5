package notify

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/wneessen/go-mail"
)

const subjectPrefix = "[mongopher]"

var smtpAuthTypes = map[string]mail.SMTPAuthType{
	"auto":               mail.SMTPAuthAutoDiscover,
	"autodiscover":       mail.SMTPAuthAutoDiscover,
	"plain":              mail.SMTPAuthPlain,
	"plain-noenc":        mail.SMTPAuthPlainNoEnc,
	"login":              mail.SMTPAuthLogin,
	"login-noenc":        mail.SMTPAuthLoginNoEnc,
	"cram-md5":           mail.SMTPAuthCramMD5,
	"crammd5":            mail.SMTPAuthCramMD5,
	"scram-sha-1":        mail.SMTPAuthSCRAMSHA1,
	"scram-sha-1-plus":   mail.SMTPAuthSCRAMSHA1PLUS,
	"scram-sha-256":      mail.SMTPAuthSCRAMSHA256,
	"scram-sha-256-plus": mail.SMTPAuthSCRAMSHA256PLUS,
	"xoauth2":            mail.SMTPAuthXOAUTH2,
	"oauth2":             mail.SMTPAuthXOAUTH2,
}

type MailNotifier struct {
	cfg  config.NotificationConfig
	host string
	log  logr.Logger
}

func NewMail(cfg config.NotificationConfig, log logr.Logger) Notifier {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown host"
	}
	return &MailNotifier{cfg: cfg, host: host, log: log}
}

func (m *MailNotifier) Success(ctx context.Context, msg string) error {
	return m.send(ctx, "✅ MongoDB backup succeeded", msg)
}

func (m *MailNotifier) Error(ctx context.Context, errMsg string) error {
	return m.send(ctx, "❌ MongoDB backup failed", errMsg)
}

func (m *MailNotifier) send(ctx context.Context, title, detail string) error {
	msg, err := m.message(title, detail)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	client, err := mail.NewClient(
		m.cfg.SMTPServer,
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithUsername(m.cfg.SMTPUser),
		mail.WithPassword(m.cfg.SMTPPassword),
		mail.WithTLSPolicy(tlsPolicy(m.cfg.SMTPTLS)),
		mail.WithSMTPAuth(smtpAuthType(m.cfg.SMTPAuth)),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Errorf("Mail to %s failed: %v", strings.Join(m.cfg.Emails, ", "), err)
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// message renders a plain text body with an HTML alternative.
func (m *MailNotifier) message(title, detail string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.EmailFrom); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.To(m.cfg.Emails...); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	msg.Subject(fmt.Sprintf("%s %s on %s", subjectPrefix, title, m.host))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("%s\n\nHost: %s\n\n%s\n", title, m.host, detail))
	msg.AddAlternativeString(mail.TypeTextHTML, fmt.Sprintf(
		"<h3>%s</h3><p>Host: <code>%s</code></p><pre>%s</pre>",
		html.EscapeString(title), html.EscapeString(m.host), html.EscapeString(detail),
	))

	return msg, nil
}

// smtpAuthType maps the smtp_auth setting; unknown values disable auth.
func smtpAuthType(value string) mail.SMTPAuthType {
	if t, ok := smtpAuthTypes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return t
	}
	return mail.SMTPAuthNoAuth
}

func tlsPolicy(enabled bool) mail.TLSPolicy {
	if enabled {
		return mail.TLSMandatory
	}
	return mail.NoTLS
}
