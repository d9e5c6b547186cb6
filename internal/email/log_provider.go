package email

import (
	"context"

	"contacts_backend/internal/logger"
)

// LogProvider используется для локальной разработки, когда SMTP не настроен:
// письма не отправляются, а пишутся в лог.
type LogProvider struct{}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "email delivery skipped (SMTP is not configured)",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Body,
	)
	return nil
}

func (p *LogProvider) Validate() error { return nil }

// NewProvider выбирает SMTP или LogProvider по конфигурации
func NewProvider(cfg *SMTPConfig) Provider {
	if cfg.IsConfigured() {
		return NewSMTPProvider(cfg)
	}
	return &LogProvider{}
}
