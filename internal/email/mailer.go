package email

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Mailer собирает письма приложения (подтверждение email, сброс пароля)
// и отправляет их через Provider.
type Mailer struct {
	provider        Provider
	renderer        TemplateRenderer
	baseURL         string
	verificationTTL time.Duration
}

func NewMailer(provider Provider, renderer TemplateRenderer, baseURL string, verificationTTL time.Duration) *Mailer {
	return &Mailer{
		provider:        provider,
		renderer:        renderer,
		baseURL:         baseURL,
		verificationTTL: verificationTTL,
	}
}

// VerificationLink - ссылка подтверждения email
func (m *Mailer) VerificationLink(token string) string {
	return fmt.Sprintf("%s/auth/confirm-email?token=%s", m.baseURL, url.QueryEscape(token))
}

// PasswordResetLink - ссылка на форму нового пароля
func (m *Mailer) PasswordResetLink(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return fmt.Sprintf("%s/users/reset-password?%s", m.baseURL, q.Encode())
}

func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	link := m.VerificationLink(token)
	html, err := m.renderer.Render(TemplateVerification, TemplateData{
		"Email":      to,
		"Link":       link,
		"ValidHours": int(m.verificationTTL.Hours()),
	})
	if err != nil {
		return err
	}

	return m.provider.Send(ctx, &Email{
		To:       []string{to},
		Subject:  "Confirm your email",
		Body:     "Confirm your email: " + link,
		HTMLBody: html,
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	link := m.PasswordResetLink(to, token)
	html, err := m.renderer.Render(TemplatePasswordReset, TemplateData{
		"Email": to,
		"Link":  link,
	})
	if err != nil {
		return err
	}

	return m.provider.Send(ctx, &Email{
		To:       []string{to},
		Subject:  "Password reset",
		Body:     "Reset your password: " + link,
		HTMLBody: html,
	})
}
