package email

import "context"

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет сообщение; ctx проверяется до соединения с сервером
	Send(ctx context.Context, email *Email) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
