package email

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// IsConfigured - хост задан, можно отправлять реальные письма
func (c *SMTPConfig) IsConfigured() bool {
	return c != nil && c.Host != ""
}
