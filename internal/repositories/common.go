package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// likePattern строит шаблон подстроки для LOWER(col) LIKE ? с экранированием спецсимволов
func likePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(strings.TrimSpace(value))) + "%"
}

// isUniqueViolation - нарушение уникального индекса (требует TranslateError в gorm.Config)
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
