package models

import (
	"time"

	"gorm.io/datatypes"
)

// Contact - запись адресной книги пользователя.
// Email уникален в пределах владельца (составной индекс owner_id + email).
type Contact struct {
	BaseModel
	OwnerID     string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_contacts_owner_email,priority:1"`
	FirstName   string          `gorm:"type:varchar(100);not null;index"`
	LastName    string          `gorm:"type:varchar(100);not null;index"`
	Email       string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_contacts_owner_email,priority:2"`
	Phone       string          `gorm:"type:varchar(50)"`
	DateOfBirth *datatypes.Date `gorm:"type:date"`
	Note        string          `gorm:"type:text"`
}

// Birthday возвращает дату рождения как time.Time (ok=false, если не задана)
func (c *Contact) Birthday() (time.Time, bool) {
	if c.DateOfBirth == nil {
		return time.Time{}, false
	}
	return time.Time(*c.DateOfBirth), true
}
