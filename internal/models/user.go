package models

type User struct {
	BaseModel
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string   `gorm:"type:varchar(255)"`
	PasswordHash string   `gorm:"not null"`
	IsActive     bool     `gorm:"not null"`
	IsVerified   bool     `gorm:"not null;default:false"`
	AvatarURL    string   `gorm:"type:varchar(512)"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`

	// Relations
	Contacts []Contact `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
