package dto

import (
	"time"

	"contacts_backend/internal/models"
)

const DateLayout = "2006-01-02"

// CreateContactRequest - форма/JSON создания контакта
type CreateContactRequest struct {
	FirstName string `form:"first_name" json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `form:"last_name" json:"last_name" validate:"required,min=1,max=100"`
	Email     string `form:"email" json:"email" validate:"required,email,max=255"`
	Phone     string `form:"phone" json:"phone" validate:"required,min=3,max=50"`
	Birthday  string `form:"birthday" json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Note      string `form:"note" json:"note"`
}

// UpdateContactRequest - частичное обновление: nil-поля не трогаются
type UpdateContactRequest struct {
	FirstName *string `form:"first_name" json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `form:"last_name" json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string `form:"email" json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `form:"phone" json:"phone" validate:"omitempty,min=3,max=50"`
	Birthday  *string `form:"birthday" json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Note      *string `form:"note" json:"note"`
}

// ContactListQuery - GET /contacts: q включает поиск, иначе фильтры по полям
type ContactListQuery struct {
	Q         string `form:"q"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
}

// UpcomingBirthdaysQuery - окно в днях, по умолчанию 7
type UpcomingBirthdaysQuery struct {
	Days *int `form:"days" validate:"omitempty,min=0,max=366"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  *string   `json:"birthday"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewContactResponse(c *models.Contact) ContactResponse {
	resp := ContactResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
	if dob, ok := c.Birthday(); ok {
		s := dob.Format(DateLayout)
		resp.Birthday = &s
	}
	return resp
}

func NewContactList(contacts []models.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, NewContactResponse(&contacts[i]))
	}
	return out
}

// UpcomingBirthday - контакт и дата ближайшего дня рождения
type UpcomingBirthday struct {
	ContactResponse
	NextBirthday string `json:"next_birthday"`
	DaysUntil    int    `json:"days_until"`
	TurningAge   int    `json:"turning_age"`
}
