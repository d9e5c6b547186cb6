package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

// Email контакта уникален в пределах владельца, а не глобально
func TestContactEmailUniquePerOwner(t *testing.T) {
	typ := reflect.TypeOf(Contact{})

	owner, _ := typ.FieldByName("OwnerID")
	email, _ := typ.FieldByName("Email")

	assert.Contains(t, owner.Tag.Get("gorm"), "uniqueIndex:idx_contacts_owner_email,priority:1")
	assert.Contains(t, email.Tag.Get("gorm"), "uniqueIndex:idx_contacts_owner_email,priority:2")
	assert.NotContains(t, email.Tag.Get("gorm"), "uniqueIndex;")
}

func TestContactBirthday(t *testing.T) {
	c := Contact{}
	_, ok := c.Birthday()
	assert.False(t, ok)

	dob := datatypes.Date(time.Date(1990, 6, 5, 0, 0, 0, 0, time.UTC))
	c.DateOfBirth = &dob
	got, ok := c.Birthday()
	assert.True(t, ok)
	assert.Equal(t, time.June, got.Month())
	assert.Equal(t, 5, got.Day())
}

func TestUserRoleIsValid(t *testing.T) {
	assert.True(t, UserRoleUser.IsValid())
	assert.True(t, UserRoleAdmin.IsValid())
	assert.False(t, UserRole("moderator").IsValid())
}
