package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Role     string `form:"role" validate:"omitempty,is-user-role"`
}

func TestValidate_FieldNamesFromTags(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{Email: "bad", Password: "123", Birthday: "05.06.1990", Role: "root"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "Must be at least 6 characters long", vErr.Errors["password"])
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", vErr.Errors["birthday"])
	assert.Equal(t, "Must be one of: user, admin", vErr.Errors["role"])
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&sampleRequest{Email: "a@b.co", Password: "123456", Birthday: "1990-06-05", Role: "admin"}))
}
