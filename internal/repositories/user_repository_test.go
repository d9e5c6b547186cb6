package repositories

import (
	"testing"

	"contacts_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(uniqueViolation())

	err := repo.Create(db, &models.User{Email: "john@example.com", PasswordHash: "x", IsActive: true, Role: models.UserRoleUser})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserRepository_FindByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail(db, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "is_active", "is_verified", "role"}).
			AddRow("user-1", "john@example.com", true, false, "admin"))

	user, err := repo.FindByID(db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", user.Email)
	assert.True(t, user.IsAdmin())
	assert.False(t, user.IsVerified)
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(db, "user-404", map[string]interface{}{"is_verified": true})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DeleteCascadesContacts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "contacts" WHERE owner_id = \$1`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(db, "user-1"))
}

func TestUserRepository_DeleteMissingRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "contacts"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(db, "user-404"), ErrUserNotFound)
}

func TestUserRepository_FindWithFilterSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(`LOWER\(email\) LIKE \$1 OR LOWER\(full_name\) LIKE \$2.*ORDER BY email ASC`).
		WithArgs("%john%", "%john%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("user-1", "john@example.com"))

	users, err := repo.FindWithFilter(db, UserFilter{Search: "John"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
