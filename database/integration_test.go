//go:build integration

package database_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "contacts_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/contacts_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	var db *gorm.DB
	var err error
	// порт слушается раньше, чем postgres принимает соединения
	require.Eventually(t, func() bool {
		db, err = database.Open(database.Options{Driver: "postgres", DSN: dsn, Env: "test"})
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, repo repositories.UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		PasswordHash: "$2a$10$hash",
		IsActive:     true,
		IsVerified:   true,
		Role:         models.UserRoleUser,
	}
	require.NoError(t, repo.Create(db, u))
	return u
}

func TestRepositories_Postgres(t *testing.T) {
	db := openDB(t).WithContext(context.Background())
	users := repositories.NewUserRepository()
	contacts := repositories.NewContactRepository()

	alice := createUser(t, db, users, "alice@example.com")
	bob := createUser(t, db, users, "bob@example.com")

	t.Run("duplicate user email", func(t *testing.T) {
		err := users.Create(db, &models.User{Email: "alice@example.com", PasswordHash: "x", IsActive: true})
		assert.ErrorIs(t, err, repositories.ErrUserAlreadyExists)
	})

	dob := datatypes.Date(time.Date(1990, 6, 5, 0, 0, 0, 0, time.UTC))
	contact := func(owner string) *models.Contact {
		return &models.Contact{
			OwnerID:     owner,
			FirstName:   "Carol",
			LastName:    "Smith",
			Email:       "carol@example.com",
			Phone:       "+100",
			DateOfBirth: &dob,
		}
	}

	t.Run("contact email is unique per owner", func(t *testing.T) {
		require.NoError(t, contacts.Create(db, contact(alice.ID)))
		assert.ErrorIs(t, contacts.Create(db, contact(alice.ID)), repositories.ErrContactAlreadyExists)
		assert.NoError(t, contacts.Create(db, contact(bob.ID)), "another owner may store the same email")
	})

	t.Run("search is scoped to the owner", func(t *testing.T) {
		found, err := contacts.Search(db, alice.ID, "CAROL")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, alice.ID, found[0].OwnerID)

		withBirthday, err := contacts.FindWithBirthday(db, bob.ID)
		require.NoError(t, err)
		require.Len(t, withBirthday, 1)
		got, ok := withBirthday[0].Birthday()
		require.True(t, ok)
		assert.Equal(t, "1990-06-05", got.Format("2006-01-02"))
	})

	t.Run("foreign contact is not found", func(t *testing.T) {
		own, err := contacts.FindWithFilter(db, alice.ID, repositories.ContactFilter{})
		require.NoError(t, err)
		require.Len(t, own, 1)

		_, err = contacts.FindByID(db, bob.ID, own[0].ID)
		assert.ErrorIs(t, err, repositories.ErrContactNotFound)
		assert.ErrorIs(t, contacts.Delete(db, bob.ID, own[0].ID), repositories.ErrContactNotFound)
	})

	t.Run("deleting a user removes their contacts", func(t *testing.T) {
		require.NoError(t, users.Delete(db, bob.ID))

		var count int64
		require.NoError(t, db.Model(&models.Contact{}).Where("owner_id = ?", bob.ID).Count(&count).Error)
		assert.Zero(t, count)

		_, err := users.FindByID(db, bob.ID)
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	})
}
