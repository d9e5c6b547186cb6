package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/cache"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB - *gorm.DB поверх sqlmock; репозитории в этих тестах замоканы,
// так что SQL до драйвера не доходит.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func newTestCache(t *testing.T) (*cache.UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewUserCache(client, time.Hour, time.Second), mr
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.Secrets{
		Access:  "access-secret",
		Refresh: "refresh-secret",
		Email:   "email-secret",
	})
	require.NoError(t, err)
	return tokens
}

// MockUserRepository implements repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(db *gorm.DB, user *models.User) error {
	args := m.Called(user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	args := m.Called(id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	args := m.Called(email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(db *gorm.DB, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) FindWithFilter(db *gorm.DB, filter repositories.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	if u, ok := args.Get(0).([]models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockContactRepository implements repositories.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(db *gorm.DB, contact *models.Contact) error {
	args := m.Called(contact)
	return args.Error(0)
}

func (m *MockContactRepository) FindByID(db *gorm.DB, ownerID, id string) (*models.Contact, error) {
	args := m.Called(ownerID, id)
	if c, ok := args.Get(0).(*models.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContactRepository) FindWithFilter(db *gorm.DB, ownerID string, filter repositories.ContactFilter) ([]models.Contact, error) {
	args := m.Called(ownerID, filter)
	if c, ok := args.Get(0).([]models.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContactRepository) Search(db *gorm.DB, ownerID, query string) ([]models.Contact, error) {
	args := m.Called(ownerID, query)
	if c, ok := args.Get(0).([]models.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContactRepository) Update(db *gorm.DB, ownerID, id string, updates map[string]interface{}) (*models.Contact, error) {
	args := m.Called(ownerID, id, updates)
	if c, ok := args.Get(0).(*models.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContactRepository) Delete(db *gorm.DB, ownerID, id string) error {
	args := m.Called(ownerID, id)
	return args.Error(0)
}

func (m *MockContactRepository) FindWithBirthday(db *gorm.DB, ownerID string) ([]models.Contact, error) {
	args := m.Called(ownerID)
	if c, ok := args.Get(0).([]models.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type sentMail struct {
	Kind  string
	To    string
	Token string
}

// recordingMailer запоминает письма вместо отправки
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendVerification(ctx context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Kind: "verification", To: to, Token: token})
	return m.err
}

func (m *recordingMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Kind: "password_reset", To: to, Token: token})
	return m.err
}

func (m *recordingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}
