package services

import (
	"context"
	"strings"
	"time"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContactService - адресная книга пользователя. ownerID всегда берется
// из аутентифицированной личности, а не из запроса.
type ContactService interface {
	Create(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreateContactRequest) (*models.Contact, error)
	Get(ctx context.Context, db *gorm.DB, ownerID, id string) (*models.Contact, error)
	List(ctx context.Context, db *gorm.DB, ownerID string, query *dto.ContactListQuery) ([]models.Contact, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, id string, req *dto.UpdateContactRequest) (*models.Contact, error)
	Delete(ctx context.Context, db *gorm.DB, ownerID, id string) error
	UpcomingBirthdays(ctx context.Context, db *gorm.DB, ownerID string, days *int) ([]BirthdayMatch, error)
}

type ContactServiceImpl struct {
	contactRepo repositories.ContactRepository
	dbTimeout   time.Duration
	now         func() time.Time
}

func NewContactService(contactRepo repositories.ContactRepository, dbTimeout time.Duration) *ContactServiceImpl {
	return &ContactServiceImpl{
		contactRepo: contactRepo,
		dbTimeout:   dbTimeout,
		now:         time.Now,
	}
}

func (s *ContactServiceImpl) Create(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreateContactRequest) (*models.Contact, error) {
	dob, err := parseBirthday(req.Birthday)
	if err != nil {
		return nil, err
	}

	contact := &models.Contact{
		OwnerID:     ownerID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       normalizeEmail(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		DateOfBirth: dob,
		Note:        req.Note,
	}

	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	if err := s.contactRepo.Create(tx, contact); err != nil {
		return nil, mapContactError(err)
	}

	logger.CtxInfo(ctx, "Contact created", "contact_id", contact.ID)
	return contact, nil
}

func (s *ContactServiceImpl) Get(ctx context.Context, db *gorm.DB, ownerID, id string) (*models.Contact, error) {
	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	contact, err := s.contactRepo.FindByID(tx, ownerID, id)
	if err != nil {
		return nil, mapContactError(err)
	}
	return contact, nil
}

// List - поиск по q, если он задан, иначе список с фильтрами по полям
func (s *ContactServiceImpl) List(ctx context.Context, db *gorm.DB, ownerID string, query *dto.ContactListQuery) ([]models.Contact, error) {
	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	var (
		contacts []models.Contact
		err      error
	)
	if q := strings.TrimSpace(query.Q); q != "" {
		contacts, err = s.contactRepo.Search(tx, ownerID, q)
	} else {
		contacts, err = s.contactRepo.FindWithFilter(tx, ownerID, repositories.ContactFilter{
			FirstName: strings.TrimSpace(query.FirstName),
			LastName:  strings.TrimSpace(query.LastName),
			Email:     strings.TrimSpace(query.Email),
		})
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contacts, nil
}

// Update - частичное обновление; пустая строка birthday очищает дату рождения
func (s *ContactServiceImpl) Update(ctx context.Context, db *gorm.DB, ownerID, id string, req *dto.UpdateContactRequest) (*models.Contact, error) {
	updates := make(map[string]interface{})

	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updates["email"] = normalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.Birthday != nil {
		dob, err := parseBirthday(*req.Birthday)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dob
	}

	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	contact, err := s.contactRepo.Update(tx, ownerID, id, updates)
	if err != nil {
		return nil, mapContactError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) Delete(ctx context.Context, db *gorm.DB, ownerID, id string) error {
	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	if err := s.contactRepo.Delete(tx, ownerID, id); err != nil {
		return mapContactError(err)
	}

	logger.CtxInfo(ctx, "Contact deleted", "contact_id", id)
	return nil
}

// UpcomingBirthdays - дни рождения в окне [сегодня, сегодня+days], days по умолчанию 7
func (s *ContactServiceImpl) UpcomingBirthdays(ctx context.Context, db *gorm.DB, ownerID string, days *int) ([]BirthdayMatch, error) {
	window := DefaultBirthdayWindow
	if days != nil {
		window = *days
	}
	if window < 0 || window > MaxBirthdayWindow {
		return nil, apperrors.ValidationError(map[string]string{
			"days": "Must be between 0 and 366",
		})
	}

	tx, cancel := withTimeout(ctx, db, s.dbTimeout)
	defer cancel()

	contacts, err := s.contactRepo.FindWithBirthday(tx, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return UpcomingBirthdays(contacts, s.now().UTC(), window), nil
}

func parseBirthday(value string) (*datatypes.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{
			"birthday": "Must be a date in YYYY-MM-DD format",
		})
	}
	d := datatypes.Date(t)
	return &d, nil
}
