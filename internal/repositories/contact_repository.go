package repositories

import (
	"errors"
	"time"

	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrContactNotFound      = errors.New("contact not found")
	ErrContactAlreadyExists = errors.New("contact already exists")
)

// ContactRepository - все операции ограничены владельцем: чужой контакт = не найден
type ContactRepository interface {
	Create(db *gorm.DB, contact *models.Contact) error
	FindByID(db *gorm.DB, ownerID, id string) (*models.Contact, error)
	FindWithFilter(db *gorm.DB, ownerID string, filter ContactFilter) ([]models.Contact, error)
	Search(db *gorm.DB, ownerID, query string) ([]models.Contact, error)
	Update(db *gorm.DB, ownerID, id string, updates map[string]interface{}) (*models.Contact, error)
	Delete(db *gorm.DB, ownerID, id string) error
	FindWithBirthday(db *gorm.DB, ownerID string) ([]models.Contact, error)
}

// ContactFilter - необязательные фильтры списка; заданные условия объединяются через OR
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

func (f ContactFilter) IsEmpty() bool {
	return f.FirstName == "" && f.LastName == "" && f.Email == ""
}

type ContactRepositoryImpl struct{}

func NewContactRepository() ContactRepository {
	return &ContactRepositoryImpl{}
}

const contactOrder = "last_name ASC, first_name ASC"

func (r *ContactRepositoryImpl) Create(db *gorm.DB, contact *models.Contact) error {
	if err := db.Create(contact).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrContactAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ContactRepositoryImpl) FindByID(db *gorm.DB, ownerID, id string) (*models.Contact, error) {
	var contact models.Contact
	err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepositoryImpl) FindWithFilter(db *gorm.DB, ownerID string, filter ContactFilter) ([]models.Contact, error) {
	var contacts []models.Contact

	query := db.Where("owner_id = ?", ownerID)
	if !filter.IsEmpty() {
		or := db.Session(&gorm.Session{NewDB: true})
		first := true
		add := func(column, value string) {
			if value == "" {
				return
			}
			cond := "LOWER(" + column + ") LIKE ?"
			if first {
				or = or.Where(cond, likePattern(value))
				first = false
			} else {
				or = or.Or(cond, likePattern(value))
			}
		}
		add("first_name", filter.FirstName)
		add("last_name", filter.LastName)
		add("email", filter.Email)
		query = query.Where(or)
	}

	if err := query.Order(contactOrder).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Search - подстрока без учета регистра по имени, фамилии и email
func (r *ContactRepositoryImpl) Search(db *gorm.DB, ownerID, query string) ([]models.Contact, error) {
	var contacts []models.Contact
	pattern := likePattern(query)

	err := db.Where("owner_id = ?", ownerID).
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern).
		Order(contactOrder).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// Update выполняется в транзакции: обновление и перечитывание записи
func (r *ContactRepositoryImpl) Update(db *gorm.DB, ownerID, id string, updates map[string]interface{}) (*models.Contact, error) {
	var contact models.Contact

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			result := tx.Model(&models.Contact{}).Where("id = ? AND owner_id = ?", id, ownerID).Updates(updates)
			if result.Error != nil {
				if isUniqueViolation(result.Error) {
					return ErrContactAlreadyExists
				}
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrContactNotFound
			}
		}

		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepositoryImpl) Delete(db *gorm.DB, ownerID, id string) error {
	result := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// FindWithBirthday - контакты владельца с заданной датой рождения.
// Окно ближайших дней считается в сервисе: так логика одинакова для Postgres и MySQL.
func (r *ContactRepositoryImpl) FindWithBirthday(db *gorm.DB, ownerID string) ([]models.Contact, error) {
	var contacts []models.Contact
	err := db.Where("owner_id = ? AND date_of_birth IS NOT NULL", ownerID).
		Order(contactOrder).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
