package stores

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateIfAbsent inserts the user unless the email is already registered,
// in which case ErrUserExists is returned and nothing is written. The
// unique index on email backstops two concurrent inserts racing past the
// lookup; the loser's duplicate-key error is reported the same way.
func (s *UserStore) CreateIfAbsent(user *models.User) error {
	user.Role = "user"
	user.CreatedAt = time.Now().UTC()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", user.Email).First(&existing).Error
		if err == nil {
			return ErrUserExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserExists
			}
			return err
		}
		return nil
	})
}

func (s *UserStore) UpdateRole(id uuid.UUID, role string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RoleByEmail returns the stored role, or "user" when the account has
// none recorded. A missing account is not an error.
func (s *UserStore) RoleByEmail(email string) (string, error) {
	var user models.User
	err := s.db.Select("role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "user", nil
		}
		return "", err
	}
	if user.Role == "" {
		return "user", nil
	}
	return user.Role, nil
}
