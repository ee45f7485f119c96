package store

import (
	"context"
	"errors"
	"strings"

	"github.com/pathakanu/pillpal/internal/model"
	"gorm.io/gorm"
)

// UserStore is the gorm-backed user directory.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts user, lower-casing the email first.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	err := s.db.WithContext(ctx).Create(user).Error
	if isDuplicate(err) {
		return ErrDuplicateEmail
	}
	return err
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByEmail matches case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListWithCaretaker returns users that registered a caretaker number.
func (s *UserStore) ListWithCaretaker(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("caretaker_number <> ''").
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}
