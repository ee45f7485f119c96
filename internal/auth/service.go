// Package auth registers and authenticates PillPal users and carries the
// signed session that identifies them between requests.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pathakanu/pillpal/internal/apperr"
	"github.com/pathakanu/pillpal/internal/model"
	"github.com/pathakanu/pillpal/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	CaretakerName   string
	CaretakerNumber string
}

// Service manages the user directory.
type Service struct {
	users store.Users
	cost  int
}

// NewService returns a Service hashing passwords with bcrypt.DefaultCost.
func NewService(users store.Users) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost, mainly to keep tests fast.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register validates the form and creates the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, apperr.Validation("Please fill in all fields.")
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperr.Validation("Passwords do not match.")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperr.Validation("Password must be at least 6 characters long.")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errDuplicateEmail()
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &model.User{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		CaretakerName:   strings.TrimSpace(in.CaretakerName),
		CaretakerNumber: strings.TrimSpace(in.CaretakerNumber),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, errDuplicateEmail()
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// Login verifies the credentials against the stored bcrypt hash.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Please enter both email and password.")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials()
	}
	return user, nil
}

// CurrentUser resolves the session to a user. A nil user with a nil error
// means nobody is logged in, or the session names an unknown user.
func (s *Service) CurrentUser(ctx context.Context, sess Session) (*model.User, error) {
	if !sess.Authenticated() {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func errDuplicateEmail() error {
	return apperr.Validation("Email already registered. Please use a different email.")
}

func errInvalidCredentials() error {
	return apperr.Auth("Invalid email or password.")
}
