package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/olebek/contacts-be/internal/avatar"
	"github.com/olebek/contacts-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetUserByVerificationToken(token string) (models.User, error)
	CreateUser(email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	VerifyUser(id string) error
	SetToken(id, token string) error
	UpdateSubscription(id, subscription string) (models.User, error)
	UpdateAvatar(id, avatarURL string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, email, password, subscription, avatar_url, token, verify, verification_token, created_at, updated_at"

// scanUser is a helper to scan a user from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.Email, &user.Password, &user.Subscription,
		&user.AvatarURL, &user.Token, &user.Verify, &user.VerificationToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func (s *UserService) getUserWhere(field, value string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE "+field+" = ?", value)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	return s.getUserWhere("id", id)
}

// GetUserByEmail retrieves a single user by their email.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	return s.getUserWhere("email", email)
}

// GetUserByVerificationToken retrieves the user holding a pending
// verification token.
func (s *UserService) GetUserByVerificationToken(token string) (models.User, error) {
	if token == "" {
		return models.User{}, models.ErrNotFound
	}
	return s.getUserWhere("verification_token", token)
}

// CreateUser creates a new account: the password is hashed, the avatar
// URL is derived from the email and a verification token is generated.
func (s *UserService) CreateUser(email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:                uuid.New().String(),
		Email:             email,
		Password:          string(hashedPassword),
		Subscription:      models.SubscriptionStarter,
		AvatarURL:         avatar.IdenticonURL(email),
		VerificationToken: uuid.New().String(),
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, email, password, subscription, avatar_url, verification_token) VALUES(?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Password, user.Subscription, user.AvatarURL, user.VerificationToken,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, models.ErrEmailInUse
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.Password = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. Unknown email and
// wrong password produce the same error so callers cannot probe for
// registered addresses; an unverified account is reported distinctly.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, models.ErrInvalidCredentials
	}

	if !user.Verify {
		return models.User{}, models.ErrNotVerified
	}

	user.Password = ""
	return user, nil
}

// VerifyUser marks the account verified and clears its verification
// token.
func (s *UserService) VerifyUser(id string) error {
	res, err := s.db.Exec(
		"UPDATE users SET verify = 1, verification_token = '', updated_at = CURRENT_TIMESTAMP WHERE id = ?", id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// SetToken stores the current session token on the user record. An
// empty token logs the user out.
func (s *UserService) SetToken(id, token string) error {
	res, err := s.db.Exec(
		"UPDATE users SET token = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", token, id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// UpdateSubscription changes the user's subscription tier.
func (s *UserService) UpdateSubscription(id, subscription string) (models.User, error) {
	res, err := s.db.Exec(
		"UPDATE users SET subscription = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", subscription, id,
	)
	if err != nil {
		return models.User{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// UpdateAvatar stores a new avatar URL for the user.
func (s *UserService) UpdateAvatar(id, avatarURL string) (models.User, error) {
	res, err := s.db.Exec(
		"UPDATE users SET avatar_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", avatarURL, id,
	)
	if err != nil {
		return models.User{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// requireRowAffected converts a zero-row update into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
