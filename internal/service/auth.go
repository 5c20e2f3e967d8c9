package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/scrypt"

	"github.com/giyimsepeti/storefront-system/internal/model"
	"github.com/giyimsepeti/storefront-system/internal/repository"
)

// Account validation failures. The messages are part of the API contract.
var (
	ErrMissingRegisterFields = errors.New("Kayit icin tum alanlar zorunludur.")
	ErrMissingCredentials    = errors.New("E-posta ve sifre zorunludur.")
	ErrInvalidEmail          = errors.New("E-posta formati gecersiz.")
	ErrPasswordTooShort      = errors.New("Sifre en az 6 karakter olmalidir.")
	ErrInvalidCredentials    = errors.New("E-posta veya sifre hatali.")
)

const sessionTTL = 30 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// scrypt parameters per the x/crypto recommendation.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// RegisterInput is a new customer registration.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// RegisterUser creates a customer account and opens a session for it.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*model.User, *model.Session, error) {
	fullName := normalizeText(in.FullName)
	email := normalizeEmail(in.Email)
	phone := normalizeText(in.Phone)

	if fullName == "" || email == "" || phone == "" || in.Password == "" {
		return nil, nil, ErrMissingRegisterFields
	}
	if !emailPattern.MatchString(email) {
		return nil, nil, ErrInvalidEmail
	}
	if len(in.Password) < 6 {
		return nil, nil, ErrPasswordTooShort
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	user := model.User{
		ID:           newUserID(now),
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return &user, session, nil
}

// AuthenticateUser verifies the credentials and opens a session.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	ok, err := verifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout removes the session for the token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// ResolveToken maps a bearer token to its user. Expired or unknown
// tokens, and tokens whose user no longer exists, resolve to
// repository.ErrSessionNotFound.
func (s *Service) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	session, err := s.sessions.GetActive(ctx, token, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, token)
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateAdminInput is a new administrator account.
type CreateAdminInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// CreateAdminUser creates an administrator account.
func (s *Service) CreateAdminUser(ctx context.Context, in CreateAdminInput) (*model.User, error) {
	fullName := normalizeText(in.FullName)
	email := normalizeEmail(in.Email)

	if fullName == "" || email == "" || in.Password == "" {
		return nil, ErrMissingRegisterFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := model.User{
		ID:           newUserID(now),
		FullName:     fullName,
		Email:        email,
		Phone:        normalizeText(in.Phone),
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all accounts in their client-safe form.
func (s *Service) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// StartSessionCleanup periodically prunes expired sessions until the
// context is cancelled.
func (s *Service) StartSessionCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = s.sessions.DeleteExpired(ctx, s.now())
			}
		}
	}()
}

func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(normalizeText(email))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

func verifyPassword(password, hash string) (bool, error) {
	saltHex, keyHex, ok := strings.Cut(hash, ":")
	if !ok {
		return false, nil
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, nil
	}
	stored, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, nil
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(stored))
	if err != nil {
		return false, fmt.Errorf("derive key: %w", err)
	}
	return subtle.ConstantTimeCompare(stored, derived) == 1, nil
}
