package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/giyimsepeti/storefront-system/internal/model"
)

// UserRepository stores user accounts. Emails are unique.
type UserRepository struct {
	file *jsonFile[model.User]
}

// NewUserRepository opens (or creates) the users collection.
func NewUserRepository(path string) (*UserRepository, error) {
	file, err := newJSONFile[model.User](path)
	if err != nil {
		return nil, err
	}
	return &UserRepository{file: file}, nil
}

// List returns all users.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return r.file.load()
}

// Create appends a new user, failing with ErrUserExists if the email
// is already registered.
func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	return r.file.update(func(users []model.User) ([]model.User, error) {
		for _, existing := range users {
			if strings.EqualFold(existing.Email, u.Email) {
				return nil, fmt.Errorf("%w: %s", ErrUserExists, u.Email)
			}
		}
		return append(users, u), nil
	})
}

// GetByEmail returns the user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.file.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.file.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}
