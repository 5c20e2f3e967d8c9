package repository

import (
	"context"
	"time"

	"github.com/giyimsepeti/storefront-system/internal/model"
)

// SessionRepository stores bearer-token sessions.
type SessionRepository struct {
	file *jsonFile[model.Session]
}

// NewSessionRepository opens (or creates) the sessions collection.
func NewSessionRepository(path string) (*SessionRepository, error) {
	file, err := newJSONFile[model.Session](path)
	if err != nil {
		return nil, err
	}
	return &SessionRepository{file: file}, nil
}

// Create appends a new session.
func (r *SessionRepository) Create(ctx context.Context, s model.Session) error {
	return r.file.update(func(sessions []model.Session) ([]model.Session, error) {
		return append(sessions, s), nil
	})
}

// GetActive returns the session for the token if it has not expired.
func (r *SessionRepository) GetActive(ctx context.Context, token string, now time.Time) (*model.Session, error) {
	sessions, err := r.file.load()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Token == token && sessions[i].Active(now) {
			return &sessions[i], nil
		}
	}
	return nil, ErrSessionNotFound
}

// Delete removes the session for the token, if present.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	return r.file.update(func(sessions []model.Session) ([]model.Session, error) {
		for i := range sessions {
			if sessions[i].Token == token {
				return append(sessions[:i], sessions[i+1:]...), nil
			}
		}
		return sessions, nil
	})
}

// DeleteExpired prunes sessions whose expiry is in the past and returns
// how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	err := r.file.update(func(sessions []model.Session) ([]model.Session, error) {
		active := sessions[:0]
		for _, s := range sessions {
			if s.Active(now) {
				active = append(active, s)
			}
		}
		removed = len(sessions) - len(active)
		return active, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
