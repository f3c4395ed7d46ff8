package assistant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sivi/internal/models"
)

// CreateUser registers a user with the supplied display name.
func (s *Service) CreateUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	now := s.now()
	id, err := s.db.InsertID(ctx, s.db,
		`INSERT INTO users (username, created_at) VALUES (?, ?)`,
		username, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &models.User{ID: id, Username: username, CreatedAt: now}, nil
}

// FindUser returns the user with the given id or ErrUserNotFound.
func (s *Service) FindUser(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, ErrUserNotFound
	}
	var user models.User
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT id, username, created_at FROM users WHERE id = ?`), id,
	).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// UserWithConversations returns the user together with its history, newest first.
func (s *Service) UserWithConversations(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Conversations, err = s.History(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
