package kv

import (
	"context"
	"errors"
	"fmt"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/storage"
)

type sessionRepository struct {
	store storage.Store
}

func NewSessionRepository(store storage.Store) interfaces.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) GetUser(ctx context.Context, sessionID string) (*models.User, error) {
	var user models.User
	if _, err := r.store.Load(ctx, sessionUserKey(sessionID), &user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return &user, nil
}

func (r *sessionRepository) PutUser(ctx context.Context, sessionID string, user *models.User) error {
	if _, err := r.store.Save(ctx, sessionUserKey(sessionID), user, storage.AnyVersion); err != nil {
		return fmt.Errorf("failed to save session user: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteUser(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, sessionUserKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete session user: %w", err)
	}
	return nil
}

type accountRepository struct {
	store storage.Store
}

func NewAccountRepository(store storage.Store) interfaces.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if _, err := r.store.Load(ctx, accountKey(email), &account); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", email, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	_, err := r.store.Save(ctx, accountKey(account.User.Email), account, storage.NoVersion)
	if errors.Is(err, storage.ErrVersionConflict) {
		return fmt.Errorf("account %s: %w", account.User.Email, interfaces.ErrExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}
