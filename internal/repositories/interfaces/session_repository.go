package interfaces

import (
	"context"

	"luxedrive/internal/models"
)

type SessionRepository interface {
	GetUser(ctx context.Context, sessionID string) (*models.User, error)
	PutUser(ctx context.Context, sessionID string, user *models.User) error
	DeleteUser(ctx context.Context, sessionID string) error
}

type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// Create fails with ErrExists when the email is taken.
	Create(ctx context.Context, account *models.Account) error
}
