package store

import (
	"context"

	"github.com/google/uuid"

	"slotbook/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	// FindByLogin matches either username or email.
	FindByLogin(ctx context.Context, login string) (domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}
